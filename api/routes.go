package api

import (
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"kinoveli/handlers"
)

// corsMiddleware handles CORS for API routes; the SPA frontend is served from
// a different origin during development.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// requestIDMiddleware tags every request with an ID and logs its outcome.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", reqID)

		// Client-supplied IDs can be any length; only trim long ones
		shortID := reqID
		if len(shortID) > 8 {
			shortID = shortID[:8]
		}

		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("[api] %s %s %s (%s)", shortID, r.Method, r.URL.Path, time.Since(start))
	})
}

// Register mounts API endpoints onto the provided router.
func Register(
	r *mux.Router,
	moviesHandler *handlers.MoviesHandler,
	favoritesHandler *handlers.FavoritesHandler,
) {
	api := r.PathPrefix("/api").Subrouter()
	api.Use(corsMiddleware)
	api.Use(requestIDMiddleware)

	api.HandleFunc("/movies", moviesHandler.Fetch).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/catalog/filters", moviesHandler.Filters).Methods(http.MethodGet, http.MethodOptions)

	api.HandleFunc("/favorites", favoritesHandler.List).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/favorites", favoritesHandler.Add).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/favorites/{id}", favoritesHandler.Remove).Methods(http.MethodDelete, http.MethodOptions)

	api.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet)
}
