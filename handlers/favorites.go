package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"kinoveli/models"
	"kinoveli/services/favorites"
)

// FavoritesHandler exposes the saved-movies list.
type FavoritesHandler struct {
	Service *favorites.Service
}

func NewFavoritesHandler(s *favorites.Service) *FavoritesHandler {
	return &FavoritesHandler{Service: s}
}

// List handles GET /api/favorites.
func (h *FavoritesHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Service.List())
}

// Add handles POST /api/favorites.
func (h *FavoritesHandler) Add(w http.ResponseWriter, r *http.Request) {
	var payload models.FavoriteUpsert
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	fav, err := h.Service.Add(payload)
	if err != nil {
		if errors.Is(err, favorites.ErrIDRequired) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, fav)
}

// Remove handles DELETE /api/favorites/{id}.
func (h *FavoritesHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(mux.Vars(r)["id"])
	if err := h.Service.Remove(id); err != nil {
		if errors.Is(err, favorites.ErrIDRequired) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"removed": true})
}
