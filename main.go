package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"gopkg.in/natefinch/lumberjack.v2"

	"kinoveli/api"
	"kinoveli/config"
	"kinoveli/handlers"
	"kinoveli/internal/database"
	"kinoveli/services/catalog"
	"kinoveli/services/favorites"
	"kinoveli/services/translate"
)

func main() {
	portOverride := flag.Int("port", 0, "override server port from config")
	flag.Parse()

	fmt.Println("🎬 kinoveli backend starting...")

	configPath := os.Getenv("KINOVELI_CONFIG")
	if configPath == "" {
		configPath = filepath.Join("cache", "settings.json")
	}

	cfgManager := config.NewManager(configPath)
	settings, err := cfgManager.Load()
	if err != nil {
		log.Fatalf("failed to load settings: %v", err)
	}

	// Set up file logging with rotation
	if settings.Log.File != "" {
		logDir := filepath.Dir(settings.Log.File)
		if err := os.MkdirAll(logDir, 0o755); err != nil {
			log.Printf("warning: could not create log directory %s: %v", logDir, err)
		} else {
			fileWriter := &lumberjack.Logger{
				Filename:   settings.Log.File,
				MaxSize:    settings.Log.MaxSize,
				MaxBackups: settings.Log.MaxBackups,
				MaxAge:     settings.Log.MaxAge,
				Compress:   settings.Log.Compress,
			}
			log.SetOutput(io.MultiWriter(os.Stdout, fileWriter))
			log.SetFlags(log.LstdFlags | log.Lshortfile)
			log.Printf("logging to file: %s", settings.Log.File)
		}
	}

	if *portOverride > 0 {
		settings.Server.Port = *portOverride
	}

	if settings.TMDB.APIKey == "" {
		log.Printf("warning: no TMDB API key configured; movie queries will fail until one is set in %s", configPath)
	}
	if settings.Translator.APIKey == "" {
		log.Printf("warning: no translator API key configured; results will keep provider-native text")
	}

	store, err := database.Open(settings.Database.Path)
	if err != nil {
		log.Fatalf("failed to open key-value store: %v", err)
	}
	defer store.Close()

	translatorService := translate.NewService(settings.Translator, settings.Catalog, store, nil)
	catalogService := catalog.NewService(settings.TMDB, settings.Ratings, settings.Catalog, translatorService, nil)

	favoritesService, err := favorites.NewService(store)
	if err != nil {
		log.Fatalf("failed to initialise favorites: %v", err)
	}

	r := mux.NewRouter()
	api.Register(
		r,
		handlers.NewMoviesHandler(catalogService, settings.Catalog),
		handlers.NewFavoritesHandler(favoritesService),
	)

	addr := fmt.Sprintf("%s:%d", settings.Server.Host, settings.Server.Port)
	fmt.Printf("Server starting on %s\n", addr)

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-shutdownChan
	log.Println("🛑 shutdown signal received, cleaning up...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	log.Println("✅ shutdown complete")
}
