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

	"cinefeed/api"
	"cinefeed/config"
	"cinefeed/handlers"
	"cinefeed/services/catalog"
	"cinefeed/services/homepage"
	"cinefeed/services/search"
	"cinefeed/store"
)

func main() {
	portOverride := flag.Int("port", 0, "override server port from config")
	flag.Parse()

	fmt.Println("🎬 cinefeed starting...")

	configPath := os.Getenv("CINEFEED_CONFIG")
	if configPath == "" {
		configPath = filepath.Join("cache", "settings.json")
	}

	cfgManager := config.NewManager(configPath)
	settings, err := cfgManager.Load()
	if err != nil {
		log.Fatalf("failed to load settings: %v", err)
	}
	if *portOverride > 0 {
		settings.Server.Port = *portOverride
	}

	// Set up file logging with rotation
	if settings.Log.File != "" {
		logDir := filepath.Dir(settings.Log.File)
		if err := os.MkdirAll(logDir, 0o755); err != nil {
			log.Printf("Warning: could not create log directory %s: %v", logDir, err)
		} else {
			fileWriter := &lumberjack.Logger{
				Filename:   settings.Log.File,
				MaxSize:    settings.Log.MaxSize,
				MaxBackups: settings.Log.MaxBackups,
				MaxAge:     settings.Log.MaxAge,
				Compress:   settings.Log.Compress,
			}
			log.SetOutput(io.MultiWriter(os.Stdout, fileWriter))
		}
	}

	apiKey := settings.Catalog.APIKey
	if env := os.Getenv("CINEFEED_CATALOG_API_KEY"); env != "" {
		apiKey = env
	}

	httpc := &http.Client{Timeout: time.Duration(settings.Catalog.TimeoutSeconds) * time.Second}
	catalogClient := catalog.NewClient(settings.Catalog.BaseURL, apiKey, httpc)
	if !catalogClient.IsConfigured() {
		log.Printf("Warning: no catalog API key configured; upstream requests will fail")
	}

	staleness := time.Duration(settings.Cache.StalenessMinutes) * time.Minute
	homepageSvc := homepage.NewService(catalogClient, staleness)
	searchSvc := search.NewService(catalogClient, time.Duration(settings.Search.DebounceMillis)*time.Millisecond, staleness)
	filterStore := store.New()

	r := mux.NewRouter()
	api.Register(r,
		handlers.NewHomepageHandler(homepageSvc),
		handlers.NewSearchHandler(searchSvc),
		handlers.NewMoviesHandler(catalogClient),
		handlers.NewFiltersHandler(filterStore),
	)

	addr := fmt.Sprintf("%s:%d", settings.Server.Host, settings.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-shutdownChan
	log.Println("🛑 Shutdown signal received, cleaning up...")

	searchSvc.Cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	log.Println("✅ Shutdown complete")
}
