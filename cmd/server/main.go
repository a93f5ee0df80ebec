package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/lytedev/netlify-ddns/internal/api"
	"github.com/lytedev/netlify-ddns/internal/auth"
	"github.com/lytedev/netlify-ddns/internal/config"
	"github.com/lytedev/netlify-ddns/internal/credentials"
	"github.com/lytedev/netlify-ddns/internal/logger"
	"github.com/lytedev/netlify-ddns/internal/netlify"
	"github.com/lytedev/netlify-ddns/internal/service"
	"github.com/lytedev/netlify-ddns/internal/storage"
	"github.com/lytedev/netlify-ddns/internal/storage/memory"
	"github.com/lytedev/netlify-ddns/internal/storage/sql"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logr, err := logger.New(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logr.Sync()

	// Load the credential and mapping tables once
	src, err := openCredentialSource(cfg)
	if err != nil {
		logr.Fatal("failed to open credential source", zap.String("source", cfg.Credentials.Source), zap.Error(err))
	}
	store, err := credentials.Load(context.Background(), src, logr)
	src.Close()
	if err != nil {
		logr.Fatal("failed to load credentials", zap.Error(err))
	}

	// Initialize Netlify client (or file shim for testing)
	var client netlify.RecordClient
	if cfg.UseFileShim() {
		logr.Info("using file shim for Netlify API", zap.String("path", cfg.Netlify.FileShim))
		client = netlify.NewFileShim(cfg.Netlify.FileShim, logr)
	} else {
		if cfg.Netlify.DefaultToken == "" {
			logr.Warn("DEFAULT_NETLIFY_API_TOKEN is not set; every request must send a netlify-token header")
		}
		c, err := netlify.New(netlify.Options{
			Endpoint:     cfg.Netlify.Endpoint,
			DefaultToken: cfg.Netlify.DefaultToken,
			Timeout:      cfg.Netlify.RequestTimeout,
		}, logr)
		if err != nil {
			logr.Fatal("failed to initialize Netlify client", zap.Error(err))
		}
		client = c
	}

	ddnsService := service.NewDDNSService(store, client, cfg.Netlify.DefaultTTL, logr)

	// Create router
	router := api.NewRouter(
		auth.NewAuthenticator(store, logr),
		ddnsService,
		logr,
		api.Options{TrustProxyHeaders: cfg.Server.TrustProxyHeaders},
	)

	// Create HTTP server. A request lists a zone and then creates and
	// deletes concurrently, so it may take two provider round trips.
	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2*cfg.Netlify.RequestTimeout + 10*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	logr.Info("starting netlify-ddns", zap.String("addr", "http://"+cfg.Server.Addr()))

	// Start server in goroutine
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logr.Info("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logr.Fatal("server forced to shutdown", zap.Error(err))
	}

	logr.Info("server stopped")
}

func openCredentialSource(cfg *config.Config) (storage.Storage, error) {
	if cfg.Credentials.Source != config.CredentialsSourceSQL {
		return memory.FromJSON(cfg.Credentials.UsersJSON, cfg.Credentials.MappingsJSON)
	}

	// Create data directory if needed (for SQLite)
	if cfg.Database.Driver == "sqlite3" {
		if err := os.MkdirAll(filepath.Dir(cfg.Database.DSN), 0755); err != nil {
			return nil, err
		}
	}
	return sql.New(cfg.Database.Driver, cfg.Database.DSN)
}
