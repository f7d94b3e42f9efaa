// ABOUTME: Main entry point for the Mealie bridge server
// ABOUTME: Wires together all components and starts the HTTP server

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"mealie-bridge-api/api"
	"mealie-bridge-api/api/handlers"
	"mealie-bridge-api/core/coordinator"
	"mealie-bridge-api/core/interfaces"
	"mealie-bridge-api/core/mealie"
	"mealie-bridge-api/core/settings"
	localbrowser "mealie-bridge-api/infrastructure/browser/local"
	stdhttp "mealie-bridge-api/infrastructure/http/standard"
	logruslogger "mealie-bridge-api/infrastructure/logger/logrus"
	"mealie-bridge-api/infrastructure/secrets/keyring"
	"mealie-bridge-api/infrastructure/storage/memory"
	redisstorage "mealie-bridge-api/infrastructure/storage/redis"
	"mealie-bridge-api/infrastructure/storage/sqlite"
	"mealie-bridge-api/pkg/config"
)

func main() {
	// Load .env if present; environment variables take precedence
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Create logger
	logger := logruslogger.NewLogger(cfg.LogLevel)
	logger.Info("Starting Mealie bridge", map[string]interface{}{
		"port":         cfg.Server.Port,
		"storage_type": cfg.Storage.Type,
	})

	// Create storage
	storage := newStorage(cfg, logger)

	// Create secret store
	var secrets interfaces.SecretStore
	if cfg.Storage.UseKeyring {
		if keyring.Available() {
			secrets = keyring.NewStore()
			logger.Info("Using OS keyring for the API token", nil)
		} else {
			logger.Warn("OS keyring unavailable, storing the API token in settings storage", nil)
		}
	}

	// Create HTTP client
	httpClient := stdhttp.NewStandardHTTPClient(30 * time.Second)

	// Create the local host binding
	browser := localbrowser.NewBrowser(storage, logger)

	// Create dependencies container
	deps := interfaces.Dependencies{
		Storage:    storage,
		Secrets:    secrets,
		HTTPClient: httpClient,
		Logger:     logger,
		Browser:    browser,
	}

	// Create services
	store := settings.NewStore(deps)
	clientOpts := []mealie.Option{
		mealie.WithProbeTimeout(time.Duration(cfg.Import.ProbeTimeoutSeconds) * time.Second),
		mealie.WithMinContentLength(int64(cfg.Import.MinContentLength)),
	}
	coordinatorService := coordinator.NewService(deps, store,
		coordinator.WithClientOptions(clientOpts...),
		coordinator.WithSlugPollAttempts(cfg.Import.SlugPollAttempts),
	)
	settingsService := settings.NewService(deps, store, coordinatorService,
		settings.WithClientOptions(clientOpts...),
	)

	// Create API with middleware
	apiConfig := api.APIConfig{
		Logger:    logger,
		RateLimit: cfg.Server.RateLimit,
	}
	humaAPI, router := api.NewAPIWithMiddleware(apiConfig)

	// Create and register handlers
	messageHandler := handlers.NewMessageHandler(coordinatorService, browser, deps, store)
	messageHandler.RegisterRoutes(humaAPI)

	settingsHandler := handlers.NewSettingsHandler(settingsService, store)
	settingsHandler.RegisterRoutes(humaAPI)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("HTTP server starting", map[string]interface{}{
			"address": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", map[string]interface{}{
				"error": err.Error(),
			})
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...", nil)

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", map[string]interface{}{
			"error": err.Error(),
		})
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server stopped", nil)
}

// newStorage builds the configured storage backend, falling back to
// memory when the backend cannot be reached.
func newStorage(cfg *config.Config, logger interfaces.Logger) interfaces.Storage {
	switch cfg.Storage.Type {
	case "sqlite":
		client, err := sqlite.NewSQLiteStorage(cfg.Storage.SQLite.Path)
		if err != nil {
			logger.Error("Failed to open SQLite storage, falling back to memory", map[string]interface{}{
				"path":  cfg.Storage.SQLite.Path,
				"error": err.Error(),
			})
			return memory.NewMemoryStorage()
		}
		logger.Info("Using SQLite storage", map[string]interface{}{
			"path": cfg.Storage.SQLite.Path,
		})
		return client
	case "redis":
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		client, err := redisstorage.NewRedisStorage(ctx, cfg.Storage.Redis)
		if err != nil {
			logger.Error("Failed to connect to Redis, falling back to memory", map[string]interface{}{
				"address": cfg.Storage.Redis.Address,
				"error":   err.Error(),
			})
			return memory.NewMemoryStorage()
		}
		logger.Info("Using Redis storage", map[string]interface{}{
			"address": cfg.Storage.Redis.Address,
		})
		return client
	default:
		logger.Info("Using memory storage", nil)
		return memory.NewMemoryStorage()
	}
}
