// cmd/client/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AlexandruGrigore19/piata-dumbro-client/internal/api"
	"github.com/AlexandruGrigore19/piata-dumbro-client/internal/config"
	"github.com/AlexandruGrigore19/piata-dumbro-client/internal/domain/cart"
	"github.com/AlexandruGrigore19/piata-dumbro-client/internal/domain/override"
	"github.com/AlexandruGrigore19/piata-dumbro-client/internal/infrastructure/storage"
	"github.com/AlexandruGrigore19/piata-dumbro-client/internal/interfaces/http"
	"github.com/AlexandruGrigore19/piata-dumbro-client/internal/interfaces/http/routes"
	"github.com/AlexandruGrigore19/piata-dumbro-client/internal/pkg/auth"
	"github.com/AlexandruGrigore19/piata-dumbro-client/internal/pkg/logging"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.New(cfg)
	logger.WithFields(map[string]interface{}{
		"name":        cfg.App.Name,
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	}).Info("starting storefront client")

	// Open the durable key-value store
	store, err := newStorage(cfg)
	if err != nil {
		logger.WithError(err).Fatal("failed to open storage")
	}
	if closer, ok := store.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	// Wire the session, backend client and stores
	session := auth.NewSession(store, logger)
	backend := api.NewClient(cfg, session, logger)
	carts := cart.NewStore(store, logger)
	overrides := override.NewStore(store, cfg.Images, logger)
	reconciler := override.NewReconciler(backend, overrides, logger)

	deps := routes.Deps{
		Backend:    backend,
		Session:    session,
		Carts:      carts,
		Overrides:  overrides,
		Reconciler: reconciler,
		Log:        logger,
	}

	server := http.NewServer(cfg, deps, store, logger)

	go func() {
		if err := server.Start(); err != nil {
			logger.WithError(err).Fatal("failed to start HTTP server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		logger.WithError(err).Error("failed to shutdown HTTP server gracefully")
	}

	logger.Info("shutdown completed")
}

// newStorage opens the configured storage backend.
func newStorage(cfg *config.Config) (storage.Storage, error) {
	switch cfg.Storage.Backend {
	case "redis":
		return storage.NewRedisStore(cfg)
	case "memory":
		return storage.NewMemoryStoreWithQuota(cfg.Storage.QuotaBytes), nil
	default:
		return storage.NewFileStore(cfg.Storage.FilePath, cfg.Storage.QuotaBytes)
	}
}
