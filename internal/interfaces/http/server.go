// internal/interfaces/http/server.go
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/AlexandruGrigore19/piata-dumbro-client/internal/config"
	"github.com/AlexandruGrigore19/piata-dumbro-client/internal/infrastructure/storage"
	"github.com/AlexandruGrigore19/piata-dumbro-client/internal/interfaces/http/middleware"
	"github.com/AlexandruGrigore19/piata-dumbro-client/internal/interfaces/http/routes"
)

// Server is the local HTTP facade the view layer talks to.
type Server struct {
	config     *config.Config
	gin        *gin.Engine
	httpServer *http.Server
	deps       routes.Deps
	store      storage.Storage
	log        *logrus.Logger
}

// NewServer creates a new HTTP server instance over the wired stores.
func NewServer(cfg *config.Config, deps routes.Deps, store storage.Storage, log *logrus.Logger) *Server {
	return &Server{
		config: cfg,
		deps:   deps,
		store:  store,
		log:    log,
	}
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	if s.config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	s.gin = gin.New()
	s.setupMiddleware()
	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         ":" + s.config.Server.Port,
		Handler:      s.gin,
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
	}

	s.log.WithField("port", s.config.Server.Port).Info("HTTP server starting")

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// Stop gracefully stops the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("shutting down HTTP server")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	s.log.Info("HTTP server stopped")
	return nil
}

// setupMiddleware configures all middleware for the server
func (s *Server) setupMiddleware() {
	s.gin.Use(gin.Recovery())
	s.gin.Use(middleware.Logger(s.log))
	s.gin.Use(middleware.RequestID())
	s.gin.Use(middleware.CORS(s.config))
	s.gin.Use(middleware.LoadUser(s.deps.Session))
}

// setupRoutes configures all routes for the server
func (s *Server) setupRoutes() {
	s.gin.GET("/health", s.healthCheck)

	apiV1 := s.gin.Group("/api/v1")
	routes.SetupRoutes(apiV1, s.deps)

	if s.config.IsDevelopment() {
		s.gin.GET("/", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"message":     s.config.App.Name,
				"version":     s.config.App.Version,
				"environment": s.config.App.Environment,
				"health":      "/health",
				"endpoints": gin.H{
					"auth":     "/api/v1/auth",
					"cart":     "/api/v1/cart",
					"shops":    "/api/v1/shops",
					"products": "/api/v1/products",
				},
			})
		})
	}
}

// healthCheck handles health check requests. The storage backend is
// the only hard dependency; the marketplace API being down degrades
// features but does not make the client unhealthy.
func (s *Server) healthCheck(c *gin.Context) {
	if err := storageHealth(s.store); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  "storage unavailable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"version":     s.config.App.Version,
		"environment": s.config.App.Environment,
	})
}

// storageHealth probes the storage backend. Backends with a dedicated
// health check use it; the rest answer with a read.
func storageHealth(store storage.Storage) error {
	type healthChecker interface {
		Health() error
	}
	if hc, ok := store.(healthChecker); ok {
		return hc.Health()
	}

	if _, err := store.Get("health_probe"); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return err
	}
	return nil
}
