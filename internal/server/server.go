// Package server is the campsite web frontend. It serves the page route
// table, keeps each visitor's session token in a browser cookie and exposes
// the auth store actions as form posts and a small JSON API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/campsite-dev/campsite-web/internal/api"
	"github.com/campsite-dev/campsite-web/internal/auth"
	"github.com/campsite-dev/campsite-web/internal/config"
	"github.com/campsite-dev/campsite-web/internal/routes"
	"github.com/campsite-dev/campsite-web/internal/views"
)

// Server represents the HTTP server
type Server struct {
	router  *gin.Engine
	config  *config.Config
	logger  zerolog.Logger
	backend auth.Backend
	routes  *routes.Table
	views   *views.Renderer
	version string
}

// New creates a new server instance
func New(cfg *config.Config, zlog zerolog.Logger, version string) (*Server, error) {
	renderer, err := views.New()
	if err != nil {
		return nil, fmt.Errorf("failed to load page templates: %w", err)
	}

	server := &Server{
		config:  cfg,
		logger:  zlog,
		backend: api.New(cfg.API),
		routes:  routes.New(),
		views:   renderer,
		version: version,
	}

	// Setup router
	server.setupRouter()

	return server, nil
}

// setupRouter configures the Gin router with routes and middleware
func (s *Server) setupRouter() {
	// Set Gin mode based on environment
	gin.SetMode(gin.ReleaseMode)

	s.router = gin.New()

	// Add middleware
	s.router.Use(gin.Recovery())
	s.router.Use(requestIDMiddleware())
	s.router.Use(s.loggingMiddleware())

	// Cross-origin requests carry credentials (the session cookie)
	if len(s.config.Server.CORSOrigins) > 0 {
		s.router.Use(cors.New(cors.Config{
			AllowOrigins:     s.config.Server.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "HEAD", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Length", requestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	s.router.GET("/health", s.healthCheck)

	pages := s.router.Group("/")
	pages.Use(SessionMiddleware(s.backend, s.config.Server.CookieSecure, s.logger))
	{
		// Form posts from the login page and the navigation bar
		pages.POST("/login", s.loginForm)
		pages.POST("/logout", s.logoutForm)

		apiGroup := pages.Group("/api")
		apiGroup.GET("/session", s.getSession)
		apiGroup.POST("/login", s.apiLogin)
		apiGroup.POST("/logout", s.apiLogout)
	}

	// Every page path is resolved through the route table. gin runs only the
	// engine-level middleware for NoRoute, so the session is attached here.
	s.router.NoRoute(SessionMiddleware(s.backend, s.config.Server.CookieSecure, s.logger), s.renderPage)

	for _, route := range s.routes.Routes() {
		s.logger.Debug().Str("path", route.Path).Str("view", string(route.View)).Msg("Mounted page route")
	}
}

// loggingMiddleware creates a custom logging middleware using zerolog
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start)

		s.logger.Info().
			Str("request_id", c.GetString(requestIDKey)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("HTTP request")
	}
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "online",
		"timestamp": time.Now().UTC(),
		"service":   "campsite-web",
		"version":   s.version,
	})
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server and blocks until SIGINT/SIGTERM
func (s *Server) Start() error {
	// Setup signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return s.Run(ctx)
}

// Run serves until ctx is done, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Server.ListenAddr,
		Handler:           s.router,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      s.config.API.Timeout + 30*time.Second, // login/logout wait on the backend
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().
			Str("addr", srv.Addr).
			Str("api_url", s.config.API.URL).
			Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info().Msg("Received shutdown signal, shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error().Err(err).Msg("Error shutting down HTTP server")
		return err
	}

	s.logger.Info().Msg("Server shutdown complete")
	return nil
}
