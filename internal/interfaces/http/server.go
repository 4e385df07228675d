// internal/interfaces/http/server.go
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/your-org/course-registration/internal/config"
	"github.com/your-org/course-registration/internal/domain/cart"
	"github.com/your-org/course-registration/internal/domain/catalog"
	"github.com/your-org/course-registration/internal/domain/order"
	"github.com/your-org/course-registration/internal/domain/payment"
	"github.com/your-org/course-registration/internal/domain/validation"
	"github.com/your-org/course-registration/internal/interfaces/http/handlers"
	"github.com/your-org/course-registration/internal/interfaces/http/middleware"
	"github.com/your-org/course-registration/internal/interfaces/http/routes"
	"github.com/your-org/course-registration/internal/pkg/auth"
)

// HealthCheck checks one dependency
type HealthCheck struct {
	Name  string
	Check func() error
}

// Dependencies are the services the HTTP surface exposes
type Dependencies struct {
	Catalog     *catalog.Service
	Cart        *cart.Service
	Orders      *order.Service
	Payments    *payment.Service
	Sessions    *auth.SessionManager
	RateCounter middleware.Counter
	Checks      []HealthCheck
}

// Server represents the HTTP server
type Server struct {
	config     *config.Config
	deps       *Dependencies
	logger     *logrus.Logger
	gin        *gin.Engine
	httpServer *http.Server
	startedAt  time.Time
}

// NewServer creates a new HTTP server instance
func NewServer(cfg *config.Config, deps *Dependencies, logger *logrus.Logger) *Server {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	validation.Engine()

	s := &Server{
		config:    cfg,
		deps:      deps,
		logger:    logger,
		gin:       gin.New(),
		startedAt: time.Now(),
	}

	if err := s.gin.SetTrustedProxies(cfg.Security.TrustedProxies); err != nil {
		logger.WithError(err).Warn("Invalid trusted proxy list, trusting none")
		_ = s.gin.SetTrustedProxies(nil)
	}

	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// Handler returns the configured gin engine
func (s *Server) Handler() http.Handler {
	return s.gin
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         ":" + s.config.Server.Port,
		Handler:      s.gin,
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
	}

	s.logger.Infof("🚀 HTTP Server starting on port %s", s.config.Server.Port)
	s.logger.Infof("🌐 API Base URL: http://localhost:%s/api/v1", s.config.Server.Port)
	s.logger.Infof("📊 Health Check: http://localhost:%s/health", s.config.Server.Port)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("🛑 Shutting down HTTP server...")

	if s.httpServer == nil {
		return nil
	}
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	s.logger.Info("✅ HTTP server stopped gracefully")
	return nil
}

// setupMiddleware configures the middleware shared by every route
func (s *Server) setupMiddleware() {
	s.gin.Use(gin.Recovery())
	s.gin.Use(middleware.RequestID())
	s.gin.Use(middleware.Logger(s.logger))
	s.gin.Use(middleware.CORS(s.config.Security))
	s.gin.Use(middleware.SecurityHeaders())
	s.gin.Use(middleware.RequestSizeLimit(1 << 20))
}

// setupRoutes configures all routes for the server
func (s *Server) setupRoutes() {
	s.gin.GET("/health", s.healthCheck)
	s.gin.GET("/ready", s.readinessCheck)
	s.gin.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiV1 := s.gin.Group("/api/v1")
	apiV1.Use(middleware.RateLimit(s.config.Security.RateLimitPerMinute, s.deps.RateCounter, s.logger))
	apiV1.Use(middleware.Timeout(s.config.Server.RequestTimeout))
	apiV1.Use(middleware.Session(s.deps.Sessions, middleware.SessionOptions{
		CookieName: s.config.Session.CookieName,
		Secure:     s.config.Session.SecureCookie,
	}, s.logger))

	routes.SetupRoutes(apiV1, &routes.Handlers{
		Catalog:      handlers.NewCatalogHandler(s.deps.Catalog),
		Cart:         handlers.NewCartHandler(s.deps.Cart),
		Registration: handlers.NewRegistrationHandler(s.deps.Orders),
		Payment:      handlers.NewPaymentHandler(s.deps.Payments),
	})

	if s.config.IsDevelopment() {
		s.gin.GET("/", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"message":     s.config.App.Name,
				"version":     s.config.App.Version,
				"environment": s.config.App.Environment,
				"health":      "/health",
				"endpoints": gin.H{
					"courses":      "/api/v1/courses",
					"cart":         "/api/v1/cart",
					"checkout":     "/api/v1/checkout",
					"registration": "/api/v1/registration",
					"payment":      "/api/v1/payment",
				},
			})
		})
	}
}

// healthCheck handles health check requests
func (s *Server) healthCheck(c *gin.Context) {
	for _, check := range s.deps.Checks {
		if err := check.Check(); err != nil {
			s.logger.WithError(err).WithField("dependency", check.Name).Warn("Health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  check.Name + " ping failed",
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"version":     s.config.App.Version,
		"environment": s.config.App.Environment,
	})
}

// readinessCheck handles readiness check requests
func (s *Server) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ready",
		"timestamp": time.Now().UTC(),
		"uptime":    time.Since(s.startedAt).String(),
	})
}
