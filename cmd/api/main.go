// cmd/api/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/course-registration/internal/config"
	"github.com/your-org/course-registration/internal/domain/cart"
	"github.com/your-org/course-registration/internal/domain/catalog"
	"github.com/your-org/course-registration/internal/domain/order"
	"github.com/your-org/course-registration/internal/domain/payment"
	"github.com/your-org/course-registration/internal/domain/pricing"
	"github.com/your-org/course-registration/internal/domain/session"
	"github.com/your-org/course-registration/internal/infrastructure/database/postgres"
	"github.com/your-org/course-registration/internal/infrastructure/database/redis"
	"github.com/your-org/course-registration/internal/infrastructure/gateway"
	"github.com/your-org/course-registration/internal/interfaces/http"
	"github.com/your-org/course-registration/internal/metrics"
	"github.com/your-org/course-registration/internal/pkg/auth"
	"github.com/your-org/course-registration/internal/pkg/logger"
	"github.com/your-org/course-registration/internal/pkg/pdf"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logg := logger.New(cfg.Logging)
	logg.Infof("🚀 Starting %s v%s in %s mode", cfg.App.Name, cfg.App.Version, cfg.App.Environment)

	metrics.Register()

	var checks []http.HealthCheck

	// Session and cache storage
	var store *redis.Client
	if cfg.Session.Store == "redis" {
		store, err = redis.NewConnection(cfg, logg)
		if err != nil {
			logg.Fatalf("Failed to connect to Redis: %v", err)
		}
	} else {
		logg.Warn("Using embedded Redis; sessions are lost on restart")
		store, err = redis.NewEmbedded(logg)
		if err != nil {
			logg.Fatalf("Failed to start embedded Redis: %v", err)
		}
	}
	defer store.Close()
	checks = append(checks, http.HealthCheck{Name: "redis", Check: store.Health})

	// Optional submission journal
	var journal order.Journal = order.NopJournal{}
	if cfg.Database.Enabled {
		db, err := postgres.NewConnection(cfg, logg)
		if err != nil {
			logg.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := db.Health(); err != nil {
			logg.Fatalf("Database health check failed: %v", err)
		}

		migration := postgres.NewMigration(db.GetDB(), logg)
		if err := migration.RunAutoMigrations(); err != nil {
			logg.Fatalf("Database migration failed: %v", err)
		}
		if err := migration.CreateIndexes(); err != nil {
			logg.Warnf("Index creation failed: %v", err)
		}

		journal = order.NewGormJournal(db.GetDB())
		checks = append(checks, http.HealthCheck{Name: "database", Check: db.Health})
	}

	// Remote backend
	var gw gateway.Gateway
	if cfg.UsesLocalGateway() {
		logg.Warn("GATEWAY_URL is not set; serving the built-in course catalog")
		gw = gateway.NewLocalGateway(logg)
	} else {
		gw = gateway.NewClient(cfg.Gateway, logg)
	}

	deps := buildDependencies(cfg, store, gw, journal, logg)
	deps.Checks = checks

	logg.Info("✅ All systems operational!")

	server := http.NewServer(cfg, deps, logg)

	go func() {
		if err := server.Start(); err != nil {
			logg.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logg.Info("👋 Shutting down gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		logg.Errorf("Failed to shutdown HTTP server gracefully: %v", err)
	}

	logg.Info("✅ Server shutdown completed")
}

func buildDependencies(cfg *config.Config, store *redis.Client, gw gateway.Gateway, journal order.Journal, logg *logrus.Logger) *http.Dependencies {
	sessions := session.NewStore(store, cfg.Session.TTL, cfg.Session.InFlightTTL, logg)
	catalogService := catalog.NewService(gw, store, cfg.Session.CatalogTTL, logg)
	engine := pricing.NewEngine(pricing.DiscountConfig{
		Rate:       cfg.Discount.Rate,
		MinCourses: cfg.Discount.MinCourses,
		MinPersons: cfg.Discount.MinPersons,
	})
	cartService := cart.NewService(sessions, catalogService, engine, logg)
	orderService := order.NewService(sessions, cartService, gw, journal, catalogService, cfg.Registration.EducationLevels, logg)
	paymentService := payment.NewService(sessions, orderService, gw, journal, pdf.NewService(cfg), cfg.Payment, logg)

	return &http.Dependencies{
		Catalog:     catalogService,
		Cart:        cartService,
		Orders:      orderService,
		Payments:    paymentService,
		Sessions:    auth.NewSessionManager(cfg),
		RateCounter: store,
	}
}
