package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"storesite/docs"
	"storesite/internal/app"
	"storesite/internal/config"
	handlers "storesite/internal/http/handler"
	"storesite/internal/http/middleware"
	"storesite/internal/logger"
	"storesite/internal/otel"
	"storesite/internal/service"
)

// @title Storesite API
// @version 1.0
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, os.Stdout, cfg.Location())
	if err := run(cfg, log); err != nil {
		log.Error().Err(err).Str("event", "server_failed").Msg("server exited")
		os.Exit(1)
	}
}

// run owns every resource the server opens; returning lets the deferred
// cleanups flush traces and close the database before the process exits.
func run(cfg *config.AppConfig, log zerolog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, log, "storesite")
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	p, err := app.New(ctx, cfg, log, prometheus.DefaultRegisterer)
	if err != nil {
		return fmt.Errorf("init pipeline: %w", err)
	}
	defer p.Close()

	store := service.NewCatalogStore(nil)
	rebuilder := service.NewRebuilder(p.Site, store, p.Builds, p.Storage != nil, logger.Component(log, "rebuild"))

	// The first build fills the catalog; without it the server still serves dist.
	if _, err := rebuilder.Run(ctx); err != nil && store.Catalog() == nil {
		log.Warn().Err(err).Str("event", "initial_build_failed").Msg("serving existing dist without a catalog")
	}

	var scheduler *cron.Cron
	if cfg.Site.RebuildSchedule != "" {
		scheduler = cron.New(cron.WithLocation(cfg.Location()))
		_, err := scheduler.AddFunc(cfg.Site.RebuildSchedule, func() {
			if _, err := rebuilder.Run(ctx); err != nil && !errors.Is(err, service.ErrRebuildInProgress) {
				log.Warn().Err(err).Str("event", "scheduled_rebuild_failed").Msg("scheduled rebuild failed")
			}
		})
		if err != nil {
			return fmt.Errorf("invalid rebuild schedule %q: %w", cfg.Site.RebuildSchedule, err)
		}
		scheduler.Start()
		log.Info().Str("event", "rebuild_scheduled").Str("schedule", cfg.Site.RebuildSchedule).Msg("scheduled rebuilds enabled")
	}

	promMW, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		return fmt.Errorf("register http metrics: %w", err)
	}

	srv := fiber.New(fiber.Config{
		ErrorHandler:          handlers.ErrorHandler(log),
		DisableStartupMessage: true,
	})

	// Register global middleware
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	srv.Use(middleware.RequestID())
	srv.Use(otelfiber.Middleware())
	srv.Use(middleware.SecurityHeaders())
	srv.Use(middleware.Logger(log))
	srv.Use(promMW.Handler())

	// Swagger UI with dynamic host and scheme
	srv.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	handlers.RegisterRoutes(srv, handlers.Deps{
		DB:      p.DB,
		Builds:  p.Builds,
		Catalog: store,
		Site:    handlers.NewSiteHandler(cfg.Site.DistDir, cfg.Site.Template(), p.Company, store, logger.Component(log, "site")),
	})

	go func() {
		<-ctx.Done()
		if scheduler != nil {
			<-scheduler.Stop().Done()
		}
		if err := srv.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error().Err(err).Str("event", "shutdown_failed").Msg("graceful shutdown failed")
		}
	}()

	addr := ":" + cfg.Port
	log.Info().Str("event", "server_started").Str("addr", addr).Str("dist", cfg.Site.DistDir).Msg("listening")
	if err := srv.Listen(addr); err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	log.Info().Str("event", "server_stopped").Msg("shutdown complete")
	return nil
}
