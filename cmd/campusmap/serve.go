package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/compress"
	"github.com/gofiber/fiber/v3/middleware/etag"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"campus-map/internal/campus/handlers"
	"campus-map/internal/campus/service"
	"campus-map/internal/common/config"
	"campus-map/internal/common/middleware"
)

func newServeCmd(cfgFn func() *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the map HTTP service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), cfgFn())
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}

	d, err := bootstrap(ctx, cfg)
	if err != nil {
		return err
	}
	defer d.Close()

	sessions := service.NewSessionManager(d.assets, d.catalog, cfg.ViewportWidth, cfg.ViewportHeight)
	mapHandler := handlers.NewMapHandler(d.rooms, d.catalog, d.assets, sessions)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "Campus Map",
		ErrorHandler: handlers.ErrorHandler,
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger(cfg.IsProduction()))
	app.Use(middleware.CORS())
	app.Use(compress.New())
	app.Use(etag.New())

	// ============================================================
	// Health Check Routes
	// ============================================================

	app.Get("/health/live", handlers.LivenessProbe)
	app.Get("/health/ready", mapHandler.ReadinessProbe)

	// ============================================================
	// Map Routes
	// ============================================================

	mapHandler.Register(app.Group("/api/v1"))

	// ============================================================
	// Server Start
	// ============================================================

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-sigCtx.Done()
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown failed")
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Info().
		Str("addr", addr).
		Str("env", cfg.Environment).
		Int("floors", len(d.catalog.Floors())).
		Int("default_floor", d.catalog.DefaultFloor()).
		Msg("starting Campus Map")

	if err := app.Listen(addr, fiber.ListenConfig{DisableStartupMessage: cfg.IsProduction()}); err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return nil
}
