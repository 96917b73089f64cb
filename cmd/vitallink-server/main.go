package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vitallink/vitallink/internal/config"
	"github.com/vitallink/vitallink/internal/domain/orders"
	"github.com/vitallink/vitallink/internal/domain/patient"
	"github.com/vitallink/vitallink/internal/domain/vitals"
	"github.com/vitallink/vitallink/internal/platform/advisory"
	"github.com/vitallink/vitallink/internal/platform/db"
	"github.com/vitallink/vitallink/internal/platform/middleware"
	"github.com/vitallink/vitallink/internal/platform/notify"
	"github.com/vitallink/vitallink/internal/platform/ordersource"
	"github.com/vitallink/vitallink/internal/platform/sandbox"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "vitallink-server",
		Short: "Ward vitals monitoring API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if !cfg.UseDatabase() {
				return fmt.Errorf("DATABASE_URL is required for migrations")
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			return db.NewMigrator(pool).Up(ctx)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if !cfg.UseDatabase() {
				return fmt.Errorf("DATABASE_URL is required for migrations")
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			status, err := db.NewMigrator(pool).Status(ctx)
			if err != nil {
				return err
			}
			for _, m := range db.Migrations() {
				state := "pending"
				if status[m.Version] {
					state = "applied"
				}
				fmt.Printf("%3d  %-20s %s\n", m.Version, m.Name, state)
			}
			return nil
		},
	})

	return cmd
}

func runServer() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	ctx := context.Background()

	// Stores: Postgres when configured, in-memory otherwise.
	var (
		patientRepo patient.Repository
		fluidRepo   patient.FluidRepository
		readingRepo vitals.Repository
		orderRepo   orders.Repository
		pool        *pgxpool.Pool
	)
	if cfg.UseDatabase() {
		pool, err = db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pool.Close()
		if err := db.NewMigrator(pool).Up(ctx); err != nil {
			logger.Fatal().Err(err).Msg("failed to run migrations")
		}
		patientRepo = patient.NewRepoPG(pool)
		fluidRepo = patient.NewFluidRepoPG(pool)
		readingRepo = vitals.NewRepoPG(pool)
		orderRepo = orders.NewRepoPG(pool)
		logger.Info().Msg("connected to database")
	} else {
		patientRepo = patient.NewMemoryRepo()
		fluidRepo = patient.NewMemoryFluidRepo()
		readingRepo = vitals.NewMemoryRepo()
		orderRepo = orders.NewMemoryRepo()
		logger.Info().Msg("running with in-memory stores")
	}

	// Notifications
	var sender notify.Sender
	if cfg.NotifyWebhook != "" {
		sender = notify.NewWebhookSender(cfg.NotifyWebhook)
	} else {
		sender = notify.NewLogSender(logger)
	}
	notifyMgr := notify.NewManager(sender)

	// Remote order feed
	var remote orders.RemoteSource
	if cfg.OrderSourceURL != "" {
		remote = ordersource.NewClient(cfg.OrderSourceURL)
	}

	// Services
	patientSvc := patient.NewService(patientRepo, fluidRepo)
	gate := vitals.NewDispatchGate(notifyMgr, logger)
	vitalsSvc := vitals.NewService(readingRepo, patientRepo, gate)
	ordersSvc := orders.NewService(orderRepo, patientRepo, remote)

	if cfg.SeedDemoData {
		seeder := sandbox.NewSeeder(patientRepo, fluidRepo, readingRepo, orderRepo, logger)
		if err := seeder.Seed(ctx); err != nil {
			logger.Fatal().Err(err).Msg("failed to seed demo data")
		}
	}

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Content-Type", "X-Request-ID"},
	}))

	apiV1 := e.Group("/api/v1")
	apiV1.Use(middleware.RateLimit(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}))

	patient.NewHandler(patientSvc).RegisterRoutes(apiV1)
	vitals.NewHandler(vitalsSvc).RegisterRoutes(apiV1)
	orders.NewHandler(ordersSvc).RegisterRoutes(apiV1)
	notify.NewHandler(notifyMgr).RegisterRoutes(apiV1)

	if cfg.AdvisoryAPIKey != "" {
		client := advisory.NewClient(cfg.AdvisoryAPIKey, advisory.WithModel(cfg.AdvisoryModel))
		advisory.NewHandler(client, patientRepo, readingRepo).RegisterRoutes(apiV1)
		logger.Info().Str("model", cfg.AdvisoryModel).Msg("advisory endpoints enabled")
	}

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})
	if pool != nil {
		e.GET("/health/db", db.HealthHandler(pool))
	}

	// Schedule refresher
	refreshCtx, stopRefresh := context.WithCancel(ctx)
	defer stopRefresh()
	refresher := vitals.NewRefresher(patientRepo, readingRepo, logger)
	refresher.Interval = cfg.RefreshInterval
	go refresher.Start(refreshCtx)

	// Start server
	addr := ":" + cfg.Port
	go func() {
		logger.Info().Str("addr", addr).Msg("server starting")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	stopRefresh()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
