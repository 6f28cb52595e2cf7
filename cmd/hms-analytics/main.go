package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/hms/analytics/internal/config"
	"github.com/hms/analytics/internal/domain/analytics"
	"github.com/hms/analytics/internal/platform/datagen"
	"github.com/hms/analytics/internal/platform/middleware"
)

const version = "1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "hms-analytics",
		Short: "Hospital appointment analytics API",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(insightsCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the analytics API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func insightsCmd() *cobra.Command {
	var dataFile string
	cmd := &cobra.Command{
		Use:   "insights",
		Short: "Compute insights from a CSV export and print them as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dataFile == "" {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				dataFile = cfg.DataFile
			}

			svc := analytics.NewService(analytics.NewCSVSource(dataFile), zerolog.Nop())
			insights, err := svc.Insights(cmd.Context())
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(insights, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
	cmd.Flags().StringVar(&dataFile, "data-file", "", "CSV export to analyze (defaults to DATA_FILE)")
	return cmd
}

func seedCmd() *cobra.Command {
	var (
		out     string
		records int
		seed    int64
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Generate a synthetic appointment export",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := datagen.DefaultOptions()
			if records > 0 {
				opts.Records = records
			}
			opts.Seed = seed
			if err := datagen.WriteFile(out, opts); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d records to %s\n", opts.Records, out)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "PatientAppointmentEntry.csv", "output file")
	cmd.Flags().IntVar(&records, "records", 500, "number of appointment rows")
	cmd.Flags().Int64Var(&seed, "seed", 42, "random seed")
	return cmd
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" || os.Getenv("ENV") == "" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	if _, err := os.Stat(cfg.DataFile); err != nil {
		logger.Warn().Str("data_file", cfg.DataFile).Msg("data file not found; requests will fail until it exists")
	}

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.RequestTimeout(30 * time.Second))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet},
		AllowHeaders: []string{"Content-Type", "X-Request-ID"},
	}))

	// API group
	apiV1 := e.Group("/api/v1")

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	apiV1.Use(middleware.RateLimit(rateLimitCfg))

	// Response cache: the insight payload is recomputed from the CSV on
	// every miss, so a short TTL keeps the endpoint cheap under dashboards
	// that poll.
	cacheStore := middleware.NewInMemoryCacheStore()
	cacheCtx, cacheCancel := context.WithCancel(context.Background())
	defer cacheCancel()
	cacheStore.StartCleanup(cacheCtx, time.Minute)
	apiV1.Use(middleware.ResponseCache(cacheStore, time.Duration(cfg.CacheTTLSeconds)*time.Second))

	// Analytics domain
	svc := analytics.NewService(analytics.NewCSVSource(cfg.DataFile), logger)
	analytics.NewHandler(svc).RegisterRoutes(apiV1)

	// Service info
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"message": "Hospital Analytics API",
			"version": version,
			"endpoints": map[string]string{
				"insights": "/api/v1/analytics/doctor-patient-insights",
				"health":   "/health",
			},
		})
	})

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":    "ok",
			"version":   version,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("data_file", cfg.DataFile).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
