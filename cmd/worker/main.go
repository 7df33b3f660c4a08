// Package main provides the entrypoint for the skyreport ingestion worker.
// It runs the ingestion path on a fixed schedule for the configured
// default coordinate so the store stays warm between manual requests.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"

	"github.com/skyreport/skyreport/internal/config"
	"github.com/skyreport/skyreport/internal/database"
	"github.com/skyreport/skyreport/internal/observation"
	"github.com/skyreport/skyreport/internal/observation/openmeteo"
	"github.com/skyreport/skyreport/internal/report"
)

// Version is set at compile time via ldflags.
var Version = "dev"

func main() {
	const serviceName = "skyreport-worker"

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	cfg := config.Load()

	coord, ok := cfg.DefaultCoordinate()
	if !ok {
		log.Fatal().Msg("DEFAULT_LAT/DEFAULT_LON must be set for the ingestion worker")
	}

	ctx := context.Background()

	pool, err := database.Connect(ctx, database.ConfigFromEnv())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	if err := observation.EnsureSchema(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure schema")
	}

	pipeline := report.NewService(report.ServiceConfig{
		Fetcher: openmeteo.NewClient(openmeteo.ClientConfig{Logger: log}),
		Store:   observation.NewPostgresStore(pool),
		Logger:  log,
	})

	ingest := func() {
		runCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		summary, err := pipeline.Ingest(runCtx, coord.Lat, coord.Lon)
		if err != nil {
			log.Error().
				Err(err).
				Float64("lat", coord.Lat).
				Float64("lon", coord.Lon).
				Msg("scheduled ingestion failed")
			return
		}
		log.Info().
			Int("inserted", summary.Inserted).
			Msg("scheduled ingestion completed")
	}

	scheduler := gocron.NewScheduler(time.UTC)
	if _, err := scheduler.Every(cfg.IngestInterval).Do(ingest); err != nil {
		log.Fatal().Err(err).Msg("failed to schedule ingestion")
	}

	log.Info().
		Dur("interval", cfg.IngestInterval).
		Float64("lat", coord.Lat).
		Float64("lon", coord.Lon).
		Msg("ingestion worker started")
	scheduler.StartAsync()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	scheduler.Stop()
	log.Info().Msg("worker stopped")
}
