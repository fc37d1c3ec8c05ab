package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/angeloszaimis/climate-api/config"
	"github.com/angeloszaimis/climate-api/internal/dataset"
	"github.com/angeloszaimis/climate-api/internal/handler"
	"github.com/angeloszaimis/climate-api/internal/healthcheck"
	"github.com/angeloszaimis/climate-api/internal/httpserver"
	"github.com/angeloszaimis/climate-api/internal/metrics"
	"github.com/angeloszaimis/climate-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("err", err))
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Environment: cfg.Server.Environment,
		AddSource:   true,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// The listener is not created until the dataset is fully loaded.
	ds, err := loadDataset(cfg, log)
	if err != nil {
		log.Error("Failed to load dataset",
			slog.String("path", cfg.Dataset.Path),
			slog.Any("err", err))
		os.Exit(1)
	}
	loadedAt := time.Now()

	var collector *metrics.Collector
	if cfg.Metrics.Enabled {
		collector = metrics.NewCollector(cfg.Metrics.BufferSize, log)
		collector.Start(ctx)
		collector.EventChannel() <- metrics.MetricEvent{
			Type:      metrics.EventDatasetLoaded,
			Timestamp: loadedAt,
			Records:   ds.Len(),
			Skipped:   ds.Skipped(),
		}
	}

	climateHandler := handler.NewClimateHandler(log, ds, collector, nil)
	health := healthcheck.New(ds, loadedAt, log)

	router := setupRouter(log, climateHandler, health, collector, cfg.Server.CORSEnabled)

	read, write, idle, shutdown := cfg.Server.Timeouts()
	srv, err := httpserver.New(cfg.Server.Address, router,
		httpserver.WithTimeouts(read, write, idle),
		httpserver.WithShutdownTimeout(shutdown))
	if err != nil {
		log.Error("Failed to create server", slog.Any("err", err))
		os.Exit(1)
	}

	srvErrCh := make(chan error, 1)

	go func() {
		srvErrCh <- srv.Start()
	}()

	log.Info("Climate API listening",
		slog.String("address", srv.Addr()),
		slog.Int("records", ds.Len()))

	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
		if err := srv.Shutdown(context.Background()); err != nil {
			log.Error("Error during shutdown", slog.Any("err", err))
		}
	case err := <-srvErrCh:
		if err != nil {
			log.Error("Error starting server", slog.Any("err", err))
			os.Exit(1)
		}
	}
}

func loadDataset(cfg *config.Config, log *slog.Logger) (*dataset.Dataset, error) {
	start := time.Now()

	ds, err := dataset.Load(cfg.Dataset.Path, dataset.LoadOptions{
		SkipMissing: cfg.Dataset.SkipMissing,
	})
	if err != nil {
		return nil, err
	}

	log.Info("Dataset loaded",
		slog.String("path", cfg.Dataset.Path),
		slog.Int("records", ds.Len()),
		slog.Int("skipped", ds.Skipped()),
		slog.Int("countries", len(ds.Countries())),
		slog.Duration("took", time.Since(start)))

	return ds, nil
}
