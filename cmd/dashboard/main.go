package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/couchcryptid/bikeshare-dashboard/internal/adapter/csvfile"
	httpadapter "github.com/couchcryptid/bikeshare-dashboard/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/bikeshare-dashboard/internal/adapter/kafka"
	"github.com/couchcryptid/bikeshare-dashboard/internal/config"
	"github.com/couchcryptid/bikeshare-dashboard/internal/observability"
	"github.com/couchcryptid/bikeshare-dashboard/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	reader := csvfile.NewReader(cfg.DatasetPath, logger)

	// Publication of the daily classification is feature-flagged via KAFKA_ENABLED / KAFKA_BROKERS.
	var (
		publisher pipeline.DailyPublisher
		writer    *kafkaadapter.Writer
	)
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		logger.Info("kafka publication enabled", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("kafka publication disabled")
	}

	p := pipeline.New(reader, publisher, logger, metrics, pipeline.Options{
		Lenient:     cfg.DatasetLenient,
		RequireRows: cfg.DatasetRequireRows,
		Source:      reader.Source(),
	})

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, httpadapter.Options{
		SampleRows: cfg.OverviewSampleRows,
		SampleSeed: cfg.OverviewSampleSeed,
	}, metrics, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Prepare the dataset. A preparation failure leaves nothing to serve.
	var failed atomic.Bool
	go func() {
		if err := p.Run(ctx); err != nil {
			if ctx.Err() == nil {
				logger.Error("dataset preparation failed", "error", err)
				failed.Store(true)
			}
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
	if failed.Load() {
		cancel()
		os.Exit(1)
	}
}
