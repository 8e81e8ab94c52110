package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dunamismax/folio/internal/config"
	"github.com/dunamismax/folio/internal/logging"
	"github.com/dunamismax/folio/internal/notify"
	"github.com/dunamismax/folio/internal/telemetry"
	"github.com/dunamismax/folio/internal/worker"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()
	logger, err := logging.New("worker", cfg.Log.Level)
	if err != nil {
		logger = zap.NewExample()
		logger.Warn("falling back to default logger", zap.Error(err))
	}
	defer func() { _ = logger.Sync() }()

	shutdownTracing, err := telemetry.SetupTracing(context.Background(), telemetry.TraceConfig{
		ServiceName:  "folio-worker",
		Exporter:     cfg.Tracing.Exporter,
		OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
		OTLPInsecure: cfg.Tracing.OTLPInsecure,
	}, logger)
	if err != nil {
		logger.Fatal("tracing setup failed", zap.Error(err))
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("tracing shutdown failed", zap.Error(err))
		}
	}()

	notifier := notify.New(notify.Config{
		Endpoint:       cfg.Notify.Endpoint,
		SigningSecret:  cfg.Notify.SigningSecret,
		Timeout:        cfg.Notify.Timeout,
		MaxAttempts:    cfg.Notify.MaxAttempts,
		InitialBackoff: cfg.Notify.InitialBackoff,
		MaxBackoff:     cfg.Notify.MaxBackoff,
	})
	if !notifier.Enabled() {
		logger.Warn("NOTIFY_ENDPOINT is empty; contact notifications will be skipped")
	}

	logger.Info("starting worker",
		zap.Int("concurrency", cfg.Worker.Concurrency),
		zap.String("queue", cfg.Queue.Name),
		zap.String("redis", cfg.Queue.RedisAddr),
	)

	srv := worker.NewServer(logger, cfg.Queue, cfg.Worker, notifier)

	metricsServer := &http.Server{
		Addr:              cfg.Worker.MetricsAddr,
		Handler:           srv.MetricsHandler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		<-stop
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(ctx)
	}()

	if err := srv.Run(); err != nil {
		logger.Fatal("worker failed", zap.Error(err))
	}
}
