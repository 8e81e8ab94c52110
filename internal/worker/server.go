package worker

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dunamismax/folio/internal/config"
	"github.com/dunamismax/folio/internal/logging"
	"github.com/dunamismax/folio/internal/notify"
	"github.com/dunamismax/folio/internal/queue"
	"github.com/hibiken/asynq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	outcomeDelivered = "delivered"
	outcomeSkipped   = "skipped"
	outcomeFailed    = "failed"
)

type Server struct {
	logger   *zap.Logger
	server   *asynq.Server
	notifier notifier
	metrics  *metrics
	tracer   trace.Tracer
}

type notifier interface {
	Enabled() bool
	Send(ctx context.Context, event string, payload any) error
}

func NewServer(logger *zap.Logger, queueCfg config.QueueConfig, workerCfg config.WorkerConfig, n notifier) *Server {
	s := newServer(logger, n)
	s.server = asynq.NewServer(
		queueCfg.RedisClientOpt(),
		asynq.Config{
			Concurrency: max(1, workerCfg.Concurrency),
			Queues: map[string]int{
				queueCfg.Name: 1,
			},
			Logger:   logging.NewAsynqLogger(logger),
			LogLevel: asynq.InfoLevel,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				retried, _ := asynq.GetRetryCount(ctx)
				maxRetry, _ := asynq.GetMaxRetry(ctx)
				logger.Warn("task failed",
					zap.String("type", task.Type()),
					zap.Int("retry", retried),
					zap.Int("max_retry", maxRetry),
					zap.Error(err),
				)
			}),
		},
	)
	return s
}

func newServer(logger *zap.Logger, n notifier) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		logger:   logger,
		notifier: n,
		metrics:  newMetrics(),
		tracer:   otel.Tracer("folio/worker"),
	}
}

func (s *Server) Run() error {
	return s.server.Run(s.mux())
}

func (s *Server) mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(queue.TypeContactNotify, s.handleContactNotify)
	return mux
}

func (s *Server) MetricsHandler() http.Handler {
	return s.metrics.Handler()
}

func (s *Server) handleContactNotify(ctx context.Context, task *asynq.Task) error {
	startedAt := time.Now()
	outcome := outcomeFailed

	payload, err := queue.ParseContactNotifyPayload(task)
	if err != nil {
		s.metrics.notificationsTotal.WithLabelValues(outcome).Inc()
		return fmt.Errorf("parse payload: %v: %w", err, asynq.SkipRetry)
	}

	ctx, span := s.tracer.Start(ctx, "worker.contact_notify", trace.WithSpanKind(trace.SpanKindConsumer))
	span.SetAttributes(attribute.String("contact.id", payload.Message.ID))
	defer span.End()
	defer func() {
		s.metrics.notificationDuration.WithLabelValues(outcome).Observe(time.Since(startedAt).Seconds())
		s.metrics.notificationsTotal.WithLabelValues(outcome).Inc()
	}()

	s.metrics.activeTasks.Inc()
	defer s.metrics.activeTasks.Dec()

	if s.notifier == nil || !s.notifier.Enabled() {
		outcome = outcomeSkipped
		s.logger.Info("notification endpoint not configured, skipping", zap.String("message_id", payload.Message.ID))
		return nil
	}

	body := map[string]any{
		"id":          payload.Message.ID,
		"name":        payload.Message.Name,
		"email":       payload.Message.Email,
		"phone":       payload.Message.Phone,
		"subject":     payload.Message.Subject,
		"message":     payload.Message.Message,
		"received_at": payload.Message.CreatedAt,
	}
	if err := s.notifier.Send(ctx, notify.EventContactReceived, body); err != nil {
		if errors.Is(err, notify.ErrNoEndpoint) {
			outcome = outcomeSkipped
			return nil
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "notification failed")
		s.logger.Warn("contact notification failed", zap.String("message_id", payload.Message.ID), zap.Error(err))
		return fmt.Errorf("deliver notification: %w", err)
	}

	outcome = outcomeDelivered
	span.SetStatus(codes.Ok, "delivered")
	s.logger.Info("contact notification delivered", zap.String("message_id", payload.Message.ID))
	return nil
}
