package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dunamismax/folio/internal/api"
	"github.com/dunamismax/folio/internal/config"
	"github.com/dunamismax/folio/internal/logging"
	"github.com/dunamismax/folio/internal/media"
	"github.com/dunamismax/folio/internal/normalize"
	"github.com/dunamismax/folio/internal/queue"
	"github.com/dunamismax/folio/internal/ratelimit"
	"github.com/dunamismax/folio/internal/storage"
	"github.com/dunamismax/folio/internal/store"
	"github.com/dunamismax/folio/internal/telemetry"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()
	logger, err := logging.New("api", cfg.Log.Level)
	if err != nil {
		logger = zap.NewExample()
		logger.Warn("falling back to default logger", zap.Error(err))
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.SetupTracing(ctx, telemetry.TraceConfig{
		ServiceName:  "folio-api",
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

	if err := normalize.Startup(); err != nil {
		logger.Fatal("image runtime startup failed", zap.Error(err))
	}
	defer normalize.Shutdown()

	appStore, closeStore := openStore(ctx, cfg, logger)
	defer closeStore()

	docs, err := openDocuments(ctx, cfg)
	if err != nil {
		logger.Fatal("document storage setup failed", zap.Error(err))
	}

	queueClient := queue.NewClient(cfg.Queue.RedisClientOpt(), cfg.Queue.Name)
	defer func() {
		if err := queueClient.Close(); err != nil {
			logger.Warn("queue client close failed", zap.Error(err))
		}
	}()

	var limiter api.RateLimiter
	if cfg.RateLimit.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Queue.RedisAddr,
			Password: cfg.Queue.RedisPassword,
			DB:       cfg.Queue.RedisDB,
		})
		defer rdb.Close()
		policy := ratelimit.ContactFormPolicy(cfg.RateLimit.Capacity, cfg.RateLimit.Window)
		contactLimiter, err := ratelimit.NewClientLimiter(rdb, policy)
		if err != nil {
			logger.Fatal("rate limiter setup failed", zap.Error(err))
		}
		limiter = contactLimiter
	}

	metrics := api.NewMetrics()
	mediaService := media.NewService(
		media.Config{
			RootDir: cfg.Upload.RootDir,
			Projects: normalize.Config{
				MaxWidth:  cfg.Upload.MaxWidth,
				MaxHeight: cfg.Upload.MaxHeight,
				Quality:   cfg.Upload.Quality,
			},
			Profile: normalize.Config{
				MaxWidth:  cfg.Upload.ProfileMaxWidth,
				MaxHeight: cfg.Upload.ProfileMaxHeight,
				Quality:   cfg.Upload.Quality,
			},
		},
		appStore,
		appStore,
		docs,
		logger.Named("media"),
		media.WithObserver(metrics),
	)

	app := api.NewServer(api.Config{
		AdminEmail:        cfg.Admin.Email,
		AdminPasswordHash: cfg.Admin.PasswordHash,
		UploadRoot:        cfg.Upload.RootDir,
		UploadPrefix:      cfg.Upload.PublicPrefix,
		MaxUploadBytes:    cfg.API.MaxUploadBytes,
	}, api.Deps{
		Logger:      logger,
		Store:       appStore,
		Media:       mediaService,
		Queue:       queueClient,
		RateLimiter: limiter,
		Metrics:     metrics,
	})

	httpServer := &http.Server{
		Addr:         cfg.API.Addr,
		Handler:      app.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("listening", zap.String("addr", cfg.API.Addr), zap.String("uploads", cfg.Upload.RootDir))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
	}
}

func openStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (store.Store, func()) {
	if cfg.Database.DSN == "" {
		logger.Info("using in-memory store")
		return store.NewMemoryStore(), func() {}
	}
	pg, err := store.NewPostgresStore(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("postgres setup failed", zap.Error(err))
	}
	return pg, func() {
		if err := pg.Close(); err != nil {
			logger.Warn("postgres close failed", zap.Error(err))
		}
	}
}

func openDocuments(ctx context.Context, cfg config.Config) (media.DocumentStore, error) {
	if !cfg.Storage.Enabled {
		return media.NewLocalDocuments(filepath.Join(cfg.Upload.RootDir, "cv"), cfg.Upload.PublicPrefix+"/cv"), nil
	}
	client, err := storage.NewClient(storage.Config{
		Endpoint: cfg.Storage.Endpoint,
		Access:   cfg.Storage.AccessKey,
		Secret:   cfg.Storage.SecretKey,
		Bucket:   cfg.Storage.Bucket,
		UseSSL:   cfg.Storage.UseSSL,
		Region:   cfg.Storage.Region,
	})
	if err != nil {
		return nil, err
	}
	if err := client.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	return media.NewObjectDocuments(client, cfg.Storage.URLExpiry), nil
}
