package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
)

type Config struct {
	API       APIConfig
	Queue     QueueConfig
	Worker    WorkerConfig
	Upload    UploadConfig
	Admin     AdminConfig
	Storage   StorageConfig
	Database  DatabaseConfig
	Notify    NotifyConfig
	RateLimit RateLimitConfig
	Tracing   TracingConfig
	Log       LogConfig
}

type APIConfig struct {
	Addr           string
	MaxUploadBytes int64
}

type QueueConfig struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	Name          string
}

func (q QueueConfig) RedisClientOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     q.RedisAddr,
		Password: q.RedisPassword,
		DB:       q.RedisDB,
	}
}

type WorkerConfig struct {
	Concurrency int
	MetricsAddr string
}

// UploadConfig describes where normalized media lands and the bounds applied to it.
type UploadConfig struct {
	RootDir          string
	PublicPrefix     string
	MaxWidth         int
	MaxHeight        int
	Quality          int
	ProfileMaxWidth  int
	ProfileMaxHeight int
}

type AdminConfig struct {
	Email        string
	PasswordHash string
}

type StorageConfig struct {
	Enabled   bool
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	URLExpiry time.Duration
	Region    string
}

// DatabaseConfig selects the Postgres store when DSN is set.
type DatabaseConfig struct {
	DSN string
}

type NotifyConfig struct {
	Endpoint       string
	SigningSecret  string
	Timeout        time.Duration
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

type RateLimitConfig struct {
	Enabled  bool
	Capacity int
	Window   time.Duration
}

type TracingConfig struct {
	Exporter     string
	OTLPEndpoint string
	OTLPInsecure bool
}

type LogConfig struct {
	Level string
}

// Load reads .env when present and then the process environment.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		API: APIConfig{
			Addr:           env("FOLIO_API_ADDR", ":8080"),
			MaxUploadBytes: int64(envInt("FOLIO_MAX_UPLOAD_BYTES", 5<<20)),
		},
		Queue: QueueConfig{
			RedisAddr:     env("REDIS_ADDR", "localhost:6379"),
			RedisPassword: env("REDIS_PASSWORD", ""),
			RedisDB:       envInt("REDIS_DB", 0),
			Name:          env("ASYNC_QUEUE", "default"),
		},
		Worker: WorkerConfig{
			Concurrency: envInt("WORKER_CONCURRENCY", 4),
			MetricsAddr: env("WORKER_METRICS_ADDR", ":9091"),
		},
		Upload: UploadConfig{
			RootDir:          env("FOLIO_UPLOAD_DIR", "./public/uploads"),
			PublicPrefix:     strings.TrimRight(env("FOLIO_UPLOAD_PREFIX", "/uploads"), "/"),
			MaxWidth:         envInt("FOLIO_IMAGE_MAX_WIDTH", 1200),
			MaxHeight:        envInt("FOLIO_IMAGE_MAX_HEIGHT", 800),
			Quality:          envInt("FOLIO_IMAGE_QUALITY", 85),
			ProfileMaxWidth:  envInt("FOLIO_PROFILE_MAX_WIDTH", 800),
			ProfileMaxHeight: envInt("FOLIO_PROFILE_MAX_HEIGHT", 800),
		},
		Admin: AdminConfig{
			Email:        env("FOLIO_ADMIN_EMAIL", "admin@example.com"),
			PasswordHash: env("FOLIO_ADMIN_PASSWORD_HASH", ""),
		},
		Storage: StorageConfig{
			Enabled:   envBool("MINIO_ENABLED", false),
			Endpoint:  env("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: env("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey: env("MINIO_SECRET_KEY", "minioadmin"),
			Bucket:    env("MINIO_BUCKET", "folio-documents"),
			UseSSL:    envBool("MINIO_USE_SSL", false),
			URLExpiry: envDuration("MINIO_URL_EXPIRY", 15*time.Minute),
			Region:    env("MINIO_REGION", "us-east-1"),
		},
		Database: DatabaseConfig{
			DSN: env("POSTGRES_DSN", ""),
		},
		Notify: NotifyConfig{
			Endpoint:       env("NOTIFY_ENDPOINT", ""),
			SigningSecret:  env("NOTIFY_SIGNING_SECRET", ""),
			Timeout:        envDuration("NOTIFY_TIMEOUT", 10*time.Second),
			MaxAttempts:    envInt("NOTIFY_MAX_ATTEMPTS", 3),
			InitialBackoff: envDuration("NOTIFY_INITIAL_BACKOFF", time.Second),
			MaxBackoff:     envDuration("NOTIFY_MAX_BACKOFF", 10*time.Second),
		},
		RateLimit: RateLimitConfig{
			Enabled:  envBool("RATE_LIMIT_ENABLED", true),
			Capacity: envInt("RATE_LIMIT_CAPACITY", 5),
			Window:   envDuration("RATE_LIMIT_WINDOW", time.Minute),
		},
		Tracing: TracingConfig{
			Exporter:     env("OTEL_TRACES_EXPORTER", "none"),
			OTLPEndpoint: env("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			OTLPInsecure: envBool("OTEL_EXPORTER_OTLP_INSECURE", true),
		},
		Log: LogConfig{
			Level: env("LOG_LEVEL", "info"),
		},
	}
}

func env(key, fallback string) string {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	return value
}

func envInt(key string, fallback int) int {
	value := env(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func envBool(key string, fallback bool) bool {
	value := env(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func envDuration(key string, fallback time.Duration) time.Duration {
	value := env(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}
