package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/dunamismax/folio/internal/domain"
	"github.com/dunamismax/folio/internal/media"
	"github.com/dunamismax/folio/internal/normalize"
	"github.com/dunamismax/folio/internal/queue"
	"github.com/dunamismax/folio/internal/store"
	"github.com/hibiken/asynq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const defaultMaxUploadBytes = 5 << 20

type Server struct {
	logger         *zap.Logger
	store          store.Store
	media          mediaService
	queueClient    notificationEnqueuer
	rateLimiter    RateLimiter
	auth           *adminAuth
	metrics        *Metrics
	tracer         trace.Tracer
	uploadRoot     string
	uploadPrefix   string
	maxUploadBytes int64
	mux            *http.ServeMux
}

type mediaService interface {
	SaveProject(ctx context.Context, p domain.Project, screenshot *normalize.Upload) (domain.Project, []media.Flash, error)
	DeleteProject(ctx context.Context, id int64) ([]media.Flash, error)
	SaveProfile(ctx context.Context, d domain.PersonalDetails, image *normalize.Upload, cv *media.Document) (domain.PersonalDetails, []media.Flash, error)
	CVURL(ctx context.Context) (string, error)
}

type notificationEnqueuer interface {
	EnqueueContactNotification(ctx context.Context, payload queue.ContactNotifyPayload) (*asynq.TaskInfo, error)
}

// Deps are the collaborators a Server is built from. Queue and RateLimiter
// are optional.
type Deps struct {
	Logger      *zap.Logger
	Store       store.Store
	Media       mediaService
	Queue       notificationEnqueuer
	RateLimiter RateLimiter
	Metrics     *Metrics
}

type Config struct {
	AdminEmail        string
	AdminPasswordHash string
	UploadRoot        string
	UploadPrefix      string
	MaxUploadBytes    int64
}

func NewServer(cfg Config, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	m := deps.Metrics
	if m == nil {
		m = NewMetrics()
	}
	maxUpload := cfg.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = defaultMaxUploadBytes
	}
	prefix := "/" + strings.Trim(cfg.UploadPrefix, "/")
	if prefix == "/" {
		prefix = "/uploads"
	}

	s := &Server{
		logger:         logger,
		store:          deps.Store,
		media:          deps.Media,
		queueClient:    deps.Queue,
		rateLimiter:    deps.RateLimiter,
		auth:           newAdminAuth(cfg.AdminEmail, cfg.AdminPasswordHash),
		metrics:        m,
		tracer:         otel.Tracer("folio/api"),
		uploadRoot:     cfg.UploadRoot,
		uploadPrefix:   prefix,
		maxUploadBytes: maxUpload,
		mux:            http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.withTracing(s.metrics.withHTTPMetrics(s.withRateLimit(s.mux)))
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /healthz", s.handleHealthz)
	s.mux.Handle("GET /metrics", s.metrics.metricsHandler())
	s.mux.Handle("GET "+s.uploadPrefix+"/", http.StripPrefix(s.uploadPrefix, http.FileServer(noListingFS{http.Dir(s.uploadRoot)})))

	s.mux.HandleFunc("GET /v1/projects", s.handleListProjects)
	s.mux.HandleFunc("GET /v1/projects/{id}", s.handleGetProject)
	s.mux.HandleFunc("GET /v1/profile", s.handleGetProfile)
	s.mux.HandleFunc("GET /v1/cv", s.handleDownloadCV)
	s.mux.HandleFunc("POST /v1/contact", s.handleContact)

	s.mux.Handle("POST /v1/admin/projects", s.requireAdmin(s.handleCreateProject))
	s.mux.Handle("POST /v1/admin/projects/{id}", s.requireAdmin(s.handleUpdateProject))
	s.mux.Handle("POST /v1/admin/projects/{id}/toggle-status", s.requireAdmin(s.handleToggleProjectStatus))
	s.mux.Handle("POST /v1/admin/projects/{id}/delete", s.requireAdmin(s.handleDeleteProject))
	s.mux.Handle("POST /v1/admin/profile", s.requireAdmin(s.handleSaveProfile))
	s.mux.Handle("GET /v1/admin/messages", s.requireAdmin(s.handleListMessages))
	s.mux.Handle("POST /v1/admin/messages/{id}/read", s.requireAdmin(s.handleMarkMessageRead))
	s.mux.Handle("POST /v1/admin/messages/{id}/toggle-read", s.requireAdmin(s.handleToggleMessageRead))
	s.mux.Handle("POST /v1/admin/messages/{id}/delete", s.requireAdmin(s.handleDeleteMessage))

	s.sectionRoutes()
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// noListingFS hides directory indexes from the upload file server.
type noListingFS struct {
	fs http.FileSystem
}

func (n noListingFS) Open(name string) (http.File, error) {
	f, err := n.fs.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, os.ErrNotExist
	}
	return f, nil
}

// writeError maps domain and media errors onto HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var fieldErr *domain.FieldError
	var maxBytesErr *http.MaxBytesError
	switch {
	case errors.As(err, &fieldErr):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fieldErr.Error(), "field": fieldErr.Field})
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.As(err, &maxBytesErr):
		writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{
			"error": fmt.Sprintf("upload exceeds %d bytes", maxBytesErr.Limit),
		})
	case errors.Is(err, normalize.ErrUnsupportedFormat), errors.Is(err, media.ErrUnsupportedDocument):
		writeJSON(w, http.StatusUnsupportedMediaType, map[string]string{"error": err.Error()})
	case errors.Is(err, normalize.ErrInvalidImage):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	default:
		s.logger.Error("request failed", zap.String("method", r.Method), zap.String("path", r.URL.Path), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func decodeJSON(r *http.Request, into any) error {
	const maxBodyBytes = 1 << 20
	limited := io.LimitReader(r.Body, maxBodyBytes)
	decoder := json.NewDecoder(limited)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(into); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %v", domain.ErrValidation, err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return fmt.Errorf("%w: invalid JSON body: multiple JSON values are not allowed", domain.ErrValidation)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
