package media

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dunamismax/folio/internal/domain"
	"github.com/dunamismax/folio/internal/normalize"
	"github.com/dunamismax/folio/internal/store"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

const (
	KindProject = "project"
	KindProfile = "profile"

	projectsDir = "projects"
	profileDir  = "profile"
)

var tracer = otel.Tracer("github.com/dunamismax/folio/internal/media")

// Observer receives the outcome of every image normalization.
type Observer interface {
	ObserveNormalize(kind string, res normalize.Result, err error, elapsed time.Duration)
}

type nopObserver struct{}

func (nopObserver) ObserveNormalize(string, normalize.Result, error, time.Duration) {}

type Config struct {
	RootDir  string
	Projects normalize.Config
	Profile  normalize.Config
}

// Service applies admin edits to projects and the profile, routing image and
// CV uploads through normalization and document storage.
type Service struct {
	projects  store.ProjectStore
	profiles  store.ProfileStore
	docs      DocumentStore
	rootDir   string
	projectNR *normalize.Normalizer
	profileNR *normalize.Normalizer
	observer  Observer
	logger    *zap.Logger
}

type Option func(*Service)

func WithObserver(o Observer) Option {
	return func(s *Service) {
		if o != nil {
			s.observer = o
		}
	}
}

func NewService(cfg Config, projects store.ProjectStore, profiles store.ProfileStore, docs DocumentStore, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		projects:  projects,
		profiles:  profiles,
		docs:      docs,
		rootDir:   cfg.RootDir,
		projectNR: normalize.New(cfg.Projects),
		profileNR: normalize.New(cfg.Profile),
		observer:  nopObserver{},
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) ProjectsDir() string { return filepath.Join(s.rootDir, projectsDir) }
func (s *Service) ProfileDir() string  { return filepath.Join(s.rootDir, profileDir) }

// SaveProject validates and persists p. When screenshot is set it is
// normalized first; a failed normalization yields an error flash and the
// remaining fields are still saved with the previous screenshot.
func (s *Service) SaveProject(ctx context.Context, p domain.Project, screenshot *normalize.Upload) (domain.Project, []Flash, error) {
	if err := p.Validate(); err != nil {
		return domain.Project{}, nil, err
	}

	var flashes []Flash
	previous := p.ScreenshotPath
	written := ""
	if screenshot != nil {
		res, err := s.normalize(ctx, KindProject, s.projectNR, *screenshot, s.ProjectsDir())
		if err != nil {
			flashes = append(flashes, failure("Error uploading screenshot: "+describe(err)))
		} else {
			written = res.Filename
			p.ScreenshotPath = res.Filename
		}
	}

	var (
		saved domain.Project
		err   error
	)
	if p.ID == 0 {
		saved, err = s.projects.CreateProject(ctx, p)
	} else {
		saved, err = s.projects.UpdateProject(ctx, p)
	}
	if err != nil {
		s.removeFile(s.ProjectsDir(), written)
		return domain.Project{}, nil, err
	}

	if written != "" && previous != "" && previous != written {
		s.removeFile(s.ProjectsDir(), previous)
	}

	if p.ID == 0 {
		flashes = append(flashes, success("Project created successfully!"))
	} else {
		flashes = append(flashes, success("Project updated successfully!"))
	}
	return saved, flashes, nil
}

// DeleteProject removes the project record and then its screenshot file. A
// file that cannot be removed is logged; the record stays deleted.
func (s *Service) DeleteProject(ctx context.Context, id int64) ([]Flash, error) {
	p, err := s.projects.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.projects.DeleteProject(ctx, id); err != nil {
		return nil, err
	}
	s.removeFile(s.ProjectsDir(), p.ScreenshotPath)
	return []Flash{success("Project deleted successfully!")}, nil
}

// SaveProfile is SaveProject for the personal details record, with an
// optional profile image and CV document.
func (s *Service) SaveProfile(ctx context.Context, d domain.PersonalDetails, image *normalize.Upload, cv *Document) (domain.PersonalDetails, []Flash, error) {
	if err := d.Validate(); err != nil {
		return domain.PersonalDetails{}, nil, err
	}

	var flashes []Flash
	previousImage, previousCV := d.ProfileImage, d.CVPath
	writtenImage, writtenCV := "", ""

	if image != nil {
		res, err := s.normalize(ctx, KindProfile, s.profileNR, *image, s.ProfileDir())
		if err != nil {
			flashes = append(flashes, failure("Error uploading profile image: "+describe(err)))
		} else {
			writtenImage = res.Filename
			d.ProfileImage = res.Filename
		}
	}

	if cv != nil {
		name, err := s.storeDocument(ctx, *cv)
		if err != nil {
			s.logger.Warn("cv upload rejected", zap.Error(err))
			flashes = append(flashes, failure("Error uploading CV: "+describe(err)))
		} else {
			writtenCV = name
			d.CVPath = name
		}
	}

	saved, err := s.profiles.SaveProfile(ctx, d)
	if err != nil {
		s.removeFile(s.ProfileDir(), writtenImage)
		s.removeDocument(ctx, writtenCV)
		return domain.PersonalDetails{}, nil, err
	}

	if writtenImage != "" && previousImage != "" && previousImage != writtenImage {
		s.removeFile(s.ProfileDir(), previousImage)
	}
	if writtenCV != "" && previousCV != "" && previousCV != writtenCV {
		s.removeDocument(ctx, previousCV)
	}

	flashes = append(flashes, success("Personal details saved successfully!"))
	return saved, flashes, nil
}

// CVURL resolves the download location of the active profile's CV.
func (s *Service) CVURL(ctx context.Context) (string, error) {
	d, err := s.profiles.ActiveProfile(ctx)
	if err != nil {
		return "", err
	}
	if d.CVPath == "" || s.docs == nil {
		return "", domain.ErrNotFound
	}
	return s.docs.URL(ctx, d.CVPath)
}

func (s *Service) normalize(ctx context.Context, kind string, n *normalize.Normalizer, up normalize.Upload, dir string) (normalize.Result, error) {
	ctx, span := tracer.Start(ctx, "normalize")
	defer span.End()
	span.SetAttributes(
		attribute.String("folio.media.kind", kind),
		attribute.String("folio.media.declared_type", up.DeclaredType),
	)

	started := time.Now()
	res, err := n.Normalize(ctx, up, dir)
	s.observer.ObserveNormalize(kind, res, err, time.Since(started))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "normalize failed")
		s.logger.Warn("image normalization failed",
			zap.String("kind", kind),
			zap.String("filename", up.Filename),
			zap.Error(err),
		)
		return normalize.Result{}, err
	}

	span.SetAttributes(
		attribute.String("folio.media.mime", res.MIME),
		attribute.Int("folio.media.width", res.Width),
		attribute.Int("folio.media.height", res.Height),
		attribute.Bool("folio.media.resized", res.Resized),
	)
	s.logger.Info("image normalized",
		zap.String("kind", kind),
		zap.String("file", res.Filename),
		zap.String("mime", res.MIME),
		zap.Int("width", res.Width),
		zap.Int("height", res.Height),
		zap.Bool("resized", res.Resized),
	)
	return res, nil
}

func (s *Service) storeDocument(ctx context.Context, doc Document) (string, error) {
	if s.docs == nil {
		return "", fmt.Errorf("%w: no document store configured", ErrUnsupportedDocument)
	}
	name, data, err := readDocument(doc)
	if err != nil {
		return "", err
	}
	if err := s.docs.Put(ctx, name, data, pdfMIME); err != nil {
		return "", err
	}
	return name, nil
}

func (s *Service) removeFile(dir, name string) {
	if name == "" {
		return
	}
	err := os.Remove(filepath.Join(dir, filepath.Base(name)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		s.logger.Warn("remove stale upload failed", zap.String("file", name), zap.Error(err))
	}
}

func (s *Service) removeDocument(ctx context.Context, name string) {
	if name == "" || s.docs == nil {
		return
	}
	if err := s.docs.Delete(ctx, name); err != nil {
		s.logger.Warn("remove stale document failed", zap.String("file", name), zap.Error(err))
	}
}

func describe(err error) string {
	switch {
	case errors.Is(err, normalize.ErrUnsupportedFormat):
		return "unsupported image format"
	case errors.Is(err, normalize.ErrInvalidImage):
		return "file is not a valid image"
	case errors.Is(err, normalize.ErrStorage):
		return "could not store the file"
	case errors.Is(err, ErrUnsupportedDocument):
		return "only PDF documents are accepted"
	default:
		return err.Error()
	}
}
