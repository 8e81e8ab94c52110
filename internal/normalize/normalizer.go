package normalize

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/dunamismax/folio/internal/id"
)

// Result describes the file written by a successful Normalize call.
type Result struct {
	Filename     string
	MIME         string
	Width        int
	Height       int
	SourceWidth  int
	SourceHeight int
	Bytes        int
	Resized      bool
}

// Normalizer turns uploads into bounded, re-encoded copies on disk. It holds
// only its construction-time configuration and is safe for concurrent use.
type Normalizer struct {
	cfg       Config
	codecs    registry
	token     func() string
	maxPixels int
}

type Option func(*Normalizer)

// WithCodecs replaces the codec set.
func WithCodecs(codecs ...Codec) Option {
	return func(n *Normalizer) {
		n.codecs = newRegistry(codecs...)
	}
}

// WithTokenSource overrides the filename uniqueness token generator.
func WithTokenSource(fn func() string) Option {
	return func(n *Normalizer) {
		if fn != nil {
			n.token = fn
		}
	}
}

// WithMaxPixels overrides the source area limit. Non-positive values keep
// DefaultMaxPixels.
func WithMaxPixels(limit int) Option {
	return func(n *Normalizer) {
		if limit > 0 {
			n.maxPixels = limit
		}
	}
}

func New(cfg Config, opts ...Option) *Normalizer {
	n := &Normalizer{
		cfg:       cfg.Normalized(),
		codecs:    newRegistry(defaultCodecs()...),
		token:     id.New,
		maxPixels: DefaultMaxPixels,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

func (n *Normalizer) Config() Config {
	return n.cfg
}

// Normalize decodes up, bounds it to the configured size, re-encodes it in its
// sniffed format and writes it under destDir. It returns the generated
// filename. Nothing is left in destDir when an error is returned.
func (n *Normalizer) Normalize(ctx context.Context, up Upload, destDir string) (Result, error) {
	select {
	case <-ctx.Done():
		return Result{}, ctx.Err()
	default:
	}

	if up.Body == nil {
		return Result{}, fmt.Errorf("%w: upload has no content", ErrInvalidImage)
	}
	data, err := io.ReadAll(up.Body)
	if err != nil {
		return Result{}, fmt.Errorf("%w: read upload: %w", ErrInvalidImage, err)
	}
	if len(data) == 0 {
		return Result{}, fmt.Errorf("%w: upload is empty", ErrInvalidImage)
	}

	mime := Sniff(data)
	codec, ok := n.codecs.lookup(mime)
	if !ok {
		if strings.HasPrefix(mime, "image/") {
			return Result{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, mime)
		}
		return Result{}, fmt.Errorf("%w: content sniffed as %s", ErrInvalidImage, mime)
	}
	if !codec.CanEncode() {
		return Result{}, fmt.Errorf("%w: %s codec unavailable in this build", ErrUnsupportedFormat, mime)
	}

	header, err := codec.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Result{}, fmt.Errorf("%w: read %s header: %w", ErrInvalidImage, mime, err)
	}
	if header.Width <= 0 || header.Height <= 0 {
		return Result{}, fmt.Errorf("%w: %s has empty bounds", ErrInvalidImage, mime)
	}
	if int64(header.Width)*int64(header.Height) > int64(n.maxPixels) {
		return Result{}, fmt.Errorf("%w: %dx%d exceeds the %d pixel limit",
			ErrInvalidImage, header.Width, header.Height, n.maxPixels)
	}

	src, err := codec.Decode(bytes.NewReader(data))
	if err != nil {
		return Result{}, fmt.Errorf("%w: decode %s: %w", ErrInvalidImage, mime, err)
	}
	bounds := src.Bounds()
	srcW, srcH := bounds.Dx(), bounds.Dy()
	if srcW <= 0 || srcH <= 0 {
		return Result{}, fmt.Errorf("%w: %s has empty bounds", ErrInvalidImage, mime)
	}

	width, height, resize := fit(srcW, srcH, n.cfg.MaxWidth, n.cfg.MaxHeight)
	out := src
	if resize {
		out = resample(src, width, height)
	}

	var encoded bytes.Buffer
	if err := codec.Encode(&encoded, out, n.cfg.Quality); err != nil {
		if errors.Is(err, ErrUnsupportedFormat) {
			return Result{}, fmt.Errorf("encode %s: %w", mime, err)
		}
		return Result{}, fmt.Errorf("%w: encode %s: %w", ErrInvalidImage, mime, err)
	}

	filename := UniqueFilename(up.Filename, n.token(), codec.Extension())
	if err := writeFile(destDir, filename, encoded.Bytes()); err != nil {
		return Result{}, err
	}

	return Result{
		Filename:     filename,
		MIME:         mime,
		Width:        width,
		Height:       height,
		SourceWidth:  srcW,
		SourceHeight: srcH,
		Bytes:        encoded.Len(),
		Resized:      resize,
	}, nil
}

// Sniff reports the MIME type of data from its leading bytes.
func Sniff(data []byte) string {
	return http.DetectContentType(data)
}

// writeFile commits data to dir/name through a temp file and rename so a
// failure never leaves a partial file behind.
func writeFile(dir, name string, data []byte) error {
	if strings.TrimSpace(dir) == "" {
		return fmt.Errorf("%w: destination directory is required", ErrStorage)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create dir %s: %w", ErrStorage, dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".normalize-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %w", ErrStorage, err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: write %s: %w", ErrStorage, name, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: chmod %s: %w", ErrStorage, name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %w", ErrStorage, name, err)
	}
	if err := os.Rename(tmpPath, filepath.Join(dir, name)); err != nil {
		return fmt.Errorf("%w: commit %s: %w", ErrStorage, name, err)
	}
	committed = true
	return nil
}
