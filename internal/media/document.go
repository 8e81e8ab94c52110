package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dunamismax/folio/internal/id"
	"github.com/dunamismax/folio/internal/normalize"
)

const pdfMIME = "application/pdf"

var ErrUnsupportedDocument = errors.New("unsupported document type")

// Document is an uploaded CV. Like images, its type is sniffed, never trusted.
type Document struct {
	Filename string
	Body     io.Reader
}

// DocumentStore persists CV files and resolves their download location.
type DocumentStore interface {
	Put(ctx context.Context, name string, data []byte, contentType string) error
	Delete(ctx context.Context, name string) error
	URL(ctx context.Context, name string) (string, error)
}

// readDocument loads and sniffs a CV upload and returns the stored name for it.
func readDocument(doc Document) (string, []byte, error) {
	if doc.Body == nil {
		return "", nil, fmt.Errorf("%w: document has no content", ErrUnsupportedDocument)
	}
	data, err := io.ReadAll(doc.Body)
	if err != nil {
		return "", nil, fmt.Errorf("read document: %w", err)
	}
	if mime := normalize.Sniff(data); mime != pdfMIME {
		return "", nil, fmt.Errorf("%w: content sniffed as %s", ErrUnsupportedDocument, mime)
	}

	return normalize.UniqueFilename(doc.Filename, id.New(), "pdf"), data, nil
}

// LocalDocuments keeps CVs in a directory served under publicPrefix.
type LocalDocuments struct {
	dir          string
	publicPrefix string
}

func NewLocalDocuments(dir, publicPrefix string) *LocalDocuments {
	return &LocalDocuments{dir: dir, publicPrefix: strings.TrimRight(publicPrefix, "/")}
}

func (l *LocalDocuments) Put(_ context.Context, name string, data []byte, _ string) error {
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return fmt.Errorf("create document dir: %w", err)
	}
	tmp, err := os.CreateTemp(l.dir, ".cv-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp document: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := io.Copy(tmp, bytes.NewReader(data)); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close document: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("chmod document: %w", err)
	}
	if err := os.Rename(tmpPath, filepath.Join(l.dir, name)); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("commit document: %w", err)
	}
	return nil
}

func (l *LocalDocuments) Delete(_ context.Context, name string) error {
	err := os.Remove(filepath.Join(l.dir, filepath.Base(name)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove document %s: %w", name, err)
	}
	return nil
}

func (l *LocalDocuments) URL(_ context.Context, name string) (string, error) {
	return l.publicPrefix + "/" + name, nil
}

// ObjectClient is the subset of the object storage client used for CVs.
type ObjectClient interface {
	WriteObject(ctx context.Context, objectKey string, data []byte, contentType string) error
	DeleteObject(ctx context.Context, objectKey string) error
	PresignedGetURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error)
}

// ObjectDocuments keeps CVs in a bucket and hands out presigned download URLs.
type ObjectDocuments struct {
	client ObjectClient
	prefix string
	expiry time.Duration
}

func NewObjectDocuments(client ObjectClient, expiry time.Duration) *ObjectDocuments {
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}
	return &ObjectDocuments{client: client, prefix: "cv/", expiry: expiry}
}

func (o *ObjectDocuments) Put(ctx context.Context, name string, data []byte, contentType string) error {
	return o.client.WriteObject(ctx, o.prefix+name, data, contentType)
}

func (o *ObjectDocuments) Delete(ctx context.Context, name string) error {
	return o.client.DeleteObject(ctx, o.prefix+name)
}

func (o *ObjectDocuments) URL(ctx context.Context, name string) (string, error) {
	return o.client.PresignedGetURL(ctx, o.prefix+name, o.expiry)
}
