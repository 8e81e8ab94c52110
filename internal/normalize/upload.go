package normalize

import (
	"fmt"
	"io"
	"os"
)

// Upload is one inbound image. DeclaredType is whatever the client claimed and
// is never trusted; the format is sniffed from Body.
type Upload struct {
	Filename     string
	DeclaredType string
	Body         io.Reader
}

// OpenFile wraps a file on disk as an Upload. The caller owns the returned
// closer; Normalize only reads from it.
func OpenFile(path, filename string) (Upload, io.Closer, error) {
	f, err := os.Open(path)
	if err != nil {
		return Upload{}, nil, fmt.Errorf("open upload %s: %w", path, err)
	}
	if filename == "" {
		filename = path
	}
	return Upload{Filename: filename, Body: f}, f, nil
}
