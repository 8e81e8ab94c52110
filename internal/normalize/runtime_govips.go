//go:build govips && cgo

package normalize

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"sync"

	"github.com/davidbyttow/govips/v2/vips"
)

// errVipsStopped reports an encode after Shutdown. libvips cannot be
// initialised again within the same process.
var errVipsStopped = fmt.Errorf("%w: libvips has been shut down", ErrUnsupportedFormat)

type vipsState int

const (
	vipsIdle vipsState = iota
	vipsRunning
	vipsStopped
)

// vipsMu is held for reading by in-flight encodes so Shutdown waits for them.
var (
	vipsMu     sync.RWMutex
	vipsStatus vipsState
)

// Startup initialises libvips once. It is safe to call repeatedly; after
// Shutdown it returns an error instead of touching the stopped library.
func Startup() error {
	vipsMu.Lock()
	defer vipsMu.Unlock()

	switch vipsStatus {
	case vipsRunning:
		return nil
	case vipsStopped:
		return errVipsStopped
	}
	vips.Startup(&vips.Config{
		MaxCacheFiles: 0,
		MaxCacheMem:   64 * 1024 * 1024,
		MaxCacheSize:  50,
	})
	vipsStatus = vipsRunning
	return nil
}

func Shutdown() {
	vipsMu.Lock()
	defer vipsMu.Unlock()
	if vipsStatus != vipsRunning {
		return
	}
	vips.Shutdown()
	vipsStatus = vipsStopped
}

func newWebpEncoder() webpEncoder {
	return encodeWebpGovips
}

// encodeWebpGovips hands the already-resampled pixels to libvips through a
// lossless PNG buffer and exports them as WEBP at the requested quality.
func encodeWebpGovips(w io.Writer, img image.Image, quality int) error {
	if err := Startup(); err != nil {
		return err
	}
	vipsMu.RLock()
	defer vipsMu.RUnlock()
	if vipsStatus != vipsRunning {
		return errVipsStopped
	}

	var staged bytes.Buffer
	if err := png.Encode(&staged, img); err != nil {
		return fmt.Errorf("stage webp pixels: %w", err)
	}

	ref, err := vips.NewImageFromBuffer(staged.Bytes())
	if err != nil {
		return fmt.Errorf("load webp pixels: %w", err)
	}
	defer ref.Close()

	params := vips.NewWebpExportParams()
	params.Quality = quality
	data, _, err := ref.ExportWebp(params)
	if err != nil {
		return fmt.Errorf("encode webp: %w", err)
	}

	_, err = w.Write(data)
	return err
}
