//go:build govips && cgo

package normalize

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_WebpRoundTrip(t *testing.T) {
	require.NoError(t, Startup())

	var src bytes.Buffer
	require.NoError(t, encodeWebpGovips(&src, gradientImage(64, 48), 80))
	require.Equal(t, MIMEWEBP, Sniff(src.Bytes()))

	res, err := New(DefaultConfig()).Normalize(context.Background(), Upload{
		Filename: "photo.webp",
		Body:     bytes.NewReader(src.Bytes()),
	}, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, MIMEWEBP, res.MIME)
	assert.Equal(t, 64, res.Width)
}

func TestWebpEncodeRefusedAfterShutdown(t *testing.T) {
	require.NoError(t, Startup())

	// Mark the library stopped without calling vips.Shutdown, which cannot be
	// undone for the rest of the test binary.
	vipsMu.Lock()
	prev := vipsStatus
	vipsStatus = vipsStopped
	vipsMu.Unlock()
	t.Cleanup(func() {
		vipsMu.Lock()
		vipsStatus = prev
		vipsMu.Unlock()
	})

	require.ErrorIs(t, Startup(), ErrUnsupportedFormat)

	var out bytes.Buffer
	err := encodeWebpGovips(&out, gradientImage(8, 8), 80)
	require.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Zero(t, out.Len())

	dest := t.TempDir()
	codec := newWebpCodec()
	var src bytes.Buffer
	vipsMu.Lock()
	vipsStatus = vipsRunning
	vipsMu.Unlock()
	require.NoError(t, codec.Encode(&src, gradientImage(8, 8), 80))
	vipsMu.Lock()
	vipsStatus = vipsStopped
	vipsMu.Unlock()

	_, err = New(DefaultConfig()).Normalize(context.Background(), Upload{
		Filename: "late.webp",
		Body:     bytes.NewReader(src.Bytes()),
	}, dest)
	require.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Empty(t, dirEntries(t, dest))
}
