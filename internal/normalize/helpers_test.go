package normalize

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func gradientImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8((x * 255) / w),
				G: uint8((y * 255) / h),
				B: 140,
				A: 255,
			})
		}
	}
	return img
}

func encodeTestImage(t *testing.T, mime string, img image.Image) []byte {
	t.Helper()

	var buf bytes.Buffer
	var err error
	switch mime {
	case MIMEJPEG:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90})
	case MIMEPNG:
		err = png.Encode(&buf, img)
	case MIMEGIF:
		err = gif.Encode(&buf, img, nil)
	default:
		t.Fatalf("no test encoder for %s", mime)
	}
	require.NoError(t, err)
	return buf.Bytes()
}

func decodeOutput(t *testing.T, path string) (image.Image, string) {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	img, format, err := image.Decode(f)
	require.NoError(t, err, "decode %s", path)
	return img, format
}

func dirEntries(t *testing.T, dir string) []string {
	t.Helper()

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}
