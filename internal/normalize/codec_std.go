package normalize

import (
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"golang.org/x/image/webp"
)

type jpegCodec struct{}

func (jpegCodec) MIME() string      { return MIMEJPEG }
func (jpegCodec) Extension() string { return "jpg" }
func (jpegCodec) CanEncode() bool   { return true }

func (jpegCodec) DecodeConfig(r io.Reader) (image.Config, error) {
	return jpeg.DecodeConfig(r)
}

func (jpegCodec) Decode(r io.Reader) (image.Image, error) {
	return jpeg.Decode(r)
}

func (jpegCodec) Encode(w io.Writer, img image.Image, quality int) error {
	return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
}

type pngCodec struct{}

func (pngCodec) MIME() string      { return MIMEPNG }
func (pngCodec) Extension() string { return "png" }
func (pngCodec) CanEncode() bool   { return true }

func (pngCodec) DecodeConfig(r io.Reader) (image.Config, error) {
	return png.DecodeConfig(r)
}

func (pngCodec) Decode(r io.Reader) (image.Image, error) {
	return png.Decode(r)
}

// Encode ignores quality: PNG is lossless and always written at best compression.
func (pngCodec) Encode(w io.Writer, img image.Image, _ int) error {
	encoder := png.Encoder{CompressionLevel: png.BestCompression}
	return encoder.Encode(w, img)
}

type gifCodec struct{}

func (gifCodec) MIME() string      { return MIMEGIF }
func (gifCodec) Extension() string { return "gif" }
func (gifCodec) CanEncode() bool   { return true }

func (gifCodec) DecodeConfig(r io.Reader) (image.Config, error) {
	return gif.DecodeConfig(r)
}

// Decode keeps the first frame only.
func (gifCodec) Decode(r io.Reader) (image.Image, error) {
	return gif.Decode(r)
}

func (gifCodec) Encode(w io.Writer, img image.Image, _ int) error {
	return gif.Encode(w, img, &gif.Options{NumColors: 256})
}

// webpCodec decodes with x/image/webp. Encoding is provided by webpEncoder,
// which only exists in govips builds.
type webpCodec struct {
	encode webpEncoder
}

type webpEncoder func(w io.Writer, img image.Image, quality int) error

func newWebpCodec() webpCodec {
	return webpCodec{encode: newWebpEncoder()}
}

func (webpCodec) MIME() string      { return MIMEWEBP }
func (webpCodec) Extension() string { return "webp" }

func (c webpCodec) CanEncode() bool { return c.encode != nil }

func (webpCodec) DecodeConfig(r io.Reader) (image.Config, error) {
	return webp.DecodeConfig(r)
}

func (webpCodec) Decode(r io.Reader) (image.Image, error) {
	return webp.Decode(r)
}

func (c webpCodec) Encode(w io.Writer, img image.Image, quality int) error {
	if c.encode == nil {
		return ErrUnsupportedFormat
	}
	return c.encode(w, img, quality)
}
