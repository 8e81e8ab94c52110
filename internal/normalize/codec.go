package normalize

import (
	"image"
	"io"
)

const (
	MIMEJPEG = "image/jpeg"
	MIMEPNG  = "image/png"
	MIMEGIF  = "image/gif"
	MIMEWEBP = "image/webp"
)

// Codec decodes and re-encodes one image format. Implementations must not keep
// state between calls so a single codec can serve concurrent uploads.
type Codec interface {
	MIME() string
	Extension() string
	// DecodeConfig reads only the header, for size checks before Decode.
	DecodeConfig(r io.Reader) (image.Config, error)
	Decode(r io.Reader) (image.Image, error)
	Encode(w io.Writer, img image.Image, quality int) error
	// CanEncode reports whether this build can write the format back out.
	CanEncode() bool
}

type registry map[string]Codec

func newRegistry(codecs ...Codec) registry {
	r := make(registry, len(codecs))
	for _, c := range codecs {
		r[c.MIME()] = c
	}
	return r
}

func defaultCodecs() []Codec {
	return []Codec{
		jpegCodec{},
		pngCodec{},
		gifCodec{},
		newWebpCodec(),
	}
}

func (r registry) lookup(mime string) (Codec, bool) {
	c, ok := r[mime]
	return c, ok
}
