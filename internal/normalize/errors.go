package normalize

import "errors"

var (
	// ErrInvalidImage reports content that could not be decoded as an image.
	ErrInvalidImage = errors.New("invalid image")
	// ErrUnsupportedFormat reports an image format this runtime cannot round-trip.
	ErrUnsupportedFormat = errors.New("unsupported image format")
	// ErrStorage reports a destination directory that cannot be created or written.
	ErrStorage = errors.New("image storage failed")
)
