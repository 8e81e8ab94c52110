package normalize

const (
	DefaultMaxWidth  = 1200
	DefaultMaxHeight = 800
	DefaultQuality   = 85

	// DefaultMaxPixels caps the decoded source area. Headers are checked
	// against it before any pixel buffer is allocated.
	DefaultMaxPixels = 50_000_000
)

// Config bounds the output of a Normalizer. It is copied at construction and
// never mutated afterwards.
type Config struct {
	MaxWidth  int
	MaxHeight int
	Quality   int
}

func DefaultConfig() Config {
	return Config{
		MaxWidth:  DefaultMaxWidth,
		MaxHeight: DefaultMaxHeight,
		Quality:   DefaultQuality,
	}
}

// Normalized fills non-positive bounds with defaults and clamps quality into
// 1..100. Quality has no "unset" value: 0 clamps to 1 like any other
// out-of-range value, so callers wanting the default start from DefaultConfig.
func (c Config) Normalized() Config {
	if c.MaxWidth <= 0 {
		c.MaxWidth = DefaultMaxWidth
	}
	if c.MaxHeight <= 0 {
		c.MaxHeight = DefaultMaxHeight
	}
	c.Quality = max(1, min(100, c.Quality))
	return c
}
