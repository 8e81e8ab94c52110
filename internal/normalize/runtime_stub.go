//go:build !govips || !cgo

package normalize

func Startup() error {
	return nil
}

func Shutdown() {}

// Pure-Go builds can read WEBP but not write it.
func newWebpEncoder() webpEncoder {
	return nil
}
