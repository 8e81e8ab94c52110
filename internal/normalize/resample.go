package normalize

import (
	"image"
	"math"

	xdraw "golang.org/x/image/draw"
)

// fit returns the output size for a w x h source bounded by maxW x maxH and
// whether a resample is needed. Sources that already fit keep their size.
//
// Dimensions are rounded rather than truncated: the bounding side then lands
// exactly on its limit (3000 * (800/3000) must be 800, not 799 after float
// error) while the other side stays within one pixel of the true ratio.
// Truncating would give 1066x800 for a 4000x3000 source; rounding gives
// 1067x800. A switch to truncation needs floor(x+1e-9) to keep the bounding
// side exact.
func fit(w, h, maxW, maxH int) (int, int, bool) {
	if w <= 0 || h <= 0 {
		return w, h, false
	}

	ratio := math.Min(float64(maxW)/float64(w), float64(maxH)/float64(h))
	if ratio >= 1 {
		return w, h, false
	}

	nw := min(maxW, max(1, int(math.Round(float64(w)*ratio))))
	nh := min(maxH, max(1, int(math.Round(float64(h)*ratio))))
	return nw, nh, true
}

// resample scales src into a fresh w x h buffer with a bilinear kernel. The
// kernel widens its support when shrinking, so large reductions average over
// the covered source area instead of skipping pixels.
//
// draw.Src replaces destination pixels outright, so transparent source regions
// stay transparent instead of being blended onto a background.
func resample(src image.Image, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}
