package images

import (
	"io"
	"math"

	"github.com/srwiley/oksvg"
)

// maxSVGDim caps reported SVG size, viewBox values are not trusted.
const maxSVGDim = 8192

// SVGSize returns intrinsic SVG size taken from its viewBox. When viewBox
// does not define size zero dimensions are returned without error.
func SVGSize(r io.Reader) (int, int, error) {
	icon, err := oksvg.ReadIconStream(r, oksvg.IgnoreErrorMode)
	if err != nil {
		return 0, 0, err
	}
	w, h := math.Ceil(icon.ViewBox.W), math.Ceil(icon.ViewBox.H)
	if math.IsNaN(w) || math.IsNaN(h) || w <= 0 || h <= 0 {
		return 0, 0, nil
	}
	// clamp preserving aspect ratio
	if w > maxSVGDim || h > maxSVGDim {
		s := min(maxSVGDim/w, maxSVGDim/h)
		w, h = max(math.Round(w*s), 1), max(math.Round(h*s), 1)
	}
	return int(w), int(h), nil
}
