package haar

// IntegralImage is a width x height prefix-sum table over 8-bit grayscale
// pixel intensities: S(x,y) = sum of p(i,j) for i<=x, j<=y. It is built once
// from a pixel buffer and never mutated afterward.
type IntegralImage struct {
	sums   []uint64
	width  int
	height int
}

// NewIntegralImage builds the integral image from a row-major 8-bit
// grayscale buffer of the given dimensions. pix must have length w*h.
func NewIntegralImage(pix []uint8, w, h int) *IntegralImage {
	sums := make([]uint64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint64(pix[y*w+x])
			if x > 0 {
				v += sums[y*w+(x-1)]
			}
			if y > 0 {
				v += sums[(y-1)*w+x]
			}
			if x > 0 && y > 0 {
				v -= sums[(y-1)*w+(x-1)]
			}
			sums[y*w+x] = v
		}
	}
	return &IntegralImage{sums: sums, width: w, height: h}
}

// Width returns the width of the source image in pixels.
func (ii *IntegralImage) Width() int { return ii.width }

// Height returns the height of the source image in pixels.
func (ii *IntegralImage) Height() int { return ii.height }

// Pixels reconstructs the original 8-bit grayscale buffer the integral
// image was built from, by inverting the prefix-sum recurrence. This is
// exact: integer accumulation introduces no loss. It exists so a sample set
// can be serialized and reloaded without keeping the source image files
// around.
func (ii *IntegralImage) Pixels() []uint8 {
	pix := make([]uint8, ii.width*ii.height)
	for y := 0; y < ii.height; y++ {
		for x := 0; x < ii.width; x++ {
			v := ii.at(x, y) - ii.at(x-1, y) - ii.at(x, y-1) + ii.at(x-1, y-1)
			pix[y*ii.width+x] = uint8(v)
		}
	}
	return pix
}

func (ii *IntegralImage) at(x, y int) int64 {
	if x < 0 || y < 0 {
		return 0
	}
	return int64(ii.sums[y*ii.width+x])
}

// RectSum returns the sum of original pixels inside rectangle r (given in
// canonical window coordinates), optionally scaled and translated into
// image coordinates by a detection window, and area-normalized. When w is
// nil, r's corners are used as-is (training-time evaluation at scale 1).
// When w is non-nil, each corner of r is first scaled by w.Scale (each
// canonical pixel becomes a w.Scale x w.Scale block), then translated by
// w.TopLeft, and the resulting sum is divided by w.Scale^2 to normalize
// for area; w.Scale must be a positive integer.
//
// The computation is O(1) and performs no allocation.
func (ii *IntegralImage) RectSum(r Rectangle, w *ScaledWindow) int64 {
	x1, y1, x2, y2 := r.TopLeft.X, r.TopLeft.Y, r.BotRight.X, r.BotRight.Y
	scale := int64(1)
	if w != nil {
		scale = int64(w.Scale)
		x1 = w.TopLeft.X + x1*w.Scale
		y1 = w.TopLeft.Y + y1*w.Scale
		x2 = w.TopLeft.X + (x2+1)*w.Scale - 1
		y2 = w.TopLeft.Y + (y2+1)*w.Scale - 1
	}

	sum := ii.at(x2, y2) - ii.at(x1-1, y2) - ii.at(x2, y1-1) + ii.at(x1-1, y1-1)
	return sum / (scale * scale)
}
