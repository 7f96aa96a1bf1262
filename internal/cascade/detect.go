package cascade

import (
	"math"
	"sort"

	"github.com/mwg2202/facial-recognition/internal/concurrency"
	"github.com/mwg2202/facial-recognition/internal/haar"
)

// Detection is one accepted window in image coordinates.
type Detection struct {
	X, Y, W, H int
}

// Detect runs the multi-scale sliding-window search of spec §4.6.3 over
// ii (whose source dimensions are imgW x imgH): it grows the window size
// from cfg.WL up to max_w = min(imgW, imgH*WL/WH) in steps of
// round(WL/5), classifying every (x,y) position at each size, and returns
// every accepted window as a Detection. Results are sorted by (w, y, x) for
// reproducibility, independent of how the scan was parallelized.
//
// An image smaller than WL x WH in either dimension yields no detections.
func (c *Cascade) Detect(ii *haar.IntegralImage, imgW, imgH int, cfg Config) []Detection {
	if imgW < cfg.WL || imgH < cfg.WH {
		return nil
	}

	maxW := imgW
	if alt := imgH * cfg.WL / cfg.WH; alt < maxW {
		maxW = alt
	}
	step := int(math.Round(float64(cfg.WL) / 5))
	if step < 1 {
		step = 1
	}

	var sizes []int
	for w := cfg.WL; w <= maxW; w += step {
		sizes = append(sizes, w)
	}

	results := make([][]Detection, len(sizes))
	concurrency.Range(len(sizes), func(i int) {
		results[i] = c.detectAtWidth(ii, imgW, imgH, cfg, sizes[i])
	})

	var all []Detection
	for _, r := range results {
		all = append(all, r...)
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].W != all[j].W {
			return all[i].W < all[j].W
		}
		if all[i].Y != all[j].Y {
			return all[i].Y < all[j].Y
		}
		return all[i].X < all[j].X
	})
	return all
}

func (c *Cascade) detectAtWidth(ii *haar.IntegralImage, imgW, imgH int, cfg Config, w int) []Detection {
	h := w * cfg.WH / cfg.WL
	s := w / cfg.WL

	var out []Detection
	for x := 0; x <= imgW-w; x++ {
		for y := 0; y <= imgH-h; y++ {
			win := &haar.ScaledWindow{TopLeft: haar.Point{X: x, Y: y}, Scale: s}
			if c.ClassifyWindow(ii, win) {
				out = append(out, Detection{X: x, Y: y, W: w, H: h})
			}
		}
	}
	return out
}
