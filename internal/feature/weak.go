package feature

import (
	"math"
	"sort"

	"github.com/mwg2202/facial-recognition/internal/haar"
	"github.com/mwg2202/facial-recognition/internal/sample"
)

// WeakClassifier is a single Haar feature together with the threshold and
// polarity AdaBoost has fit to it, and the weighted training error that fit
// achieved. A WeakClassifier is a sample.Classifier: Classify reports
// whether the feature votes for "object" on a given integral image.
type WeakClassifier struct {
	Kind         Kind
	X, Y         int
	CellW, CellH int
	Threshold    float64
	Polarity     float64
	Error        float64
}

// Enumerate generates every placement of every feature kind whose
// composite footprint fits inside a wl x wh canonical window, in a fixed
// deterministic order (by kind, then cell size, then position) so that
// equal-error ties resolve to the earliest-enumerated feature.
func Enumerate(wl, wh int) []*WeakClassifier {
	var out []*WeakClassifier
	for _, k := range AllKinds {
		for ch := 1; ch <= wh; ch++ {
			for cw := 1; cw <= wl; cw++ {
				compositeW, compositeH, _, _ := k.layout(cw, ch)
				if compositeW == 0 || compositeW > wl || compositeH > wh {
					continue
				}
				for y := 0; y <= wh-compositeH; y++ {
					for x := 0; x <= wl-compositeW; x++ {
						out = append(out, &WeakClassifier{Kind: k, X: x, Y: y, CellW: cw, CellH: ch})
					}
				}
			}
		}
	}
	return out
}

// Value computes the white-minus-black rectangle sum of the feature on ii,
// optionally translated and scaled by w (nil means evaluate at scale 1 with
// no translation, i.e. directly on a canonical wl x wh training sample).
func (wc *WeakClassifier) Value(ii *haar.IntegralImage, w *haar.ScaledWindow) int64 {
	_, _, white, black := wc.Kind.layout(wc.CellW, wc.CellH)

	var v int64
	for _, rect := range white {
		v += ii.RectSum(rect.Translate(wc.X, wc.Y), w)
	}
	for _, rect := range black {
		v -= ii.RectSum(rect.Translate(wc.X, wc.Y), w)
	}
	return v
}

// Classify implements sample.Classifier: it votes for "object" whenever
// Evaluate does.
func (wc *WeakClassifier) Classify(ii *haar.IntegralImage) bool {
	return wc.Evaluate(ii, nil)
}

// Evaluate applies the fitted threshold and polarity to ii (optionally
// under window w): polarity*value < polarity*threshold votes positive.
func (wc *WeakClassifier) Evaluate(ii *haar.IntegralImage, w *haar.ScaledWindow) bool {
	v := float64(wc.Value(ii, w))
	return wc.Polarity*v < wc.Polarity*wc.Threshold
}

// Recompute fits wc's threshold, polarity, and weighted training error
// against set by the sorted-scan search of spec §4.4: sort samples by
// feature value, then scan once tracking the weight seen so far split by
// label, comparing the two possible polarities at every split point.
func (wc *WeakClassifier) Recompute(set *sample.Set) {
	n := set.Len()
	if n == 0 {
		wc.Threshold, wc.Polarity, wc.Error = 0, 1, 0.5
		return
	}

	values := make([]float64, n)
	for i := 0; i < n; i++ {
		values[i] = float64(wc.Value(set.Images[i], nil))
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return values[order[a]] < values[order[b]] })

	var totalPos, totalNeg float64
	for i := 0; i < n; i++ {
		if set.IsObject[i] {
			totalPos += set.Weight[i]
		} else {
			totalNeg += set.Weight[i]
		}
	}

	var seenPos, seenNeg float64
	bestErr := math.Inf(1)
	var bestThreshold, bestPolarity float64

	for k, idx := range order {
		if set.IsObject[idx] {
			seenPos += set.Weight[idx]
		} else {
			seenNeg += set.Weight[idx]
		}

		v := values[idx]
		// No threshold separates samples with equal feature values, so only
		// the split after the last sample of such a run is scored.
		if k+1 < n && values[order[k+1]] == v {
			continue
		}

		// err_+: negative below, positive above threshold -> polarity -1
		errBelowNeg := seenPos + (totalNeg - seenNeg)
		// err_-: positive below, negative above threshold -> polarity +1
		errBelowPos := seenNeg + (totalPos - seenPos)

		if errBelowNeg < bestErr {
			bestErr, bestThreshold, bestPolarity = errBelowNeg, v, -1
		}
		if errBelowPos < bestErr {
			// Feature values are integers, so v+0.5 keeps v itself on the
			// positive side of v < threshold.
			bestErr, bestThreshold, bestPolarity = errBelowPos, v+0.5, 1
		}
	}

	wc.Threshold = bestThreshold
	wc.Polarity = bestPolarity
	wc.Error = bestErr
}
