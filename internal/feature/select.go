package feature

import (
	"math"

	"github.com/mwg2202/facial-recognition/internal/concurrency"
	"github.com/mwg2202/facial-recognition/internal/haar"
	"github.com/mwg2202/facial-recognition/internal/sample"
)

// RecomputeAll refits every feature in pool against set's current weights,
// in parallel across a worker pool bounded to the host's CPU count (spec
// §5). Each feature only ever writes its own Threshold/Polarity/Error, so
// no further synchronization is needed between workers.
func RecomputeAll(pool []*WeakClassifier, set *sample.Set) {
	concurrency.Range(len(pool), func(i int) {
		pool[i].Recompute(set)
	})
}

// SelectBest returns the index and pointer of the feature in pool with the
// lowest weighted training error, breaking ties in favor of the
// earliest-enumerated feature. NaN errors (possible on a degenerate,
// all-one-label set) are treated as worse than any finite error.
func SelectBest(pool []*WeakClassifier) (int, *WeakClassifier) {
	bestIdx := -1
	best := haar.OrderedReal(math.Inf(1))
	for i, wc := range pool {
		e := haar.OrderedReal(wc.Error)
		if e.Less(best) {
			best = e
			bestIdx = i
		}
	}
	if bestIdx < 0 {
		return -1, nil
	}
	return bestIdx, pool[bestIdx]
}

// Reweight applies the AdaBoost update for a round whose selected weak
// classifier is wc: every correctly classified sample's weight is scaled
// by beta = error/(1-error), and the round's voting weight is
// alpha = log(1/beta). set.Weight is modified in place; callers normalize
// afterward.
func Reweight(wc *WeakClassifier, set *sample.Set) (alpha float64) {
	eps := wc.Error
	beta := eps / (1 - eps)

	for i := 0; i < set.Len(); i++ {
		correct := wc.Evaluate(set.Images[i], nil) == set.IsObject[i]
		if correct {
			set.Weight[i] *= beta
		}
	}
	return math.Log(1 / beta)
}
