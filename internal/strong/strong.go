// Package strong implements the AdaBoost strong classifier: an ordered
// sequence of weak (single-feature) classifiers and their voting weights,
// trained one round at a time against a weighted sample set (spec §4.4-4.5).
package strong

import (
	"errors"

	"github.com/mwg2202/facial-recognition/internal/feature"
	"github.com/mwg2202/facial-recognition/internal/haar"
	"github.com/mwg2202/facial-recognition/internal/sample"
)

// ErrDegenerateTraining is returned by AddRound when the best available
// feature has weighted error ≥ 0.5: boosting cannot improve on chance, and
// the stage training loop must stop (spec §4.7: DegenerateTraining).
var ErrDegenerateTraining = errors.New("strong: best feature has error >= 0.5, cannot proceed")

// Round is one boosting round: the feature selected that round and the
// voting weight (alpha) AdaBoost assigned it.
type Round struct {
	Weak  *feature.WeakClassifier
	Alpha float64
}

// Classifier is a strong classifier: a weighted vote of its rounds against
// Threshold (half their total voting weight unless stage training has
// lowered it). It implements sample.Classifier so it can
// in turn serve as the reference classifier for hard-negative mining of a
// later stage.
type Classifier struct {
	Rounds    []Round
	Threshold float64
}

// New returns an empty strong classifier ready for AddRound.
func New() *Classifier {
	return &Classifier{}
}

// AddRound runs one boosting round against pool and set: it normalizes
// set's weights, refits every feature in pool in parallel, selects the
// feature with lowest weighted error, reweights set by AdaBoost's rule,
// and appends the round. The classifier's threshold is kept at half the
// total accumulated voting weight, as spec §4.5 requires for Classify.
func (c *Classifier) AddRound(pool []*feature.WeakClassifier, set *sample.Set) (Round, error) {
	set.NormalizeWeights()
	feature.RecomputeAll(pool, set)
	_, best := feature.SelectBest(pool)
	if best == nil || best.Error >= 0.5 {
		return Round{}, ErrDegenerateTraining
	}
	alpha := feature.Reweight(best, set)

	// best points into pool, which every later round's RecomputeAll refits
	// in place; snapshot it so this round keeps its own threshold/polarity.
	w := *best
	round := Round{Weak: &w, Alpha: alpha}
	c.Rounds = append(c.Rounds, round)

	var total float64
	for _, r := range c.Rounds {
		total += r.Alpha
	}
	c.Threshold = total / 2

	return round, nil
}

// Classify sums the alpha of every round whose weak classifier votes
// positive, and accepts when the sum is at least c.Threshold. AddRound sets
// Threshold to half the total alpha; stage training may lower it afterward.
func (c *Classifier) Classify(ii *haar.IntegralImage) bool {
	return c.ClassifyWindow(ii, nil)
}

// ClassifyWindow is Classify generalized to a scaled detection window, used
// by the cascade at detection time.
func (c *Classifier) ClassifyWindow(ii *haar.IntegralImage, w *haar.ScaledWindow) bool {
	var positive float64
	for _, r := range c.Rounds {
		if r.Weak.Evaluate(ii, w) {
			positive += r.Alpha
		}
	}
	return positive >= c.Threshold
}

// Len reports the number of boosting rounds (weak classifiers) in c.
func (c *Classifier) Len() int { return len(c.Rounds) }
