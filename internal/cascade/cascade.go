package cascade

import (
	"github.com/mwg2202/facial-recognition/internal/haar"
	"github.com/mwg2202/facial-recognition/internal/sample"
	"github.com/mwg2202/facial-recognition/internal/strong"
)

// Cascade is an ordered sequence of strong classifiers combined by logical
// AND: a sample must pass every stage to be classified positive.
type Cascade struct {
	Stages []*strong.Classifier
}

// New returns an empty cascade.
func New() *Cascade {
	return &Cascade{}
}

// Classify implements sample.Classifier, evaluating at scale 1 with no
// window translation - the canonical training-sample case. This lets a
// *Cascade serve directly as the reference classifier for hard-negative
// mining (spec §9: "a classifier-like capability with only a classify
// method").
func (c *Cascade) Classify(ii *haar.IntegralImage) bool {
	return c.ClassifyWindow(ii, nil)
}

// ClassifyWindow is Classify generalized to a scaled detection window.
func (c *Cascade) ClassifyWindow(ii *haar.IntegralImage, w *haar.ScaledWindow) bool {
	for _, stage := range c.Stages {
		if !stage.ClassifyWindow(ii, w) {
			return false
		}
	}
	return true
}

var _ sample.Classifier = (*Cascade)(nil)

// ConfusionReport holds the outcome of evaluating a cascade against a
// labeled set: raw counts plus the derived detection and false-positive
// rates (spec §8, invariant 5 and the "test" CLI command of §6).
type ConfusionReport struct {
	TruePositives, FalseNegatives int
	FalsePositives, TrueNegatives int
}

// DetectionRate is TP/P, the fraction of positives correctly classified.
func (r ConfusionReport) DetectionRate() float64 {
	p := r.TruePositives + r.FalseNegatives
	if p == 0 {
		return 0
	}
	return float64(r.TruePositives) / float64(p)
}

// FalsePositiveRate is FP/N, the fraction of negatives misclassified.
func (r ConfusionReport) FalsePositiveRate() float64 {
	n := r.FalsePositives + r.TrueNegatives
	if n == 0 {
		return 0
	}
	return float64(r.FalsePositives) / float64(n)
}

// Evaluate classifies every sample in set with classify and tallies a
// ConfusionReport.
func Evaluate(classify func(*haar.IntegralImage) bool, set *sample.Set) ConfusionReport {
	var r ConfusionReport
	for i := 0; i < set.Len(); i++ {
		positive := classify(set.Images[i])
		switch {
		case set.IsObject[i] && positive:
			r.TruePositives++
		case set.IsObject[i] && !positive:
			r.FalseNegatives++
		case !set.IsObject[i] && positive:
			r.FalsePositives++
		default:
			r.TrueNegatives++
		}
	}
	return r
}

// Evaluate classifies set with the full cascade and returns a
// ConfusionReport, the basis of the "test" CLI command's printed rates.
func (c *Cascade) Evaluate(set *sample.Set) ConfusionReport {
	return Evaluate(c.Classify, set)
}
