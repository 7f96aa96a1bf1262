package cascade

import (
	"errors"
	"math"

	"github.com/mwg2202/facial-recognition/internal/feature"
	"github.com/mwg2202/facial-recognition/internal/haar"
	"github.com/mwg2202/facial-recognition/internal/sample"
	"github.com/mwg2202/facial-recognition/internal/strong"
)

// ErrEmptyWorkingSet is returned when a stage is asked to train on a set
// with no positives or no negatives (spec §4.7).
var ErrEmptyWorkingSet = errors.New("cascade: working set has no positives or no negatives")

// StageProgress is reported to the caller's logging sink after every
// boosting round, per spec §5's requirement that training emit stage/round
// indices and current rates.
type StageProgress struct {
	Round            int
	DetectionRate    float64
	FalsePositive    float64
	RoundError       float64
	ThresholdRelaxed int
}

// TrainStage runs the stage-training protocol of spec §4.6.1: add rounds to
// a fresh strong classifier until both the false-positive-rate target is
// met; within each round, relax the decision threshold until the
// detection-rate target is met.
//
// onRound, if non-nil, is called after every boosting round (including
// threshold-relaxation steps folded into that round) for progress
// reporting; it must not retain set, which the caller may mutate later.
func TrainStage(pool []*feature.WeakClassifier, set *sample.Set, cfg Config, onRound func(StageProgress)) (*strong.Classifier, error) {
	if set.CountPositives() == 0 || set.CountNegatives() == 0 {
		return nil, ErrEmptyWorkingSet
	}

	stage := strong.New()
	for {
		round, err := stage.AddRound(pool, set)
		if err != nil {
			return nil, err
		}

		step := stage.Threshold / cfg.ThresholdStepDivisor
		relaxed := 0
		for detectionRate(stage, set) < cfg.MinDR {
			wMin := minAlpha(stage)
			if stage.Threshold < wMin {
				stage.Threshold = 0
			} else {
				stage.Threshold -= step
			}
			relaxed++
			if stage.Threshold <= 0 {
				break
			}
		}

		if onRound != nil {
			onRound(StageProgress{
				Round:            stage.Len(),
				DetectionRate:    detectionRate(stage, set),
				FalsePositive:    falsePositiveRate(stage, set),
				RoundError:       round.Weak.Error,
				ThresholdRelaxed: relaxed,
			})
		}

		if falsePositiveRate(stage, set) < cfg.MaxFPR {
			return stage, nil
		}
	}
}

func minAlpha(stage *strong.Classifier) float64 {
	min := math.Inf(1)
	for _, r := range stage.Rounds {
		if r.Alpha < min {
			min = r.Alpha
		}
	}
	return min
}

func detectionRate(classify interface {
	ClassifyWindow(*haar.IntegralImage, *haar.ScaledWindow) bool
}, set *sample.Set) float64 {
	var tp, p int
	for i := 0; i < set.Len(); i++ {
		if !set.IsObject[i] {
			continue
		}
		p++
		if classify.ClassifyWindow(set.Images[i], nil) {
			tp++
		}
	}
	if p == 0 {
		return 1
	}
	return float64(tp) / float64(p)
}

func falsePositiveRate(classify interface {
	ClassifyWindow(*haar.IntegralImage, *haar.ScaledWindow) bool
}, set *sample.Set) float64 {
	var fp, n int
	for i := 0; i < set.Len(); i++ {
		if set.IsObject[i] {
			continue
		}
		n++
		if classify.ClassifyWindow(set.Images[i], nil) {
			fp++
		}
	}
	if n == 0 {
		return 0
	}
	return float64(fp) / float64(n)
}
