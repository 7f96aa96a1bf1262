package cascade

import (
	"context"
	"math/rand"

	"github.com/mwg2202/facial-recognition/internal/feature"
	"github.com/mwg2202/facial-recognition/internal/haar"
	"github.com/mwg2202/facial-recognition/internal/sample"
	"github.com/mwg2202/facial-recognition/internal/strong"
)

// BackupFunc persists a partial cascade after a stage completes (spec
// §4.6.2 step 3). It is deliberately a bare function type, not an
// interface bound to any concrete persistence package, so this package
// never depends on how or where the artifact is written.
type BackupFunc func(*Cascade) error

// Hooks bundles the optional callbacks a cascade training run reports
// through: per-round progress within a stage, and a post-stage report once
// the working set has been filtered. Any field may be nil.
type Hooks struct {
	OnRound func(stageIndex int, p StageProgress)
	OnStage func(stageIndex int, report ConfusionReport, set *sample.Set)
	Backup  BackupFunc
}

// TrainStageRounds trains a stage by adding exactly numRounds boosting
// rounds (layout mode, spec §4.6.2), relaxing the threshold after each
// round to meet cfg.MinDR the same way TrainStage does, but without an
// outer false-positive-rate-driven repeat.
func TrainStageRounds(pool []*feature.WeakClassifier, set *sample.Set, cfg Config, numRounds int, onRound func(StageProgress)) (*strong.Classifier, error) {
	if set.CountPositives() == 0 || set.CountNegatives() == 0 {
		return nil, ErrEmptyWorkingSet
	}

	stage := strong.New()
	for round := 0; round < numRounds; round++ {
		r, err := stage.AddRound(pool, set)
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
				RoundError:       r.Weak.Error,
				ThresholdRelaxed: relaxed,
			})
		}
	}
	return stage, nil
}

// filterAndRefill implements spec §4.6.2's between-stage bookkeeping: drop
// true negatives the cascade-so-far already rejects (retaining positives
// and hard negatives), and if negatives fall below cfg.MinNumNeg, discard
// them entirely and mine fresh hard negatives from otherDir until cfg.NNeg
// are collected.
func filterAndRefill(c *Cascade, set *sample.Set, cfg Config, otherDir string, rng *rand.Rand) error {
	set.Filter(func(img *haar.IntegralImage, _ float64, isObject bool) bool {
		return isObject || c.Classify(img)
	})

	if set.CountNegatives() >= cfg.MinNumNeg {
		return nil
	}

	set.Filter(func(_ *haar.IntegralImage, _ float64, isObject bool) bool {
		return isObject
	})

	negatives, err := sample.LoadOtherDir(otherDir, cfg.NNeg, cfg.WL, cfg.WH, c, rng)
	if err != nil {
		return err
	}
	set.Append(negatives)
	return nil
}

// TrainLayout trains a cascade with a fixed list of per-stage round counts
// (spec §4.6.2's layout mode): stage i receives exactly stageSizes[i]
// boosting rounds, then the working set is filtered and refilled before
// the next stage begins. Training stops early, after persisting whatever
// stages completed, if ctx is canceled at a stage boundary (spec §5). If
// initial is non-nil, its stages are kept and new ones are appended, the
// "continue" subcommand's resume path.
func TrainLayout(ctx context.Context, initial *Cascade, pool []*feature.WeakClassifier, set *sample.Set, cfg Config, stageSizes []int, otherDir string, rng *rand.Rand, hooks Hooks) (*Cascade, error) {
	c := initial
	if c == nil {
		c = New()
	}
	base := len(c.Stages)
	for i, size := range stageSizes {
		stage, err := TrainStageRounds(pool, set, cfg, size, roundHook(hooks, base+i))
		if err != nil {
			return c, err
		}
		c.Stages = append(c.Stages, stage)

		if err := afterStage(c, set, cfg, otherDir, rng, hooks, base+i); err != nil {
			return c, err
		}
		if ctx.Err() != nil {
			return c, nil
		}
	}
	return c, nil
}

// TrainTargetFPR trains a cascade by repeating the full stage-training
// protocol (spec §4.6.1, each stage trained to its own MaxFPR/MinDR
// targets) until the cascade's overall false-positive rate on a held-out
// reference set drops below cfg.TargetFPR (spec §4.6.2's target-FPR mode).
// The reference set is a Clone of set taken before training starts: set
// itself is the working set, filtered and refilled after every stage by
// afterStage, so by construction its surviving negatives are exactly the
// ones the cascade-so-far still accepts — evaluating against it would make
// the false-positive rate read back ≈1.0 forever. If initial is non-nil,
// its stages are kept and new ones are appended.
func TrainTargetFPR(ctx context.Context, initial *Cascade, pool []*feature.WeakClassifier, set *sample.Set, cfg Config, otherDir string, rng *rand.Rand, hooks Hooks) (*Cascade, error) {
	c := initial
	if c == nil {
		c = New()
	}
	reference := set.Clone()
	base := len(c.Stages)
	for i := 0; ; i++ {
		stage, err := TrainStage(pool, set, cfg, roundHook(hooks, base+i))
		if err != nil {
			return c, err
		}
		c.Stages = append(c.Stages, stage)

		if err := afterStage(c, set, cfg, otherDir, rng, hooks, base+i); err != nil {
			return c, err
		}

		report := c.Evaluate(reference)
		if report.FalsePositiveRate() < cfg.TargetFPR {
			return c, nil
		}
		if ctx.Err() != nil {
			return c, nil
		}
	}
}

func afterStage(c *Cascade, set *sample.Set, cfg Config, otherDir string, rng *rand.Rand, hooks Hooks, stageIndex int) error {
	report := c.Evaluate(set)
	if hooks.OnStage != nil {
		hooks.OnStage(stageIndex, report, set)
	}

	if err := filterAndRefill(c, set, cfg, otherDir, rng); err != nil {
		return err
	}

	if hooks.Backup != nil {
		if err := hooks.Backup(c); err != nil {
			return err
		}
	}
	return nil
}

func roundHook(hooks Hooks, stageIndex int) func(StageProgress) {
	if hooks.OnRound == nil {
		return nil
	}
	return func(p StageProgress) { hooks.OnRound(stageIndex, p) }
}
