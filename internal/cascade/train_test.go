package cascade

import (
	"testing"

	"github.com/mwg2202/facial-recognition/internal/feature"
	"github.com/mwg2202/facial-recognition/internal/strong"
)

func TestTrainStageRoundsAddsExactCount(t *testing.T) {
	const wl, wh = 6, 6
	set := separableSet(wl, wh, 4)
	pool := feature.Enumerate(wl, wh)
	cfg := DefaultConfig()
	cfg.WL, cfg.WH = wl, wh

	stage, err := TrainStageRounds(pool, set, cfg, 3, nil)
	if err != nil {
		t.Fatalf("TrainStageRounds: %v", err)
	}
	if stage.Len() != 3 {
		t.Errorf("Len() = %d, want 3", stage.Len())
	}
}

func TestFilterAndRefillDropsTrueNegativesWithoutRefill(t *testing.T) {
	const wl, wh = 4, 4
	set := separableSet(wl, wh, 2)

	cascade := &Cascade{Stages: []*strong.Classifier{acceptPositivesStage(wl, wh)}}
	cfg := DefaultConfig()
	cfg.WL, cfg.WH = wl, wh
	cfg.MinNumNeg = 0 // never triggers the refill path, so no directory I/O happens

	if err := filterAndRefill(cascade, set, cfg, "", nil); err != nil {
		t.Fatalf("filterAndRefill: %v", err)
	}

	for i := 0; i < set.Len(); i++ {
		if !set.IsObject[i] && !cascade.Classify(set.Images[i]) {
			t.Errorf("sample %d is a true negative and should have been dropped", i)
		}
	}
}

// acceptPositivesStage builds a stage trained on a uniform-bright vs
// uniform-dark separable set, used so filterAndRefill has a real (non-trivial)
// classifier to filter against.
func acceptPositivesStage(wl, wh int) *strong.Classifier {
	set := separableSet(wl, wh, 2)
	pool := feature.Enumerate(wl, wh)
	stage := strong.New()
	stage.AddRound(pool, set)
	return stage
}
