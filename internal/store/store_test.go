package store

import (
	"errors"
	"testing"

	"github.com/mwg2202/facial-recognition/internal/cascade"
	"github.com/mwg2202/facial-recognition/internal/feature"
	"github.com/mwg2202/facial-recognition/internal/haar"
	"github.com/mwg2202/facial-recognition/internal/sample"
	"github.com/mwg2202/facial-recognition/internal/strong"
)

func TestSampleSetRoundTrips(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	set := sample.NewSet()
	set.Add(haar.NewIntegralImage([]uint8{1, 2, 3, 4}, 2, 2), 0.25, true)
	set.Add(haar.NewIntegralImage([]uint8{5, 6, 7, 8}, 2, 2), 0.75, false)

	if err := s.SaveSampleSet(set); err != nil {
		t.Fatalf("SaveSampleSet: %v", err)
	}

	got, err := s.LoadSampleSet()
	if err != nil {
		t.Fatalf("LoadSampleSet: %v", err)
	}
	if got.Len() != set.Len() {
		t.Fatalf("Len() = %d, want %d", got.Len(), set.Len())
	}
	for i := 0; i < set.Len(); i++ {
		if got.Weight[i] != set.Weight[i] || got.IsObject[i] != set.IsObject[i] {
			t.Errorf("sample %d metadata mismatch", i)
		}
		if got.Images[i].Width() != set.Images[i].Width() || got.Images[i].Height() != set.Images[i].Height() {
			t.Errorf("sample %d dimension mismatch", i)
		}
		wantPix, gotPix := set.Images[i].Pixels(), got.Images[i].Pixels()
		for p := range wantPix {
			if wantPix[p] != gotPix[p] {
				t.Errorf("sample %d pixel %d = %d, want %d", i, p, gotPix[p], wantPix[p])
			}
		}
	}
}

func TestCascadeRoundTrips(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	wc := &feature.WeakClassifier{Kind: feature.TwoHorizontal, X: 1, Y: 2, CellW: 3, CellH: 4, Threshold: 5.5, Polarity: -1, Error: 0.1}
	stage := &strong.Classifier{Rounds: []strong.Round{{Weak: wc, Alpha: 0.9}}, Threshold: 0.45}
	c := &cascade.Cascade{Stages: []*strong.Classifier{stage}}

	if err := s.SaveFinalCascade(c); err != nil {
		t.Fatalf("SaveFinalCascade: %v", err)
	}
	got, err := s.LoadFinalCascade()
	if err != nil {
		t.Fatalf("LoadFinalCascade: %v", err)
	}

	if len(got.Stages) != 1 || len(got.Stages[0].Rounds) != 1 {
		t.Fatalf("unexpected shape: %+v", got)
	}
	gotWc := got.Stages[0].Rounds[0].Weak
	if *gotWc != *wc {
		t.Errorf("weak classifier mismatch: got %+v, want %+v", gotWc, wc)
	}
	if got.Stages[0].Threshold != stage.Threshold {
		t.Errorf("stage threshold mismatch: got %f, want %f", got.Stages[0].Threshold, stage.Threshold)
	}
}

func TestLoadMissingArtifactReturnsNotFoundError(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_, err = s.LoadFinalCascade()
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected *NotFoundError, got %v", err)
	}
}

func TestSaveDetections(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	dets := []cascade.Detection{{X: 1, Y: 2, W: 25, H: 25}}
	if err := s.SaveDetections("photo", dets); err != nil {
		t.Fatalf("SaveDetections: %v", err)
	}
}
