package sample

import (
	"math"
	"testing"

	"github.com/mwg2202/facial-recognition/internal/haar"
)

func newTestImage(v uint8) *haar.IntegralImage {
	return haar.NewIntegralImage([]uint8{v, v, v, v}, 2, 2)
}

func TestSetNormalizeWeights(t *testing.T) {
	s := NewSet()
	s.Add(newTestImage(1), 1.0, true)
	s.Add(newTestImage(2), 2.0, false)
	s.Add(newTestImage(3), 1.0, false)

	s.NormalizeWeights()

	var total float64
	for _, w := range s.Weight {
		total += w
	}
	if math.Abs(total-1.0) > 1e-12 {
		t.Errorf("weights sum = %f, want 1.0", total)
	}
}

func TestSetFilterKeepsHardNegativesAndPositives(t *testing.T) {
	s := NewSet()
	s.Add(newTestImage(1), 0.1, true)  // positive, always kept
	s.Add(newTestImage(2), 0.1, false) // negative, classified positive (hard negative)
	s.Add(newTestImage(3), 0.1, false) // negative, classified negative (true negative, dropped)

	classifiedPositive := map[*haar.IntegralImage]bool{
		s.Images[1]: true,
		s.Images[2]: false,
	}

	s.Filter(func(img *haar.IntegralImage, _ float64, isObject bool) bool {
		return isObject || classifiedPositive[img]
	})

	if s.Len() != 2 {
		t.Fatalf("expected 2 samples to remain, got %d", s.Len())
	}
	if !s.IsObject[0] {
		t.Errorf("expected first remaining sample to be the positive")
	}
	if s.IsObject[1] {
		t.Errorf("expected second remaining sample to be the hard negative")
	}
}

func TestSetCounts(t *testing.T) {
	s := NewSet()
	s.Add(newTestImage(1), 0.1, true)
	s.Add(newTestImage(2), 0.1, false)
	s.Add(newTestImage(3), 0.1, false)

	if got := s.CountPositives(); got != 1 {
		t.Errorf("CountPositives() = %d, want 1", got)
	}
	if got := s.CountNegatives(); got != 2 {
		t.Errorf("CountNegatives() = %d, want 2", got)
	}
}

type fakeClassifier struct {
	result bool
}

func (f fakeClassifier) Classify(*haar.IntegralImage) bool { return f.result }

func TestLoadOtherDirEmptyDirectory(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadOtherDir(dir, 10, 25, 25, nil, nil)
	if err == nil {
		t.Fatal("expected error for empty directory")
	}
	if _, ok := err.(*ErrEmptyDirectory); !ok {
		t.Errorf("expected *ErrEmptyDirectory, got %T", err)
	}
}

func TestLoadObjectDirEmptyDirectory(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadObjectDir(dir, 10, 25, 25, nil)
	if err == nil {
		t.Fatal("expected error for empty directory")
	}
	if _, ok := err.(*ErrEmptyDirectory); !ok {
		t.Errorf("expected *ErrEmptyDirectory, got %T", err)
	}
}
