// Package sample holds the labeled, weighted training set used by AdaBoost
// and the cascade trainer: a struct-of-arrays of integral images, weights,
// and object/non-object labels.
package sample

import (
	"fmt"
	"math/rand"

	"github.com/mwg2202/facial-recognition/internal/haar"
)

// Classifier is the narrow capability the sampler needs from a (partial)
// cascade: only the ability to classify an integral image. Decoupling the
// loader from the concrete cascade type lets tests inject fakes and avoids
// an import cycle between sample and cascade.
type Classifier interface {
	Classify(img *haar.IntegralImage) bool
}

// Set is a struct-of-arrays representation of the training set. Images and
// IsObject are immutable after construction; Weight is mutated during
// AdaBoost and by NormalizeWeights.
type Set struct {
	Images   []*haar.IntegralImage
	Weight   []float64
	IsObject []bool
}

// NewSet creates an empty set.
func NewSet() *Set {
	return &Set{}
}

// Len returns the number of samples in the set.
func (s *Set) Len() int { return len(s.Images) }

// Add appends a sample to the set.
func (s *Set) Add(img *haar.IntegralImage, weight float64, isObject bool) {
	s.Images = append(s.Images, img)
	s.Weight = append(s.Weight, weight)
	s.IsObject = append(s.IsObject, isObject)
}

// Clone returns a copy of s with independent Images/Weight/IsObject backing
// arrays (the integral images themselves are shared, read-only, pointers).
// Callers that need a stable reference set — one Filter on the original
// won't mutate, since Filter reuses its backing arrays in place — should
// Clone before training begins.
func (s *Set) Clone() *Set {
	return &Set{
		Images:   append([]*haar.IntegralImage(nil), s.Images...),
		Weight:   append([]float64(nil), s.Weight...),
		IsObject: append([]bool(nil), s.IsObject...),
	}
}

// Append concatenates other onto s in place.
func (s *Set) Append(other *Set) {
	s.Images = append(s.Images, other.Images...)
	s.Weight = append(s.Weight, other.Weight...)
	s.IsObject = append(s.IsObject, other.IsObject...)
}

// NormalizeWeights divides every sample's weight by the sum of all weights,
// so that afterward the weights sum to 1 (modulo floating-point error). It
// is undefined (and will divide by zero) if the set is empty or every
// weight is zero; callers must ensure a nonempty working set with positive
// total weight.
func (s *Set) NormalizeWeights() {
	var total float64
	for _, w := range s.Weight {
		total += w
	}
	for i := range s.Weight {
		s.Weight[i] /= total
	}
}

// Filter keeps only the samples for which keep returns true, in place,
// preserving relative order.
func (s *Set) Filter(keep func(img *haar.IntegralImage, weight float64, isObject bool) bool) {
	images := s.Images[:0]
	weights := s.Weight[:0]
	labels := s.IsObject[:0]
	for i := range s.Images {
		if keep(s.Images[i], s.Weight[i], s.IsObject[i]) {
			images = append(images, s.Images[i])
			weights = append(weights, s.Weight[i])
			labels = append(labels, s.IsObject[i])
		}
	}
	s.Images = images
	s.Weight = weights
	s.IsObject = labels
}

// CountNegatives returns the number of samples labeled non-object.
func (s *Set) CountNegatives() int {
	n := 0
	for _, obj := range s.IsObject {
		if !obj {
			n++
		}
	}
	return n
}

// CountPositives returns the number of samples labeled object.
func (s *Set) CountPositives() int {
	return s.Len() - s.CountNegatives()
}

// sampleMultiple draws a uniformly random subset of size n without
// replacement from images (paired with a shared weight and label), using
// rng. If len(images) <= n, the full slice is returned.
func sampleMultiple(rng *rand.Rand, images []*haar.IntegralImage, n int) []*haar.IntegralImage {
	if len(images) <= n {
		return images
	}
	perm := rng.Perm(len(images))[:n]
	out := make([]*haar.IntegralImage, n)
	for i, idx := range perm {
		out[i] = images[idx]
	}
	return out
}

// ErrEmptyDirectory is returned when a training directory yields no usable
// images.
type ErrEmptyDirectory struct {
	Dir string
}

func (e *ErrEmptyDirectory) Error() string {
	return fmt.Sprintf("no usable images found in %s", e.Dir)
}
