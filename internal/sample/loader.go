package sample

import (
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/mwg2202/facial-recognition/internal/haar"
	"github.com/mwg2202/facial-recognition/internal/imageio"
)

// LoadObjectDir builds positive samples from every image in dir: each is
// resized by a triangle filter to wl x wh, converted to grayscale, and
// built into an integral image. A uniformly random subset of size n is
// retained (or all of them, if fewer than n decoded). Each sample is
// labeled positive with weight 1/(2k), where k is the number retained.
//
// A single file that fails to decode is skipped with a warning (spec §7:
// DecodeFailure is recoverable locally); an empty directory is an error.
func LoadObjectDir(dir string, n, wl, wh int, rng *rand.Rand) (*Set, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var images []*haar.IntegralImage
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		g, err := imageio.DecodeGrayResized(path, wl, wh)
		if err != nil {
			slog.Warn("skipping undecodable positive image", "path", path, "error", err)
			continue
		}
		images = append(images, haar.NewIntegralImage(g.Pix, g.Width, g.Height))
	}

	if len(images) == 0 {
		return nil, &ErrEmptyDirectory{Dir: dir}
	}

	kept := sampleMultiple(rng, images, n)
	set := NewSet()
	weight := 1.0 / float64(2*len(kept))
	for _, img := range kept {
		set.Add(img, weight, true)
	}
	return set, nil
}

// LoadOtherDir builds negative samples by tiling every image in dir into
// disjoint wl x wh crops at every (x*wl, y*wh) origin that fits. If ref is
// non-nil, only crops ref currently classifies positive (hard negatives)
// are kept - this is how the cascade trainer mines hard negatives for
// later stages. A uniformly random subset of size n is retained.
func LoadOtherDir(dir string, n, wl, wh int, ref Classifier, rng *rand.Rand) (*Set, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var images []*haar.IntegralImage
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		g, err := imageio.DecodeGray(path)
		if err != nil {
			slog.Warn("skipping undecodable negative image", "path", path, "error", err)
			continue
		}

		tilesX := g.Width / wl
		tilesY := g.Height / wh
		for ty := 0; ty < tilesY; ty++ {
			for tx := 0; tx < tilesX; tx++ {
				crop := g.Crop(tx*wl, ty*wh, wl, wh)
				img := haar.NewIntegralImage(crop.Pix, wl, wh)
				if ref != nil && !ref.Classify(img) {
					continue
				}
				images = append(images, img)
			}
		}
	}

	if len(images) == 0 {
		return nil, &ErrEmptyDirectory{Dir: dir}
	}

	kept := sampleMultiple(rng, images, n)
	set := NewSet()
	weight := 1.0 / float64(2*len(kept))
	for _, img := range kept {
		set.Add(img, weight, false)
	}
	return set, nil
}

// LoadDirs builds the full working set from an object directory and a
// non-object directory, combining negatives and positives.
func LoadDirs(objectDir, otherDir string, nPos, nNeg, wl, wh int, ref Classifier, rng *rand.Rand) (*Set, error) {
	negatives, err := LoadOtherDir(otherDir, nNeg, wl, wh, ref, rng)
	if err != nil {
		return nil, err
	}
	positives, err := LoadObjectDir(objectDir, nPos, wl, wh, rng)
	if err != nil {
		return nil, err
	}
	negatives.Append(positives)
	return negatives, nil
}
