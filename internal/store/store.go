// Package store persists the artifacts training and detection produce:
// the working sample set, cascade checkpoints, and detection results. It
// writes JSON via the temp-file-then-rename pattern so a crash mid-write
// never leaves a corrupt artifact behind.
package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mwg2202/facial-recognition/internal/cascade"
	"github.com/mwg2202/facial-recognition/internal/haar"
	"github.com/mwg2202/facial-recognition/internal/sample"
)

// NotFoundError is returned when an expected artifact is absent (spec §7:
// MissingArtifact). Use errors.As to recognize it.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("missing artifact: %s", e.Path)
}

// Store roots all artifact paths at baseDir, laid out per spec §6:
// cache/images.json, cache/cascade_backup.json, output/cascade.json, and
// output/<name>.json.
type Store struct {
	baseDir string
}

// New returns a Store rooted at baseDir, creating cache/ and output/ if
// they do not already exist.
func New(baseDir string) (*Store, error) {
	for _, sub := range []string{"cache", "output"} {
		if err := os.MkdirAll(filepath.Join(baseDir, sub), 0o755); err != nil {
			return nil, fmt.Errorf("create %s directory: %w", sub, err)
		}
	}
	return &Store{baseDir: baseDir}, nil
}

func (s *Store) path(parts ...string) string {
	return filepath.Join(append([]string{s.baseDir}, parts...)...)
}

// writeJSON serializes v to path atomically: write to path+".tmp", then
// rename over the final path.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	slog.Debug("wrote artifact", "path", path)
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &NotFoundError{Path: path}
		}
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("unmarshal %s: %w", path, err)
	}
	return nil
}

// sampleRecord is the on-disk form of one sample.Set entry: the
// reconstructed pixel buffer plus weight and label, since haar.IntegralImage
// keeps its prefix-sum table unexported.
type sampleRecord struct {
	Pixels   []uint8 `json:"pixels"`
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	Weight   float64 `json:"weight"`
	IsObject bool    `json:"is_object"`
}

// SaveSampleSet writes set to cache/images.json.
func (s *Store) SaveSampleSet(set *sample.Set) error {
	records := make([]sampleRecord, set.Len())
	for i := 0; i < set.Len(); i++ {
		records[i] = sampleRecord{
			Pixels:   set.Images[i].Pixels(),
			Width:    set.Images[i].Width(),
			Height:   set.Images[i].Height(),
			Weight:   set.Weight[i],
			IsObject: set.IsObject[i],
		}
	}
	return writeJSON(s.path("cache", "images.json"), records)
}

// LoadSampleSet reads the sample set persisted by SaveSampleSet.
func (s *Store) LoadSampleSet() (*sample.Set, error) {
	var records []sampleRecord
	if err := readJSON(s.path("cache", "images.json"), &records); err != nil {
		return nil, err
	}

	set := sample.NewSet()
	for _, r := range records {
		img := haar.NewIntegralImage(r.Pixels, r.Width, r.Height)
		set.Add(img, r.Weight, r.IsObject)
	}
	return set, nil
}

// SaveCascadeBackup writes c to cache/cascade_backup.json. It is the
// BackupFunc passed to cascade training so a checkpoint survives after
// every completed stage (spec §4.6.2 step 3, spec §5 cancellation).
func (s *Store) SaveCascadeBackup(c *cascade.Cascade) error {
	return writeJSON(s.path("cache", "cascade_backup.json"), c)
}

// LoadCascadeBackup reads the checkpoint written by SaveCascadeBackup, for
// the "continue" subcommand.
func (s *Store) LoadCascadeBackup() (*cascade.Cascade, error) {
	var c cascade.Cascade
	if err := readJSON(s.path("cache", "cascade_backup.json"), &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// SaveFinalCascade writes the completed cascade to output/cascade.json.
func (s *Store) SaveFinalCascade(c *cascade.Cascade) error {
	return writeJSON(s.path("output", "cascade.json"), c)
}

// LoadFinalCascade reads the cascade persisted by SaveFinalCascade, for the
// "test" and "detect" subcommands.
func (s *Store) LoadFinalCascade() (*cascade.Cascade, error) {
	var c cascade.Cascade
	if err := readJSON(s.path("output", "cascade.json"), &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// SaveDetections writes a detection run's rectangles to output/<name>.json.
func (s *Store) SaveDetections(name string, dets []cascade.Detection) error {
	return writeJSON(s.path("output", name+".json"), dets)
}
