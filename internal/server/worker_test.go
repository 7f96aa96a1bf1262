package server

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/mwg2202/facial-recognition/internal/store"
)

func TestRunJob_Success(t *testing.T) {
	baseDir := t.TempDir()
	writeFixtureDirs(t, baseDir)

	st, err := store.New(baseDir)
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}

	jm := NewJobManager()
	config := TrainingConfig{
		BaseDir:        baseDir,
		Mode:           "layout",
		Stages:         1,
		RoundsPerStage: 1,
		NPos:           4,
		NNeg:           4,
		Seed:           42,
	}

	job := jm.CreateJob(config)

	ctx := context.Background()
	if err := runJob(ctx, jm, st, job.ID); err != nil {
		t.Fatalf("runJob should succeed: %v", err)
	}

	updated, _ := jm.GetJob(job.ID)
	if updated.State != StateCompleted {
		t.Fatalf("job should be completed, got %s", updated.State)
	}
	if updated.StagesTrained != 1 {
		t.Errorf("expected 1 trained stage, got %d", updated.StagesTrained)
	}
}

func TestRunJob_MissingDirectory(t *testing.T) {
	baseDir := t.TempDir()

	st, err := store.New(baseDir)
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}

	jm := NewJobManager()
	config := TrainingConfig{
		BaseDir:        baseDir,
		Mode:           "layout",
		Stages:         1,
		RoundsPerStage: 1,
		NPos:           4,
		NNeg:           4,
		Seed:           42,
	}
	job := jm.CreateJob(config)

	err = runJob(context.Background(), jm, st, job.ID)
	if err == nil {
		t.Error("runJob should fail when training directories are missing")
	}

	updated, _ := jm.GetJob(job.ID)
	if updated.State != StateFailed {
		t.Errorf("job should be failed, got %s", updated.State)
	}
	if updated.Error == "" {
		t.Error("error message should be set")
	}
}

func TestRunJob_Cancellation(t *testing.T) {
	baseDir := t.TempDir()
	writeFixtureDirs(t, baseDir)

	st, err := store.New(baseDir)
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}

	jm := NewJobManager()
	config := TrainingConfig{
		BaseDir:        baseDir,
		Mode:           "layout",
		Stages:         20,
		RoundsPerStage: 5,
		NPos:           4,
		NNeg:           4,
		Seed:           42,
	}
	job := jm.CreateJob(config)

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // cancelled before the worker even starts a stage boundary check

	err = runJob(ctx, jm, st, job.ID)
	if err == nil {
		t.Fatal("runJob should report the cancellation error")
	}

	updated, _ := jm.GetJob(job.ID)
	if updated.State != StateCancelled {
		t.Errorf("job should be cancelled, got %s", updated.State)
	}
}

// writeFixtureDirs populates baseDir/images/training/{object,other} with
// tiny synthetic PNGs: a bright square for positives, a uniform dark tile
// for negatives, enough for LoadDirs to build a non-empty working set.
func writeFixtureDirs(t *testing.T, baseDir string) {
	t.Helper()

	objectDir := filepath.Join(baseDir, "images", "training", "object")
	otherDir := filepath.Join(baseDir, "images", "training", "other")
	if err := os.MkdirAll(objectDir, 0o755); err != nil {
		t.Fatalf("mkdir object dir: %v", err)
	}
	if err := os.MkdirAll(otherDir, 0o755); err != nil {
		t.Fatalf("mkdir other dir: %v", err)
	}

	for i := 0; i < 4; i++ {
		writePNG(t, filepath.Join(objectDir, testImageName(i)), 30, 30, color.Gray{Y: 220})
		writePNG(t, filepath.Join(otherDir, testImageName(i)), 50, 50, color.Gray{Y: 20})
	}
}

func testImageName(i int) string {
	return string(rune('a'+i)) + ".png"
}

func writePNG(t *testing.T, path string, w, h int, fill color.Gray) {
	t.Helper()

	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetGray(x, y, fill)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
}
