package main

import (
	"fmt"
	"math/rand"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mwg2202/facial-recognition/internal/cascade"
	"github.com/mwg2202/facial-recognition/internal/sample"
	"github.com/mwg2202/facial-recognition/internal/store"
)

var (
	processSeed int64
	processNPos int
	processNNeg int
)

var processImagesCmd = &cobra.Command{
	Use:   "process_images",
	Short: "Build the working sample set and persist it to cache",
	Long: `Loads images/training/object and images/training/other, resizes and
tiles them into the canonical detection window, and writes the resulting
sample set to cache/images.json.`,
	RunE: runProcessImages,
}

func init() {
	cfg := cascade.DefaultConfig()
	processImagesCmd.Flags().Int64Var(&processSeed, "seed", 42, "Random seed for sample subsetting")
	processImagesCmd.Flags().IntVar(&processNPos, "n-pos", cfg.NPos, "Number of positive samples to retain")
	processImagesCmd.Flags().IntVar(&processNNeg, "n-neg", cfg.NNeg, "Number of negative samples to retain")
	rootCmd.AddCommand(processImagesCmd)
}

func runProcessImages(cmd *cobra.Command, args []string) error {
	cfg := cascade.DefaultConfig()
	rng := rand.New(rand.NewSource(processSeed))

	objectDir := filepath.Join(baseDir, "images", "training", "object")
	otherDir := filepath.Join(baseDir, "images", "training", "other")

	set, err := sample.LoadDirs(objectDir, otherDir, processNPos, processNNeg, cfg.WL, cfg.WH, nil, rng)
	if err != nil {
		return fmt.Errorf("build working set: %w", err)
	}

	s, err := store.New(baseDir)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	if err := s.SaveSampleSet(set); err != nil {
		return fmt.Errorf("persist working set: %w", err)
	}

	fmt.Printf("processed %d positives and %d negatives into cache/images.json\n", set.CountPositives(), set.CountNegatives())
	return nil
}
