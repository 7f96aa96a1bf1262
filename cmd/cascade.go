package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mwg2202/facial-recognition/internal/cascade"
	"github.com/mwg2202/facial-recognition/internal/feature"
	"github.com/mwg2202/facial-recognition/internal/sample"
	"github.com/mwg2202/facial-recognition/internal/store"
)

var (
	cascadeMode           string
	cascadeSize           int
	cascadeRoundsPerStage int
	cascadeSeed           int64
)

var cascadeCmd = &cobra.Command{
	Use:   "cascade",
	Short: "Load cached samples and train a full cascade from scratch",
	Long: `Loads cache/images.json and trains a cascade from an empty starting
point, either in layout mode (a fixed number of stages, each given the same
number of boosting rounds) or target-fpr mode (stages repeat until the
cascade's overall false-positive rate drops below the target). The result
is written to output/cascade.json, with a checkpoint saved to
cache/cascade_backup.json after every stage.`,
	RunE: runCascade,
}

func init() {
	cfg := cascade.DefaultConfig()
	cascadeCmd.Flags().StringVar(&cascadeMode, "mode", "layout", "Training mode: layout or target-fpr")
	cascadeCmd.Flags().IntVar(&cascadeSize, "stages", cfg.CascadeSize, "Number of stages in layout mode")
	cascadeCmd.Flags().IntVar(&cascadeRoundsPerStage, "rounds-per-stage", 10, "Boosting rounds per stage in layout mode")
	cascadeCmd.Flags().Int64Var(&cascadeSeed, "seed", 42, "Random seed for hard-negative resampling")
	rootCmd.AddCommand(cascadeCmd)
}

func runCascade(cmd *cobra.Command, args []string) error {
	s, err := store.New(baseDir)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	set, err := s.LoadSampleSet()
	if err != nil {
		return fmt.Errorf("load working set: %w", err)
	}

	return trainAndPersist(s, nil, set, cascadeMode, cascadeSize, cascadeRoundsPerStage, cascadeSeed)
}

// trainAndPersist drives either training mode to completion against set,
// starting from initial (nil for a fresh cascade, non-nil for "continue"),
// and persists the result to output/cascade.json. Every stage is backed up
// to cache/cascade_backup.json as it completes, so a cancellation (SIGINT
// or SIGTERM) at a stage boundary still leaves a resumable artifact.
func trainAndPersist(s *store.Store, initial *cascade.Cascade, set *sample.Set, mode string, stages, roundsPerStage int, seed int64) error {
	cfg := cascade.DefaultConfig()
	pool := feature.Enumerate(cfg.WL, cfg.WH)
	rng := rand.New(rand.NewSource(seed))
	otherDir := filepath.Join(baseDir, "images", "training", "other")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hooks := cascade.Hooks{
		OnRound: func(stageIdx int, p cascade.StageProgress) {
			slog.Info("boosting round complete",
				"stage", stageIdx, "round", p.Round,
				"detection_rate", p.DetectionRate, "false_positive_rate", p.FalsePositive,
				"round_error", p.RoundError, "threshold_relaxations", p.ThresholdRelaxed)
		},
		OnStage: func(stageIdx int, report cascade.ConfusionReport, set *sample.Set) {
			slog.Info("stage complete",
				"stage", stageIdx,
				"detection_rate", report.DetectionRate(), "false_positive_rate", report.FalsePositiveRate(),
				"working_set_size", set.Len())
		},
		Backup: s.SaveCascadeBackup,
	}

	var c *cascade.Cascade
	var err error
	switch mode {
	case "layout":
		sizes := make([]int, stages)
		for i := range sizes {
			sizes[i] = roundsPerStage
		}
		c, err = cascade.TrainLayout(ctx, initial, pool, set, cfg, sizes, otherDir, rng, hooks)
	case "target-fpr":
		c, err = cascade.TrainTargetFPR(ctx, initial, pool, set, cfg, otherDir, rng, hooks)
	default:
		return fmt.Errorf("unknown mode %q: want layout or target-fpr", mode)
	}
	if err != nil {
		return fmt.Errorf("train cascade: %w", err)
	}

	if err := s.SaveFinalCascade(c); err != nil {
		return fmt.Errorf("persist final cascade: %w", err)
	}

	fmt.Printf("trained cascade with %d stages, wrote output/cascade.json\n", len(c.Stages))
	return nil
}
