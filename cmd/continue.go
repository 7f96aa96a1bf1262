package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mwg2202/facial-recognition/internal/store"
)

var (
	continueMode           string
	continueSize           int
	continueRoundsPerStage int
	continueSeed           int64
)

var continueCmd = &cobra.Command{
	Use:   "continue",
	Short: "Resume training from the cached cascade backup and samples",
	Long: `Loads cache/cascade_backup.json and cache/images.json and appends
additional stages to the partial cascade using the same stage-training
protocol as the cascade command.`,
	RunE: runContinue,
}

func init() {
	continueCmd.Flags().StringVar(&continueMode, "mode", "layout", "Training mode: layout or target-fpr")
	continueCmd.Flags().IntVar(&continueSize, "stages", 1, "Number of additional stages in layout mode")
	continueCmd.Flags().IntVar(&continueRoundsPerStage, "rounds-per-stage", 10, "Boosting rounds per additional stage in layout mode")
	continueCmd.Flags().Int64Var(&continueSeed, "seed", 42, "Random seed for hard-negative resampling")
	rootCmd.AddCommand(continueCmd)
}

func runContinue(cmd *cobra.Command, args []string) error {
	s, err := store.New(baseDir)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	set, err := s.LoadSampleSet()
	if err != nil {
		return fmt.Errorf("load working set: %w", err)
	}

	backup, err := s.LoadCascadeBackup()
	if err != nil {
		return fmt.Errorf("load cascade backup: %w", err)
	}

	return trainAndPersist(s, backup, set, continueMode, continueSize, continueRoundsPerStage, continueSeed)
}
