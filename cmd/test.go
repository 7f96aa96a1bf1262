package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mwg2202/facial-recognition/internal/store"
)

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Classify cached samples with the cached cascade and print confusion rates",
	Long: `Loads output/cascade.json and cache/images.json, classifies every
cached sample, and prints the correct-object rate, correct-other rate, and
overall accuracy.`,
	RunE: runTest,
}

func init() {
	rootCmd.AddCommand(testCmd)
}

func runTest(cmd *cobra.Command, args []string) error {
	s, err := store.New(baseDir)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	c, err := s.LoadFinalCascade()
	if err != nil {
		return fmt.Errorf("load cascade: %w", err)
	}

	set, err := s.LoadSampleSet()
	if err != nil {
		return fmt.Errorf("load working set: %w", err)
	}

	report := c.Evaluate(set)
	total := report.TruePositives + report.FalseNegatives + report.FalsePositives + report.TrueNegatives
	accuracy := 0.0
	if total > 0 {
		accuracy = float64(report.TruePositives+report.TrueNegatives) / float64(total)
	}

	fmt.Printf("correct-object rate (detection rate): %.4f (%d/%d)\n",
		report.DetectionRate(), report.TruePositives, report.TruePositives+report.FalseNegatives)
	fmt.Printf("correct-other rate (1 - false positive rate): %.4f (%d/%d)\n",
		1-report.FalsePositiveRate(), report.TrueNegatives, report.TrueNegatives+report.FalsePositives)
	fmt.Printf("overall accuracy: %.4f (%d/%d)\n", accuracy, report.TruePositives+report.TrueNegatives, total)
	return nil
}
