package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var (
	olderThanDays int
	forceClean    bool
)

// checkpointArtifact describes one on-disk file checkpoints list/clean
// can act on: the resumable cache artifacts and the final trained cascade.
type checkpointArtifact struct {
	Name      string
	RelPath   string
	Resumable bool
}

var checkpointArtifacts = []checkpointArtifact{
	{Name: "working set", RelPath: filepath.Join("cache", "images.json"), Resumable: true},
	{Name: "cascade backup", RelPath: filepath.Join("cache", "cascade_backup.json"), Resumable: true},
	{Name: "final cascade", RelPath: filepath.Join("output", "cascade.json"), Resumable: false},
}

var checkpointsCmd = &cobra.Command{
	Use:   "checkpoints",
	Short: "Manage cascade training artifacts",
	Long: `Manage the on-disk artifacts a training run produces: the cached
working set, the per-stage cascade backup, and the final trained cascade.`,
}

var listCheckpointsCmd = &cobra.Command{
	Use:   "list",
	Short: "List training artifacts under the base directory",
	RunE:  runListCheckpoints,
}

var cleanCheckpointsCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove resumable cache artifacts (working set, cascade backup)",
	Long: `Deletes cache/images.json and cache/cascade_backup.json, the
artifacts the "continue" subcommand resumes from. The final cascade in
output/cascade.json is never touched by this command.`,
	RunE: runCleanCheckpoints,
}

func init() {
	rootCmd.AddCommand(checkpointsCmd)
	checkpointsCmd.AddCommand(listCheckpointsCmd)
	checkpointsCmd.AddCommand(cleanCheckpointsCmd)

	cleanCheckpointsCmd.Flags().IntVar(&olderThanDays, "older-than", 0, "Only remove artifacts older than N days (0 = no age limit)")
	cleanCheckpointsCmd.Flags().BoolVarP(&forceClean, "force", "f", false, "Skip confirmation prompt")
}

func runListCheckpoints(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ARTIFACT\tPATH\tSIZE\tMODIFIED")
	fmt.Fprintln(w, "--------\t----\t----\t--------")

	found := 0
	for _, a := range checkpointArtifacts {
		path := filepath.Join(baseDir, a.RelPath)
		info, err := os.Stat(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return fmt.Errorf("stat %s: %w", path, err)
		}
		found++
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			a.Name, a.RelPath, formatBytes(info.Size()), info.ModTime().Format("2006-01-02 15:04:05"))
	}
	w.Flush()

	if found == 0 {
		fmt.Println("No training artifacts found.")
	}
	return nil
}

func runCleanCheckpoints(cmd *cobra.Command, args []string) error {
	cutoff := time.Time{}
	if olderThanDays > 0 {
		cutoff = time.Now().AddDate(0, 0, -olderThanDays)
	}

	var toDelete []string
	for _, a := range checkpointArtifacts {
		if !a.Resumable {
			continue
		}
		path := filepath.Join(baseDir, a.RelPath)
		info, err := os.Stat(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return fmt.Errorf("stat %s: %w", path, err)
		}
		if !cutoff.IsZero() && info.ModTime().After(cutoff) {
			continue
		}
		toDelete = append(toDelete, path)
	}

	if len(toDelete) == 0 {
		fmt.Println("No artifacts match the cleanup criteria.")
		return nil
	}

	fmt.Printf("Found %d artifact(s) to delete:\n", len(toDelete))
	for _, path := range toDelete {
		fmt.Printf("  - %s\n", path)
	}

	if !forceClean {
		fmt.Print("\nProceed with deletion? [y/N]: ")
		var response string
		fmt.Scanln(&response)
		if response != "y" && response != "Y" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	deleted, failed := 0, 0
	for _, path := range toDelete {
		if err := os.Remove(path); err != nil {
			slog.Error("failed to delete artifact", "path", path, "error", err)
			failed++
			continue
		}
		slog.Info("deleted artifact", "path", path)
		deleted++
	}

	fmt.Printf("\nDeleted %d artifact(s), %d failed.\n", deleted, failed)
	return nil
}

// formatBytes formats bytes as a human-readable string.
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
