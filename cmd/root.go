package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	logLevel string
	baseDir  string
	logger   *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "facial-recognition",
	Short: "Train and run a Viola-Jones cascaded object detector",
	Long: `facial-recognition trains a cascaded Haar-feature classifier over
grayscale training images and applies it to detect objects via multi-scale
sliding-window search.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		var level slog.Level
		switch logLevel {
		case "debug":
			level = slog.LevelDebug
		case "info":
			level = slog.LevelInfo
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		default:
			level = slog.LevelInfo
		}

		opts := &slog.HandlerOptions{Level: level}
		handler := slog.NewJSONHandler(os.Stdout, opts)
		logger = slog.New(handler)
		slog.SetDefault(logger)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&baseDir, "base-dir", ".", "Root directory containing images/, cache/, and output/")
}
