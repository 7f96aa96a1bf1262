package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mwg2202/facial-recognition/internal/cascade"
	"github.com/mwg2202/facial-recognition/internal/haar"
	"github.com/mwg2202/facial-recognition/internal/imageio"
	"github.com/mwg2202/facial-recognition/internal/store"
)

var detectInputImage string

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Run multi-scale detection on an image, draw boxes, and emit a detections JSON",
	RunE:  runDetect,
}

func init() {
	detectCmd.Flags().StringVar(&detectInputImage, "input-image", "", "Path to the image to run detection on")
	detectCmd.MarkFlagRequired("input-image")
	rootCmd.AddCommand(detectCmd)
}

func runDetect(cmd *cobra.Command, args []string) error {
	s, err := store.New(baseDir)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	c, err := s.LoadFinalCascade()
	if err != nil {
		return fmt.Errorf("load cascade: %w", err)
	}

	gray, err := imageio.DecodeGray(detectInputImage)
	if err != nil {
		return fmt.Errorf("decode input image: %w", err)
	}

	cfg := cascade.DefaultConfig()
	ii := haar.NewIntegralImage(gray.Pix, gray.Width, gray.Height)
	detections := c.Detect(ii, gray.Width, gray.Height, cfg)

	rgba, err := imageio.LoadRGBA(detectInputImage)
	if err != nil {
		return fmt.Errorf("load input image for overlay: %w", err)
	}
	for _, d := range detections {
		imageio.DrawBox(rgba, d.X, d.Y, d.W, d.H)
	}

	base := filepath.Base(detectInputImage)
	name := strings.TrimSuffix(base, filepath.Ext(base))

	outputImagePath := filepath.Join(baseDir, "output", base)
	if err := imageio.SaveImage(outputImagePath, rgba); err != nil {
		return fmt.Errorf("save annotated image: %w", err)
	}

	if err := s.SaveDetections(name, detections); err != nil {
		return fmt.Errorf("save detections: %w", err)
	}

	fmt.Printf("found %d detection(s); wrote output/%s and output/%s.json\n", len(detections), base, name)
	return nil
}
