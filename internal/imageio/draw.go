package imageio

import (
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
)

// BoxColor is the overlay color used to draw detection boxes, matching the
// muted gray-green used by the original prototype's draw_rectangle.
var BoxColor = color.RGBA{R: 0x88, G: 0x95, B: 0x8D, A: 0xFF}

// DrawBox outlines rectangle (x,y,w,h) on img in place.
func DrawBox(img *image.RGBA, x, y, w, h int) {
	x2, y2 := x+w-1, y+h-1
	for px := x; px <= x2; px++ {
		img.Set(px, y, BoxColor)
		img.Set(px, y2, BoxColor)
	}
	for py := y; py <= y2; py++ {
		img.Set(x, py, BoxColor)
		img.Set(x2, py, BoxColor)
	}
}

// LoadRGBA decodes path into an RGBA image, for overlaying detection boxes.
func LoadRGBA(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DecodeFailure{Path: path, Err: err}
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, &DecodeFailure{Path: path, Err: err}
	}

	bounds := src.Bounds()
	dst := image.NewRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			dst.Set(x, y, src.At(x, y))
		}
	}
	return dst, nil
}

// SaveImage writes img to path, choosing the encoder by file extension
// (defaulting to PNG for anything not recognized as JPEG).
func SaveImage(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return jpeg.Encode(f, img, &jpeg.Options{Quality: 90})
	default:
		return png.Encode(f, img)
	}
}
