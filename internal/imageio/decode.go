// Package imageio is the external glue (spec component C7) between the core
// Viola-Jones algorithms and the filesystem: decoding arbitrary image
// formats, converting to 8-bit grayscale, resizing/tiling for training, and
// drawing detection boxes for output.
package imageio

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Gray is an 8-bit grayscale pixel buffer in row-major order.
type Gray struct {
	Pix           []uint8
	Width, Height int
}

// DecodeFailure wraps a decode error with the path that failed, so callers
// can recognize it and skip the file per spec §7 (recoverable locally).
type DecodeFailure struct {
	Path string
	Err  error
}

func (e *DecodeFailure) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
}

func (e *DecodeFailure) Unwrap() error { return e.Err }

// DecodeGray opens and decodes an image file (any format registered via
// image.RegisterFormat, including PNG/JPEG/GIF/BMP/TIFF/WebP) and converts
// it to 8-bit grayscale without resizing.
func DecodeGray(path string) (*Gray, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DecodeFailure{Path: path, Err: err}
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, &DecodeFailure{Path: path, Err: err}
	}
	return toGray(img), nil
}

// DecodeGrayResized opens, decodes, and resizes an image to exactly w x h
// using a triangle (bilinear) filter, then converts to grayscale. This is
// the positive-sample loading path (spec §4.3: "resized by triangle filter
// to W_L x W_H").
func DecodeGrayResized(path string, w, h int) (*Gray, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DecodeFailure{Path: path, Err: err}
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, &DecodeFailure{Path: path, Err: err}
	}

	resized := imaging.Resize(img, w, h, imaging.Triangle)
	return toGray(resized), nil
}

func toGray(img image.Image) *Gray {
	grayImg := imaging.Grayscale(img)
	bounds := grayImg.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	pix := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, _, _, _ := grayImg.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			pix[y*w+x] = uint8(r >> 8)
		}
	}
	return &Gray{Pix: pix, Width: w, Height: h}
}

// Crop extracts a w x h sub-region of g with top-left corner (x,y). The
// caller must ensure the region fits inside g.
func (g *Gray) Crop(x, y, w, h int) *Gray {
	pix := make([]uint8, w*h)
	for row := 0; row < h; row++ {
		srcOff := (y+row)*g.Width + x
		copy(pix[row*w:(row+1)*w], g.Pix[srcOff:srcOff+w])
	}
	return &Gray{Pix: pix, Width: w, Height: h}
}
