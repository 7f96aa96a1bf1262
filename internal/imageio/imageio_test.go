package imageio

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writeGrayPNG(t *testing.T, path string, w, h int, fill uint8) {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetGray(x, y, color.Gray{Y: fill})
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

func TestDecodeGrayRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.png")
	writeGrayPNG(t, path, 10, 6, 128)

	g, err := DecodeGray(path)
	if err != nil {
		t.Fatalf("DecodeGray: %v", err)
	}
	if g.Width != 10 || g.Height != 6 {
		t.Fatalf("dims = %dx%d, want 10x6", g.Width, g.Height)
	}
	if len(g.Pix) != 60 {
		t.Fatalf("len(Pix) = %d, want 60", len(g.Pix))
	}
}

func TestDecodeGrayMissingFileIsDecodeFailure(t *testing.T) {
	_, err := DecodeGray(filepath.Join(t.TempDir(), "missing.png"))
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
	var df *DecodeFailure
	if !asDecodeFailure(err, &df) {
		t.Errorf("expected a *DecodeFailure, got %T", err)
	}
}

func asDecodeFailure(err error, target **DecodeFailure) bool {
	df, ok := err.(*DecodeFailure)
	if ok {
		*target = df
	}
	return ok
}

func TestDecodeGrayResizedProducesExactDimensions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.png")
	writeGrayPNG(t, path, 40, 20, 200)

	g, err := DecodeGrayResized(path, 25, 25)
	if err != nil {
		t.Fatalf("DecodeGrayResized: %v", err)
	}
	if g.Width != 25 || g.Height != 25 {
		t.Fatalf("dims = %dx%d, want 25x25", g.Width, g.Height)
	}
}

func TestGrayCropExtractsSubRegion(t *testing.T) {
	g := &Gray{
		Pix: []uint8{
			1, 2, 3, 4,
			5, 6, 7, 8,
			9, 10, 11, 12,
		},
		Width: 4, Height: 3,
	}

	crop := g.Crop(1, 1, 2, 2)
	want := []uint8{6, 7, 10, 11}
	if crop.Width != 2 || crop.Height != 2 {
		t.Fatalf("crop dims = %dx%d, want 2x2", crop.Width, crop.Height)
	}
	for i, v := range want {
		if crop.Pix[i] != v {
			t.Errorf("Pix[%d] = %d, want %d", i, crop.Pix[i], v)
		}
	}
}

func TestDrawBoxOutlinesRectangle(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	DrawBox(img, 2, 2, 4, 4)

	corners := [][2]int{{2, 2}, {5, 2}, {2, 5}, {5, 5}}
	for _, c := range corners {
		if img.RGBAAt(c[0], c[1]) != BoxColor {
			t.Errorf("corner (%d,%d) = %v, want %v", c[0], c[1], img.RGBAAt(c[0], c[1]), BoxColor)
		}
	}
	if img.RGBAAt(3, 3) == BoxColor {
		t.Error("interior pixel should not be overwritten by DrawBox")
	}
}

func TestSaveImageRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.png")

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	if err := SaveImage(path, img); err != nil {
		t.Fatalf("SaveImage: %v", err)
	}

	loaded, err := LoadRGBA(path)
	if err != nil {
		t.Fatalf("LoadRGBA: %v", err)
	}
	if loaded.Bounds().Dx() != 4 || loaded.Bounds().Dy() != 4 {
		t.Errorf("loaded dims = %dx%d, want 4x4", loaded.Bounds().Dx(), loaded.Bounds().Dy())
	}
}
