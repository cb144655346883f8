package media

import (
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"image-service/internal/apperr"
)

// writePNG writes img as a PNG into dir under name and returns the path.
func writePNG(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return path
}

// transparentPNG builds an image with a fully transparent left half and
// an opaque black right half.
func transparentPNG(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if x < width/2 {
				img.Set(x, y, color.NRGBA{0, 0, 0, 0})
			} else {
				img.Set(x, y, color.NRGBA{0, 0, 0, 255})
			}
		}
	}
	return img
}

func TestNormalizeFlattensAlphaOntoWhite(t *testing.T) {
	dir := t.TempDir()
	// The pipeline stores rasters under their canonical .jpg name before
	// normalizing, so the file on disk is PNG content at a .jpg path.
	path := writePNG(t, dir, "asset.jpg", transparentPNG(40, 20))

	if err := Normalize(path, "png", 95); err != nil {
		t.Fatalf("Normalize() error: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open normalized: %v", err)
	}
	defer f.Close()

	img, err := jpeg.Decode(f)
	if err != nil {
		t.Fatalf("normalized output is not JPEG: %v", err)
	}

	// Transparent region must render as white (JPEG is lossy, allow slack).
	r, g, b, _ := img.At(5, 10).RGBA()
	for name, v := range map[string]uint32{"r": r >> 8, "g": g >> 8, "b": b >> 8} {
		if v < 240 {
			t.Errorf("transparent region channel %s = %d, want near 255", name, v)
		}
	}

	// Opaque region must stay dark.
	r, _, _, _ = img.At(35, 10).RGBA()
	if r>>8 > 30 {
		t.Errorf("opaque region r = %d, want near 0", r>>8)
	}
}

func TestNormalizeJPEGIsNoOp(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "asset.jpg")

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := jpeg.Encode(f, image.NewRGBA(image.Rect(0, 0, 8, 8)), &jpeg.Options{Quality: 95}); err != nil {
		t.Fatal(err)
	}
	f.Close()

	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if err := Normalize(path, "jpg", 95); err != nil {
		t.Fatalf("Normalize() error: %v", err)
	}

	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(before) != string(after) {
		t.Error("Normalize rewrote an already-canonical JPEG")
	}
}

func TestNormalizeCorruptInput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "asset.jpg")
	if err := os.WriteFile(path, []byte("definitely not an image"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := Normalize(path, "png", 95)
	if err == nil {
		t.Fatal("Normalize() on corrupt input should fail")
	}
	if !apperr.IsKind(err, apperr.KindNormalization) {
		t.Errorf("error kind = %v, want KindNormalization", err)
	}
}

func TestFlattenOntoWhitePreservesDimensions(t *testing.T) {
	img := transparentPNG(33, 17)
	flat := FlattenOntoWhite(img)

	if flat.Bounds().Dx() != 33 || flat.Bounds().Dy() != 17 {
		t.Errorf("flattened dimensions = %dx%d, want 33x17", flat.Bounds().Dx(), flat.Bounds().Dy())
	}

	c := flat.NRGBAAt(0, 0)
	if c.R != 255 || c.G != 255 || c.B != 255 || c.A != 255 {
		t.Errorf("transparent pixel flattened to %+v, want opaque white", c)
	}
}

func TestFlattenOntoWhitePalette(t *testing.T) {
	palette := color.Palette{color.NRGBA{0, 0, 0, 0}, color.NRGBA{255, 0, 0, 255}}
	src := image.NewPaletted(image.Rect(0, 0, 4, 4), palette)
	src.SetColorIndex(2, 2, 1)

	flat := FlattenOntoWhite(src)

	if c := flat.NRGBAAt(0, 0); c.R != 255 || c.A != 255 {
		t.Errorf("transparent palette entry = %+v, want white", c)
	}
	if c := flat.NRGBAAt(2, 2); c.R != 255 || c.G != 0 || c.B != 0 {
		t.Errorf("opaque palette entry = %+v, want red", c)
	}
}
