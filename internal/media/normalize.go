package media

import (
	"image"
	"image/color"

	"image-service/internal/apperr"
	"image-service/internal/logging"

	// Raster format decoders for image.Decode
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // WebP format support
)

// jpegExtensions are already in the canonical encoding.
var jpegExtensions = map[string]bool{"jpg": true, "jpeg": true}

// Normalize converts the raster at path into the canonical form in
// place: alpha and palette color are composited over an opaque white
// canvas, and anything not already JPEG is re-encoded at quality.
// Already-canonical opaque inputs are left untouched.
func Normalize(path, ext string, quality int) error {
	if jpegExtensions[ext] {
		// JPEG carries no alpha; nothing to do.
		return nil
	}

	if detected, err := SniffFormat(path); err == nil && detected != "unknown" && detected != ext && !(detected == "jpeg" && jpegExtensions[ext]) {
		// Extension-based trust is the baseline contract; a mismatch is
		// logged for operators but does not reject the file.
		logging.Warn("Extension mismatch for %s: named .%s, content looks like %s", path, ext, detected)
	}

	img, err := imaging.Open(path)
	if err != nil {
		return apperr.Normalization(err)
	}

	flat := FlattenOntoWhite(img)

	if err := imaging.Save(flat, path, imaging.JPEGQuality(quality)); err != nil {
		return apperr.Normalization(err)
	}

	logging.Debug("Normalized %s (.%s) to JPEG q%d", path, ext, quality)
	return nil
}

// FlattenOntoWhite composites img over an opaque white canvas of
// identical dimensions, using the image's alpha channel as the blend
// mask. Palette images are expanded by the compositing draw. The result
// always has a fully opaque white background behind transparent regions.
func FlattenOntoWhite(img image.Image) *image.NRGBA {
	bounds := img.Bounds()
	canvas := imaging.New(bounds.Dx(), bounds.Dy(), color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	return imaging.Overlay(canvas, img, image.Pt(0, 0), 1.0)
}
