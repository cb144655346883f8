package media

import (
	"image-service/internal/apperr"
	"image-service/internal/logging"

	"github.com/disintegration/imaging"
)

// CreateThumbnail derives a height-bounded preview of the normalized
// image at srcPath and writes it as JPEG at quality to dstPath.
//
// Width is computed as floor(height * aspect) and the resize fits inside
// (width, height) preserving aspect ratio. Images already smaller than
// the target are written through unscaled, never upscaled.
func CreateThumbnail(srcPath, dstPath string, height, quality int) error {
	img, err := imaging.Open(srcPath)
	if err != nil {
		return apperr.Normalization(err)
	}

	bounds := img.Bounds()
	srcWidth, srcHeight := bounds.Dx(), bounds.Dy()
	if srcWidth < 1 || srcHeight < 1 {
		return apperr.Normalization(errEmptyImage)
	}

	aspect := float64(srcWidth) / float64(srcHeight)
	targetWidth := int(float64(height) * aspect)
	if targetWidth < 1 {
		targetWidth = 1
	}

	// Fit scales down only, so a source inside the box passes through.
	thumb := imaging.Fit(img, targetWidth, height, imaging.Lanczos)

	if err := imaging.Save(thumb, dstPath, imaging.JPEGQuality(quality)); err != nil {
		return apperr.Normalization(err)
	}

	tb := thumb.Bounds()
	logging.Debug("Created thumbnail %s: %dx%d -> %dx%d", dstPath, srcWidth, srcHeight, tb.Dx(), tb.Dy())
	return nil
}
