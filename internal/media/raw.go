package media

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"

	"image-service/internal/apperr"
	"image-service/internal/logging"
)

// DecodeRAW renders a camera RAW file at rawPath into a JPEG at
// outputPath: camera-recorded white balance, full sensor resolution,
// auto-brightness, 8 bits per channel.
//
// libvips is tried first; if it cannot load the file (a build without
// RAW support, or an exotic sensor format), decoding falls back to
// piping dcraw output back through vips. The caller owns rawPath and
// must remove it on every exit path.
func DecodeRAW(ctx context.Context, rawPath, outputPath string, quality int) error {
	if err := decodeRAWWithVips(rawPath, outputPath, quality); err == nil {
		return nil
	} else {
		logging.Debug("vips RAW decode failed for %s: %v, trying dcraw fallback", rawPath, err)
	}

	if err := decodeRAWWithDcraw(ctx, rawPath, outputPath, quality); err != nil {
		return apperr.Decode(err)
	}
	return nil
}

// decodeRAWWithDcraw shells out to dcraw and re-encodes its PPM output
// as JPEG through vips.
//
// Flags mirror the rendering contract: -w uses the camera-recorded white
// balance; no -h keeps full resolution; default output is 8 bits per
// channel with auto brightness applied.
func decodeRAWWithDcraw(ctx context.Context, rawPath, outputPath string, quality int) error {
	dcrawPath, err := exec.LookPath("dcraw")
	if err != nil {
		return fmt.Errorf("dcraw not found: %w", err)
	}
	logging.Debug("Using dcraw: %s", dcrawPath)

	cmd := exec.CommandContext(ctx, "dcraw", "-c", "-w", rawPath)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("dcraw failed: %v, stderr: %s", err, stderr.String())
	}

	if stdout.Len() == 0 {
		return fmt.Errorf("dcraw produced no output for %s", rawPath)
	}

	logging.Debug("dcraw output size: %d bytes", stdout.Len())

	if err := encodeJPEGFromBuffer(stdout.Bytes(), outputPath, quality); err != nil {
		return fmt.Errorf("failed to encode dcraw output: %w", err)
	}
	return nil
}
