package media

import (
	"fmt"
	"os"
	"sync"

	"image-service/internal/logging"

	"github.com/davidbyttow/govips/v2/vips"
)

var (
	vipsInitialized bool
	vipsInitMutex   sync.Mutex
	vipsAvailable   bool
)

// InitVips initializes the libvips library. Call once at startup.
func InitVips() error {
	vipsInitMutex.Lock()
	defer vipsInitMutex.Unlock()

	if vipsInitialized {
		return nil
	}

	// Route vips log output through our logger, respecting LOG_LEVEL.
	var vipsLogLevel vips.LogLevel
	var logHandler func(string, vips.LogLevel, string)

	switch logging.GetLevel() {
	case logging.LevelDebug:
		vipsLogLevel = vips.LogLevelInfo
		logHandler = func(domain string, level vips.LogLevel, msg string) {
			switch level {
			case vips.LogLevelError, vips.LogLevelCritical:
				logging.Error("[%s] %s", domain, msg)
			case vips.LogLevelWarning:
				logging.Warn("[%s] %s", domain, msg)
			default:
				logging.Debug("[%s] %s", domain, msg)
			}
		}
	default:
		vipsLogLevel = vips.LogLevelWarning
		logHandler = func(domain string, level vips.LogLevel, msg string) {
			switch level {
			case vips.LogLevelError, vips.LogLevelCritical:
				logging.Error("[%s] %s", domain, msg)
			case vips.LogLevelWarning:
				logging.Warn("[%s] %s", domain, msg)
			}
		}
	}

	vips.LoggingSettings(logHandler, vipsLogLevel)

	// Conservative memory settings: one image at a time, small cache.
	vips.Startup(&vips.Config{
		ConcurrencyLevel: 1,
		MaxCacheMem:      50 * 1024 * 1024,
		MaxCacheSize:     100,
		ReportLeaks:      false,
		CacheTrace:       false,
		CollectStats:     false,
	})

	vipsInitialized = true
	vipsAvailable = true
	logging.Info("libvips initialized successfully (version: %s)", vips.Version)
	return nil
}

// ShutdownVips cleans up libvips resources.
func ShutdownVips() {
	vipsInitMutex.Lock()
	defer vipsInitMutex.Unlock()

	if vipsInitialized {
		vips.Shutdown()
		vipsInitialized = false
		vipsAvailable = false
		logging.Info("libvips shutdown complete")
	}
}

// IsVipsAvailable reports whether libvips is initialized.
func IsVipsAvailable() bool {
	vipsInitMutex.Lock()
	defer vipsInitMutex.Unlock()
	return vipsAvailable
}

// decodeRAWWithVips renders a RAW capture via libvips and writes a JPEG
// at quality to outputPath. Requires libvips built with RAW support
// (libraw or the magick loader).
func decodeRAWWithVips(rawPath, outputPath string, quality int) error {
	if !IsVipsAvailable() {
		return fmt.Errorf("libvips not available")
	}

	importParams := vips.NewImportParams()
	ref, err := vips.LoadImageFromFile(rawPath, importParams)
	if err != nil {
		return fmt.Errorf("vips failed to load RAW: %w", err)
	}
	defer ref.Close()

	logging.Debug("Vips loaded RAW %s: %dx%d", rawPath, ref.Width(), ref.Height())

	return exportJPEG(ref, outputPath, quality)
}

// encodeJPEGFromBuffer decodes image bytes with vips and writes a JPEG
// at quality to outputPath.
func encodeJPEGFromBuffer(data []byte, outputPath string, quality int) error {
	if !IsVipsAvailable() {
		return fmt.Errorf("libvips not available")
	}

	ref, err := vips.NewImageFromBuffer(data)
	if err != nil {
		return fmt.Errorf("vips failed to load buffer: %w", err)
	}
	defer ref.Close()

	return exportJPEG(ref, outputPath, quality)
}

func exportJPEG(ref *vips.ImageRef, outputPath string, quality int) error {
	imgBytes, _, err := ref.ExportJpeg(&vips.JpegExportParams{
		Quality:        quality,
		StripMetadata:  false,
		OptimizeCoding: true,
	})
	if err != nil {
		return fmt.Errorf("vips JPEG export failed: %w", err)
	}

	if err := os.WriteFile(outputPath, imgBytes, 0o644); err != nil {
		return fmt.Errorf("failed to write JPEG: %w", err)
	}
	return nil
}
