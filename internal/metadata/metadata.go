package metadata

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"os"
	"strconv"
	"strings"

	"image-service/internal/logging"

	// Raster format decoders for geometry extraction
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
	_ "golang.org/x/image/webp" // WebP format support
)

// Field names goexif does not predefine but may still parse.
const (
	fieldBodySerial = exif.FieldName("BodySerialNumber")
	fieldLensSerial = exif.FieldName("LensSerialNumber")
	fieldFocusMode  = exif.FieldName("FocusMode")
)

// Extract reads geometry and embedded tags from the image at path.
// Extraction never fails: unreadable files or missing tags simply yield
// fewer fields, down to an empty map.
func Extract(path string) map[string]string {
	fields := map[string]string{}

	extractGeometry(path, fields)

	f, err := os.Open(path)
	if err != nil {
		logging.Debug("Metadata: cannot open %s: %v", path, err)
		return fields
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		logging.Debug("Metadata: no EXIF in %s: %v", path, err)
		return fields
	}

	extractCamera(x, fields)
	extractLens(x, fields)
	extractExposure(x, fields)
	extractLighting(x, fields)
	extractFocus(x, fields)
	extractProvenance(x, fields)
	extractQuality(x, fields)
	extractLocation(x, fields)

	return fields
}

// extractGeometry populates dimensions, detected format, color mode and
// file size from the image itself rather than its tags.
func extractGeometry(path string, fields map[string]string) {
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	fields["fileSize"] = strconv.FormatInt(info.Size(), 10)

	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return
	}

	fields["width"] = strconv.Itoa(cfg.Width)
	fields["height"] = strconv.Itoa(cfg.Height)
	fields["dimensions"] = fmt.Sprintf("%dx%d", cfg.Width, cfg.Height)
	fields["format"] = strings.ToUpper(format)
	fields["colorMode"] = colorModeName(cfg)
}

func colorModeName(cfg image.Config) string {
	switch cfg.ColorModel {
	case color.GrayModel, color.Gray16Model:
		return "Grayscale"
	case color.CMYKModel:
		return "CMYK"
	case color.YCbCrModel:
		return "YCbCr"
	case color.NRGBAModel, color.NRGBA64Model, color.RGBAModel, color.RGBA64Model:
		return "RGBA"
	}
	if _, ok := cfg.ColorModel.(color.Palette); ok {
		return "Indexed"
	}
	return "RGB"
}

func extractCamera(x *exif.Exif, fields map[string]string) {
	setString(x, exif.Make, fields, "cameraMake")
	setString(x, exif.Model, fields, "cameraModel")
	setString(x, fieldBodySerial, fields, "bodySerial")

	if v, ok := tagInt(x, exif.Orientation); ok {
		fields["orientation"] = strconv.FormatInt(v, 10)
	}

	if v, ok := tagRat(x, exif.XResolution, 0); ok {
		fields["resolution"] = fmt.Sprintf("%d DPI", int64(math.Round(v)))
	}

	if tag, err := x.Get(exif.BitsPerSample); err == nil {
		// Sum per-channel bit counts for multi-channel images.
		total := int64(0)
		count := int(tag.Count)
		for i := 0; i < count; i++ {
			if v, err := tag.Int(i); err == nil {
				total += int64(v)
			}
		}
		if total > 0 {
			fields["bitDepth"] = strconv.FormatInt(total, 10)
		}
	}
}

func extractLens(x *exif.Exif, fields map[string]string) {
	setString(x, exif.LensMake, fields, "lensMake")
	setString(x, exif.LensModel, fields, "lensModel")
	setString(x, fieldLensSerial, fields, "lensSerial")

	if v, ok := tagRat(x, exif.FocalLength, 0); ok {
		fields["focalLength"] = fmt.Sprintf("%dmm", int64(math.Round(v)))
	}
	if v, ok := tagInt(x, exif.FocalLengthIn35mmFilm); ok && v > 0 {
		fields["focalLength35mm"] = fmt.Sprintf("%dmm", v)
	}
}

func extractExposure(x *exif.Exif, fields map[string]string) {
	if v, ok := tagInt(x, exif.ISOSpeedRatings); ok {
		fields["iso"] = strconv.FormatInt(v, 10)
	}

	// Aperture fields are derived together or not at all.
	if v, ok := tagRat(x, exif.FNumber, 0); ok {
		fields["fStop"] = strconv.FormatFloat(v, 'f', 1, 64)
		fields["aperture"] = fmt.Sprintf("f/%.1f", v)
	}

	if num, den, ok := tagRat2(x, exif.ExposureTime, 0); ok && num > 0 {
		value := float64(num) / float64(den)
		if value < 1 {
			fields["exposureTime"] = fmt.Sprintf("1/%ds", int64(math.Round(float64(den)/float64(num))))
		} else {
			fields["exposureTime"] = fmt.Sprintf("%.2fs", value)
		}
	}

	if v, ok := tagInt(x, exif.ExposureProgram); ok {
		fields["exposureProgram"] = lookup(exposurePrograms, v)
	}
	if v, ok := tagInt(x, exif.ExposureMode); ok {
		fields["exposureMode"] = lookup(exposureModes, v)
	}
	if v, ok := tagRat(x, exif.ExposureBiasValue, 0); ok {
		fields["exposureBias"] = fmt.Sprintf("%+.1f EV", v)
	}
	if v, ok := tagInt(x, exif.MeteringMode); ok {
		fields["meteringMode"] = lookup(meteringModes, v)
	}
}

func extractLighting(x *exif.Exif, fields map[string]string) {
	if v, ok := tagInt(x, exif.Flash); ok {
		fields["flash"] = lookupFlash(v)
	}
	if v, ok := tagInt(x, exif.WhiteBalance); ok {
		fields["whiteBalance"] = lookup(whiteBalances, v)
	}
	if v, ok := tagInt(x, exif.LightSource); ok {
		fields["lightSource"] = lookup(lightSources, v)
	}
}

func extractFocus(x *exif.Exif, fields map[string]string) {
	setString(x, fieldFocusMode, fields, "focusMode")

	if v, ok := tagRat(x, exif.SubjectDistance, 0); ok {
		fields["subjectDistance"] = fmt.Sprintf("%.2f m", v)
	}
	if v, ok := tagInt(x, exif.SubjectDistanceRange); ok {
		fields["subjectDistanceRange"] = lookup(subjectDistanceRanges, v)
	}
	if v, ok := tagInt(x, exif.SceneType); ok {
		fields["sceneType"] = lookup(sceneTypes, v)
	}
	if v, ok := tagInt(x, exif.SceneCaptureType); ok {
		fields["sceneCaptureType"] = lookup(sceneCaptureTypes, v)
	}
}

func extractProvenance(x *exif.Exif, fields map[string]string) {
	// Timestamps are carried verbatim, never reparsed.
	setString(x, exif.DateTimeOriginal, fields, "dateTimeOriginal")
	setString(x, exif.DateTimeDigitized, fields, "dateTimeDigitized")
	setString(x, exif.DateTime, fields, "dateTime")
	setString(x, exif.Artist, fields, "artist")
	setString(x, exif.Copyright, fields, "copyright")
	setString(x, exif.Software, fields, "software")
}

func extractQuality(x *exif.Exif, fields map[string]string) {
	if v, ok := tagInt(x, exif.Contrast); ok {
		fields["contrast"] = lookup(contrasts, v)
	}
	if v, ok := tagInt(x, exif.Saturation); ok {
		fields["saturation"] = lookup(saturations, v)
	}
	if v, ok := tagInt(x, exif.Sharpness); ok {
		fields["sharpness"] = lookup(sharpnesses, v)
	}
	if v, ok := tagRat(x, exif.BrightnessValue, 0); ok {
		fields["brightness"] = strconv.FormatFloat(v, 'f', 2, 64)
	}
	if v, ok := tagInt(x, exif.GainControl); ok {
		fields["gainControl"] = lookup(gainControls, v)
	}
	if v, ok := tagRat(x, exif.DigitalZoomRatio, 0); ok && v > 0 {
		fields["digitalZoom"] = fmt.Sprintf("%.2fx", v)
	}
}

// setString copies an ASCII tag into fields under name when present.
func setString(x *exif.Exif, field exif.FieldName, fields map[string]string, name string) {
	tag, err := x.Get(field)
	if err != nil {
		return
	}
	value, err := tag.StringVal()
	if err != nil {
		// Fall back to the quoted representation for non-ASCII payloads.
		value = strings.Trim(tag.String(), `"`)
	}
	value = strings.TrimSpace(value)
	if value != "" {
		fields[name] = value
	}
}

// tagInt returns the first integer value of a tag.
func tagInt(x *exif.Exif, field exif.FieldName) (int64, bool) {
	tag, err := x.Get(field)
	if err != nil {
		return 0, false
	}
	v, err := tag.Int(0)
	if err != nil {
		return 0, false
	}
	return int64(v), true
}

// tagRat2 returns the i-th rational of a tag as a numerator/denominator
// pair, guarding against zero denominators.
func tagRat2(x *exif.Exif, field exif.FieldName, i int) (int64, int64, bool) {
	tag, err := x.Get(field)
	if err != nil {
		return 0, 0, false
	}
	return ratValue(tag, i)
}

// tagRat returns the i-th rational of a tag as a float.
func tagRat(x *exif.Exif, field exif.FieldName, i int) (float64, bool) {
	num, den, ok := tagRat2(x, field, i)
	if !ok {
		return 0, false
	}
	return float64(num) / float64(den), true
}

// ratValue extracts a rational from a decoded tag. A zero denominator
// means the value is absent, not a division error.
func ratValue(tag *tiff.Tag, i int) (int64, int64, bool) {
	num, den, err := tag.Rat2(i)
	if err != nil || den == 0 {
		return 0, 0, false
	}
	return num, den, true
}
