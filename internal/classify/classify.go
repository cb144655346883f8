package classify

import (
	"errors"
	"sort"
	"strings"
)

// Kind is the detected format class of an uploaded file.
type Kind string

const (
	// KindRAW is a camera RAW capture requiring demosaicing.
	KindRAW Kind = "raw"
	// KindRaster is a standard viewable raster image.
	KindRaster Kind = "raster"
	// KindPreset is a sidecar or profile file carrying structured metadata.
	KindPreset Kind = "preset"
	// KindUnsupported is anything else.
	KindUnsupported Kind = "unsupported"
)

// ErrNoExtension is returned when a filename carries no extension.
var ErrNoExtension = errors.New("filename has no extension")

// PresetExtensions is the fixed set of recognized sidecar and profile
// formats: Lightroom presets (.xmp), Lightroom templates (.lrtemplate),
// DNG camera profiles (.dcp) and DNG profile files (.dng, shared with the
// RAW set).
var PresetExtensions = map[string]bool{
	"xmp":        true,
	"lrtemplate": true,
	"dcp":        true,
	"dng":        true,
}

// contentTypes maps stored artifact extensions to MIME types for serving.
var contentTypes = map[string]string{
	"jpg":        "image/jpeg",
	"jpeg":       "image/jpeg",
	"png":        "image/png",
	"webp":       "image/webp",
	"xmp":        "application/xml",
	"lrtemplate": "application/octet-stream",
	"dcp":        "application/octet-stream",
	"dng":        "image/x-adobe-dng",
}

// Classifier classifies filenames against the configured RAW and raster
// extension sets.
type Classifier struct {
	raw    map[string]bool
	raster map[string]bool
}

// New creates a Classifier. Extensions are normalized to lowercase
// without a leading dot.
func New(rawExts, rasterExts []string) *Classifier {
	return &Classifier{
		raw:    toSet(rawExts),
		raster: toSet(rasterExts),
	}
}

func toSet(exts []string) map[string]bool {
	set := make(map[string]bool, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(e), "."))
		if e != "" {
			set[e] = true
		}
	}
	return set
}

// Ext returns the lowercase suffix after the final dot of filename.
func Ext(filename string) (string, error) {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 || idx == len(filename)-1 {
		return "", ErrNoExtension
	}
	return strings.ToLower(filename[idx+1:]), nil
}

// Detect classifies a filename for the image upload path. The ambiguous
// ".dng" resolves to RAW here.
func (c *Classifier) Detect(filename string) (Kind, string, error) {
	ext, err := Ext(filename)
	if err != nil {
		return KindUnsupported, "", err
	}
	switch {
	case c.raw[ext]:
		return KindRAW, ext, nil
	case c.raster[ext]:
		return KindRaster, ext, nil
	case PresetExtensions[ext]:
		return KindPreset, ext, nil
	default:
		return KindUnsupported, ext, nil
	}
}

// DetectPreset classifies a filename for the preset upload path. Preset
// membership is checked first so ".dng" resolves to preset.
func (c *Classifier) DetectPreset(filename string) (Kind, string, error) {
	ext, err := Ext(filename)
	if err != nil {
		return KindUnsupported, "", err
	}
	if PresetExtensions[ext] {
		return KindPreset, ext, nil
	}
	return KindUnsupported, ext, nil
}

// IsRAW reports whether ext is in the configured RAW set.
func (c *Classifier) IsRAW(ext string) bool {
	return c.raw[strings.ToLower(ext)]
}

// AllowedImage returns the sorted union of the RAW and raster sets, used
// to build the fixed validation message.
func (c *Classifier) AllowedImage() []string {
	out := make([]string, 0, len(c.raw)+len(c.raster))
	for e := range c.raw {
		out = append(out, e)
	}
	for e := range c.raster {
		if !c.raw[e] {
			out = append(out, e)
		}
	}
	sort.Strings(out)
	return out
}

// ContentType returns the MIME type used when serving a stored artifact
// with the given extension.
func ContentType(ext string) string {
	if ct, ok := contentTypes[strings.ToLower(strings.TrimPrefix(ext, "."))]; ok {
		return ct
	}
	return "application/octet-stream"
}
