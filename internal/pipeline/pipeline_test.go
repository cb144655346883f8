package pipeline

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"image-service/internal/apperr"
	"image-service/internal/startup"
	"image-service/internal/store"
)

const sampleXMP = `<?xml version="1.0" encoding="UTF-8"?>
<x:xmpmeta xmlns:x="adobe:ns:meta/">
 <rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">
  <rdf:Description rdf:about="">
   <crs:Version xmlns:crs="http://ns.adobe.com/camera-raw-settings/1.0/">14.0</crs:Version>
  </rdf:Description>
 </rdf:RDF>
</x:xmpmeta>
`

func newTestPipeline(t *testing.T) (*Pipeline, *store.Store, string) {
	t.Helper()
	root := t.TempDir()
	st, err := store.New(root)
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	cfg := &startup.Config{
		UploadDir:            root,
		ThumbnailHeight:      startup.DefaultThumbnailHeight,
		FileTimeout:          time.Minute,
		RAWExtensions:        []string{"cr2", "cr3", "arw", "nef", "raf", "dng", "rw2"},
		ImageExtensions:      []string{"jpg", "jpeg", "png", "webp"},
		PresetSecret:         "test-secret",
		PresetSigningEnabled: true,
	}
	return New(cfg, st, nil), st, root
}

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.NRGBA{R: 30, G: 60, B: 90, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func assertTempEmpty(t *testing.T, root string) {
	t.Helper()
	entries, err := os.ReadDir(filepath.Join(root, "temp"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("temp dir not empty: %d entries left", len(entries))
	}
}

func TestNewAssetID(t *testing.T) {
	a := NewAssetID()
	b := NewAssetID()
	if a == b {
		t.Error("asset ids collide")
	}
	parts := strings.Split(a, "_")
	if len(parts) != 2 || len(parts[0]) != 32 {
		t.Errorf("unexpected asset id shape: %q", a)
	}
}

func TestProcessImageRaster(t *testing.T) {
	p, st, root := newTestPipeline(t)

	result, err := p.ProcessImage(context.Background(),
		Upload{Filename: "photo.png", Data: bytes.NewReader(pngBytes(t, 40, 30))})
	if err != nil {
		t.Fatalf("ProcessImage: %v", err)
	}

	if !strings.HasSuffix(result.Filename, ".jpg") {
		t.Errorf("stored name = %q, want .jpg", result.Filename)
	}
	if !strings.HasPrefix(result.OriginalPath, "/uploads/originals/") {
		t.Errorf("original path = %q", result.OriginalPath)
	}
	if !strings.HasPrefix(result.ThumbnailPath, "/uploads/thumbnails/") {
		t.Errorf("thumbnail path = %q", result.ThumbnailPath)
	}
	if result.Metadata["width"] != "40" || result.Metadata["height"] != "30" {
		t.Errorf("metadata geometry = %v", result.Metadata)
	}
	if result.Metadata["format"] != "JPEG" {
		t.Errorf("normalized format = %q, want JPEG", result.Metadata["format"])
	}

	f, _, err := st.Open(store.FolderOriginals, result.Filename)
	if err != nil {
		t.Fatalf("stored original missing: %v", err)
	}
	f.Close()

	thumbName := strings.TrimPrefix(result.ThumbnailPath, "/uploads/thumbnails/")
	f, _, err = st.Open(store.FolderThumbnails, thumbName)
	if err != nil {
		t.Fatalf("stored thumbnail missing: %v", err)
	}
	f.Close()

	assertTempEmpty(t, root)
}

func TestProcessImageUnsupportedType(t *testing.T) {
	p, _, root := newTestPipeline(t)

	_, err := p.ProcessImage(context.Background(),
		Upload{Filename: "notes.pdf", Data: strings.NewReader("%PDF-1.4")})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(apperr.Reason(err), "File type not allowed") {
		t.Errorf("reason = %q", apperr.Reason(err))
	}
	assertTempEmpty(t, root)
}

func TestProcessImageCorrupt(t *testing.T) {
	p, st, root := newTestPipeline(t)

	_, err := p.ProcessImage(context.Background(),
		Upload{Filename: "broken.png", Data: strings.NewReader("definitely not a png")})
	if !apperr.IsKind(err, apperr.KindNormalization) {
		t.Fatalf("expected normalization error, got %v", err)
	}

	// No partial artifacts anywhere.
	assertTempEmpty(t, root)
	if _, _, err := st.Open(store.FolderOriginals, "anything.jpg"); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("unexpected originals content: %v", err)
	}
}

func TestProcessPresetRoundTrip(t *testing.T) {
	p, st, root := newTestPipeline(t)

	result, err := p.ProcessPreset(context.Background(),
		Upload{Filename: "portra.xmp", Data: strings.NewReader(sampleXMP)}, "alice")
	if err != nil {
		t.Fatalf("ProcessPreset: %v", err)
	}

	if result.UserID != "alice" || result.FileType != "xmp" {
		t.Errorf("result = %+v", result)
	}
	if !strings.HasPrefix(result.Path, "/uploads/presets/") {
		t.Errorf("path = %q", result.Path)
	}

	f, _, err := st.Open(store.FolderPresets, result.Filename)
	if err != nil {
		t.Fatalf("stored preset missing: %v", err)
	}
	data := make([]byte, 4096)
	n, _ := f.Read(data)
	f.Close()
	if !strings.Contains(string(data[:n]), "UID=alice;SIGN=") {
		t.Error("stored preset carries no embedded signature")
	}

	assertTempEmpty(t, root)
}

func TestProcessPresetOwnershipViolation(t *testing.T) {
	p, st, root := newTestPipeline(t)
	ctx := context.Background()

	first, err := p.ProcessPreset(ctx,
		Upload{Filename: "portra.xmp", Data: strings.NewReader(sampleXMP)}, "alice")
	if err != nil {
		t.Fatal(err)
	}

	// Re-upload the signed bytes under a different identity.
	f, _, err := st.Open(store.FolderPresets, first.Filename)
	if err != nil {
		t.Fatal(err)
	}
	signed := make([]byte, 8192)
	n, _ := f.Read(signed)
	f.Close()

	_, err = p.ProcessPreset(ctx,
		Upload{Filename: "portra.xmp", Data: bytes.NewReader(signed[:n])}, "bob")
	if !apperr.IsKind(err, apperr.KindOwnership) {
		t.Fatalf("expected ownership violation, got %v", err)
	}

	// The violation leaves only alice's copy and no staged leftovers.
	entries, err := os.ReadDir(filepath.Join(root, "presets"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != first.Filename {
		t.Errorf("presets folder = %v, want only %s", entries, first.Filename)
	}
	assertTempEmpty(t, root)
}

func TestProcessPresetMissingUser(t *testing.T) {
	p, _, _ := newTestPipeline(t)

	_, err := p.ProcessPreset(context.Background(),
		Upload{Filename: "portra.xmp", Data: strings.NewReader(sampleXMP)}, "")
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestProcessPresetWrongType(t *testing.T) {
	p, _, _ := newTestPipeline(t)

	_, err := p.ProcessPreset(context.Background(),
		Upload{Filename: "photo.jpg", Data: strings.NewReader("jpeg")}, "alice")
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
