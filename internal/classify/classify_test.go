package classify

import (
	"errors"
	"reflect"
	"testing"
)

func testClassifier() *Classifier {
	return New(
		[]string{"cr2", "cr3", "arw", "nef", "raf", "dng", "rw2"},
		[]string{"jpg", "jpeg", "png", "webp"},
	)
}

func TestExt(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     string
		wantErr  bool
	}{
		{"Simple", "photo.jpg", "jpg", false},
		{"Uppercase", "PHOTO.JPG", "jpg", false},
		{"MultipleDots", "my.vacation.photo.CR2", "cr2", false},
		{"NoExtension", "photo", "", true},
		{"TrailingDot", "photo.", "", true},
		{"HiddenStyle", ".env", "env", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Ext(tt.filename)
			if tt.wantErr {
				if !errors.Is(err, ErrNoExtension) {
					t.Errorf("Ext(%q) error = %v, want ErrNoExtension", tt.filename, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Ext(%q) unexpected error: %v", tt.filename, err)
			}
			if got != tt.want {
				t.Errorf("Ext(%q) = %q, want %q", tt.filename, got, tt.want)
			}
		})
	}
}

func TestDetect(t *testing.T) {
	c := testClassifier()

	tests := []struct {
		name     string
		filename string
		kind     Kind
		ext      string
	}{
		{"CanonRAW", "IMG_0001.CR2", KindRAW, "cr2"},
		{"SonyRAW", "shot.arw", KindRAW, "arw"},
		{"JPEG", "pic.jpeg", KindRaster, "jpeg"},
		{"PNG", "pic.png", KindRaster, "png"},
		{"WebP", "pic.webp", KindRaster, "webp"},
		{"AmbiguousDNGIsRAW", "scan.dng", KindRAW, "dng"},
		{"SidecarOnImagePath", "preset.xmp", KindPreset, "xmp"},
		{"Unsupported", "document.pdf", KindUnsupported, "pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, ext, err := c.Detect(tt.filename)
			if err != nil {
				t.Fatalf("Detect(%q) unexpected error: %v", tt.filename, err)
			}
			if kind != tt.kind || ext != tt.ext {
				t.Errorf("Detect(%q) = (%s, %s), want (%s, %s)", tt.filename, kind, ext, tt.kind, tt.ext)
			}
		})
	}

	if _, _, err := c.Detect("noextension"); !errors.Is(err, ErrNoExtension) {
		t.Errorf("Detect without extension: error = %v, want ErrNoExtension", err)
	}
}

func TestDetectPreset(t *testing.T) {
	c := testClassifier()

	tests := []struct {
		name     string
		filename string
		kind     Kind
	}{
		{"Lightroom", "moody.xmp", KindPreset},
		{"Template", "wedding.lrtemplate", KindPreset},
		{"CameraProfile", "profile.dcp", KindPreset},
		{"AmbiguousDNGIsPreset", "profile.dng", KindPreset},
		{"ImageRejected", "photo.jpg", KindUnsupported},
		{"RAWRejected", "shot.cr2", KindUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, _, err := c.DetectPreset(tt.filename)
			if err != nil {
				t.Fatalf("DetectPreset(%q) unexpected error: %v", tt.filename, err)
			}
			if kind != tt.kind {
				t.Errorf("DetectPreset(%q) = %s, want %s", tt.filename, kind, tt.kind)
			}
		})
	}
}

func TestAllowedImage(t *testing.T) {
	c := New([]string{"dng", "cr2"}, []string{"jpg", "dng"})
	want := []string{"cr2", "dng", "jpg"}
	if got := c.AllowedImage(); !reflect.DeepEqual(got, want) {
		t.Errorf("AllowedImage() = %v, want %v", got, want)
	}
}

func TestContentType(t *testing.T) {
	tests := []struct {
		ext  string
		want string
	}{
		{"jpg", "image/jpeg"},
		{".jpeg", "image/jpeg"},
		{"png", "image/png"},
		{"webp", "image/webp"},
		{"xmp", "application/xml"},
		{"lrtemplate", "application/octet-stream"},
		{"dcp", "application/octet-stream"},
		{"dng", "image/x-adobe-dng"},
		{"bin", "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			if got := ContentType(tt.ext); got != tt.want {
				t.Errorf("ContentType(%q) = %q, want %q", tt.ext, got, tt.want)
			}
		})
	}
}

func TestExtensionNormalization(t *testing.T) {
	c := New([]string{" .CR2 ", ""}, []string{"JPG"})
	if !c.IsRAW("cr2") {
		t.Error("configured extension ' .CR2 ' should normalize to cr2")
	}
	kind, _, _ := c.Detect("x.jpg")
	if kind != KindRaster {
		t.Errorf("Detect(x.jpg) = %s, want raster", kind)
	}
}
