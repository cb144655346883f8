package media

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSniffFormat(t *testing.T) {
	tests := []struct {
		name   string
		header []byte
		want   string
	}{
		{"JPEG", []byte{0xFF, 0xD8, 0xFF, 0xE0, 0, 0, 0, 0, 0, 0, 0, 0}, "jpeg"},
		{"PNG", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0}, "png"},
		{"GIF", []byte("GIF89a______"), "gif"},
		{"WebP", []byte{'R', 'I', 'F', 'F', 0, 0, 0, 0, 'W', 'E', 'B', 'P'}, "webp"},
		{"BMP", []byte{0x42, 0x4D, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}, "bmp"},
		{"TIFFLittle", []byte{0x49, 0x49, 0x2A, 0x00, 0, 0, 0, 0, 0, 0, 0, 0}, "tiff"},
		{"TIFFBig", []byte{0x4D, 0x4D, 0x00, 0x2A, 0, 0, 0, 0, 0, 0, 0, 0}, "tiff"},
		{"Text", []byte("hello world!"), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "f")
			if err := os.WriteFile(path, tt.header, 0o644); err != nil {
				t.Fatal(err)
			}
			got, err := SniffFormat(path)
			if err != nil {
				t.Fatalf("SniffFormat() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("SniffFormat() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSniffFormatMissingFile(t *testing.T) {
	if _, err := SniffFormat(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Error("SniffFormat() on a missing file should fail")
	}
}
