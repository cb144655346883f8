package startup

import (
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("UPLOAD_DIR", filepath.Join(dir, "uploads"))
	t.Setenv("DATABASE_DIR", filepath.Join(dir, "database"))
	t.Setenv("PRESET_SECRET", "test-secret")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if config.ThumbnailHeight != DefaultThumbnailHeight {
		t.Errorf("ThumbnailHeight = %d, want %d", config.ThumbnailHeight, DefaultThumbnailHeight)
	}
	if config.MaxUploadSize != DefaultMaxUploadSize {
		t.Errorf("MaxUploadSize = %d, want %d", config.MaxUploadSize, DefaultMaxUploadSize)
	}
	if config.MaxBatchFiles != DefaultMaxBatchFiles {
		t.Errorf("MaxBatchFiles = %d, want %d", config.MaxBatchFiles, DefaultMaxBatchFiles)
	}
	if !config.PresetSigningEnabled {
		t.Error("PresetSigningEnabled = false with PRESET_SECRET set")
	}
	if len(config.RAWExtensions) == 0 || len(config.ImageExtensions) == 0 {
		t.Error("default extension sets should not be empty")
	}

	for _, sub := range []string{config.OriginalsDir, config.ThumbnailsDir, config.PresetsDir, config.TempDir} {
		if filepath.Dir(sub) != config.UploadDir {
			t.Errorf("derived dir %s is not under upload dir %s", sub, config.UploadDir)
		}
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("UPLOAD_DIR", filepath.Join(dir, "u"))
	t.Setenv("DATABASE_DIR", filepath.Join(dir, "d"))
	t.Setenv("THUMBNAIL_HEIGHT", "240")
	t.Setenv("MAX_FILE_SIZE", "1048576")
	t.Setenv("FILE_TIMEOUT", "30s")
	t.Setenv("ALLOWED_RAW_EXTENSIONS", "cr2, NEF ,")
	t.Setenv("ALLOWED_IMAGE_EXTENSIONS", "jpg")
	t.Setenv("PRESET_SECRET", "")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if config.ThumbnailHeight != 240 {
		t.Errorf("ThumbnailHeight = %d, want 240", config.ThumbnailHeight)
	}
	if config.MaxUploadSize != 1048576 {
		t.Errorf("MaxUploadSize = %d, want 1048576", config.MaxUploadSize)
	}
	if config.FileTimeout != 30*time.Second {
		t.Errorf("FileTimeout = %s, want 30s", config.FileTimeout)
	}
	if len(config.RAWExtensions) != 2 || config.RAWExtensions[0] != "cr2" || config.RAWExtensions[1] != "nef" {
		t.Errorf("RAWExtensions = %v, want [cr2 nef]", config.RAWExtensions)
	}
	if config.PresetSigningEnabled {
		t.Error("PresetSigningEnabled = true without PRESET_SECRET")
	}
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("UPLOAD_DIR", filepath.Join(dir, "u"))
	t.Setenv("DATABASE_DIR", filepath.Join(dir, "d"))
	t.Setenv("THUMBNAIL_HEIGHT", "-5")

	if _, err := LoadConfig(); err == nil {
		t.Error("LoadConfig() with negative THUMBNAIL_HEIGHT should fail")
	}
}

func TestSplitExtensions(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  int
	}{
		{"Simple", "a,b,c", 3},
		{"Spaces", " a , b ", 2},
		{"Empties", "a,,b,", 2},
		{"Blank", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := splitExtensions(tt.value); len(got) != tt.want {
				t.Errorf("splitExtensions(%q) = %v, want %d entries", tt.value, got, tt.want)
			}
		})
	}
}

func TestGetBuildInfo(t *testing.T) {
	info := GetBuildInfo()
	if info.Version == "" || info.GoVersion == "" || info.OS == "" || info.Arch == "" {
		t.Errorf("GetBuildInfo() has empty fields: %+v", info)
	}
}
