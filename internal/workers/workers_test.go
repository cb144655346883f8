package workers

import (
	"runtime"
	"testing"
)

func TestCountBounds(t *testing.T) {
	t.Setenv("PIPELINE_WORKERS", "")

	tests := []struct {
		name       string
		multiplier float64
		limit      int
	}{
		{"CPUBound", 1.0, 0},
		{"IOBound", 2.0, 0},
		{"Limited", 2.0, 2},
		{"TinyMultiplier", 0.01, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Count(tt.multiplier, tt.limit)
			if got < 1 {
				t.Errorf("Count() = %d, want at least 1", got)
			}
			if tt.limit > 0 && got > tt.limit {
				t.Errorf("Count() = %d, exceeds limit %d", got, tt.limit)
			}
		})
	}
}

func TestCountOverride(t *testing.T) {
	t.Setenv("PIPELINE_WORKERS", "7")
	if got := Count(1.0, 0); got != 7 {
		t.Errorf("Count() with override = %d, want 7", got)
	}
	if got := Count(1.0, 3); got != 3 {
		t.Errorf("Count() with override and limit = %d, want 3", got)
	}
}

func TestCountInvalidOverride(t *testing.T) {
	t.Setenv("PIPELINE_WORKERS", "not-a-number")
	want := runtime.GOMAXPROCS(0)
	if got := ForCPU(0); got != want {
		t.Errorf("ForCPU() with invalid override = %d, want %d", got, want)
	}
}
