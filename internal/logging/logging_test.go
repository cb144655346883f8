package logging

import "testing"

func TestLevelString(t *testing.T) {
	tests := []struct {
		name     string
		level    Level
		expected string
	}{
		{"Debug", LevelDebug, "debug"},
		{"Info", LevelInfo, "info"},
		{"Warn", LevelWarn, "warn"},
		{"Error", LevelError, "error"},
		{"Unknown", Level(42), "unknown(42)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.level.String(); got != tt.expected {
				t.Errorf("Level.String() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestGetLevelDefault(t *testing.T) {
	// The level is latched on first use; with no environment set in the
	// test process it must resolve to Info.
	if got := GetLevel(); got > LevelInfo {
		t.Errorf("default level = %v, want at most info", got)
	}
}

func TestLevelOrdering(t *testing.T) {
	if !(LevelDebug < LevelInfo && LevelInfo < LevelWarn && LevelWarn < LevelError) {
		t.Error("log levels are not ordered by increasing severity")
	}
}
