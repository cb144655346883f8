package memory

import (
	"math"
	"os"
	"runtime/debug"
	"strconv"

	"image-service/internal/logging"
)

// DefaultMemoryRatio is the fraction of the container memory limit given to
// the Go heap. The remainder is reserved for libvips caches, CGO decode
// buffers, and goroutine stacks.
const DefaultMemoryRatio = 0.75

// ConfigResult reports what ConfigureFromEnv decided.
type ConfigResult struct {
	// Configured indicates whether GOMEMLIMIT is in effect.
	Configured bool

	// Source is "GOMEMLIMIT", "MEMORY_LIMIT", or "none".
	Source string

	// ContainerLimit is the container memory limit in bytes (0 if unset).
	ContainerLimit int64

	// GoMemLimit is the effective GOMEMLIMIT in bytes (0 if unset).
	GoMemLimit int64

	// Ratio is the fraction of ContainerLimit applied (0 if not applicable).
	Ratio float64
}

// ConfigureFromEnv sets GOMEMLIMIT from the container memory limit. Call it
// early in main, before significant allocations.
//
// GOMEMLIMIT, if set, takes precedence. Otherwise MEMORY_LIMIT (bytes, from
// the Kubernetes Downward API) scaled by MEMORY_RATIO is applied.
func ConfigureFromEnv() ConfigResult {
	result := ConfigResult{Source: "none"}

	if goMemLimitEnv := os.Getenv("GOMEMLIMIT"); goMemLimitEnv != "" {
		if limit := debug.SetMemoryLimit(-1); limit > 0 && limit < math.MaxInt64 {
			result.Configured = true
			result.Source = "GOMEMLIMIT"
			result.GoMemLimit = limit
		}
		logging.Info("GOMEMLIMIT set via environment: %s", goMemLimitEnv)
		return result
	}

	memLimitStr := os.Getenv("MEMORY_LIMIT")
	if memLimitStr == "" {
		logging.Debug("MEMORY_LIMIT not set, GOMEMLIMIT will not be configured automatically")
		return result
	}

	memLimit, err := strconv.ParseInt(memLimitStr, 10, 64)
	if err != nil || memLimit <= 0 {
		logging.Warn("Ignoring invalid MEMORY_LIMIT %q", memLimitStr)
		return result
	}
	result.ContainerLimit = memLimit

	ratio := DefaultMemoryRatio
	if ratioStr := os.Getenv("MEMORY_RATIO"); ratioStr != "" {
		if parsed, err := strconv.ParseFloat(ratioStr, 64); err == nil && parsed > 0 && parsed <= 1.0 {
			ratio = parsed
		} else {
			logging.Warn("MEMORY_RATIO %q invalid, using default %.2f", ratioStr, DefaultMemoryRatio)
		}
	}
	result.Ratio = ratio

	goMemLimit := int64(float64(memLimit) * ratio)
	debug.SetMemoryLimit(goMemLimit)

	result.Configured = true
	result.Source = "MEMORY_LIMIT"
	result.GoMemLimit = goMemLimit

	logging.Info("Configured GOMEMLIMIT: %s (%.0f%% of %s container limit)",
		formatBytes(goMemLimit), ratio*100, formatBytes(memLimit))
	return result
}

func formatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return strconv.FormatInt(b, 10) + " B"
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return strconv.FormatFloat(float64(b)/float64(div), 'f', 1, 64) + " " + string("KMGTPE"[exp]) + "iB"
}
