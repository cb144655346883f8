package handlers

import (
	"net/http"
	"runtime"
	"time"

	"image-service/internal/startup"
)

const (
	statusHealthy  = "healthy"
	statusDegraded = "degraded"
)

// HealthResponse contains the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
	Uptime    string `json:"uptime"`

	// System info
	GoVersion    string `json:"goVersion"`
	NumCPU       int    `json:"numCpu"`
	NumGoroutine int    `json:"numGoroutine"`

	// Stats summary
	TotalAssets  int64            `json:"totalAssets,omitempty"`
	AssetsByKind map[string]int64 `json:"assetsByKind,omitempty"`
}

// HealthCheck returns the health status of the service
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:       statusHealthy,
		Service:      "image-service",
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
		Version:      startup.Version,
		Uptime:       time.Since(h.started).Round(time.Second).String(),
		GoVersion:    runtime.Version(),
		NumCPU:       runtime.NumCPU(),
		NumGoroutine: runtime.NumGoroutine(),
	}

	status := http.StatusOK
	if h.registry != nil {
		if stats, err := h.registry.GetStats(r.Context()); err == nil {
			response.TotalAssets = stats.TotalAssets
			response.AssetsByKind = stats.ByKind
		} else {
			response.Status = statusDegraded
			status = http.StatusServiceUnavailable
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	writeJSON(w, response)
}

// LivenessCheck is a simple liveness probe (always returns 200 if server is running)
func (h *Handlers) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	// For HEAD requests, only send headers (no body)
	if r.Method != http.MethodHead {
		writeJSON(w, map[string]string{
			"status": "alive",
		})
	}
}

// ReadinessCheck returns 200 only when the registry is reachable
func (h *Handlers) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if h.registryReady(r) {
		w.WriteHeader(http.StatusOK)
		writeJSON(w, map[string]string{
			"status": "ready",
		})
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
		writeJSON(w, map[string]string{
			"status": "not_ready",
		})
	}
}

func (h *Handlers) registryReady(r *http.Request) bool {
	if h.registry == nil {
		return true
	}
	return h.registry.Ping(r.Context()) == nil
}
