package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_service_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "image_service_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "image_service_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Pipeline metrics
var (
	PipelineFilesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_service_pipeline_files_total",
			Help: "Total number of files processed by the pipeline",
		},
		[]string{"kind", "status"}, // kind: raw|raster|preset, status: success|error
	)

	PipelineStageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "image_service_pipeline_stage_duration_seconds",
			Help:    "Duration of individual pipeline stages in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"stage"}, // decode|normalize|thumbnail|metadata|sign
	)

	PipelineBatchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "image_service_pipeline_batch_size",
			Help:    "Number of files per batch upload",
			Buckets: []float64{1, 2, 5, 10, 20},
		},
	)

	PipelineWorkers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "image_service_pipeline_workers",
			Help: "Number of workers processing batch uploads",
		},
	)
)

// Signature metrics
var (
	SignatureOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_service_signature_operations_total",
			Help: "Total number of preset signature operations",
		},
		[]string{"operation", "status"}, // operation: sign|verify
	)

	OwnershipViolationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "image_service_ownership_violations_total",
			Help: "Total number of rejected preset re-sign attempts by a non-owner",
		},
	)
)

// Registry metrics
var (
	RegistryQueryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_service_registry_queries_total",
			Help: "Total number of asset registry queries",
		},
		[]string{"operation", "status"},
	)

	RegistryQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "image_service_registry_query_duration_seconds",
			Help:    "Asset registry query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"operation"},
	)
)

// Store metrics
var (
	StoreArtifactsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_service_store_artifacts_total",
			Help: "Total number of artifacts written to the content store",
		},
		[]string{"folder"}, // originals|thumbnails|presets
	)

	StoreBytesWritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_service_store_bytes_written_total",
			Help: "Total bytes written to the content store",
		},
		[]string{"folder"},
	)

	StoreServeTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_service_store_serves_total",
			Help: "Total number of stored artifact reads by result",
		},
		[]string{"status"}, // hit|miss
	)
)

// InitializeMetrics pre-populates expected label combinations so every
// metric is exported from the first Prometheus scrape.
func InitializeMetrics() {
	for _, kind := range []string{"raw", "raster", "preset"} {
		PipelineFilesTotal.WithLabelValues(kind, "success")
		PipelineFilesTotal.WithLabelValues(kind, "error")
	}

	for _, stage := range []string{"decode", "normalize", "thumbnail", "metadata", "sign"} {
		PipelineStageDuration.WithLabelValues(stage)
	}

	for _, op := range []string{"sign", "verify"} {
		SignatureOperationsTotal.WithLabelValues(op, "success")
		SignatureOperationsTotal.WithLabelValues(op, "error")
	}

	for _, folder := range []string{"originals", "thumbnails", "presets"} {
		StoreArtifactsTotal.WithLabelValues(folder)
		StoreBytesWritten.WithLabelValues(folder)
	}
	StoreServeTotal.WithLabelValues("hit")
	StoreServeTotal.WithLabelValues("miss")

	for _, op := range []string{"initialize_schema", "insert_asset", "get_by_stored_path", "stats"} {
		RegistryQueryTotal.WithLabelValues(op, "success")
		RegistryQueryTotal.WithLabelValues(op, "error")
		RegistryQueryDuration.WithLabelValues(op)
	}
}
