// Package metrics provides Prometheus instrumentation for the image
// service. All metrics are prefixed with "image_service_" to avoid naming
// collisions with other applications.
//
// Categories:
//   - HTTP: request counts, durations, and in-flight gauge
//   - Pipeline: per-file outcomes by kind and status, stage durations,
//     batch sizes
//   - Signature: sign/verify outcomes and ownership violations
//   - Registry: database query counts and durations
//   - Store: stored artifact counts and bytes by folder
package metrics
