// Package workers computes worker pool sizes for the upload pipeline
// based on available CPUs, with an environment override.
package workers
