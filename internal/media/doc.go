// Package media implements the image half of the upload pipeline: RAW
// decoding, raster normalization and thumbnail derivation.
//
// RAW captures are rendered through libvips (with a dcraw fallback) using
// camera white balance at full sensor resolution, then exported as JPEG.
// Rasters are flattened onto an opaque white background when they carry
// alpha or palette color and re-encoded as JPEG at a fixed quality.
// Thumbnails are height-bounded, aspect-preserving Lanczos downsamples.
package media
