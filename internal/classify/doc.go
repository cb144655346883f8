// Package classify determines how an uploaded file enters the pipeline
// based on its filename extension.
//
// Classification is trust-on-extension by design: the RAW and raster sets
// are configuration-driven, the preset sidecar set is fixed. The ".dng"
// extension is ambiguous (RAW capture or DNG camera profile); the image
// path resolves it to RAW, the preset path resolves it to preset, so the
// upload endpoint decides which resolution applies.
package classify
