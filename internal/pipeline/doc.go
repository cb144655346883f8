// Package pipeline orchestrates the processing of uploaded files.
//
// Each file gets a collision-resistant asset id, is routed to the RAW
// decoder, the raster normalizer, or the preset signature engine based
// on its classified kind, and produces either a success record or a
// per-file error. Batches fan out across a bounded worker pool; one
// file's failure never aborts the rest, and the final report preserves
// the input order. Temporary staged files are removed on every handled
// exit path.
package pipeline
