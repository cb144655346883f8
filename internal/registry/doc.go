// Package registry persists a record of every ingested asset.
//
// The registry is SQLite-backed bookkeeping on top of the content
// store: each successful upload stores one row linking the generated
// asset id to its original filename, kind, stored artifact names, and
// (for presets) the owning user and embedded signature. The serve path
// and the readiness probe query it; the pipeline writes to it.
package registry
