// Package store is the content store for processed artifacts.
//
// Artifacts live under a single root directory in three folders:
// originals, thumbnails, and presets, plus a temp staging area for
// in-flight RAW sources and unsigned presets. Writes go through a temp
// file and an atomic rename so a concurrent reader never sees a partial
// artifact. All lookups are confined to the configured folders; path
// traversal in a requested filename is rejected before touching disk.
package store
