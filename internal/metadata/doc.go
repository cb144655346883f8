// Package metadata extracts embedded camera, exposure and location tags
// from a normalized image into a flat, human-readable field map.
//
// Extraction is strictly best-effort: a file that cannot be opened or
// carries no tags yields an empty map, never an error, and no field is
// ever populated with a placeholder. Enumerated tags are rendered
// through fixed lookup tables; unmapped codes render as "Unknown (<code>)".
package metadata
