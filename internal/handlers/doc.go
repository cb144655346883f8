// Package handlers provides HTTP request handlers for the upload API.
//
// It includes handlers for:
//   - Single, batch, and preset uploads
//   - Stored artifact retrieval (originals, thumbnails, presets)
//   - Health, liveness, readiness, and version endpoints
package handlers
