// Package apperr defines the error taxonomy for the upload pipeline.
//
// Every error that can reach a client is classified by Kind and carries a
// machine-readable code plus a fixed, reviewed user-facing message. The
// underlying cause is kept for server-side logs only and is never echoed
// to the caller.
package apperr
