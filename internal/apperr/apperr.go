package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error by how the pipeline and the HTTP layer must
// treat it.
type Kind int

const (
	// KindValidation covers rejected input: missing file, empty filename,
	// disallowed extension, missing user identity. Never retried.
	KindValidation Kind = iota
	// KindDecode covers RAW decode failures. Fatal for the file.
	KindDecode
	// KindNormalization covers unreadable or corrupt raster input.
	KindNormalization
	// KindSignatureStructure covers malformed preset documents or a
	// missing metadata scaffold.
	KindSignatureStructure
	// KindOwnership covers attempts to re-sign a preset owned by another
	// user. Security relevant.
	KindOwnership
	// KindNotFound covers lookups of stored artifacts that do not exist.
	KindNotFound
	// KindInternal covers everything unexpected.
	KindInternal
)

// Error is a classified pipeline error. Message is safe to show to a
// client; the wrapped cause is not.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.cause)
	}
	return e.Code
}

// Unwrap exposes the cause for errors.Is/As chains.
func (e *Error) Unwrap() error { return e.cause }

// HTTPStatus maps the error kind to an HTTP status code.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindOwnership:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindDecode, KindNormalization, KindSignatureStructure:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Validation returns a validation error with a reviewed message.
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Code: "VALIDATION_ERROR", Message: message}
}

// Decode returns a RAW decode failure.
func Decode(cause error) *Error {
	return &Error{Kind: KindDecode, Code: "DECODE_ERROR", Message: "Failed to decode RAW file", cause: cause}
}

// Normalization returns a raster normalization failure.
func Normalization(cause error) *Error {
	return &Error{Kind: KindNormalization, Code: "NORMALIZATION_ERROR", Message: "Failed to process image", cause: cause}
}

// InvalidFormat reports a preset document whose root structure cannot be
// parsed at all.
func InvalidFormat(cause error) *Error {
	return &Error{Kind: KindSignatureStructure, Code: "INVALID_FORMAT", Message: "Preset file is not a valid document", cause: cause}
}

// InvalidStructure reports a preset document missing the metadata
// scaffold required to carry a signature.
func InvalidStructure(cause error) *Error {
	return &Error{Kind: KindSignatureStructure, Code: "INVALID_STRUCTURE", Message: "Preset file is missing its metadata structure", cause: cause}
}

// Ownership reports a preset already signed by a different user. The
// message deliberately carries no identity information.
func Ownership() *Error {
	return &Error{Kind: KindOwnership, Code: "OWNERSHIP_VIOLATION", Message: "Preset is owned by another user"}
}

// NotFound reports a missing stored artifact.
func NotFound() *Error {
	return &Error{Kind: KindNotFound, Code: "NOT_FOUND", Message: "File not found"}
}

// Internal wraps an unexpected error behind a generic message.
func Internal(cause error) *Error {
	return &Error{Kind: KindInternal, Code: "INTERNAL_ERROR", Message: "Internal server error", cause: cause}
}

// From extracts the classified error from err, wrapping unclassified
// errors as Internal so no raw error text escapes.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal(err)
}

// Reason returns the user-facing reason string for a per-file batch
// failure entry.
func Reason(err error) string {
	return From(err).Message
}

// IsKind reports whether err is classified as kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
