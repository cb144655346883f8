package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"image-service/internal/apperr"
	"image-service/internal/logging"
)

// writeJSON encodes v as JSON and writes it to the response writer.
// Any encoding or write errors are logged since we typically cannot
// recover from them in an HTTP handler context.
func writeJSON(w http.ResponseWriter, v interface{}) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("failed to encode JSON response: %v", err)
	}
}

// writeSuccess writes the service's success envelope around data.
func writeSuccess(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	writeJSON(w, map[string]interface{}{
		"success": true,
		"data":    data,
	})
}

// writeError classifies err and writes the error envelope. Raw error
// text never reaches the client: the envelope carries the classified
// error's fixed message and machine-readable code.
func writeError(w http.ResponseWriter, err error) {
	e := apperr.From(err)
	if e.Kind == apperr.KindInternal {
		logging.Error("request failed: %v", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.HTTPStatus())
	writeJSON(w, map[string]string{
		"error": e.Message,
		"code":  e.Code,
	})
}

// isBodyTooLarge reports whether err came from http.MaxBytesReader.
func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
