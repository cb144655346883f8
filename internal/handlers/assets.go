package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"image-service/internal/apperr"
)

// GetAssetInfo returns the registry record behind a stored artifact
// name. Thumbnail names resolve to their parent asset.
func (h *Handlers) GetAssetInfo(w http.ResponseWriter, r *http.Request) {
	if h.registry == nil {
		writeError(w, apperr.NotFound())
		return
	}

	filename := mux.Vars(r)["filename"]
	asset, err := h.registry.GetByStoredName(r.Context(), filename)
	if err != nil {
		writeError(w, apperr.Internal(err))
		return
	}
	if asset == nil {
		writeError(w, apperr.NotFound())
		return
	}

	writeSuccess(w, http.StatusOK, asset)
}
