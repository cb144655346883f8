package handlers

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"image-service/internal/apperr"
	"image-service/internal/classify"
	"image-service/internal/store"
)

// ServeFile returns the raw bytes of a previously stored original,
// thumbnail, or preset. Stored names are immutable, so responses carry
// a long-lived cache header.
func (h *Handlers) ServeFile(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	folder, ok := store.ValidFolder(vars["folder"])
	if !ok {
		writeError(w, apperr.NotFound())
		return
	}

	filename := vars["filename"]
	f, info, err := h.store.Open(folder, filename)
	if err != nil {
		writeError(w, err)
		return
	}
	defer f.Close()

	ext, err := classify.Ext(filename)
	if err == nil {
		if ct := classify.ContentType(ext); ct != "" {
			w.Header().Set("Content-Type", ct)
		}
	}
	w.Header().Set("Cache-Control", "public, max-age=86400, immutable")

	// Presets download as attachments; images render inline.
	if folder == store.FolderPresets {
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=%q", filename))
	}

	http.ServeContent(w, r, filename, info.ModTime(), f)
}
