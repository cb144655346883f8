package handlers

import (
	"context"
	"fmt"
	"net/http"

	"image-service/internal/apperr"
	"image-service/internal/pipeline"
)

// multipartMemory is the in-memory threshold for multipart parsing;
// larger parts spill to disk.
const multipartMemory = 32 << 20

// userHeader carries the authenticated user identity asserted by the
// upstream gateway.
const userHeader = "X-User-Id"

// UploadSingle processes one image upload from the multipart field
// "file".
func (h *Handlers) UploadSingle(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadSize)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		writeError(w, h.parseFormError(err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, apperr.Validation("No file provided"))
		return
	}
	defer file.Close()

	if header.Filename == "" {
		writeError(w, apperr.Validation("No file selected"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.FileTimeout)
	defer cancel()

	result, err := h.pipeline.ProcessImage(ctx, pipeline.Upload{
		Filename: header.Filename,
		Data:     file,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, result)
}

// UploadMultiple processes an ordered batch from the multipart field
// "files". Per-file failures land in the report; the response itself is
// always 200.
func (h *Handlers) UploadMultiple(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadSize)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		writeError(w, h.parseFormError(err))
		return
	}

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		writeError(w, apperr.Validation("No file provided"))
		return
	}
	if len(headers) > h.cfg.MaxBatchFiles {
		writeError(w, apperr.Validation(fmt.Sprintf(
			"Too many files. Maximum is %d per upload", h.cfg.MaxBatchFiles)))
		return
	}

	uploads := make([]pipeline.Upload, 0, len(headers))
	for _, header := range headers {
		f, err := header.Open()
		if err != nil {
			writeError(w, apperr.Internal(err))
			return
		}
		defer f.Close()
		uploads = append(uploads, pipeline.Upload{
			Filename: header.Filename,
			Data:     f,
		})
	}

	report := h.pipeline.ProcessBatch(r.Context(), uploads)
	writeSuccess(w, http.StatusOK, report)
}

// UploadPreset signs and stores one preset sidecar for the user
// asserted in the X-User-Id header.
func (h *Handlers) UploadPreset(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadSize)

	userID := r.Header.Get(userHeader)
	if userID == "" {
		writeError(w, apperr.Validation("User identity required"))
		return
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		writeError(w, h.parseFormError(err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, apperr.Validation("No file provided"))
		return
	}
	defer file.Close()

	if header.Filename == "" {
		writeError(w, apperr.Validation("No file selected"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.FileTimeout)
	defer cancel()

	result, err := h.pipeline.ProcessPreset(ctx, pipeline.Upload{
		Filename: header.Filename,
		Data:     file,
	}, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, result)
}

// parseFormError distinguishes an oversized body from a malformed one.
func (h *Handlers) parseFormError(err error) error {
	if isBodyTooLarge(err) {
		return apperr.Validation(fmt.Sprintf(
			"File too large. Maximum size is %dMB", h.cfg.MaxUploadSize>>20))
	}
	return apperr.Validation("No file provided")
}
