package handler

import (
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"linkbio/internal/imaging"
	"linkbio/internal/service"
)

// UploadHandler accepts multipart image uploads.
type UploadHandler struct {
	uploads   *service.UploadService
	maxSizeMB int
	logger    *zap.Logger
}

func NewUploadHandler(uploads *service.UploadService, maxSizeMB int, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{
		uploads:   uploads,
		maxSizeMB: maxSizeMB,
		logger:    logger,
	}
}

// Upload reads the "file" form field, re-encodes the image, and stores it.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	limit := int64(h.maxSizeMB) << 20
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusBadRequest, "file too large")
			return
		}
		respondError(w, http.StatusBadRequest, "no file received")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to read file")
		return
	}

	url, err := h.uploads.Upload(r.Context(), header.Filename, data)
	if err != nil {
		if errors.Is(err, imaging.ErrUnsupportedFormat) {
			respondError(w, http.StatusBadRequest, "unsupported image format")
			return
		}
		h.logger.Error("Upload failed", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"url": url})
}
