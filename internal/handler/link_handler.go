package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"linkbio/internal/service"
)

// LinkHandler serves the link list CRUD. Reads are public; mutations sit
// behind the origin guard and session gate in the router.
type LinkHandler struct {
	links  *service.LinkService
	logger *zap.Logger
}

func NewLinkHandler(links *service.LinkService, logger *zap.Logger) *LinkHandler {
	return &LinkHandler{links: links, logger: logger}
}

type linkRequest struct {
	ID    string `json:"id"`
	Icon  string `json:"icon"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

type reorderRequest struct {
	Order []string `json:"order"`
}

// List returns all links in display order. Public.
func (h *LinkHandler) List(w http.ResponseWriter, r *http.Request) {
	links, err := h.links.List(r.Context())
	if err != nil {
		h.logger.Error("Link list failed", zap.Error(err))
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"links": links})
}

func (h *LinkHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req linkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := h.links.Create(r.Context(), req.Icon, req.Title, req.URL)
	if err != nil {
		h.logError("Link create failed", err)
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"id": id})
}

func (h *LinkHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req linkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.links.Update(r.Context(), req.ID, req.Icon, req.Title, req.URL); err != nil {
		h.logError("Link update failed", err)
		respondServiceError(w, err)
		return
	}
	respondOK(w)
}

func (h *LinkHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req linkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.links.Delete(r.Context(), req.ID); err != nil {
		h.logError("Link delete failed", err)
		respondServiceError(w, err)
		return
	}
	respondOK(w)
}

// Reorder replaces the display order wholesale.
func (h *LinkHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.links.Reorder(r.Context(), req.Order); err != nil {
		h.logError("Link reorder failed", err)
		respondServiceError(w, err)
		return
	}
	respondOK(w)
}

func (h *LinkHandler) logError(msg string, err error) {
	if errors.Is(err, service.ErrValidation) {
		return
	}
	h.logger.Error(msg, zap.Error(err))
}
