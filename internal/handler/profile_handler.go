package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"linkbio/internal/models"
	"linkbio/internal/service"
	"linkbio/internal/session"
)

// ProfileHandler serves the profile update and the public view.
type ProfileHandler struct {
	profiles *service.ProfileService
	codec    *session.Codec
	logger   *zap.Logger
}

func NewProfileHandler(profiles *service.ProfileService, codec *session.Codec, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		profiles: profiles,
		codec:    codec,
		logger:   logger,
	}
}

// Update stores the submitted profile.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.Profile
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.profiles.Update(r.Context(), req); err != nil {
		h.logger.Error("Profile update failed", zap.Error(err))
		respondServiceError(w, err)
		return
	}
	respondOK(w)
}

// View is the public page payload. No auth required; "authed" reflects
// whether the caller holds a valid session cookie.
func (h *ProfileHandler) View(w http.ResponseWriter, r *http.Request) {
	_, authed := h.codec.FromRequest(r)

	view, err := h.profiles.GetView(r.Context(), authed)
	if err != nil {
		h.logger.Error("View failed", zap.Error(err))
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}
