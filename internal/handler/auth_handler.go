package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"linkbio/internal/service"
	"linkbio/internal/session"
)

// AuthHandler serves login and logout.
type AuthHandler struct {
	auth   *service.AuthService
	codec  *session.Codec
	logger *zap.Logger
}

func NewAuthHandler(auth *service.AuthService, codec *session.Codec, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   auth,
		codec:  codec,
		logger: logger,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login runs the rate-limited credential check and sets the session cookie.
// Bad credentials always get the same generic response.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ip := ClientIP(r)
	token, err := h.auth.Login(r.Context(), ip, req.Username, req.Password)
	if err != nil {
		if !errors.Is(err, service.ErrInvalidCredentials) &&
			!errors.Is(err, service.ErrTooManyAttempts) &&
			!errors.Is(err, service.ErrNotConfigured) {
			h.logger.Error("Login handler failed", zap.Error(err))
		}
		respondServiceError(w, err)
		return
	}

	h.codec.SetCookie(w, token)
	respondOK(w)
}

// Logout clears the session cookie. Always succeeds.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.codec.ClearCookie(w)
	respondOK(w)
}
