package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"linkbio/internal/service"
)

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

func respondOK(w http.ResponseWriter) {
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// respondServiceError maps service sentinels to HTTP responses. Anything
// unrecognized (store failures and the like) becomes a generic 500; the
// caller logs the details.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotConfigured):
		respondError(w, http.StatusBadRequest, "admin account not configured")
	case errors.Is(err, service.ErrInvalidCredentials):
		respondError(w, http.StatusBadRequest, "invalid username or password")
	case errors.Is(err, service.ErrTooManyAttempts):
		respondError(w, http.StatusTooManyRequests, "too many attempts, try again later")
	case errors.Is(err, service.ErrStorageUnavailable):
		respondError(w, http.StatusServiceUnavailable, "uploads unavailable")
	default:
		respondError(w, http.StatusInternalServerError, "server error")
	}
}
