package service

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrValidation marks client input errors; handlers map it to 400.
var ErrValidation = errors.New("validation failed")

func validationError(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

// sanitizeText trims surrounding whitespace and hard-caps the length.
func sanitizeText(s string, maxLen int) string {
	s = strings.TrimSpace(s)
	if len(s) > maxLen {
		s = s[:maxLen]
	}
	return s
}

// validateHTTPURL parses s and requires an absolute http/https URL.
// Returns the normalized form.
func validateHTTPURL(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	u, err := url.Parse(s)
	if err != nil {
		return "", false
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", false
	}
	return u.String(), true
}

// isHTTPURL is a cheap first-layer filter; strict parsing happens in
// validateHTTPURL.
func isHTTPURL(s string) bool {
	lower := strings.ToLower(strings.TrimSpace(s))
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
