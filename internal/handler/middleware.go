package handler

import (
	"context"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"linkbio/internal/session"
	"linkbio/internal/util"
)

type contextKey string

const identityKey contextKey = "identity"

// SameOriginGuard rejects cross-origin mutating requests by comparing the
// Origin header (Referer as fallback) against the configured origin. An
// empty allowed origin disables the check entirely (local development).
// Requests carrying neither header are permitted; some proxies and clients
// strip them.
func SameOriginGuard(allowedOrigin string, logger *zap.Logger) func(http.Handler) http.Handler {
	allowed := normalizeOrigin(allowedOrigin)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if allowed == "" || !isMutating(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Origin")
			if header == "" {
				header = r.Header.Get("Referer")
			}
			origin := normalizeOrigin(header)
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			if origin != allowed {
				logger.Warn("Cross-origin request rejected",
					zap.String("origin", origin),
					zap.String("path", r.URL.Path))
				respondError(w, http.StatusForbidden, "invalid origin")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireSession verifies the session cookie and aborts with 401 when it is
// absent, malformed, tampered, or expired. Must run after SameOriginGuard
// on mutating routes. The verified identity lands in the request context.
func RequireSession(codec *session.Codec) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := codec.FromRequest(r)
			if !ok {
				respondError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Identity returns the session identity stashed by RequireSession.
func Identity(ctx context.Context) string {
	identity, _ := ctx.Value(identityKey).(string)
	return identity
}

// ClientIP picks the first X-Forwarded-For entry, falling back to the
// transport peer address.
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first := strings.Split(forwarded, ",")[0]
		return strings.TrimSpace(first)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// normalizeOrigin reduces a header or config value to lowercase
// scheme://host. Unparseable values normalize to "".
func normalizeOrigin(raw string) string {
	raw = strings.TrimSpace(strings.TrimSuffix(raw, "/"))
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return strings.ToLower(u.Scheme + "://" + u.Host)
}

// LoggerMiddleware logs each request with its status and timing.
func LoggerMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			defer func() {
				logger.Info("HTTP request",
					util.String("method", r.Method),
					util.String("path", r.URL.Path),
					util.String("remote_addr", r.RemoteAddr),
					util.Int("status", ww.Status()),
					util.Duration("duration", time.Since(start)),
				)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
