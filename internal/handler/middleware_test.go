package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"linkbio/internal/session"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestSameOriginGuard(t *testing.T) {
	cases := []struct {
		name    string
		allowed string
		method  string
		origin  string
		referer string
		want    int
	}{
		{"matching origin", "https://example.com", http.MethodPost, "https://example.com", "", http.StatusOK},
		{"mismatched origin", "https://example.com", http.MethodPost, "https://evil.com", "", http.StatusForbidden},
		{"no headers permitted", "https://example.com", http.MethodPost, "", "", http.StatusOK},
		{"referer fallback match", "https://example.com", http.MethodPost, "", "https://example.com/admin/page", http.StatusOK},
		{"referer fallback mismatch", "https://example.com", http.MethodPost, "", "https://evil.com/page", http.StatusForbidden},
		{"case and slash normalized", "https://Example.com/", http.MethodPost, "HTTPS://EXAMPLE.COM", "", http.StatusOK},
		{"get not checked", "https://example.com", http.MethodGet, "https://evil.com", "", http.StatusOK},
		{"unconfigured permits all", "", http.MethodDelete, "https://evil.com", "", http.StatusOK},
		{"delete checked", "https://example.com", http.MethodDelete, "https://evil.com", "", http.StatusForbidden},
		{"garbage origin permitted", "https://example.com", http.MethodPost, "not a url", "", http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			guard := SameOriginGuard(tc.allowed, zap.NewNop())
			req := httptest.NewRequest(tc.method, "/api/thing", nil)
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}
			if tc.referer != "" {
				req.Header.Set("Referer", tc.referer)
			}
			rec := httptest.NewRecorder()

			guard(okHandler()).ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("got status %d, want %d", rec.Code, tc.want)
			}
		})
	}
}

func TestRequireSession(t *testing.T) {
	codec := session.NewCodec("test-secret", time.Hour, false)
	var gotIdentity string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotIdentity = Identity(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	gate := RequireSession(codec)(inner)

	req := httptest.NewRequest(http.MethodPost, "/api/profile", nil)
	rec := httptest.NewRecorder()
	gate.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no cookie: got %d want 401", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/profile", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "garbage.signature"})
	rec = httptest.NewRecorder()
	gate.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad cookie: got %d want 401", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/profile", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: codec.Mint("admin")})
	rec = httptest.NewRecorder()
	gate.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("valid cookie: got %d want 200", rec.Code)
	}
	if gotIdentity != "admin" {
		t.Fatalf("identity not propagated: got %q", gotIdentity)
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.RemoteAddr = "192.0.2.7:51234"
	if got := ClientIP(req); got != "192.0.2.7" {
		t.Fatalf("remote addr: got %q", got)
	}

	req.Header.Set("X-Forwarded-For", "203.0.113.5, 10.0.0.1")
	if got := ClientIP(req); got != "203.0.113.5" {
		t.Fatalf("forwarded-for: got %q", got)
	}
}
