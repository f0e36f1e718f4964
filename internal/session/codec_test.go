package session

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestMintVerify_RoundTrip(t *testing.T) {
	t.Parallel()

	c := NewCodec("test-secret", 7*24*time.Hour, false)

	tok := c.Mint("admin")
	got, ok := c.Verify(tok)
	if !ok {
		t.Fatalf("Verify rejected a freshly minted token")
	}
	if got != "admin" {
		t.Fatalf("identity mismatch: got %q want %q", got, "admin")
	}
}

func TestVerify_Expiry(t *testing.T) {
	t.Parallel()

	c := NewCodec("test-secret", 7*24*time.Hour, false)

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return base }
	tok := c.Mint("admin")

	c.now = func() time.Time { return base.Add(6 * 24 * time.Hour) }
	if got, ok := c.Verify(tok); !ok || got != "admin" {
		t.Fatalf("token should be valid at T+6d, got ok=%v identity=%q", ok, got)
	}

	c.now = func() time.Time { return base.Add(8 * 24 * time.Hour) }
	if _, ok := c.Verify(tok); ok {
		t.Fatalf("token should be absent at T+8d")
	}
}

func TestVerify_TamperedToken(t *testing.T) {
	t.Parallel()

	c := NewCodec("test-secret", time.Hour, false)
	tok := c.Mint("admin")

	// Flip one byte at every position; no variant may verify.
	for i := 0; i < len(tok); i++ {
		if tok[i] == '.' {
			continue
		}
		mutated := []byte(tok)
		if mutated[i] == 'A' {
			mutated[i] = 'B'
		} else {
			mutated[i] = 'A'
		}
		if _, ok := c.Verify(string(mutated)); ok {
			t.Fatalf("tampered token accepted (byte %d)", i)
		}
	}
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()

	c := NewCodec("test-secret", time.Hour, false)

	cases := []string{
		"",
		".",
		"no-separator",
		"body.",
		".signature",
		"!!!.deadbeef",
		"Zm9v.nothex",
		// valid base64 of non-JSON, correctly signed
		"bm90LWpzb24." + c.sign("bm90LWpzb24"),
	}
	for _, tc := range cases {
		if _, ok := c.Verify(tc); ok {
			t.Fatalf("malformed token %q accepted", tc)
		}
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	minter := NewCodec("secret-a", time.Hour, false)
	verifier := NewCodec("secret-b", time.Hour, false)

	if _, ok := verifier.Verify(minter.Mint("admin")); ok {
		t.Fatalf("token signed with a different secret accepted")
	}
}

func TestSetCookie_Attributes(t *testing.T) {
	t.Parallel()

	c := NewCodec("test-secret", 7*24*time.Hour, true)

	rec := httptest.NewRecorder()
	c.SetCookie(rec, c.Mint("admin"))

	res := rec.Result()
	cookies := res.Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}
	ck := cookies[0]
	if ck.Name != CookieName {
		t.Fatalf("cookie name: got %q", ck.Name)
	}
	if !ck.HttpOnly || !ck.Secure || ck.Path != "/" {
		t.Fatalf("cookie attributes wrong: %+v", ck)
	}
	if ck.SameSite != http.SameSiteLaxMode {
		t.Fatalf("cookie SameSite: got %v", ck.SameSite)
	}
	if ck.MaxAge != 604800 {
		t.Fatalf("cookie MaxAge: got %d", ck.MaxAge)
	}
	if !strings.Contains(ck.Value, ".") {
		t.Fatalf("cookie value not in body.signature form: %q", ck.Value)
	}
}

func TestClearCookie(t *testing.T) {
	t.Parallel()

	c := NewCodec("test-secret", 7*24*time.Hour, false)

	rec := httptest.NewRecorder()
	c.ClearCookie(rec)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}
	if cookies[0].Value != "" || cookies[0].MaxAge >= 0 {
		t.Fatalf("clear cookie should be empty and expired: %+v", cookies[0])
	}
}

func TestFromRequest(t *testing.T) {
	t.Parallel()

	c := NewCodec("test-secret", time.Hour, false)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, ok := c.FromRequest(req); ok {
		t.Fatalf("request without cookie should have no session")
	}

	req.AddCookie(&http.Cookie{Name: CookieName, Value: c.Mint("admin")})
	got, ok := c.FromRequest(req)
	if !ok || got != "admin" {
		t.Fatalf("FromRequest: got ok=%v identity=%q", ok, got)
	}
}
