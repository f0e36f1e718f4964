package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

// CookieName is the session cookie's name.
const CookieName = "session"

// DefaultSecret is the development fallback used when SESSION_SECRET is
// unset. Running production with it means anyone can forge sessions; the
// factory logs a warning when it is in effect.
const DefaultSecret = "dev-secret"

// Codec mints and verifies stateless session tokens. A token is
// base64url(JSON payload) + "." + hex(HMAC-SHA256(secret, encoded payload)).
// Sessions are fully contained in the cookie; nothing is stored server-side.
type Codec struct {
	secret []byte
	maxAge time.Duration
	secure bool
	now    func() time.Time
}

type payload struct {
	Username string `json:"username"`
	Exp      int64  `json:"exp"`
}

// NewCodec builds a codec. An empty secret falls back to DefaultSecret.
// secure controls the cookie's Secure attribute.
func NewCodec(secret string, maxAge time.Duration, secure bool) *Codec {
	if secret == "" {
		secret = DefaultSecret
	}
	return &Codec{
		secret: []byte(secret),
		maxAge: maxAge,
		secure: secure,
		now:    time.Now,
	}
}

// Mint returns a signed token for identity, expiring maxAge from now.
func (c *Codec) Mint(identity string) string {
	p := payload{
		Username: identity,
		Exp:      c.now().Add(c.maxAge).Unix(),
	}
	raw, _ := json.Marshal(p)
	body := base64.RawURLEncoding.EncodeToString(raw)
	return body + "." + c.sign(body)
}

// Verify checks a token's signature and expiry and returns the identity it
// was minted for. Malformed, tampered, or expired tokens all come back as
// not-ok; Verify never fails in any other way.
func (c *Codec) Verify(value string) (string, bool) {
	sep := strings.LastIndex(value, ".")
	if sep <= 0 || sep == len(value)-1 {
		return "", false
	}
	body, sig := value[:sep], value[sep+1:]

	expected, err := hex.DecodeString(c.sign(body))
	if err != nil {
		return "", false
	}
	got, err := hex.DecodeString(sig)
	if err != nil {
		return "", false
	}
	if !hmac.Equal(expected, got) {
		return "", false
	}

	raw, err := base64.RawURLEncoding.DecodeString(body)
	if err != nil {
		return "", false
	}
	var p payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return "", false
	}
	if p.Exp < c.now().Unix() {
		return "", false
	}
	return p.Username, true
}

func (c *Codec) sign(body string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(body))
	return hex.EncodeToString(mac.Sum(nil))
}

// SetCookie attaches a freshly minted session cookie to the response.
func (c *Codec) SetCookie(w http.ResponseWriter, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(c.maxAge.Seconds()),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie tells the client to drop the session cookie.
func (c *Codec) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// FromRequest extracts and verifies the session cookie from a request.
func (c *Codec) FromRequest(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return c.Verify(cookie.Value)
}
