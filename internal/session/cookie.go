package session

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// FlashCookieName holds the signed flash payload when no Valkey is configured.
const FlashCookieName = "lb_flash"

// CookieStore keeps flashes in an HMAC-signed cookie. A cookie whose
// signature does not verify is discarded.
type CookieStore struct {
	secret []byte
	secure bool
}

// NewCookieStore returns a CookieStore signing with secret.
func NewCookieStore(secret string, secure bool) *CookieStore {
	return &CookieStore{secret: []byte(secret), secure: secure}
}

// AddFlash appends f to any flashes already carried by the request.
func (s *CookieStore) AddFlash(_ context.Context, w http.ResponseWriter, r *http.Request, f Flash) error {
	flashes := append(s.decode(r), f)

	payload, err := json.Marshal(flashes)
	if err != nil {
		return fmt.Errorf("flash marshal: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     FlashCookieName,
		Value:    s.sign(payload),
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(DefaultTTL.Seconds()),
	})
	return nil
}

// Flashes returns the carried flashes and expires the cookie.
func (s *CookieStore) Flashes(_ context.Context, w http.ResponseWriter, r *http.Request) ([]Flash, error) {
	if _, err := r.Cookie(FlashCookieName); err != nil {
		return nil, nil
	}

	http.SetCookie(w, &http.Cookie{
		Name:     FlashCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	return s.decode(r), nil
}

func (s *CookieStore) decode(r *http.Request) []Flash {
	cookie, err := r.Cookie(FlashCookieName)
	if err != nil {
		return nil
	}

	encoded, sig, ok := strings.Cut(cookie.Value, ".")
	if !ok {
		return nil
	}
	payload, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil
	}
	want, err := base64.RawURLEncoding.DecodeString(sig)
	if err != nil || !hmac.Equal(want, s.mac(payload)) {
		return nil
	}

	var flashes []Flash
	if err := json.Unmarshal(payload, &flashes); err != nil {
		return nil
	}
	return flashes
}

func (s *CookieStore) sign(payload []byte) string {
	return base64.RawURLEncoding.EncodeToString(payload) + "." +
		base64.RawURLEncoding.EncodeToString(s.mac(payload))
}

func (s *CookieStore) mac(payload []byte) []byte {
	h := hmac.New(sha256.New, s.secret)
	h.Write(payload)
	return h.Sum(nil)
}
