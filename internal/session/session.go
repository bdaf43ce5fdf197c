// Package session carries one-time flash messages across the
// redirect-after-post cycle. Messages live in Valkey keyed by a random
// session cookie when Valkey is configured, or in a signed cookie
// otherwise.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// CookieName is the name of the session cookie sent to the browser.
	CookieName = "lb_session"

	// DefaultTTL is how long undelivered flashes live before automatic expiry.
	DefaultTTL = 10 * time.Minute

	// keyPrefix namespaces flash lists in Valkey to avoid collisions.
	keyPrefix = "flash:"
)

// Flash kinds understood by the templates.
const (
	KindSuccess = "success"
	KindError   = "error"
	KindInfo    = "info"
)

// Flash is a one-time notification shown on the next rendered page.
type Flash struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// FlashStore queues flashes on one response and hands them out once on a
// later request.
type FlashStore interface {
	AddFlash(ctx context.Context, w http.ResponseWriter, r *http.Request, f Flash) error
	Flashes(ctx context.Context, w http.ResponseWriter, r *http.Request) ([]Flash, error)
}

// Store keeps flashes in Valkey lists.
type Store struct {
	client *redis.Client
	ttl    time.Duration
	secure bool
}

// NewStore creates a flash store backed by the given Valkey client.
func NewStore(client *redis.Client, secure bool) *Store {
	return &Store{
		client: client,
		ttl:    DefaultTTL,
		secure: secure,
	}
}

// AddFlash appends f to the browser's flash list, issuing a session cookie
// first if the request has none.
func (s *Store) AddFlash(ctx context.Context, w http.ResponseWriter, r *http.Request, f Flash) error {
	id := s.sessionID(r)
	if id == "" {
		id = uuid.NewString()
		http.SetCookie(w, &http.Cookie{
			Name:     CookieName,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			Secure:   s.secure,
			SameSite: http.SameSiteLaxMode,
		})
	}

	payload, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("flash marshal: %w", err)
	}

	key := keyPrefix + id
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, payload)
		pipe.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("flash store: %w", err)
	}
	return nil
}

// Flashes returns and removes every queued flash. A request without a
// session cookie has none.
func (s *Store) Flashes(ctx context.Context, w http.ResponseWriter, r *http.Request) ([]Flash, error) {
	id := s.sessionID(r)
	if id == "" {
		return nil, nil
	}

	key := keyPrefix + id
	var items *redis.StringSliceCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		items = pipe.LRange(ctx, key, 0, -1)
		pipe.Del(ctx, key)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("flash get: %w", err)
	}

	var flashes []Flash
	for _, raw := range items.Val() {
		var f Flash
		if err := json.Unmarshal([]byte(raw), &f); err != nil {
			return nil, fmt.Errorf("flash unmarshal: %w", err)
		}
		flashes = append(flashes, f)
	}
	return flashes, nil
}

func (s *Store) sessionID(r *http.Request) string {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	if _, err := uuid.Parse(cookie.Value); err != nil {
		return ""
	}
	return cookie.Value
}
