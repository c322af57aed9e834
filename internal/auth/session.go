package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// tokenBytes is the session token entropy: 128 bits, 32 hex characters.
const tokenBytes = 16

var randRead = rand.Read

// Session is a logged-in user. Token is the secret carried by the cookie;
// ID is a non-secret handle safe to write to logs.
type Session struct {
	ID        uuid.UUID
	Token     string
	Username  string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Registry maps session tokens to usernames. It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

// NewRegistry creates an empty registry whose sessions live for ttl.
func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create starts a session for username. Existing sessions of the same user
// are left alone.
func (r *Registry) Create(username string) (*Session, error) {
	buf := make([]byte, tokenBytes)
	if _, err := randRead(buf); err != nil {
		return nil, err
	}

	now := r.now()
	s := &Session{
		ID:        uuid.New(),
		Token:     hex.EncodeToString(buf),
		Username:  username,
		CreatedAt: now,
		ExpiresAt: now.Add(r.ttl),
	}

	r.mu.Lock()
	r.sessions[s.Token] = s
	r.mu.Unlock()

	return s, nil
}

// Resolve returns the username behind token. Unknown, destroyed and expired
// tokens all resolve to false.
func (r *Registry) Resolve(token string) (string, bool) {
	if token == "" {
		return "", false
	}

	r.mu.RLock()
	s, ok := r.sessions[token]
	r.mu.RUnlock()

	if !ok || !r.now().Before(s.ExpiresAt) {
		return "", false
	}
	return s.Username, true
}

// Destroy removes the session for token. Destroying an unknown token is a no-op.
func (r *Registry) Destroy(token string) {
	r.mu.Lock()
	delete(r.sessions, token)
	r.mu.Unlock()
}

// Sweep drops every expired session and reports how many were removed.
func (r *Registry) Sweep() int {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for token, s := range r.sessions {
		if !now.Before(s.ExpiresAt) {
			delete(r.sessions, token)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored sessions, expired ones included until swept.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// RunCleanup sweeps expired sessions every interval until ctx is done.
func (r *Registry) RunCleanup(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				log.Info().Str("component", "sessions").Int("removed", n).Msg("expired sessions swept")
			}
		}
	}
}
