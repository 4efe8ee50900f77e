// Package session keeps authenticated principals in process memory.
// Principals are login-time snapshots and are never written to storage;
// restarting the server logs everyone out.
package session

import (
	"crypto/rand"
	"encoding/base64"
	"sync"
	"time"

	"github.com/naturetrail/naturetrail/internal/clock"
	"github.com/naturetrail/naturetrail/internal/config"
	"github.com/naturetrail/naturetrail/internal/identity/domain"
)

const tokenBytes = 32

type entry struct {
	principal *domain.Principal
	expiresAt time.Time
}

// Store maps opaque session tokens to principals.
type Store struct {
	mu      sync.RWMutex
	ttl     time.Duration
	clock   clock.Clock
	entries map[string]entry
}

func NewStore(cfg config.Config, clk clock.Clock) *Store {
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Store{
		ttl:     ttl,
		clock:   clk,
		entries: make(map[string]entry),
	}
}

// Create registers the principal under a fresh random token.
func (s *Store) Create(principal *domain.Principal) (string, time.Time, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", time.Time{}, err
	}
	token := base64.RawURLEncoding.EncodeToString(buf)
	expiresAt := s.clock.Now().Add(s.ttl)

	s.mu.Lock()
	s.entries[token] = entry{principal: principal, expiresAt: expiresAt}
	s.mu.Unlock()

	return token, expiresAt, nil
}

// Get resolves a token to its principal. Expired entries are pruned.
func (s *Store) Get(token string) (*domain.Principal, error) {
	s.mu.RLock()
	found, ok := s.entries[token]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrInvalidSession
	}
	if s.clock.Now().After(found.expiresAt) {
		s.Delete(token)
		return nil, domain.ErrSessionExpired
	}
	return found.principal, nil
}

// Delete drops the token. Unknown tokens are a no-op.
func (s *Store) Delete(token string) {
	s.mu.Lock()
	delete(s.entries, token)
	s.mu.Unlock()
}
