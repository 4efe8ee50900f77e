package session

import (
	"errors"
	"testing"
	"time"

	"github.com/naturetrail/naturetrail/internal/clock"
	"github.com/naturetrail/naturetrail/internal/config"
	"github.com/naturetrail/naturetrail/internal/identity/domain"
)

func newTestStore(t *testing.T) (*Store, *clock.FakeClock) {
	t.Helper()
	clk := clock.NewFakeClock(time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC))
	store := NewStore(config.Config{SessionTTL: time.Hour}, clk)
	return store, clk
}

func TestStoreRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	principal := &domain.Principal{Username: "alice", Tier: domain.TierStandard}

	token, _, err := store.Create(principal)
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}

	got, err := store.Get(token)
	if err != nil {
		t.Fatalf("failed to get session: %v", err)
	}
	if got.Username != "alice" {
		t.Fatalf("expected alice, got %s", got.Username)
	}
}

func TestStoreUnknownToken(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Get("bogus")
	if !errors.Is(err, domain.ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession, got %v", err)
	}
}

func TestStoreExpiry(t *testing.T) {
	store, clk := newTestStore(t)
	token, _, err := store.Create(&domain.Principal{Username: "alice"})
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}

	clk.Advance(2 * time.Hour)
	if _, err := store.Get(token); !errors.Is(err, domain.ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}

	// Expired entries are removed, so a second read reports invalid.
	if _, err := store.Get(token); !errors.Is(err, domain.ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession, got %v", err)
	}
}

func TestStoreDelete(t *testing.T) {
	store, _ := newTestStore(t)
	token, _, err := store.Create(&domain.Principal{Username: "alice"})
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}

	store.Delete(token)
	if _, err := store.Get(token); !errors.Is(err, domain.ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession, got %v", err)
	}
}
