package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/naturetrail/naturetrail/internal/clock"
	"github.com/naturetrail/naturetrail/internal/identity/domain"
	"github.com/naturetrail/naturetrail/internal/identity/repository"
	"github.com/naturetrail/naturetrail/pkg/db"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) (domain.Service, *clock.FakeClock) {
	t.Helper()

	dbConn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := dbConn.AutoMigrate(&domain.User{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}
	clk := clock.NewFakeClock(time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC))

	return New(zap.NewNop(), repository.New(dbConn), node, clk), clk
}

func register(t *testing.T, svc domain.Service, username, email string) *domain.User {
	t.Helper()
	user, err := svc.Register(context.Background(), domain.RegisterRequest{
		Username: username,
		Email:    email,
		Password: "strong-password",
	})
	if err != nil {
		t.Fatalf("failed to register %s: %v", username, err)
	}
	return user
}

func TestRegisterDefaultsToStandardTier(t *testing.T) {
	svc, _ := newTestService(t)

	user := register(t, svc, "alice", "alice@example.com")
	if user.Tier != domain.TierStandard {
		t.Fatalf("expected standard tier, got %s", user.Tier)
	}
	if user.PasswordHash == "" || user.PasswordSalt == "" {
		t.Fatal("expected stored hash and salt")
	}
	if user.PasswordHash == "strong-password" {
		t.Fatal("expected password to be hashed")
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, _ := newTestService(t)
	register(t, svc, "alice", "alice@example.com")

	_, err := svc.Register(context.Background(), domain.RegisterRequest{
		Username: "alice",
		Email:    "other@example.com",
		Password: "strong-password",
	})
	if !errors.Is(err, domain.ErrDuplicateIdentity) {
		t.Fatalf("expected ErrDuplicateIdentity, got %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)
	register(t, svc, "alice", "alice@example.com")

	_, err := svc.Register(context.Background(), domain.RegisterRequest{
		Username: "alice2",
		Email:    "alice@example.com",
		Password: "strong-password",
	})
	if !errors.Is(err, domain.ErrDuplicateIdentity) {
		t.Fatalf("expected ErrDuplicateIdentity, got %v", err)
	}
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Register(context.Background(), domain.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "tiny",
	})
	if !errors.Is(err, domain.ErrInvalidIdentity) {
		t.Fatalf("expected ErrInvalidIdentity, got %v", err)
	}
}

func TestAuthenticateWrongPassword(t *testing.T) {
	svc, _ := newTestService(t)
	register(t, svc, "alice", "alice@example.com")

	_, err := svc.Authenticate(context.Background(), "alice", "wrong-password")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthenticateUnknownUser(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Authenticate(context.Background(), "nobody", "strong-password")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthenticateUpdatesLastLogin(t *testing.T) {
	svc, clk := newTestService(t)
	user := register(t, svc, "alice", "alice@example.com")

	clk.Advance(2 * time.Hour)
	principal, err := svc.Authenticate(context.Background(), "alice", "strong-password")
	if err != nil {
		t.Fatalf("failed to authenticate: %v", err)
	}
	if principal.UserID != user.ID {
		t.Fatalf("expected principal for user %s, got %s", user.ID, principal.UserID)
	}

	stored, err := svc.GetUser(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("failed to load user: %v", err)
	}
	if stored.LastLoginAt == nil {
		t.Fatal("expected last_login_at to be set")
	}
	if !stored.LastLoginAt.Equal(clk.Now()) {
		t.Fatalf("expected last login %v, got %v", clk.Now(), stored.LastLoginAt)
	}
}

func TestPrincipalPermissionsByTier(t *testing.T) {
	svc, _ := newTestService(t)
	register(t, svc, "alice", "alice@example.com")

	principal, err := svc.Authenticate(context.Background(), "alice", "strong-password")
	if err != nil {
		t.Fatalf("failed to authenticate: %v", err)
	}
	if len(principal.Permissions) != 3 {
		t.Fatalf("expected 3 standard permissions, got %d", len(principal.Permissions))
	}
	if !principal.Can(domain.PermViewTrails) || principal.Can(domain.PermAdvancedAnalytics) {
		t.Fatal("expected standard permission set only")
	}

	premium := domain.TierPremium.Permissions()
	if len(premium) != 7 {
		t.Fatalf("expected 7 premium permissions, got %d", len(premium))
	}
	for _, perm := range domain.TierStandard.Permissions() {
		found := false
		for _, candidate := range premium {
			if candidate == perm {
				found = true
			}
		}
		if !found {
			t.Fatalf("premium set missing standard permission %s", perm)
		}
	}
}
