package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/naturetrail/naturetrail/internal/clock"
	"github.com/naturetrail/naturetrail/internal/identity/domain"
	"github.com/naturetrail/naturetrail/internal/identity/password"
	"github.com/naturetrail/naturetrail/pkg/db"
	"go.uber.org/zap"
)

const minPasswordLength = 6

type Service struct {
	log   *zap.Logger
	repo  domain.Repository
	genID *snowflake.Node
	clock clock.Clock
}

func New(log *zap.Logger, repo domain.Repository, genID *snowflake.Node, clk clock.Clock) domain.Service {
	return &Service{
		log:   log.Named("identity.service"),
		repo:  repo,
		genID: genID,
		clock: clk,
	}
}

func (s *Service) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, domain.ErrInvalidIdentity
	}
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, domain.ErrInvalidIdentity
	}
	if len(strings.TrimSpace(req.Password)) < minPasswordLength {
		return nil, domain.ErrInvalidIdentity
	}
	tier := req.Tier
	if tier == "" {
		tier = domain.TierStandard
	}
	if !tier.Valid() {
		return nil, domain.ErrInvalidIdentity
	}

	if _, err := s.repo.FindByUsername(ctx, username); err == nil {
		return nil, domain.ErrDuplicateIdentity
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, storageFailure(err)
	}
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrDuplicateIdentity
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, storageFailure(err)
	}

	hash, salt, err := password.HashNew(req.Password)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	user := &domain.User{
		ID:           s.genID.Generate(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		PasswordSalt: salt,
		Tier:         tier,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		// The pre-checks race with concurrent registrations; the unique
		// indexes are the source of truth.
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrDuplicateIdentity
		}
		return nil, storageFailure(err)
	}

	s.log.Info("user registered",
		zap.String("user_id", user.ID.String()),
		zap.String("tier", string(user.Tier)),
	)
	return user, nil
}

func (s *Service) Authenticate(ctx context.Context, username, pass string) (*domain.Principal, error) {
	username = strings.TrimSpace(username)
	if username == "" || pass == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, storageFailure(err)
	}

	if !password.Verify(pass, user.PasswordSalt, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	now := s.clock.Now()
	if err := s.repo.UpdateFields(ctx, user.ID, map[string]any{
		"last_login_at": now,
		"updated_at":    now,
	}); err != nil {
		return nil, storageFailure(err)
	}

	return domain.NewPrincipal(user), nil
}

func (s *Service) GetUser(ctx context.Context, id snowflake.ID) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, storageFailure(err)
	}
	return user, nil
}

func normalizeEmail(raw string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	return strings.ToLower(strings.TrimSpace(addr.Address)), nil
}

func storageFailure(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrStorageFailure, err)
}
