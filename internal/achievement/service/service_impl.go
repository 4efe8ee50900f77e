package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/naturetrail/naturetrail/internal/achievement/domain"
	"github.com/naturetrail/naturetrail/internal/activity"
	"github.com/naturetrail/naturetrail/internal/clock"
	"github.com/naturetrail/naturetrail/pkg/db"
	"go.uber.org/zap"
)

type Service struct {
	log      *zap.Logger
	repo     domain.Repository
	activity activity.Repository
	genID    *snowflake.Node
	clock    clock.Clock
}

func New(log *zap.Logger, repo domain.Repository, act activity.Repository, genID *snowflake.Node, clk clock.Clock) domain.Service {
	return &Service{
		log:      log.Named("achievement.service"),
		repo:     repo,
		activity: act,
		genID:    genID,
		clock:    clk,
	}
}

// EvaluateEligibility computes the activity counters once, walks the rule
// table and awards whatever is newly earned. Re-running it after every
// sighting or completion is safe: already-held badges are skipped.
func (s *Service) EvaluateEligibility(ctx context.Context, userID snowflake.ID) ([]string, error) {
	counters, err := s.activity.Counters(ctx, userID)
	if err != nil {
		return nil, storageFailure(err)
	}

	awarded := []string{}
	for _, rule := range rules {
		if !rule.Earned(counters) {
			continue
		}
		badge, err := s.repo.FindBadgeByName(ctx, rule.Badge)
		if err != nil {
			if errors.Is(err, domain.ErrBadgeNotFound) {
				s.log.Warn("badge rule without catalog entry", zap.String("badge", rule.Badge))
				continue
			}
			return nil, storageFailure(err)
		}
		fresh, err := s.AwardBadge(ctx, userID, badge.ID)
		if err != nil {
			return nil, err
		}
		if fresh {
			awarded = append(awarded, badge.Name)
		}
	}
	return awarded, nil
}

func (s *Service) AwardBadge(ctx context.Context, userID, badgeID snowflake.ID) (bool, error) {
	award := &domain.UserBadge{
		ID:       s.genID.Generate(),
		UserID:   userID,
		BadgeID:  badgeID,
		EarnedAt: s.clock.Now(),
	}
	if err := s.repo.CreateUserBadge(ctx, award); err != nil {
		// A concurrent award of the same pair loses the race on the
		// unique index; that is not an error.
		if db.IsDuplicateKeyErr(err) {
			return false, nil
		}
		return false, storageFailure(err)
	}

	s.log.Info("badge awarded",
		zap.String("user_id", userID.String()),
		zap.String("badge_id", badgeID.String()),
	)
	return true, nil
}

func (s *Service) ListBadges(ctx context.Context) ([]*domain.Badge, error) {
	badges, err := s.repo.ListBadges(ctx)
	if err != nil {
		return nil, storageFailure(err)
	}
	return badges, nil
}

func (s *Service) FindBadgeByName(ctx context.Context, name string) (*domain.Badge, error) {
	badge, err := s.repo.FindBadgeByName(ctx, name)
	if err != nil {
		if errors.Is(err, domain.ErrBadgeNotFound) {
			return nil, err
		}
		return nil, storageFailure(err)
	}
	return badge, nil
}

func (s *Service) UserBadges(ctx context.Context, userID snowflake.ID) ([]*domain.UserBadge, error) {
	awards, err := s.repo.ListUserBadges(ctx, userID)
	if err != nil {
		return nil, storageFailure(err)
	}
	return awards, nil
}

func storageFailure(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrStorageFailure, err)
}
