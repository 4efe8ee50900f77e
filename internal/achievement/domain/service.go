package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	// EvaluateEligibility awards every badge the user's activity newly
	// qualifies for and returns the names awarded by this call.
	EvaluateEligibility(ctx context.Context, userID snowflake.ID) ([]string, error)
	// AwardBadge grants a badge once. It returns false without error when
	// the user already holds it.
	AwardBadge(ctx context.Context, userID, badgeID snowflake.ID) (bool, error)
	ListBadges(ctx context.Context) ([]*Badge, error)
	FindBadgeByName(ctx context.Context, name string) (*Badge, error)
	UserBadges(ctx context.Context, userID snowflake.ID) ([]*UserBadge, error)
}
