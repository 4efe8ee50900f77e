package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	ListBadges(ctx context.Context) ([]*Badge, error)
	FindBadgeByName(ctx context.Context, name string) (*Badge, error)
	FindBadgeByID(ctx context.Context, id snowflake.ID) (*Badge, error)
	CreateUserBadge(ctx context.Context, award *UserBadge) error
	ListUserBadges(ctx context.Context, userID snowflake.ID) ([]*UserBadge, error)
}
