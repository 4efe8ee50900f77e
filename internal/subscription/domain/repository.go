package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Repository methods take the transaction handle so the service can group
// the subscription write and the tier write atomically.
type Repository interface {
	Insert(ctx context.Context, tx *gorm.DB, subscription *Subscription) error
	FindByID(ctx context.Context, tx *gorm.DB, id snowflake.ID) (*Subscription, error)
	FindLatestByUser(ctx context.Context, tx *gorm.DB, userID snowflake.ID) (*Subscription, error)
	CancelActiveByUser(ctx context.Context, tx *gorm.DB, userID snowflake.ID, now time.Time) error
	UpdateLifecycle(ctx context.Context, tx *gorm.DB, subscription *Subscription) error
	StatusView(ctx context.Context, tx *gorm.DB, id snowflake.ID) (*StatusView, error)
}
