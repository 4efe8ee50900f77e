// Package domain contains core types for the achievement engine.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/naturetrail/naturetrail/internal/activity"
)

// Badge is an immutable catalog entry. The catalog is seeded at startup.
type Badge struct {
	ID          snowflake.ID `gorm:"primaryKey"`
	Name        string       `gorm:"type:text;not null;uniqueIndex"`
	Description string       `gorm:"type:text"`
	Category    string       `gorm:"type:text"`
}

// TableName sets the database table name.
func (Badge) TableName() string { return "badges" }

// UserBadge links a user to an earned badge. The composite unique index
// makes awards idempotent under concurrent evaluation.
type UserBadge struct {
	ID       snowflake.ID `gorm:"primaryKey"`
	UserID   snowflake.ID `gorm:"column:user_id;not null;uniqueIndex:idx_user_badge"`
	BadgeID  snowflake.ID `gorm:"column:badge_id;not null;uniqueIndex:idx_user_badge"`
	EarnedAt time.Time    `gorm:"column:earned_at;not null"`
}

// TableName sets the database table name.
func (UserBadge) TableName() string { return "user_badges" }

// Rule decides whether a user's activity earns a badge. Adding a badge
// means adding a row to the rule table.
type Rule struct {
	Badge  string
	Earned func(activity.Counters) bool
}
