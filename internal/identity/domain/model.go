// Package domain contains core types for the identity service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// User represents a registered explorer account.
type User struct {
	ID           snowflake.ID `gorm:"primaryKey"`
	Username     string       `gorm:"type:text;not null;uniqueIndex"`
	Email        string       `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string       `gorm:"column:password_hash;type:text;not null"`
	PasswordSalt string       `gorm:"column:password_salt;type:text;not null"`
	Tier         Tier         `gorm:"type:text;not null;default:standard"`
	LastLoginAt  *time.Time   `gorm:"column:last_login_at"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (User) TableName() string { return "users" }

// Principal is the authenticated identity attached to a request. It is a
// snapshot taken at login and is never persisted; the permission set
// reflects the tier at authentication time.
type Principal struct {
	UserID      snowflake.ID
	Username    string
	Tier        Tier
	Permissions []Permission
}

// NewPrincipal derives a Principal from a stored user.
func NewPrincipal(user *User) *Principal {
	return &Principal{
		UserID:      user.ID,
		Username:    user.Username,
		Tier:        user.Tier,
		Permissions: user.Tier.Permissions(),
	}
}

// Can reports whether the principal holds the permission.
func (p *Principal) Can(perm Permission) bool {
	if p == nil {
		return false
	}
	for _, candidate := range p.Permissions {
		if candidate == perm {
			return true
		}
	}
	return false
}
