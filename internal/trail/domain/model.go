// Package domain contains core types for the trail catalog.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Difficulty grades a trail.
type Difficulty string

const (
	DifficultyEasy     Difficulty = "Easy"
	DifficultyModerate Difficulty = "Moderate"
	DifficultyHard     Difficulty = "Hard"
)

// Valid reports whether the difficulty is a known grade.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyModerate, DifficultyHard:
		return true
	default:
		return false
	}
}

// Trail is a catalog entry explorers can complete.
type Trail struct {
	ID            snowflake.ID                `gorm:"primaryKey"`
	Name          string                      `gorm:"type:text;not null"`
	Location      string                      `gorm:"type:text"`
	Difficulty    Difficulty                  `gorm:"type:text;not null"`
	LengthMiles   float64                     `gorm:"column:length_miles"`
	ElevationGain int                         `gorm:"column:elevation_gain"`
	Description   string                      `gorm:"type:text"`
	Features      datatypes.JSONSlice[string] `gorm:"column:features"`
	CreatedBy     snowflake.ID                `gorm:"column:created_by;index"`
	CreatedAt     time.Time                   `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt     time.Time                   `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Trail) TableName() string { return "trails" }

// Completion records that a user finished a trail.
type Completion struct {
	ID              snowflake.ID `gorm:"primaryKey"`
	UserID          snowflake.ID `gorm:"column:user_id;not null;index"`
	TrailID         snowflake.ID `gorm:"column:trail_id;not null;index"`
	CompletedAt     time.Time    `gorm:"column:completed_at;not null"`
	DurationMinutes int          `gorm:"column:duration_minutes"`
	Rating          int          `gorm:"column:rating"`
	Notes           string       `gorm:"type:text"`
}

// TableName sets the database table name.
func (Completion) TableName() string { return "trail_completions" }

// Filter narrows trail listings.
type Filter struct {
	Difficulty Difficulty
	Location   string
	MinLength  float64
	MaxLength  float64
}
