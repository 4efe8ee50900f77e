// Package domain contains core types for wildlife sightings.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Sighting records an observation of a species on a trail.
type Sighting struct {
	ID          snowflake.ID `gorm:"primaryKey"`
	UserID      snowflake.ID `gorm:"column:user_id;not null;index"`
	TrailID     snowflake.ID `gorm:"column:trail_id;not null;index"`
	Species     string       `gorm:"type:text;not null"`
	Quantity    int          `gorm:"not null;default:1"`
	Latitude    *float64     `gorm:"column:latitude"`
	Longitude   *float64     `gorm:"column:longitude"`
	SightedAt   time.Time    `gorm:"column:sighted_at;not null"`
	Description string       `gorm:"type:text"`
	Verified    bool         `gorm:"not null;default:false"`
}

// TableName sets the database table name.
func (Sighting) TableName() string { return "sightings" }
