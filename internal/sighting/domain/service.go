package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/naturetrail/naturetrail/pkg/db/pagination"
)

type Service interface {
	Log(ctx context.Context, req LogRequest) (*Sighting, error)
	ListByUser(ctx context.Context, userID snowflake.ID, page pagination.Pagination) ([]*Sighting, *pagination.PageInfo, error)
}

type LogRequest struct {
	UserID      snowflake.ID
	TrailID     snowflake.ID
	Species     string
	Quantity    int
	Latitude    *float64
	Longitude   *float64
	SightedAt   time.Time
	Description string
}
