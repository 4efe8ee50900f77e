package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/naturetrail/naturetrail/pkg/db/pagination"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Trail, error)
	Get(ctx context.Context, id snowflake.ID) (*Trail, error)
	List(ctx context.Context, filter Filter, page pagination.Pagination) ([]*Trail, *pagination.PageInfo, error)
	Update(ctx context.Context, id snowflake.ID, req UpdateRequest) (*Trail, error)
	Delete(ctx context.Context, id snowflake.ID) error
	RecordCompletion(ctx context.Context, req CompletionRequest) (*Completion, error)
	CompletionsByUser(ctx context.Context, userID snowflake.ID) ([]*Completion, error)
}

type CreateRequest struct {
	Name          string
	Location      string
	Difficulty    Difficulty
	LengthMiles   float64
	ElevationGain int
	Description   string
	Features      []string
	CreatedBy     snowflake.ID
}

type UpdateRequest struct {
	Name          *string
	Location      *string
	Difficulty    *Difficulty
	LengthMiles   *float64
	ElevationGain *int
	Description   *string
	Features      []string
}

type CompletionRequest struct {
	UserID          snowflake.ID
	TrailID         snowflake.ID
	CompletedAt     time.Time
	DurationMinutes int
	Rating          int
	Notes           string
}
