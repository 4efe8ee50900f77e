package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/naturetrail/naturetrail/pkg/db/pagination"
)

type Repository interface {
	Create(ctx context.Context, sighting *Sighting) error
	ListByUser(ctx context.Context, userID snowflake.ID, page pagination.Pagination) ([]*Sighting, *pagination.PageInfo, error)
}
