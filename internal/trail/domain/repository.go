package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/naturetrail/naturetrail/pkg/db/pagination"
)

type Repository interface {
	Create(ctx context.Context, trail *Trail) error
	FindByID(ctx context.Context, id snowflake.ID) (*Trail, error)
	List(ctx context.Context, filter Filter, page pagination.Pagination) ([]*Trail, *pagination.PageInfo, error)
	UpdateFields(ctx context.Context, id snowflake.ID, fields map[string]any) error
	Delete(ctx context.Context, id snowflake.ID) error
	CreateCompletion(ctx context.Context, completion *Completion) error
	ListCompletionsByUser(ctx context.Context, userID snowflake.ID) ([]*Completion, error)
}
