package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/naturetrail/naturetrail/internal/trail/domain"
	"github.com/naturetrail/naturetrail/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func New(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

func (r *repo) Create(ctx context.Context, trail *domain.Trail) error {
	return r.db.WithContext(ctx).Create(trail).Error
}

func (r *repo) FindByID(ctx context.Context, id snowflake.ID) (*domain.Trail, error) {
	var trail domain.Trail
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&trail).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrTrailNotFound
	}
	if err != nil {
		return nil, err
	}
	return &trail, nil
}

func (r *repo) List(ctx context.Context, filter domain.Filter, page pagination.Pagination) ([]*domain.Trail, *pagination.PageInfo, error) {
	query := r.db.WithContext(ctx).Model(&domain.Trail{})
	if filter.Difficulty != "" {
		query = query.Where("difficulty = ?", filter.Difficulty)
	}
	if filter.Location != "" {
		query = query.Where("location LIKE ?", "%"+filter.Location+"%")
	}
	if filter.MinLength > 0 {
		query = query.Where("length_miles >= ?", filter.MinLength)
	}
	if filter.MaxLength > 0 {
		query = query.Where("length_miles <= ?", filter.MaxLength)
	}

	limit := page.PageSize
	if limit <= 0 {
		limit = 25
	}
	if page.PageToken != "" {
		cursor, err := pagination.DecodeCursor(page.PageToken)
		if err != nil {
			return nil, nil, err
		}
		if cursor.ID != "" {
			after, err := snowflake.ParseString(cursor.ID)
			if err != nil {
				return nil, nil, err
			}
			query = query.Where("id > ?", after)
		}
	}

	var trails []*domain.Trail
	if err := query.Order("id ASC").Limit(limit + 1).Find(&trails).Error; err != nil {
		return nil, nil, err
	}

	pageInfo := pagination.BuildCursorPageInfo(trails, limit, func(t *domain.Trail) string {
		token, _ := pagination.EncodeCursor(pagination.Cursor{ID: t.ID.String()})
		return token
	})
	if len(trails) > limit {
		trails = trails[:limit]
	}
	return trails, pageInfo, nil
}

func (r *repo) UpdateFields(ctx context.Context, id snowflake.ID, fields map[string]any) error {
	tx := r.db.WithContext(ctx).Model(&domain.Trail{}).Where("id = ?", id).Updates(fields)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrTrailNotFound
	}
	return nil
}

func (r *repo) Delete(ctx context.Context, id snowflake.ID) error {
	tx := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Trail{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrTrailNotFound
	}
	return nil
}

func (r *repo) CreateCompletion(ctx context.Context, completion *domain.Completion) error {
	return r.db.WithContext(ctx).Create(completion).Error
}

func (r *repo) ListCompletionsByUser(ctx context.Context, userID snowflake.ID) ([]*domain.Completion, error) {
	var completions []*domain.Completion
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("completed_at DESC").
		Find(&completions).Error
	if err != nil {
		return nil, err
	}
	return completions, nil
}
