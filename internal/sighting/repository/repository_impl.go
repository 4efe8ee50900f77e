package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/naturetrail/naturetrail/internal/sighting/domain"
	"github.com/naturetrail/naturetrail/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func New(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

func (r *repo) Create(ctx context.Context, sighting *domain.Sighting) error {
	return r.db.WithContext(ctx).Create(sighting).Error
}

func (r *repo) ListByUser(ctx context.Context, userID snowflake.ID, page pagination.Pagination) ([]*domain.Sighting, *pagination.PageInfo, error) {
	query := r.db.WithContext(ctx).Model(&domain.Sighting{}).Where("user_id = ?", userID)

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

	var sightings []*domain.Sighting
	if err := query.Order("id ASC").Limit(limit + 1).Find(&sightings).Error; err != nil {
		return nil, nil, err
	}

	pageInfo := pagination.BuildCursorPageInfo(sightings, limit, func(s *domain.Sighting) string {
		token, _ := pagination.EncodeCursor(pagination.Cursor{ID: s.ID.String()})
		return token
	})
	if len(sightings) > limit {
		sightings = sightings[:limit]
	}
	return sightings, pageInfo, nil
}
