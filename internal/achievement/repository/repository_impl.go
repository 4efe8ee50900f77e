package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/naturetrail/naturetrail/internal/achievement/domain"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func New(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

func (r *repo) ListBadges(ctx context.Context) ([]*domain.Badge, error) {
	var badges []*domain.Badge
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&badges).Error; err != nil {
		return nil, err
	}
	return badges, nil
}

func (r *repo) FindBadgeByName(ctx context.Context, name string) (*domain.Badge, error) {
	var badge domain.Badge
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&badge).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrBadgeNotFound
	}
	if err != nil {
		return nil, err
	}
	return &badge, nil
}

func (r *repo) FindBadgeByID(ctx context.Context, id snowflake.ID) (*domain.Badge, error) {
	var badge domain.Badge
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&badge).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrBadgeNotFound
	}
	if err != nil {
		return nil, err
	}
	return &badge, nil
}

func (r *repo) CreateUserBadge(ctx context.Context, award *domain.UserBadge) error {
	return r.db.WithContext(ctx).Create(award).Error
}

func (r *repo) ListUserBadges(ctx context.Context, userID snowflake.ID) ([]*domain.UserBadge, error) {
	var awards []*domain.UserBadge
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("earned_at ASC").
		Find(&awards).Error
	if err != nil {
		return nil, err
	}
	return awards, nil
}
