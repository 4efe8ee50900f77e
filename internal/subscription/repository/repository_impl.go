package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/naturetrail/naturetrail/internal/subscription/domain"
	"gorm.io/gorm"
)

type repo struct{}

func New() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, tx *gorm.DB, subscription *domain.Subscription) error {
	return tx.WithContext(ctx).Create(subscription).Error
}

func (r *repo) FindByID(ctx context.Context, tx *gorm.DB, id snowflake.ID) (*domain.Subscription, error) {
	var subscription domain.Subscription
	err := tx.WithContext(ctx).Where("id = ?", id).First(&subscription).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrSubscriptionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &subscription, nil
}

func (r *repo) FindLatestByUser(ctx context.Context, tx *gorm.DB, userID snowflake.ID) (*domain.Subscription, error) {
	var subscription domain.Subscription
	err := tx.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("start_at DESC, id DESC").
		First(&subscription).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrSubscriptionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &subscription, nil
}

func (r *repo) CancelActiveByUser(ctx context.Context, tx *gorm.DB, userID snowflake.ID, now time.Time) error {
	return tx.WithContext(ctx).Exec(
		`UPDATE subscriptions
		 SET status = ?, updated_at = ?
		 WHERE user_id = ? AND status = ?`,
		domain.SubscriptionStatusCancelled,
		now,
		userID,
		domain.SubscriptionStatusActive,
	).Error
}

func (r *repo) UpdateLifecycle(ctx context.Context, tx *gorm.DB, subscription *domain.Subscription) error {
	return tx.WithContext(ctx).Exec(
		`UPDATE subscriptions
		 SET status = ?, end_at = ?, updated_at = ?
		 WHERE id = ?`,
		subscription.Status,
		subscription.EndAt,
		subscription.UpdatedAt,
		subscription.ID,
	).Error
}

func (r *repo) StatusView(ctx context.Context, tx *gorm.DB, id snowflake.ID) (*domain.StatusView, error) {
	var view domain.StatusView
	result := tx.WithContext(ctx).Raw(
		`SELECT s.id AS subscription_id, u.username, s.plan_type, s.status, s.start_at, s.end_at
		 FROM subscriptions s
		 JOIN users u ON u.id = s.user_id
		 WHERE s.id = ?`,
		id,
	).Scan(&view)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, domain.ErrSubscriptionNotFound
	}
	return &view, nil
}
