// Package activity aggregates per-user exploration counters from the
// trail completion and sighting tables. It is read-only; badge rules
// consume the counters.
package activity

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Counters summarizes a user's recorded activity.
type Counters struct {
	CompletedTrails      int64
	Sightings            int64
	DistinctSpecies      int64
	HardTrailCompletions int64
}

type Repository interface {
	Counters(ctx context.Context, userID snowflake.ID) (Counters, error)
	CountCompletedTrails(ctx context.Context, userID snowflake.ID) (int64, error)
	CountSightings(ctx context.Context, userID snowflake.ID) (int64, error)
	CountDistinctSpecies(ctx context.Context, userID snowflake.ID) (int64, error)
	CountHardTrailCompletions(ctx context.Context, userID snowflake.ID) (int64, error)
}

type repo struct {
	db *gorm.DB
}

func New(db *gorm.DB) Repository {
	return &repo{db: db}
}

func (r *repo) Counters(ctx context.Context, userID snowflake.ID) (Counters, error) {
	var counters Counters
	var err error

	if counters.CompletedTrails, err = r.CountCompletedTrails(ctx, userID); err != nil {
		return Counters{}, err
	}
	if counters.Sightings, err = r.CountSightings(ctx, userID); err != nil {
		return Counters{}, err
	}
	if counters.DistinctSpecies, err = r.CountDistinctSpecies(ctx, userID); err != nil {
		return Counters{}, err
	}
	if counters.HardTrailCompletions, err = r.CountHardTrailCompletions(ctx, userID); err != nil {
		return Counters{}, err
	}
	return counters, nil
}

func (r *repo) CountCompletedTrails(ctx context.Context, userID snowflake.ID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Raw(
		`SELECT COUNT(1) FROM trail_completions WHERE user_id = ?`,
		userID,
	).Scan(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repo) CountSightings(ctx context.Context, userID snowflake.ID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Raw(
		`SELECT COUNT(1) FROM sightings WHERE user_id = ?`,
		userID,
	).Scan(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repo) CountDistinctSpecies(ctx context.Context, userID snowflake.ID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Raw(
		`SELECT COUNT(DISTINCT species) FROM sightings WHERE user_id = ?`,
		userID,
	).Scan(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repo) CountHardTrailCompletions(ctx context.Context, userID snowflake.ID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Raw(
		`SELECT COUNT(1)
		 FROM trail_completions tc
		 JOIN trails t ON t.id = tc.trail_id
		 WHERE tc.user_id = ? AND t.difficulty = ? AND t.elevation_gain > ?`,
		userID,
		"Hard",
		1000,
	).Scan(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
