package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/naturetrail/naturetrail/internal/clock"
	"github.com/naturetrail/naturetrail/internal/trail/domain"
	"github.com/naturetrail/naturetrail/pkg/db/pagination"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type Service struct {
	log   *zap.Logger
	repo  domain.Repository
	genID *snowflake.Node
	clock clock.Clock
}

func New(log *zap.Logger, repo domain.Repository, genID *snowflake.Node, clk clock.Clock) domain.Service {
	return &Service{
		log:   log.Named("trail.service"),
		repo:  repo,
		genID: genID,
		clock: clk,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Trail, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || !req.Difficulty.Valid() {
		return nil, domain.ErrInvalidTrail
	}
	if req.LengthMiles < 0 || req.ElevationGain < 0 {
		return nil, domain.ErrInvalidTrail
	}

	now := s.clock.Now()
	trail := &domain.Trail{
		ID:            s.genID.Generate(),
		Name:          name,
		Location:      strings.TrimSpace(req.Location),
		Difficulty:    req.Difficulty,
		LengthMiles:   req.LengthMiles,
		ElevationGain: req.ElevationGain,
		Description:   req.Description,
		Features:      datatypes.NewJSONSlice(req.Features),
		CreatedBy:     req.CreatedBy,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Create(ctx, trail); err != nil {
		return nil, storageFailure(err)
	}
	return trail, nil
}

func (s *Service) Get(ctx context.Context, id snowflake.ID) (*domain.Trail, error) {
	trail, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrTrailNotFound) {
			return nil, err
		}
		return nil, storageFailure(err)
	}
	return trail, nil
}

func (s *Service) List(ctx context.Context, filter domain.Filter, page pagination.Pagination) ([]*domain.Trail, *pagination.PageInfo, error) {
	trails, pageInfo, err := s.repo.List(ctx, filter, page)
	if err != nil {
		return nil, nil, storageFailure(err)
	}
	return trails, pageInfo, nil
}

func (s *Service) Update(ctx context.Context, id snowflake.ID, req domain.UpdateRequest) (*domain.Trail, error) {
	fields := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidTrail
		}
		fields["name"] = name
	}
	if req.Location != nil {
		fields["location"] = strings.TrimSpace(*req.Location)
	}
	if req.Difficulty != nil {
		if !req.Difficulty.Valid() {
			return nil, domain.ErrInvalidTrail
		}
		fields["difficulty"] = *req.Difficulty
	}
	if req.LengthMiles != nil {
		if *req.LengthMiles < 0 {
			return nil, domain.ErrInvalidTrail
		}
		fields["length_miles"] = *req.LengthMiles
	}
	if req.ElevationGain != nil {
		if *req.ElevationGain < 0 {
			return nil, domain.ErrInvalidTrail
		}
		fields["elevation_gain"] = *req.ElevationGain
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Features != nil {
		fields["features"] = datatypes.NewJSONSlice(req.Features)
	}
	if len(fields) == 0 {
		return s.Get(ctx, id)
	}
	fields["updated_at"] = s.clock.Now()

	if err := s.repo.UpdateFields(ctx, id, fields); err != nil {
		if errors.Is(err, domain.ErrTrailNotFound) {
			return nil, err
		}
		return nil, storageFailure(err)
	}
	return s.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id snowflake.ID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrTrailNotFound) {
			return err
		}
		return storageFailure(err)
	}
	return nil
}

func (s *Service) RecordCompletion(ctx context.Context, req domain.CompletionRequest) (*domain.Completion, error) {
	if _, err := s.Get(ctx, req.TrailID); err != nil {
		return nil, err
	}
	if req.Rating < 0 || req.Rating > 5 || req.DurationMinutes < 0 {
		return nil, domain.ErrInvalidTrail
	}

	completedAt := req.CompletedAt
	if completedAt.IsZero() {
		completedAt = s.clock.Now()
	}
	completion := &domain.Completion{
		ID:              s.genID.Generate(),
		UserID:          req.UserID,
		TrailID:         req.TrailID,
		CompletedAt:     completedAt,
		DurationMinutes: req.DurationMinutes,
		Rating:          req.Rating,
		Notes:           req.Notes,
	}
	if err := s.repo.CreateCompletion(ctx, completion); err != nil {
		return nil, storageFailure(err)
	}
	return completion, nil
}

func (s *Service) CompletionsByUser(ctx context.Context, userID snowflake.ID) ([]*domain.Completion, error) {
	completions, err := s.repo.ListCompletionsByUser(ctx, userID)
	if err != nil {
		return nil, storageFailure(err)
	}
	return completions, nil
}

func storageFailure(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrStorageFailure, err)
}
