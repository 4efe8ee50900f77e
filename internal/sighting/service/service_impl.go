package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/naturetrail/naturetrail/internal/clock"
	"github.com/naturetrail/naturetrail/internal/sighting/domain"
	traildomain "github.com/naturetrail/naturetrail/internal/trail/domain"
	"github.com/naturetrail/naturetrail/pkg/db/pagination"
	"go.uber.org/zap"
)

type Service struct {
	log    *zap.Logger
	repo   domain.Repository
	trails traildomain.Service
	genID  *snowflake.Node
	clock  clock.Clock
}

func New(log *zap.Logger, repo domain.Repository, trails traildomain.Service, genID *snowflake.Node, clk clock.Clock) domain.Service {
	return &Service{
		log:    log.Named("sighting.service"),
		repo:   repo,
		trails: trails,
		genID:  genID,
		clock:  clk,
	}
}

func (s *Service) Log(ctx context.Context, req domain.LogRequest) (*domain.Sighting, error) {
	species := strings.TrimSpace(req.Species)
	if species == "" {
		return nil, domain.ErrInvalidSighting
	}
	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 1 {
		return nil, domain.ErrInvalidSighting
	}
	if req.Latitude != nil && (*req.Latitude < -90 || *req.Latitude > 90) {
		return nil, domain.ErrInvalidSighting
	}
	if req.Longitude != nil && (*req.Longitude < -180 || *req.Longitude > 180) {
		return nil, domain.ErrInvalidSighting
	}

	if _, err := s.trails.Get(ctx, req.TrailID); err != nil {
		return nil, err
	}

	sightedAt := req.SightedAt
	if sightedAt.IsZero() {
		sightedAt = s.clock.Now()
	}
	sighting := &domain.Sighting{
		ID:          s.genID.Generate(),
		UserID:      req.UserID,
		TrailID:     req.TrailID,
		Species:     species,
		Quantity:    quantity,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		SightedAt:   sightedAt,
		Description: req.Description,
	}
	if err := s.repo.Create(ctx, sighting); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageFailure, err)
	}
	return sighting, nil
}

func (s *Service) ListByUser(ctx context.Context, userID snowflake.ID, page pagination.Pagination) ([]*domain.Sighting, *pagination.PageInfo, error) {
	sightings, pageInfo, err := s.repo.ListByUser(ctx, userID, page)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", domain.ErrStorageFailure, err)
	}
	return sightings, pageInfo, nil
}
