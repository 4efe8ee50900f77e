package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/naturetrail/naturetrail/internal/clock"
	"github.com/naturetrail/naturetrail/internal/sighting/domain"
	"github.com/naturetrail/naturetrail/internal/sighting/repository"
	traildomain "github.com/naturetrail/naturetrail/internal/trail/domain"
	trailrepository "github.com/naturetrail/naturetrail/internal/trail/repository"
	trailservice "github.com/naturetrail/naturetrail/internal/trail/service"
	"github.com/naturetrail/naturetrail/pkg/db"
	"github.com/naturetrail/naturetrail/pkg/db/pagination"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) (domain.Service, *traildomain.Trail) {
	t.Helper()

	dbConn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := dbConn.AutoMigrate(&domain.Sighting{}, &traildomain.Trail{}, &traildomain.Completion{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}
	clk := clock.NewFakeClock(time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC))

	trails := trailservice.New(zap.NewNop(), trailrepository.New(dbConn), node, clk)
	trail, err := trails.Create(context.Background(), traildomain.CreateRequest{
		Name:       "River Walk",
		Difficulty: traildomain.DifficultyEasy,
	})
	if err != nil {
		t.Fatalf("failed to create trail: %v", err)
	}

	return New(zap.NewNop(), repository.New(dbConn), trails, node, clk), trail
}

func TestLogRejectsEmptySpecies(t *testing.T) {
	svc, trail := newTestService(t)

	_, err := svc.Log(context.Background(), domain.LogRequest{
		UserID:  snowflake.ID(1),
		TrailID: trail.ID,
		Species: "  ",
	})
	if !errors.Is(err, domain.ErrInvalidSighting) {
		t.Fatalf("expected ErrInvalidSighting, got %v", err)
	}
}

func TestLogRequiresExistingTrail(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Log(context.Background(), domain.LogRequest{
		UserID:  snowflake.ID(1),
		TrailID: snowflake.ID(99999),
		Species: "Osprey",
	})
	if !errors.Is(err, traildomain.ErrTrailNotFound) {
		t.Fatalf("expected ErrTrailNotFound, got %v", err)
	}
}

func TestLogDefaultsQuantityAndTimestamp(t *testing.T) {
	svc, trail := newTestService(t)

	sighting, err := svc.Log(context.Background(), domain.LogRequest{
		UserID:  snowflake.ID(1),
		TrailID: trail.ID,
		Species: "Osprey",
	})
	if err != nil {
		t.Fatalf("failed to log sighting: %v", err)
	}
	if sighting.Quantity != 1 {
		t.Fatalf("expected quantity 1, got %d", sighting.Quantity)
	}
	if sighting.SightedAt.IsZero() {
		t.Fatal("expected sighted_at to be set")
	}
}

func TestListByUserOnlyReturnsOwnSightings(t *testing.T) {
	svc, trail := newTestService(t)

	for _, user := range []snowflake.ID{1, 1, 2} {
		_, err := svc.Log(context.Background(), domain.LogRequest{
			UserID:  user,
			TrailID: trail.ID,
			Species: "Black Bear",
		})
		if err != nil {
			t.Fatalf("failed to log sighting: %v", err)
		}
	}

	sightings, _, err := svc.ListByUser(context.Background(), snowflake.ID(1), pagination.Pagination{PageSize: 10})
	if err != nil {
		t.Fatalf("failed to list sightings: %v", err)
	}
	if len(sightings) != 2 {
		t.Fatalf("expected 2 sightings for user 1, got %d", len(sightings))
	}
}
