package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/naturetrail/naturetrail/internal/achievement/domain"
	"github.com/naturetrail/naturetrail/internal/achievement/repository"
	"github.com/naturetrail/naturetrail/internal/activity"
	"github.com/naturetrail/naturetrail/internal/clock"
	sightingdomain "github.com/naturetrail/naturetrail/internal/sighting/domain"
	traildomain "github.com/naturetrail/naturetrail/internal/trail/domain"
	"github.com/naturetrail/naturetrail/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	svc    domain.Service
	db     *gorm.DB
	node   *snowflake.Node
	clk    *clock.FakeClock
	badges map[string]*domain.Badge
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dbConn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, dbConn.AutoMigrate(
		&domain.Badge{},
		&domain.UserBadge{},
		&traildomain.Trail{},
		&traildomain.Completion{},
		&sightingdomain.Sighting{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	clk := clock.NewFakeClock(time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC))

	badges := map[string]*domain.Badge{}
	for name, category := range map[string]string{
		BadgeTrailPioneer:    "exploration",
		BadgeWildlifeSpotter: "wildlife",
		BadgeMountainGoat:    "endurance",
	} {
		badge := &domain.Badge{ID: node.Generate(), Name: name, Category: category}
		require.NoError(t, dbConn.Create(badge).Error)
		badges[name] = badge
	}

	svc := New(zap.NewNop(), repository.New(dbConn), activity.New(dbConn), node, clk)
	return &fixture{svc: svc, db: dbConn, node: node, clk: clk, badges: badges}
}

func (f *fixture) addTrail(t *testing.T, difficulty traildomain.Difficulty, gain int) *traildomain.Trail {
	t.Helper()
	trail := &traildomain.Trail{
		ID:            f.node.Generate(),
		Name:          fmt.Sprintf("trail-%d", f.node.Generate()),
		Difficulty:    difficulty,
		ElevationGain: gain,
	}
	require.NoError(t, f.db.Create(trail).Error)
	return trail
}

func (f *fixture) addCompletion(t *testing.T, userID snowflake.ID, trail *traildomain.Trail) {
	t.Helper()
	require.NoError(t, f.db.Create(&traildomain.Completion{
		ID:          f.node.Generate(),
		UserID:      userID,
		TrailID:     trail.ID,
		CompletedAt: f.clk.Now(),
	}).Error)
}

func (f *fixture) addSighting(t *testing.T, userID snowflake.ID, trail *traildomain.Trail, species string) {
	t.Helper()
	require.NoError(t, f.db.Create(&sightingdomain.Sighting{
		ID:        f.node.Generate(),
		UserID:    userID,
		TrailID:   trail.ID,
		Species:   species,
		Quantity:  1,
		SightedAt: f.clk.Now(),
	}).Error)
}

func TestAwardBadgeIdempotent(t *testing.T) {
	f := newFixture(t)
	userID := f.node.Generate()
	badge := f.badges[BadgeTrailPioneer]

	first, err := f.svc.AwardBadge(context.Background(), userID, badge.ID)
	require.NoError(t, err)
	assert.True(t, first)

	second, err := f.svc.AwardBadge(context.Background(), userID, badge.ID)
	require.NoError(t, err)
	assert.False(t, second)

	var count int64
	require.NoError(t, f.db.Model(&domain.UserBadge{}).
		Where("user_id = ? AND badge_id = ?", userID, badge.ID).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestEvaluateWildlifeSpotterOnly(t *testing.T) {
	f := newFixture(t)
	userID := f.node.Generate()
	trail := f.addTrail(t, traildomain.DifficultyEasy, 100)

	// Six distinct species, zero completions, zero hard trails.
	for _, species := range []string{"Osprey", "Elk", "Marmot", "Pika", "Black Bear", "Newt"} {
		f.addSighting(t, userID, trail, species)
	}

	awarded, err := f.svc.EvaluateEligibility(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, []string{BadgeWildlifeSpotter}, awarded)
}

func TestEvaluateMountainGoatNeedsHardAndGain(t *testing.T) {
	f := newFixture(t)
	userID := f.node.Generate()

	lowHard := f.addTrail(t, traildomain.DifficultyHard, 800)
	f.addCompletion(t, userID, lowHard)

	awarded, err := f.svc.EvaluateEligibility(context.Background(), userID)
	require.NoError(t, err)
	// The completion earns Trail Pioneer, but 800 ft of gain is not enough
	// for Mountain Goat.
	assert.Equal(t, []string{BadgeTrailPioneer}, awarded)

	steepHard := f.addTrail(t, traildomain.DifficultyHard, 1500)
	f.addCompletion(t, userID, steepHard)

	awarded, err = f.svc.EvaluateEligibility(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, []string{BadgeMountainGoat}, awarded)
}

func TestEvaluateRerunAwardsNothingNew(t *testing.T) {
	f := newFixture(t)
	userID := f.node.Generate()
	trail := f.addTrail(t, traildomain.DifficultyModerate, 500)
	f.addCompletion(t, userID, trail)

	first, err := f.svc.EvaluateEligibility(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, []string{BadgeTrailPioneer}, first)

	second, err := f.svc.EvaluateEligibility(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, second)

	badges, err := f.svc.UserBadges(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, badges, 1)
}
