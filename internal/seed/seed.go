// Package seed bootstraps the badge catalog and a starter trail set.
package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	achievementdomain "github.com/naturetrail/naturetrail/internal/achievement/domain"
	achievementservice "github.com/naturetrail/naturetrail/internal/achievement/service"
	traildomain "github.com/naturetrail/naturetrail/internal/trail/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Run seeds the badge catalog and sample trails. Every insert is
// ensure-style so restarts are safe.
func Run(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureBadges(ctx, tx, node); err != nil {
			return err
		}
		return ensureTrails(ctx, tx, node)
	})
}

func ensureBadges(ctx context.Context, tx *gorm.DB, node *snowflake.Node) error {
	badges := []achievementdomain.Badge{
		{
			Name:        achievementservice.BadgeTrailPioneer,
			Description: "Complete your first trail",
			Category:    "exploration",
		},
		{
			Name:        achievementservice.BadgeWildlifeSpotter,
			Description: "Log sightings of five different species",
			Category:    "wildlife",
		},
		{
			Name:        achievementservice.BadgeMountainGoat,
			Description: "Complete a hard trail with over 1000 feet of elevation gain",
			Category:    "endurance",
		},
	}

	for _, badge := range badges {
		var existing achievementdomain.Badge
		err := tx.WithContext(ctx).Where("name = ?", badge.Name).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		badge.ID = node.Generate()
		if err := tx.WithContext(ctx).Create(&badge).Error; err != nil {
			return err
		}
	}
	return nil
}

func ensureTrails(ctx context.Context, tx *gorm.DB, node *snowflake.Node) error {
	trails := []traildomain.Trail{
		{
			Name:          "Eagle Peak Loop",
			Location:      "Cascade Range",
			Difficulty:    traildomain.DifficultyHard,
			LengthMiles:   8.4,
			ElevationGain: 2200,
			Description:   "Steep switchbacks to a summit ridge with views over the valley.",
			Features:      datatypes.NewJSONSlice([]string{"summit", "wildflowers", "exposed ridge"}),
		},
		{
			Name:          "Riverside Meander",
			Location:      "Willow Creek",
			Difficulty:    traildomain.DifficultyEasy,
			LengthMiles:   2.1,
			ElevationGain: 80,
			Description:   "Flat gravel path following the creek, good for birding.",
			Features:      datatypes.NewJSONSlice([]string{"river", "birding", "accessible"}),
		},
		{
			Name:          "Fern Canyon Traverse",
			Location:      "Redwood Flats",
			Difficulty:    traildomain.DifficultyModerate,
			LengthMiles:   5.6,
			ElevationGain: 650,
			Description:   "Shaded canyon walk through old growth with two creek crossings.",
			Features:      datatypes.NewJSONSlice([]string{"old growth", "creek crossings", "shade"}),
		},
	}

	now := time.Now().UTC()
	for _, trail := range trails {
		var existing traildomain.Trail
		err := tx.WithContext(ctx).Where("name = ?", trail.Name).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		trail.ID = node.Generate()
		trail.CreatedAt = now
		trail.UpdatedAt = now
		if err := tx.WithContext(ctx).Create(&trail).Error; err != nil {
			return err
		}
	}
	return nil
}
