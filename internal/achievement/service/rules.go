package service

import (
	"github.com/naturetrail/naturetrail/internal/achievement/domain"
	"github.com/naturetrail/naturetrail/internal/activity"
)

// Badge names must match the seeded catalog.
const (
	BadgeTrailPioneer    = "Trail Pioneer"
	BadgeWildlifeSpotter = "Wildlife Spotter"
	BadgeMountainGoat    = "Mountain Goat"
)

var rules = []domain.Rule{
	{
		Badge: BadgeTrailPioneer,
		Earned: func(c activity.Counters) bool {
			return c.CompletedTrails >= 1
		},
	},
	{
		Badge: BadgeWildlifeSpotter,
		Earned: func(c activity.Counters) bool {
			return c.DistinctSpecies >= 5
		},
	},
	{
		Badge: BadgeMountainGoat,
		Earned: func(c activity.Counters) bool {
			return c.HardTrailCompletions >= 1
		},
	},
}
