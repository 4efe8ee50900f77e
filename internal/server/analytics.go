package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) GetActivitySummary(c *gin.Context) {
	principal, ok := principalFrom(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	counters, err := s.activityRepo.Counters(c.Request.Context(), principal.UserID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	earned, err := s.achievementSvc.UserBadges(c.Request.Context(), principal.UserID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"completed_trails":       counters.CompletedTrails,
		"sightings":              counters.Sightings,
		"distinct_species":       counters.DistinctSpecies,
		"hard_trail_completions": counters.HardTrailCompletions,
		"badges_earned":          len(earned),
	})
}
