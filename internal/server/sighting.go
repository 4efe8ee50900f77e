package server

import (
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	sightingdomain "github.com/naturetrail/naturetrail/internal/sighting/domain"
)

type LogSightingRequest struct {
	TrailID     string     `json:"trail_id"`
	Species     string     `json:"species"`
	Quantity    int        `json:"quantity"`
	Latitude    *float64   `json:"latitude"`
	Longitude   *float64   `json:"longitude"`
	SightedAt   *time.Time `json:"sighted_at"`
	Description string     `json:"description"`
}

func (s *Server) LogSighting(c *gin.Context) {
	principal, ok := principalFrom(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req LogSightingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	trailID, err := snowflake.ParseString(req.TrailID)
	if err != nil || trailID == 0 {
		AbortWithError(c, newValidationError("trail_id", "required", "valid trail id is required"))
		return
	}

	log := sightingdomain.LogRequest{
		UserID:      principal.UserID,
		TrailID:     trailID,
		Species:     req.Species,
		Quantity:    req.Quantity,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Description: req.Description,
	}
	if req.SightedAt != nil {
		log.SightedAt = *req.SightedAt
	}

	logged, err := s.sightingSvc.Log(c.Request.Context(), log)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	awarded := s.evaluateBadges(c, principal.UserID)

	c.JSON(http.StatusCreated, gin.H{
		"sighting":      logged,
		"newly_awarded": awarded,
	})
}

func (s *Server) ListMySightings(c *gin.Context) {
	principal, ok := principalFrom(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	page, err := parsePagination(c)
	if err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	sightings, pageInfo, err := s.sightingSvc.ListByUser(c.Request.Context(), principal.UserID, page)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sightings": sightings,
		"page_info": pageInfo,
	})
}
