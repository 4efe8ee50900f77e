package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	traildomain "github.com/naturetrail/naturetrail/internal/trail/domain"
)

type CreateTrailRequest struct {
	Name          string   `json:"name"`
	Location      string   `json:"location"`
	Difficulty    string   `json:"difficulty"`
	LengthMiles   float64  `json:"length_miles"`
	ElevationGain int      `json:"elevation_gain"`
	Description   string   `json:"description"`
	Features      []string `json:"features"`
}

type UpdateTrailRequest struct {
	Name          *string  `json:"name"`
	Location      *string  `json:"location"`
	Difficulty    *string  `json:"difficulty"`
	LengthMiles   *float64 `json:"length_miles"`
	ElevationGain *int     `json:"elevation_gain"`
	Description   *string  `json:"description"`
	Features      []string `json:"features"`
}

type CompleteTrailRequest struct {
	CompletedAt     *time.Time `json:"completed_at"`
	DurationMinutes int        `json:"duration_minutes"`
	Rating          int        `json:"rating"`
	Notes           string     `json:"notes"`
}

func (s *Server) ListTrails(c *gin.Context) {
	page, err := parsePagination(c)
	if err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	minLength, err := parseOptionalFloat(c.Query("min_length"))
	if err != nil {
		AbortWithError(c, newValidationError("min_length", "invalid_value", "invalid number"))
		return
	}
	maxLength, err := parseOptionalFloat(c.Query("max_length"))
	if err != nil {
		AbortWithError(c, newValidationError("max_length", "invalid_value", "invalid number"))
		return
	}

	filter := traildomain.Filter{
		Difficulty: traildomain.Difficulty(c.Query("difficulty")),
		Location:   c.Query("location"),
	}
	if minLength != nil {
		filter.MinLength = *minLength
	}
	if maxLength != nil {
		filter.MaxLength = *maxLength
	}

	trails, pageInfo, err := s.trailSvc.List(c.Request.Context(), filter, page)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"trails":    trails,
		"page_info": pageInfo,
	})
}

func (s *Server) CreateTrail(c *gin.Context) {
	principal, ok := principalFrom(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req CreateTrailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	created, err := s.trailSvc.Create(c.Request.Context(), traildomain.CreateRequest{
		Name:          req.Name,
		Location:      req.Location,
		Difficulty:    traildomain.Difficulty(req.Difficulty),
		LengthMiles:   req.LengthMiles,
		ElevationGain: req.ElevationGain,
		Description:   req.Description,
		Features:      req.Features,
		CreatedBy:     principal.UserID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (s *Server) GetTrailByID(c *gin.Context) {
	id, err := parseSnowflakeParam(c, "id")
	if err != nil {
		AbortWithError(c, ErrNotFound)
		return
	}

	found, err := s.trailSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, found)
}

func (s *Server) UpdateTrail(c *gin.Context) {
	id, err := parseSnowflakeParam(c, "id")
	if err != nil {
		AbortWithError(c, ErrNotFound)
		return
	}

	var req UpdateTrailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	update := traildomain.UpdateRequest{
		Name:          req.Name,
		Location:      req.Location,
		LengthMiles:   req.LengthMiles,
		ElevationGain: req.ElevationGain,
		Description:   req.Description,
		Features:      req.Features,
	}
	if req.Difficulty != nil {
		difficulty := traildomain.Difficulty(*req.Difficulty)
		update.Difficulty = &difficulty
	}

	updated, err := s.trailSvc.Update(c.Request.Context(), id, update)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (s *Server) DeleteTrail(c *gin.Context) {
	id, err := parseSnowflakeParam(c, "id")
	if err != nil {
		AbortWithError(c, ErrNotFound)
		return
	}

	if err := s.trailSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) CompleteTrail(c *gin.Context) {
	principal, ok := principalFrom(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	id, err := parseSnowflakeParam(c, "id")
	if err != nil {
		AbortWithError(c, ErrNotFound)
		return
	}

	var req CompleteTrailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	completion := traildomain.CompletionRequest{
		UserID:          principal.UserID,
		TrailID:         id,
		DurationMinutes: req.DurationMinutes,
		Rating:          req.Rating,
		Notes:           req.Notes,
	}
	if req.CompletedAt != nil {
		completion.CompletedAt = *req.CompletedAt
	}

	recorded, err := s.trailSvc.RecordCompletion(c.Request.Context(), completion)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	awarded := s.evaluateBadges(c, principal.UserID)

	c.JSON(http.StatusCreated, gin.H{
		"completion":    recorded,
		"newly_awarded": awarded,
	})
}

func (s *Server) ListMyCompletions(c *gin.Context) {
	principal, ok := principalFrom(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	completions, err := s.trailSvc.CompletionsByUser(c.Request.Context(), principal.UserID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"completions": completions})
}
