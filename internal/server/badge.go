package server

import (
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

func (s *Server) ListBadges(c *gin.Context) {
	badges, err := s.achievementSvc.ListBadges(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"badges": badges})
}

func (s *Server) ListMyBadges(c *gin.Context) {
	principal, ok := principalFrom(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	earned, err := s.achievementSvc.UserBadges(c.Request.Context(), principal.UserID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"badges": earned})
}

func (s *Server) EvaluateBadges(c *gin.Context) {
	principal, ok := principalFrom(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	awarded, err := s.achievementSvc.EvaluateEligibility(c.Request.Context(), principal.UserID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	for _, name := range awarded {
		s.obsMetrics.RecordBadgeAward(c.Request.Context(), name)
	}

	c.JSON(http.StatusOK, gin.H{"newly_awarded": awarded})
}

// evaluateBadges runs eligibility after activity writes. Evaluation
// failures are swallowed; the write already succeeded.
func (s *Server) evaluateBadges(c *gin.Context, userID snowflake.ID) []string {
	awarded, err := s.achievementSvc.EvaluateEligibility(c.Request.Context(), userID)
	if err != nil {
		return []string{}
	}
	for _, name := range awarded {
		s.obsMetrics.RecordBadgeAward(c.Request.Context(), name)
	}
	if awarded == nil {
		awarded = []string{}
	}
	return awarded
}
