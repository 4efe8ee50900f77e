package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	identitydomain "github.com/naturetrail/naturetrail/internal/identity/domain"
)

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type UserView struct {
	ID       string             `json:"id"`
	Username string             `json:"username"`
	Email    string             `json:"email"`
	Tier     identitydomain.Tier `json:"tier"`
}

type PrincipalView struct {
	UserID      string                      `json:"user_id"`
	Username    string                      `json:"username"`
	Tier        identitydomain.Tier         `json:"tier"`
	Permissions []identitydomain.Permission `json:"permissions"`
}

func (s *Server) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	user, err := s.identitySvc.Register(c.Request.Context(), identitydomain.RegisterRequest{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, UserView{
		ID:       user.ID.String(),
		Username: user.Username,
		Email:    user.Email,
		Tier:     user.Tier,
	})
}

func (s *Server) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	username := strings.TrimSpace(req.Username)
	principal, err := s.identitySvc.Authenticate(c.Request.Context(), username, req.Password)
	if err != nil {
		s.obsMetrics.RecordLoginAttempt(c.Request.Context(), "failure")
		AbortWithError(c, err)
		return
	}

	token, expiresAt, err := s.sessionStore.Create(principal)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	s.sessions.Set(c, token, expiresAt)

	s.obsMetrics.RecordLoginAttempt(c.Request.Context(), "success")
	c.JSON(http.StatusOK, principalView(principal))
}

func (s *Server) Logout(c *gin.Context) {
	token, ok := s.sessions.ReadToken(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	s.sessionStore.Delete(token)
	s.sessions.Clear(c)
	c.Status(http.StatusNoContent)
}

func (s *Server) Me(c *gin.Context) {
	principal, ok := principalFrom(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}
	c.JSON(http.StatusOK, principalView(principal))
}

func principalView(principal *identitydomain.Principal) PrincipalView {
	return PrincipalView{
		UserID:      principal.UserID.String(),
		Username:    principal.Username,
		Tier:        principal.Tier,
		Permissions: principal.Permissions,
	}
}
