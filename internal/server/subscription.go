package server

import (
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	identitydomain "github.com/naturetrail/naturetrail/internal/identity/domain"
	subscriptiondomain "github.com/naturetrail/naturetrail/internal/subscription/domain"
)

type CheckoutRequest struct {
	PlanType string `json:"plan_type"`
}

type ConfirmSubscriptionRequest struct {
	PlanType      string `json:"plan_type"`
	PaymentMethod string `json:"payment_method"`
}

func (s *Server) ListPlans(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"plans": s.subscriptionSvc.Plans()})
}

func (s *Server) CreateCheckoutSession(c *gin.Context) {
	principal, ok := principalFrom(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	session, err := s.subscriptionSvc.CreatePaymentSession(
		c.Request.Context(),
		principal.UserID,
		subscriptiondomain.PlanType(req.PlanType),
	)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.obsMetrics.RecordPaymentSession(c.Request.Context(), session.Status)
	c.JSON(http.StatusCreated, session)
}

func (s *Server) ConfirmSubscription(c *gin.Context) {
	principal, ok := principalFrom(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req ConfirmSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	subscription, err := s.subscriptionSvc.ConfirmPayment(
		c.Request.Context(),
		principal.UserID,
		subscriptiondomain.PlanType(req.PlanType),
		req.PaymentMethod,
	)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.obsMetrics.RecordSubscriptionEvent(c.Request.Context(), "confirmed", string(subscription.PlanType))

	// Sessions issued before the upgrade still carry standard permissions;
	// rotate the principal so this session sees the new tier immediately.
	s.refreshSession(c, principal.UserID)

	c.JSON(http.StatusCreated, subscription)
}

func (s *Server) GetSubscriptionStatus(c *gin.Context) {
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

	view, err := s.subscriptionSvc.GetStatus(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if view.Username != principal.Username {
		AbortWithError(c, ErrForbidden)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (s *Server) CancelSubscription(c *gin.Context) {
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

	view, err := s.subscriptionSvc.GetStatus(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if view.Username != principal.Username {
		AbortWithError(c, ErrForbidden)
		return
	}

	if err := s.subscriptionSvc.Cancel(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	s.obsMetrics.RecordSubscriptionEvent(c.Request.Context(), "cancelled", "")
	s.refreshSession(c, principal.UserID)

	c.Status(http.StatusNoContent)
}

// refreshSession replaces the current session's principal with a fresh
// snapshot of the user's tier and permissions.
func (s *Server) refreshSession(c *gin.Context, userID snowflake.ID) {
	token, ok := s.sessions.ReadToken(c)
	if !ok {
		return
	}

	user, err := s.identitySvc.GetUser(c.Request.Context(), userID)
	if err != nil {
		return
	}

	s.sessionStore.Delete(token)
	fresh, expiresAt, err := s.sessionStore.Create(identitydomain.NewPrincipal(user))
	if err != nil {
		return
	}
	s.sessions.Set(c, fresh, expiresAt)
}
