package server

import (
	"github.com/gin-gonic/gin"
	identitydomain "github.com/naturetrail/naturetrail/internal/identity/domain"
	obscontext "github.com/naturetrail/naturetrail/internal/observability/context"
)

const contextPrincipalKey = "principal"

// AuthRequired resolves the session cookie to a principal and attaches it
// to the request.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := s.sessions.ReadToken(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		principal, err := s.sessionStore.Get(token)
		if err != nil {
			s.sessions.Clear(c)
			AbortWithError(c, err)
			return
		}

		c.Set(contextPrincipalKey, principal)
		ctx := obscontext.WithUserID(c.Request.Context(), principal.UserID.String())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequirePermission gates a route on the principal's entitlement snapshot.
func (s *Server) RequirePermission(perm identitydomain.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := principalFrom(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		if !principal.Can(perm) {
			AbortWithError(c, ErrForbidden)
			return
		}
		c.Next()
	}
}

func principalFrom(c *gin.Context) (*identitydomain.Principal, bool) {
	value, exists := c.Get(contextPrincipalKey)
	if !exists {
		return nil, false
	}
	principal, ok := value.(*identitydomain.Principal)
	if !ok || principal == nil {
		return nil, false
	}
	return principal, true
}
