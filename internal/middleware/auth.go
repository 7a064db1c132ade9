package middleware

import (
	"net/http"

	"github.com/Swethakotuluru11/user-dashboard/internal/auth"
	"github.com/Swethakotuluru11/user-dashboard/internal/session"

	"github.com/gin-gonic/gin"
)

const identityKey = "currentUser"

// Guard gates requests on a valid session token: the session cookie resolves
// to a stored token, the token service verifies it, and the claims are
// attached to the request context for handlers.
type Guard struct {
	CookieName string
	Sessions   session.Store
	Tokens     *auth.Service
}

func NewGuard(cookieName string, sessions session.Store, tokens *auth.Service) *Guard {
	return &Guard{CookieName: cookieName, Sessions: sessions, Tokens: tokens}
}

// resolve returns the verified claims for the request's session, or nil.
func (g *Guard) resolve(c *gin.Context) *auth.Claims {
	sid, err := c.Cookie(g.CookieName)
	if err != nil || sid == "" {
		return nil
	}
	token, err := g.Sessions.Get(c.Request.Context(), sid)
	if err != nil {
		return nil
	}
	claims, err := g.Tokens.Verify(token)
	if err != nil {
		return nil
	}
	return claims
}

// RequireAPI rejects unauthenticated requests with a 401 JSON body.
func (g *Guard) RequireAPI() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := g.resolve(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		c.Set(identityKey, claims)
		c.Next()
	}
}

// RequirePage redirects unauthenticated requests to the login page.
func (g *Guard) RequirePage() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := g.resolve(c)
		if claims == nil {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Set(identityKey, claims)
		c.Next()
	}
}

// RedirectIfAuthenticated sends callers that already hold a session token to
// the dashboard. Only presence is checked here, not validity.
func (g *Guard) RedirectIfAuthenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(g.CookieName)
		if err == nil && sid != "" {
			if _, err := g.Sessions.Get(c.Request.Context(), sid); err == nil {
				c.Redirect(http.StatusFound, "/index")
				c.Abort()
				return
			}
		}
		c.Next()
	}
}

// CurrentClaims returns the identity attached by a guard, or nil.
func CurrentClaims(c *gin.Context) *auth.Claims {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	claims, ok := v.(*auth.Claims)
	if !ok {
		return nil
	}
	return claims
}
