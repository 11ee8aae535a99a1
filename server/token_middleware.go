package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/saracristina-sh3/auth-suite-sub000/models"
	"github.com/saracristina-sh3/auth-suite-sub000/token"
)

const (
	ctxUserKey   = "auth_user"
	ctxClaimsKey = "auth_claims"
)

// TokenMiddleware validates the bearer token, loads the user and seeds the
// server-side session with the preferred tenant on first contact.
func (s *Server) TokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":             "unauthorized",
				"error_description": "missing authorization header",
			})
			c.Abort()
			return
		}
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":             "unauthorized",
				"error_description": "invalid authorization header format",
			})
			c.Abort()
			return
		}

		claims, err := s.issuer.ParseAccess(c.Request.Context(), parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":             "unauthorized",
				"error_description": "invalid access token",
			})
			c.Abort()
			return
		}

		user, err := s.users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil || !user.Ativo {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":             "unauthorized",
				"error_description": "user not found or inactive",
			})
			c.Abort()
			return
		}

		if state, err := startSession(c); err == nil {
			if err := s.sessions.Seed(c.Request.Context(), state, user); err != nil {
				s.log.Warn("session seed failed", zap.Error(err))
			}
		}

		c.Set(ctxUserKey, user)
		c.Set(ctxClaimsKey, claims)
		c.Next()
	}
}

// currentUser returns the authenticated user placed by TokenMiddleware.
func currentUser(c *gin.Context) *models.User {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return nil
	}
	u, _ := v.(*models.User)
	return u
}

func currentClaims(c *gin.Context) *token.Claims {
	v, ok := c.Get(ctxClaimsKey)
	if !ok {
		return nil
	}
	cl, _ := v.(*token.Claims)
	return cl
}

// RequireSuperuser gates the support and administration routes.
func (s *Server) RequireSuperuser() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := currentUser(c)
		if u == nil || !u.IsSuperadmin {
			c.JSON(http.StatusForbidden, gin.H{
				"error":             "not_superuser",
				"error_description": "superuser privileges required",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
