package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/saracristina-sh3/auth-suite-sub000/dto"
	"github.com/saracristina-sh3/auth-suite-sub000/errs"
	"github.com/saracristina-sh3/auth-suite-sub000/token"
)

// HandleLogin authenticates by email and password and issues a token pair.
// The response carries the user snapshot clients mirror into local storage,
// memberships and active tenant included.
func (s *Server) HandleLogin(c *gin.Context) {
	var payload dto.LoginRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, "email and password are required")
		return
	}

	user, err := s.users.GetByEmail(c.Request.Context(), payload.Email)
	if err != nil {
		if err == errs.ErrNotFound {
			writeError(c, errs.ErrInvalidCredentials)
			return
		}
		writeError(c, err)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(payload.Password)) != nil {
		writeError(c, errs.ErrInvalidCredentials)
		return
	}
	if !user.Ativo {
		writeError(c, errs.ErrAccessDenied)
		return
	}

	pair, err := s.issuer.IssuePair(c.Request.Context(), user, []string{token.AbilityAll})
	if err != nil {
		writeError(c, err)
		return
	}

	resp := dto.LoginResponse{
		TokenResponse: dto.TokenResponse{
			TokenType:    "Bearer",
			AccessToken:  pair.AccessToken,
			RefreshToken: pair.RefreshToken,
			ExpiresIn:    pair.ExpiresIn,
		},
		User: dto.NewUserResponse(user),
	}
	if memberships, err := s.memberships.ListForUser(c.Request.Context(), user.ID); err == nil {
		resp.User.Autarquias = memberships
	} else {
		s.log.Warn("login: list memberships failed", zap.Int64("user_id", user.ID), zap.Error(err))
	}

	// Seed the server session from the durable preference so the snapshot in
	// the response matches what subsequent requests will see.
	if state, err := startSession(c); err == nil {
		if err := s.sessions.Seed(c.Request.Context(), state, user); err == nil {
			if snap, ok := s.sessions.Get(state); ok {
				resp.User.AutarquiaAtiva = snap
			}
		}
	}

	c.JSON(http.StatusOK, resp)
}

// HandleRefresh rotates the refresh token. The presented token is single-use:
// a successful rotation invalidates it, and presenting a stale one revokes
// every session of the user.
func (s *Server) HandleRefresh(c *gin.Context) {
	var payload dto.RefreshRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, "user_id and refresh_token are required")
		return
	}

	pair, err := s.issuer.Rotate(c.Request.Context(), payload.UserID, payload.RefreshToken)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.TokenResponse{
		TokenType:    "Bearer",
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	})
}

// HandleLogout revokes every token of the user and clears the session,
// delegation state included.
func (s *Server) HandleLogout(c *gin.Context) {
	user := currentUser(c)

	if err := s.issuer.RevokeAll(c.Request.Context(), user.ID); err != nil {
		writeError(c, err)
		return
	}
	if state, err := startSession(c); err == nil {
		if err := s.support.Reset(state); err != nil {
			s.log.Warn("logout: reset support state failed", zap.Error(err))
		}
		if err := s.sessions.Clear(state); err != nil {
			s.log.Warn("logout: clear session failed", zap.Error(err))
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "logged_out"})
}

// HandleMe returns the authenticated user with memberships, the session's
// active tenant and any delegation state.
func (s *Server) HandleMe(c *gin.Context) {
	user := currentUser(c)

	resp := dto.NewUserResponse(user)
	if memberships, err := s.memberships.ListForUser(c.Request.Context(), user.ID); err == nil {
		resp.Autarquias = memberships
	}

	out := gin.H{"user": resp}
	if state, err := startSession(c); err == nil {
		if snap, ok := s.sessions.Get(state); ok {
			resp.AutarquiaAtiva = snap
			out["user"] = resp
		}
		if sc, ok := s.support.SupportContext(state); ok {
			out["support_context"] = sc
		}
	}
	c.JSON(http.StatusOK, out)
}
