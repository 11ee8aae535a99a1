package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/saracristina-sh3/auth-suite-sub000/dto"
	"github.com/saracristina-sh3/auth-suite-sub000/permission"
)

// HandleAssumeContext puts the superuser into the target tenant's admin
// context. The response carries the temporary delegation token and the full
// assumed context: tenant snapshot, the modules enabled there and the (full)
// permission set the delegated admin operates with.
func (s *Server) HandleAssumeContext(c *gin.Context) {
	var payload dto.SupportAssumeRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, "autarquia_id is required")
		return
	}
	state, err := startSession(c)
	if err != nil {
		serverError(c, err)
		return
	}
	assumption, err := s.support.Assume(c.Request.Context(), state, currentUser(c), payload.AutarquiaID)
	if err != nil {
		writeError(c, err)
		return
	}

	modulos, err := s.modulos.ListActiveForAutarquia(c.Request.Context(), payload.AutarquiaID)
	if err != nil {
		s.log.Warn("assume: list modulos failed", zap.Int64("autarquia_id", payload.AutarquiaID), zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{
		"token": assumption.TemporaryToken,
		"context": gin.H{
			"autarquia":             assumption.Autarquia,
			"support_mode":          assumption.Context.SupportMode,
			"is_admin":              true,
			"original_autarquia_id": assumption.Context.OriginalAutarquiaID,
			"modulos":               modulos,
			"permissions":           permission.AllFlags(),
		},
	})
}

// HandleExitContext restores the superuser's pre-delegation tenant context
// and issues a fresh normal token pair.
func (s *Server) HandleExitContext(c *gin.Context) {
	state, err := startSession(c)
	if err != nil {
		serverError(c, err)
		return
	}
	user := currentUser(c)
	pair, err := s.support.Exit(c.Request.Context(), state, user)
	if err != nil {
		writeError(c, err)
		return
	}

	// re-read: Exit just rewrote the durable preference
	fresh, err := s.users.GetByID(c.Request.Context(), user.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	resp := dto.NewUserResponse(fresh)
	if snap, ok := s.sessions.Get(state); ok {
		resp.AutarquiaAtiva = snap
	}

	c.JSON(http.StatusOK, gin.H{
		"token_type":    "Bearer",
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"expires_in":    pair.ExpiresIn,
		"user":          resp,
	})
}
