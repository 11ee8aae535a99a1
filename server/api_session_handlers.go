package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/saracristina-sh3/auth-suite-sub000/dto"
)

// HandleGetActiveAutarquia returns the session's active tenant snapshot, or
// null when the session has none.
func (s *Server) HandleGetActiveAutarquia(c *gin.Context) {
	state, err := startSession(c)
	if err != nil {
		serverError(c, err)
		return
	}
	snap, ok := s.sessions.Get(state)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"autarquia_ativa_id": nil, "autarquia_ativa": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"autarquia_ativa_id": snap.ID, "autarquia_ativa": snap})
}

// HandleSetActiveAutarquia switches the session's active tenant. Validation
// order is existence, global activity, then the caller's access; superusers
// skip the access check only.
func (s *Server) HandleSetActiveAutarquia(c *gin.Context) {
	var payload dto.ActiveAutarquiaRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, "autarquia_id is required")
		return
	}
	state, err := startSession(c)
	if err != nil {
		serverError(c, err)
		return
	}
	snap, err := s.sessions.Switch(c.Request.Context(), state, currentUser(c), payload.AutarquiaID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"autarquia_ativa_id": snap.ID, "autarquia_ativa": snap})
}

// HandleClearActiveAutarquia drops the session slots. The durable preference
// is left alone: the next login still seeds from it.
func (s *Server) HandleClearActiveAutarquia(c *gin.Context) {
	state, err := startSession(c)
	if err != nil {
		serverError(c, err)
		return
	}
	if err := s.sessions.Clear(state); err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"autarquia_ativa_id": nil, "autarquia_ativa": nil})
}
