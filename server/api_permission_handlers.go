package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/saracristina-sh3/auth-suite-sub000/dto"
	"github.com/saracristina-sh3/auth-suite-sub000/errs"
	"github.com/saracristina-sh3/auth-suite-sub000/models"
)

// HandleCheckPermission reports the effective flags of a (user, modulo,
// autarquia) triple. The tenant comes from the autarquia_id query parameter,
// falling back to the session's active one. A missing grant is not an error:
// it reads as all-false.
func (s *Server) HandleCheckPermission(c *gin.Context) {
	userID, ok := paramID(c, "userId")
	if !ok {
		return
	}
	moduloID, ok := paramID(c, "moduloId")
	if !ok {
		return
	}
	actor := currentUser(c)
	if actor.ID != userID && !actor.IsSuperadmin {
		writeError(c, errs.ErrAccessDenied)
		return
	}

	var autarquiaID int64
	if raw := c.Query("autarquia_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			badRequest(c, "invalid autarquia_id parameter")
			return
		}
		autarquiaID = id
	} else if state, err := startSession(c); err == nil {
		if snap, ok := s.sessions.Get(state); ok {
			autarquiaID = snap.ID
		}
	}
	if autarquiaID == 0 {
		badRequest(c, "autarquia_id is required when no active autarquia is set")
		return
	}

	subject := actor
	if actor.ID != userID {
		u, err := s.users.GetByID(c.Request.Context(), userID)
		if err != nil {
			writeError(c, err)
			return
		}
		subject = u
	}

	summary, err := s.perms.Summarize(c.Request.Context(), subject, moduloID, autarquiaID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CheckResponse{TemAcesso: summary.TemAcesso, PermissionFlags: summary.Flags})
}

// HandleGrantPermission upserts one grant. The module must be enabled for the
// autarquia first.
func (s *Server) HandleGrantPermission(c *gin.Context) {
	var payload dto.GrantRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, "user_id, modulo_id and autarquia_id are required")
		return
	}
	rec, err := s.permissions.Grant(c.Request.Context(), payload.UserID, payload.ModuloID, payload.AutarquiaID, payload.Permissoes)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// HandleBulkGrantPermissions applies one grant per module in a single
// transaction. Modules not enabled for the autarquia fail individually; the
// valid remainder still commits.
func (s *Server) HandleBulkGrantPermissions(c *gin.Context) {
	var payload dto.BulkGrantRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, "user_id, autarquia_id and modulos are required")
		return
	}
	grants := make(map[int64]models.PermissionFlags, len(payload.Modulos))
	for _, item := range payload.Modulos {
		grants[item.ModuloID] = item.Permissoes
	}
	res, err := s.permissions.BulkGrant(c.Request.Context(), payload.UserID, payload.AutarquiaID, grants)
	if err != nil {
		writeError(c, err)
		return
	}
	out := dto.BulkGrantResponse{Granted: make(map[int64]int64, len(res.Granted))}
	for moduloID, rec := range res.Granted {
		out.Granted[moduloID] = rec.ID
	}
	if len(res.Failed) > 0 {
		out.Failed = make(map[int64]string, len(res.Failed))
		for moduloID, ferr := range res.Failed {
			out.Failed[moduloID] = ferr.Error()
		}
	}
	c.JSON(http.StatusOK, out)
}

// HandleRevokePermission deactivates one grant. The row is kept with its
// data_concessao for audit.
func (s *Server) HandleRevokePermission(c *gin.Context) {
	var payload dto.RevokeRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, "user_id, modulo_id and autarquia_id are required")
		return
	}
	if err := s.permissions.Revoke(c.Request.Context(), payload.UserID, payload.ModuloID, payload.AutarquiaID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "revoked"})
}
