package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/saracristina-sh3/auth-suite-sub000/dto"
	"github.com/saracristina-sh3/auth-suite-sub000/errs"
	"github.com/saracristina-sh3/auth-suite-sub000/models"
	"github.com/saracristina-sh3/auth-suite-sub000/store"
)

func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "invalid "+name+" parameter")
		return 0, false
	}
	return id, true
}

// HandleListUserAutarquias lists a user's memberships with pivot data.
// Users may read their own; everything else requires a superuser.
func (s *Server) HandleListUserAutarquias(c *gin.Context) {
	userID, ok := paramID(c, "id")
	if !ok {
		return
	}
	actor := currentUser(c)
	if actor.ID != userID && !actor.IsSuperadmin {
		writeError(c, errs.ErrAccessDenied)
		return
	}
	memberships, err := s.memberships.ListForUser(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"autarquias": memberships})
}

// HandleAttachAutarquias links the user to the given autarquias. Existing
// links are left untouched.
func (s *Server) HandleAttachAutarquias(c *gin.Context) {
	userID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var payload dto.AttachRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, "autarquia_ids is required")
		return
	}
	pivot := store.PivotData{Role: payload.Role, IsDefault: payload.IsDefault}
	if err := s.memberships.Attach(c.Request.Context(), userID, payload.AutarquiaIDs, pivot); err != nil {
		writeError(c, err)
		return
	}
	memberships, err := s.memberships.ListForUser(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"autarquias": memberships})
}

// HandleDetachAutarquias removes the given links.
func (s *Server) HandleDetachAutarquias(c *gin.Context) {
	userID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var payload dto.DetachRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, "autarquia_ids is required")
		return
	}
	if err := s.memberships.Detach(c.Request.Context(), userID, payload.AutarquiaIDs); err != nil {
		writeError(c, err)
		return
	}
	memberships, err := s.memberships.ListForUser(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"autarquias": memberships})
}

// HandleSyncAutarquias replaces the user's whole membership set. An empty
// list detaches everything.
func (s *Server) HandleSyncAutarquias(c *gin.Context) {
	userID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var payload dto.SyncRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, "invalid sync payload")
		return
	}
	entries := make([]store.SyncEntry, 0, len(payload.Autarquias))
	for _, e := range payload.Autarquias {
		entries = append(entries, store.SyncEntry{
			AutarquiaID: e.AutarquiaID,
			Pivot:       store.PivotData{Role: e.Role, IsDefault: e.IsDefault},
		})
	}
	if err := s.memberships.Sync(c.Request.Context(), userID, entries); err != nil {
		writeError(c, err)
		return
	}
	memberships, err := s.memberships.ListForUser(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"autarquias": memberships})
}

// HandleSetPreferredAutarquia updates a user's durable preferred autarquia.
// Setting your own goes through the session switch so both writes happen;
// a superuser setting someone else's only touches the durable field.
func (s *Server) HandleSetPreferredAutarquia(c *gin.Context) {
	userID, ok := paramID(c, "id")
	if !ok {
		return
	}
	actor := currentUser(c)
	if actor.ID != userID && !actor.IsSuperadmin {
		writeError(c, errs.ErrAccessDenied)
		return
	}
	var payload dto.ActiveAutarquiaRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, "autarquia_id is required")
		return
	}

	if actor.ID == userID {
		state, err := startSession(c)
		if err != nil {
			serverError(c, err)
			return
		}
		snap, err := s.sessions.Switch(c.Request.Context(), state, actor, payload.AutarquiaID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"autarquia_ativa": snap})
		return
	}

	target, err := s.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	tenant, err := s.autarquias.GetByID(c.Request.Context(), payload.AutarquiaID)
	if err != nil {
		writeError(c, err)
		return
	}
	if !tenant.Ativo {
		writeError(c, errs.ErrTenantInactive)
		return
	}
	if !target.IsSuperadmin {
		hasAccess, err := s.memberships.HasAccess(c.Request.Context(), target.ID, tenant.ID)
		if err != nil {
			writeError(c, err)
			return
		}
		if !hasAccess {
			writeError(c, errs.ErrAccessDenied)
			return
		}
	}
	if err := s.users.SetPreferredAutarquia(c.Request.Context(), target.ID, &tenant.ID); err != nil {
		writeError(c, err)
		return
	}
	snap := models.SnapshotAutarquia(tenant)
	c.JSON(http.StatusOK, gin.H{"autarquia_ativa": snap})
}
