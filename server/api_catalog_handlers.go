package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/saracristina-sh3/auth-suite-sub000/dto"
	"github.com/saracristina-sh3/auth-suite-sub000/models"
)

// HandleListAutarquias lists every autarquia, active or not.
func (s *Server) HandleListAutarquias(c *gin.Context) {
	autarquias, err := s.autarquias.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"autarquias": autarquias})
}

// HandleCreateAutarquia registers a new autarquia and pre-links the whole
// module catalog in disabled state.
func (s *Server) HandleCreateAutarquia(c *gin.Context) {
	var payload dto.CreateAutarquiaRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, "nome is required")
		return
	}
	a := models.Autarquia{Nome: payload.Nome, Sigla: payload.Sigla, Ativo: true}
	if payload.Ativo != nil {
		a.Ativo = *payload.Ativo
	}
	if err := s.autarquias.Create(c.Request.Context(), &a); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

// HandleDeleteAutarquia removes an autarquia. Refused while members or
// enabled modules still reference it.
func (s *Server) HandleDeleteAutarquia(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := s.autarquias.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// HandleSetAutarquiaAtivo toggles the global tenant switch. Deactivating
// blocks new switches into the autarquia without touching memberships.
func (s *Server) HandleSetAutarquiaAtivo(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var payload dto.SetAtivoRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, "ativo is required")
		return
	}
	if err := s.autarquias.SetAtivo(c.Request.Context(), id, *payload.Ativo); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

// HandleListModulos lists the fixed module catalog.
func (s *Server) HandleListModulos(c *gin.Context) {
	modulos, err := s.modulos.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"modulos": modulos})
}

// HandleSetModuloAtivo toggles the catalog-level flag of a module. While off,
// the module is hidden from every tenant and grants nothing anywhere.
func (s *Server) HandleSetModuloAtivo(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var payload dto.SetAtivoRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, "ativo is required")
		return
	}
	if err := s.modulos.SetAtivo(c.Request.Context(), id, *payload.Ativo); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

// HandleListAutarquiaModulos lists the modules enabled for one autarquia.
func (s *Server) HandleListAutarquiaModulos(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	modulos, err := s.modulos.ListActiveForAutarquia(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"modulos": modulos})
}

// HandleEnableModulo enables a module for an autarquia, stamping the release
// date on first activation.
func (s *Server) HandleEnableModulo(c *gin.Context) {
	autarquiaID, ok := paramID(c, "id")
	if !ok {
		return
	}
	moduloID, ok := paramID(c, "moduloId")
	if !ok {
		return
	}
	if err := s.modulos.Enable(c.Request.Context(), moduloID, autarquiaID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "enabled"})
}

// HandleDisableModulo disables a module for an autarquia. Existing permission
// rows survive but stop granting anything.
func (s *Server) HandleDisableModulo(c *gin.Context) {
	autarquiaID, ok := paramID(c, "id")
	if !ok {
		return
	}
	moduloID, ok := paramID(c, "moduloId")
	if !ok {
		return
	}
	if err := s.modulos.Disable(c.Request.Context(), moduloID, autarquiaID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "disabled"})
}
