package server

import (
	"github.com/gin-gonic/gin"
)

// NewGinEngine builds the Gin router and registers every route. Public routes
// are login and refresh; everything else sits behind TokenMiddleware, and the
// administration surface additionally behind RequireSuperuser.
func NewGinEngine(s *Server) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Recovery())

	r.POST("/login", s.HandleLogin)
	r.POST("/refresh", s.HandleRefresh)

	auth := r.Group("/")
	auth.Use(s.TokenMiddleware())

	auth.POST("/logout", s.HandleLogout)
	auth.GET("/me", s.HandleMe)

	// Active-tenant session slots
	auth.GET("/session/active-autarquia", s.HandleGetActiveAutarquia)
	auth.POST("/session/active-autarquia", s.HandleSetActiveAutarquia)
	auth.DELETE("/session/active-autarquia", s.HandleClearActiveAutarquia)

	// Support delegation
	auth.POST("/support/assume-context", s.RequireSuperuser(), s.HandleAssumeContext)
	auth.POST("/support/exit-context", s.RequireSuperuser(), s.HandleExitContext)

	// Memberships. Reads allow self-access; writes are superuser-only.
	auth.GET("/users/:id/autarquias", s.HandleListUserAutarquias)
	auth.POST("/users/:id/autarquias/attach", s.RequireSuperuser(), s.HandleAttachAutarquias)
	auth.POST("/users/:id/autarquias/detach", s.RequireSuperuser(), s.HandleDetachAutarquias)
	auth.POST("/users/:id/autarquias/sync", s.RequireSuperuser(), s.HandleSyncAutarquias)
	auth.PUT("/users/:id/active-autarquia", s.HandleSetPreferredAutarquia)

	// Permission queries and administration
	auth.GET("/permissoes/check/:userId/:moduloId", s.HandleCheckPermission)
	auth.POST("/permissoes/grant", s.RequireSuperuser(), s.HandleGrantPermission)
	auth.POST("/permissoes/bulk", s.RequireSuperuser(), s.HandleBulkGrantPermissions)
	auth.DELETE("/permissoes", s.RequireSuperuser(), s.HandleRevokePermission)

	// Catalogs
	auth.GET("/autarquias", s.HandleListAutarquias)
	auth.POST("/autarquias", s.RequireSuperuser(), s.HandleCreateAutarquia)
	auth.DELETE("/autarquias/:id", s.RequireSuperuser(), s.HandleDeleteAutarquia)
	auth.PUT("/autarquias/:id/ativo", s.RequireSuperuser(), s.HandleSetAutarquiaAtivo)
	auth.GET("/modulos", s.HandleListModulos)
	auth.PUT("/modulos/:id/ativo", s.RequireSuperuser(), s.HandleSetModuloAtivo)
	auth.GET("/autarquias/:id/modulos", s.HandleListAutarquiaModulos)
	auth.POST("/autarquias/:id/modulos/:moduloId/enable", s.RequireSuperuser(), s.HandleEnableModulo)
	auth.POST("/autarquias/:id/modulos/:moduloId/disable", s.RequireSuperuser(), s.HandleDisableModulo)

	return r
}
