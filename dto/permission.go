package dto

import "github.com/saracristina-sh3/auth-suite-sub000/models"

type GrantRequest struct {
	UserID      int64                  `json:"user_id" binding:"required"`
	ModuloID    int64                  `json:"modulo_id" binding:"required"`
	AutarquiaID int64                  `json:"autarquia_id" binding:"required"`
	Permissoes  models.PermissionFlags `json:"permissoes"`
}

type BulkGrantItem struct {
	ModuloID   int64                  `json:"modulo_id" binding:"required"`
	Permissoes models.PermissionFlags `json:"permissoes"`
}

type BulkGrantRequest struct {
	UserID      int64           `json:"user_id" binding:"required"`
	AutarquiaID int64           `json:"autarquia_id" binding:"required"`
	Modulos     []BulkGrantItem `json:"modulos" binding:"required"`
}

// BulkGrantResponse reports per-module outcomes: granted row IDs and the
// failure reason for modules that were rejected.
type BulkGrantResponse struct {
	Granted map[int64]int64  `json:"granted"`
	Failed  map[int64]string `json:"failed,omitempty"`
}

type RevokeRequest struct {
	UserID      int64 `json:"user_id" binding:"required"`
	ModuloID    int64 `json:"modulo_id" binding:"required"`
	AutarquiaID int64 `json:"autarquia_id" binding:"required"`
}

// CheckResponse is the permission probe result. TemAcesso is the aggregate;
// the embedded flags mirror the stored grant (or the full set for superusers)
// and marshal flat alongside it.
type CheckResponse struct {
	TemAcesso bool `json:"tem_acesso"`
	models.PermissionFlags
}

type SupportAssumeRequest struct {
	AutarquiaID int64 `json:"autarquia_id" binding:"required"`
}
