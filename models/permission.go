package models

import "time"

// PermissionFlags is the closed set of capability bits carried by a
// permission record. It is deliberately a struct, not a map: the four flags
// are fixed and Highest must stay exhaustive.
type PermissionFlags struct {
	PodeLer      bool `gorm:"column:pode_ler" json:"pode_ler"`
	PodeEscrever bool `gorm:"column:pode_escrever" json:"pode_escrever"`
	PodeExcluir  bool `gorm:"column:pode_excluir" json:"pode_excluir"`
	EAdmin       bool `gorm:"column:e_admin" json:"e_admin"`
}

// Highest returns the strongest capability label of the set, or "" when no
// flag is granted. Ordering: admin > excluir > escrever > ler.
func (f PermissionFlags) Highest() string {
	switch {
	case f.EAdmin:
		return "admin"
	case f.PodeExcluir:
		return "excluir"
	case f.PodeEscrever:
		return "escrever"
	case f.PodeLer:
		return "ler"
	default:
		return ""
	}
}

// Any reports whether at least one capability is granted.
func (f PermissionFlags) Any() bool {
	return f.PodeLer || f.PodeEscrever || f.PodeExcluir || f.EAdmin
}

// UserModulePermission is the finest-grained authorization unit: one row per
// (user, modulo, autarquia) triple. Revocation flips Ativo instead of
// deleting, preserving the grant history.
type UserModulePermission struct {
	ID            int64 `gorm:"column:id;primaryKey" json:"id"`
	UserID        int64 `gorm:"column:user_id;index" json:"user_id"`
	ModuloID      int64 `gorm:"column:modulo_id;index" json:"modulo_id"`
	AutarquiaID   int64 `gorm:"column:autarquia_id;index" json:"autarquia_id"`
	PermissionFlags `gorm:"embedded"`
	Ativo         bool      `gorm:"column:ativo" json:"ativo"`
	DataConcessao time.Time `gorm:"column:data_concessao" json:"data_concessao"`
}

func (UserModulePermission) TableName() string { return "user_module_permissions" }
