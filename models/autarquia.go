package models

import "time"

// Autarquia is an independent organizational entity (tenant). Nome is unique
// across the system; Ativo gates every tenant-scoped operation.
type Autarquia struct {
	ID        int64     `gorm:"column:id;primaryKey" json:"id"`
	Nome      string    `gorm:"column:nome;uniqueIndex" json:"nome"`
	Sigla     string    `gorm:"column:sigla" json:"sigla"`
	Ativo     bool      `gorm:"column:ativo" json:"ativo"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Autarquia) TableName() string { return "autarquias" }

// RoleAdmin is the canonical role label that implies is_admin on a membership.
const RoleAdmin = "admin"

// AutarquiaUser is the user↔autarquia membership pivot. At most one row per
// (user, autarquia) pair; at most one membership per user is conventionally
// marked default.
type AutarquiaUser struct {
	ID          int64     `gorm:"column:id;primaryKey" json:"id"`
	UserID      int64     `gorm:"column:user_id;index" json:"user_id"`
	AutarquiaID int64     `gorm:"column:autarquia_id;index" json:"autarquia_id"`
	Role        string    `gorm:"column:role" json:"role"`
	IsAdmin     bool      `gorm:"column:is_admin" json:"is_admin"`
	IsDefault   bool      `gorm:"column:is_default" json:"is_default"`
	Ativo       bool      `gorm:"column:ativo" json:"ativo"`
	DataVinculo time.Time `gorm:"column:data_vinculo" json:"data_vinculo"`
}

func (AutarquiaUser) TableName() string { return "autarquia_user" }

// Membership is an autarquia joined with the pivot attributes of one user,
// as returned by MembershipStore.ListForUser.
type Membership struct {
	Autarquia
	Role        string    `json:"role"`
	IsAdmin     bool      `json:"is_admin"`
	IsDefault   bool      `json:"is_default"`
	MemberAtivo bool      `json:"membro_ativo"`
	DataVinculo time.Time `json:"data_vinculo"`
}
