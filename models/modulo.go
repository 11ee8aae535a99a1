package models

import "time"

// Modulo is one entry of the fixed, centrally seeded catalog of business
// applications. Only Ativo and the descriptive fields are editable; the
// catalog itself is maintained by seed migrations, not by the API.
type Modulo struct {
	ID        int64     `gorm:"column:id;primaryKey" json:"id"`
	Nome      string    `gorm:"column:nome;uniqueIndex" json:"nome"`
	Descricao string    `gorm:"column:descricao" json:"descricao"`
	Icone     string    `gorm:"column:icone" json:"icone"`
	Rota      string    `gorm:"column:rota" json:"rota"`
	Ativo     bool      `gorm:"column:ativo" json:"ativo"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Modulo) TableName() string { return "modulos" }

// ModuloAutarquia is the per-tenant activation row for a module. A permission
// record for (user, modulo, autarquia) is only meaningful while this row
// exists and is active.
type ModuloAutarquia struct {
	ID            int64      `gorm:"column:id;primaryKey" json:"id"`
	ModuloID      int64      `gorm:"column:modulo_id;index" json:"modulo_id"`
	AutarquiaID   int64      `gorm:"column:autarquia_id;index" json:"autarquia_id"`
	Ativo         bool       `gorm:"column:ativo" json:"ativo"`
	DataLiberacao *time.Time `gorm:"column:data_liberacao" json:"data_liberacao"`
}

func (ModuloAutarquia) TableName() string { return "modulo_autarquia" }
