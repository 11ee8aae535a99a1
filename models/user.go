package models

import "time"

// User is a platform account. Role is a free-form label; IsSuperadmin marks
// the restricted support role that may delegate into any active autarquia.
type User struct {
	ID                    int64      `gorm:"column:id;primaryKey" json:"id"`
	Nome                  string     `gorm:"column:nome" json:"nome"`
	Email                 string     `gorm:"column:email;uniqueIndex" json:"email"`
	PasswordHash          string     `gorm:"column:password_hash" json:"-"`
	Role                  string     `gorm:"column:role" json:"role"`
	IsSuperadmin          bool       `gorm:"column:is_superadmin" json:"is_superadmin"`
	Ativo                 bool       `gorm:"column:ativo" json:"ativo"`
	AutarquiaAtivaID      *int64     `gorm:"column:autarquia_ativa_id" json:"autarquia_ativa_id"`
	RefreshTokenHash      *string    `gorm:"column:refresh_token_hash" json:"-"`
	RefreshTokenExpiresAt *time.Time `gorm:"column:refresh_token_expires_at" json:"-"`
	CreatedAt             time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt             time.Time  `gorm:"column:updated_at" json:"updated_at"`
}

func (User) TableName() string { return "users" }
