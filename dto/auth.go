// Package dto holds the JSON request and response shapes of the HTTP API.
package dto

import "github.com/saracristina-sh3/auth-suite-sub000/models"

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	UserID       int64  `json:"user_id" binding:"required"`
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// TokenResponse carries an issued pair. ExpiresIn is seconds until the access
// token expires.
type TokenResponse struct {
	TokenType    string `json:"token_type"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int64  `json:"expires_in"`
}

// LoginResponse is the full login payload: tokens plus the user snapshot the
// client mirrors into local storage.
type LoginResponse struct {
	TokenResponse
	User UserResponse `json:"user"`
}

// UserResponse is the client-facing user snapshot, active tenant included.
type UserResponse struct {
	ID               int64                   `json:"id"`
	Nome             string                  `json:"nome"`
	Email            string                  `json:"email"`
	Role             string                  `json:"role,omitempty"`
	IsSuperadmin     bool                    `json:"is_superadmin"`
	Ativo            bool                    `json:"ativo"`
	AutarquiaAtivaID *int64                  `json:"autarquia_ativa_id"`
	AutarquiaAtiva   *models.ActiveAutarquia `json:"autarquia_ativa,omitempty"`
	Autarquias       []models.Membership     `json:"autarquias,omitempty"`
}

func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:               u.ID,
		Nome:             u.Nome,
		Email:            u.Email,
		Role:             u.Role,
		IsSuperadmin:     u.IsSuperadmin,
		Ativo:            u.Ativo,
		AutarquiaAtivaID: u.AutarquiaAtivaID,
	}
}
