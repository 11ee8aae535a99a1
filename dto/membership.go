package dto

type ActiveAutarquiaRequest struct {
	AutarquiaID int64 `json:"autarquia_id" binding:"required"`
}

type AttachRequest struct {
	AutarquiaIDs []int64 `json:"autarquia_ids" binding:"required"`
	Role         string  `json:"role"`
	IsDefault    bool    `json:"is_default"`
}

type DetachRequest struct {
	AutarquiaIDs []int64 `json:"autarquia_ids" binding:"required"`
}

type SyncEntryRequest struct {
	AutarquiaID int64  `json:"autarquia_id" binding:"required"`
	Role        string `json:"role"`
	IsDefault   bool   `json:"is_default"`
}

// SyncRequest replaces the user's whole membership set. An empty list detaches
// everything.
type SyncRequest struct {
	Autarquias []SyncEntryRequest `json:"autarquias"`
}

type CreateAutarquiaRequest struct {
	Nome  string `json:"nome" binding:"required"`
	Sigla string `json:"sigla"`
	Ativo *bool  `json:"ativo"`
}

// SetAtivoRequest toggles an ativo flag. The pointer distinguishes an
// explicit false from a missing field.
type SetAtivoRequest struct {
	Ativo *bool `json:"ativo" binding:"required"`
}
