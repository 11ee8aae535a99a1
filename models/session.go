package models

// ActiveAutarquia is the denormalized tenant snapshot kept in session state so
// the active tenant can be rendered without a re-fetch.
type ActiveAutarquia struct {
	ID    int64  `json:"id"`
	Nome  string `json:"nome"`
	Ativo bool   `json:"ativo"`
}

// SnapshotAutarquia builds the session snapshot for an autarquia.
func SnapshotAutarquia(a *Autarquia) ActiveAutarquia {
	return ActiveAutarquia{ID: a.ID, Nome: a.Nome, Ativo: a.Ativo}
}

// SupportContext is the per-session delegation state of a superuser operating
// inside another tenant. OriginalAutarquiaID holds the durable preferred
// tenant as it stood immediately before the delegation switch, so Exit can
// restore it verbatim (including the was-null case).
type SupportContext struct {
	SupportMode         bool   `json:"support_mode"`
	AutarquiaID         int64  `json:"autarquia_id"`
	OriginalAutarquiaID *int64 `json:"original_autarquia_id"`
}
