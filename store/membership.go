package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/saracristina-sh3/auth-suite-sub000/models"
)

// PivotData carries the membership attributes supplied on attach/sync.
// is_admin is not accepted from callers: it is derived from the canonical
// role label (models.RoleAdmin) so the two notions cannot drift apart.
type PivotData struct {
	Role      string `json:"role"`
	IsDefault bool   `json:"is_default"`
}

func (p PivotData) isAdmin() bool { return p.Role == models.RoleAdmin }

// SyncEntry pairs a tenant id with its pivot data for Sync.
type SyncEntry struct {
	AutarquiaID int64     `json:"autarquia_id"`
	Pivot       PivotData `json:"pivot"`
}

// MembershipStore manages the user↔autarquia many-to-many relation.
type MembershipStore struct {
	DB *gorm.DB
}

func NewMembershipStore(db *gorm.DB) *MembershipStore { return &MembershipStore{DB: db} }

// ListForUser returns the user's autarquias with pivot attributes, ordered by
// tenant name.
func (s *MembershipStore) ListForUser(ctx context.Context, userID int64) ([]models.Membership, error) {
	var out []models.Membership
	err := s.DB.WithContext(ctx).Raw(`
		SELECT a.*, au.role, au.is_admin, au.is_default, au.ativo AS member_ativo, au.data_vinculo
		FROM autarquias a
		JOIN autarquia_user au ON au.autarquia_id = a.id
		WHERE au.user_id = ?
		ORDER BY a.nome`, userID).Scan(&out).Error
	return out, err
}

// Attach links the user to each tenant with the given pivot defaults.
// Existing rows are left untouched (one membership per pair).
func (s *MembershipStore) Attach(ctx context.Context, userID int64, autarquiaIDs []int64, pivot PivotData) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		for _, aid := range autarquiaIDs {
			if err := tx.Exec(`
				INSERT INTO autarquia_user(user_id, autarquia_id, role, is_admin, is_default, ativo, data_vinculo)
				VALUES(?,?,?,?,?,TRUE,?)
				ON CONFLICT (user_id, autarquia_id) DO NOTHING`,
				userID, aid, pivot.Role, pivot.isAdmin(), pivot.IsDefault, now).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Detach removes the membership rows for the given tenants.
func (s *MembershipStore) Detach(ctx context.Context, userID int64, autarquiaIDs []int64) error {
	if len(autarquiaIDs) == 0 {
		return nil
	}
	return s.DB.WithContext(ctx).Exec(
		`DELETE FROM autarquia_user WHERE user_id = ? AND autarquia_id IN ?`,
		userID, autarquiaIDs,
	).Error
}

// Sync fully replaces the membership set in one transaction: tenants absent
// from entries are detached, new ones attached, existing ones updated to the
// supplied pivot data.
func (s *MembershipStore) Sync(ctx context.Context, userID int64, entries []SyncEntry) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		keep := make([]int64, 0, len(entries))
		for _, e := range entries {
			keep = append(keep, e.AutarquiaID)
		}
		if len(keep) == 0 {
			return tx.Exec(`DELETE FROM autarquia_user WHERE user_id = ?`, userID).Error
		}
		if err := tx.Exec(
			`DELETE FROM autarquia_user WHERE user_id = ? AND autarquia_id NOT IN ?`,
			userID, keep,
		).Error; err != nil {
			return err
		}
		now := time.Now()
		for _, e := range entries {
			if err := tx.Exec(`
				INSERT INTO autarquia_user(user_id, autarquia_id, role, is_admin, is_default, ativo, data_vinculo)
				VALUES(?,?,?,?,?,TRUE,?)
				ON CONFLICT (user_id, autarquia_id)
				DO UPDATE SET role = EXCLUDED.role, is_admin = EXCLUDED.is_admin, is_default = EXCLUDED.is_default`,
				userID, e.AutarquiaID, e.Pivot.Role, e.Pivot.isAdmin(), e.Pivot.IsDefault, now).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// HasAccess reports whether an active membership row exists for the pair.
// The superadmin exemption lives above the store, on the caller side.
func (s *MembershipStore) HasAccess(ctx context.Context, userID, autarquiaID int64) (bool, error) {
	var n int64
	err := s.DB.WithContext(ctx).Raw(
		`SELECT COUNT(*) FROM autarquia_user WHERE user_id = ? AND autarquia_id = ? AND ativo`,
		userID, autarquiaID,
	).Row().Scan(&n)
	return n > 0, err
}

// IsAdminOf reports whether the user holds an active admin membership.
func (s *MembershipStore) IsAdminOf(ctx context.Context, userID, autarquiaID int64) (bool, error) {
	var n int64
	err := s.DB.WithContext(ctx).Raw(
		`SELECT COUNT(*) FROM autarquia_user WHERE user_id = ? AND autarquia_id = ? AND ativo AND is_admin`,
		userID, autarquiaID,
	).Row().Scan(&n)
	return n > 0, err
}
