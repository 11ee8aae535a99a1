package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/saracristina-sh3/auth-suite-sub000/errs"
	"github.com/saracristina-sh3/auth-suite-sub000/models"
)

// ModuloStore provides read access to the module catalog and manages the
// per-tenant activation rows.
type ModuloStore struct {
	DB *gorm.DB
}

func NewModuloStore(db *gorm.DB) *ModuloStore { return &ModuloStore{DB: db} }

func (s *ModuloStore) List(ctx context.Context) ([]models.Modulo, error) {
	var out []models.Modulo
	err := s.DB.WithContext(ctx).Raw(`SELECT * FROM modulos ORDER BY id`).Scan(&out).Error
	return out, err
}

// ListActiveForAutarquia returns the catalog entries enabled for a tenant
// (both the module and its activation row must be active).
func (s *ModuloStore) ListActiveForAutarquia(ctx context.Context, autarquiaID int64) ([]models.Modulo, error) {
	var out []models.Modulo
	err := s.DB.WithContext(ctx).Raw(`
		SELECT m.* FROM modulos m
		JOIN modulo_autarquia ma ON ma.modulo_id = m.id
		WHERE ma.autarquia_id = ? AND ma.ativo AND m.ativo
		ORDER BY m.id`, autarquiaID).Scan(&out).Error
	return out, err
}

// IsActiveForAutarquia reports whether the activation row for the pair exists
// and is active, and the module itself is still on in the catalog.
func (s *ModuloStore) IsActiveForAutarquia(ctx context.Context, moduloID, autarquiaID int64) (bool, error) {
	var n int64
	err := s.DB.WithContext(ctx).Raw(`
		SELECT COUNT(*) FROM modulo_autarquia ma
		JOIN modulos m ON m.id = ma.modulo_id
		WHERE ma.modulo_id = ? AND ma.autarquia_id = ? AND ma.ativo AND m.ativo`,
		moduloID, autarquiaID,
	).Row().Scan(&n)
	return n > 0, err
}

// Enable activates a module for a tenant, stamping data_liberacao.
func (s *ModuloStore) Enable(ctx context.Context, moduloID, autarquiaID int64) error {
	now := time.Now()
	return s.DB.WithContext(ctx).Exec(`
		INSERT INTO modulo_autarquia(modulo_id, autarquia_id, ativo, data_liberacao)
		VALUES(?,?,TRUE,?)
		ON CONFLICT (modulo_id, autarquia_id)
		DO UPDATE SET ativo = TRUE, data_liberacao = EXCLUDED.data_liberacao`,
		moduloID, autarquiaID, now).Error
}

// Disable deactivates the pair; the row is kept so data_liberacao history
// survives re-enabling.
func (s *ModuloStore) Disable(ctx context.Context, moduloID, autarquiaID int64) error {
	return s.DB.WithContext(ctx).Exec(
		`UPDATE modulo_autarquia SET ativo = FALSE WHERE modulo_id = ? AND autarquia_id = ?`,
		moduloID, autarquiaID).Error
}

// SetAtivo toggles the catalog-level flag of a module. While off, the module
// is hidden from every tenant regardless of the per-tenant activations.
func (s *ModuloStore) SetAtivo(ctx context.Context, moduloID int64, ativo bool) error {
	res := s.DB.WithContext(ctx).Exec(
		`UPDATE modulos SET ativo = ?, updated_at = ? WHERE id = ?`, ativo, time.Now(), moduloID,
	)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.ErrNotFound
	}
	return nil
}
