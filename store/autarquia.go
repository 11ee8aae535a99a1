package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/saracristina-sh3/auth-suite-sub000/errs"
	"github.com/saracristina-sh3/auth-suite-sub000/models"
)

// AutarquiaStore provides operations for tenants and their module links.
type AutarquiaStore struct {
	DB *gorm.DB
}

func NewAutarquiaStore(db *gorm.DB) *AutarquiaStore { return &AutarquiaStore{DB: db} }

func (s *AutarquiaStore) GetByID(ctx context.Context, id int64) (*models.Autarquia, error) {
	var a models.Autarquia
	if err := s.DB.WithContext(ctx).Raw(`SELECT * FROM autarquias WHERE id = ?`, id).Scan(&a).Error; err != nil {
		return nil, err
	}
	if a.ID == 0 {
		return nil, errs.ErrNotFound
	}
	return &a, nil
}

func (s *AutarquiaStore) List(ctx context.Context) ([]models.Autarquia, error) {
	var out []models.Autarquia
	err := s.DB.WithContext(ctx).Raw(`SELECT * FROM autarquias ORDER BY nome`).Scan(&out).Error
	return out, err
}

// Create inserts the autarquia and pre-links every known module disabled, in
// one transaction. Activation happens later per module.
func (s *AutarquiaStore) Create(ctx context.Context, a *models.Autarquia) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		row := tx.Raw(
			`INSERT INTO autarquias(nome, sigla, ativo, created_at, updated_at) VALUES(?,?,?,?,?) RETURNING id`,
			a.Nome, a.Sigla, a.Ativo, now, now,
		).Row()
		if err := row.Scan(&a.ID); err != nil {
			return err
		}
		return tx.Exec(
			`INSERT INTO modulo_autarquia(modulo_id, autarquia_id, ativo)
			 SELECT id, ?, FALSE FROM modulos`,
			a.ID,
		).Error
	})
}

// Delete removes an autarquia only when it has no member users and no enabled
// module links; otherwise it fails with ErrConflict and nothing is touched.
func (s *AutarquiaStore) Delete(ctx context.Context, id int64) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var members, enabled int64
		if err := tx.Raw(`SELECT COUNT(*) FROM autarquia_user WHERE autarquia_id = ?`, id).Row().Scan(&members); err != nil {
			return err
		}
		if err := tx.Raw(`SELECT COUNT(*) FROM modulo_autarquia WHERE autarquia_id = ? AND ativo`, id).Row().Scan(&enabled); err != nil {
			return err
		}
		if members > 0 || enabled > 0 {
			return errs.ErrConflict
		}
		if err := tx.Exec(`DELETE FROM modulo_autarquia WHERE autarquia_id = ?`, id).Error; err != nil {
			return err
		}
		return tx.Exec(`DELETE FROM autarquias WHERE id = ?`, id).Error
	})
}

// SetAtivo toggles the global tenant switch. While off, switches into the
// autarquia are refused; memberships and permissions stay as they are.
func (s *AutarquiaStore) SetAtivo(ctx context.Context, id int64, ativo bool) error {
	res := s.DB.WithContext(ctx).Exec(
		`UPDATE autarquias SET ativo = ?, updated_at = ? WHERE id = ?`, ativo, time.Now(), id,
	)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.ErrNotFound
	}
	return nil
}
