package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/saracristina-sh3/auth-suite-sub000/errs"
	"github.com/saracristina-sh3/auth-suite-sub000/models"
)

// PermissionStore manages the (user, modulo, autarquia) permission rows.
type PermissionStore struct {
	DB *gorm.DB
}

func NewPermissionStore(db *gorm.DB) *PermissionStore { return &PermissionStore{DB: db} }

// Get returns the single permission row for the triple, or nil when absent.
// Absence is not an error: it reads as all flags false.
func (s *PermissionStore) Get(ctx context.Context, userID, moduloID, autarquiaID int64) (*models.UserModulePermission, error) {
	var p models.UserModulePermission
	err := s.DB.WithContext(ctx).Raw(
		`SELECT * FROM user_module_permissions WHERE user_id = ? AND modulo_id = ? AND autarquia_id = ?`,
		userID, moduloID, autarquiaID,
	).Scan(&p).Error
	if err != nil {
		return nil, err
	}
	if p.ID == 0 {
		return nil, nil
	}
	return &p, nil
}

// ListForUserInAutarquia returns the active permission rows of a user inside
// one tenant, keyed by module.
func (s *PermissionStore) ListForUserInAutarquia(ctx context.Context, userID, autarquiaID int64) ([]models.UserModulePermission, error) {
	var out []models.UserModulePermission
	err := s.DB.WithContext(ctx).Raw(
		`SELECT * FROM user_module_permissions WHERE user_id = ? AND autarquia_id = ? AND ativo ORDER BY modulo_id`,
		userID, autarquiaID,
	).Scan(&out).Error
	return out, err
}

// Grant upserts the row for the triple, stamping data_concessao and forcing
// ativo back to true. Re-granting after a revoke is a normal idempotent
// operation. The module must be active for the tenant.
func (s *PermissionStore) Grant(ctx context.Context, userID, moduloID, autarquiaID int64, flags models.PermissionFlags) (*models.UserModulePermission, error) {
	var rec *models.UserModulePermission
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		rec, err = grantTx(tx, userID, moduloID, autarquiaID, flags)
		return err
	})
	return rec, err
}

func grantTx(tx *gorm.DB, userID, moduloID, autarquiaID int64, flags models.PermissionFlags) (*models.UserModulePermission, error) {
	var active int64
	if err := tx.Raw(
		`SELECT COUNT(*) FROM modulo_autarquia WHERE modulo_id = ? AND autarquia_id = ? AND ativo`,
		moduloID, autarquiaID,
	).Row().Scan(&active); err != nil {
		return nil, err
	}
	if active == 0 {
		return nil, errs.ErrModuleNotActive
	}
	now := time.Now()
	rec := &models.UserModulePermission{
		UserID:          userID,
		ModuloID:        moduloID,
		AutarquiaID:     autarquiaID,
		PermissionFlags: flags,
		Ativo:           true,
		DataConcessao:   now,
	}
	row := tx.Raw(`
		INSERT INTO user_module_permissions(user_id, modulo_id, autarquia_id, pode_ler, pode_escrever, pode_excluir, e_admin, ativo, data_concessao)
		VALUES(?,?,?,?,?,?,?,TRUE,?)
		ON CONFLICT (user_id, modulo_id, autarquia_id)
		DO UPDATE SET pode_ler = EXCLUDED.pode_ler, pode_escrever = EXCLUDED.pode_escrever,
			pode_excluir = EXCLUDED.pode_excluir, e_admin = EXCLUDED.e_admin,
			ativo = TRUE, data_concessao = EXCLUDED.data_concessao
		RETURNING id`,
		userID, moduloID, autarquiaID, flags.PodeLer, flags.PodeEscrever, flags.PodeExcluir, flags.EAdmin, now,
	).Row()
	if err := row.Scan(&rec.ID); err != nil {
		return nil, err
	}
	return rec, nil
}

// Revoke deactivates the row without deleting it, preserving grant history.
func (s *PermissionStore) Revoke(ctx context.Context, userID, moduloID, autarquiaID int64) error {
	return s.DB.WithContext(ctx).Exec(
		`UPDATE user_module_permissions SET ativo = FALSE WHERE user_id = ? AND modulo_id = ? AND autarquia_id = ?`,
		userID, moduloID, autarquiaID,
	).Error
}

// BulkGrantResult reports the outcome per module of a BulkGrant call.
type BulkGrantResult struct {
	Granted map[int64]*models.UserModulePermission
	Failed  map[int64]error
}

// BulkGrant applies one grant per module inside a single transaction.
// Modules whose activation is missing are collected as per-item failures and
// skipped before any write for that item; an unexpected error rolls the whole
// batch back so no mix of old and new state survives.
func (s *PermissionStore) BulkGrant(ctx context.Context, userID, autarquiaID int64, grants map[int64]models.PermissionFlags) (*BulkGrantResult, error) {
	res := &BulkGrantResult{
		Granted: make(map[int64]*models.UserModulePermission, len(grants)),
		Failed:  make(map[int64]error),
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for moduloID, flags := range grants {
			rec, err := grantTx(tx, userID, moduloID, autarquiaID, flags)
			if err == errs.ErrModuleNotActive {
				res.Failed[moduloID] = err
				continue
			}
			if err != nil {
				return err
			}
			res.Granted[moduloID] = rec
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
