package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/saracristina-sh3/auth-suite-sub000/errs"
	"github.com/saracristina-sh3/auth-suite-sub000/models"
)

// UserStore provides operations for users, including the refresh-token
// record and the durable preferred-autarquia field.
type UserStore struct {
	DB *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore { return &UserStore{DB: db} }

func (s *UserStore) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	err := s.DB.WithContext(ctx).Raw(`SELECT * FROM users WHERE id = ?`, id).Scan(&u).Error
	if err != nil {
		return nil, err
	}
	if u.ID == 0 {
		return nil, errs.ErrNotFound
	}
	return &u, nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.DB.WithContext(ctx).Raw(`SELECT * FROM users WHERE email = ?`, email).Scan(&u).Error
	if err != nil {
		return nil, err
	}
	if u.ID == 0 {
		return nil, errs.ErrNotFound
	}
	return &u, nil
}

// SetPreferredAutarquia persists the durable preferred-tenant reference.
// A nil id clears the preference.
func (s *UserStore) SetPreferredAutarquia(ctx context.Context, userID int64, autarquiaID *int64) error {
	return s.DB.WithContext(ctx).Exec(
		`UPDATE users SET autarquia_ativa_id = ?, updated_at = ? WHERE id = ?`,
		autarquiaID, time.Now(), userID,
	).Error
}

// SetRefreshToken stores the hash and expiry of a freshly issued
// refresh token, replacing any previous one.
func (s *UserStore) SetRefreshToken(ctx context.Context, userID int64, hash string, expiresAt time.Time) error {
	return s.DB.WithContext(ctx).Exec(
		`UPDATE users SET refresh_token_hash = ?, refresh_token_expires_at = ?, updated_at = ? WHERE id = ?`,
		hash, expiresAt, time.Now(), userID,
	).Error
}

// ClearRefreshToken drops the stored refresh-token record.
func (s *UserStore) ClearRefreshToken(ctx context.Context, userID int64) error {
	return s.DB.WithContext(ctx).Exec(
		`UPDATE users SET refresh_token_hash = NULL, refresh_token_expires_at = NULL, updated_at = ? WHERE id = ?`,
		time.Now(), userID,
	).Error
}

// RotateRefreshToken verifies and replaces the refresh-token record under a
// row lock on the user, serializing concurrent rotations. verify receives the
// stored hash and expiry; when it returns nil the record is overwritten with
// newHash/newExpiry inside the same transaction. A concurrent loser blocks on
// the lock, then sees the already-rotated hash and fails verification.
func (s *UserStore) RotateRefreshToken(ctx context.Context, userID int64, verify func(hash *string, expiresAt *time.Time) error, newHash string, newExpiry time.Time) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec struct {
			RefreshTokenHash      *string
			RefreshTokenExpiresAt *time.Time
		}
		row := tx.Raw(
			`SELECT refresh_token_hash, refresh_token_expires_at FROM users WHERE id = ? FOR UPDATE`,
			userID,
		).Row()
		if err := row.Scan(&rec.RefreshTokenHash, &rec.RefreshTokenExpiresAt); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return errs.ErrNotFound
			}
			return err
		}
		if err := verify(rec.RefreshTokenHash, rec.RefreshTokenExpiresAt); err != nil {
			return err
		}
		return tx.Exec(
			`UPDATE users SET refresh_token_hash = ?, refresh_token_expires_at = ?, updated_at = ? WHERE id = ?`,
			newHash, newExpiry, time.Now(), userID,
		).Error
	})
}
