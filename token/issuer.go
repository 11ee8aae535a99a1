// Package token mints and rotates the access/refresh token pair. Access
// tokens are HS256 JWTs tracked in a revocable registry by their jti; refresh
// tokens are opaque random values stored server-side only as a sha256 hash.
package token

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/saracristina-sh3/auth-suite-sub000/errs"
	"github.com/saracristina-sh3/auth-suite-sub000/models"
)

const (
	// DefaultAccessTTL is the lifetime of a normal access token.
	DefaultAccessTTL = 60 * time.Minute
	// DefaultRefreshTTL is the lifetime of a refresh token.
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

// AbilityAll grants every ability.
const AbilityAll = "*"

// Registry tracks live access-token ids so they can be revoked per user.
type Registry interface {
	Register(ctx context.Context, userID int64, jti string, ttl time.Duration) error
	IsActive(ctx context.Context, jti string) (bool, error)
	RevokeAll(ctx context.Context, userID int64) error
}

// UserTokens is the slice of the user store the issuer needs.
type UserTokens interface {
	SetRefreshToken(ctx context.Context, userID int64, hash string, expiresAt time.Time) error
	ClearRefreshToken(ctx context.Context, userID int64) error
	RotateRefreshToken(ctx context.Context, userID int64, verify func(hash *string, expiresAt *time.Time) error, newHash string, newExpiry time.Time) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// Claims is the access-token payload.
type Claims struct {
	jwt.RegisteredClaims
	UserID       int64    `json:"user_id"`
	IsSuperadmin bool     `json:"is_superadmin"`
	Abilities    []string `json:"abilities"`
	Temporary    bool     `json:"temporary,omitempty"`
}

// Pair is the result of IssuePair / Rotate. RefreshToken is plaintext and
// returned exactly once.
type Pair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64 // seconds
}

// Issuer mints, rotates and revokes tokens.
type Issuer struct {
	users      UserTokens
	registry   Registry
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	log        *zap.Logger
}

// NewIssuer builds an Issuer. Zero TTLs fall back to the defaults.
func NewIssuer(users UserTokens, registry Registry, secret []byte, accessTTL, refreshTTL time.Duration, log *zap.Logger) *Issuer {
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTTL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Issuer{users: users, registry: registry, secret: secret, accessTTL: accessTTL, refreshTTL: refreshTTL, log: log}
}

// IssuePair creates a new access/refresh pair for the user. The refresh
// token's hash and expiry are stored on the user record, replacing any
// previous refresh token.
func (i *Issuer) IssuePair(ctx context.Context, user *models.User, abilities []string) (*Pair, error) {
	access, err := i.signAccess(ctx, user, abilities, i.accessTTL, false)
	if err != nil {
		return nil, err
	}
	refresh, err := randomToken()
	if err != nil {
		return nil, err
	}
	expiry := time.Now().Add(i.refreshTTL)
	if err := i.users.SetRefreshToken(ctx, user.ID, hashToken(refresh), expiry); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}
	return &Pair{AccessToken: access, RefreshToken: refresh, ExpiresIn: int64(i.accessTTL.Seconds())}, nil
}

// Rotate exchanges a valid refresh token for a fresh pair. Verification and
// the write of the replacement hash run under a per-user row lock, so a
// concurrent rotation with the same token loses and gets
// ErrInvalidRefreshToken. All existing access tokens are revoked before the
// new pair is issued; on verification failure every token is revoked as well.
func (i *Issuer) Rotate(ctx context.Context, userID int64, refreshPlaintext string) (*Pair, error) {
	newRefresh, err := randomToken()
	if err != nil {
		return nil, err
	}
	newExpiry := time.Now().Add(i.refreshTTL)

	err = i.users.RotateRefreshToken(ctx, userID, func(hash *string, expiresAt *time.Time) error {
		if hash == nil || expiresAt == nil {
			return errs.ErrInvalidRefreshToken
		}
		if time.Now().After(*expiresAt) {
			return errs.ErrInvalidRefreshToken
		}
		given := hashToken(refreshPlaintext)
		if subtle.ConstantTimeCompare([]byte(given), []byte(*hash)) != 1 {
			return errs.ErrInvalidRefreshToken
		}
		return nil
	}, hashToken(newRefresh), newExpiry)
	if err != nil {
		if err == errs.ErrInvalidRefreshToken {
			// a bad refresh attempt invalidates the whole token family
			if rerr := i.RevokeAll(ctx, userID); rerr != nil {
				i.log.Warn("revoke after failed rotation", zap.Int64("user_id", userID), zap.Error(rerr))
			}
		}
		return nil, err
	}

	// revoke-then-issue: no previously issued access token survives rotation
	if err := i.registry.RevokeAll(ctx, userID); err != nil {
		return nil, fmt.Errorf("revoke access tokens: %w", err)
	}
	user, err := i.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	access, err := i.signAccess(ctx, user, []string{AbilityAll}, i.accessTTL, false)
	if err != nil {
		return nil, err
	}
	return &Pair{AccessToken: access, RefreshToken: newRefresh, ExpiresIn: int64(i.accessTTL.Seconds())}, nil
}

// RevokeAll drops every access token of the user and clears the stored
// refresh-token record. Used on logout and on rotation failure.
func (i *Issuer) RevokeAll(ctx context.Context, userID int64) error {
	if err := i.registry.RevokeAll(ctx, userID); err != nil {
		return err
	}
	return i.users.ClearRefreshToken(ctx, userID)
}

// IssueTemporary mints a short-lived elevated access token for delegation.
// The refresh-token record is deliberately untouched, so exiting delegation
// never requires a refresh.
func (i *Issuer) IssueTemporary(ctx context.Context, user *models.User, abilities []string, ttl time.Duration) (string, error) {
	return i.signAccess(ctx, user, abilities, ttl, true)
}

// ParseAccess validates signature and expiry and returns the claims. The
// registry is consulted so revoked tokens are rejected even before expiry.
func (i *Issuer) ParseAccess(ctx context.Context, tokenString string) (*Claims, error) {
	var claims Claims
	tok, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil || !tok.Valid {
		return nil, errs.ErrInvalidCredentials
	}
	active, err := i.registry.IsActive(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, errs.ErrInvalidCredentials
	}
	return &claims, nil
}

func (i *Issuer) signAccess(ctx context.Context, user *models.User, abilities []string, ttl time.Duration, temporary bool) (string, error) {
	if len(abilities) == 0 {
		abilities = []string{AbilityAll}
	}
	now := time.Now()
	jti := uuid.NewString()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID:       user.ID,
		IsSuperadmin: user.IsSuperadmin,
		Abilities:    abilities,
		Temporary:    temporary,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", err
	}
	if err := i.registry.Register(ctx, user.ID, jti, ttl); err != nil {
		return "", fmt.Errorf("register access token: %w", err)
	}
	return signed, nil
}

// randomToken returns a 64-char hex string from 32 random bytes.
func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// hashToken returns the hex sha256 of a token string; only hashes are stored.
func hashToken(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
