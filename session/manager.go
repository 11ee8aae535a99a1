// Package session holds the per-login tenant context: which autarquia the
// session is currently viewing, and the support-delegation state of a
// superuser. State is accessed through an injected interface, never as
// ambient globals; the HTTP layer backs it with go-session.
package session

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/saracristina-sh3/auth-suite-sub000/errs"
	"github.com/saracristina-sh3/auth-suite-sub000/models"
)

// Session slot keys. Values are stored as strings so any backing session
// store can round-trip them.
const (
	keyAutarquiaID       = "autarquia_ativa_id"
	keyAutarquiaSnapshot = "autarquia_ativa"
	keySupportContext    = "support_context"
)

// State is one server session's mutable key/value slots.
type State interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{})
	Delete(key string)
	Save() error
}

// TenantSource loads autarquias.
type TenantSource interface {
	GetByID(ctx context.Context, id int64) (*models.Autarquia, error)
}

// AccessSource answers membership queries.
type AccessSource interface {
	HasAccess(ctx context.Context, userID, autarquiaID int64) (bool, error)
}

// PreferenceStore persists the durable preferred-autarquia field.
type PreferenceStore interface {
	SetPreferredAutarquia(ctx context.Context, userID int64, autarquiaID *int64) error
}

// Manager tracks the active autarquia of one session.
type Manager struct {
	tenants TenantSource
	access  AccessSource
	prefs   PreferenceStore
}

func NewManager(tenants TenantSource, access AccessSource, prefs PreferenceStore) *Manager {
	return &Manager{tenants: tenants, access: access, prefs: prefs}
}

// Seed populates an unset session from the user's durable preferred
// autarquia, without a client round-trip. A missing tenant leaves the
// session unset rather than failing the request.
func (m *Manager) Seed(ctx context.Context, state State, user *models.User) error {
	if _, ok := m.Get(state); ok {
		return nil
	}
	if user.AutarquiaAtivaID == nil {
		return nil
	}
	tenant, err := m.tenants.GetByID(ctx, *user.AutarquiaAtivaID)
	if err != nil {
		if err == errs.ErrNotFound {
			return nil
		}
		return err
	}
	return writeSnapshot(state, models.SnapshotAutarquia(tenant))
}

// Switch validates, in order, that the tenant exists, is globally active and
// is accessible to the user, then performs the dual write: session snapshot
// plus durable preference. Any validation failure is returned as a domain
// error with prior state untouched; there is no fallback tenant.
func (m *Manager) Switch(ctx context.Context, state State, user *models.User, autarquiaID int64) (*models.ActiveAutarquia, error) {
	tenant, err := m.tenants.GetByID(ctx, autarquiaID)
	if err != nil {
		return nil, err
	}
	if !tenant.Ativo {
		return nil, errs.ErrTenantInactive
	}
	if !user.IsSuperadmin {
		ok, err := m.access.HasAccess(ctx, user.ID, autarquiaID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errs.ErrAccessDenied
		}
	}
	// the session is per-login, the preference is cross-login
	if err := m.prefs.SetPreferredAutarquia(ctx, user.ID, &autarquiaID); err != nil {
		return nil, err
	}
	snap := models.SnapshotAutarquia(tenant)
	if err := writeSnapshot(state, snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Get returns the session's active autarquia snapshot, if set.
func (m *Manager) Get(state State) (*models.ActiveAutarquia, bool) {
	raw, ok := state.Get(keyAutarquiaSnapshot)
	if !ok {
		return nil, false
	}
	s, ok := raw.(string)
	if !ok || s == "" {
		return nil, false
	}
	var snap models.ActiveAutarquia
	if err := json.Unmarshal([]byte(s), &snap); err != nil {
		return nil, false
	}
	return &snap, true
}

// Clear removes both session slots. The durable preference is untouched.
func (m *Manager) Clear(state State) error {
	state.Delete(keyAutarquiaID)
	state.Delete(keyAutarquiaSnapshot)
	return state.Save()
}

func writeSnapshot(state State, snap models.ActiveAutarquia) error {
	b, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	state.Set(keyAutarquiaID, strconv.FormatInt(snap.ID, 10))
	state.Set(keyAutarquiaSnapshot, string(b))
	return state.Save()
}
