package mirror

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/saracristina-sh3/auth-suite-sub000/models"
)

// UserState is the cached user snapshot each tab keeps, including the
// embedded active-tenant fields the synchronizer compares.
type UserState struct {
	ID               int64                   `json:"id"`
	Nome             string                  `json:"nome"`
	Email            string                  `json:"email"`
	IsSuperadmin     bool                    `json:"is_superadmin"`
	AutarquiaAtivaID *int64                  `json:"autarquia_ativa_id"`
	AutarquiaAtiva   *models.ActiveAutarquia `json:"autarquia_ativa"`
}

// API is the server surface a mirror calls before mutating local state.
type API interface {
	SetActiveAutarquia(ctx context.Context, autarquiaID int64) (*models.ActiveAutarquia, error)
}

// Mirror is one tab's view of the session. It is the single source of truth
// inside that tab; other tabs converge on it only through storage events.
type Mirror struct {
	id      string
	storage *Storage
	api     API

	// OnLogout fires when another tab cleared the access token.
	// OnReload fires when this tab must recompute load-time state (its own
	// switch, an observed tenant change, or a support-mode toggle).
	OnLogout func()
	OnReload func()
}

func New(id string, storage *Storage, api API) *Mirror {
	return &Mirror{id: id, storage: storage, api: api, OnLogout: func() {}, OnReload: func() {}}
}

// SetSession stores a fresh token pair and user snapshot after login.
func (m *Mirror) SetSession(accessToken, refreshToken string, expiresAt int64, user UserState) error {
	b, err := json.Marshal(user)
	if err != nil {
		return err
	}
	m.storage.Set(m.id, KeyAccessToken, accessToken)
	m.storage.Set(m.id, KeyRefreshToken, refreshToken)
	m.storage.Set(m.id, KeyTokenExpiry, strconv.FormatInt(expiresAt, 10))
	m.storage.Set(m.id, KeyUser, string(b))
	return nil
}

// User returns this tab's cached user snapshot.
func (m *Mirror) User() (*UserState, bool) {
	raw, ok := m.storage.Get(KeyUser)
	if !ok || raw == "" {
		return nil, false
	}
	var u UserState
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil, false
	}
	return &u, true
}

// SwitchTenant calls the server, then overwrites the local snapshot's tenant
// fields. The storage write is what other tabs observe; this tab reloads
// itself because downstream state is computed once at load time.
func (m *Mirror) SwitchTenant(ctx context.Context, autarquiaID int64) error {
	snap, err := m.api.SetActiveAutarquia(ctx, autarquiaID)
	if err != nil {
		return err
	}
	u, ok := m.User()
	if !ok {
		u = &UserState{}
	}
	u.AutarquiaAtivaID = &snap.ID
	u.AutarquiaAtiva = snap
	b, err := json.Marshal(u)
	if err != nil {
		return err
	}
	m.storage.Set(m.id, KeyUser, string(b))
	m.OnReload()
	return nil
}

// EnterSupport records the delegation context and backs up the pre-delegation
// user snapshot so ExitSupport can restore the display state.
func (m *Mirror) EnterSupport(temporaryToken string, sc models.SupportContext) error {
	if raw, ok := m.storage.Get(KeyUser); ok {
		m.storage.Set(m.id, KeyUserBackup, raw)
	}
	b, err := json.Marshal(sc)
	if err != nil {
		return err
	}
	m.storage.Set(m.id, KeyAccessToken, temporaryToken)
	m.storage.Set(m.id, KeySupportContext, string(b))
	m.OnReload()
	return nil
}

// ExitSupport restores the backed-up snapshot and drops the support context.
func (m *Mirror) ExitSupport(accessToken, refreshToken string) {
	if raw, ok := m.storage.Get(KeyUserBackup); ok {
		m.storage.Set(m.id, KeyUser, raw)
		m.storage.Remove(m.id, KeyUserBackup)
	}
	m.storage.Remove(m.id, KeySupportContext)
	m.storage.Set(m.id, KeyAccessToken, accessToken)
	m.storage.Set(m.id, KeyRefreshToken, refreshToken)
	m.OnReload()
}

// Logout clears every session key. Removing the access token is the signal
// other tabs act on.
func (m *Mirror) Logout() {
	m.storage.Remove(m.id, KeyAccessToken)
	m.storage.Remove(m.id, KeyRefreshToken)
	m.storage.Remove(m.id, KeyTokenExpiry)
	m.storage.Remove(m.id, KeyUser)
	m.storage.Remove(m.id, KeySupportContext)
	m.storage.Remove(m.id, KeyUserBackup)
}

// Run consumes storage events from other tabs until ctx ends, applying the
// three reconciliation rules: token cleared, tenant changed, support-mode
// toggled. State is re-derived by reloading, never patched incrementally.
func (m *Mirror) Run(ctx context.Context) {
	events := m.storage.Watch(ctx, m.id)
	for evt := range events {
		m.reconcile(evt)
	}
}

func (m *Mirror) reconcile(evt Event) {
	switch evt.Key {
	case KeyAccessToken:
		if evt.New == "" {
			m.OnLogout()
		}
	case KeyUser:
		if tenantOf(evt.Old) != tenantOf(evt.New) {
			m.OnReload()
		}
	case KeySupportContext:
		if evt.Old != evt.New {
			m.OnReload()
		}
	}
}

// tenantOf extracts autarquia_ativa_id from a serialized user snapshot;
// 0 means unset or unparseable.
func tenantOf(raw string) int64 {
	if raw == "" {
		return 0
	}
	var u UserState
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return 0
	}
	if u.AutarquiaAtivaID == nil {
		return 0
	}
	return *u.AutarquiaAtivaID
}
