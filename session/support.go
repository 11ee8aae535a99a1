package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/saracristina-sh3/auth-suite-sub000/errs"
	"github.com/saracristina-sh3/auth-suite-sub000/models"
	"github.com/saracristina-sh3/auth-suite-sub000/token"
)

// TemporaryTokenTTL is how long a delegation token stays valid.
const TemporaryTokenTTL = 8 * time.Hour

// TokenIssuer is the slice of the token issuer the controller needs.
type TokenIssuer interface {
	IssuePair(ctx context.Context, user *models.User, abilities []string) (*token.Pair, error)
	IssueTemporary(ctx context.Context, user *models.User, abilities []string, ttl time.Duration) (string, error)
}

// UserSource reads and writes user records during delegation.
type UserSource interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	SetPreferredAutarquia(ctx context.Context, userID int64, autarquiaID *int64) error
}

// Controller implements support delegation: a superuser assumes a tenant's
// admin context and later exits back to their original one. The pre-switch
// preferred autarquia is captured into the delegation state itself, because
// the switch is about to overwrite the field it came from.
type Controller struct {
	mgr    *Manager
	issuer TokenIssuer
	users  UserSource
}

func NewController(mgr *Manager, issuer TokenIssuer, users UserSource) *Controller {
	return &Controller{mgr: mgr, issuer: issuer, users: users}
}

// Assumption is the result of a successful Assume.
type Assumption struct {
	TemporaryToken string
	Context        models.SupportContext
	Autarquia      models.ActiveAutarquia
}

// Assume escalates the superuser into the tenant's admin context. It reuses
// Switch (and therefore its validation and its durable-preference side
// effect) and issues a temporary all-abilities token; the refresh-token
// record stays untouched. Assuming again without an exit retargets the
// delegation while keeping the original capture, so Exit still restores the
// true pre-delegation context.
func (c *Controller) Assume(ctx context.Context, state State, user *models.User, autarquiaID int64) (*Assumption, error) {
	if !user.IsSuperadmin {
		return nil, errs.ErrNotSuperuser
	}
	fresh, err := c.users.GetByID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	// captured before Switch overwrites it
	original := fresh.AutarquiaAtivaID
	// re-assume without an exit: the preference currently holds an assumed
	// tenant, the first capture is still the true original
	if prev, ok := c.SupportContext(state); ok && prev.SupportMode {
		original = prev.OriginalAutarquiaID
	}

	snap, err := c.mgr.Switch(ctx, state, user, autarquiaID)
	if err != nil {
		return nil, err
	}

	sc := models.SupportContext{SupportMode: true, AutarquiaID: autarquiaID, OriginalAutarquiaID: original}
	if err := writeSupportContext(state, sc); err != nil {
		return nil, err
	}

	tmp, err := c.issuer.IssueTemporary(ctx, user, []string{token.AbilityAll}, TemporaryTokenTTL)
	if err != nil {
		return nil, err
	}
	return &Assumption{TemporaryToken: tmp, Context: sc, Autarquia: *snap}, nil
}

// Exit restores the superuser's pre-delegation context: the captured
// preferred autarquia is switched back (or cleared when it was null), the
// delegation state is dropped and a fresh normal pair is issued. The
// temporary token is not proactively revoked; it simply stops being needed
// and dies at its own TTL.
func (c *Controller) Exit(ctx context.Context, state State, user *models.User) (*token.Pair, error) {
	sc, ok := c.SupportContext(state)
	if !ok || !sc.SupportMode {
		return nil, errs.ErrNotDelegated
	}

	if sc.OriginalAutarquiaID != nil {
		if _, err := c.mgr.Switch(ctx, state, user, *sc.OriginalAutarquiaID); err != nil {
			return nil, err
		}
	} else {
		if err := c.mgr.Clear(state); err != nil {
			return nil, err
		}
		if err := c.users.SetPreferredAutarquia(ctx, user.ID, nil); err != nil {
			return nil, err
		}
	}

	state.Delete(keySupportContext)
	if err := state.Save(); err != nil {
		return nil, err
	}

	fresh, err := c.users.GetByID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return c.issuer.IssuePair(ctx, fresh, []string{token.AbilityAll})
}

// SupportContext returns the session's delegation state, if any.
func (c *Controller) SupportContext(state State) (*models.SupportContext, bool) {
	raw, ok := state.Get(keySupportContext)
	if !ok {
		return nil, false
	}
	s, ok := raw.(string)
	if !ok || s == "" {
		return nil, false
	}
	var sc models.SupportContext
	if err := json.Unmarshal([]byte(s), &sc); err != nil {
		return nil, false
	}
	return &sc, true
}

// Reset drops the delegation state without restoring anything. Logout uses
// it together with Manager.Clear and a token revocation.
func (c *Controller) Reset(state State) error {
	state.Delete(keySupportContext)
	return state.Save()
}

func writeSupportContext(state State, sc models.SupportContext) error {
	b, err := json.Marshal(sc)
	if err != nil {
		return err
	}
	state.Set(keySupportContext, string(b))
	return state.Save()
}
