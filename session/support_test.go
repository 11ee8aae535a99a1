package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saracristina-sh3/auth-suite-sub000/errs"
	"github.com/saracristina-sh3/auth-suite-sub000/models"
	"github.com/saracristina-sh3/auth-suite-sub000/token"
)

type fakeIssuer struct {
	pairs int
	temps int
}

func (f *fakeIssuer) IssuePair(_ context.Context, user *models.User, _ []string) (*token.Pair, error) {
	f.pairs++
	return &token.Pair{AccessToken: "access", RefreshToken: "refresh", ExpiresIn: 3600}, nil
}

func (f *fakeIssuer) IssueTemporary(_ context.Context, _ *models.User, _ []string, ttl time.Duration) (string, error) {
	f.temps++
	return "temporary-token", nil
}

// fakeUsers backs both the manager's preference writes and the controller's
// user reads, so a preference update is visible on the next GetByID.
type fakeUsers struct {
	users map[int64]*models.User
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) SetPreferredAutarquia(_ context.Context, userID int64, autarquiaID *int64) error {
	u, ok := f.users[userID]
	if !ok {
		return errs.ErrNotFound
	}
	u.AutarquiaAtivaID = autarquiaID
	return nil
}

func testController() (*Controller, *fakeIssuer, *fakeUsers) {
	tenants := &fakeTenants{tenants: map[int64]*models.Autarquia{
		1: {ID: 1, Nome: "Prefeitura de Horizonte Azul", Sigla: "PHA", Ativo: true},
		2: {ID: 2, Nome: "Instituto de Previdência Municipal", Sigla: "IPM", Ativo: true},
		3: {ID: 3, Nome: "Fundação Cultural Encerrada", Sigla: "FCE", Ativo: false},
		4: {ID: 4, Nome: "Serviço Autônomo de Água e Esgoto", Sigla: "SAAE", Ativo: true},
	}}
	access := &fakeAccess{allowed: map[int64]map[int64]bool{}}
	users := &fakeUsers{users: map[int64]*models.User{
		1: {ID: 1, Nome: "Suporte SH3", IsSuperadmin: true, Ativo: true},
	}}
	mgr := NewManager(tenants, access, users)
	issuer := &fakeIssuer{}
	return NewController(mgr, issuer, users), issuer, users
}

func TestAssumeRequiresSuperuser(t *testing.T) {
	ctrl, _, _ := testController()
	state := newFakeState()

	_, err := ctrl.Assume(context.Background(), state, &models.User{ID: 5, Ativo: true}, 1)
	assert.ErrorIs(t, err, errs.ErrNotSuperuser)
}

func TestAssumeCapturesOriginalBeforeSwitch(t *testing.T) {
	ctrl, issuer, users := testController()
	state := newFakeState()
	orig := int64(2)
	users.users[1].AutarquiaAtivaID = &orig
	root, _ := users.GetByID(context.Background(), 1)

	assumption, err := ctrl.Assume(context.Background(), state, root, 1)
	require.NoError(t, err)

	assert.Equal(t, "temporary-token", assumption.TemporaryToken)
	assert.True(t, assumption.Context.SupportMode)
	assert.EqualValues(t, 1, assumption.Context.AutarquiaID)
	require.NotNil(t, assumption.Context.OriginalAutarquiaID)
	assert.EqualValues(t, 2, *assumption.Context.OriginalAutarquiaID)
	assert.EqualValues(t, 1, assumption.Autarquia.ID)
	assert.Equal(t, 1, issuer.temps)

	// the switch overwrote the durable preference, the capture survived
	fresh, _ := users.GetByID(context.Background(), 1)
	require.NotNil(t, fresh.AutarquiaAtivaID)
	assert.EqualValues(t, 1, *fresh.AutarquiaAtivaID)
}

func TestAssumeInactiveTenant(t *testing.T) {
	ctrl, _, users := testController()
	state := newFakeState()
	root, _ := users.GetByID(context.Background(), 1)

	_, err := ctrl.Assume(context.Background(), state, root, 3)
	assert.ErrorIs(t, err, errs.ErrTenantInactive)
	_, ok := ctrl.SupportContext(state)
	assert.False(t, ok)
}

func TestExitRestoresOriginalTenant(t *testing.T) {
	ctrl, issuer, users := testController()
	state := newFakeState()
	orig := int64(2)
	users.users[1].AutarquiaAtivaID = &orig
	root, _ := users.GetByID(context.Background(), 1)

	_, err := ctrl.Assume(context.Background(), state, root, 1)
	require.NoError(t, err)

	pair, err := ctrl.Exit(context.Background(), state, root)
	require.NoError(t, err)
	assert.Equal(t, "access", pair.AccessToken)
	assert.Equal(t, 1, issuer.pairs)

	// session back on the original tenant, delegation state gone
	snap, ok := ctrl.mgr.Get(state)
	require.True(t, ok)
	assert.EqualValues(t, 2, snap.ID)
	_, ok = ctrl.SupportContext(state)
	assert.False(t, ok)

	fresh, _ := users.GetByID(context.Background(), 1)
	require.NotNil(t, fresh.AutarquiaAtivaID)
	assert.EqualValues(t, 2, *fresh.AutarquiaAtivaID)
}

func TestReassumeWithoutExitKeepsFirstCapture(t *testing.T) {
	ctrl, _, users := testController()
	state := newFakeState()
	orig := int64(2)
	users.users[1].AutarquiaAtivaID = &orig
	root, _ := users.GetByID(context.Background(), 1)

	_, err := ctrl.Assume(context.Background(), state, root, 1)
	require.NoError(t, err)

	// second assume without an exit retargets the delegation but must not
	// recapture the assumed tenant as "original"
	second, err := ctrl.Assume(context.Background(), state, root, 4)
	require.NoError(t, err)
	assert.EqualValues(t, 4, second.Context.AutarquiaID)
	require.NotNil(t, second.Context.OriginalAutarquiaID)
	assert.EqualValues(t, 2, *second.Context.OriginalAutarquiaID)

	_, err = ctrl.Exit(context.Background(), state, root)
	require.NoError(t, err)

	snap, ok := ctrl.mgr.Get(state)
	require.True(t, ok)
	assert.EqualValues(t, 2, snap.ID)
	fresh, _ := users.GetByID(context.Background(), 1)
	require.NotNil(t, fresh.AutarquiaAtivaID)
	assert.EqualValues(t, 2, *fresh.AutarquiaAtivaID)
}

func TestReassumeWithNullOriginalStaysNull(t *testing.T) {
	ctrl, _, users := testController()
	state := newFakeState()
	root, _ := users.GetByID(context.Background(), 1)
	require.Nil(t, root.AutarquiaAtivaID)

	_, err := ctrl.Assume(context.Background(), state, root, 1)
	require.NoError(t, err)
	second, err := ctrl.Assume(context.Background(), state, root, 2)
	require.NoError(t, err)
	assert.Nil(t, second.Context.OriginalAutarquiaID)

	_, err = ctrl.Exit(context.Background(), state, root)
	require.NoError(t, err)

	// the pre-delegation context was null, so exit restores null
	_, ok := ctrl.mgr.Get(state)
	assert.False(t, ok)
	fresh, _ := users.GetByID(context.Background(), 1)
	assert.Nil(t, fresh.AutarquiaAtivaID)
}

func TestExitWithNullOriginalClearsEverything(t *testing.T) {
	ctrl, _, users := testController()
	state := newFakeState()
	root, _ := users.GetByID(context.Background(), 1)
	require.Nil(t, root.AutarquiaAtivaID)

	_, err := ctrl.Assume(context.Background(), state, root, 1)
	require.NoError(t, err)

	_, err = ctrl.Exit(context.Background(), state, root)
	require.NoError(t, err)

	// no fallback tenant is invented: session and preference are both null
	_, ok := ctrl.mgr.Get(state)
	assert.False(t, ok)
	fresh, _ := users.GetByID(context.Background(), 1)
	assert.Nil(t, fresh.AutarquiaAtivaID)
}

func TestExitWithoutDelegation(t *testing.T) {
	ctrl, _, users := testController()
	state := newFakeState()
	root, _ := users.GetByID(context.Background(), 1)

	_, err := ctrl.Exit(context.Background(), state, root)
	assert.ErrorIs(t, err, errs.ErrNotDelegated)
}

func TestResetDropsDelegationWithoutRestore(t *testing.T) {
	ctrl, _, users := testController()
	state := newFakeState()
	orig := int64(2)
	users.users[1].AutarquiaAtivaID = &orig
	root, _ := users.GetByID(context.Background(), 1)

	_, err := ctrl.Assume(context.Background(), state, root, 1)
	require.NoError(t, err)

	require.NoError(t, ctrl.Reset(state))
	_, ok := ctrl.SupportContext(state)
	assert.False(t, ok)

	// no restore happened: the preference still points at the assumed tenant
	fresh, _ := users.GetByID(context.Background(), 1)
	require.NotNil(t, fresh.AutarquiaAtivaID)
	assert.EqualValues(t, 1, *fresh.AutarquiaAtivaID)
}
