package mirror

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saracristina-sh3/auth-suite-sub000/models"
)

type fakeAPI struct {
	mu       sync.Mutex
	switches []int64
	snaps    map[int64]*models.ActiveAutarquia
}

func (f *fakeAPI) SetActiveAutarquia(_ context.Context, autarquiaID int64) (*models.ActiveAutarquia, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.switches = append(f.switches, autarquiaID)
	if snap, ok := f.snaps[autarquiaID]; ok {
		return snap, nil
	}
	return &models.ActiveAutarquia{ID: autarquiaID, Nome: "autarquia", Ativo: true}, nil
}

// signal is a tiny latch for observing callbacks from the watcher goroutine.
type signal struct {
	mu    sync.Mutex
	fired int
}

func (s *signal) fire() {
	s.mu.Lock()
	s.fired++
	s.mu.Unlock()
}

func (s *signal) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fired
}

func (s *signal) waitFor(t *testing.T, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if s.count() >= want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("signal not fired %d times (got %d)", want, s.count())
}

// settle gives the watcher goroutines started by twoTabs time to subscribe
// before the next cross-tab write; storage has no replay for late subscribers.
func settle() { time.Sleep(50 * time.Millisecond) }

func twoTabs(t *testing.T) (*Mirror, *Mirror, *Storage, *fakeAPI, context.CancelFunc) {
	t.Helper()
	storage := NewStorage()
	api := &fakeAPI{}
	a := New("tab-a", storage, api)
	b := New("tab-b", storage, api)
	ctx, cancel := context.WithCancel(context.Background())
	go a.Run(ctx)
	go b.Run(ctx)
	return a, b, storage, api, cancel
}

func TestLogoutPropagatesToOtherTabsOnly(t *testing.T) {
	a, b, _, _, cancel := twoTabs(t)
	defer cancel()

	var aLogout, bLogout signal
	a.OnLogout = aLogout.fire
	b.OnLogout = bLogout.fire

	require.NoError(t, a.SetSession("tok", "ref", time.Now().Add(time.Hour).Unix(), UserState{ID: 10, Nome: "Ana"}))
	settle()
	a.Logout()

	bLogout.waitFor(t, 1)
	// the acting tab handles its own logout synchronously, never via the watcher
	assert.Equal(t, 0, aLogout.count())
}

func TestTenantSwitchReloadsObservers(t *testing.T) {
	a, b, _, api, cancel := twoTabs(t)
	defer cancel()

	var aReload, bReload signal
	a.OnReload = aReload.fire
	b.OnReload = bReload.fire

	require.NoError(t, a.SetSession("tok", "ref", time.Now().Add(time.Hour).Unix(), UserState{ID: 10, Nome: "Ana"}))
	settle()
	require.NoError(t, a.SwitchTenant(context.Background(), 2))

	assert.Equal(t, []int64{2}, api.switches)
	// the acting tab reloads itself once, synchronously
	assert.Equal(t, 1, aReload.count())
	// the observer reloads because the snapshot's tenant changed
	bReload.waitFor(t, 1)

	u, ok := b.User()
	require.True(t, ok)
	require.NotNil(t, u.AutarquiaAtivaID)
	assert.EqualValues(t, 2, *u.AutarquiaAtivaID)
}

func TestUnrelatedUserUpdateDoesNotReload(t *testing.T) {
	a, b, _, _, cancel := twoTabs(t)
	defer cancel()

	var bReload signal
	b.OnReload = bReload.fire

	one := int64(1)
	require.NoError(t, a.SetSession("tok", "ref", time.Now().Add(time.Hour).Unix(), UserState{ID: 10, Nome: "Ana", AutarquiaAtivaID: &one}))
	settle()
	// same tenant, different name: must not trigger a reload in tab B
	require.NoError(t, a.SetSession("tok", "ref", time.Now().Add(time.Hour).Unix(), UserState{ID: 10, Nome: "Ana Paula", AutarquiaAtivaID: &one}))

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 0, bReload.count())
}

func TestSupportToggleReloadsObservers(t *testing.T) {
	a, b, _, _, cancel := twoTabs(t)
	defer cancel()

	var bReload signal
	b.OnReload = bReload.fire

	require.NoError(t, a.SetSession("tok", "ref", time.Now().Add(time.Hour).Unix(), UserState{ID: 1, Nome: "Suporte", IsSuperadmin: true}))
	settle()
	require.NoError(t, a.EnterSupport("temp-token", models.SupportContext{SupportMode: true, AutarquiaID: 2}))
	bReload.waitFor(t, 1)

	a.ExitSupport("tok2", "ref2")
	bReload.waitFor(t, 2)
}

func TestExitSupportRestoresBackedUpUser(t *testing.T) {
	a, _, storage, _, cancel := twoTabs(t)
	defer cancel()

	one := int64(1)
	require.NoError(t, a.SetSession("tok", "ref", time.Now().Add(time.Hour).Unix(), UserState{ID: 1, Nome: "Suporte", IsSuperadmin: true, AutarquiaAtivaID: &one}))
	require.NoError(t, a.EnterSupport("temp-token", models.SupportContext{SupportMode: true, AutarquiaID: 2, OriginalAutarquiaID: &one}))

	tok, _ := storage.Get(KeyAccessToken)
	assert.Equal(t, "temp-token", tok)
	_, hasBackup := storage.Get(KeyUserBackup)
	assert.True(t, hasBackup)

	a.ExitSupport("tok2", "ref2")

	tok, _ = storage.Get(KeyAccessToken)
	assert.Equal(t, "tok2", tok)
	_, hasBackup = storage.Get(KeyUserBackup)
	assert.False(t, hasBackup)
	_, hasSupport := storage.Get(KeySupportContext)
	assert.False(t, hasSupport)

	u, ok := a.User()
	require.True(t, ok)
	assert.Equal(t, "Suporte", u.Nome)
	require.NotNil(t, u.AutarquiaAtivaID)
	assert.EqualValues(t, 1, *u.AutarquiaAtivaID)
}

func TestWatchSkipsOwnOrigin(t *testing.T) {
	storage := NewStorage()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	own := storage.Watch(ctx, "tab-a")
	other := storage.Watch(ctx, "tab-b")

	storage.Set("tab-a", "k", "v")

	select {
	case evt := <-other:
		assert.Equal(t, "tab-a", evt.Origin)
		assert.Equal(t, "k", evt.Key)
		assert.Equal(t, "", evt.Old)
		assert.Equal(t, "v", evt.New)
	case <-time.After(time.Second):
		t.Fatal("observer never received the event")
	}

	select {
	case evt := <-own:
		t.Fatalf("origin received its own event: %+v", evt)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestWatchClosesOnContextEnd(t *testing.T) {
	storage := NewStorage()
	ctx, cancel := context.WithCancel(context.Background())
	ch := storage.Watch(ctx, "tab-a")
	cancel()

	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("channel never closed")
	}
}
