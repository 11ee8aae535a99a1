package store

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	valkey "github.com/valkey-io/valkey-go"
)

// registry tests only run against a reachable Valkey instance.
func newTestRegistry(t *testing.T) (*ValkeyTokenRegistry, valkey.Client) {
	t.Helper()
	addr := os.Getenv("AUTH_VALKEY_ADDR")
	if strings.TrimSpace(addr) == "" {
		t.Skip("no test valkey address configured")
	}
	reg, err := NewValkeyTokenRegistry(addr, "authtest:")
	require.NoError(t, err)
	t.Cleanup(reg.Close)
	cli, err := valkey.NewClient(valkey.ClientOption{InitAddress: []string{addr}})
	require.NoError(t, err)
	t.Cleanup(cli.Close)
	return reg, cli
}

func TestRegistryRegisterAndRevokeAll(t *testing.T) {
	reg, _ := newTestRegistry(t)
	ctx := context.Background()
	uid := time.Now().UnixNano()

	jti := uuid.NewString()
	require.NoError(t, reg.Register(ctx, uid, jti, time.Hour))

	active, err := reg.IsActive(ctx, jti)
	require.NoError(t, err)
	assert.True(t, active)

	require.NoError(t, reg.RevokeAll(ctx, uid))
	active, err = reg.IsActive(ctx, jti)
	require.NoError(t, err)
	assert.False(t, active)
}

func TestRegistryShortLivedTokenKeepsSetAlive(t *testing.T) {
	reg, cli := newTestRegistry(t)
	ctx := context.Background()
	uid := time.Now().UnixNano()

	long := uuid.NewString()
	short := uuid.NewString()
	require.NoError(t, reg.Register(ctx, uid, long, 8*time.Hour))
	require.NoError(t, reg.Register(ctx, uid, short, time.Hour))

	// the second registration must not shrink the set's TTL below the
	// still-valid first token, or RevokeAll would miss it
	ttl, err := cli.Do(ctx, cli.B().Ttl().Key("authtest:"+userKey(uid)).Build()).AsInt64()
	require.NoError(t, err)
	assert.Greater(t, ttl, int64((7 * time.Hour).Seconds()))

	require.NoError(t, reg.RevokeAll(ctx, uid))
	for _, jti := range []string{long, short} {
		active, err := reg.IsActive(ctx, jti)
		require.NoError(t, err)
		assert.False(t, active, jti)
	}
}
