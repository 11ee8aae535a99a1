package store

import (
	"context"
	"strconv"
	"time"

	valkey "github.com/valkey-io/valkey-go"
)

// ValkeyTokenRegistry tracks the set of live access-token ids (jti) per user
// in Valkey, so a user's tokens can be revoked as a group. Keys expire with
// the token TTL; revocation deletes them eagerly.
type ValkeyTokenRegistry struct {
	client valkey.Client
	prefix string
}

// NewValkeyTokenRegistry connects to Valkey. prefix namespaces keys; empty
// defaults to "auth:".
func NewValkeyTokenRegistry(addr string, prefix string) (*ValkeyTokenRegistry, error) {
	cli, err := valkey.NewClient(valkey.ClientOption{InitAddress: []string{addr}})
	if err != nil {
		return nil, err
	}
	if prefix == "" {
		prefix = "auth:"
	}
	return &ValkeyTokenRegistry{client: cli, prefix: prefix}, nil
}

func (r *ValkeyTokenRegistry) key(k string) string { return r.prefix + k }

func userKey(userID int64) string { return "user:" + strconv.FormatInt(userID, 10) + ":tokens" }

// Register records a freshly issued access token under its owner.
func (r *ValkeyTokenRegistry) Register(ctx context.Context, userID int64, jti string, ttl time.Duration) error {
	uid := strconv.FormatInt(userID, 10)
	if err := r.client.Do(ctx, r.client.B().Set().Key(r.key("access:"+jti)).Value(uid).Ex(ttl).Build()).Error(); err != nil {
		return err
	}
	// membership set for revoke-all; its TTL may only grow, so registering a
	// short-lived token never cuts the set's life below a longer-lived member
	if err := r.client.Do(ctx, r.client.B().Sadd().Key(r.key(userKey(userID))).Member(jti).Build()).Error(); err != nil {
		return err
	}
	secs := int64(ttl.Seconds())
	if err := r.client.Do(ctx, r.client.B().Expire().Key(r.key(userKey(userID))).Seconds(secs).Nx().Build()).Error(); err != nil {
		return err
	}
	return r.client.Do(ctx, r.client.B().Expire().Key(r.key(userKey(userID))).Seconds(secs).Gt().Build()).Error()
}

// IsActive reports whether the token id is still registered (not revoked, not
// expired).
func (r *ValkeyTokenRegistry) IsActive(ctx context.Context, jti string) (bool, error) {
	res := r.client.Do(ctx, r.client.B().Exists().Key(r.key("access:"+jti)).Build())
	if res.Error() != nil {
		return false, res.Error()
	}
	n, err := res.AsInt64()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// RevokeAll deletes every registered token of the user.
func (r *ValkeyTokenRegistry) RevokeAll(ctx context.Context, userID int64) error {
	setKey := r.key(userKey(userID))
	res := r.client.Do(ctx, r.client.B().Smembers().Key(setKey).Build())
	if res.Error() != nil {
		return res.Error()
	}
	members, err := res.AsStrSlice()
	if err != nil {
		return err
	}
	for _, jti := range members {
		if err := r.client.Do(ctx, r.client.B().Del().Key(r.key("access:"+jti)).Build()).Error(); err != nil {
			return err
		}
	}
	return r.client.Do(ctx, r.client.B().Del().Key(setKey).Build()).Error()
}

// Close releases the underlying client.
func (r *ValkeyTokenRegistry) Close() { r.client.Close() }
