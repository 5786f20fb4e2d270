package gate

import (
	"context"
	"fmt"

	"github.com/layer-3/x403auth/core"
	"github.com/layer-3/x403auth/ports"
	"github.com/redis/go-redis/v9"
)

// DefaultRedisSet is the set consulted when no key is configured
const DefaultRedisSet = "x403:allowlist"

// RedisGate admits wallets that are members of a Redis set
type RedisGate struct {
	client redis.UniversalClient
	key    string
}

// NewRedisGate creates a Redis-backed allowlist gate
func NewRedisGate(client redis.UniversalClient, key string) *RedisGate {
	if key == "" {
		key = DefaultRedisSet
	}
	return &RedisGate{
		client: client,
		key:    key,
	}
}

var _ ports.AccessGate = (*RedisGate)(nil)

// Allow adds a wallet to the set
func (g *RedisGate) Allow(ctx context.Context, wallet string) error {
	if err := g.client.SAdd(ctx, g.key, wallet).Err(); err != nil {
		return fmt.Errorf("failed to allow wallet: %w", err)
	}
	return nil
}

// Revoke removes a wallet from the set
func (g *RedisGate) Revoke(ctx context.Context, wallet string) error {
	if err := g.client.SRem(ctx, g.key, wallet).Err(); err != nil {
		return fmt.Errorf("failed to revoke wallet: %w", err)
	}
	return nil
}

// Check reports whether the identity's wallet is a member of the set
func (g *RedisGate) Check(ctx context.Context, identity core.Identity) (bool, error) {
	ok, err := g.client.SIsMember(ctx, g.key, identity.WalletAddress).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check allowlist: %w", err)
	}
	return ok, nil
}
