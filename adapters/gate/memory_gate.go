// Package gate provides AccessGate implementations.
package gate

import (
	"context"
	"sync"

	"github.com/layer-3/x403auth/core"
	"github.com/layer-3/x403auth/ports"
)

// MemoryGate admits wallets present in an in-memory allowlist
type MemoryGate struct {
	allowed map[string]struct{}
	mu      sync.RWMutex
}

// NewMemoryGate creates a gate admitting the given wallet addresses
func NewMemoryGate(wallets ...string) *MemoryGate {
	g := &MemoryGate{
		allowed: make(map[string]struct{}, len(wallets)),
	}
	for _, w := range wallets {
		g.allowed[w] = struct{}{}
	}
	return g
}

var _ ports.AccessGate = (*MemoryGate)(nil)

// Allow adds a wallet to the allowlist
func (g *MemoryGate) Allow(wallet string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.allowed[wallet] = struct{}{}
}

// Revoke removes a wallet from the allowlist
func (g *MemoryGate) Revoke(wallet string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.allowed, wallet)
}

// Check reports whether the identity's wallet is allowlisted
func (g *MemoryGate) Check(ctx context.Context, identity core.Identity) (bool, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	_, ok := g.allowed[identity.WalletAddress]
	return ok, nil
}
