package ports

import (
	"context"

	"github.com/layer-3/x403auth/core"
)

// AccessGate decides whether a verified identity may proceed.
// Implementations may perform I/O and should honour ctx cancellation.
type AccessGate interface {
	Check(ctx context.Context, identity core.Identity) (bool, error)
}

// GateFunc adapts a plain function to AccessGate
type GateFunc func(ctx context.Context, identity core.Identity) (bool, error)

// Check calls f
func (f GateFunc) Check(ctx context.Context, identity core.Identity) (bool, error) {
	return f(ctx, identity)
}
