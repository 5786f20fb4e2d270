package gate

import (
	"context"
	"sync/atomic"

	"github.com/layer-3/x403auth/core"
	"github.com/layer-3/x403auth/ports"
	"golang.org/x/sync/errgroup"
)

// All admits only when every gate admits. Gates run concurrently and the
// remaining checks are cancelled as soon as one denies or fails.
func All(gates ...ports.AccessGate) ports.AccessGate {
	return ports.GateFunc(func(ctx context.Context, identity core.Identity) (bool, error) {
		g, gctx := errgroup.WithContext(ctx)
		var denied atomic.Bool

		for _, gate := range gates {
			gate := gate
			g.Go(func() error {
				ok, err := gate.Check(gctx, identity)
				if err != nil {
					return err
				}
				if !ok {
					denied.Store(true)
					return core.ErrAccessDenied
				}
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			if denied.Load() {
				return false, nil
			}
			return false, err
		}
		return true, nil
	})
}

// Any admits when at least one gate admits. Gates are tried in order; an
// error from one gate is remembered and only returned if no gate admits.
func Any(gates ...ports.AccessGate) ports.AccessGate {
	return ports.GateFunc(func(ctx context.Context, identity core.Identity) (bool, error) {
		var firstErr error
		for _, gate := range gates {
			ok, err := gate.Check(ctx, identity)
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				continue
			}
			if ok {
				return true, nil
			}
		}
		return false, firstErr
	})
}
