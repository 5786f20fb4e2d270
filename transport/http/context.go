package http

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/layer-3/x403auth/core"
)

// IdentityKey is the gin context key holding the verified identity
const IdentityKey = "x403.identity"

type identityContextKey struct{}

// WithIdentity attaches a verified identity to ctx
func WithIdentity(ctx context.Context, identity core.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, identity)
}

// IdentityFromContext returns the identity attached by the middleware.
// It is only present on admitted requests.
func IdentityFromContext(ctx context.Context) (core.Identity, bool) {
	if ctx == nil {
		return core.Identity{}, false
	}
	identity, ok := ctx.Value(identityContextKey{}).(core.Identity)
	return identity, ok
}

// IdentityFromGin returns the identity stored on a gin context
func IdentityFromGin(c *gin.Context) (core.Identity, bool) {
	value, exists := c.Get(IdentityKey)
	if !exists {
		return IdentityFromContext(c.Request.Context())
	}
	identity, ok := value.(core.Identity)
	return identity, ok
}
