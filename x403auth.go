// Package x403auth gates HTTP endpoints behind a stateless wallet signature
// challenge.
//
// A request without credentials is answered with 403 and a fresh challenge.
// The client signs "METHOD\nPATH\nCHALLENGE\nNONCE" with its wallet key and
// resends the request with the x-auth-* headers. The server verifies the
// signature, consults the optional access gate and admits the request.
//
//	auth := x403auth.New(x403auth.WithAccessGate(gate.NewMemoryGate(wallet)))
//	router.GET("/api/profile", auth.Middleware(), profile)
package x403auth

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/layer-3/x403auth/core"
	"github.com/layer-3/x403auth/service"
	transport "github.com/layer-3/x403auth/transport/http"
)

// Option configures an Auth
type Option = service.Option

// Identity is the verified wallet attached to admitted requests
type Identity = core.Identity

// Configuration options
var (
	WithChallengeExpiry    = service.WithChallengeExpiry
	WithAccessGate         = service.WithAccessGate
	WithNonceGenerator     = service.WithNonceGenerator
	WithSchemes            = service.WithSchemes
	WithChallengeValidator = service.WithChallengeValidator
	WithEventPublisher     = service.WithEventPublisher
	WithLogger             = service.WithLogger
	WithClock              = service.WithClock
)

// Auth is a configured wallet signature gate
type Auth struct {
	authenticator *service.Authenticator
}

// New creates a gate from the defaults and opts
func New(opts ...Option) *Auth {
	return &Auth{authenticator: service.NewAuthenticator(opts...)}
}

// Middleware returns gin middleware admitting only signed requests
func (a *Auth) Middleware() gin.HandlerFunc {
	return transport.AuthMiddleware(a.authenticator)
}

// Handler wraps next so it only runs for signed requests
func (a *Auth) Handler(next http.Handler) http.Handler {
	return transport.Wrap(a.authenticator, next)
}

// Authenticate classifies r without writing a response
func (a *Auth) Authenticate(ctx context.Context, r *http.Request) service.Decision {
	return a.authenticator.Authenticate(ctx, service.Request{
		Method:   r.Method,
		Path:     r.URL.EscapedPath(),
		RawQuery: r.URL.RawQuery,
		Header:   r.Header,
	})
}

// IdentityFromContext returns the identity of an admitted request
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	return transport.IdentityFromContext(ctx)
}
