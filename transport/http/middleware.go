package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/layer-3/x403auth/core"
	"github.com/layer-3/x403auth/service"
)

// AuthMiddleware creates gin middleware gating requests on a signed challenge
func AuthMiddleware(authenticator *service.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		decision := authenticator.Authenticate(c.Request.Context(), requestFrom(c.Request))

		if decision.Outcome != core.OutcomeAdmitted {
			c.AbortWithStatusJSON(decision.Status(), responseBody(decision))
			return
		}

		identity := *decision.Identity
		c.Set(IdentityKey, identity)
		c.Request = c.Request.WithContext(WithIdentity(c.Request.Context(), identity))

		c.Next()
	}
}

// Wrap gates a net/http handler the same way AuthMiddleware gates gin routes
func Wrap(authenticator *service.Authenticator, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		decision := authenticator.Authenticate(r.Context(), requestFrom(r))

		if decision.Outcome != core.OutcomeAdmitted {
			writeJSON(w, decision.Status(), responseBody(decision))
			return
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), *decision.Identity)))
	})
}

func requestFrom(r *http.Request) service.Request {
	return service.Request{
		Method:   r.Method,
		Path:     r.URL.EscapedPath(),
		RawQuery: r.URL.RawQuery,
		Header:   r.Header,
	}
}

// responseBody maps a non-admitted decision to its JSON body
func responseBody(d service.Decision) interface{} {
	switch d.Outcome {
	case core.OutcomeHandshake:
		return d.Challenge.Response()
	case core.OutcomeInternalFault:
		return gin.H{"error": service.ReasonInternal}
	default:
		return gin.H{"detail": d.Reason}
	}
}
