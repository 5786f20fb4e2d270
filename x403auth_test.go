package x403auth_test

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/layer-3/x403auth"
	"github.com/layer-3/x403auth/adapters/gate"
	"github.com/layer-3/x403auth/core"
	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, priv ed25519.PrivateKey, method, target string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	fullPath := core.FullPath(req.URL.EscapedPath(), req.URL.RawQuery)
	sig := ed25519.Sign(priv, core.CanonicalMessage(method, fullPath, "abc", "abc"))

	req.Header.Set(core.HeaderWallet, base58.Encode(priv.Public().(ed25519.PublicKey)))
	req.Header.Set(core.HeaderSignature, base64.StdEncoding.EncodeToString(sig))
	req.Header.Set(core.HeaderChallenge, "abc")
	req.Header.Set(core.HeaderMethod, method)
	req.Header.Set(core.HeaderPath, fullPath)
	return req
}

func TestHandler(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	auth := x403auth.New()
	h := auth.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := x403auth.IdentityFromContext(r.Context())
		assert.True(t, ok)
		_, _ = w.Write([]byte(id.Scheme))
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/data", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, signed(t, priv, http.MethodGet, "/data?x=1"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ed25519", w.Body.String())
}

func TestMiddlewareWithGate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	wallet := base58.Encode(priv.Public().(ed25519.PublicKey))

	allow := gate.NewMemoryGate()
	auth := x403auth.New(x403auth.WithAccessGate(allow))
	router := gin.New()
	router.GET("/vault", auth.Middleware(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, signed(t, priv, http.MethodGet, "/vault"))
	assert.Equal(t, http.StatusForbidden, w.Code)

	allow.Allow(wallet)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, signed(t, priv, http.MethodGet, "/vault"))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestAuthenticateExposesCause(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	req := signed(t, priv, http.MethodGet, "/x")
	req.Header.Set(core.HeaderChallenge, "tampered")

	d := x403auth.New().Authenticate(context.Background(), req)
	assert.Equal(t, http.StatusUnauthorized, d.Status())
	assert.True(t, errors.Is(d.Err, x403auth.ErrInvalidSignature))
}
