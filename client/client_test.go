package client

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gin-gonic/gin"
	"github.com/layer-3/x403auth/adapters/gate"
	"github.com/layer-3/x403auth/adapters/scheme"
	"github.com/layer-3/x403auth/core"
	"github.com/layer-3/x403auth/internal/eth"
	"github.com/layer-3/x403auth/service"
	transport "github.com/layer-3/x403auth/transport/http"
	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEd25519Signer(t *testing.T) *Ed25519Signer {
	t.Helper()
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	signer, err := NewEd25519Signer(priv)
	require.NoError(t, err)
	return signer
}

func newServer(t *testing.T, opts ...service.Option) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(transport.SetupRouter(service.NewAuthenticator(opts...)))
	t.Cleanup(srv.Close)
	return srv
}

func decode(t *testing.T, resp *http.Response) map[string]string {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestNewEd25519SignerRejectsShortKey(t *testing.T) {
	_, err := NewEd25519Signer(make([]byte, 10))
	assert.Error(t, err)
}

func TestClientAnswersChallengeEd25519(t *testing.T) {
	srv := newServer(t)
	signer := newEd25519Signer(t)
	c := New(signer, srv.Client())

	resp, err := c.Get(context.Background(), srv.URL+"/api/profile?tab=nfts")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode(t, resp)
	assert.Equal(t, signer.Wallet(), body["wallet"])
	assert.Equal(t, signer.Wallet(), body["publicKey"])
	assert.Equal(t, "ed25519", body["scheme"])
}

func TestClientAnswersChallengeEVM(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	signer := NewEVMSigner(eth.NewLocalSigner(key))

	srv := newServer(t, service.WithSchemes(scheme.NewEd25519(), scheme.NewEVM()))
	resp, err := New(signer, srv.Client()).Get(context.Background(), srv.URL+"/api/profile")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode(t, resp)
	assert.Equal(t, signer.Wallet(), body["wallet"])
	assert.Equal(t, crypto.PubkeyToAddress(key.PublicKey).Hex(), body["publicKey"])
	assert.Equal(t, "evm", body["scheme"])
}

func TestClientPublicRouteSingleRoundTrip(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Empty(t, r.Header.Get(core.HeaderSignature))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	resp, err := New(newEd25519Signer(t), srv.Client()).Get(context.Background(), srv.URL+"/open")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClientResendsBody(t *testing.T) {
	var bodies []string
	h := transport.Wrap(service.NewAuthenticator(), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(data))
		w.WriteHeader(http.StatusAccepted)
	}))
	srv := httptest.NewServer(h)
	defer srv.Close()

	resp, err := New(newEd25519Signer(t), srv.Client()).Post(context.Background(), srv.URL+"/items", []byte(`{"n":1}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.Equal(t, []string{`{"n":1}`}, bodies)
}

func TestClientReturnsGateDenial(t *testing.T) {
	srv := newServer(t, service.WithAccessGate(gate.NewMemoryGate()))

	resp, err := New(newEd25519Signer(t), srv.Client()).Get(context.Background(), srv.URL+"/api/profile")
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, service.ReasonAccessDenied, decode(t, resp)["detail"])
}

func TestClientAdmittedByAllowlist(t *testing.T) {
	signer := newEd25519Signer(t)
	srv := newServer(t, service.WithAccessGate(gate.NewMemoryGate(signer.Wallet())))

	resp, err := New(signer, srv.Client()).Get(context.Background(), srv.URL+"/api/profile")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestClientRefusesExpiredChallenge(t *testing.T) {
	issued := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	srv := newServer(t, service.WithClock(func() time.Time { return issued }))

	late := func() time.Time { return issued.Add(2 * time.Minute) }
	_, err := New(newEd25519Signer(t), srv.Client(), WithClock(late)).Get(context.Background(), srv.URL+"/api/profile")
	require.Error(t, err)
	assert.True(t, IsChallengeExpired(err))
}

func TestClientCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(newEd25519Signer(t), nil).Get(ctx, "http://127.0.0.1:1/")
	assert.Error(t, err)
}

func TestEd25519SignerWalletIsBase58PublicKey(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	signer, err := NewEd25519Signer(priv)
	require.NoError(t, err)

	assert.Equal(t, base58.Encode(pub), signer.Wallet())
	sig, err := signer.Sign([]byte("m"))
	require.NoError(t, err)
	assert.True(t, ed25519.Verify(pub, []byte("m"), sig))
}
