package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/layer-3/x403auth/core"
	"github.com/rs/zerolog"
)

// maxChallengeBody bounds how much of a 403 body is read looking for a challenge
const maxChallengeBody = 64 << 10

// Client is an HTTP client that answers x403 challenges automatically
type Client struct {
	signer     Signer
	httpClient *http.Client
	logger     zerolog.Logger
	now        func() time.Time
}

// Option configures a Client
type Option func(*Client)

// WithLogger sets the logger used for handshake diagnostics
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithClock overrides the clock used to check challenge expiry
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// New creates a client signing as signer.
// If httpClient is nil, http.DefaultClient is used.
func New(signer Signer, httpClient *http.Client, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	c := &Client{
		signer:     signer,
		httpClient: httpClient,
		logger:     zerolog.Nop(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Wallet returns the wallet the client authenticates as
func (c *Client) Wallet() string {
	return c.signer.Wallet()
}

// Do sends req, and if the server answers with a challenge, signs it and
// retries once. Any other response is returned unchanged.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	body, err := bufferBody(req)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(withBody(req.WithContext(ctx), body))
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	if resp.StatusCode != http.StatusForbidden {
		return resp, nil
	}

	challenge, ok, err := readChallenge(resp)
	if err != nil {
		return nil, err
	}
	if !ok {
		// a gate denial, not a handshake
		return resp, nil
	}

	if challenge.ExpiresAt > 0 && !c.now().Before(challenge.Expiry()) {
		return nil, fmt.Errorf("%w: expired at %s", core.ErrChallengeExpired, challenge.Expiry().UTC().Format(time.RFC3339))
	}

	signed := req.Clone(ctx)
	if err := c.sign(signed, challenge); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("method", signed.Method).
		Str("path", signed.URL.EscapedPath()).
		Str("wallet", c.signer.Wallet()).
		Msg("answering challenge")

	resp, err = c.httpClient.Do(withBody(signed, body))
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	return resp, nil
}

// Get sends a GET request, answering a challenge if one is issued
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create GET request: %w", err)
	}
	return c.Do(ctx, req)
}

// Post sends a POST request with a JSON body, answering a challenge if one is issued
func (c *Client) Post(ctx context.Context, url string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create POST request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.Do(ctx, req)
}

// sign sets the x-auth-* headers on req for challenge
func (c *Client) sign(req *http.Request, challenge core.ChallengeResponse) error {
	method := strings.ToUpper(req.Method)
	fullPath := core.FullPath(req.URL.EscapedPath(), req.URL.RawQuery)

	sig, err := c.signer.Sign(core.CanonicalMessage(method, fullPath, challenge.Challenge, challenge.Nonce))
	if err != nil {
		return fmt.Errorf("failed to sign challenge: %w", err)
	}

	req.Header.Set(core.HeaderWallet, c.signer.Wallet())
	req.Header.Set(core.HeaderSignature, base64.StdEncoding.EncodeToString(sig))
	req.Header.Set(core.HeaderChallenge, challenge.Challenge)
	req.Header.Set(core.HeaderMethod, method)
	req.Header.Set(core.HeaderPath, fullPath)
	return nil
}

// readChallenge decodes a challenge from a 403 body. When the body is not a
// challenge, resp.Body is restored so the caller can still read it.
func readChallenge(resp *http.Response) (core.ChallengeResponse, bool, error) {
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxChallengeBody))
	_ = resp.Body.Close()
	if err != nil {
		return core.ChallengeResponse{}, false, fmt.Errorf("failed to read challenge response: %w", err)
	}

	var challenge core.ChallengeResponse
	if err := json.Unmarshal(data, &challenge); err != nil || challenge.Challenge == "" {
		resp.Body = io.NopCloser(bytes.NewReader(data))
		return core.ChallengeResponse{}, false, nil
	}
	return challenge, true, nil
}

func bufferBody(req *http.Request) ([]byte, error) {
	if req.Body == nil || req.Body == http.NoBody {
		return nil, nil
	}
	defer req.Body.Close()

	data, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	return data, nil
}

// withBody resets req's body so the same payload can be sent twice
func withBody(req *http.Request, body []byte) *http.Request {
	if body == nil {
		req.Body = http.NoBody
		req.GetBody = func() (io.ReadCloser, error) { return http.NoBody, nil }
		req.ContentLength = 0
		return req
	}
	req.Body = io.NopCloser(bytes.NewReader(body))
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(body)), nil
	}
	req.ContentLength = int64(len(body))
	return req
}

// IsChallengeExpired reports whether err came from an expired challenge
func IsChallengeExpired(err error) bool {
	return errors.Is(err, core.ErrChallengeExpired)
}
