package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/layer-3/x403auth/core"
	"github.com/layer-3/x403auth/ports"
)

// Public rejection reasons
const (
	ReasonMissingHeaders   = "Missing required headers"
	ReasonInvalidPublicKey = "Invalid public key format"
	ReasonInvalidSigFormat = "Invalid signature format"
	ReasonInvalidSignature = "Invalid signature"
	ReasonAccessDenied     = "Access denied: gate conditions not met"
	ReasonInternal         = "Internal server error"
)

// Request is the transport-neutral view of an inbound request
type Request struct {
	Method   string
	Path     string // escaped path, without query
	RawQuery string
	Header   http.Header
}

// Decision is the result of authenticating one request
type Decision struct {
	Outcome   core.Outcome
	Reason    string          // public reason for rejections
	Err       error           // internal cause, never sent to clients
	Challenge *core.Challenge // set for OutcomeHandshake
	Identity  *core.Identity  // set for OutcomeAdmitted
}

// Status returns the HTTP status for the decision
func (d Decision) Status() int {
	return d.Outcome.StatusCode()
}

// Authenticator runs the challenge-response pipeline. It holds no
// per-request state and is safe for concurrent use.
type Authenticator struct {
	cfg    Config
	issuer *ChallengeIssuer
}

// NewAuthenticator creates an authenticator from the default config and opts
func NewAuthenticator(opts ...Option) *Authenticator {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Authenticator{
		cfg:    cfg,
		issuer: NewChallengeIssuer(cfg.ChallengeExpiry, cfg.NonceGenerator, cfg.Clock),
	}
}

// Issuer returns the challenge issuer
func (a *Authenticator) Issuer() *ChallengeIssuer {
	return a.issuer
}

// Authenticate classifies req as a handshake, a rejection or an admission
func (a *Authenticator) Authenticate(ctx context.Context, req Request) Decision {
	d := a.decide(ctx, req)
	a.report(ctx, req, d)
	return d
}

// decide runs the pipeline. Any panic raised by a configured validator,
// scheme or gate is converted into an internal fault.
func (a *Authenticator) decide(ctx context.Context, req Request) (d Decision) {
	defer func() {
		if r := recover(); r != nil {
			d = reject(core.OutcomeInternalFault, ReasonInternal, fmt.Errorf("%w: panic: %v", core.ErrInternal, r))
		}
	}()

	wallet := req.Header.Get(core.HeaderWallet)
	signature := req.Header.Get(core.HeaderSignature)
	challenge := req.Header.Get(core.HeaderChallenge)

	if wallet == "" || signature == "" || challenge == "" {
		return a.handshake()
	}

	declaredMethod := req.Header.Get(core.HeaderMethod)
	declaredPath := req.Header.Get(core.HeaderPath)
	if declaredMethod == "" || declaredPath == "" {
		return reject(core.OutcomeMalformedInput, ReasonMissingHeaders, core.ErrMissingHeaders)
	}

	method := strings.ToUpper(req.Method)
	fullPath := core.FullPath(req.Path, req.RawQuery)
	if declaredMethod != method || declaredPath != fullPath {
		return a.handshake()
	}

	if a.cfg.ChallengeValidator != nil {
		if err := a.cfg.ChallengeValidator.Validate(challenge, a.cfg.Clock()); err != nil {
			a.cfg.Logger.Debug().Err(err).Str("path", fullPath).Msg("presented challenge rejected, re-issuing")
			return a.handshake()
		}
	}

	return a.verify(ctx, wallet, signature, challenge, method, fullPath)
}

// verify runs the decoding, signature and gate steps
func (a *Authenticator) verify(ctx context.Context, wallet, signature, challenge, method, fullPath string) Decision {
	scheme, publicKey, err := a.parseWallet(wallet)
	if err != nil {
		return reject(core.OutcomeMalformedInput, ReasonInvalidPublicKey, err)
	}

	// challenge doubles as the nonce in this protocol version
	message := core.CanonicalMessage(method, fullPath, challenge, challenge)

	sig, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return reject(core.OutcomeMalformedInput, ReasonInvalidSigFormat, fmt.Errorf("%w: %v", core.ErrInvalidSignatureFormat, err))
	}

	if !scheme.Verify(publicKey, message, sig) {
		return reject(core.OutcomeAuthenticationFailure, ReasonInvalidSignature, core.ErrInvalidSignature)
	}

	identity := core.Identity{
		WalletAddress: wallet,
		PublicKey:     publicKey,
		Scheme:        scheme.Name(),
	}

	if a.cfg.AccessGate != nil {
		ok, err := a.cfg.AccessGate.Check(ctx, identity)
		if err != nil {
			return reject(core.OutcomeAuthorizationDenied, ReasonAccessDenied, fmt.Errorf("%w: gate error: %v", core.ErrAccessDenied, err))
		}
		if !ok {
			return reject(core.OutcomeAuthorizationDenied, ReasonAccessDenied, core.ErrAccessDenied)
		}
	}

	return Decision{
		Outcome:  core.OutcomeAdmitted,
		Identity: &identity,
	}
}

func (a *Authenticator) parseWallet(wallet string) (ports.Scheme, []byte, error) {
	var lastErr error = core.ErrInvalidPublicKey
	for _, s := range a.cfg.Schemes {
		key, err := s.ParseWallet(wallet)
		if err == nil {
			return s, key, nil
		}
		lastErr = err
	}
	return nil, nil, lastErr
}

func (a *Authenticator) handshake() Decision {
	challenge, err := a.issuer.Issue()
	if err != nil {
		return reject(core.OutcomeInternalFault, ReasonInternal, err)
	}
	return Decision{
		Outcome:   core.OutcomeHandshake,
		Challenge: &challenge,
	}
}

func reject(outcome core.Outcome, reason string, err error) Decision {
	return Decision{
		Outcome: outcome,
		Reason:  reason,
		Err:     err,
	}
}

// report logs the decision and publishes it when a publisher is configured.
// Publishing failures are logged and never change the decision.
func (a *Authenticator) report(ctx context.Context, req Request, d Decision) {
	fullPath := core.FullPath(req.Path, req.RawQuery)
	wallet := req.Header.Get(core.HeaderWallet)

	if d.Outcome == core.OutcomeInternalFault {
		a.cfg.Logger.Error().Err(d.Err).Str("method", req.Method).Str("path", fullPath).Msg("authentication failed with internal error")
	} else {
		a.cfg.Logger.Debug().
			Str("outcome", d.Outcome.String()).
			Str("method", req.Method).
			Str("path", fullPath).
			Str("wallet", wallet).
			AnErr("cause", d.Err).
			Msg("authentication decision")
	}

	if a.cfg.Publisher == nil || d.Outcome == core.OutcomeHandshake {
		return
	}

	event := core.DecisionEvent{
		ID:        uuid.New().String(),
		Outcome:   d.Outcome,
		Wallet:    wallet,
		Method:    strings.ToUpper(req.Method),
		Path:      fullPath,
		Reason:    d.Reason,
		Timestamp: a.cfg.Clock(),
	}
	if err := a.publish(ctx, event); err != nil {
		a.cfg.Logger.Warn().Err(err).Str("event_id", event.ID).Msg("failed to publish decision event")
	}
}

// publish hands event to the publisher, turning a panic into an error
func (a *Authenticator) publish(ctx context.Context, event core.DecisionEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: publisher panic: %v", core.ErrInternal, r)
		}
	}()
	return a.cfg.Publisher.PublishDecision(ctx, event)
}
