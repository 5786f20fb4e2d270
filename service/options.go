package service

import (
	"slices"
	"time"

	"github.com/layer-3/x403auth/adapters/nonce"
	"github.com/layer-3/x403auth/adapters/scheme"
	"github.com/layer-3/x403auth/ports"
	"github.com/rs/zerolog"
)

// DefaultChallengeExpiry is the default validity window for challenges
const DefaultChallengeExpiry = 60 * time.Second

// Config holds the construction-time settings of an Authenticator.
// It is copied into the Authenticator and never mutated afterwards.
type Config struct {
	ChallengeExpiry    time.Duration
	AccessGate         ports.AccessGate
	NonceGenerator     ports.NonceGenerator
	Schemes            []ports.Scheme
	ChallengeValidator ports.ChallengeValidator
	Publisher          ports.EventPublisher
	Logger             zerolog.Logger
	Clock              func() time.Time
}

// Option configures an Authenticator
type Option func(*Config)

// DefaultConfig returns the configuration used when no options are given
func DefaultConfig() Config {
	return Config{
		ChallengeExpiry: DefaultChallengeExpiry,
		NonceGenerator:  nonce.NewRandom(nonce.DefaultSize),
		Schemes:         []ports.Scheme{scheme.NewEd25519()},
		Logger:          zerolog.Nop(),
		Clock:           time.Now,
	}
}

// WithChallengeExpiry sets the challenge validity window; non-positive values keep the default
func WithChallengeExpiry(d time.Duration) Option {
	return func(c *Config) {
		if d > 0 {
			c.ChallengeExpiry = d
		}
	}
}

// WithAccessGate installs a gate consulted after signature verification
func WithAccessGate(gate ports.AccessGate) Option {
	return func(c *Config) {
		c.AccessGate = gate
	}
}

// WithNonceGenerator replaces the built-in random nonce generator
func WithNonceGenerator(gen ports.NonceGenerator) Option {
	return func(c *Config) {
		if gen != nil {
			c.NonceGenerator = gen
		}
	}
}

// WithSchemes sets the accepted wallet schemes, tried in order
func WithSchemes(schemes ...ports.Scheme) Option {
	return func(c *Config) {
		if len(schemes) > 0 {
			c.Schemes = slices.Clone(schemes)
		}
	}
}

// WithChallengeValidator enables server-side checking of presented challenges
func WithChallengeValidator(v ports.ChallengeValidator) Option {
	return func(c *Config) {
		c.ChallengeValidator = v
	}
}

// WithEventPublisher publishes every non-handshake decision
func WithEventPublisher(p ports.EventPublisher) Option {
	return func(c *Config) {
		c.Publisher = p
	}
}

// WithLogger sets the logger
func WithLogger(l zerolog.Logger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}

// WithClock overrides time.Now, for tests
func WithClock(now func() time.Time) Option {
	return func(c *Config) {
		if now != nil {
			c.Clock = now
		}
	}
}
