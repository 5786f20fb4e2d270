package service

import (
	"fmt"
	"time"

	"github.com/layer-3/x403auth/core"
	"github.com/layer-3/x403auth/ports"
)

// ChallengeIssuer produces fresh, unpersisted challenges
type ChallengeIssuer struct {
	window    time.Duration
	generator ports.NonceGenerator
	now       func() time.Time
}

// NewChallengeIssuer creates an issuer with the given validity window
func NewChallengeIssuer(window time.Duration, generator ports.NonceGenerator, now func() time.Time) *ChallengeIssuer {
	if now == nil {
		now = time.Now
	}
	return &ChallengeIssuer{
		window:    window,
		generator: generator,
		now:       now,
	}
}

// Issue generates a new challenge. The challenge value is the nonce itself.
func (i *ChallengeIssuer) Issue() (core.Challenge, error) {
	nonce, err := i.generator.Generate()
	if err != nil {
		return core.Challenge{}, fmt.Errorf("failed to issue challenge: %w", err)
	}
	if nonce == "" {
		return core.Challenge{}, fmt.Errorf("failed to issue challenge: %w", core.ErrNonceGeneration)
	}

	return core.Challenge{
		Challenge: nonce,
		Nonce:     nonce,
		ExpiresAt: i.now().Add(i.window),
		ExpiresIn: i.window,
	}, nil
}
