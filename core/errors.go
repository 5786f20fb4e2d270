package core

import "errors"

var (
	ErrMissingHeaders         = errors.New("missing required headers")
	ErrInvalidPublicKey       = errors.New("invalid public key format")
	ErrInvalidSignatureFormat = errors.New("invalid signature format")
	ErrInvalidSignature       = errors.New("invalid signature")
	ErrAccessDenied           = errors.New("access denied")
	ErrInvalidChallenge       = errors.New("invalid challenge")
	ErrChallengeExpired       = errors.New("challenge has expired")
	ErrInternal               = errors.New("internal error")
	ErrNonceGeneration        = errors.New("failed to generate nonce")
)
