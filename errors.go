package x403auth

import "github.com/layer-3/x403auth/core"

var (
	// ErrMissingHeaders is returned when only part of the auth headers are present
	ErrMissingHeaders = core.ErrMissingHeaders

	// ErrInvalidPublicKey is returned when the wallet header matches no scheme
	ErrInvalidPublicKey = core.ErrInvalidPublicKey

	// ErrInvalidSignatureFormat is returned when the signature is not base64
	ErrInvalidSignatureFormat = core.ErrInvalidSignatureFormat

	// ErrInvalidSignature is returned when a signature does not verify
	ErrInvalidSignature = core.ErrInvalidSignature

	// ErrAccessDenied is returned when the access gate does not admit the wallet
	ErrAccessDenied = core.ErrAccessDenied

	// ErrChallengeExpired is returned when a signed challenge is past its expiry
	ErrChallengeExpired = core.ErrChallengeExpired
)
