package core

import "time"

// Challenge represents a handshake challenge handed to an unauthenticated client
type Challenge struct {
	Challenge string        // Opaque token the client must sign (equal to Nonce)
	Nonce     string        // Base64 random value the challenge was derived from
	ExpiresAt time.Time     // Advisory instant after which the challenge is stale
	ExpiresIn time.Duration // Validity window used to compute ExpiresAt
}

// Identity represents a wallet whose signature has been verified
type Identity struct {
	WalletAddress string // Address exactly as presented in x-auth-wallet
	PublicKey     []byte // Key material decoded from the address
	Scheme        string // Name of the scheme that verified the signature
}

// DecisionEvent describes the outcome of a single authentication attempt
type DecisionEvent struct {
	ID        string    // Unique event identifier
	Outcome   Outcome   // Classified result
	Wallet    string    // Claimed wallet, empty when not presented
	Method    string    // Live request method
	Path      string    // Live request path including query
	Reason    string    // Public reason for rejections
	Timestamp time.Time // When the decision was made
}
