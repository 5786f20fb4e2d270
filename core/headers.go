package core

import "time"

// Protocol headers
const (
	HeaderWallet    = "x-auth-wallet"
	HeaderSignature = "x-auth-signature"
	HeaderChallenge = "x-auth-challenge"
	HeaderMethod    = "x-auth-method"
	HeaderPath      = "x-auth-path"
)

// ChallengeResponse is the JSON body sent with a 403 handshake
type ChallengeResponse struct {
	Challenge string `json:"challenge"`
	Nonce     string `json:"nonce"`
	ExpiresAt int64  `json:"expiresAt"` // epoch milliseconds
	ExpiresIn int64  `json:"expiresIn"` // milliseconds
}

// Response converts the challenge to its wire form
func (c Challenge) Response() ChallengeResponse {
	return ChallengeResponse{
		Challenge: c.Challenge,
		Nonce:     c.Nonce,
		ExpiresAt: c.ExpiresAt.UnixMilli(),
		ExpiresIn: c.ExpiresIn.Milliseconds(),
	}
}

// Expiry returns the advertised expiry instant
func (r ChallengeResponse) Expiry() time.Time {
	return time.UnixMilli(r.ExpiresAt)
}
