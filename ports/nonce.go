package ports

import "time"

// NonceGenerator produces fresh challenge nonces
type NonceGenerator interface {
	Generate() (string, error)
}

// NonceFunc adapts a plain function to NonceGenerator
type NonceFunc func() (string, error)

// Generate calls f
func (f NonceFunc) Generate() (string, error) {
	return f()
}

// ChallengeValidator checks a presented challenge was issued by this server and is still fresh
type ChallengeValidator interface {
	Validate(challenge string, now time.Time) error
}
