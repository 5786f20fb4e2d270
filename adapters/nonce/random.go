// Package nonce provides challenge nonce generators.
package nonce

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/layer-3/x403auth/core"
)

// DefaultSize is the number of random bytes behind each nonce
const DefaultSize = 32

// Random generates std-base64 nonces from crypto/rand
type Random struct {
	size int
}

// NewRandom creates a generator producing size random bytes per nonce.
// Sizes below DefaultSize are raised to DefaultSize.
func NewRandom(size int) *Random {
	if size < DefaultSize {
		size = DefaultSize
	}
	return &Random{size: size}
}

// Generate returns a fresh nonce
func (r *Random) Generate() (string, error) {
	return generateNonce(r.size)
}

// generateNonce generates a secure random nonce of the specified length
func generateNonce(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrNonceGeneration, err)
	}
	return base64.StdEncoding.EncodeToString(bytes), nil
}
