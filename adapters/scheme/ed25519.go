package scheme

import (
	"crypto/ed25519"
	"fmt"

	"github.com/layer-3/x403auth/core"
	"github.com/layer-3/x403auth/ports"
	"github.com/mr-tron/base58"
)

// NameEd25519 identifies Solana-style base58 Ed25519 wallets
const NameEd25519 = "ed25519"

// Ed25519 verifies detached Ed25519 signatures for base58-encoded public keys
type Ed25519 struct{}

// NewEd25519 creates the default wallet scheme
func NewEd25519() ports.Scheme {
	return Ed25519{}
}

// Name returns the scheme name
func (Ed25519) Name() string {
	return NameEd25519
}

// ParseWallet decodes a base58 address into a 32-byte public key
func (Ed25519) ParseWallet(address string) ([]byte, error) {
	key, err := base58.Decode(address)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base58 address: %w", core.ErrInvalidPublicKey)
	}
	if len(key) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("public key must be %d bytes: %w", ed25519.PublicKeySize, core.ErrInvalidPublicKey)
	}
	return key, nil
}

// Verify checks sig over message. Wrong key or signature sizes are a failed
// verification; ed25519.Verify would otherwise panic on a short key.
func (Ed25519) Verify(publicKey, message, sig []byte) bool {
	if len(publicKey) != ed25519.PublicKeySize || len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(publicKey), message, sig)
}
