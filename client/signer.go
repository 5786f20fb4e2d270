package client

import (
	"crypto/ed25519"
	"errors"

	"github.com/layer-3/x403auth/internal/eth"
	"github.com/mr-tron/base58"
)

// Signer produces wallet signatures over canonical messages
type Signer interface {
	// Wallet returns the value sent in the x-auth-wallet header
	Wallet() string
	// Sign returns the raw signature over message
	Sign(message []byte) ([]byte, error)
}

var errInvalidKey = errors.New("invalid ed25519 private key")

// Ed25519Signer signs with an Ed25519 key and identifies by its base58 public key
type Ed25519Signer struct {
	key    ed25519.PrivateKey
	wallet string
}

// NewEd25519Signer wraps key
func NewEd25519Signer(key ed25519.PrivateKey) (*Ed25519Signer, error) {
	if len(key) != ed25519.PrivateKeySize {
		return nil, errInvalidKey
	}
	pub := key.Public().(ed25519.PublicKey)
	return &Ed25519Signer{key: key, wallet: base58.Encode(pub)}, nil
}

func (s *Ed25519Signer) Wallet() string {
	return s.wallet
}

func (s *Ed25519Signer) Sign(message []byte) ([]byte, error) {
	return ed25519.Sign(s.key, message), nil
}

// EVMSigner signs with personal_sign and identifies by its checksummed address
type EVMSigner struct {
	signer eth.Signer
}

// NewEVMSigner wraps an ethereum signer
func NewEVMSigner(signer eth.Signer) *EVMSigner {
	return &EVMSigner{signer: signer}
}

func (s *EVMSigner) Wallet() string {
	return s.signer.Address().Hex()
}

func (s *EVMSigner) Sign(message []byte) ([]byte, error) {
	return s.signer.Sign(message)
}
