// Package eth holds the personal_sign (EIP-191) helpers shared by the EVM
// scheme and the client signer.
package eth

import (
	"crypto/ecdsa"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// SignatureLength is the size of an [R || S || V] signature
const SignatureLength = 65

var ErrMalformedSignature = errors.New("malformed ethereum signature")

// Signer signs messages on behalf of an address
type Signer interface {
	Address() common.Address
	Sign(message []byte) ([]byte, error)
}

// LocalSigner signs with an in-memory secp256k1 key
type LocalSigner struct {
	key *ecdsa.PrivateKey
}

// NewLocalSigner wraps key
func NewLocalSigner(key *ecdsa.PrivateKey) *LocalSigner {
	return &LocalSigner{key: key}
}

// Address returns the address derived from the key
func (s *LocalSigner) Address() common.Address {
	return crypto.PubkeyToAddress(s.key.PublicKey)
}

// Sign produces a personal_sign signature with V in {27, 28}, as wallets do
func (s *LocalSigner) Sign(message []byte) ([]byte, error) {
	sig, err := crypto.Sign(accounts.TextHash(message), s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign message: %w", err)
	}
	sig[crypto.RecoveryIDOffset] += 27
	return sig, nil
}

// RecoverAddress returns the address that produced a personal_sign signature over message
func RecoverAddress(message, sig []byte) (common.Address, error) {
	if len(sig) != SignatureLength {
		return common.Address{}, ErrMalformedSignature
	}

	normalized := make([]byte, SignatureLength)
	copy(normalized, sig)
	if normalized[crypto.RecoveryIDOffset] >= 27 {
		normalized[crypto.RecoveryIDOffset] -= 27
	}
	if normalized[crypto.RecoveryIDOffset] > 1 {
		return common.Address{}, ErrMalformedSignature
	}

	pub, err := crypto.SigToPub(accounts.TextHash(message), normalized)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to recover public key: %w", err)
	}

	return crypto.PubkeyToAddress(*pub), nil
}

// VerifySignatureAgainstAddress reports whether sig over message was produced by expected
func VerifySignatureAgainstAddress(message, sig []byte, expected common.Address) (bool, error) {
	recovered, err := RecoverAddress(message, sig)
	if err != nil {
		return false, err
	}
	return recovered == expected, nil
}
