package scheme

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/layer-3/x403auth/core"
	"github.com/layer-3/x403auth/internal/eth"
	"github.com/layer-3/x403auth/ports"
)

// NameEVM identifies 0x-prefixed Ethereum wallets
const NameEVM = "evm"

// EVM verifies personal_sign signatures by recovering the signer address.
// The "public key" of an EVM identity is its 20-byte address.
type EVM struct{}

// NewEVM creates the EVM wallet scheme
func NewEVM() ports.Scheme {
	return EVM{}
}

// Name returns the scheme name
func (EVM) Name() string {
	return NameEVM
}

// ParseWallet decodes a 0x-prefixed hex address
func (EVM) ParseWallet(address string) ([]byte, error) {
	if !strings.HasPrefix(address, "0x") || !common.IsHexAddress(address) {
		return nil, fmt.Errorf("not an ethereum address: %w", core.ErrInvalidPublicKey)
	}
	return common.HexToAddress(address).Bytes(), nil
}

// Verify recovers the signer of message and compares it to publicKey
func (EVM) Verify(publicKey, message, sig []byte) bool {
	if len(publicKey) != common.AddressLength {
		return false
	}
	ok, err := eth.VerifySignatureAgainstAddress(message, sig, common.BytesToAddress(publicKey))
	if err != nil {
		return false
	}
	return ok
}
