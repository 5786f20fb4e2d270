package gate

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/layer-3/x403auth/adapters/scheme"
	"github.com/layer-3/x403auth/core"
	"github.com/layer-3/x403auth/ports"
	"github.com/shopspring/decimal"
)

const erc20BalanceABI = `[{"constant":true,"inputs":[{"name":"owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"type":"function"}]`

// ERC20Gate admits EVM wallets holding at least a minimum token balance.
// Identities from other schemes are denied.
type ERC20Gate struct {
	caller     ethereum.ContractCaller
	token      common.Address
	decimals   int32
	minBalance decimal.Decimal
	abi        abi.ABI
}

// NewERC20Gate creates a balance gate. minBalance is expressed in whole
// token units and scaled by decimals before comparison.
func NewERC20Gate(caller ethereum.ContractCaller, token common.Address, decimals int32, minBalance decimal.Decimal) (*ERC20Gate, error) {
	parsed, err := abi.JSON(strings.NewReader(erc20BalanceABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse erc20 abi: %w", err)
	}

	return &ERC20Gate{
		caller:     caller,
		token:      token,
		decimals:   decimals,
		minBalance: minBalance,
		abi:        parsed,
	}, nil
}

var _ ports.AccessGate = (*ERC20Gate)(nil)

// Check calls balanceOf for the identity's address at the latest block
func (g *ERC20Gate) Check(ctx context.Context, identity core.Identity) (bool, error) {
	if identity.Scheme != scheme.NameEVM || len(identity.PublicKey) != common.AddressLength {
		return false, nil
	}

	balance, err := g.BalanceOf(ctx, common.BytesToAddress(identity.PublicKey))
	if err != nil {
		return false, err
	}

	return balance.GreaterThanOrEqual(g.minBalance), nil
}

// BalanceOf returns owner's balance in whole token units
func (g *ERC20Gate) BalanceOf(ctx context.Context, owner common.Address) (decimal.Decimal, error) {
	data, err := g.abi.Pack("balanceOf", owner)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to pack balanceOf: %w", err)
	}

	out, err := g.caller.CallContract(ctx, ethereum.CallMsg{To: &g.token, Data: data}, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to call balanceOf: %w", err)
	}

	values, err := g.abi.Unpack("balanceOf", out)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to unpack balanceOf: %w", err)
	}
	if len(values) != 1 {
		return decimal.Zero, fmt.Errorf("unexpected balanceOf result length %d", len(values))
	}

	raw, ok := values[0].(*big.Int)
	if !ok {
		return decimal.Zero, fmt.Errorf("unexpected balanceOf result type %T", values[0])
	}

	return decimal.NewFromBigInt(raw, -g.decimals), nil
}
