package core

// ERC20Balances implements the orchestrator's Balances interface (spec
// §4.H step 2 "validate balances/approvals") directly against the
// token contracts, reusing the same eth_call shape as PoolReader.

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
)

type ERC20Balances struct {
	client ChainClient
}

func NewERC20Balances(client ChainClient) *ERC20Balances {
	return &ERC20Balances{client: client}
}

func (b *ERC20Balances) call(ctx context.Context, to Address, data []byte) ([]byte, error) {
	ethTo := to.Ethereum()
	msg := ethereum.CallMsg{To: &ethTo, Data: data}
	return b.client.CallContract(ctx, msg, nil)
}

func (b *ERC20Balances) BalanceOf(ctx context.Context, token, owner Address) (*big.Int, error) {
	data, err := erc20ABI.Pack("balanceOf", owner.Ethereum())
	if err != nil {
		return nil, err
	}
	raw, err := b.call(ctx, token, data)
	if err != nil {
		return nil, err
	}
	out, err := erc20ABI.Unpack("balanceOf", raw)
	if err != nil {
		return nil, err
	}
	return out[0].(*big.Int), nil
}

func (b *ERC20Balances) Allowance(ctx context.Context, token, owner, spender Address) (*big.Int, error) {
	data, err := erc20ABI.Pack("allowance", owner.Ethereum(), spender.Ethereum())
	if err != nil {
		return nil, err
	}
	raw, err := b.call(ctx, token, data)
	if err != nil {
		return nil, err
	}
	out, err := erc20ABI.Unpack("allowance", raw)
	if err != nil {
		return nil, err
	}
	return out[0].(*big.Int), nil
}
