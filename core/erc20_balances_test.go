package core

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
)

func TestERC20BalancesBalanceOf(t *testing.T) {
	want := big.NewInt(1_234_567)
	client := &fakeChainClient{
		callContractFn: func(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
			return erc20ABI.Methods["balanceOf"].Outputs.Pack(want)
		},
	}
	b := NewERC20Balances(client)
	token := mustAddr(t, "0x0000000000000000000000000000000000000001")
	owner := mustAddr(t, "0x0000000000000000000000000000000000000002")

	got, err := b.BalanceOf(context.Background(), token, owner)
	if err != nil {
		t.Fatal(err)
	}
	if got.Cmp(want) != 0 {
		t.Errorf("BalanceOf() = %v, want %v", got, want)
	}
}

func TestERC20BalancesAllowance(t *testing.T) {
	want := big.NewInt(0)
	client := &fakeChainClient{
		callContractFn: func(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
			return erc20ABI.Methods["allowance"].Outputs.Pack(want)
		},
	}
	b := NewERC20Balances(client)
	token := mustAddr(t, "0x0000000000000000000000000000000000000001")
	owner := mustAddr(t, "0x0000000000000000000000000000000000000002")
	spender := mustAddr(t, "0x0000000000000000000000000000000000000003")

	got, err := b.Allowance(context.Background(), token, owner, spender)
	if err != nil {
		t.Fatal(err)
	}
	if got.Sign() != 0 {
		t.Errorf("Allowance() = %v, want 0", got)
	}
}
