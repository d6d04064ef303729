package core

// Action encoder (spec §4.F): builds exact calldata for the
// NonfungiblePositionManager (v3-family) and the v4 unlock-actions
// codec. Every byte here mirrors the target contract's own Solidity
// ABI encoding so simulate_transaction and execute see identical
// calldata.

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// PoolKeyHash computes the v4 pool id: keccak256(abi.encode(key)).
func PoolKeyHash(key PoolKey) [32]byte {
	packed := make([]byte, 0, 160)
	packed = append(packed, leftPad32(key.Currency0.Ethereum().Bytes())...)
	packed = append(packed, leftPad32(key.Currency1.Ethereum().Bytes())...)
	packed = append(packed, leftPad32(big.NewInt(int64(key.Fee)).Bytes())...)
	packed = append(packed, leftPadSigned32(int64(key.TickSpacing))...)
	packed = append(packed, leftPad32(key.Hooks.Ethereum().Bytes())...)

	var out [32]byte
	copy(out[:], crypto.Keccak256(packed))
	return out
}

func leftPad32(b []byte) []byte {
	out := make([]byte, 32)
	copy(out[32-len(b):], b)
	return out
}

func leftPadSigned32(v int64) []byte {
	bi := big.NewInt(v)
	if v < 0 {
		bi = new(big.Int).Add(maxUint256, big.NewInt(v+1))
	}
	b := bi.Bytes()
	return leftPad32(b)
}

func deadline(ttl time.Duration) *big.Int {
	return big.NewInt(nowUnix() + int64(ttl.Seconds()))
}

// nowUnix is isolated so orchestration code can inject a fixed clock in
// tests without touching every call site.
var nowUnix = func() int64 { return time.Now().Unix() }

// MintParamsV3 mirrors NonfungiblePositionManager.MintParams.
type MintParamsV3 struct {
	Token0, Token1               Address
	Fee                          uint32
	TickLower, TickUpper         int32
	Amount0Desired, Amount1Desired *big.Int
	Amount0Min, Amount1Min       *big.Int
	Recipient                    Address
	DeadlineTTL                  time.Duration
}

func EncodeMintV3(p MintParamsV3) ([]byte, error) {
	type tuple struct {
		Token0          common.Address
		Token1          common.Address
		Fee             *big.Int
		TickLower       *big.Int
		TickUpper       *big.Int
		Amount0Desired  *big.Int
		Amount1Desired  *big.Int
		Amount0Min      *big.Int
		Amount1Min      *big.Int
		Recipient       common.Address
		Deadline        *big.Int
	}
	args := tuple{
		Token0:         p.Token0.Ethereum(),
		Token1:         p.Token1.Ethereum(),
		Fee:            big.NewInt(int64(p.Fee)),
		TickLower:      big.NewInt(int64(p.TickLower)),
		TickUpper:      big.NewInt(int64(p.TickUpper)),
		Amount0Desired: p.Amount0Desired,
		Amount1Desired: p.Amount1Desired,
		Amount0Min:     p.Amount0Min,
		Amount1Min:     p.Amount1Min,
		Recipient:      p.Recipient.Ethereum(),
		Deadline:       deadline(p.DeadlineTTL),
	}
	return nfpmABI.Pack("mint", args)
}

type DecreaseLiquidityParamsV3 struct {
	TokenID                *big.Int
	Liquidity              *big.Int
	Amount0Min, Amount1Min *big.Int
	DeadlineTTL            time.Duration
}

func EncodeDecreaseLiquidityV3(p DecreaseLiquidityParamsV3) ([]byte, error) {
	type tuple struct {
		TokenID    *big.Int
		Liquidity  *big.Int
		Amount0Min *big.Int
		Amount1Min *big.Int
		Deadline   *big.Int
	}
	return nfpmABI.Pack("decreaseLiquidity", tuple{
		TokenID: p.TokenID, Liquidity: p.Liquidity,
		Amount0Min: p.Amount0Min, Amount1Min: p.Amount1Min,
		Deadline: deadline(p.DeadlineTTL),
	})
}

type CollectParamsV3 struct {
	TokenID             *big.Int
	Recipient           Address
	Amount0Max, Amount1Max *big.Int
}

func EncodeCollectV3(p CollectParamsV3) ([]byte, error) {
	type tuple struct {
		TokenID    *big.Int
		Recipient  common.Address
		Amount0Max *big.Int
		Amount1Max *big.Int
	}
	return nfpmABI.Pack("collect", tuple{
		TokenID: p.TokenID, Recipient: p.Recipient.Ethereum(),
		Amount0Max: p.Amount0Max, Amount1Max: p.Amount1Max,
	})
}

func EncodeBurnV3(tokenID *big.Int) ([]byte, error) {
	return nfpmABI.Pack("burn", tokenID)
}

func EncodeMulticallV3(calls [][]byte) ([]byte, error) {
	return nfpmABI.Pack("multicall", calls)
}

func EncodeApprove(spender Address, amount *big.Int) ([]byte, error) {
	return erc20ABI.Pack("approve", spender.Ethereum(), amount)
}

// EncodeCreateAndInitializePool packs NFPM.createAndInitializePoolIfNecessary,
// the standard one-shot helper for spec §4.H step 3's auto-create path.
func EncodeCreateAndInitializePool(currency0, currency1 Address, fee uint32, sqrtPriceX96 *big.Int) ([]byte, error) {
	return nfpmABI.Pack("createAndInitializePoolIfNecessary", currency0.Ethereum(), currency1.Ethereum(), big.NewInt(int64(fee)), sqrtPriceX96)
}
