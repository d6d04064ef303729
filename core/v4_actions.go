package core

// v4 unlock-actions codec (spec §4.F, §9 open question 1). The actions
// blob is `bytes1[] actionCodes || bytes[] params`, ABI-encoded as a
// two-element outer tuple — this module pins the mint action order
// (MINT_POSITION/SETTLE_PAIR per bucket, then one trailing CLOSE_CURRENCY
// per currency; no TAKE_PAIR is emitted) and leaves the exact router-version
// byte values in one place so a redeploy only touches this file.

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Action codes as defined by the v4-periphery Actions library.
const (
	ActionMintPosition       byte = 0x02
	ActionIncreaseLiquidity  byte = 0x00
	ActionDecreaseLiquidity  byte = 0x01
	ActionBurnPosition       byte = 0x03
	ActionSettlePair         byte = 0x0d
	ActionTakePair           byte = 0x11
	ActionCloseCurrency      byte = 0x12
)

var (
	addressT, _ = abi.NewType("address", "", nil)
	uint256T, _ = abi.NewType("uint256", "", nil)
	uint128T, _ = abi.NewType("uint128", "", nil)
	int24T, _   = abi.NewType("int24", "", nil)
	bytesT, _   = abi.NewType("bytes", "", nil)

	poolKeyTupleT, _ = abi.NewType("tuple", "", []abi.ArgumentMarshaling{
		{Name: "currency0", Type: "address"},
		{Name: "currency1", Type: "address"},
		{Name: "fee", Type: "uint24"},
		{Name: "tickSpacing", Type: "int24"},
		{Name: "hooks", Type: "address"},
	})
)

func packArgs(types []abi.Type, values ...interface{}) ([]byte, error) {
	args := make(abi.Arguments, len(types))
	for i, t := range types {
		args[i] = abi.Argument{Type: t}
	}
	return args.Pack(values...)
}

// poolKeyTuple mirrors PoolManager's PoolKey struct for ABI encoding.
type poolKeyTuple struct {
	Currency0   common.Address `abi:"currency0"`
	Currency1   common.Address `abi:"currency1"`
	Fee         *big.Int       `abi:"fee"`
	TickSpacing *big.Int       `abi:"tickSpacing"`
	Hooks       common.Address `abi:"hooks"`
}

func toPoolKeyTuple(k PoolKey) poolKeyTuple {
	return poolKeyTuple{
		Currency0:   k.Currency0.Ethereum(),
		Currency1:   k.Currency1.Ethereum(),
		Fee:         big.NewInt(int64(k.Fee)),
		TickSpacing: big.NewInt(int64(k.TickSpacing)),
		Hooks:       k.Hooks.Ethereum(),
	}
}

// V4MintBucket is one MINT_POSITION+SETTLE_PAIR pair's inputs.
type V4MintBucket struct {
	Key                    PoolKey
	TickLower, TickUpper   int32
	Liquidity              *big.Int
	Amount0Max, Amount1Max *big.Int
	Recipient              Address
	HookData               []byte
}

// v4ActionBuilder accumulates (code, params) pairs and renders the
// final `modifyLiquidities` calldata.
type v4ActionBuilder struct {
	codes  []byte
	params [][]byte
}

func newV4ActionBuilder() *v4ActionBuilder {
	return &v4ActionBuilder{}
}

func (b *v4ActionBuilder) add(code byte, params []byte) {
	b.codes = append(b.codes, code)
	b.params = append(b.params, params)
}

func (b *v4ActionBuilder) encode() ([]byte, error) {
	actionsType, err := abi.NewType("bytes", "", nil)
	if err != nil {
		return nil, err
	}
	paramsType, err := abi.NewType("bytes[]", "", nil)
	if err != nil {
		return nil, err
	}
	return packArgs([]abi.Type{actionsType, paramsType}, b.codes, b.params)
}

// EncodeV4MintLadder emits MINT_POSITION; SETTLE_PAIR for each bucket,
// then one CLOSE_CURRENCY per distinct currency across the batch. It emits
// no TAKE_PAIR action.
func EncodeV4MintLadder(buckets []V4MintBucket, deadlineTTL int64) ([]byte, error) {
	b := newV4ActionBuilder()
	currencies := map[Address]bool{}

	for _, bucket := range buckets {
		mintParams, err := packArgs(
			[]abi.Type{poolKeyTupleT, int24T, int24T, uint256T, uint128T, uint128T, addressT, bytesT},
			toPoolKeyTuple(bucket.Key),
			big.NewInt(int64(bucket.TickLower)),
			big.NewInt(int64(bucket.TickUpper)),
			bucket.Liquidity,
			bucket.Amount0Max,
			bucket.Amount1Max,
			bucket.Recipient.Ethereum(),
			bucket.HookData,
		)
		if err != nil {
			return nil, err
		}
		b.add(ActionMintPosition, mintParams)

		settleParams, err := packArgs(
			[]abi.Type{addressT, addressT},
			bucket.Key.Currency0.Ethereum(), bucket.Key.Currency1.Ethereum(),
		)
		if err != nil {
			return nil, err
		}
		b.add(ActionSettlePair, settleParams)

		currencies[bucket.Key.Currency0] = true
		currencies[bucket.Key.Currency1] = true
	}

	for c := range currencies {
		closeParams, err := packArgs([]abi.Type{addressT}, c.Ethereum())
		if err != nil {
			return nil, err
		}
		b.add(ActionCloseCurrency, closeParams)
	}

	return b.encode()
}

// V4ClosePosition is one position's inputs for close_all_v4_in_one_tx.
type V4ClosePosition struct {
	Key                    PoolKey
	TickLower, TickUpper   int32
	Liquidity              *big.Int
	Amount0Min, Amount1Min *big.Int
}

// EncodeV4CloseLadder implements scenario S7: N x DECREASE_LIQUIDITY,
// then N x TAKE_PAIR, then one CLOSE_CURRENCY per distinct currency —
// in exactly that grouped order.
func EncodeV4CloseLadder(positions []V4ClosePosition, recipient Address) ([]byte, error) {
	b := newV4ActionBuilder()
	currencies := map[Address]bool{}

	type decreaseEncoded struct {
		params []byte
	}
	decreases := make([]decreaseEncoded, 0, len(positions))
	takes := make([][]byte, 0, len(positions))

	for _, p := range positions {
		dp, err := packArgs(
			[]abi.Type{poolKeyTupleT, int24T, int24T, uint128T, uint128T, uint128T, bytesT},
			toPoolKeyTuple(p.Key),
			big.NewInt(int64(p.TickLower)), big.NewInt(int64(p.TickUpper)),
			p.Liquidity, p.Amount0Min, p.Amount1Min, []byte{},
		)
		if err != nil {
			return nil, err
		}
		decreases = append(decreases, decreaseEncoded{params: dp})

		tp, err := packArgs(
			[]abi.Type{addressT, addressT, addressT},
			p.Key.Currency0.Ethereum(), p.Key.Currency1.Ethereum(), recipient.Ethereum(),
		)
		if err != nil {
			return nil, err
		}
		takes = append(takes, tp)

		currencies[p.Key.Currency0] = true
		currencies[p.Key.Currency1] = true
	}

	for _, d := range decreases {
		b.add(ActionDecreaseLiquidity, d.params)
	}
	for _, t := range takes {
		b.add(ActionTakePair, t)
	}
	for c := range currencies {
		cp, err := packArgs([]abi.Type{addressT}, c.Ethereum())
		if err != nil {
			return nil, err
		}
		b.add(ActionCloseCurrency, cp)
	}

	return b.encode()
}

// EncodeModifyLiquidities wraps an already-built action blob in the
// PoolManager's `modifyLiquidities(bytes, uint256)` entry point.
func EncodeModifyLiquidities(unlockData []byte, deadlineTTL int64) ([]byte, error) {
	return v4PoolManagerABI.Pack("modifyLiquidities", unlockData, big.NewInt(deadlineTTL))
}

// EncodeInitializeV4 packs PoolManager.initialize(key, sqrtPriceX96).
func EncodeInitializeV4(key PoolKey, sqrtPriceX96 *big.Int) ([]byte, error) {
	return v4PoolManagerABI.Pack("initialize", toPoolKeyTuple(key), sqrtPriceX96)
}
