package core

import "math/big"

// Tick bounds and sqrt-price bounds, identical across the v3/v4 family.
const (
	MinTick int32 = -887272
	MaxTick int32 = 887272
)

// Q96 is 2^96, the fixed-point scale of sqrtPriceX96.
var Q96 = new(big.Int).Lsh(big.NewInt(1), 96)

// Q192 is 2^192, used when squaring a Q96 value back to a plain ratio.
var Q192 = new(big.Int).Lsh(big.NewInt(1), 192)

// MinSqrtRatio and MaxSqrtRatio bound the legal sqrtPriceX96 band.
var (
	MinSqrtRatio, _ = new(big.Int).SetString("4295128739", 10)
	MaxSqrtRatio, _ = new(big.Int).SetString("1461446703485210103287273052203988822378723970342", 10)
)

// maxUint256 is the narrowing ceiling used by the overflow checks in
// liquidity_math.go.
var maxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// maxUint128 is used for the `amount0Max`/`amount1Max` collect-everything
// sentinel (2^128 - 1).
var maxUint128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))

// MaxUint256 is exported read-only access to the approval sentinel.
func MaxUint256() *big.Int { return new(big.Int).Set(maxUint256) }

// MaxUint128 is exported read-only access to the collect-everything sentinel.
func MaxUint128() *big.Int { return new(big.Int).Set(maxUint128) }

// standardTickSpacing is the v3-family fee -> tickSpacing table (§4.A).
var standardTickSpacing = map[uint32]int32{
	100:   1,
	500:   10,
	2500:  50,
	3000:  60,
	10000: 200,
}
