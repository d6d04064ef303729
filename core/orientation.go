package core

// Pool-orientation resolver (spec §4.D): reconciles the user-facing
// "price of volatile token in USD" with the pool's canonical
// currency1/currency0 orientation.

import "math/big"

// TokenRole marks which side of a pair is "the" stablecoin for ladder
// accounting purposes.
type TokenRole int

const (
	RoleVolatile TokenRole = iota
	RoleStable
)

// OrientationResult is everything downstream components need to place
// ticks and assign mint amounts correctly.
type OrientationResult struct {
	Currency0     Address
	Currency1     Address
	StableIsCurrency1 bool
	InvertPrice   bool
	DecimalOffset int32
}

// ResolveOrientation implements spec §4.D steps 1-4.
func ResolveOrientation(tokenA Address, tokenADecimals uint8, roleA TokenRole, tokenB Address, tokenBDecimals uint8) (OrientationResult, error) {
	if tokenA == tokenB {
		return OrientationResult{}, &DegeneratePairError{Token: tokenA.Hex()}
	}

	currency0, currency1 := SortCurrencies(tokenA, tokenB)

	var stable, volatile Address
	var stableIsDefined bool
	switch roleA {
	case RoleStable:
		stable, volatile = tokenA, tokenB
		stableIsDefined = true
	case RoleVolatile:
		volatile, stable = tokenA, tokenB
		stableIsDefined = true
	}

	var invert bool
	var stableIsCurrency1 bool
	if !stableIsDefined {
		// Neither side marked stable (spec edge case: default invert=true).
		invert = true
		stableIsCurrency1 = currency1 == tokenB
	} else {
		stableIsCurrency1 = stable == currency1
		invert = !stableIsCurrency1
	}

	dec0, dec1 := tokenADecimals, tokenBDecimals
	if currency0 != tokenA {
		dec0, dec1 = tokenBDecimals, tokenADecimals
	}
	offset := DecimalTickOffset(currency0, dec0, currency1, dec1)

	return OrientationResult{
		Currency0:         currency0,
		Currency1:         currency1,
		StableIsCurrency1: stableIsCurrency1,
		InvertPrice:       invert,
		DecimalOffset:     offset,
	}, nil
}

// ResolveOrientationBothStable handles the "both sides stable" edge case
// (spec: default invert_price=true, pick currency1 as the nominal stable
// side for accounting).
func ResolveOrientationBothStable(tokenA, tokenB Address, decA, decB uint8) (OrientationResult, error) {
	if tokenA == tokenB {
		return OrientationResult{}, &DegeneratePairError{Token: tokenA.Hex()}
	}
	currency0, currency1 := SortCurrencies(tokenA, tokenB)
	dec0, dec1 := decA, decB
	if currency0 != tokenA {
		dec0, dec1 = decB, decA
	}
	return OrientationResult{
		Currency0:         currency0,
		Currency1:         currency1,
		StableIsCurrency1: true,
		InvertPrice:       true,
		DecimalOffset:     DecimalTickOffset(currency0, dec0, currency1, dec1),
	}, nil
}

// MintAmounts implements spec §4.D step 5: assigns a stablecoin USD
// amount (already scaled to the stablecoin's wei) to whichever of
// amount0Desired/amount1Desired corresponds to the stablecoin side, and
// derives the minimum via slippagePercent.
func MintAmounts(stableIsCurrency0 bool, stableWei *big.Int, slippagePercent float64) (amount0Desired, amount1Desired, amount0Min, amount1Min *big.Int) {
	zero := big.NewInt(0)
	minOf := func(desired *big.Int) *big.Int {
		if desired.Sign() == 0 {
			return zero
		}
		f := new(big.Float).SetInt(desired)
		factor := big.NewFloat(1 - slippagePercent/100)
		f.Mul(f, factor)
		min, _ := f.Int(nil)
		if min.Sign() < 0 {
			min = zero
		}
		return min
	}
	if stableIsCurrency0 {
		amount0Desired = new(big.Int).Set(stableWei)
		amount1Desired = zero
	} else {
		amount0Desired = zero
		amount1Desired = new(big.Int).Set(stableWei)
	}
	amount0Min = minOf(amount0Desired)
	amount1Min = minOf(amount1Desired)
	return
}
