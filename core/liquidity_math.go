package core

// Liquidity amount math (spec §4.B): L <-> (amount0, amount1) across the
// three price regions. All arithmetic uses math/big so intermediate
// products never lose precision; final results are checked against the
// 256-bit ceiling and fail with MathOverflowError rather than wrapping.

import "math/big"

func checkOverflow(v *big.Int, op string) error {
	if v.Sign() < 0 || v.Cmp(maxUint256) > 0 {
		return &MathOverflowError{Op: op}
	}
	return nil
}

// LFromAmount0 computes L = amount0 * sqrtHi * sqrtLo / (sqrtHi - sqrtLo).
func LFromAmount0(sqrtLo, sqrtHi, amount0 *big.Int) (*big.Int, error) {
	if sqrtHi.Cmp(sqrtLo) <= 0 {
		return nil, &BadRangeError{}
	}
	num := new(big.Int).Mul(amount0, sqrtHi)
	num.Mul(num, sqrtLo)
	denom := new(big.Int).Sub(sqrtHi, sqrtLo)
	l := new(big.Int).Quo(num, denom)
	if err := checkOverflow(l, "LFromAmount0"); err != nil {
		return nil, err
	}
	return l, nil
}

// LFromAmount1 computes L = amount1 / (sqrtHi - sqrtLo).
func LFromAmount1(sqrtLo, sqrtHi, amount1 *big.Int) (*big.Int, error) {
	if sqrtHi.Cmp(sqrtLo) <= 0 {
		return nil, &BadRangeError{}
	}
	denom := new(big.Int).Sub(sqrtHi, sqrtLo)
	l := new(big.Int).Quo(amount1, denom)
	if err := checkOverflow(l, "LFromAmount1"); err != nil {
		return nil, err
	}
	return l, nil
}

// Amount0FromL computes amount0 = L * (sqrtHi - sqrtLo) / (sqrtHi * sqrtLo).
func Amount0FromL(sqrtLo, sqrtHi, l *big.Int) (*big.Int, error) {
	if sqrtHi.Cmp(sqrtLo) <= 0 {
		return nil, &BadRangeError{}
	}
	num := new(big.Int).Mul(l, new(big.Int).Sub(sqrtHi, sqrtLo))
	denom := new(big.Int).Mul(sqrtHi, sqrtLo)
	a0 := new(big.Int).Quo(num, denom)
	if err := checkOverflow(a0, "Amount0FromL"); err != nil {
		return nil, err
	}
	return a0, nil
}

// Amount1FromL computes amount1 = L * (sqrtHi - sqrtLo).
func Amount1FromL(sqrtLo, sqrtHi, l *big.Int) (*big.Int, error) {
	if sqrtHi.Cmp(sqrtLo) <= 0 {
		return nil, &BadRangeError{}
	}
	a1 := new(big.Int).Mul(l, new(big.Int).Sub(sqrtHi, sqrtLo))
	if err := checkOverflow(a1, "Amount1FromL"); err != nil {
		return nil, err
	}
	return a1, nil
}

// LiquidityForAmounts is the `liquidity(...)` dispatcher (spec §4.B):
// given the current price and a candidate range, and whichever side
// amounts are supplied, returns the binding L.
func LiquidityForAmounts(sqrtCur, sqrtLo, sqrtHi *big.Int, amount0, amount1 *big.Int) (*big.Int, error) {
	if sqrtHi.Cmp(sqrtLo) <= 0 {
		return nil, &BadRangeError{}
	}
	if amount0 == nil && amount1 == nil {
		return nil, &NeedAtLeastOneAmountError{}
	}
	switch {
	case sqrtCur.Cmp(sqrtLo) < 0:
		if amount0 == nil {
			return nil, &MissingSideError{Side: "amount0"}
		}
		return LFromAmount0(sqrtLo, sqrtHi, amount0)
	case sqrtCur.Cmp(sqrtHi) > 0:
		if amount1 == nil {
			return nil, &MissingSideError{Side: "amount1"}
		}
		return LFromAmount1(sqrtLo, sqrtHi, amount1)
	default:
		var l0, l1 *big.Int
		var err error
		if amount0 != nil {
			l0, err = LFromAmount0(sqrtCur, sqrtHi, amount0)
			if err != nil {
				return nil, err
			}
		}
		if amount1 != nil {
			l1, err = LFromAmount1(sqrtLo, sqrtCur, amount1)
			if err != nil {
				return nil, err
			}
		}
		switch {
		case l0 != nil && l1 != nil:
			if l0.Cmp(l1) < 0 {
				return l0, nil
			}
			return l1, nil
		case l0 != nil:
			return l0, nil
		default:
			return l1, nil
		}
	}
}

// AmountsForLiquidity is the symmetric `amounts(...)` dispatcher.
func AmountsForLiquidity(sqrtCur, sqrtLo, sqrtHi, l *big.Int) (amount0, amount1 *big.Int, err error) {
	if sqrtHi.Cmp(sqrtLo) <= 0 {
		return nil, nil, &BadRangeError{}
	}
	switch {
	case sqrtCur.Cmp(sqrtLo) < 0:
		a0, err := Amount0FromL(sqrtLo, sqrtHi, l)
		if err != nil {
			return nil, nil, err
		}
		return a0, big.NewInt(0), nil
	case sqrtCur.Cmp(sqrtHi) > 0:
		a1, err := Amount1FromL(sqrtLo, sqrtHi, l)
		if err != nil {
			return nil, nil, err
		}
		return big.NewInt(0), a1, nil
	default:
		a0, err := Amount0FromL(sqrtCur, sqrtHi, l)
		if err != nil {
			return nil, nil, err
		}
		a1, err := Amount1FromL(sqrtLo, sqrtCur, l)
		if err != nil {
			return nil, nil, err
		}
		return a0, a1, nil
	}
}
