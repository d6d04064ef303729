package core

import (
	"math/big"
	"testing"
)

func TestLiquidityAmountsRoundTrip(t *testing.T) {
	sqrtLo := TickToSqrtPriceX96(-60)
	sqrtHi := TickToSqrtPriceX96(60)
	sqrtCur := TickToSqrtPriceX96(0)

	amount0 := big.NewInt(1_000_000_000)
	l, err := LiquidityForAmounts(sqrtCur, sqrtLo, sqrtHi, amount0, nil)
	if err != nil {
		t.Fatalf("LiquidityForAmounts: %v", err)
	}
	a0, a1, err := AmountsForLiquidity(sqrtCur, sqrtLo, sqrtHi, l)
	if err != nil {
		t.Fatalf("AmountsForLiquidity: %v", err)
	}
	if a0.Sign() <= 0 || a1.Sign() <= 0 {
		t.Fatalf("expected both amounts positive inside the range, got a0=%v a1=%v", a0, a1)
	}
	// Integer division means a0 can undershoot the requested amount0Desired
	// by a tiny remainder, never overshoot it.
	if a0.Cmp(amount0) > 0 {
		t.Errorf("derived amount0 %v exceeds requested amount0 %v", a0, amount0)
	}
}

func TestLiquidityForAmountsBelowRangeNeedsAmount0(t *testing.T) {
	sqrtLo := TickToSqrtPriceX96(0)
	sqrtHi := TickToSqrtPriceX96(60)
	sqrtCur := TickToSqrtPriceX96(-60) // below the range

	if _, err := LiquidityForAmounts(sqrtCur, sqrtLo, sqrtHi, nil, big.NewInt(1)); err == nil {
		t.Error("expected MissingSideError when only amount1 is supplied below range")
	}
	if _, err := LiquidityForAmounts(sqrtCur, sqrtLo, sqrtHi, big.NewInt(1), nil); err != nil {
		t.Errorf("amount0 alone should suffice below range: %v", err)
	}
}

func TestLiquidityForAmountsAboveRangeNeedsAmount1(t *testing.T) {
	sqrtLo := TickToSqrtPriceX96(-60)
	sqrtHi := TickToSqrtPriceX96(0)
	sqrtCur := TickToSqrtPriceX96(60) // above the range

	if _, err := LiquidityForAmounts(sqrtCur, sqrtLo, sqrtHi, big.NewInt(1), nil); err == nil {
		t.Error("expected MissingSideError when only amount0 is supplied above range")
	}
	if _, err := LiquidityForAmounts(sqrtCur, sqrtLo, sqrtHi, nil, big.NewInt(1)); err != nil {
		t.Errorf("amount1 alone should suffice above range: %v", err)
	}
}

func TestLiquidityForAmountsRejectsInvertedRange(t *testing.T) {
	sqrtLo := TickToSqrtPriceX96(60)
	sqrtHi := TickToSqrtPriceX96(-60)
	sqrtCur := TickToSqrtPriceX96(0)
	if _, err := LiquidityForAmounts(sqrtCur, sqrtLo, sqrtHi, big.NewInt(1), big.NewInt(1)); err == nil {
		t.Error("expected BadRangeError when sqrtHi <= sqrtLo")
	}
}

func TestLiquidityForAmountsRejectsNoSides(t *testing.T) {
	sqrtLo := TickToSqrtPriceX96(-60)
	sqrtHi := TickToSqrtPriceX96(60)
	sqrtCur := TickToSqrtPriceX96(0)
	if _, err := LiquidityForAmounts(sqrtCur, sqrtLo, sqrtHi, nil, nil); err == nil {
		t.Error("expected NeedAtLeastOneAmountError when neither amount is supplied")
	}
}

func TestAmountsForLiquidityOutOfRangeIsOneSided(t *testing.T) {
	sqrtLo := TickToSqrtPriceX96(0)
	sqrtHi := TickToSqrtPriceX96(60)
	sqrtCur := TickToSqrtPriceX96(-60)

	a0, a1, err := AmountsForLiquidity(sqrtCur, sqrtLo, sqrtHi, big.NewInt(1_000_000))
	if err != nil {
		t.Fatal(err)
	}
	if a1.Sign() != 0 {
		t.Errorf("below-range liquidity should produce amount1=0, got %v", a1)
	}
	if a0.Sign() <= 0 {
		t.Errorf("below-range liquidity should produce amount0>0, got %v", a0)
	}
}
