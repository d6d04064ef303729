package core

import (
	"math"
	"math/big"
	"testing"
)

func TestPriceToTickRoundTrip(t *testing.T) {
	prices := []float64{0.0001, 0.5, 1, 2, 100, 3200.75, 1_000_000}
	for _, p := range prices {
		tick, err := PriceToTick(p, false)
		if err != nil {
			t.Fatalf("PriceToTick(%v): %v", p, err)
		}
		back := TickToPrice(tick, false)
		// floor(ln/ln) means back can differ from p by up to one tick's width.
		ratio := back / p
		if ratio < 0.9999 || ratio > 1.0002 {
			t.Errorf("price %v -> tick %d -> price %v, ratio %v out of tolerance", p, tick, back, ratio)
		}
	}
}

func TestPriceToTickInvert(t *testing.T) {
	tick, err := PriceToTick(4, false)
	if err != nil {
		t.Fatal(err)
	}
	invTick, err := PriceToTick(0.25, true)
	if err != nil {
		t.Fatal(err)
	}
	if tick != invTick {
		t.Errorf("PriceToTick(4, false)=%d, PriceToTick(0.25, true)=%d, want equal", tick, invTick)
	}
}

func TestPriceToTickRejectsNonPositive(t *testing.T) {
	for _, p := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if _, err := PriceToTick(p, false); err == nil {
			t.Errorf("PriceToTick(%v) should have failed", p)
		}
	}
}

func TestAlignTickAlreadyAligned(t *testing.T) {
	if got := AlignTick(60, 60, true); got != 60 {
		t.Errorf("AlignTick(60,60,true)=%d, want 60", got)
	}
	if got := AlignTick(60, 60, false); got != 60 {
		t.Errorf("AlignTick(60,60,false)=%d, want 60", got)
	}
}

func TestAlignTickRoundDirection(t *testing.T) {
	if got := AlignTick(65, 60, true); got != 60 {
		t.Errorf("AlignTick(65,60,true)=%d, want 60", got)
	}
	if got := AlignTick(65, 60, false); got != 120 {
		t.Errorf("AlignTick(65,60,false)=%d, want 120", got)
	}
	if got := AlignTick(-65, 60, true); got != -120 {
		t.Errorf("AlignTick(-65,60,true)=%d, want -120", got)
	}
}

func TestSqrtPriceRoundTrip(t *testing.T) {
	for _, tick := range []int32{MinTick, -887220, -60, 0, 60, 887220, MaxTick} {
		sqrt := TickToSqrtPriceX96(tick)
		back := SqrtPriceX96ToTick(sqrt)
		diff := int64(back) - int64(tick)
		if diff < -1 || diff > 1 {
			t.Errorf("tick %d -> sqrtPriceX96 %v -> tick %d, drift too large", tick, sqrt, back)
		}
	}
}

func TestSqrtPriceX96FromPriceClampsToBand(t *testing.T) {
	s, err := SqrtPriceX96FromPrice(1e300)
	if err != nil {
		t.Fatal(err)
	}
	if s.Cmp(MaxSqrtRatio) > 0 {
		t.Errorf("sqrt price %v exceeds MaxSqrtRatio %v", s, MaxSqrtRatio)
	}
}

func TestGetTickSpacingStandardTiers(t *testing.T) {
	cases := map[uint32]int32{100: 1, 500: 10, 3000: 60, 10000: 200}
	for fee, want := range cases {
		got, err := GetTickSpacing(fee, false)
		if err != nil {
			t.Fatalf("GetTickSpacing(%d): %v", fee, err)
		}
		if got != want {
			t.Errorf("GetTickSpacing(%d)=%d, want %d", fee, got, want)
		}
	}
}

func TestGetTickSpacingUnknownFeeRejectedWithoutCustom(t *testing.T) {
	if _, err := GetTickSpacing(1234, false); err == nil {
		t.Error("expected UnknownFeeTierError for an unlisted fee tier")
	}
	if _, err := GetTickSpacing(1234, true); err != nil {
		t.Errorf("allowCustom=true should derive a spacing, got error: %v", err)
	}
}

func TestDecimalTickOffsetZeroWhenEqual(t *testing.T) {
	a := mustAddr(t, "0x0000000000000000000000000000000000000001")
	b := mustAddr(t, "0x0000000000000000000000000000000000000002")
	if off := DecimalTickOffset(a, 18, b, 18); off != 0 {
		t.Errorf("DecimalTickOffset with equal decimals = %d, want 0", off)
	}
}

func TestDecimalTickOffsetNonZero(t *testing.T) {
	a := mustAddr(t, "0x0000000000000000000000000000000000000001")
	b := mustAddr(t, "0x0000000000000000000000000000000000000002")
	off := DecimalTickOffset(a, 18, b, 6)
	if off == 0 {
		t.Error("DecimalTickOffset with differing decimals should be non-zero")
	}
}

func mustAddr(t *testing.T, s string) Address {
	t.Helper()
	a, err := ParseAddress(s)
	if err != nil {
		t.Fatalf("ParseAddress(%q): %v", s, err)
	}
	return a
}

func TestClampSqrtRatioBounds(t *testing.T) {
	tooLow := new(big.Int).Sub(MinSqrtRatio, big.NewInt(1))
	if got := clampSqrtRatio(tooLow); got.Cmp(MinSqrtRatio) != 0 {
		t.Errorf("clampSqrtRatio(below min) = %v, want %v", got, MinSqrtRatio)
	}
	tooHigh := new(big.Int).Add(MaxSqrtRatio, big.NewInt(1))
	if got := clampSqrtRatio(tooHigh); got.Cmp(MaxSqrtRatio) != 0 {
		t.Errorf("clampSqrtRatio(above max) = %v, want %v", got, MaxSqrtRatio)
	}
}
