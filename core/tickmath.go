package core

// Fixed-point and tick math (spec §4.A). Tick/price conversions use
// real-valued arithmetic (math/big.Float for the sqrt-price band, math.Log
// for tick<->price) and are only ever used at points where the result is
// immediately floored to a tick or is purely for display — never as an
// intermediate in an amount computation. Amount and liquidity math
// (liquidity_math.go) stays on exact integers throughout.

import (
	"math"
	"math/big"
)

const lnTickBase = 9.999500033329732e-05 // math.Log(1.0001), precomputed for determinism across platforms

// PriceToTick converts a human price to the nearest-floor tick, per
// tick = floor(ln(price)/ln(1.0001)). If invert is set, price is replaced
// by 1/price first (pool-orientation callers use this to convert a
// USD-per-volatile price into the pool's native currency1/currency0 form).
func PriceToTick(price float64, invert bool) (int32, error) {
	if price <= 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, &InvalidPriceError{Price: price}
	}
	p := price
	if invert {
		p = 1 / p
	}
	t := math.Floor(math.Log(p) / lnTickBase)
	return clampTick(t), nil
}

func clampTick(t float64) int32 {
	if t < float64(MinTick) {
		return MinTick
	}
	if t > float64(MaxTick) {
		return MaxTick
	}
	return int32(t)
}

// TickToPrice returns 1.0001^tick, or its reciprocal when invert is set.
// Evaluated in log-space so it stays finite (if extreme) across the whole
// tick range without panicking.
func TickToPrice(tick int32, invert bool) float64 {
	logPrice := float64(tick) * lnTickBase
	p := math.Exp(logPrice)
	if invert {
		if p == 0 {
			return math.Inf(1)
		}
		return 1 / p
	}
	return p
}

// AlignTick rounds tick to the nearest multiple of spacing, in the
// direction chosen by the caller. roundDown=true floors toward -inf,
// false ceils toward +inf. Already-aligned ticks are returned unchanged.
func AlignTick(tick int32, spacing int32, roundDown bool) int32 {
	if spacing <= 0 {
		return tick
	}
	r := tick % spacing
	if r == 0 {
		return tick
	}
	if roundDown {
		if tick < 0 {
			return tick - r - spacing
		}
		return tick - r
	}
	// round up (ceil toward +inf)
	if r > 0 {
		return tick + (spacing - r)
	}
	return tick - r
}

// SqrtPriceX96FromPrice returns floor(sqrt(price) * 2^96), clamped into
// [MinSqrtRatio, MaxSqrtRatio].
func SqrtPriceX96FromPrice(price float64) (*big.Int, error) {
	if price <= 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return nil, &InvalidPriceError{Price: price}
	}
	bf := new(big.Float).SetPrec(256).SetFloat64(price)
	sq := new(big.Float).SetPrec(256).Sqrt(bf)
	scaled := new(big.Float).SetPrec(256).Mul(sq, new(big.Float).SetPrec(256).SetInt(Q96))
	out, _ := scaled.Int(nil)
	return clampSqrtRatio(out), nil
}

func clampSqrtRatio(s *big.Int) *big.Int {
	if s.Cmp(MinSqrtRatio) < 0 {
		return new(big.Int).Set(MinSqrtRatio)
	}
	if s.Cmp(MaxSqrtRatio) > 0 {
		return new(big.Int).Set(MaxSqrtRatio)
	}
	return s
}

// PriceFromSqrtPriceX96 returns (s/2^96)^2 as a float64.
func PriceFromSqrtPriceX96(s *big.Int) float64 {
	ratio := new(big.Float).SetPrec(256).Quo(
		new(big.Float).SetPrec(256).SetInt(s),
		new(big.Float).SetPrec(256).SetInt(Q96),
	)
	sq := new(big.Float).SetPrec(256).Mul(ratio, ratio)
	f, _ := sq.Float64()
	return f
}

// TickToSqrtPriceX96 composes TickToPrice and SqrtPriceX96FromPrice and
// must stay consistent with them under round-trip (tested in §8).
func TickToSqrtPriceX96(tick int32) *big.Int {
	p := TickToPrice(tick, false)
	s, err := SqrtPriceX96FromPrice(p)
	if err != nil {
		// Only unreachable extremes (p == 0 or +Inf) land here; clamp to
		// the legal band's edges rather than propagate a math error from
		// a pure tick conversion.
		if p == 0 {
			return new(big.Int).Set(MinSqrtRatio)
		}
		return new(big.Int).Set(MaxSqrtRatio)
	}
	return s
}

// SqrtPriceX96ToTick inverts TickToSqrtPriceX96 via the price domain.
func SqrtPriceX96ToTick(s *big.Int) int32 {
	price := PriceFromSqrtPriceX96(s)
	if price <= 0 {
		return MinTick
	}
	t, err := PriceToTick(price, false)
	if err != nil {
		return MinTick
	}
	return t
}

// GetTickSpacing implements the fee -> spacing table, with the v4 custom
// heuristic when allowCustom is set.
func GetTickSpacing(fee uint32, allowCustom bool) (int32, error) {
	if s, ok := standardTickSpacing[fee]; ok {
		return s, nil
	}
	if !allowCustom {
		return 0, &UnknownFeeTierError{Fee: fee}
	}
	spacing := int32(math.Round(float64(fee) / 10000 * 200))
	if spacing < 1 {
		spacing = 1
	}
	return spacing, nil
}

// DecimalTickOffset returns the tick shift needed to reconcile
// human-readable prices with pool-raw prices when two tokens carry
// different decimals. addrA/decA and addrB/decB need not already be in
// pool (currency0 < currency1) order; this normalises internally so the
// sign of the offset always matches "shift applied to currency1/currency0".
// Zero when decimals match.
func DecimalTickOffset(addrA Address, decA uint8, addrB Address, decB uint8) int32 {
	dec0, dec1 := decA, decB
	if !addrA.LessThan(addrB) {
		dec0, dec1 = decB, decA
	}
	if dec0 == dec1 {
		return 0
	}
	diff := int(dec0) - int(dec1)
	offset := math.Log(math.Pow(10, float64(diff))) / lnTickBase
	return int32(math.Round(offset))
}
