package core

// Distribution planner (spec §4.C): converts a human range request into an
// ordered, tick-aligned, non-overlapping ladder of sub-positions with
// per-bucket capital allocations. Pure function — no I/O, no network, no
// wallet access (spec §9 "mixed concerns" redesign note).

import (
	"math"
	"math/big"
)

// LadderPlanInput is the planner's input vector. TotalUSDWei is already
// decimal-adjusted (wei of whichever token the orientation resolver
// assigned as the stablecoin side) so the planner itself never needs to
// know token decimals.
type LadderPlanInput struct {
	CurrentPrice        float64
	LimitPrice          float64
	TotalUSDWei         *big.Int
	N                    int
	Fee                  uint32
	Shape                DistributionShape
	InvertPrice          bool
	TickSpacingOverride  *int32
	DecimalOffset        int32
	AllowCustomFee       bool
}

// PlanLadder implements the one-sided planner (spec §4.C steps 1-10).
func PlanLadder(in LadderPlanInput) ([]SubPosition, error) {
	if in.N < 1 {
		return nil, &InvalidRangeError{Reason: "n must be >= 1"}
	}
	if in.TotalUSDWei == nil || in.TotalUSDWei.Sign() <= 0 {
		return nil, &InvalidRangeError{Reason: "total_usd must be > 0"}
	}
	if in.CurrentPrice == in.LimitPrice {
		return nil, &InvalidRangeError{Reason: "current_price equals limit_price"}
	}

	spacing := in.TickSpacingOverride
	var sp int32
	if spacing != nil {
		sp = *spacing
	} else {
		s, err := GetTickSpacing(in.Fee, in.AllowCustomFee)
		if err != nil {
			return nil, err
		}
		sp = s
	}

	tCur, err := PriceToTick(in.CurrentPrice, in.InvertPrice)
	if err != nil {
		return nil, err
	}
	tLim, err := PriceToTick(in.LimitPrice, in.InvertPrice)
	if err != nil {
		return nil, err
	}

	descending := tCur > tLim

	var tInner, tOuter int32
	if descending {
		tInner = AlignTick(tCur, sp, true)
		tOuter = AlignTick(tLim, sp, true)
	} else {
		tInner = AlignTick(tCur, sp, false)
		tOuter = AlignTick(tLim, sp, false)
	}

	tLo, tHi := tOuter, tInner
	if tLo > tHi {
		tLo, tHi = tHi, tLo
	}
	if tHi <= tLo {
		tHi = tLo + sp
	}

	span := tHi - tLo
	w := int32(math.Ceil(float64(span)/float64(in.N)/float64(sp))) * sp
	if w < sp {
		w = sp
	}

	weights := weightVector(in.Shape, in.N)
	sumW := 0.0
	for _, wt := range weights {
		sumW += wt
	}

	positions := make([]SubPosition, in.N)
	allocated := new(big.Int)
	totalF := new(big.Float).SetInt(in.TotalUSDWei)

	for i := 0; i < in.N; i++ {
		var rawLo, rawHi int32
		if descending {
			rawLo = tInner - w*int32(i+1)
			rawHi = tInner - w*int32(i)
		} else {
			rawLo = tInner + w*int32(i)
			rawHi = tInner + w*int32(i+1)
		}

		poolLo := alignNearest(rawLo+in.DecimalOffset, sp)
		poolHi := alignNearest(rawHi+in.DecimalOffset, sp)
		if poolHi <= poolLo {
			poolHi = poolLo + sp
		}

		var usd *big.Int
		if i == in.N-1 {
			usd = new(big.Int).Sub(in.TotalUSDWei, allocated)
		} else {
			share := weights[i] / sumW
			f := new(big.Float).Mul(totalF, big.NewFloat(share))
			usd, _ = f.Int(nil)
			allocated.Add(allocated, usd)
		}

		priceA := TickToPrice(rawLo, in.InvertPrice)
		priceB := TickToPrice(rawHi, in.InvertPrice)
		lowerDisplay, upperDisplay := priceA, priceB
		if lowerDisplay > upperDisplay {
			lowerDisplay, upperDisplay = upperDisplay, lowerDisplay
		}

		sqrtLo := TickToSqrtPriceX96(poolLo)
		sqrtHi := TickToSqrtPriceX96(poolHi)

		var liq *big.Int
		if descending {
			liq, err = LFromAmount1(sqrtLo, sqrtHi, usd)
		} else {
			liq, err = LFromAmount0(sqrtLo, sqrtHi, usd)
		}
		if err != nil {
			// Degenerate bucket (zero-width after clamping); report zero
			// liquidity rather than fail the whole plan.
			liq = big.NewInt(0)
		}

		pct := 0.0
		if totalF.Sign() != 0 {
			uf := new(big.Float).SetInt(usd)
			r, _ := new(big.Float).Quo(uf, totalF).Float64()
			pct = r * 100
		}

		positions[i] = SubPosition{
			Index:             i,
			TickLower:         poolLo,
			TickUpper:         poolHi,
			PriceLowerDisplay: lowerDisplay,
			PriceUpperDisplay: upperDisplay,
			USDAmount:         usd,
			Percentage:        pct,
			LiquidityEstimate: liq,
		}
	}
	return positions, nil
}

// alignNearest rounds tick to the nearest multiple of spacing (ties away
// from zero), used only for the decimal-offset re-alignment step (§4.C.9).
func alignNearest(tick, spacing int32) int32 {
	if spacing <= 0 {
		return tick
	}
	r := tick % spacing
	if r == 0 {
		return tick
	}
	if r < 0 {
		if 2*(-r) >= spacing {
			return tick - (spacing + r)
		}
		return tick - r
	}
	if 2*r >= spacing {
		return tick + (spacing - r)
	}
	return tick - r
}

func weightVector(shape DistributionShape, n int) []float64 {
	w := make([]float64, n)
	switch shape {
	case Linear:
		for i := 0; i < n; i++ {
			w[i] = float64(i + 1)
		}
	case Quadratic:
		for i := 0; i < n; i++ {
			w[i] = float64((i + 1) * (i + 1))
		}
	case Exponential:
		base := 1.5
		acc := 1.0
		for i := 0; i < n; i++ {
			w[i] = acc
			acc *= base
		}
	case Fibonacci:
		a, b := 1.0, 1.0
		for i := 0; i < n; i++ {
			if i == 0 {
				w[i] = 1
				continue
			}
			if i == 1 {
				w[i] = 1
				continue
			}
			c := a + b
			w[i] = c
			a, b = b, c
		}
	}
	return w
}

// BidAskInput is the two-sided wrapper's input (spec §4.C
// calculate_bid_ask_from_percent).
type BidAskInput struct {
	CurrentPrice   float64
	PercentFrom    float64 // negative, e.g. -30
	PercentTo      float64 // positive, e.g. +30
	TotalUSDWei    *big.Int
	N              int
	Fee            uint32
	Shape          DistributionShape
	InvertPrice    bool
	TickSpacingOverride *int32
	DecimalOffset  int32
	AllowCustomFee bool
}

// CalculateBidAskFromPercent partitions a two-sided request into below-
// and above-current one-sided plans, renumbering indices after
// concatenation (spec §4.C, scenario S3).
func CalculateBidAskFromPercent(in BidAskInput) ([]SubPosition, error) {
	pctLo := math.Min(in.PercentFrom, in.PercentTo)
	pctHi := math.Max(in.PercentFrom, in.PercentTo)
	priceLo := in.CurrentPrice * (1 + pctLo/100)
	priceHi := in.CurrentPrice * (1 + pctHi/100)

	oneSided := func(limit float64, usd *big.Int, n int) ([]SubPosition, error) {
		return PlanLadder(LadderPlanInput{
			CurrentPrice:        in.CurrentPrice,
			LimitPrice:          limit,
			TotalUSDWei:         usd,
			N:                   n,
			Fee:                 in.Fee,
			Shape:               in.Shape,
			InvertPrice:         in.InvertPrice,
			TickSpacingOverride: in.TickSpacingOverride,
			DecimalOffset:       in.DecimalOffset,
			AllowCustomFee:      in.AllowCustomFee,
		})
	}

	if priceHi <= in.CurrentPrice {
		return oneSided(priceLo, in.TotalUSDWei, in.N)
	}
	if priceLo >= in.CurrentPrice {
		return oneSided(priceHi, in.TotalUSDWei, in.N)
	}

	tCur, err := PriceToTick(in.CurrentPrice, in.InvertPrice)
	if err != nil {
		return nil, err
	}
	tLo, err := PriceToTick(priceLo, in.InvertPrice)
	if err != nil {
		return nil, err
	}
	tHi, err := PriceToTick(priceHi, in.InvertPrice)
	if err != nil {
		return nil, err
	}
	distBelow := float64(tCur - tLo)
	distAbove := float64(tHi - tCur)
	if distBelow < 0 {
		distBelow = -distBelow
	}
	if distAbove < 0 {
		distAbove = -distAbove
	}
	totalDist := distBelow + distAbove
	if totalDist == 0 {
		totalDist = 1
	}

	nBelow := int(math.Round(float64(in.N) * distBelow / totalDist))
	if nBelow < 1 {
		nBelow = 1
	}
	if nBelow > in.N-1 {
		nBelow = in.N - 1
	}
	nAbove := in.N - nBelow

	totalF := new(big.Float).SetInt(in.TotalUSDWei)
	usdBelowF := new(big.Float).Mul(totalF, big.NewFloat(distBelow/totalDist))
	usdBelow, _ := usdBelowF.Int(nil)
	usdAbove := new(big.Int).Sub(in.TotalUSDWei, usdBelow)

	below, err := oneSided(priceLo, usdBelow, nBelow)
	if err != nil {
		return nil, err
	}
	above, err := oneSided(priceHi, usdAbove, nAbove)
	if err != nil {
		return nil, err
	}

	out := make([]SubPosition, 0, len(below)+len(above))
	idx := 0
	for _, p := range below {
		p.Index = idx
		idx++
		out = append(out, p)
	}
	for _, p := range above {
		p.Index = idx
		idx++
		out = append(out, p)
	}
	return out, nil
}
