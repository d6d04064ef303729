package core

// Swap planner (spec §4.I): post-close token sell routing across V2/V3
// paths, price-impact gate, event-based actual-out parsing.

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// SwapToken is one item in the post-close sell-down list.
type SwapToken struct {
	Address  Address
	WeiAmount *big.Int
	Decimals uint8
	Symbol   string
}

type SwapVenue int

const (
	VenueAuto SwapVenue = iota
	VenueV2
	VenueV3
)

// RouteQuote is the best route found for one token.
type RouteQuote struct {
	Token       Address
	Venue       SwapVenue
	Fee         uint32   // v3 direct single-hop only; 0 for v2 and multihop
	MultiHop    bool
	Path        []Address // for multihop v3: token -> wrapped-native -> out
	PathFees    []uint32  // one fee per hop, parallel to consecutive Path pairs
	AmountOut   *big.Int
	PoolAddress Address // direct v3 pool used for the price-impact gate
}

// SwapQuoter is the minimal RPC surface the planner needs to probe
// routes; production wires this to PoolReader + router eth_call probes.
type SwapQuoter interface {
	QuoteV2(ctx context.Context, router Address, amountIn *big.Int, path []Address) (*big.Int, error)
	QuoteV3Single(ctx context.Context, quoter Address, tokenIn, tokenOut Address, fee uint32, amountIn *big.Int) (*big.Int, error)
	SpotSqrtPriceX96(ctx context.Context, pool Address) (*big.Int, error)
}

// SwapPlanInput bundles planner configuration (spec §4.I).
type SwapPlanInput struct {
	Tokens           []SwapToken
	StableToken       Address
	StableDecimals    uint8
	WrappedNative     Address
	MaxPriceImpactPct float64
	SlippagePct       float64
	PreferredVenue    SwapVenue
	V2Router          Address
	V3Router          Address
	V3Quoter          Address
	V3Factory         Address
	StandardFeeTiers  []uint32
}

// PlanSwaps implements spec §4.I steps 1-4 (route selection and the
// price-impact gate); step 5 onward (approve/submit/parse) is the
// batch executor's job once a route is chosen.
func PlanSwaps(ctx context.Context, q SwapQuoter, reader *PoolReader, in SwapPlanInput) ([]RouteQuote, []error) {
	var quotes []RouteQuote
	var errs []error

	for _, tok := range in.Tokens {
		if tok.Address == in.StableToken {
			continue // spec step 1: stables drop out, counted 1:1 elsewhere
		}

		best, err := bestRoute(ctx, q, in, tok)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		quotes = append(quotes, best)
	}
	return quotes, errs
}

func bestRoute(ctx context.Context, q SwapQuoter, in SwapPlanInput, tok SwapToken) (RouteQuote, error) {
	var v2Quote, v3Quote *RouteQuote

	if in.PreferredVenue != VenueV3 {
		if out, err := q.QuoteV2(ctx, in.V2Router, tok.WeiAmount, []Address{tok.Address, in.StableToken}); err == nil && out != nil && out.Sign() > 0 {
			v2Quote = &RouteQuote{Token: tok.Address, Venue: VenueV2, AmountOut: out}
		}
	}

	if in.PreferredVenue != VenueV2 {
		var bestDirect *RouteQuote
		for _, fee := range in.StandardFeeTiers {
			out, err := q.QuoteV3Single(ctx, in.V3Quoter, tok.Address, in.StableToken, fee, tok.WeiAmount)
			if err != nil || out == nil || out.Sign() <= 0 {
				continue
			}
			if bestDirect == nil || out.Cmp(bestDirect.AmountOut) > 0 {
				bestDirect = &RouteQuote{Token: tok.Address, Venue: VenueV3, Fee: fee, AmountOut: out}
			}
		}

		if bestDirect == nil {
			for _, fee1 := range in.StandardFeeTiers {
				leg1, err := q.QuoteV3Single(ctx, in.V3Quoter, tok.Address, in.WrappedNative, fee1, tok.WeiAmount)
				if err != nil || leg1 == nil || leg1.Sign() <= 0 {
					continue
				}
				for _, fee2 := range in.StandardFeeTiers {
					leg2, err := q.QuoteV3Single(ctx, in.V3Quoter, in.WrappedNative, in.StableToken, fee2, leg1)
					if err != nil || leg2 == nil || leg2.Sign() <= 0 {
						continue
					}
					cand := &RouteQuote{
						Token: tok.Address, Venue: VenueV3, MultiHop: true,
						Path:      []Address{tok.Address, in.WrappedNative, in.StableToken},
						PathFees:  []uint32{fee1, fee2},
						AmountOut: leg2,
					}
					if bestDirect == nil || leg2.Cmp(bestDirect.AmountOut) > 0 {
						bestDirect = cand
					}
				}
			}
		}
		v3Quote = bestDirect
	}

	if v2Quote != nil && v3Quote != nil {
		diffPct := percentDiff(v2Quote.AmountOut, v3Quote.AmountOut)
		if diffPct > 10 {
			// Quotes more than 10% apart are not a failure; the
			// divergence is computed but not logged or returned.
			_ = diffPct
		}
	}

	switch {
	case v3Quote != nil && !v3Quote.MultiHop:
		if pool, perr := reader.FindPool(ctx, in.V3Factory, v3Quote.Token, in.StableToken, v3Quote.Fee); perr == nil {
			v3Quote.PoolAddress = pool
		}
		if err := priceImpactGate(ctx, q, in, *v3Quote); err != nil {
			return RouteQuote{}, err
		}
		return *v3Quote, nil
	case v3Quote != nil:
		return *v3Quote, nil
	case v2Quote != nil:
		return *v2Quote, nil
	default:
		return RouteQuote{}, &PriceImpactTooHighError{ActualPercent: 0, LimitPercent: in.MaxPriceImpactPct}
	}
}

func percentDiff(a, b *big.Int) float64 {
	if a.Sign() == 0 || b.Sign() == 0 {
		return 0
	}
	af := new(big.Float).SetInt(a)
	bf := new(big.Float).SetInt(b)
	diff := new(big.Float).Sub(af, bf)
	ratio := new(big.Float).Quo(diff, af)
	f, _ := ratio.Float64()
	if f < 0 {
		f = -f
	}
	return f * 100
}

// priceImpactGate implements spec §4.I step 3 for direct v3 routes.
func priceImpactGate(ctx context.Context, q SwapQuoter, in SwapPlanInput, route RouteQuote) error {
	sqrtSpot, err := q.SpotSqrtPriceX96(ctx, route.PoolAddress)
	if err != nil || sqrtSpot == nil {
		return nil // no pool to check against (pool address unresolved); caller's quote already succeeded
	}
	spot := PriceFromSqrtPriceX96(sqrtSpot)
	if spot == 0 {
		return nil
	}

	tok := findToken(in.Tokens, route.Token)
	amountInF := weiToFloat(tok.WeiAmount, tok.Decimals)
	amountOutF := weiToFloat(route.AmountOut, in.StableDecimals)
	if amountInF == 0 {
		return nil
	}
	exec := amountOutF / amountInF

	impact := (1 - exec/spot) * 100
	if impact < 0 {
		impact = -impact
	}
	if impact > in.MaxPriceImpactPct {
		return &PriceImpactTooHighError{ActualPercent: impact, LimitPercent: in.MaxPriceImpactPct}
	}
	return nil
}

func findToken(tokens []SwapToken, addr Address) SwapToken {
	for _, t := range tokens {
		if t.Address == addr {
			return t
		}
	}
	return SwapToken{}
}

func weiToFloat(wei *big.Int, decimals uint8) float64 {
	if wei == nil {
		return 0
	}
	f := new(big.Float).SetInt(wei)
	scale := new(big.Float).SetFloat64(pow10(decimals))
	f.Quo(f, scale)
	r, _ := f.Float64()
	return r
}

func pow10(n uint8) float64 {
	r := 1.0
	for i := uint8(0); i < n; i++ {
		r *= 10
	}
	return r
}

// SqrtPriceLimit implements spec §4.I step 4: shifts spot price by
// ±slippage, clamped to the legal sqrt-ratio band.
func SqrtPriceLimit(sqrtSpot *big.Int, slippagePct float64, sellingToken0 bool) *big.Int {
	spot := new(big.Float).SetInt(sqrtSpot)
	var factor float64
	if sellingToken0 {
		factor = 1 - slippagePct/100 // price falls as we sell token0
	} else {
		factor = 1 + slippagePct/100
	}
	shifted := new(big.Float).Mul(spot, big.NewFloat(factor))
	limit, _ := shifted.Int(nil)
	return clampSqrtRatio(limit)
}

// EncodeExactInputSingle packs v3 router exactInputSingle (direct swap).
func EncodeExactInputSingle(tokenIn, tokenOut Address, fee uint32, recipient Address, deadlineTTL int64, amountIn, amountOutMin, sqrtPriceLimitX96 *big.Int) ([]byte, error) {
	type tuple struct {
		TokenIn           common.Address
		TokenOut          common.Address
		Fee               *big.Int
		Recipient         common.Address
		Deadline          *big.Int
		AmountIn          *big.Int
		AmountOutMinimum  *big.Int
		SqrtPriceLimitX96 *big.Int
	}
	args := tuple{
		TokenIn: tokenIn.Ethereum(), TokenOut: tokenOut.Ethereum(),
		Fee: big.NewInt(int64(fee)), Recipient: recipient.Ethereum(),
		Deadline: deadline(time.Duration(deadlineTTL) * time.Second), AmountIn: amountIn, AmountOutMinimum: amountOutMin,
		SqrtPriceLimitX96: sqrtPriceLimitX96,
	}
	return v3RouterABI.Pack("exactInputSingle", args)
}

// PackV3Path builds the tightly-packed multi-hop path blob (spec §6
// wire formats): address||uint24||address||uint24||...||address.
func PackV3Path(tokens []Address, fees []uint32) []byte {
	out := make([]byte, 0, len(tokens)*20+len(fees)*3)
	for i, t := range tokens {
		out = append(out, t.Ethereum().Bytes()...)
		if i < len(fees) {
			f := fees[i]
			out = append(out, byte(f>>16), byte(f>>8), byte(f))
		}
	}
	return out
}

// EncodeSwapExactTokensForTokensV2 packs v2 router swapExactTokensForTokens.
func EncodeSwapExactTokensForTokensV2(amountIn, amountOutMin *big.Int, path []Address, recipient Address, deadlineTTL time.Duration) ([]byte, error) {
	return v2RouterABI.Pack("swapExactTokensForTokens", amountIn, amountOutMin, toEthAddresses(path), recipient.Ethereum(), deadline(deadlineTTL))
}

// EncodeExactInput packs v3 router exactInput for a multi-hop path.
func EncodeExactInput(path []byte, recipient Address, deadlineTTL time.Duration, amountIn, amountOutMin *big.Int) ([]byte, error) {
	type tuple struct {
		Path             []byte
		Recipient        common.Address
		Deadline         *big.Int
		AmountIn         *big.Int
		AmountOutMinimum *big.Int
	}
	return v3RouterABI.Pack("exactInput", tuple{
		Path: path, Recipient: recipient.Ethereum(), Deadline: deadline(deadlineTTL),
		AmountIn: amountIn, AmountOutMinimum: amountOutMin,
	})
}
