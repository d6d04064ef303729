package main

import (
	"context"
	"encoding/json"
	"math/big"
	"os"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/spf13/cobra"

	"github.com/clladder/clladder/core"
	"github.com/clladder/clladder/pkg/utils"
)

const defaultSwapDeadline = 20 * time.Minute

type swapFlags struct {
	token           string
	amountWei       string
	decimals        uint8
	stable          string
	stableDecimals  uint8
	maxImpactPct    float64
	slippagePct     float64
	chainID         int64
	rpcURL          string
	walletPath      string
	password        string
	submit          bool
}

func swapCmd() *cobra.Command {
	f := swapFlags{}
	cmd := &cobra.Command{
		Use:   "swap",
		Short: "route a received non-stable token balance back into the stablecoin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSwap(cmd, f)
		},
	}
	cmd.Flags().StringVar(&f.token, "token", "", "token address to sell")
	cmd.Flags().StringVar(&f.amountWei, "amount-wei", "", "amount to sell, in the token's own wei units")
	cmd.Flags().Uint8Var(&f.decimals, "decimals", 18, "token decimals")
	cmd.Flags().StringVar(&f.stable, "stable", "", "stablecoin to receive")
	cmd.Flags().Uint8Var(&f.stableDecimals, "stable-decimals", 6, "stablecoin decimals")
	cmd.Flags().Float64Var(&f.maxImpactPct, "max-price-impact-percent", utils.EnvOrDefaultFloat64("CLLADDER_MAX_PRICE_IMPACT_PCT", 5.0), "reject routes whose price impact exceeds this percent")
	cmd.Flags().Float64Var(&f.slippagePct, "slippage-percent", 0.5, "slippage tolerance applied to the sqrt-price limit")
	cmd.Flags().Int64Var(&f.chainID, "chain-id", 0, "chain id (defaults to config)")
	cmd.Flags().StringVar(&f.rpcURL, "rpc-url", "", "override the registry's default RPC endpoint")
	cmd.Flags().StringVar(&f.walletPath, "wallet", "", "path to the encrypted vault file (required with --submit)")
	cmd.Flags().StringVar(&f.password, "password", "", "vault decryption password (required with --submit)")
	cmd.Flags().BoolVar(&f.submit, "submit", false, "submit the chosen route on-chain instead of only printing the plan")
	return cmd
}

func runSwap(cmd *cobra.Command, f swapFlags) error {
	if f.token == "" || f.amountWei == "" || f.stable == "" {
		return &core.InvalidRangeError{Reason: "--token, --amount-wei, and --stable are required"}
	}
	amount, ok := new(big.Int).SetString(f.amountWei, 10)
	if !ok {
		return &core.InvalidRangeError{Reason: "--amount-wei must be a base-10 integer"}
	}
	token, err := core.ParseAddress(f.token)
	if err != nil {
		return err
	}
	stable, err := core.ParseAddress(f.stable)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	cc, err := newChainContext(ctx, f.chainID, f.rpcURL)
	if err != nil {
		return err
	}

	variant, err := core.ParseProtocolVariant("v3_uniswap")
	if err != nil {
		return err
	}
	quoter := core.NewRPCSwapQuoter(cc.client, cc.reader, cc.pm.Factory(variant))

	in := core.SwapPlanInput{
		Tokens:            []core.SwapToken{{Address: token, WeiAmount: amount, Decimals: f.decimals, Symbol: ""}},
		StableToken:       stable,
		StableDecimals:    f.stableDecimals,
		WrappedNative:     cc.entry.WrappedNative,
		MaxPriceImpactPct: f.maxImpactPct,
		SlippagePct:       f.slippagePct,
		PreferredVenue:    core.VenueAuto,
		V2Router:          cc.entry.Protocols["v3_uniswap"].V2Router,
		V3Router:          cc.entry.Protocols["v3_uniswap"].V3Router,
		V3Quoter:          cc.entry.Protocols["v3_uniswap"].V3Quoter,
		V3Factory:         cc.entry.Protocols["v3_uniswap"].Factory,
		StandardFeeTiers:  []uint32{100, 500, 3000, 10000},
	}

	quotes, errs := core.PlanSwaps(ctx, quoter, cc.reader, in)
	if len(errs) > 0 {
		return errs[0]
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if !f.submit {
		return enc.Encode(quotes)
	}

	if f.walletPath == "" || f.password == "" {
		return &core.InvalidRangeError{Reason: "--wallet and --password are required with --submit"}
	}
	signer, err := loadVault(f.walletPath, f.password)
	if err != nil {
		return err
	}

	results := make([]*core.ExecuteResult, 0, len(quotes))
	for _, route := range quotes {
		res, err := submitSwapRoute(ctx, cc, signer, in, route)
		if err != nil {
			return err
		}
		results = append(results, res)
	}
	return enc.Encode(results)
}

// submitSwapRoute approves the router (if needed) and submits the
// chosen route as a single-call batch, following the same
// approve-then-execute shape the orchestrator uses for mints.
func submitSwapRoute(ctx context.Context, cc *chainContext, signer core.Signer, in core.SwapPlanInput, route core.RouteQuote) (*core.ExecuteResult, error) {
	eoa := signer.Address()
	router := in.V3Router
	if route.Venue == core.VenueV2 {
		router = in.V2Router
	}

	tok := route.Token
	amountIn := findSwapAmount(in, tok)
	amountOutMin := applySlippage(route.AmountOut, in.SlippagePct)

	if err := ensureRouterApproval(ctx, cc, signer, tok, router, amountIn); err != nil {
		return nil, err
	}

	var calldata []byte
	var err error
	var gasOp core.GasOperation
	switch {
	case route.Venue == core.VenueV3 && !route.MultiHop:
		sqrtSpot, serr := cc.reader.ReadPoolState(ctx, route.PoolAddress)
		var limit *big.Int
		if serr == nil && sqrtSpot.SqrtPriceX96 != nil {
			currency0, _ := core.SortCurrencies(tok, in.StableToken)
			limit = core.SqrtPriceLimit(sqrtSpot.SqrtPriceX96, in.SlippagePct, currency0 == tok)
		} else {
			limit = big.NewInt(0)
		}
		calldata, err = core.EncodeExactInputSingle(tok, in.StableToken, route.Fee, eoa, int64(defaultSwapDeadline/time.Second), amountIn, amountOutMin, limit)
		gasOp = core.GasSwapV3Single
	case route.Venue == core.VenueV3 && route.MultiHop:
		path := core.PackV3Path(route.Path, route.PathFees)
		calldata, err = core.EncodeExactInput(path, eoa, defaultSwapDeadline, amountIn, amountOutMin)
		gasOp = core.GasSwapV3Multihop
	default:
		calldata, err = core.EncodeSwapExactTokensForTokensV2(amountIn, amountOutMin, []core.Address{tok, in.StableToken}, eoa, defaultSwapDeadline)
		gasOp = core.GasSwapV3Single
	}
	if err != nil {
		return nil, err
	}

	exec := core.NewBatchExecutor(cc.client, signer, core.NewNonceManager(cc.client, eoa), cc.chainID, router)
	exec.AddCall(router, calldata, false)
	if _, err := exec.Simulate(ctx, eoa); err != nil {
		return nil, err
	}
	ethRouter := router.Ethereum()
	gasLimit := cc.gas.Estimate(ctx, ethereum.CallMsg{From: eoa.Ethereum(), To: &ethRouter, Data: calldata}, gasOp)
	gasParams, err := core.BuildGasParams(ctx, cc.client, gasLimit)
	if err != nil {
		return nil, err
	}
	return exec.Execute(ctx, eoa, gasParams)
}

func ensureRouterApproval(ctx context.Context, cc *chainContext, signer core.Signer, token, spender core.Address, amount *big.Int) error {
	eoa := signer.Address()
	allowance, err := cc.balances.Allowance(ctx, token, eoa, spender)
	if err != nil {
		return err
	}
	if allowance.Cmp(amount) >= 0 {
		return nil
	}
	calldata, err := core.EncodeApprove(spender, core.MaxUint256())
	if err != nil {
		return &core.ApproveFailedError{Reason: err.Error()}
	}
	exec := core.NewBatchExecutor(cc.client, signer, core.NewNonceManager(cc.client, eoa), cc.chainID, token)
	exec.AddCall(token, calldata, false)
	ethToken := token.Ethereum()
	gasLimit := cc.gas.Estimate(ctx, ethereum.CallMsg{From: eoa.Ethereum(), To: &ethToken, Data: calldata}, core.GasApprove)
	gasParams, err := core.BuildGasParams(ctx, cc.client, gasLimit)
	if err != nil {
		return &core.ApproveFailedError{Reason: err.Error()}
	}
	if _, err := exec.Execute(ctx, eoa, gasParams); err != nil {
		return &core.ApproveFailedError{Reason: err.Error()}
	}
	return nil
}

func findSwapAmount(in core.SwapPlanInput, tok core.Address) *big.Int {
	for _, t := range in.Tokens {
		if t.Address == tok {
			return t.WeiAmount
		}
	}
	return big.NewInt(0)
}

func applySlippage(amountOut *big.Int, slippagePct float64) *big.Int {
	f := new(big.Float).SetInt(amountOut)
	factor := big.NewFloat(1 - slippagePct/100)
	f.Mul(f, factor)
	min, _ := f.Int(nil)
	return min
}
