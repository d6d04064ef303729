package main

import (
	"encoding/json"
	"math/big"
	"os"

	"github.com/spf13/cobra"

	"github.com/clladder/clladder/core"
)

type createLadderFlags struct {
	token0, token1 string
	currentPrice   float64
	lowerPrice     float64
	percentFrom    float64
	percentTo      float64
	totalUSD       string
	n              int
	fee            uint32
	shape          string
	slippage       float64
	protocol       string
	allowAutoPool  bool
	allowCustomFee bool
	stable         string
	chainID        int64
	rpcURL         string
	walletPath     string
	password       string
}

func createLadderCmd() *cobra.Command {
	f := createLadderFlags{}
	cmd := &cobra.Command{
		Use:   "create-ladder",
		Short: "plan, validate, and batch-mint a concentrated-liquidity ladder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCreateLadder(cmd, f)
		},
	}
	cmd.Flags().StringVar(&f.token0, "token0", "", "token0 address (sorted automatically with token1)")
	cmd.Flags().StringVar(&f.token1, "token1", "", "token1 address")
	cmd.Flags().StringVar(&f.stable, "stable", "", "address of whichever of token0/token1 is the stablecoin side")
	cmd.Flags().Float64Var(&f.currentPrice, "current-price", 0, "current USD price of the volatile token")
	cmd.Flags().Float64Var(&f.lowerPrice, "lower-price", 0, "one-sided range's lower bound")
	cmd.Flags().Float64Var(&f.percentFrom, "percent-from", 0, "two-sided range's near edge, as a percent offset from spot")
	cmd.Flags().Float64Var(&f.percentTo, "percent-to", 0, "two-sided range's far edge, as a percent offset from spot")
	cmd.Flags().StringVar(&f.totalUSD, "total-usd-wei", "", "total stablecoin allocation in the stablecoin's own wei units")
	cmd.Flags().IntVar(&f.n, "n", 1, "number of sub-positions")
	cmd.Flags().Uint32Var(&f.fee, "fee", 3000, "pool fee tier")
	cmd.Flags().StringVar(&f.shape, "shape", "linear", "weight shape: linear|quadratic|exponential|fibonacci")
	cmd.Flags().Float64Var(&f.slippage, "slippage-percent", 0.5, "slippage tolerance applied to mint amounts")
	cmd.Flags().StringVar(&f.protocol, "protocol", "v3_uniswap", "protocol variant: v3_uniswap|v3_pancake|v4_uniswap|v4_pancake")
	cmd.Flags().BoolVar(&f.allowAutoPool, "allow-auto-create-pool", false, "auto-create and initialize the pool if it doesn't exist")
	cmd.Flags().BoolVar(&f.allowCustomFee, "allow-custom-fee", false, "accept a non-standard fee tier's on-chain tick spacing")
	cmd.Flags().Int64Var(&f.chainID, "chain-id", 0, "chain id (defaults to config)")
	cmd.Flags().StringVar(&f.rpcURL, "rpc-url", "", "override the registry's default RPC endpoint")
	cmd.Flags().StringVar(&f.walletPath, "wallet", "", "path to the encrypted vault file")
	cmd.Flags().StringVar(&f.password, "password", "", "vault decryption password")
	return cmd
}

func runCreateLadder(cmd *cobra.Command, f createLadderFlags) error {
	if f.walletPath == "" || f.password == "" {
		return &core.InvalidRangeError{Reason: "--wallet and --password are required"}
	}
	if f.totalUSD == "" {
		return &core.InvalidRangeError{Reason: "--total-usd-wei is required"}
	}
	totalUSD, ok := new(big.Int).SetString(f.totalUSD, 10)
	if !ok {
		return &core.InvalidRangeError{Reason: "--total-usd-wei must be a base-10 integer"}
	}

	token0, err := core.ParseAddress(f.token0)
	if err != nil {
		return err
	}
	token1, err := core.ParseAddress(f.token1)
	if err != nil {
		return err
	}
	if f.stable == "" {
		return &core.InvalidRangeError{Reason: "--stable is required"}
	}
	stable, err := core.ParseAddress(f.stable)
	if err != nil {
		return err
	}
	if stable != token0 && stable != token1 {
		return &core.InvalidRangeError{Reason: "--stable must match --token0 or --token1"}
	}
	volatile := token0
	if stable == token0 {
		volatile = token1
	}
	shape, err := core.ParseDistributionShape(f.shape)
	if err != nil {
		return err
	}
	variant, err := core.ParseProtocolVariant(f.protocol)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	cc, err := newChainContext(ctx, f.chainID, f.rpcURL)
	if err != nil {
		return err
	}
	signer, err := loadVault(f.walletPath, f.password)
	if err != nil {
		return err
	}

	orch := core.NewOrchestrator(cc.reader, cc.balances, cc.pm, cc.gas, cc.chainID, signer, cc.client)

	lc := core.LadderConfig{
		Token0Address:       token0,
		Token1Address:       token1,
		CurrentPrice:        f.currentPrice,
		TotalUSD:            totalUSD,
		NPositions:          f.n,
		FeeTier:             f.fee,
		DistributionType:    shape,
		SlippagePercent:     f.slippage,
		ProtocolVariant:     variant,
		AllowCustomFee:      f.allowCustomFee,
		AllowAutoCreatePool: f.allowAutoPool,
		StableToken:         stable,
		VolatileToken:       volatile,
	}
	if f.lowerPrice != 0 {
		lc.LowerPrice = &f.lowerPrice
	}
	if f.percentFrom != 0 || f.percentTo != 0 {
		lc.PercentFrom = &f.percentFrom
		lc.PercentTo = &f.percentTo
	}

	result, err := orch.CreateLadder(ctx, lc)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
