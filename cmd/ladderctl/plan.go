package main

import (
	"encoding/json"
	"math/big"
	"os"

	"github.com/spf13/cobra"

	"github.com/clladder/clladder/core"
)

type planFlags struct {
	currentPrice float64
	limitPrice   float64
	totalUSD     string
	n            int
	fee          uint32
	shape        string
	invert       bool
}

func planCmd() *cobra.Command {
	pf := planFlags{}
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "compute a ladder's sub-positions offline and print them as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPlan(pf)
		},
	}
	cmd.Flags().Float64Var(&pf.currentPrice, "current-price", 0, "current price of the volatile token in USD")
	cmd.Flags().Float64Var(&pf.limitPrice, "limit-price", 0, "far edge of the range (lower for a long ladder below spot)")
	cmd.Flags().StringVar(&pf.totalUSD, "total-usd-wei", "", "total stablecoin allocation, in the stablecoin's own wei units")
	cmd.Flags().IntVar(&pf.n, "n", 1, "number of sub-positions")
	cmd.Flags().Uint32Var(&pf.fee, "fee", 3000, "pool fee tier in hundredths of a bip (e.g. 3000 = 0.3%)")
	cmd.Flags().StringVar(&pf.shape, "shape", "linear", "weight shape: linear|quadratic|exponential|fibonacci")
	cmd.Flags().BoolVar(&pf.invert, "invert-price", false, "set when the pool's token1/token0 orientation inverts the display price")
	return cmd
}

func runPlan(pf planFlags) error {
	if pf.totalUSD == "" {
		return &core.InvalidRangeError{Reason: "--total-usd-wei is required"}
	}
	totalUSD, ok := new(big.Int).SetString(pf.totalUSD, 10)
	if !ok {
		return &core.InvalidRangeError{Reason: "--total-usd-wei must be a base-10 integer"}
	}

	shape, err := core.ParseDistributionShape(pf.shape)
	if err != nil {
		return err
	}

	spacing, err := core.GetTickSpacing(pf.fee, false)
	if err != nil {
		return err
	}

	positions, err := core.PlanLadder(core.LadderPlanInput{
		CurrentPrice:        pf.currentPrice,
		LimitPrice:          pf.limitPrice,
		TotalUSDWei:         totalUSD,
		N:                   pf.n,
		Fee:                 pf.fee,
		Shape:               shape,
		InvertPrice:         pf.invert,
		TickSpacingOverride: &spacing,
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(positions)
}
