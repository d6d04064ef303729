package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/clladder/clladder/core"
)

type closeFlags struct {
	positionsPath string
	oneTx         bool
	poolManager   string
	chainID       int64
	rpcURL        string
	walletPath    string
	password      string
}

func closeCmd() *cobra.Command {
	f := closeFlags{}
	cmd := &cobra.Command{
		Use:   "close",
		Short: "decrease+collect a set of tracked positions (positions are not burned)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runClose(cmd, f)
		},
	}
	cmd.Flags().StringVar(&f.positionsPath, "positions", "", "path to a JSON array of tracked OpenPosition records")
	cmd.Flags().BoolVar(&f.oneTx, "one-tx", false, "close every v4 position named in --positions in a single modifyLiquidities call")
	cmd.Flags().StringVar(&f.poolManager, "pool-manager", "", "PoolManager address, required with --one-tx")
	cmd.Flags().Int64Var(&f.chainID, "chain-id", 0, "chain id (defaults to config)")
	cmd.Flags().StringVar(&f.rpcURL, "rpc-url", "", "override the registry's default RPC endpoint")
	cmd.Flags().StringVar(&f.walletPath, "wallet", "", "path to the encrypted vault file")
	cmd.Flags().StringVar(&f.password, "password", "", "vault decryption password")
	return cmd
}

func runClose(cmd *cobra.Command, f closeFlags) error {
	if f.positionsPath == "" {
		return &core.InvalidRangeError{Reason: "--positions is required"}
	}
	if f.walletPath == "" || f.password == "" {
		return &core.InvalidRangeError{Reason: "--wallet and --password are required"}
	}

	raw, err := os.ReadFile(f.positionsPath)
	if err != nil {
		return err
	}
	var positions []core.OpenPosition
	if err := json.Unmarshal(raw, &positions); err != nil {
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

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	if f.oneTx {
		if f.poolManager == "" {
			return &core.InvalidRangeError{Reason: "--pool-manager is required with --one-tx"}
		}
		pm, err := core.ParseAddress(f.poolManager)
		if err != nil {
			return err
		}
		result, err := orch.CloseAllV4InOneTx(ctx, positions, pm)
		if err != nil {
			return err
		}
		return enc.Encode(result)
	}

	results, err := orch.ClosePositions(ctx, positions)
	if err != nil {
		return err
	}
	return enc.Encode(results)
}
