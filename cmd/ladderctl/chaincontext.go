package main

import (
	"context"
	"fmt"
	"math/big"

	"github.com/clladder/clladder/core"
	"github.com/clladder/clladder/internal/rpcclient"
	"github.com/clladder/clladder/pkg/utils"
)

// chainContext bundles the collaborators every on-chain subcommand
// needs: a dialed RPC client, the chain's registry entry, and the
// core components built on top of both.
type chainContext struct {
	client   core.ChainClient
	entry    core.ChainEntry
	chainID  *big.Int
	reader   *core.PoolReader
	balances *core.ERC20Balances
	pm       core.PMRegistry
	gas      *core.GasEstimator
}

func newChainContext(ctx context.Context, chainID int64, rpcOverride string) (*chainContext, error) {
	registry, err := cfg.ChainRegistry()
	if err != nil {
		return nil, err
	}
	if chainID == 0 {
		chainID = cfg.Chain.ID
	}
	entry, ok := registry.Lookup(chainID)
	if !ok {
		return nil, fmt.Errorf("ladderctl: no registry entry for chain id %d", chainID)
	}

	rpcURL := entry.DefaultRPC
	if rpcOverride != "" {
		rpcURL = rpcOverride
	} else if cfg.Chain.RPCURL != "" {
		rpcURL = cfg.Chain.RPCURL
	}

	client, err := rpcclient.Dial(ctx, rpcclient.Config{
		RPCURL:   rpcURL,
		ProxyURL: cfg.Chain.ProxyURL,
	}, logger)
	if err != nil {
		return nil, err
	}

	return &chainContext{
		client:   client,
		entry:    entry,
		chainID:  big.NewInt(chainID),
		reader:   core.NewPoolReader(client),
		balances: core.NewERC20Balances(client),
		pm:       core.NewPMRegistry(entry, client),
		gas:      core.NewGasEstimator(client, utils.EnvOrDefaultFloat64("CLLADDER_GAS_BUFFER_PCT", 0.20)),
	}, nil
}
