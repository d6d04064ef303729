// Package config loads this module's runtime configuration: the chain
// registry (RPC endpoints, wrapped-native and stablecoin addresses,
// per-protocol factory/PositionManager/PoolManager addresses) plus the
// operator-level defaults consumed by cmd/ladderctl and cmd/ladderserver.
//
// Version: v0.1.0
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/clladder/clladder/core"
	"github.com/clladder/clladder/pkg/utils"
)

// Version is the semantic version of this configuration package.
const Version = "v0.1.0"

// Config is the unified configuration for a ladderctl/ladderserver
// process. It mirrors the structure of the YAML files under config/.
type Config struct {
	Chain struct {
		ID       int64  `mapstructure:"id" json:"id"`
		RPCURL   string `mapstructure:"rpc_url" json:"rpc_url"`
		ProxyURL string `mapstructure:"proxy_url" json:"proxy_url"`
	} `mapstructure:"chain" json:"chain"`

	Registry []ChainEntryConfig `mapstructure:"registry" json:"registry"`

	Wallet struct {
		VaultPath string `mapstructure:"vault_path" json:"vault_path"`
	} `mapstructure:"wallet" json:"wallet"`

	Gas struct {
		TipGwei        float64 `mapstructure:"tip_gwei" json:"tip_gwei"`
		FeeCapMultiple float64 `mapstructure:"fee_cap_multiple" json:"fee_cap_multiple"`
	} `mapstructure:"gas" json:"gas"`

	Logging struct {
		Level string `mapstructure:"level" json:"level"`
		File  string `mapstructure:"file" json:"file"`
	} `mapstructure:"logging" json:"logging"`

	Metrics struct {
		ListenAddr string `mapstructure:"listen_addr" json:"listen_addr"`
	} `mapstructure:"metrics" json:"metrics"`
}

// ChainEntryConfig is the YAML-friendly mirror of core.ChainEntry:
// mapstructure decodes addresses as plain hex strings, and ToCore
// parses them into core.Address once at load time.
type ChainEntryConfig struct {
	ChainID       int64                        `mapstructure:"chain_id" json:"chain_id"`
	Label         string                       `mapstructure:"label" json:"label"`
	DefaultRPC    string                       `mapstructure:"default_rpc" json:"default_rpc"`
	WrappedNative string                       `mapstructure:"wrapped_native" json:"wrapped_native"`
	Stablecoins   []string                     `mapstructure:"stablecoins" json:"stablecoins"`
	Multicall3    string                       `mapstructure:"multicall3" json:"multicall3"`
	Protocols     map[string]ProtocolAddrsConfig `mapstructure:"protocols" json:"protocols"`
}

// ProtocolAddrsConfig is the YAML-friendly mirror of core.ProtocolAddrs.
type ProtocolAddrsConfig struct {
	ForkLabel       string `mapstructure:"fork_label" json:"fork_label"`
	Factory         string `mapstructure:"factory" json:"factory"`
	PositionManager string `mapstructure:"position_manager" json:"position_manager"`
	V2Router        string `mapstructure:"v2_router" json:"v2_router"`
	V3Router        string `mapstructure:"v3_router" json:"v3_router"`
	V3Quoter        string `mapstructure:"v3_quoter" json:"v3_quoter"`
	PoolManager     string `mapstructure:"pool_manager" json:"pool_manager"`
}

// ToCore parses every address field, failing fast on the first malformed
// entry rather than letting a typo surface later as a zero-address bug.
func (e ChainEntryConfig) ToCore() (core.ChainEntry, error) {
	wrapped, err := parseAddr(e.WrappedNative)
	if err != nil {
		return core.ChainEntry{}, utils.Wrap(err, fmt.Sprintf("chain %d wrapped_native", e.ChainID))
	}
	multicall, err := parseAddr(e.Multicall3)
	if err != nil {
		return core.ChainEntry{}, utils.Wrap(err, fmt.Sprintf("chain %d multicall3", e.ChainID))
	}
	stables := make([]core.Address, 0, len(e.Stablecoins))
	for _, s := range e.Stablecoins {
		a, err := parseAddr(s)
		if err != nil {
			return core.ChainEntry{}, utils.Wrap(err, fmt.Sprintf("chain %d stablecoin %q", e.ChainID, s))
		}
		stables = append(stables, a)
	}
	protocols := make(map[string]core.ProtocolAddrs, len(e.Protocols))
	for name, p := range e.Protocols {
		addrs, err := p.toCore()
		if err != nil {
			return core.ChainEntry{}, utils.Wrap(err, fmt.Sprintf("chain %d protocol %q", e.ChainID, name))
		}
		protocols[name] = addrs
	}
	return core.ChainEntry{
		ChainID:       e.ChainID,
		Label:         e.Label,
		DefaultRPC:    e.DefaultRPC,
		WrappedNative: wrapped,
		Stablecoins:   stables,
		Multicall3:    multicall,
		Protocols:     protocols,
	}, nil
}

func (p ProtocolAddrsConfig) toCore() (core.ProtocolAddrs, error) {
	factory, err := parseAddr(p.Factory)
	if err != nil {
		return core.ProtocolAddrs{}, err
	}
	pm, err := parseAddr(p.PositionManager)
	if err != nil {
		return core.ProtocolAddrs{}, err
	}
	v2Router, err := parseAddr(p.V2Router)
	if err != nil {
		return core.ProtocolAddrs{}, err
	}
	v3Router, err := parseAddr(p.V3Router)
	if err != nil {
		return core.ProtocolAddrs{}, err
	}
	v3Quoter, err := parseAddr(p.V3Quoter)
	if err != nil {
		return core.ProtocolAddrs{}, err
	}
	poolManager, err := parseAddr(p.PoolManager)
	if err != nil {
		return core.ProtocolAddrs{}, err
	}
	return core.ProtocolAddrs{
		ForkLabel:       p.ForkLabel,
		Factory:         factory,
		PositionManager: pm,
		V2Router:        v2Router,
		V3Router:        v3Router,
		V3Quoter:        v3Quoter,
		PoolManager:     poolManager,
	}, nil
}

// parseAddr treats an empty string as the zero address instead of an
// error, since most entries only populate the fields relevant to their
// own protocol variant.
func parseAddr(s string) (core.Address, error) {
	if s == "" {
		return core.ZeroAddress, nil
	}
	return core.ParseAddress(s)
}

// AppConfig holds the configuration loaded via Load or LoadFromEnv.
var AppConfig Config

// Load reads config/default.yaml and merges an environment-specific
// overlay (config/<env>.yaml) when env is non-empty. The resulting
// configuration is stored in AppConfig and returned.
func Load(env string) (*Config, error) {
	viper.SetConfigName("default")
	viper.AddConfigPath("config")
	viper.AddConfigPath(".")
	viper.SetConfigType("yaml")
	if err := viper.ReadInConfig(); err != nil {
		return nil, utils.Wrap(err, "load config")
	}

	if env != "" {
		viper.SetConfigName(env)
		if err := viper.MergeInConfig(); err != nil {
			return nil, utils.Wrap(err, fmt.Sprintf("merge %s config", env))
		}
	}

	viper.SetEnvPrefix("CLLADDER")
	viper.AutomaticEnv()

	if err := viper.Unmarshal(&AppConfig); err != nil {
		return nil, utils.Wrap(err, "unmarshal config")
	}
	return &AppConfig, nil
}

// LoadFromEnv loads configuration using the CLLADDER_ENV environment
// variable to select the overlay file (empty selects the base config only).
func LoadFromEnv() (*Config, error) {
	return Load(utils.EnvOrDefault("CLLADDER_ENV", ""))
}

// ChainRegistry builds a *core.ChainRegistry from the loaded chain entries.
func (c *Config) ChainRegistry() (*core.ChainRegistry, error) {
	entries := make([]core.ChainEntry, 0, len(c.Registry))
	for _, e := range c.Registry {
		entry, err := e.ToCore()
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return core.NewChainRegistry(entries), nil
}
