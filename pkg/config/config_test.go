package config

import (
	"testing"

	"github.com/clladder/clladder/core"
)

func TestParseAddrEmptyStringIsZeroAddress(t *testing.T) {
	a, err := parseAddr("")
	if err != nil {
		t.Fatal(err)
	}
	if a != core.ZeroAddress {
		t.Errorf("parseAddr(\"\") = %v, want the zero address", a)
	}
}

func TestParseAddrRejectsMalformedHex(t *testing.T) {
	if _, err := parseAddr("not-an-address"); err == nil {
		t.Error("expected an error for malformed address input")
	}
}

func TestChainEntryConfigToCoreRoundTrip(t *testing.T) {
	entry := ChainEntryConfig{
		ChainID:       1,
		Label:         "mainnet",
		DefaultRPC:    "https://eth.example.org",
		WrappedNative: "0x0000000000000000000000000000000000000001",
		Stablecoins:   []string{"0x0000000000000000000000000000000000000002"},
		Multicall3:    "0x0000000000000000000000000000000000000003",
		Protocols: map[string]ProtocolAddrsConfig{
			"v3_uniswap": {
				ForkLabel:       "uniswap",
				Factory:         "0x0000000000000000000000000000000000000004",
				PositionManager: "0x0000000000000000000000000000000000000005",
			},
		},
	}

	coreEntry, err := entry.ToCore()
	if err != nil {
		t.Fatalf("ToCore: %v", err)
	}
	if coreEntry.ChainID != 1 || coreEntry.Label != "mainnet" {
		t.Errorf("unexpected core entry: %+v", coreEntry)
	}
	if len(coreEntry.Stablecoins) != 1 {
		t.Fatalf("got %d stablecoins, want 1", len(coreEntry.Stablecoins))
	}
	addrs, ok := coreEntry.Protocols["v3_uniswap"]
	if !ok {
		t.Fatal("expected v3_uniswap protocol entry to survive ToCore")
	}
	if addrs.ForkLabel != "uniswap" {
		t.Errorf("ForkLabel = %q, want %q", addrs.ForkLabel, "uniswap")
	}
	if addrs.V2Router != core.ZeroAddress {
		t.Errorf("unset V2Router should default to the zero address, got %v", addrs.V2Router)
	}
}

func TestChainEntryConfigToCoreRejectsMalformedAddress(t *testing.T) {
	entry := ChainEntryConfig{ChainID: 1, WrappedNative: "garbage"}
	if _, err := entry.ToCore(); err == nil {
		t.Error("expected ToCore to fail on a malformed wrapped_native address")
	}
}

func TestConfigChainRegistryBuildsFromEntries(t *testing.T) {
	cfg := &Config{
		Registry: []ChainEntryConfig{
			{ChainID: 1, Label: "mainnet", WrappedNative: "0x0000000000000000000000000000000000000001"},
			{ChainID: 8453, Label: "base", WrappedNative: "0x0000000000000000000000000000000000000002"},
		},
	}
	reg, err := cfg.ChainRegistry()
	if err != nil {
		t.Fatal(err)
	}
	e, ok := reg.Lookup(8453)
	if !ok || e.Label != "base" {
		t.Errorf("Lookup(8453) = %+v, %v; want the base entry", e, ok)
	}
}
