package core

// Core data types (spec §3). Address is a defined type over
// go-ethereum's common.Address so the ladder engine can attach its own
// comparison/formatting helpers while still converting freely at the
// RPC/ABI boundary via Address.Ethereum() / AddressFromEthereum().

import (
	"encoding/json"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Address is a 20-byte EVM account/contract address.
type Address common.Address

// Ethereum converts to go-ethereum's native address type for ABI/RPC calls.
func (a Address) Ethereum() common.Address { return common.Address(a) }

// AddressFromEthereum wraps a go-ethereum address.
func AddressFromEthereum(a common.Address) Address { return Address(a) }

// ParseAddress parses a 0x-prefixed hex address.
func ParseAddress(hexAddr string) (Address, error) {
	if !common.IsHexAddress(hexAddr) {
		return Address{}, &InvalidRangeError{Reason: "not a hex address: " + hexAddr}
	}
	return Address(common.HexToAddress(hexAddr)), nil
}

func (a Address) Hex() string { return common.Address(a).Hex() }

func (a Address) String() string { return a.Hex() }

// Big returns the address's numeric value, used for currency0/currency1
// sort ordering (spec: "as 160-bit integers").
func (a Address) Big() *big.Int {
	return new(big.Int).SetBytes(a[:])
}

// LessThan orders two addresses by their 160-bit integer value.
func (a Address) LessThan(b Address) bool {
	return a.Big().Cmp(b.Big()) < 0
}

func (a Address) IsZero() bool { return a == Address{} }

var ZeroAddress = Address{}

// UnmarshalYAML lets chain-registry config files list addresses as plain
// hex strings instead of byte arrays.
func (a *Address) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	if s == "" {
		*a = Address{}
		return nil
	}
	parsed, err := ParseAddress(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// MarshalYAML renders the address in its 0x-prefixed hex form.
func (a Address) MarshalYAML() (interface{}, error) {
	return a.Hex(), nil
}

// MarshalJSON renders the address the same way its YAML form does, so
// tracked-position files round-trip as plain hex strings.
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Hex())
}

// UnmarshalJSON mirrors UnmarshalYAML for JSON-encoded position files.
func (a *Address) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*a = Address{}
		return nil
	}
	parsed, err := ParseAddress(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// SortCurrencies returns (currency0, currency1) in ascending address order.
func SortCurrencies(a, b Address) (currency0, currency1 Address) {
	if a.LessThan(b) {
		return a, b
	}
	return b, a
}

// ProtocolVariant is the closed sum type replacing the source's
// stringly-typed protocol selection (spec §9).
type ProtocolVariant int

const (
	V3Uniswap ProtocolVariant = iota
	V3Pancake
	V4Uniswap
	V4Pancake
)

func (p ProtocolVariant) String() string {
	switch p {
	case V3Uniswap:
		return "v3_uniswap"
	case V3Pancake:
		return "v3_pancake"
	case V4Uniswap:
		return "v4_uniswap"
	case V4Pancake:
		return "v4_pancake"
	default:
		return "unknown"
	}
}

// IsV4 reports whether this variant uses the v4 unlock-actions codec.
func (p ProtocolVariant) IsV4() bool { return p == V4Uniswap || p == V4Pancake }

// ParseProtocolVariant accepts the config-file spelling (spec §6 table).
func ParseProtocolVariant(s string) (ProtocolVariant, error) {
	switch strings.ToLower(s) {
	case "v3_uniswap":
		return V3Uniswap, nil
	case "v3_pancake":
		return V3Pancake, nil
	case "v4_uniswap":
		return V4Uniswap, nil
	case "v4_pancake":
		return V4Pancake, nil
	default:
		return 0, &InvalidRangeError{Reason: "unknown protocol_variant: " + s}
	}
}

// DistributionShape selects the per-bucket weight function (spec §4.C).
type DistributionShape int

const (
	Linear DistributionShape = iota
	Quadratic
	Exponential
	Fibonacci
)

func ParseDistributionShape(s string) (DistributionShape, error) {
	switch strings.ToLower(s) {
	case "linear":
		return Linear, nil
	case "quadratic":
		return Quadratic, nil
	case "exponential":
		return Exponential, nil
	case "fibonacci":
		return Fibonacci, nil
	default:
		return 0, &InvalidRangeError{Reason: "unknown distribution_type: " + s}
	}
}

// PoolKey identifies a pool (spec §3). Hooks is only meaningful for v4; it
// is the zero address for v3-family pools.
type PoolKey struct {
	Currency0   Address
	Currency1   Address
	Fee         uint32
	TickSpacing int32
	Hooks       Address
}

// PoolState is the point-in-time state read from slot0 (spec §3).
type PoolState struct {
	SqrtPriceX96 *big.Int
	Tick         int32
	Liquidity    *big.Int
	Initialized  bool
	BlockNumber  uint64
}

// SubPosition is one planner-produced ladder bucket (spec §3).
type SubPosition struct {
	Index              int
	TickLower          int32
	TickUpper          int32
	PriceLowerDisplay  float64
	PriceUpperDisplay  float64
	USDAmount          *big.Int
	Percentage         float64
	LiquidityEstimate  *big.Int
	Amount0Desired     *big.Int
	Amount1Desired     *big.Int
}

// LadderConfig is the orchestrator input (spec §6, exhaustive field set).
type LadderConfig struct {
	Token0Address   Address
	Token1Address   Address
	Token0Decimals  *uint8 // nil => read on-chain
	Token1Decimals  *uint8

	CurrentPrice float64 // USD per volatile token

	// Range: either LowerPrice (paired with an implicit current->lower
	// one-sided plan) or the PercentFrom/PercentTo two-sided form.
	LowerPrice *float64
	PercentFrom *float64
	PercentTo   *float64

	TotalUSD        *big.Int // wei-scaled in the stablecoin's own decimals
	NPositions      int
	FeeTier         uint32
	TickSpacingOverride *int32
	DistributionType    DistributionShape
	SlippagePercent     float64
	Hooks               Address
	ProtocolVariant     ProtocolVariant
	AllowCustomFee      bool
	AllowAutoCreatePool bool

	VolatileToken Address // which of Token0/Token1 is the volatile side
	StableToken   Address
}

// OpenPosition is a tracked on-chain position (spec §3).
type OpenPosition struct {
	TokenID        *big.Int // v3 NFT id; for v4 this is the position salt or 0
	PoolKeyV       PoolKey
	TickLower      int32
	TickUpper      int32
	Liquidity      *big.Int
	Owed0          *big.Int
	Owed1          *big.Int
	LastSeenBlock  uint64
	ProtocolTag    ProtocolVariant
	Owner          Address
}
