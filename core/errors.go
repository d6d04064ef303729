package core

// Package-level error kinds for the ladder engine. Every error that crosses
// a component boundary (see spec §7) is one of these concrete types so
// callers can type-switch instead of matching strings.

import "fmt"

// InvalidPriceError is returned when a price input is non-positive.
type InvalidPriceError struct {
	Price float64
}

func (e *InvalidPriceError) Error() string {
	return fmt.Sprintf("invalid price: %g", e.Price)
}

// InvalidRangeError is returned when the requested range collapses or is
// otherwise not usable by the planner.
type InvalidRangeError struct {
	Reason string
}

func (e *InvalidRangeError) Error() string { return "invalid range: " + e.Reason }

// DegeneratePairError is returned when both sides of a pair resolve to the
// same on-chain address.
type DegeneratePairError struct {
	Token string
}

func (e *DegeneratePairError) Error() string {
	return fmt.Sprintf("degenerate pair: token %s used on both sides", e.Token)
}

// UnknownFeeTierError is returned by GetTickSpacing when the fee is not in
// the standard table and custom fee tiers are disallowed.
type UnknownFeeTierError struct {
	Fee uint32
}

func (e *UnknownFeeTierError) Error() string {
	return fmt.Sprintf("unknown fee tier: %d", e.Fee)
}

// NeedAtLeastOneAmountError is returned by the liquidity dispatcher when
// both amount0 and amount1 are absent.
type NeedAtLeastOneAmountError struct{}

func (e *NeedAtLeastOneAmountError) Error() string { return "need at least one amount" }

// MissingSideError is returned when the required side of a liquidity
// computation was not supplied.
type MissingSideError struct {
	Side string // "amount0" or "amount1"
}

func (e *MissingSideError) Error() string { return "missing required side: " + e.Side }

// BadRangeError is returned when sqrtHi <= sqrtLo.
type BadRangeError struct{}

func (e *BadRangeError) Error() string { return "bad range: sqrtHi must be greater than sqrtLo" }

// MathOverflowError is returned when a 256-bit computation would overflow.
type MathOverflowError struct {
	Op string
}

func (e *MathOverflowError) Error() string { return "math overflow in " + e.Op }

// TicksNotAlignedError is returned when a tick boundary is not a multiple
// of the pool's tick spacing.
type TicksNotAlignedError struct {
	ExpectedSpacing int32
	LowRemainder    int32
	HighRemainder   int32
}

func (e *TicksNotAlignedError) Error() string {
	return fmt.Sprintf("ticks not aligned to spacing %d: lower remainder %d, upper remainder %d",
		e.ExpectedSpacing, e.LowRemainder, e.HighRemainder)
}

// PoolNotDeployedError means find_pool returned nothing at all.
type PoolNotDeployedError struct {
	Currency0, Currency1 string
	Fee                  uint32
}

func (e *PoolNotDeployedError) Error() string {
	return fmt.Sprintf("pool not deployed: %s/%s fee=%d", e.Currency0, e.Currency1, e.Fee)
}

// PoolNotInitializedError means the pool exists but slot0 reports sqrtPriceX96 == 0.
type PoolNotInitializedError struct {
	Pool string
}

func (e *PoolNotInitializedError) Error() string {
	return "pool not initialized: " + e.Pool
}

// PriceImpactTooHighError is returned by the swap planner's admission gate.
type PriceImpactTooHighError struct {
	ActualPercent float64
	LimitPercent  float64
}

func (e *PriceImpactTooHighError) Error() string {
	return fmt.Sprintf("price impact too high: %.4f%% > limit %.4f%%", e.ActualPercent, e.LimitPercent)
}

// FeeMismatchError describes a config fee tier that disagrees with the
// pool's actual fee. The orchestrator does not return it: a mismatch is
// logged as a warning and reconciled to the pool's own fee.
type FeeMismatchError struct {
	ConfigFee, PoolFee uint32
}

func (e *FeeMismatchError) Error() string {
	return fmt.Sprintf("fee mismatch: configured %d, pool reports %d", e.ConfigFee, e.PoolFee)
}

// DecimalsUnavailableError is a hard error: the client never guesses decimals.
type DecimalsUnavailableError struct {
	Token string
}

func (e *DecimalsUnavailableError) Error() string {
	return "decimals unavailable for token " + e.Token
}

// InsufficientBalanceError means the EOA cannot fund the requested ladder.
type InsufficientBalanceError struct {
	Token      string
	Need, Have string
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance of %s: need %s, have %s", e.Token, e.Need, e.Have)
}

// ApproveFailedError wraps a failed ERC-20 approval.
type ApproveFailedError struct {
	Reason string
}

func (e *ApproveFailedError) Error() string { return "approve failed: " + e.Reason }

// SimulationRevertedError carries the decoded (or raw) revert reason from
// an eth_call simulation.
type SimulationRevertedError struct {
	Reason string
}

func (e *SimulationRevertedError) Error() string { return "simulation reverted: " + e.Reason }

// TransactionRevertedError means the transaction mined but the receipt
// status is failure.
type TransactionRevertedError struct {
	TxHash string
	Reason string
}

func (e *TransactionRevertedError) Error() string {
	if e.Reason == "" {
		return "transaction reverted: " + e.TxHash
	}
	return fmt.Sprintf("transaction reverted: %s (%s)", e.TxHash, e.Reason)
}

// TimeoutError means the receipt wait deadline elapsed.
type TimeoutError struct {
	TxHash   string
	Deadline string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timeout waiting for receipt of %s (deadline %s)", e.TxHash, e.Deadline)
}

// DecryptionFailedError is returned by the key vault on wrong password or
// corrupted ciphertext. The two cases are deliberately indistinguishable.
type DecryptionFailedError struct{}

func (e *DecryptionFailedError) Error() string { return "decryption failed" }

// CryptoUnavailableError signals the host is missing a required primitive
// (used by the vault interface for non-default implementations).
type CryptoUnavailableError struct {
	Reason string
}

func (e *CryptoUnavailableError) Error() string { return "crypto unavailable: " + e.Reason }
