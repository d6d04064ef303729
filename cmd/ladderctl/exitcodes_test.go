package main

import (
	"errors"
	"testing"

	"github.com/clladder/clladder/core"
)

func TestExitCodeForNilIsOK(t *testing.T) {
	if got := exitCodeFor(nil); got != exitOK {
		t.Errorf("exitCodeFor(nil) = %d, want %d", got, exitOK)
	}
}

func TestExitCodeForKnownErrorTypes(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"insufficient balance", &core.InsufficientBalanceError{}, exitInsufficientBalance},
		{"pool not deployed", &core.PoolNotDeployedError{}, exitPoolMissing},
		{"pool not initialized", &core.PoolNotInitializedError{}, exitPoolMissing},
		{"simulation reverted", &core.SimulationRevertedError{}, exitSimulationFailed},
		{"price impact too high", &core.PriceImpactTooHighError{}, exitSimulationFailed},
		{"approve failed", &core.ApproveFailedError{}, exitSimulationFailed},
		{"transaction reverted", &core.TransactionRevertedError{}, exitReverted},
		{"timeout", &core.TimeoutError{}, exitTimeout},
		{"bad range", &core.BadRangeError{}, exitInvalidInput},
		{"ticks not aligned", &core.TicksNotAlignedError{}, exitInvalidInput},
		{"unknown fee tier", &core.UnknownFeeTierError{}, exitInvalidInput},
		{"invalid range", &core.InvalidRangeError{}, exitInvalidInput},
		{"invalid price", &core.InvalidPriceError{}, exitInvalidInput},
		{"missing side", &core.MissingSideError{}, exitInvalidInput},
		{"need at least one amount", &core.NeedAtLeastOneAmountError{}, exitInvalidInput},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := exitCodeFor(c.err); got != c.want {
				t.Errorf("exitCodeFor(%T) = %d, want %d", c.err, got, c.want)
			}
		})
	}
}

func TestExitCodeForWrappedError(t *testing.T) {
	wrapped := errors.Join(errors.New("context"), &core.TimeoutError{TxHash: "0xabc"})
	if got := exitCodeFor(wrapped); got != exitTimeout {
		t.Errorf("exitCodeFor(wrapped timeout) = %d, want %d", got, exitTimeout)
	}
}

func TestExitCodeForUnknownErrorDefaultsToInvalidInput(t *testing.T) {
	if got := exitCodeFor(errors.New("something unexpected")); got != exitInvalidInput {
		t.Errorf("exitCodeFor(unrecognized error) = %d, want %d", got, exitInvalidInput)
	}
}
