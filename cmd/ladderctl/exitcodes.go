package main

import (
	"errors"

	"github.com/clladder/clladder/core"
)

// Exit codes per the operator contract: 0 success, 2 invalid input,
// 3 insufficient balance, 4 pool missing, 5 simulation failed,
// 6 on-chain revert, 7 timeout.
const (
	exitOK                  = 0
	exitInvalidInput        = 2
	exitInsufficientBalance = 3
	exitPoolMissing         = 4
	exitSimulationFailed    = 5
	exitReverted            = 6
	exitTimeout             = 7
)

func exitCodeFor(err error) int {
	if err == nil {
		return exitOK
	}

	var insufficient *core.InsufficientBalanceError
	if errors.As(err, &insufficient) {
		return exitInsufficientBalance
	}

	var notDeployed *core.PoolNotDeployedError
	if errors.As(err, &notDeployed) {
		return exitPoolMissing
	}
	var notInitialized *core.PoolNotInitializedError
	if errors.As(err, &notInitialized) {
		return exitPoolMissing
	}

	var reverted *core.SimulationRevertedError
	if errors.As(err, &reverted) {
		return exitSimulationFailed
	}
	var priceImpact *core.PriceImpactTooHighError
	if errors.As(err, &priceImpact) {
		return exitSimulationFailed
	}
	var approveFailed *core.ApproveFailedError
	if errors.As(err, &approveFailed) {
		return exitSimulationFailed
	}

	var txReverted *core.TransactionRevertedError
	if errors.As(err, &txReverted) {
		return exitReverted
	}

	var timeout *core.TimeoutError
	if errors.As(err, &timeout) {
		return exitTimeout
	}

	var badRange *core.BadRangeError
	if errors.As(err, &badRange) {
		return exitInvalidInput
	}
	var ticksNotAligned *core.TicksNotAlignedError
	if errors.As(err, &ticksNotAligned) {
		return exitInvalidInput
	}
	var unknownFee *core.UnknownFeeTierError
	if errors.As(err, &unknownFee) {
		return exitInvalidInput
	}
	var invalidRange *core.InvalidRangeError
	if errors.As(err, &invalidRange) {
		return exitInvalidInput
	}
	var invalidPrice *core.InvalidPriceError
	if errors.As(err, &invalidPrice) {
		return exitInvalidInput
	}
	var missingSide *core.MissingSideError
	if errors.As(err, &missingSide) {
		return exitInvalidInput
	}
	var needOne *core.NeedAtLeastOneAmountError
	if errors.As(err, &needOne) {
		return exitInvalidInput
	}

	return exitInvalidInput
}
