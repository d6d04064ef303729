package core

// GasEstimator (spec §4.K): wraps eth_estimateGas with per-operation
// default floors and a safety buffer, falling back to the floor when
// estimation itself reverts (spec §7 propagation policy item c).

import (
	"context"

	"github.com/ethereum/go-ethereum"
)

type GasOperation int

const (
	GasApprove GasOperation = iota
	GasMintSingle
	GasMulticallMintPerBucket
	GasDecreaseCollect
	GasSwapV3Single
	GasSwapV3Multihop
)

var gasFloors = map[GasOperation]uint64{
	GasApprove:                100_000,
	GasMintSingle:             350_000,
	GasMulticallMintPerBucket: 500_000,
	GasDecreaseCollect:        300_000,
	GasSwapV3Single:           350_000,
	GasSwapV3Multihop:         500_000,
}

// GasEstimator estimates gas for a call, applying a buffer and falling
// back to a fixed floor (scaled by bucketCount for the per-bucket
// multicall case) when the node's estimate reverts.
type GasEstimator struct {
	client       ChainClient
	bufferPct    float64 // e.g. 0.30 for +30%
}

func NewGasEstimator(client ChainClient, bufferPct float64) *GasEstimator {
	if bufferPct <= 0 {
		bufferPct = 0.30
	}
	return &GasEstimator{client: client, bufferPct: bufferPct}
}

// Estimate implements spec §4.G estimate_gas for a single call.
func (g *GasEstimator) Estimate(ctx context.Context, msg ethereum.CallMsg, op GasOperation) uint64 {
	est, err := g.client.EstimateGas(ctx, msg)
	if err != nil {
		return gasFloors[op]
	}
	buffered := uint64(float64(est) * (1 + g.bufferPct))
	if floor := gasFloors[op]; buffered < floor {
		return floor
	}
	return buffered
}

// EstimateMulticallMint floors the multicall-mint estimate at
// 500k * bucketCount when on-chain estimation fails.
func (g *GasEstimator) EstimateMulticallMint(ctx context.Context, msg ethereum.CallMsg, bucketCount int) uint64 {
	est, err := g.client.EstimateGas(ctx, msg)
	if err != nil {
		return gasFloors[GasMulticallMintPerBucket] * uint64(bucketCount)
	}
	buffered := uint64(float64(est) * (1 + g.bufferPct))
	floor := gasFloors[GasMulticallMintPerBucket] * uint64(bucketCount)
	if buffered < floor {
		return floor
	}
	return buffered
}
