package core

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/core/types"
)

func TestGasEstimatorAppliesBuffer(t *testing.T) {
	client := &fakeChainClient{estimateGas: 200_000}
	g := NewGasEstimator(client, 0.5)

	got := g.Estimate(context.Background(), ethereum.CallMsg{}, GasApprove)
	want := uint64(300_000) // 200,000 * 1.5
	if got != want {
		t.Errorf("Estimate() = %d, want %d", got, want)
	}
}

func TestGasEstimatorFloorsSmallEstimate(t *testing.T) {
	client := &fakeChainClient{estimateGas: 1}
	g := NewGasEstimator(client, 0.3)

	got := g.Estimate(context.Background(), ethereum.CallMsg{}, GasMintSingle)
	if got != gasFloors[GasMintSingle] {
		t.Errorf("Estimate() = %d, want floor %d", got, gasFloors[GasMintSingle])
	}
}

func TestGasEstimatorFallsBackToFloorOnEstimateError(t *testing.T) {
	client := &fakeChainClient{estimateGasErr: errors.New("execution reverted")}
	g := NewGasEstimator(client, 0.3)

	got := g.Estimate(context.Background(), ethereum.CallMsg{}, GasSwapV3Single)
	if got != gasFloors[GasSwapV3Single] {
		t.Errorf("Estimate() on estimation failure = %d, want floor %d", got, gasFloors[GasSwapV3Single])
	}
}

func TestGasEstimatorDefaultsBufferWhenNonPositive(t *testing.T) {
	g := NewGasEstimator(&fakeChainClient{}, 0)
	if g.bufferPct != 0.30 {
		t.Errorf("bufferPct = %v, want default 0.30", g.bufferPct)
	}
}

func TestEstimateMulticallMintScalesFloorByBucketCount(t *testing.T) {
	client := &fakeChainClient{estimateGasErr: errors.New("reverted")}
	g := NewGasEstimator(client, 0.3)

	got := g.EstimateMulticallMint(context.Background(), ethereum.CallMsg{}, 4)
	want := gasFloors[GasMulticallMintPerBucket] * 4
	if got != want {
		t.Errorf("EstimateMulticallMint() = %d, want %d", got, want)
	}
}

func TestBuildGasParamsPrefersEIP1559WhenBaseFeePresent(t *testing.T) {
	client := &fakeChainClient{
		headerByNumberFn: func(ctx context.Context, number *big.Int) (*types.Header, error) {
			return &types.Header{BaseFee: big.NewInt(10_000_000_000)}, nil
		},
		suggestGasTipCap: big.NewInt(1_000_000_000),
	}
	params, err := BuildGasParams(context.Background(), client, 300_000)
	if err != nil {
		t.Fatal(err)
	}
	if !params.EIP1559 {
		t.Error("expected EIP1559 gas params when the header reports a base fee")
	}
	if params.GasFeeCap == nil || params.GasTipCap == nil {
		t.Error("expected both fee cap and tip cap to be set for EIP-1559 params")
	}
}

func TestBuildGasParamsFallsBackToLegacyWithoutBaseFee(t *testing.T) {
	client := &fakeChainClient{
		headerByNumberFn: func(ctx context.Context, number *big.Int) (*types.Header, error) {
			return &types.Header{BaseFee: nil}, nil
		},
		suggestGasPrice: big.NewInt(5_000_000_000),
	}
	params, err := BuildGasParams(context.Background(), client, 300_000)
	if err != nil {
		t.Fatal(err)
	}
	if params.EIP1559 {
		t.Error("expected legacy gas params when the header has no base fee")
	}
	if params.GasPrice == nil {
		t.Error("expected GasPrice to be set for legacy params")
	}
}
