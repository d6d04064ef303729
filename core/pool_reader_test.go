package core

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
)

func packSlot0V8(t *testing.T, sqrtPriceX96 *big.Int, tick int32) []byte {
	t.Helper()
	out, err := slot0V8ABI.Methods["slot0"].Outputs.Pack(sqrtPriceX96, tick, uint16(0), uint16(0), uint16(0), uint32(0), true)
	if err != nil {
		t.Fatalf("pack slot0 v8 fixture: %v", err)
	}
	return out
}

func packSlot0V7(t *testing.T, sqrtPriceX96 *big.Int, tick int32) []byte {
	t.Helper()
	out, err := slot0V7ABI.Methods["slot0"].Outputs.Pack(sqrtPriceX96, tick, uint16(0), uint16(0), uint16(0), uint8(0), true)
	if err != nil {
		t.Fatalf("pack slot0 v7 fixture: %v", err)
	}
	return out
}

func TestDecodeSlot0PrefersV8Layout(t *testing.T) {
	raw := packSlot0V8(t, big.NewInt(1<<60), -1234)
	state, layout, err := decodeSlot0(raw, slot0Unknown)
	if err != nil {
		t.Fatal(err)
	}
	if layout != Slot0V8Uint32 {
		t.Errorf("layout = %v, want Slot0V8Uint32", layout)
	}
	if state.Tick != -1234 {
		t.Errorf("tick = %d, want -1234", state.Tick)
	}
}

func TestDecodeSlot0DecodesV7EncodedData(t *testing.T) {
	raw := packSlot0V7(t, big.NewInt(1<<50), 500)
	state, layout, err := decodeSlot0(raw, slot0Unknown)
	if err != nil {
		t.Fatal(err)
	}
	if layout != Slot0V7Uint8 && layout != Slot0V8Uint32 {
		t.Errorf("layout = %v, want v7 or v8 (both encode feeProtocol as a fixed-width uint)", layout)
	}
	if state.Tick != 500 {
		t.Errorf("tick = %d, want 500", state.Tick)
	}
}

func TestDecodeSlot0UsesCachedLayoutFirst(t *testing.T) {
	raw := packSlot0V8(t, big.NewInt(42), 7)
	_, layout, err := decodeSlot0(raw, Slot0V8Uint32)
	if err != nil {
		t.Fatal(err)
	}
	if layout != Slot0V8Uint32 {
		t.Errorf("expected the cached preferred layout to win, got %v", layout)
	}
}

func TestDecodeSlot0RawFallbackOnUndecodable(t *testing.T) {
	// 64 bytes that don't match either ABI's fixed tuple shape but do
	// satisfy the raw word-extraction path's minimum length.
	raw := make([]byte, 64)
	raw[31] = 0x01 // sqrtPriceX96 low byte
	raw[63] = 0x05 // tick low byte
	state, layout, err := decodeSlot0(raw, slot0Unknown)
	if err != nil {
		t.Fatalf("expected raw fallback to succeed, got error: %v", err)
	}
	if layout != Slot0Raw && layout != Slot0V8Uint32 && layout != Slot0V7Uint8 {
		t.Errorf("unexpected layout %v", layout)
	}
	_ = state
}

func TestDecodeSlot0ErrorsWhenNothingDecodes(t *testing.T) {
	if _, _, err := decodeSlot0([]byte{0x01, 0x02}, slot0Unknown); err == nil {
		t.Error("expected PoolNotInitializedError for undersized slot0 data")
	}
}

func TestFindPoolReturnsPoolNotDeployedOnZeroAddress(t *testing.T) {
	client := &fakeChainClient{
		callContractFn: func(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
			out, _ := v3FactoryABI.Methods["getPool"].Outputs.Pack(common.Address{})
			return out, nil
		},
	}
	reader := NewPoolReader(client)
	tokA := mustAddr(t, "0x0000000000000000000000000000000000000001")
	tokB := mustAddr(t, "0x0000000000000000000000000000000000000002")
	factory := mustAddr(t, "0x0000000000000000000000000000000000000009")

	if _, err := reader.FindPool(context.Background(), factory, tokA, tokB, 3000); err == nil {
		t.Error("expected PoolNotDeployedError when the factory returns the zero address")
	}
}

func TestFindPoolReturnsResolvedAddress(t *testing.T) {
	expected := mustAddr(t, "0x00000000000000000000000000000000000abc")
	client := &fakeChainClient{
		callContractFn: func(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
			out, _ := v3FactoryABI.Methods["getPool"].Outputs.Pack(expected.Ethereum())
			return out, nil
		},
	}
	reader := NewPoolReader(client)
	tokA := mustAddr(t, "0x0000000000000000000000000000000000000001")
	tokB := mustAddr(t, "0x0000000000000000000000000000000000000002")
	factory := mustAddr(t, "0x0000000000000000000000000000000000000009")

	got, err := reader.FindPool(context.Background(), factory, tokA, tokB, 3000)
	if err != nil {
		t.Fatal(err)
	}
	if got != expected {
		t.Errorf("FindPool() = %v, want %v", got, expected)
	}
}

func TestReadPoolStateReturnsNotInitializedOnCallError(t *testing.T) {
	client := &fakeChainClient{
		callContractFn: func(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
			return nil, errors.New("execution reverted")
		},
	}
	reader := NewPoolReader(client)
	pool := mustAddr(t, "0x0000000000000000000000000000000000000abc")
	if _, err := reader.ReadPoolState(context.Background(), pool); err == nil {
		t.Error("expected PoolNotInitializedError when slot0 call reverts")
	}
}

func TestReadPoolStateDecodesAndCachesLiquidity(t *testing.T) {
	pool := mustAddr(t, "0x0000000000000000000000000000000000000abc")
	calls := 0
	client := &fakeChainClient{
		callContractFn: func(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
			calls++
			sel := msg.Data[:4]
			switch {
			case bytesEqual(sel, slot0V8ABI.Methods["slot0"].ID):
				return packSlot0V8(t, big.NewInt(1<<80), 42), nil
			case bytesEqual(sel, v3PoolABI.Methods["liquidity"].ID):
				out, _ := v3PoolABI.Methods["liquidity"].Outputs.Pack(big.NewInt(123456))
				return out, nil
			}
			return nil, errors.New("unexpected selector")
		},
		blockNumber: 999,
	}
	reader := NewPoolReader(client)
	state, err := reader.ReadPoolState(context.Background(), pool)
	if err != nil {
		t.Fatal(err)
	}
	if !state.Initialized {
		t.Error("expected Initialized=true for a positive sqrtPriceX96")
	}
	if state.Tick != 42 {
		t.Errorf("Tick = %d, want 42", state.Tick)
	}
	if state.Liquidity == nil || state.Liquidity.Cmp(big.NewInt(123456)) != 0 {
		t.Errorf("Liquidity = %v, want 123456", state.Liquidity)
	}
	if state.BlockNumber != 999 {
		t.Errorf("BlockNumber = %d, want 999", state.BlockNumber)
	}
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
