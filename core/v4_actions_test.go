package core

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

func decodeV4Actions(t *testing.T, data []byte) ([]byte, [][]byte) {
	t.Helper()
	actionsType, err := abi.NewType("bytes", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	paramsType, err := abi.NewType("bytes[]", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	args := abi.Arguments{{Type: actionsType}, {Type: paramsType}}
	vals, err := args.Unpack(data)
	if err != nil {
		t.Fatalf("unpack v4 actions blob: %v", err)
	}
	codes, ok := vals[0].([]byte)
	if !ok {
		t.Fatalf("actions codes has unexpected type %T", vals[0])
	}
	params, ok := vals[1].([][]byte)
	if !ok {
		t.Fatalf("actions params has unexpected type %T", vals[1])
	}
	return codes, params
}

func samplePoolKey(t *testing.T) PoolKey {
	t.Helper()
	return PoolKey{
		Currency0:   mustAddr(t, "0x0000000000000000000000000000000000000001"),
		Currency1:   mustAddr(t, "0x0000000000000000000000000000000000000002"),
		Fee:         3000,
		TickSpacing: 60,
		Hooks:       mustAddr(t, "0x0000000000000000000000000000000000000000"),
	}
}

func TestEncodeV4MintLadderActionOrder(t *testing.T) {
	recipient := mustAddr(t, "0x0000000000000000000000000000000000000005")
	key := samplePoolKey(t)
	buckets := []V4MintBucket{
		{Key: key, TickLower: -120, TickUpper: -60, Liquidity: big.NewInt(1000), Amount0Max: big.NewInt(100), Amount1Max: big.NewInt(100), Recipient: recipient},
		{Key: key, TickLower: 60, TickUpper: 120, Liquidity: big.NewInt(2000), Amount0Max: big.NewInt(200), Amount1Max: big.NewInt(200), Recipient: recipient},
	}

	data, err := EncodeV4MintLadder(buckets, int64(1_800))
	if err != nil {
		t.Fatalf("EncodeV4MintLadder: %v", err)
	}

	codes, params := decodeV4Actions(t, data)
	// 2 buckets * (mint, settle) + one CLOSE_CURRENCY per distinct currency
	// (both buckets share the same pool key, so exactly 2 currencies close).
	wantLen := 2*2 + 2
	if len(codes) != wantLen || len(params) != wantLen {
		t.Fatalf("got %d action codes / %d param blobs, want %d", len(codes), len(params), wantLen)
	}

	if codes[0] != ActionMintPosition || codes[1] != ActionSettlePair {
		t.Errorf("first bucket should encode as (MINT_POSITION, SETTLE_PAIR), got (0x%02x, 0x%02x)", codes[0], codes[1])
	}
	if codes[2] != ActionMintPosition || codes[3] != ActionSettlePair {
		t.Errorf("second bucket should encode as (MINT_POSITION, SETTLE_PAIR), got (0x%02x, 0x%02x)", codes[2], codes[3])
	}
	for _, c := range codes[4:] {
		if c != ActionCloseCurrency {
			t.Errorf("trailing actions should all be CLOSE_CURRENCY, got 0x%02x", c)
		}
	}
}

func TestEncodeV4CloseLadderActionOrder(t *testing.T) {
	key := samplePoolKey(t)
	recipient := mustAddr(t, "0x0000000000000000000000000000000000000005")
	positions := []V4ClosePosition{
		{Key: key, TickLower: -120, TickUpper: -60, Liquidity: big.NewInt(1000), Amount0Min: big.NewInt(1), Amount1Min: big.NewInt(1)},
		{Key: key, TickLower: 60, TickUpper: 120, Liquidity: big.NewInt(2000), Amount0Min: big.NewInt(1), Amount1Min: big.NewInt(1)},
	}

	data, err := EncodeV4CloseLadder(positions, recipient)
	if err != nil {
		t.Fatalf("EncodeV4CloseLadder: %v", err)
	}

	codes, params := decodeV4Actions(t, data)
	// 2 positions of DECREASE_LIQUIDITY, then 2 of TAKE_PAIR, then 1 CLOSE_CURRENCY per distinct currency (2 here).
	wantLen := 2 + 2 + 2
	if len(codes) != wantLen || len(params) != wantLen {
		t.Fatalf("got %d action codes / %d param blobs, want %d", len(codes), len(params), wantLen)
	}
	if codes[0] != ActionDecreaseLiquidity || codes[1] != ActionDecreaseLiquidity {
		t.Errorf("expected the first two actions to be DECREASE_LIQUIDITY, got (0x%02x, 0x%02x)", codes[0], codes[1])
	}
	if codes[2] != ActionTakePair || codes[3] != ActionTakePair {
		t.Errorf("expected the next two actions to be TAKE_PAIR, got (0x%02x, 0x%02x)", codes[2], codes[3])
	}
	for _, c := range codes[4:] {
		if c != ActionCloseCurrency {
			t.Errorf("trailing actions should all be CLOSE_CURRENCY, got 0x%02x", c)
		}
	}
}

func TestPoolKeyHashStableAcrossV4Actions(t *testing.T) {
	key := samplePoolKey(t)
	a := PoolKeyHash(key)
	b := PoolKeyHash(samplePoolKey(t))
	if a != b {
		t.Error("PoolKeyHash should be identical for structurally equal keys built independently")
	}
}
