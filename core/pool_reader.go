package core

// Pool discovery and state reading (spec §4.E). find_pool resolves a
// PoolKey to an on-chain pool; read_pool_state decodes slot0 tolerating
// the two ABI layouts actually deployed across v3 forks (spec §9
// redesign note: "no exception-driven control flow" — the layout is
// probed once per pool and the choice is cached, not re-discovered on
// every read via try/catch).

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
)

// Slot0Layout tags which ABI shape a given pool's slot0() returns.
type Slot0Layout int

const (
	slot0Unknown Slot0Layout = iota
	Slot0V8Uint32
	Slot0V7Uint8
	Slot0Raw
)

// PoolReader discovers pools and reads their state, caching the
// slot0 ABI layout and token decimals per address for the life of the
// process (spec §4.K "DecimalsCache": append-only, per-session).
type PoolReader struct {
	client ChainClient

	mu          sync.Mutex
	layoutCache map[Address]Slot0Layout
	decimals    map[Address]uint8
}

func NewPoolReader(client ChainClient) *PoolReader {
	return &PoolReader{
		client:      client,
		layoutCache: make(map[Address]Slot0Layout),
		decimals:    make(map[Address]uint8),
	}
}

func (r *PoolReader) call(ctx context.Context, to Address, data []byte) ([]byte, error) {
	ethTo := to.Ethereum()
	msg := ethereum.CallMsg{To: &ethTo, Data: data}
	return r.client.CallContract(ctx, msg, nil)
}

// FindPool resolves a v3-family pool address from a factory (spec
// §4.E find_pool). Returns PoolNotDeployedError if the factory returns
// the zero address.
func (r *PoolReader) FindPool(ctx context.Context, factory Address, tokenA, tokenB Address, fee uint32) (Address, error) {
	currency0, currency1 := SortCurrencies(tokenA, tokenB)
	data, err := v3FactoryABI.Pack("getPool", currency0.Ethereum(), currency1.Ethereum(), big.NewInt(int64(fee)))
	if err != nil {
		return Address{}, err
	}
	out, err := r.call(ctx, factory, data)
	if err != nil {
		return Address{}, err
	}
	results, err := v3FactoryABI.Unpack("getPool", out)
	if err != nil {
		return Address{}, err
	}
	ethAddr, ok := results[0].(common.Address)
	if !ok {
		return Address{}, &PoolNotDeployedError{Currency0: currency0.Hex(), Currency1: currency1.Hex(), Fee: fee}
	}
	poolAddr := AddressFromEthereum(ethAddr)
	if poolAddr.IsZero() {
		return Address{}, &PoolNotDeployedError{Currency0: currency0.Hex(), Currency1: currency1.Hex(), Fee: fee}
	}
	return poolAddr, nil
}

// FindPoolV4 computes the deterministic v4 pool id; v4 pools are never
// "not deployed" in the v3 sense, they are "not initialized" (caller
// must still call ReadPoolState to check Initialized).
func FindPoolV4(key PoolKey) [32]byte {
	return PoolKeyHash(key)
}

// ReadPoolState implements spec §4.E read_pool_state for v3-family
// pools: decodes slot0, probing ABI layouts in order and caching the
// winner so subsequent reads for the same pool skip straight to it.
func (r *PoolReader) ReadPoolState(ctx context.Context, pool Address) (PoolState, error) {
	r.mu.Lock()
	layout := r.layoutCache[pool]
	r.mu.Unlock()

	raw, err := r.call(ctx, pool, slot0V8ABI.Methods["slot0"].ID)
	if err != nil {
		return PoolState{}, &PoolNotInitializedError{Pool: pool.Hex()}
	}

	state, usedLayout, decodeErr := decodeSlot0(raw, layout)
	if decodeErr != nil {
		return PoolState{}, &PoolNotInitializedError{Pool: pool.Hex()}
	}

	r.mu.Lock()
	r.layoutCache[pool] = usedLayout
	r.mu.Unlock()

	liqData := v3PoolABI.Methods["liquidity"].ID
	liqRaw, err := r.call(ctx, pool, liqData)
	if err == nil {
		if vals, uerr := v3PoolABI.Unpack("liquidity", liqRaw); uerr == nil && len(vals) == 1 {
			if l, ok := vals[0].(*big.Int); ok {
				state.Liquidity = l
			}
		}
	}
	if state.Liquidity == nil {
		state.Liquidity = big.NewInt(0)
	}

	bn, err := r.client.BlockNumber(ctx)
	if err == nil {
		state.BlockNumber = bn
	}
	state.Initialized = state.SqrtPriceX96 != nil && state.SqrtPriceX96.Sign() > 0
	return state, nil
}

// decodeSlot0 tries the cached layout first (if known), then falls
// through v8 -> v7 -> raw. Raw extraction reads the first two 32-byte
// words directly: word0 low 160 bits is sqrtPriceX96, word1 low 24
// bits (sign-extended) is tick. This is the last-resort path for pools
// whose slot0() ABI the module hasn't seen (spec §9).
func decodeSlot0(raw []byte, preferred Slot0Layout) (PoolState, Slot0Layout, error) {
	tryLayout := func(l Slot0Layout) (PoolState, bool) {
		switch l {
		case Slot0V8Uint32:
			vals, err := slot0V8ABI.Unpack("slot0", raw)
			if err != nil || len(vals) < 2 {
				return PoolState{}, false
			}
			sqrt, ok1 := vals[0].(*big.Int)
			tick, ok2 := vals[1].(*big.Int)
			if !ok1 || !ok2 {
				return PoolState{}, false
			}
			return PoolState{SqrtPriceX96: sqrt, Tick: int32(tick.Int64())}, true
		case Slot0V7Uint8:
			vals, err := slot0V7ABI.Unpack("slot0", raw)
			if err != nil || len(vals) < 2 {
				return PoolState{}, false
			}
			sqrt, ok1 := vals[0].(*big.Int)
			tick, ok2 := vals[1].(*big.Int)
			if !ok1 || !ok2 {
				return PoolState{}, false
			}
			return PoolState{SqrtPriceX96: sqrt, Tick: int32(tick.Int64())}, true
		case Slot0Raw:
			if len(raw) < 64 {
				return PoolState{}, false
			}
			sqrt := new(big.Int).SetBytes(raw[12:32])
			tickWord := raw[32:64]
			tickBytes := tickWord[29:32]
			tick := int32(tickBytes[0])<<16 | int32(tickBytes[1])<<8 | int32(tickBytes[2])
			if tickBytes[0]&0x80 != 0 {
				tick -= 1 << 24
			}
			return PoolState{SqrtPriceX96: sqrt, Tick: tick}, true
		}
		return PoolState{}, false
	}

	order := []Slot0Layout{Slot0V8Uint32, Slot0V7Uint8, Slot0Raw}
	if preferred != slot0Unknown {
		order = append([]Slot0Layout{preferred}, order...)
	}
	seen := map[Slot0Layout]bool{}
	for _, l := range order {
		if seen[l] {
			continue
		}
		seen[l] = true
		if st, ok := tryLayout(l); ok {
			return st, l, nil
		}
	}
	return PoolState{}, slot0Unknown, &PoolNotInitializedError{}
}

// TokenInfo is the result of read_token_info (spec §4.E): symbol/name
// degrade to placeholders on revert, decimals hard-errors.
type TokenInfo struct {
	Address     Address
	Symbol      string
	Name        string
	Decimals    uint8
	TotalSupply *big.Int
}

// ReadTokenInfo implements spec §4.E read_token_info.
func (r *PoolReader) ReadTokenInfo(ctx context.Context, token Address) (TokenInfo, error) {
	info := TokenInfo{Address: token, Symbol: "UNKNOWN", Name: "Unknown Token", TotalSupply: big.NewInt(0)}

	r.mu.Lock()
	cachedDec, haveDec := r.decimals[token]
	r.mu.Unlock()

	if haveDec {
		info.Decimals = cachedDec
	} else {
		data, _ := erc20ABI.Pack("decimals")
		out, err := r.call(ctx, token, data)
		if err != nil {
			return TokenInfo{}, &DecimalsUnavailableError{Token: token.Hex()}
		}
		vals, err := erc20ABI.Unpack("decimals", out)
		if err != nil || len(vals) != 1 {
			return TokenInfo{}, &DecimalsUnavailableError{Token: token.Hex()}
		}
		dec, ok := vals[0].(uint8)
		if !ok {
			return TokenInfo{}, &DecimalsUnavailableError{Token: token.Hex()}
		}
		info.Decimals = dec
		r.mu.Lock()
		r.decimals[token] = dec
		r.mu.Unlock()
	}

	if data, err := erc20ABI.Pack("symbol"); err == nil {
		if out, err := r.call(ctx, token, data); err == nil {
			if vals, err := erc20ABI.Unpack("symbol", out); err == nil && len(vals) == 1 {
				if s, ok := vals[0].(string); ok && s != "" {
					info.Symbol = s
				}
			}
		}
	}
	if data, err := erc20ABI.Pack("name"); err == nil {
		if out, err := r.call(ctx, token, data); err == nil {
			if vals, err := erc20ABI.Unpack("name", out); err == nil && len(vals) == 1 {
				if s, ok := vals[0].(string); ok && s != "" {
					info.Name = s
				}
			}
		}
	}
	if data, err := erc20ABI.Pack("totalSupply"); err == nil {
		if out, err := r.call(ctx, token, data); err == nil {
			if vals, err := erc20ABI.Unpack("totalSupply", out); err == nil && len(vals) == 1 {
				if ts, ok := vals[0].(*big.Int); ok {
					info.TotalSupply = ts
				}
			}
		}
	}
	return info, nil
}

// BatchRead fetches state for many pools concurrently (spec §4.K
// batch_read), bounded by the caller-supplied concurrency limit.
func (r *PoolReader) BatchRead(ctx context.Context, pools []Address, concurrency int) (map[Address]PoolState, map[Address]error) {
	if concurrency < 1 {
		concurrency = 1
	}
	results := make(map[Address]PoolState, len(pools))
	errs := make(map[Address]error)
	var mu sync.Mutex
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup
	for _, p := range pools {
		wg.Add(1)
		sem <- struct{}{}
		go func(p Address) {
			defer wg.Done()
			defer func() { <-sem }()
			st, err := r.ReadPoolState(ctx, p)
			mu.Lock()
			if err != nil {
				errs[p] = err
			} else {
				results[p] = st
			}
			mu.Unlock()
		}(p)
	}
	wg.Wait()
	return results, errs
}
