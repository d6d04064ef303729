package core

// RPCSwapQuoter implements SwapQuoter (spec §4.I) directly against the
// v2 router's getAmountsOut and v3 QuoterV2's quoteExactInputSingle,
// reusing PoolReader for the pool lookup a direct v3 quote needs for
// the price-impact gate's spot price.

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
)

type RPCSwapQuoter struct {
	client  ChainClient
	reader  *PoolReader
	factory Address
}

func NewRPCSwapQuoter(client ChainClient, reader *PoolReader, factory Address) *RPCSwapQuoter {
	return &RPCSwapQuoter{client: client, reader: reader, factory: factory}
}

func (q *RPCSwapQuoter) call(ctx context.Context, to Address, data []byte) ([]byte, error) {
	ethTo := to.Ethereum()
	msg := ethereum.CallMsg{To: &ethTo, Data: data}
	return q.client.CallContract(ctx, msg, nil)
}

func (q *RPCSwapQuoter) QuoteV2(ctx context.Context, router Address, amountIn *big.Int, path []Address) (*big.Int, error) {
	data, err := v2RouterABI.Pack("getAmountsOut", amountIn, toEthAddresses(path))
	if err != nil {
		return nil, err
	}
	raw, err := q.call(ctx, router, data)
	if err != nil {
		return nil, err
	}
	out, err := v2RouterABI.Unpack("getAmountsOut", raw)
	if err != nil {
		return nil, err
	}
	amounts := out[0].([]*big.Int)
	return amounts[len(amounts)-1], nil
}

func (q *RPCSwapQuoter) QuoteV3Single(ctx context.Context, quoter Address, tokenIn, tokenOut Address, fee uint32, amountIn *big.Int) (*big.Int, error) {
	type params struct {
		TokenIn           common.Address
		TokenOut          common.Address
		AmountIn          *big.Int
		Fee               *big.Int
		SqrtPriceLimitX96 *big.Int
	}
	data, err := v3QuoterABI.Pack("quoteExactInputSingle", params{
		TokenIn: tokenIn.Ethereum(), TokenOut: tokenOut.Ethereum(),
		AmountIn: amountIn, Fee: big.NewInt(int64(fee)), SqrtPriceLimitX96: big.NewInt(0),
	})
	if err != nil {
		return nil, err
	}
	raw, err := q.call(ctx, quoter, data)
	if err != nil {
		return nil, err
	}
	out, err := v3QuoterABI.Unpack("quoteExactInputSingle", raw)
	if err != nil {
		return nil, err
	}
	return out[0].(*big.Int), nil
}

func (q *RPCSwapQuoter) SpotSqrtPriceX96(ctx context.Context, pool Address) (*big.Int, error) {
	if pool.IsZero() {
		return nil, nil
	}
	state, err := q.reader.ReadPoolState(ctx, pool)
	if err != nil {
		return nil, err
	}
	return state.SqrtPriceX96, nil
}

func toEthAddresses(addrs []Address) []common.Address {
	out := make([]common.Address, len(addrs))
	for i, a := range addrs {
		out[i] = a.Ethereum()
	}
	return out
}
