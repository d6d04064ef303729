package core

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// fakeChainClient is a ChainClient test double with an overridable hook
// per method; unset hooks return harmless zero values.
type fakeChainClient struct {
	chainID            *big.Int
	blockNumber        uint64
	suggestGasPrice    *big.Int
	suggestGasTipCap   *big.Int
	pendingNonce       uint64
	pendingNonceErr    error
	estimateGas        uint64
	estimateGasErr     error
	callContractFn     func(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	headerByNumberFn   func(ctx context.Context, number *big.Int) (*types.Header, error)
	sendTransactionErr error
	receiptFn          func(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	filterLogsFn       func(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error)
}

func (f *fakeChainClient) ChainID(ctx context.Context) (*big.Int, error) {
	if f.chainID != nil {
		return f.chainID, nil
	}
	return big.NewInt(1), nil
}

func (f *fakeChainClient) BlockNumber(ctx context.Context) (uint64, error) {
	return f.blockNumber, nil
}

func (f *fakeChainClient) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	if f.suggestGasPrice != nil {
		return f.suggestGasPrice, nil
	}
	return big.NewInt(1_000_000_000), nil
}

func (f *fakeChainClient) SuggestGasTipCap(ctx context.Context) (*big.Int, error) {
	if f.suggestGasTipCap != nil {
		return f.suggestGasTipCap, nil
	}
	return big.NewInt(1_000_000_000), nil
}

func (f *fakeChainClient) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	if f.headerByNumberFn != nil {
		return f.headerByNumberFn(ctx, number)
	}
	return &types.Header{BaseFee: big.NewInt(1_000_000_000)}, nil
}

func (f *fakeChainClient) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	if f.callContractFn != nil {
		return f.callContractFn(ctx, msg, blockNumber)
	}
	return nil, nil
}

func (f *fakeChainClient) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	if f.estimateGasErr != nil {
		return 0, f.estimateGasErr
	}
	return f.estimateGas, nil
}

func (f *fakeChainClient) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	return f.sendTransactionErr
}

func (f *fakeChainClient) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	if f.receiptFn != nil {
		return f.receiptFn(ctx, txHash)
	}
	return &types.Receipt{Status: types.ReceiptStatusSuccessful}, nil
}

func (f *fakeChainClient) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	if f.pendingNonceErr != nil {
		return 0, f.pendingNonceErr
	}
	return f.pendingNonce, nil
}

func (f *fakeChainClient) FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
	if f.filterLogsFn != nil {
		return f.filterLogsFn(ctx, q)
	}
	return nil, nil
}

// fakeSigner is a Signer test double backed by a real ecdsa key so signed
// transactions round-trip through go-ethereum's own signer machinery.
type fakeSigner struct {
	key     *ecdsa.PrivateKey
	address Address
	signErr error
}

func newFakeSigner(t testing.TB) *fakeSigner {
	t.Helper()
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatal(err)
	}
	return &fakeSigner{key: key, address: AddressFromEthereum(crypto.PubkeyToAddress(key.PublicKey))}
}

func (s *fakeSigner) SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	if s.signErr != nil {
		return nil, s.signErr
	}
	signer := types.LatestSignerForChainID(chainID)
	return types.SignTx(tx, signer, s.key)
}

func (s *fakeSigner) Address() Address { return s.address }
