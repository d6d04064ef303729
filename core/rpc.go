package core

// ChainClient pins the RPC collaborator surface consumed by this module
// (spec §6: "RPC collaborator"). It is satisfied as-is by
// *ethereum/go-ethereum/ethclient.Client — the core never constructs its
// own transport, it only consumes these methods, so tests substitute a
// fake and production wires a real client (optionally proxy-tunneled, see
// internal/rpcclient).

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

type ChainClient interface {
	ChainID(ctx context.Context) (*big.Int, error)
	BlockNumber(ctx context.Context) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error)
}

// Signer is the signing capability consumed from the key-vault
// collaborator (spec §6 "Signing collaborator"). The core never touches
// the private key directly.
type Signer interface {
	// SignTx signs a transaction for the given chain id, returning the
	// signed transaction (EIP-155 replay protection applied internally).
	SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error)
	// Address returns the externally-owned account this signer signs for.
	Address() Address
}
