package core

// Batch executor (spec §4.G): accumulates calls, wraps them in the
// protocol's own multicall/modifyLiquidities entry point, simulates,
// signs, submits, and parses receipts.

import (
	"context"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Call is one accumulated (target, calldata) entry.
type Call struct {
	Target       Address
	Calldata     []byte
	AllowFailure bool
}

// CallResult is one sub-call's simulated or executed outcome.
type CallResult struct {
	Success      bool
	ReturnData   []byte
	RevertReason string // decoded Error(string) message, if any
	RawRevert    []byte // opaque revert payload when not Error(string)
}

// ExecuteResult is the full outcome of BatchExecutor.Execute.
type ExecuteResult struct {
	TxHash   common.Hash
	Results  []CallResult
	Receipt  *types.Receipt
	TokenIDs []*big.Int
}

// BatchExecutor builds and runs one atomic batch against one EOA/chain.
type BatchExecutor struct {
	client  ChainClient
	signer  Signer
	nonces  *NonceManager
	chainID *big.Int

	calls []Call

	// Entry point: for v3 this wraps calls into
	// NonfungiblePositionManager.multicall; for v4 the caller has
	// already produced a single modifyLiquidities call and adds it
	// as the lone entry.
	entryPoint Address
	receiptTimeout time.Duration
}

func NewBatchExecutor(client ChainClient, signer Signer, nonces *NonceManager, chainID *big.Int, entryPoint Address) *BatchExecutor {
	return &BatchExecutor{
		client:         client,
		signer:         signer,
		nonces:         nonces,
		chainID:        chainID,
		entryPoint:     entryPoint,
		receiptTimeout: 2 * time.Minute,
	}
}

func (b *BatchExecutor) AddCall(target Address, calldata []byte, allowFailure bool) {
	b.calls = append(b.calls, Call{Target: target, Calldata: calldata, AllowFailure: allowFailure})
}

func (b *BatchExecutor) SetReceiptTimeout(d time.Duration) { b.receiptTimeout = d }

// wrappedCalldata builds the final multicall(bytes[]) payload sent to
// entryPoint, treating the accumulated calls as NFPM sub-calls. v4
// callers bypass this and call Execute with a single pre-wrapped call.
func (b *BatchExecutor) wrappedCalldata() ([]byte, error) {
	if len(b.calls) == 1 {
		return b.calls[0].Calldata, nil
	}
	datas := make([][]byte, len(b.calls))
	for i, c := range b.calls {
		datas[i] = c.Calldata
	}
	return EncodeMulticallV3(datas)
}

// Simulate implements spec §4.G simulate(): runs eth_call on the
// wrapped multicall, decoding Error(string) reverts distinctly from
// opaque reverts. If the aggregate simulation fails, it also simulates
// the first call alone so the caller gets an unmasked reason.
func (b *BatchExecutor) Simulate(ctx context.Context, from Address) ([]CallResult, error) {
	data, err := b.wrappedCalldata()
	if err != nil {
		return nil, err
	}
	ethFrom := from.Ethereum()
	ethTo := b.entryPoint.Ethereum()
	msg := ethereum.CallMsg{From: ethFrom, To: &ethTo, Data: data}

	_, callErr := b.client.CallContract(ctx, msg, nil)
	if callErr == nil {
		results := make([]CallResult, len(b.calls))
		for i := range results {
			results[i] = CallResult{Success: true}
		}
		return results, nil
	}

	if len(b.calls) > 1 {
		firstMsg := ethereum.CallMsg{From: ethFrom, To: addrPtrOf(b.calls[0].Target), Data: b.calls[0].Calldata}
		_, firstErr := b.client.CallContract(ctx, firstMsg, nil)
		if firstErr != nil {
			return nil, &SimulationRevertedError{Reason: decodeRevertReason(firstErr)}
		}
	}
	return nil, &SimulationRevertedError{Reason: decodeRevertReason(callErr)}
}

func addrPtrOf(a Address) *common.Address {
	e := a.Ethereum()
	return &e
}

// decodeRevertReason extracts the Error(string) message when present,
// else returns the raw error text as the opaque payload.
func decodeRevertReason(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	const prefix = "execution reverted: "
	if idx := strings.Index(msg, prefix); idx >= 0 {
		return msg[idx+len(prefix):]
	}
	return msg
}

// GasParams is the chosen fee mechanism for one transaction.
type GasParams struct {
	EIP1559       bool
	GasPrice      *big.Int // legacy
	GasTipCap     *big.Int
	GasFeeCap     *big.Int
	GasLimit      uint64
}

// BuildGasParams implements spec §4.G step 2: EIP-1559 when the chain
// reports baseFee, legacy gasPrice otherwise.
func BuildGasParams(ctx context.Context, client ChainClient, gasLimit uint64) (GasParams, error) {
	head, err := client.HeaderByNumber(ctx, nil)
	if err == nil && head != nil && head.BaseFee != nil {
		tip, err := client.SuggestGasTipCap(ctx)
		if err != nil {
			tip = big.NewInt(1_500_000_000) // 1.5 gwei fallback
		}
		feeCap := new(big.Int).Add(new(big.Int).Mul(head.BaseFee, big.NewInt(2)), tip)
		return GasParams{EIP1559: true, GasTipCap: tip, GasFeeCap: feeCap, GasLimit: gasLimit}, nil
	}
	price, err := client.SuggestGasPrice(ctx)
	if err != nil {
		return GasParams{}, err
	}
	return GasParams{EIP1559: false, GasPrice: price, GasLimit: gasLimit}, nil
}

// Execute implements spec §4.G execute(): reserve nonce, build gas
// params, sign, submit, wait for receipt, parse logs.
func (b *BatchExecutor) Execute(ctx context.Context, from Address, gas GasParams) (*ExecuteResult, error) {
	data, err := b.wrappedCalldata()
	if err != nil {
		return nil, err
	}

	nonce, err := b.nonces.Reserve(ctx)
	if err != nil {
		return nil, err
	}

	var tx *types.Transaction
	ethTo := b.entryPoint.Ethereum()
	if gas.EIP1559 {
		tx = types.NewTx(&types.DynamicFeeTx{
			ChainID:   b.chainID,
			Nonce:     nonce,
			GasTipCap: gas.GasTipCap,
			GasFeeCap: gas.GasFeeCap,
			Gas:       gas.GasLimit,
			To:        &ethTo,
			Data:      data,
		})
	} else {
		tx = types.NewTx(&types.LegacyTx{
			Nonce:    nonce,
			GasPrice: gas.GasPrice,
			Gas:      gas.GasLimit,
			To:       &ethTo,
			Data:     data,
		})
	}

	signedTx, err := b.signer.SignTx(tx, b.chainID)
	if err != nil {
		b.nonces.Release(nonce)
		return nil, err
	}

	if err := b.client.SendTransaction(ctx, signedTx); err != nil {
		b.nonces.Release(nonce)
		return nil, err
	}
	b.nonces.MarkSubmitted(nonce)
	b.nonces.Consume(nonce) // consumed on submit even if it later reverts

	receipt, err := b.waitForReceipt(ctx, signedTx.Hash())
	if err != nil {
		return nil, err
	}

	if receipt.Status == types.ReceiptStatusFailed {
		return &ExecuteResult{TxHash: signedTx.Hash(), Receipt: receipt}, &TransactionRevertedError{TxHash: signedTx.Hash().Hex()}
	}

	tokenIDs := parseMintTokenIDs(receipt, from)
	results := make([]CallResult, len(b.calls))
	for i := range results {
		results[i] = CallResult{Success: true}
	}
	return &ExecuteResult{TxHash: signedTx.Hash(), Results: results, Receipt: receipt, TokenIDs: tokenIDs}, nil
}

func (b *BatchExecutor) waitForReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	deadline := time.Now().Add(b.receiptTimeout)
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()
	for {
		receipt, err := b.client.TransactionReceipt(ctx, txHash)
		if err == nil && receipt != nil {
			return receipt, nil
		}
		if time.Now().After(deadline) {
			return nil, &TimeoutError{TxHash: txHash.Hex(), Deadline: deadline.String()}
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

var (
	increaseLiquidityTopic = nfpmABI.Events["IncreaseLiquidity"].ID
	erc721TransferTopic    = nfpmABI.Events["Transfer"].ID
)

// parseMintTokenIDs implements spec §4.G step 6 / §4.G "receipt parsing
// invariants": prefer IncreaseLiquidity order; fall back to the
// order-stable ERC-721 Transfer(from=0, to=recipient, tokenId).
func parseMintTokenIDs(receipt *types.Receipt, recipient Address) []*big.Int {
	var fromIncrease []*big.Int
	for _, lg := range receipt.Logs {
		if len(lg.Topics) > 0 && lg.Topics[0] == increaseLiquidityTopic && len(lg.Topics) > 1 {
			fromIncrease = append(fromIncrease, new(big.Int).SetBytes(lg.Topics[1].Bytes()))
		}
	}
	if len(fromIncrease) > 0 {
		return fromIncrease
	}

	var fromTransfer []*big.Int
	zero := common.Address{}
	for _, lg := range receipt.Logs {
		if len(lg.Topics) != 4 || lg.Topics[0] != erc721TransferTopic {
			continue
		}
		from := common.BytesToAddress(lg.Topics[1].Bytes())
		to := common.BytesToAddress(lg.Topics[2].Bytes())
		if from == zero && to == recipient.Ethereum() {
			fromTransfer = append(fromTransfer, new(big.Int).SetBytes(lg.Topics[3].Bytes()))
		}
	}
	return fromTransfer
}
