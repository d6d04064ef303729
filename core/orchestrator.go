package core

// Ladder orchestrator (spec §4.H): end-to-end
// plan -> validate -> approve -> (create-pool?) -> batch-mint -> index,
// and the symmetric close path. Pure planning stays in distribution.go;
// this file is the only place that sequences I/O.

import (
	"context"
	"errors"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/sirupsen/logrus"
)

// Balances is the minimal read surface the orchestrator needs before
// committing an EOA to a ladder.
type Balances interface {
	BalanceOf(ctx context.Context, token, owner Address) (*big.Int, error)
	Allowance(ctx context.Context, token, owner, spender Address) (*big.Int, error)
}

// PMRegistry resolves the active Position-Manager / Factory / fork
// label for a pool, supporting spec §4.H step 4's re-pointing when
// multiple forks share a chain.
type PMRegistry interface {
	FingerprintPool(ctx context.Context, pool Address) (ProtocolVariant, error)
	PositionManager(variant ProtocolVariant) Address
	Factory(variant ProtocolVariant) Address
	Spender(variant ProtocolVariant) Address
}

// Orchestrator ties the pure planner to the I/O components.
type Orchestrator struct {
	reader   *PoolReader
	balances Balances
	registry PMRegistry
	gas      *GasEstimator
	chainID  *big.Int
	signer   Signer
	client   ChainClient
	eoa      Address
	log      *logrus.Logger
}

func NewOrchestrator(reader *PoolReader, balances Balances, registry PMRegistry, gas *GasEstimator, chainID *big.Int, signer Signer, client ChainClient) *Orchestrator {
	return &Orchestrator{
		reader: reader, balances: balances, registry: registry, gas: gas,
		chainID: chainID, signer: signer, client: client, eoa: signer.Address(),
		log: logrus.StandardLogger(),
	}
}

// CreateLadderResult records what landed on-chain.
type CreateLadderResult struct {
	Positions []OpenPosition
	TxResult  *ExecuteResult
}

// CreateLadder implements spec §4.H steps 1-9.
func (o *Orchestrator) CreateLadder(ctx context.Context, cfg LadderConfig) (*CreateLadderResult, error) {
	orientation, err := o.resolveOrientation(ctx, cfg)
	if err != nil {
		return nil, err
	}

	plan, err := o.plan(cfg, orientation)
	if err != nil {
		return nil, err
	}

	if err := o.checkBalances(ctx, cfg, plan); err != nil {
		return nil, err
	}

	poolKey := PoolKey{
		Currency0: orientation.Currency0, Currency1: orientation.Currency1,
		Fee: cfg.FeeTier, Hooks: cfg.Hooks,
	}

	variant := cfg.ProtocolVariant
	var blockNumber uint64
	if variant.IsV4() {
		// v4 pool state lives inside the singleton PoolManager keyed by
		// PoolKeyHash, not at a per-pool contract address; tick spacing is
		// a free field of the key itself, so there is nothing to read back
		// and reconcile the way v3's fee->spacing table requires.
		bn, err := o.client.BlockNumber(ctx)
		if err != nil {
			return nil, err
		}
		blockNumber = bn
	} else {
		factory := o.registry.Factory(variant)
		poolAddr, err := o.reader.FindPool(ctx, factory, cfg.Token0Address, cfg.Token1Address, cfg.FeeTier)
		if err != nil {
			var notDeployed *PoolNotDeployedError
			if !cfg.AllowAutoCreatePool || !errors.As(err, &notDeployed) {
				return nil, err
			}
			created, cerr := o.autoCreatePool(ctx, variant, poolKey, cfg.CurrentPrice)
			if cerr != nil {
				return nil, cerr
			}
			poolAddr = created
		}
		state, err := o.reader.ReadPoolState(ctx, poolAddr)
		if err != nil {
			return nil, err
		}
		blockNumber = state.BlockNumber

		actualSpacing, err := o.actualTickSpacing(ctx, poolAddr, cfg.FeeTier, cfg.AllowCustomFee)
		if err != nil {
			return nil, err
		}
		for _, p := range plan {
			if p.TickLower%actualSpacing != 0 || p.TickUpper%actualSpacing != 0 {
				return nil, &TicksNotAlignedError{
					ExpectedSpacing: actualSpacing,
					LowRemainder:    p.TickLower % actualSpacing,
					HighRemainder:   p.TickUpper % actualSpacing,
				}
			}
		}
	}

	pm := o.registry.PositionManager(variant)
	spender := o.registry.Spender(variant)
	if err := o.ensureApproval(ctx, cfg.StableToken, spender, cfg.TotalUSD); err != nil {
		return nil, err
	}

	exec := NewBatchExecutor(o.client, o.signer, NewNonceManager(o.client, o.eoa), o.chainID, pm)
	for _, p := range plan {
		amount0, amount1, amount0Min, amount1Min := MintAmounts(orientation.Currency0 == cfg.StableToken, p.USDAmount, cfg.SlippagePercent)
		calldata, err := EncodeMintV3(MintParamsV3{
			Token0: orientation.Currency0, Token1: orientation.Currency1, Fee: cfg.FeeTier,
			TickLower: p.TickLower, TickUpper: p.TickUpper,
			Amount0Desired: amount0, Amount1Desired: amount1,
			Amount0Min: amount0Min, Amount1Min: amount1Min,
			Recipient: o.eoa, DeadlineTTL: defaultDeadlineTTL,
		})
		if err != nil {
			return nil, err
		}
		exec.AddCall(pm, calldata, false)
	}

	if _, err := exec.Simulate(ctx, o.eoa); err != nil {
		return nil, err
	}

	gasLimit := o.gas.EstimateMulticallMint(ctx, callMsg(o.eoa, pm, nil), len(plan))
	gasParams, err := BuildGasParams(ctx, o.client, gasLimit)
	if err != nil {
		return nil, err
	}

	result, err := exec.Execute(ctx, o.eoa, gasParams)
	if err != nil {
		return nil, err
	}

	positions := make([]OpenPosition, len(plan))
	for i, p := range plan {
		var tokenID *big.Int
		if i < len(result.TokenIDs) {
			tokenID = result.TokenIDs[i]
		} else {
			tokenID = big.NewInt(0)
		}
		positions[i] = OpenPosition{
			TokenID: tokenID, PoolKeyV: poolKey,
			TickLower: p.TickLower, TickUpper: p.TickUpper,
			Liquidity: p.LiquidityEstimate, Owed0: big.NewInt(0), Owed1: big.NewInt(0),
			LastSeenBlock: blockNumber, ProtocolTag: variant, Owner: o.eoa,
		}
	}
	return &CreateLadderResult{Positions: positions, TxResult: result}, nil
}

const defaultDeadlineTTL = 20 * time.Minute

func callMsg(from, to Address, data []byte) ethereum.CallMsg {
	ethTo := to.Ethereum()
	return ethereum.CallMsg{From: from.Ethereum(), To: &ethTo, Data: data}
}

func (o *Orchestrator) resolveOrientation(ctx context.Context, cfg LadderConfig) (OrientationResult, error) {
	dec0 := cfg.Token0Decimals
	dec1 := cfg.Token1Decimals
	var d0, d1 uint8
	if dec0 != nil {
		d0 = *dec0
	} else {
		info, err := o.reader.ReadTokenInfo(ctx, cfg.Token0Address)
		if err != nil {
			return OrientationResult{}, err
		}
		d0 = info.Decimals
	}
	if dec1 != nil {
		d1 = *dec1
	} else {
		info, err := o.reader.ReadTokenInfo(ctx, cfg.Token1Address)
		if err != nil {
			return OrientationResult{}, err
		}
		d1 = info.Decimals
	}

	role := RoleVolatile
	if cfg.Token0Address == cfg.StableToken {
		role = RoleStable
	}
	return ResolveOrientation(cfg.Token0Address, d0, role, cfg.Token1Address, d1)
}

func (o *Orchestrator) plan(cfg LadderConfig, orientation OrientationResult) ([]SubPosition, error) {
	if cfg.PercentFrom != nil && cfg.PercentTo != nil {
		return CalculateBidAskFromPercent(BidAskInput{
			CurrentPrice: cfg.CurrentPrice, PercentFrom: *cfg.PercentFrom, PercentTo: *cfg.PercentTo,
			TotalUSDWei: cfg.TotalUSD, N: cfg.NPositions, Fee: cfg.FeeTier,
			Shape: cfg.DistributionType, InvertPrice: orientation.InvertPrice,
			TickSpacingOverride: cfg.TickSpacingOverride, DecimalOffset: orientation.DecimalOffset,
			AllowCustomFee: cfg.AllowCustomFee,
		})
	}
	if cfg.LowerPrice == nil {
		return nil, &InvalidRangeError{Reason: "neither lower_price nor percent_from/percent_to supplied"}
	}
	return PlanLadder(LadderPlanInput{
		CurrentPrice: cfg.CurrentPrice, LimitPrice: *cfg.LowerPrice, TotalUSDWei: cfg.TotalUSD,
		N: cfg.NPositions, Fee: cfg.FeeTier, Shape: cfg.DistributionType,
		InvertPrice: orientation.InvertPrice, TickSpacingOverride: cfg.TickSpacingOverride,
		DecimalOffset: orientation.DecimalOffset, AllowCustomFee: cfg.AllowCustomFee,
	})
}

func (o *Orchestrator) checkBalances(ctx context.Context, cfg LadderConfig, plan []SubPosition) error {
	have, err := o.balances.BalanceOf(ctx, cfg.StableToken, o.eoa)
	if err != nil {
		return err
	}
	need := big.NewInt(0)
	for _, p := range plan {
		need.Add(need, p.USDAmount)
	}
	if have.Cmp(need) < 0 {
		return &InsufficientBalanceError{Token: cfg.StableToken.Hex(), Need: need.String(), Have: have.String()}
	}
	return nil
}

func (o *Orchestrator) ensureApproval(ctx context.Context, token, spender Address, amount *big.Int) error {
	allowance, err := o.balances.Allowance(ctx, token, o.eoa, spender)
	if err != nil {
		return err
	}
	if allowance.Cmp(amount) >= 0 {
		return nil
	}
	exec := NewBatchExecutor(o.client, o.signer, NewNonceManager(o.client, o.eoa), o.chainID, token)
	calldata, err := EncodeApprove(spender, MaxUint256())
	if err != nil {
		return &ApproveFailedError{Reason: err.Error()}
	}
	exec.AddCall(token, calldata, false)
	gasLimit := o.gas.Estimate(ctx, callMsg(o.eoa, token, calldata), GasApprove)
	gasParams, err := BuildGasParams(ctx, o.client, gasLimit)
	if err != nil {
		return &ApproveFailedError{Reason: err.Error()}
	}
	if _, err := exec.Execute(ctx, o.eoa, gasParams); err != nil {
		return &ApproveFailedError{Reason: err.Error()}
	}
	return nil
}

// autoCreatePool implements spec §4.H step 3's auto-create branch via
// the NFPM's createAndInitializePoolIfNecessary helper, submitted as
// its own one-call batch ahead of the mint batch.
func (o *Orchestrator) autoCreatePool(ctx context.Context, variant ProtocolVariant, key PoolKey, currentPrice float64) (Address, error) {
	sqrtPrice, err := SqrtPriceX96FromPrice(currentPrice)
	if err != nil {
		return Address{}, err
	}
	pm := o.registry.PositionManager(variant)
	calldata, err := EncodeCreateAndInitializePool(key.Currency0, key.Currency1, key.Fee, sqrtPrice)
	if err != nil {
		return Address{}, err
	}
	exec := NewBatchExecutor(o.client, o.signer, NewNonceManager(o.client, o.eoa), o.chainID, pm)
	exec.AddCall(pm, calldata, false)
	if _, err := exec.Simulate(ctx, o.eoa); err != nil {
		return Address{}, err
	}
	gasLimit := o.gas.Estimate(ctx, callMsg(o.eoa, pm, calldata), GasMintSingle)
	gasParams, err := BuildGasParams(ctx, o.client, gasLimit)
	if err != nil {
		return Address{}, err
	}
	if _, err := exec.Execute(ctx, o.eoa, gasParams); err != nil {
		return Address{}, err
	}
	factory := o.registry.Factory(variant)
	return o.reader.FindPool(ctx, factory, key.Currency0, key.Currency1, key.Fee)
}

func (o *Orchestrator) actualTickSpacing(ctx context.Context, pool Address, configFee uint32, allowCustom bool) (int32, error) {
	data := v3PoolABI.Methods["fee"].ID
	raw, err := o.reader.call(ctx, pool, data)
	if err == nil {
		if vals, uerr := v3PoolABI.Unpack("fee", raw); uerr == nil && len(vals) == 1 {
			if feeBig, ok := vals[0].(*big.Int); ok {
				poolFee := uint32(feeBig.Int64())
				if poolFee != configFee {
					o.log.WithFields(logrus.Fields{
						"pool": pool.Hex(), "config_fee": configFee, "pool_fee": poolFee,
					}).Warn("configured fee tier does not match the deployed pool; reconciling tick spacing to the pool's own fee")
					return GetTickSpacing(poolFee, allowCustom)
				}
			}
		}
	}
	return GetTickSpacing(configFee, allowCustom)
}

// ClosePositions implements spec §4.H close_positions: decrease-full +
// collect-max per position (positions are never burned), grouped per
// protocol/fork and submitted as separate atomic batches.
func (o *Orchestrator) ClosePositions(ctx context.Context, positions []OpenPosition) ([]*ExecuteResult, error) {
	groups := groupByProtocol(positions)
	var results []*ExecuteResult
	for variant, group := range groups {
		pm := o.registry.PositionManager(variant)
		exec := NewBatchExecutor(o.client, o.signer, NewNonceManager(o.client, o.eoa), o.chainID, pm)
		for _, p := range group {
			dec, err := EncodeDecreaseLiquidityV3(DecreaseLiquidityParamsV3{
				TokenID: p.TokenID, Liquidity: p.Liquidity,
				Amount0Min: big.NewInt(0), Amount1Min: big.NewInt(0), DeadlineTTL: defaultDeadlineTTL,
			})
			if err != nil {
				return results, err
			}
			exec.AddCall(pm, dec, false)
			col, err := EncodeCollectV3(CollectParamsV3{
				TokenID: p.TokenID, Recipient: o.eoa,
				Amount0Max: MaxUint128(), Amount1Max: MaxUint128(),
			})
			if err != nil {
				return results, err
			}
			exec.AddCall(pm, col, false)
		}
		if _, err := exec.Simulate(ctx, o.eoa); err != nil {
			return results, err
		}
		gasLimit := o.gas.Estimate(ctx, callMsg(o.eoa, pm, nil), GasDecreaseCollect)
		gasParams, err := BuildGasParams(ctx, o.client, gasLimit)
		if err != nil {
			return results, err
		}
		res, err := exec.Execute(ctx, o.eoa, gasParams)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

func groupByProtocol(positions []OpenPosition) map[ProtocolVariant][]OpenPosition {
	groups := make(map[ProtocolVariant][]OpenPosition)
	for _, p := range positions {
		groups[p.ProtocolTag] = append(groups[p.ProtocolTag], p)
	}
	return groups
}

// CloseAllV4InOneTx implements spec §4.H / scenario S7: a single
// modifyLiquidities call covering every given v4 position.
func (o *Orchestrator) CloseAllV4InOneTx(ctx context.Context, positions []OpenPosition, poolManager Address) (*ExecuteResult, error) {
	closes := make([]V4ClosePosition, len(positions))
	for i, p := range positions {
		closes[i] = V4ClosePosition{
			Key: p.PoolKeyV, TickLower: p.TickLower, TickUpper: p.TickUpper,
			Liquidity: p.Liquidity, Amount0Min: big.NewInt(0), Amount1Min: big.NewInt(0),
		}
	}
	blob, err := EncodeV4CloseLadder(closes, o.eoa)
	if err != nil {
		return nil, err
	}
	calldata, err := EncodeModifyLiquidities(blob, nowUnix()+int64(defaultDeadlineTTL.Seconds()))
	if err != nil {
		return nil, err
	}
	exec := NewBatchExecutor(o.client, o.signer, NewNonceManager(o.client, o.eoa), o.chainID, poolManager)
	exec.AddCall(poolManager, calldata, false)
	if _, err := exec.Simulate(ctx, o.eoa); err != nil {
		return nil, err
	}
	gasLimit := o.gas.Estimate(ctx, callMsg(o.eoa, poolManager, nil), GasDecreaseCollect)
	gasParams, err := BuildGasParams(ctx, o.client, gasLimit)
	if err != nil {
		return nil, err
	}
	return exec.Execute(ctx, o.eoa, gasParams)
}
