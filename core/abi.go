package core

// ABI fragments for the contract surfaces this module calls (spec §6).
// Parsed once at package init; encoding/decoding goes through
// go-ethereum's accounts/abi so calldata matches the contracts' own
// Solidity ABI encoding byte-for-byte.

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const erc20ABIJSON = `[
 {"constant":true,"inputs":[],"name":"decimals","outputs":[{"name":"","type":"uint8"}],"type":"function"},
 {"constant":true,"inputs":[],"name":"symbol","outputs":[{"name":"","type":"string"}],"type":"function"},
 {"constant":true,"inputs":[],"name":"name","outputs":[{"name":"","type":"string"}],"type":"function"},
 {"constant":true,"inputs":[],"name":"totalSupply","outputs":[{"name":"","type":"uint256"}],"type":"function"},
 {"constant":true,"inputs":[{"name":"owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"type":"function"},
 {"constant":true,"inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],"name":"allowance","outputs":[{"name":"","type":"uint256"}],"type":"function"},
 {"constant":false,"inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],"name":"approve","outputs":[{"name":"","type":"bool"}],"type":"function"},
 {"anonymous":false,"inputs":[{"indexed":true,"name":"from","type":"address"},{"indexed":true,"name":"to","type":"address"},{"indexed":false,"name":"value","type":"uint256"}],"name":"Transfer","type":"event"}
]`

const v3FactoryABIJSON = `[
 {"constant":true,"inputs":[{"name":"tokenA","type":"address"},{"name":"tokenB","type":"address"},{"name":"fee","type":"uint24"}],"name":"getPool","outputs":[{"name":"pool","type":"address"}],"type":"function"},
 {"constant":false,"inputs":[{"name":"tokenA","type":"address"},{"name":"tokenB","type":"address"},{"name":"fee","type":"uint24"}],"name":"createPool","outputs":[{"name":"pool","type":"address"}],"type":"function"},
 {"constant":true,"inputs":[{"name":"fee","type":"uint24"}],"name":"feeAmountTickSpacing","outputs":[{"name":"","type":"int24"}],"type":"function"},
 {"anonymous":false,"inputs":[{"indexed":true,"name":"token0","type":"address"},{"indexed":true,"name":"token1","type":"address"},{"indexed":true,"name":"fee","type":"uint24"},{"indexed":false,"name":"tickSpacing","type":"int24"},{"indexed":false,"name":"pool","type":"address"}],"name":"PoolCreated","type":"event"}
]`

// slot0V8ABIJSON: the newer layout with feeProtocol as uint32; the same
// seven outputs as the v7 layout below, differing only in feeProtocol's width.
const slot0V8ABIJSON = `[
 {"constant":true,"inputs":[],"name":"slot0","outputs":[
   {"name":"sqrtPriceX96","type":"uint160"},
   {"name":"tick","type":"int24"},
   {"name":"observationIndex","type":"uint16"},
   {"name":"observationCardinality","type":"uint16"},
   {"name":"observationCardinalityNext","type":"uint16"},
   {"name":"feeProtocol","type":"uint32"},
   {"name":"unlocked","type":"bool"}
 ],"type":"function"}
]`

// slot0V7ABIJSON: the classic Uniswap v3 layout, feeProtocol as uint8.
const slot0V7ABIJSON = `[
 {"constant":true,"inputs":[],"name":"slot0","outputs":[
   {"name":"sqrtPriceX96","type":"uint160"},
   {"name":"tick","type":"int24"},
   {"name":"observationIndex","type":"uint16"},
   {"name":"observationCardinality","type":"uint16"},
   {"name":"observationCardinalityNext","type":"uint16"},
   {"name":"feeProtocol","type":"uint8"},
   {"name":"unlocked","type":"bool"}
 ],"type":"function"}
]`

const v3PoolABIJSON = `[
 {"constant":true,"inputs":[],"name":"liquidity","outputs":[{"name":"","type":"uint128"}],"type":"function"},
 {"constant":true,"inputs":[],"name":"token0","outputs":[{"name":"","type":"address"}],"type":"function"},
 {"constant":true,"inputs":[],"name":"token1","outputs":[{"name":"","type":"address"}],"type":"function"},
 {"constant":true,"inputs":[],"name":"fee","outputs":[{"name":"","type":"uint24"}],"type":"function"},
 {"constant":true,"inputs":[],"name":"tickSpacing","outputs":[{"name":"","type":"int24"}],"type":"function"},
 {"constant":false,"inputs":[{"name":"sqrtPriceX96","type":"uint160"}],"name":"initialize","outputs":[],"type":"function"}
]`

const nfpmABIJSON = `[
 {"inputs":[
   {"name":"token0","type":"address"},{"name":"token1","type":"address"},{"name":"fee","type":"uint24"},
   {"name":"sqrtPriceX96","type":"uint160"}
 ],"name":"createAndInitializePoolIfNecessary","outputs":[{"name":"pool","type":"address"}],"type":"function"},
 {"inputs":[{"components":[
   {"name":"token0","type":"address"},{"name":"token1","type":"address"},{"name":"fee","type":"uint24"},
   {"name":"tickLower","type":"int24"},{"name":"tickUpper","type":"int24"},
   {"name":"amount0Desired","type":"uint256"},{"name":"amount1Desired","type":"uint256"},
   {"name":"amount0Min","type":"uint256"},{"name":"amount1Min","type":"uint256"},
   {"name":"recipient","type":"address"},{"name":"deadline","type":"uint256"}
 ],"name":"params","type":"tuple"}],"name":"mint","outputs":[
   {"name":"tokenId","type":"uint256"},{"name":"liquidity","type":"uint128"},
   {"name":"amount0","type":"uint256"},{"name":"amount1","type":"uint256"}
 ],"type":"function"},
 {"inputs":[{"components":[
   {"name":"tokenId","type":"uint256"},{"name":"liquidity","type":"uint128"},
   {"name":"amount0Min","type":"uint256"},{"name":"amount1Min","type":"uint256"},
   {"name":"deadline","type":"uint256"}
 ],"name":"params","type":"tuple"}],"name":"decreaseLiquidity","outputs":[
   {"name":"amount0","type":"uint256"},{"name":"amount1","type":"uint256"}
 ],"type":"function"},
 {"inputs":[{"components":[
   {"name":"tokenId","type":"uint256"},{"name":"recipient","type":"address"},
   {"name":"amount0Max","type":"uint128"},{"name":"amount1Max","type":"uint128"}
 ],"name":"params","type":"tuple"}],"name":"collect","outputs":[
   {"name":"amount0","type":"uint256"},{"name":"amount1","type":"uint256"}
 ],"type":"function"},
 {"inputs":[{"name":"tokenId","type":"uint256"}],"name":"burn","outputs":[],"type":"function"},
 {"inputs":[{"name":"data","type":"bytes[]"}],"name":"multicall","outputs":[{"name":"results","type":"bytes[]"}],"type":"function"},
 {"inputs":[{"name":"tokenId","type":"uint256"}],"name":"positions","outputs":[
   {"name":"nonce","type":"uint96"},{"name":"operator","type":"address"},
   {"name":"token0","type":"address"},{"name":"token1","type":"address"},{"name":"fee","type":"uint24"},
   {"name":"tickLower","type":"int24"},{"name":"tickUpper","type":"int24"},
   {"name":"liquidity","type":"uint128"},
   {"name":"feeGrowthInside0LastX128","type":"uint256"},{"name":"feeGrowthInside1LastX128","type":"uint256"},
   {"name":"tokensOwed0","type":"uint128"},{"name":"tokensOwed1","type":"uint128"}
 ],"type":"function"},
 {"anonymous":false,"inputs":[{"indexed":true,"name":"tokenId","type":"uint256"},{"indexed":false,"name":"liquidity","type":"uint128"},{"indexed":false,"name":"amount0","type":"uint256"},{"indexed":false,"name":"amount1","type":"uint256"}],"name":"IncreaseLiquidity","type":"event"},
 {"anonymous":false,"inputs":[{"indexed":true,"name":"tokenId","type":"uint256"},{"indexed":false,"name":"liquidity","type":"uint128"},{"indexed":false,"name":"amount0","type":"uint256"},{"indexed":false,"name":"amount1","type":"uint256"}],"name":"DecreaseLiquidity","type":"event"},
 {"anonymous":false,"inputs":[{"indexed":true,"name":"tokenId","type":"uint256"},{"indexed":false,"name":"recipient","type":"address"},{"indexed":false,"name":"amount0","type":"uint256"},{"indexed":false,"name":"amount1","type":"uint256"}],"name":"Collect","type":"event"},
 {"anonymous":false,"inputs":[{"indexed":true,"name":"from","type":"address"},{"indexed":true,"name":"to","type":"address"},{"indexed":true,"name":"tokenId","type":"uint256"}],"name":"Transfer","type":"event"}
]`

const v4PoolManagerABIJSON = `[
 {"inputs":[{"components":[
   {"name":"currency0","type":"address"},{"name":"currency1","type":"address"},
   {"name":"fee","type":"uint24"},{"name":"tickSpacing","type":"int24"},{"name":"hooks","type":"address"}
 ],"name":"key","type":"tuple"},{"name":"sqrtPriceX96","type":"uint160"}],"name":"initialize","outputs":[{"name":"tick","type":"int24"}],"type":"function"},
 {"inputs":[{"name":"unlockData","type":"bytes"},{"name":"deadline","type":"uint256"}],"name":"modifyLiquidities","outputs":[],"type":"function"},
 {"anonymous":false,"inputs":[{"indexed":true,"name":"id","type":"bytes32"},{"indexed":false,"name":"tickLower","type":"int24"},{"indexed":false,"name":"tickUpper","type":"int24"},{"indexed":false,"name":"liquidityDelta","type":"int256"}],"name":"ModifyLiquidity","type":"event"}
]`

const v2RouterABIJSON = `[
 {"constant":true,"inputs":[{"name":"amountIn","type":"uint256"},{"name":"path","type":"address[]"}],"name":"getAmountsOut","outputs":[{"name":"amounts","type":"uint256[]"}],"type":"function"},
 {"constant":false,"inputs":[
   {"name":"amountIn","type":"uint256"},{"name":"amountOutMin","type":"uint256"},
   {"name":"path","type":"address[]"},{"name":"to","type":"address"},{"name":"deadline","type":"uint256"}
 ],"name":"swapExactTokensForTokens","outputs":[{"name":"amounts","type":"uint256[]"}],"type":"function"},
 {"constant":false,"inputs":[
   {"name":"amountIn","type":"uint256"},{"name":"amountOutMin","type":"uint256"},
   {"name":"path","type":"address[]"},{"name":"to","type":"address"},{"name":"deadline","type":"uint256"}
 ],"name":"swapExactTokensForTokensSupportingFeeOnTransferTokens","outputs":[],"type":"function"}
]`

const v3RouterABIJSON = `[
 {"inputs":[{"components":[
   {"name":"tokenIn","type":"address"},{"name":"tokenOut","type":"address"},{"name":"fee","type":"uint24"},
   {"name":"recipient","type":"address"},{"name":"deadline","type":"uint256"},
   {"name":"amountIn","type":"uint256"},{"name":"amountOutMinimum","type":"uint256"},
   {"name":"sqrtPriceLimitX96","type":"uint160"}
 ],"name":"params","type":"tuple"}],"name":"exactInputSingle","outputs":[{"name":"amountOut","type":"uint256"}],"type":"function"},
 {"inputs":[{"components":[
   {"name":"path","type":"bytes"},{"name":"recipient","type":"address"},{"name":"deadline","type":"uint256"},
   {"name":"amountIn","type":"uint256"},{"name":"amountOutMinimum","type":"uint256"}
 ],"name":"params","type":"tuple"}],"name":"exactInput","outputs":[{"name":"amountOut","type":"uint256"}],"type":"function"},
 {"inputs":[{"name":"deadline","type":"uint256"},{"name":"data","type":"bytes[]"}],"name":"multicall","outputs":[{"name":"results","type":"bytes[]"}],"type":"function"}
]`

// v3QuoterABIJSON: QuoterV2's view-compatible quote functions, called via
// eth_call rather than submitted as transactions.
const v3QuoterABIJSON = `[
 {"inputs":[{"components":[
   {"name":"tokenIn","type":"address"},{"name":"tokenOut","type":"address"},
   {"name":"amountIn","type":"uint256"},{"name":"fee","type":"uint24"},
   {"name":"sqrtPriceLimitX96","type":"uint160"}
 ],"name":"params","type":"tuple"}],"name":"quoteExactInputSingle","outputs":[
   {"name":"amountOut","type":"uint256"},{"name":"sqrtPriceX96After","type":"uint160"},
   {"name":"initializedTicksCrossed","type":"uint32"},{"name":"gasEstimate","type":"uint256"}
 ],"stateMutability":"nonpayable","type":"function"}
]`

var (
	erc20ABI        = mustParseABI(erc20ABIJSON)
	v3FactoryABI     = mustParseABI(v3FactoryABIJSON)
	slot0V8ABI       = mustParseABI(slot0V8ABIJSON)
	slot0V7ABI       = mustParseABI(slot0V7ABIJSON)
	v3PoolABI        = mustParseABI(v3PoolABIJSON)
	nfpmABI          = mustParseABI(nfpmABIJSON)
	v4PoolManagerABI = mustParseABI(v4PoolManagerABIJSON)
	v2RouterABI      = mustParseABI(v2RouterABIJSON)
	v3RouterABI      = mustParseABI(v3RouterABIJSON)
	v3QuoterABI      = mustParseABI(v3QuoterABIJSON)
)

func mustParseABI(j string) abi.ABI {
	a, err := abi.JSON(strings.NewReader(j))
	if err != nil {
		panic("core: invalid embedded ABI: " + err.Error())
	}
	return a
}
