// Package keeper implements the DEX (Decentralized Exchange) module keeper.
//
// The DEX module provides three engines that share one escrow account and one
// set of settlement rules: a price-time-priority order book, an OTC escrow
// desk and constant-product AMM pools. All arithmetic is exact integer math on
// math.Int; nothing depends on wall-clock time or map iteration order.
//
// # Core Functionality
//
// Order Book: Limit orders match against the opposite side at the maker's
// price, best price first and oldest first within a price. Unfilled limit
// remainders rest on the book unless immediate-or-cancel is set. Market orders
// sweep the book and never rest.
//
// OTC: A creator escrows a quote amount and names the base amount wanted in
// return. A taker fills the whole order in one call.
//
// Liquidity Pools: One pool per unordered token pair. Liquidity is minted
// pro-rata on deposit and burned on withdrawal. Swap fees accrue to a per-pool
// vault; providers claim their share through a fee-per-share accumulator.
//
// Token Swaps: Swaps use the constant-product formula (x * y = k), either
// directly or through one hop via the bridge denom.
//
// # Key Types
//
// Keeper: Main module keeper managing state and bank operations.
//
// Pool: Reserves, total liquidity, fee accumulators and protocol fees.
//
// ExchangeOrder: A resting limit order with its remaining quantity and escrow.
//
// # Usage Patterns
//
// Creating a pool:
//
//	pool, liquidity, err := keeper.CreatePool(ctx, creator, "tokenA", "tokenB", amountA, amountB)
//
// Executing a swap:
//
//	amountOut, route, err := keeper.SwapTokens(ctx, trader, tokenIn, tokenOut, amountIn, minAmountOut)
//
// Placing a limit order:
//
//	result, err := keeper.OpenLimitOrder(ctx, creator, base, quote, types.OrderSideBuy, amount, price, false)
//
// # Metrics
//
// The keeper exposes Prometheus metrics for orders, fills, swaps, pools and
// liquidity changes via DEXMetrics. Metrics never influence state.
package keeper
