package keeper

import (
	"context"
	"fmt"
	"strings"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/dexchain/x/dex/types"
)

// SwapTokens trades amountIn of denomIn for denomOut through the direct pool or a
// single bridge hop. Each hop charges the swap fee on its input: the traded part
// enters the reserves and the fee is split between the LP fee vault and the
// protocol. The call fails if the output is below minAmountOut.
func (k Keeper) SwapTokens(
	ctx context.Context,
	trader sdk.AccAddress,
	denomIn, denomOut string,
	amountIn, minAmountOut math.Int,
) (math.Int, types.SwapRoute, error) {
	// Step 1: validate
	if err := types.ValidateAmount("amount in", amountIn); err != nil {
		return math.Int{}, types.SwapRoute{}, err
	}
	if minAmountOut.IsNil() {
		minAmountOut = math.ZeroInt()
	}
	if _, _, err := k.requireTokens(ctx, denomIn, denomOut); err != nil {
		return math.Int{}, types.SwapRoute{}, err
	}
	params, err := k.GetParams(ctx)
	if err != nil {
		return math.Int{}, types.SwapRoute{}, fmt.Errorf("SwapTokens: get params: %w", err)
	}

	// Step 2: quote the full route before moving any funds
	route, err := k.FindRoute(ctx, denomIn, denomOut)
	if err != nil {
		return math.Int{}, types.SwapRoute{}, err
	}
	quotes, err := k.quoteRoute(ctx, route, amountIn, params.SwapFeeBps)
	if err != nil {
		return math.Int{}, types.SwapRoute{}, err
	}
	amountOut := quotes[len(quotes)-1].amountOut
	if !amountOut.IsPositive() {
		return math.Int{}, types.SwapRoute{}, types.ErrInsufficientLiquidity.Wrap("swap output rounds to zero")
	}
	if amountOut.LT(minAmountOut) {
		return math.Int{}, types.SwapRoute{}, types.ErrSlippageExceeded.Wrapf("output %s below minimum %s", amountOut, minAmountOut)
	}

	// Step 3: take the input, apply every hop, pay the output
	if err := k.lockFunds(ctx, trader, denomIn, amountIn); err != nil {
		return math.Int{}, types.SwapRoute{}, err
	}
	for _, q := range quotes {
		if err := k.applyHop(ctx, trader, q, params.LPFeeShareBps); err != nil {
			return math.Int{}, types.SwapRoute{}, err
		}
	}
	if err := k.releaseFunds(ctx, trader, denomOut, amountOut); err != nil {
		return math.Int{}, types.SwapRoute{}, err
	}

	if k.metrics != nil {
		k.metrics.SwapsTotal.WithLabelValues(pairLabel(denomIn, denomOut), fmt.Sprintf("%d", len(route.Hops))).Inc()
		k.metrics.SwapVolume.WithLabelValues(denomIn).Add(intToFloat(amountIn))
	}
	if k.hooks != nil {
		if err := k.hooks.AfterSwap(ctx, trader.String(), denomIn, denomOut, amountIn, amountOut); err != nil {
			return math.Int{}, types.SwapRoute{}, err
		}
	}
	return amountOut, route, nil
}

// applyHop writes one quoted hop to its pool and checks the constant product did
// not decrease.
func (k Keeper) applyHop(ctx context.Context, trader sdk.AccAddress, q hopQuote, lpShareBps uint32) error {
	pool := q.pool
	oldK := product(pool.Amount0, pool.Amount1)

	if q.hop.DenomIn == pool.Denom0 {
		pool.Amount0 = pool.Amount0.Add(q.afterFee)
		pool.Amount1 = pool.Amount1.Sub(q.amountOut)
	} else {
		pool.Amount1 = pool.Amount1.Add(q.afterFee)
		pool.Amount0 = pool.Amount0.Sub(q.amountOut)
	}
	if !pool.Amount0.IsPositive() || !pool.Amount1.IsPositive() {
		return types.ErrInsufficientLiquidity.Wrapf("swap would drain pool %s/%s", pool.Denom0, pool.Denom1)
	}
	if newK := product(pool.Amount0, pool.Amount1); newK.Cmp(oldK) < 0 {
		return types.ErrInvariantViolation.Wrapf(
			"constant product decreased in %s/%s: old_k=%s, new_k=%s",
			pool.Denom0, pool.Denom1, oldK, newK,
		)
	}
	if err := k.collectSwapFee(&pool, q.hop.DenomIn, q.fee, lpShareBps); err != nil {
		return err
	}
	if err := k.SetPool(ctx, pool); err != nil {
		return err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeSwap,
			sdk.NewAttribute(types.AttributeKeyTrader, trader.String()),
			sdk.NewAttribute(types.AttributeKeyDenomIn, q.hop.DenomIn),
			sdk.NewAttribute(types.AttributeKeyDenomOut, q.hop.DenomOut),
			sdk.NewAttribute(types.AttributeKeyAmountIn, q.amountIn.String()),
			sdk.NewAttribute(types.AttributeKeyAmountOut, q.amountOut.String()),
			sdk.NewAttribute(types.AttributeKeyFee, q.fee.String()),
		),
	)
	if k.metrics != nil {
		k.recordReserves(pool)
	}
	return nil
}

// GetRate quotes a swap without changing state.
func (k Keeper) GetRate(ctx context.Context, denomIn, denomOut string, amountIn math.Int) (math.Int, types.SwapRoute, error) {
	if err := types.ValidateAmount("amount in", amountIn); err != nil {
		return math.Int{}, types.SwapRoute{}, err
	}
	params, err := k.GetParams(ctx)
	if err != nil {
		return math.Int{}, types.SwapRoute{}, err
	}
	route, err := k.FindRoute(ctx, denomIn, denomOut)
	if err != nil {
		return math.Int{}, types.SwapRoute{}, err
	}
	quotes, err := k.quoteRoute(ctx, route, amountIn, params.SwapFeeBps)
	if err != nil {
		return math.Int{}, types.SwapRoute{}, err
	}
	return quotes[len(quotes)-1].amountOut, route, nil
}

// SwapFeeQuote returns how much denomIn SwapFee would spend to obtain feeAmount of
// the fee denom.
func (k Keeper) SwapFeeQuote(ctx context.Context, denomIn string, feeAmount math.Int) (math.Int, types.SwapRoute, error) {
	if err := types.ValidateAmount("fee amount", feeAmount); err != nil {
		return math.Int{}, types.SwapRoute{}, err
	}
	params, err := k.GetParams(ctx)
	if err != nil {
		return math.Int{}, types.SwapRoute{}, err
	}
	if denomIn == params.FeeDenom {
		return math.Int{}, types.SwapRoute{}, types.ErrInvalidTokenPair.Wrapf("%s is already the fee denom", denomIn)
	}
	route, err := k.FindRoute(ctx, denomIn, params.FeeDenom)
	if err != nil {
		return math.Int{}, types.SwapRoute{}, err
	}
	amountIn, err := k.requiredInput(ctx, route, feeAmount, params.SwapFeeBps)
	if err != nil {
		return math.Int{}, types.SwapRoute{}, err
	}
	return amountIn, route, nil
}

// SwapFee converts just enough denomIn into the fee denom to cover feeAmount, by
// inverting the pool formula and then executing the forward swap. A positive
// maxAmountIn caps the spend.
func (k Keeper) SwapFee(ctx context.Context, trader sdk.AccAddress, denomIn string, feeAmount, maxAmountIn math.Int) (amountIn, amountOut math.Int, err error) {
	amountIn, _, err = k.SwapFeeQuote(ctx, denomIn, feeAmount)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	if !maxAmountIn.IsNil() && maxAmountIn.IsPositive() && amountIn.GT(maxAmountIn) {
		return math.Int{}, math.Int{}, types.ErrSlippageExceeded.Wrapf("fee costs %s %s, above maximum %s", amountIn, denomIn, maxAmountIn)
	}
	params, err := k.GetParams(ctx)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	amountOut, route, err := k.SwapTokens(ctx, trader, denomIn, params.FeeDenom, amountIn, feeAmount)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeSwapFee,
			sdk.NewAttribute(types.AttributeKeyTrader, trader.String()),
			sdk.NewAttribute(types.AttributeKeyDenomIn, denomIn),
			sdk.NewAttribute(types.AttributeKeyAmountIn, amountIn.String()),
			sdk.NewAttribute(types.AttributeKeyAmountOut, amountOut.String()),
			sdk.NewAttribute(types.AttributeKeyRoute, strings.Join(route.Denoms(), ">")),
		),
	)
	return amountIn, amountOut, nil
}
