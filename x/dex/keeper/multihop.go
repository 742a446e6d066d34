package keeper

import (
	"context"

	"cosmossdk.io/math"

	"github.com/paw-chain/dexchain/x/dex/types"
)

// Routing between two tokens uses the direct pool when one exists. Otherwise the
// swap may pass through exactly one intermediate "virtual" hop via the bridge
// denom, provided both legs have liquidity. Longer routes are never searched.

// FindRoute returns the hops a swap from denomIn to denomOut would take.
func (k Keeper) FindRoute(ctx context.Context, denomIn, denomOut string) (types.SwapRoute, error) {
	if denomIn == denomOut {
		return types.SwapRoute{}, types.ErrInvalidTokenPair.Wrap("cannot swap a token for itself")
	}
	if k.HasPool(ctx, denomIn, denomOut) {
		return types.SwapRoute{Hops: []types.SwapHop{{DenomIn: denomIn, DenomOut: denomOut}}}, nil
	}

	params, err := k.GetParams(ctx)
	if err != nil {
		return types.SwapRoute{}, err
	}
	bridge := params.BridgeDenom
	if denomIn != bridge && denomOut != bridge && k.HasPool(ctx, denomIn, bridge) && k.HasPool(ctx, bridge, denomOut) {
		return types.SwapRoute{Hops: []types.SwapHop{
			{DenomIn: denomIn, DenomOut: bridge},
			{DenomIn: bridge, DenomOut: denomOut},
		}}, nil
	}
	return types.SwapRoute{}, types.ErrPoolNotFound.Wrapf("no direct pool or %s bridge route for %s/%s", bridge, denomIn, denomOut)
}

// hopQuote is the outcome of trading through one pool.
type hopQuote struct {
	pool      types.Pool
	hop       types.SwapHop
	amountIn  math.Int
	afterFee  math.Int
	fee       math.Int
	amountOut math.Int
}

// quoteHop evaluates the constant-product formula for one pool without mutating it.
func quoteHop(pool types.Pool, hop types.SwapHop, amountIn math.Int, feeBps uint32) (hopQuote, error) {
	afterFee, fee, err := ApplySwapFee(amountIn, feeBps)
	if err != nil {
		return hopQuote{}, err
	}
	reserveIn, reserveOut := pool.Reserves(hop.DenomIn)
	amountOut, err := ConstantProductOut(reserveIn, reserveOut, afterFee)
	if err != nil {
		return hopQuote{}, err
	}
	return hopQuote{
		pool:      pool,
		hop:       hop,
		amountIn:  amountIn,
		afterFee:  afterFee,
		fee:       fee,
		amountOut: amountOut,
	}, nil
}

// quoteRoute chains hop quotes along a route.
func (k Keeper) quoteRoute(ctx context.Context, route types.SwapRoute, amountIn math.Int, feeBps uint32) ([]hopQuote, error) {
	quotes := make([]hopQuote, 0, len(route.Hops))
	next := amountIn
	for _, hop := range route.Hops {
		pool, err := k.getActivePool(ctx, hop.DenomIn, hop.DenomOut)
		if err != nil {
			return nil, err
		}
		q, err := quoteHop(pool, hop, next, feeBps)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, q)
		next = q.amountOut
	}
	return quotes, nil
}

// requiredInput walks a route backwards and returns the smallest input whose
// forward quote yields at least amountOut.
func (k Keeper) requiredInput(ctx context.Context, route types.SwapRoute, amountOut math.Int, feeBps uint32) (math.Int, error) {
	needed := amountOut
	for i := len(route.Hops) - 1; i >= 0; i-- {
		hop := route.Hops[i]
		pool, err := k.getActivePool(ctx, hop.DenomIn, hop.DenomOut)
		if err != nil {
			return math.Int{}, err
		}
		reserveIn, reserveOut := pool.Reserves(hop.DenomIn)
		afterFee, err := ConstantProductIn(reserveIn, reserveOut, needed)
		if err != nil {
			return math.Int{}, err
		}
		if needed, err = GrossUpForFee(afterFee, feeBps); err != nil {
			return math.Int{}, err
		}
	}
	return needed, nil
}
