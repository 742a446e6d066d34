package types

import (
	"context"

	sdkmath "cosmossdk.io/math"
)

// DexHooks lets other modules observe exchange activity. A hook error aborts the
// operation that triggered it.
type DexHooks interface {
	// AfterSwap is called once per swap, with the route's first input and last output.
	AfterSwap(ctx context.Context, trader, denomIn, denomOut string, amountIn, amountOut sdkmath.Int) error

	// AfterPoolCreated is called after a pool is seeded.
	AfterPoolCreated(ctx context.Context, denom0, denom1, creator string, liquidity sdkmath.Int) error

	// AfterLiquidityChanged is called after a deposit or withdrawal. delta is the
	// liquidity minted (added) or burned (removed).
	AfterLiquidityChanged(ctx context.Context, denom0, denom1, provider string, delta sdkmath.Int, added bool) error

	// AfterOrderFilled is called for every fill between a taker and a resting order.
	AfterOrderFilled(ctx context.Context, base, quote string, takerOrderID uint64, fill Fill) error
}

// MultiDexHooks combines multiple DEX hooks into a single hook that calls all of them.
type MultiDexHooks []DexHooks

var _ DexHooks = MultiDexHooks{}

// NewMultiDexHooks creates a new MultiDexHooks from a list of hooks.
func NewMultiDexHooks(hooks ...DexHooks) MultiDexHooks {
	return hooks
}

func (h MultiDexHooks) AfterSwap(ctx context.Context, trader, denomIn, denomOut string, amountIn, amountOut sdkmath.Int) error {
	for _, hook := range h {
		if hook == nil {
			continue
		}
		if err := hook.AfterSwap(ctx, trader, denomIn, denomOut, amountIn, amountOut); err != nil {
			return err
		}
	}
	return nil
}

func (h MultiDexHooks) AfterPoolCreated(ctx context.Context, denom0, denom1, creator string, liquidity sdkmath.Int) error {
	for _, hook := range h {
		if hook == nil {
			continue
		}
		if err := hook.AfterPoolCreated(ctx, denom0, denom1, creator, liquidity); err != nil {
			return err
		}
	}
	return nil
}

func (h MultiDexHooks) AfterLiquidityChanged(ctx context.Context, denom0, denom1, provider string, delta sdkmath.Int, added bool) error {
	for _, hook := range h {
		if hook == nil {
			continue
		}
		if err := hook.AfterLiquidityChanged(ctx, denom0, denom1, provider, delta, added); err != nil {
			return err
		}
	}
	return nil
}

func (h MultiDexHooks) AfterOrderFilled(ctx context.Context, base, quote string, takerOrderID uint64, fill Fill) error {
	for _, hook := range h {
		if hook == nil {
			continue
		}
		if err := hook.AfterOrderFilled(ctx, base, quote, takerOrderID, fill); err != nil {
			return err
		}
	}
	return nil
}
