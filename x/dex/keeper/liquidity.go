package keeper

import (
	"context"
	"encoding/json"
	"fmt"

	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/dexchain/x/dex/types"
)

// GetPosition retrieves a provider's liquidity position in a pool.
func (k Keeper) GetPosition(ctx context.Context, tokenA, tokenB, provider string) (types.LiquidityPosition, bool) {
	bz := k.getStore(ctx).Get(PositionKey(tokenA, tokenB, provider))
	if bz == nil {
		return types.LiquidityPosition{}, false
	}
	var position types.LiquidityPosition
	if err := json.Unmarshal(bz, &position); err != nil {
		return types.LiquidityPosition{}, false
	}
	return position, true
}

// GetLiquidityPosition returns a provider's position or ErrInsufficientLiquidity
// when the provider holds none.
func (k Keeper) GetLiquidityPosition(ctx context.Context, tokenA, tokenB, provider string) (types.LiquidityPosition, error) {
	position, found := k.GetPosition(ctx, tokenA, tokenB, provider)
	if !found {
		return types.LiquidityPosition{}, types.ErrInsufficientLiquidity.Wrapf("%s has no position in %s/%s", provider, tokenA, tokenB)
	}
	return position, nil
}

// SetPosition stores a position. A position with no liquidity and nothing owed
// is deleted.
func (k Keeper) SetPosition(ctx context.Context, position types.LiquidityPosition) error {
	store := k.getStore(ctx)
	key := PositionKey(position.Denom0, position.Denom1, position.Provider)
	if position.Liquidity.IsZero() && position.Owed0.IsZero() && position.Owed1.IsZero() {
		store.Delete(key)
		return nil
	}
	bz, err := json.Marshal(position)
	if err != nil {
		return types.ErrInvalidState.Wrapf("failed to marshal position: %v", err)
	}
	store.Set(key, bz)
	return nil
}

// IteratePositionsByPool walks every position in one pool in provider order.
func (k Keeper) IteratePositionsByPool(ctx context.Context, tokenA, tokenB string, cb func(types.LiquidityPosition) (stop bool)) error {
	return k.iteratePositions(ctx, PositionKeyByPoolPrefix(tokenA, tokenB), cb)
}

// GetAllPositions returns every liquidity position.
func (k Keeper) GetAllPositions(ctx context.Context) ([]types.LiquidityPosition, error) {
	var positions []types.LiquidityPosition
	err := k.iteratePositions(ctx, PositionKeyPrefix, func(p types.LiquidityPosition) bool {
		positions = append(positions, p)
		return false
	})
	return positions, err
}

func (k Keeper) iteratePositions(ctx context.Context, prefix []byte, cb func(types.LiquidityPosition) bool) error {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), prefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var position types.LiquidityPosition
		if err := json.Unmarshal(iterator.Value(), &position); err != nil {
			return types.ErrInvalidState.Wrapf("failed to unmarshal position: %v", err)
		}
		if cb(position) {
			return nil
		}
	}
	return nil
}

// AddLiquidity deposits into an existing pool. When one amount is zero it is
// derived from the pool's current ratio, rounding down. When both are given the
// deposit is trimmed to the pool ratio so no excess is donated. Minted liquidity
// is the smaller pro-rata share of the two sides.
func (k Keeper) AddLiquidity(
	ctx context.Context,
	provider sdk.AccAddress,
	tokenA string, amountA math.Int,
	tokenB string, amountB math.Int,
) (usedA, usedB, minted math.Int, err error) {
	if amountA.IsNil() {
		amountA = math.ZeroInt()
	}
	if amountB.IsNil() {
		amountB = math.ZeroInt()
	}
	if err := types.ValidateOptionalAmount("amount a", amountA); err != nil {
		return math.Int{}, math.Int{}, math.Int{}, err
	}
	if err := types.ValidateOptionalAmount("amount b", amountB); err != nil {
		return math.Int{}, math.Int{}, math.Int{}, err
	}
	if amountA.IsZero() && amountB.IsZero() {
		return math.Int{}, math.Int{}, math.Int{}, types.ErrInvalidAmount.Wrap("at least one amount must be positive")
	}

	pool, err := k.GetPool(ctx, tokenA, tokenB)
	if err != nil {
		return math.Int{}, math.Int{}, math.Int{}, err
	}
	amount0, amount1 := amountA, amountB
	if tokenA != pool.Denom0 {
		amount0, amount1 = amountB, amountA
	}

	params, err := k.GetParams(ctx)
	if err != nil {
		return math.Int{}, math.Int{}, math.Int{}, fmt.Errorf("AddLiquidity: get params: %w", err)
	}

	if pool.IsEmpty() {
		// A drained pool is re-seeded like a new one.
		if !amount0.IsPositive() || !amount1.IsPositive() {
			return math.Int{}, math.Int{}, math.Int{}, types.ErrInvalidAmount.Wrap("both amounts are required to seed an empty pool")
		}
		if minted, err = IntSqrt(amount0, amount1); err != nil {
			return math.Int{}, math.Int{}, math.Int{}, err
		}
		if err := CheckMinimum("initial liquidity", minted, params.MinInitialLiquidity); err != nil {
			return math.Int{}, math.Int{}, math.Int{}, err
		}
	} else {
		if amount0, amount1, err = optimalDeposit(pool, amount0, amount1); err != nil {
			return math.Int{}, math.Int{}, math.Int{}, err
		}
		share0, err := SafeMulDiv(amount0, pool.TotalLiquidity, pool.Amount0)
		if err != nil {
			return math.Int{}, math.Int{}, math.Int{}, err
		}
		share1, err := SafeMulDiv(amount1, pool.TotalLiquidity, pool.Amount1)
		if err != nil {
			return math.Int{}, math.Int{}, math.Int{}, err
		}
		minted = math.MinInt(share0, share1)
	}
	if !minted.IsPositive() {
		return math.Int{}, math.Int{}, math.Int{}, types.ErrBelowMinimumQuantity.Wrap("deposit too small to mint liquidity")
	}

	if err := k.lockFunds(ctx, provider, pool.Denom0, amount0); err != nil {
		return math.Int{}, math.Int{}, math.Int{}, err
	}
	if err := k.lockFunds(ctx, provider, pool.Denom1, amount1); err != nil {
		return math.Int{}, math.Int{}, math.Int{}, err
	}

	position, found := k.GetPosition(ctx, pool.Denom0, pool.Denom1, provider.String())
	if !found {
		position = types.NewLiquidityPosition(provider.String(), pool)
	}
	if err := settlePosition(pool, &position); err != nil {
		return math.Int{}, math.Int{}, math.Int{}, err
	}

	pool.Amount0 = pool.Amount0.Add(amount0)
	pool.Amount1 = pool.Amount1.Add(amount1)
	pool.TotalLiquidity = pool.TotalLiquidity.Add(minted)
	position.Liquidity = position.Liquidity.Add(minted)
	if err := refreshPositionClaim(pool, &position); err != nil {
		return math.Int{}, math.Int{}, math.Int{}, err
	}

	if err := k.SetPool(ctx, pool); err != nil {
		return math.Int{}, math.Int{}, math.Int{}, err
	}
	if err := k.SetPosition(ctx, position); err != nil {
		return math.Int{}, math.Int{}, math.Int{}, err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeLiquidityAdded,
			sdk.NewAttribute(types.AttributeKeyProvider, provider.String()),
			sdk.NewAttribute(types.AttributeKeyDenom0, pool.Denom0),
			sdk.NewAttribute(types.AttributeKeyDenom1, pool.Denom1),
			sdk.NewAttribute(types.AttributeKeyAmount0, amount0.String()),
			sdk.NewAttribute(types.AttributeKeyAmount1, amount1.String()),
			sdk.NewAttribute(types.AttributeKeyLiquidity, minted.String()),
		),
	)
	if k.metrics != nil {
		k.metrics.LiquidityAdded.WithLabelValues(pairLabel(pool.Denom0, pool.Denom1)).Inc()
		k.recordReserves(pool)
	}
	if k.hooks != nil {
		if err := k.hooks.AfterLiquidityChanged(ctx, pool.Denom0, pool.Denom1, provider.String(), minted, true); err != nil {
			return math.Int{}, math.Int{}, math.Int{}, err
		}
	}

	if tokenA == pool.Denom0 {
		return amount0, amount1, minted, nil
	}
	return amount1, amount0, minted, nil
}

// optimalDeposit fills in or trims a deposit to the pool's reserve ratio.
func optimalDeposit(pool types.Pool, amount0, amount1 math.Int) (math.Int, math.Int, error) {
	switch {
	case amount1.IsZero():
		derived, err := SafeMulDiv(amount0, pool.Amount1, pool.Amount0)
		return amount0, derived, err
	case amount0.IsZero():
		derived, err := SafeMulDiv(amount1, pool.Amount0, pool.Amount1)
		return derived, amount1, err
	}

	optimal1, err := SafeMulDiv(amount0, pool.Amount1, pool.Amount0)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	if optimal1.LTE(amount1) {
		return amount0, optimal1, nil
	}
	optimal0, err := SafeMulDiv(amount1, pool.Amount0, pool.Amount1)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	return optimal0, amount1, nil
}

// RemoveLiquidity withdraws amountA of tokenA from the provider's position, and
// the proportional amount of tokenB. The liquidity burned is the smallest share
// count covering amountA, capped at the position. A positive minAmountB rejects
// withdrawals paying less tokenB.
func (k Keeper) RemoveLiquidity(
	ctx context.Context,
	provider sdk.AccAddress,
	tokenA string, amountA math.Int,
	tokenB string, minAmountB math.Int,
) (outA, outB, burned math.Int, err error) {
	if err := types.ValidateAmount("amount a", amountA); err != nil {
		return math.Int{}, math.Int{}, math.Int{}, err
	}
	if minAmountB.IsNil() {
		minAmountB = math.ZeroInt()
	}

	pool, err := k.GetPool(ctx, tokenA, tokenB)
	if err != nil {
		return math.Int{}, math.Int{}, math.Int{}, err
	}
	position, found := k.GetPosition(ctx, pool.Denom0, pool.Denom1, provider.String())
	if !found || position.Liquidity.IsZero() || pool.IsEmpty() {
		return math.Int{}, math.Int{}, math.Int{}, types.ErrInsufficientLiquidity.Wrapf("%s has no liquidity in %s/%s", provider, pool.Denom0, pool.Denom1)
	}

	reserveA, reserveB := pool.Reserves(tokenA)
	entitlement, err := SafeMulDiv(position.Liquidity, reserveA, pool.TotalLiquidity)
	if err != nil {
		return math.Int{}, math.Int{}, math.Int{}, err
	}
	if amountA.GT(entitlement) {
		return math.Int{}, math.Int{}, math.Int{}, types.ErrInsufficientLiquidity.Wrapf("requested %s %s but position is entitled to %s", amountA, tokenA, entitlement)
	}

	burned, err = SafeMulDivCeil(amountA, pool.TotalLiquidity, reserveA)
	if err != nil {
		return math.Int{}, math.Int{}, math.Int{}, err
	}
	burned = math.MinInt(burned, position.Liquidity)
	if outA, err = SafeMulDiv(burned, reserveA, pool.TotalLiquidity); err != nil {
		return math.Int{}, math.Int{}, math.Int{}, err
	}
	if outB, err = SafeMulDiv(burned, reserveB, pool.TotalLiquidity); err != nil {
		return math.Int{}, math.Int{}, math.Int{}, err
	}
	if outB.LT(minAmountB) {
		return math.Int{}, math.Int{}, math.Int{}, types.ErrSlippageExceeded.Wrapf("%s %s is below minimum %s", outB, tokenB, minAmountB)
	}

	if err := settlePosition(pool, &position); err != nil {
		return math.Int{}, math.Int{}, math.Int{}, err
	}

	out0, out1 := outA, outB
	if tokenA != pool.Denom0 {
		out0, out1 = outB, outA
	}
	pool.Amount0 = pool.Amount0.Sub(out0)
	pool.Amount1 = pool.Amount1.Sub(out1)
	pool.TotalLiquidity = pool.TotalLiquidity.Sub(burned)
	position.Liquidity = position.Liquidity.Sub(burned)
	if err := refreshPositionClaim(pool, &position); err != nil {
		return math.Int{}, math.Int{}, math.Int{}, err
	}

	if err := k.SetPool(ctx, pool); err != nil {
		return math.Int{}, math.Int{}, math.Int{}, err
	}
	if err := k.SetPosition(ctx, position); err != nil {
		return math.Int{}, math.Int{}, math.Int{}, err
	}
	if err := k.releaseFunds(ctx, provider, pool.Denom0, out0); err != nil {
		return math.Int{}, math.Int{}, math.Int{}, err
	}
	if err := k.releaseFunds(ctx, provider, pool.Denom1, out1); err != nil {
		return math.Int{}, math.Int{}, math.Int{}, err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeLiquidityRemoved,
			sdk.NewAttribute(types.AttributeKeyProvider, provider.String()),
			sdk.NewAttribute(types.AttributeKeyDenom0, pool.Denom0),
			sdk.NewAttribute(types.AttributeKeyDenom1, pool.Denom1),
			sdk.NewAttribute(types.AttributeKeyAmount0, out0.String()),
			sdk.NewAttribute(types.AttributeKeyAmount1, out1.String()),
			sdk.NewAttribute(types.AttributeKeyLiquidity, burned.String()),
		),
	)
	if k.metrics != nil {
		k.metrics.LiquidityRemoved.WithLabelValues(pairLabel(pool.Denom0, pool.Denom1)).Inc()
		k.recordReserves(pool)
	}
	if k.hooks != nil {
		if err := k.hooks.AfterLiquidityChanged(ctx, pool.Denom0, pool.Denom1, provider.String(), burned, false); err != nil {
			return math.Int{}, math.Int{}, math.Int{}, err
		}
	}
	return outA, outB, burned, nil
}

// refreshPositionClaim recomputes the reserves a position can currently redeem.
func refreshPositionClaim(pool types.Pool, position *types.LiquidityPosition) error {
	if pool.TotalLiquidity.IsZero() {
		position.Amount0, position.Amount1 = math.ZeroInt(), math.ZeroInt()
		return nil
	}
	var err error
	if position.Amount0, err = SafeMulDiv(position.Liquidity, pool.Amount0, pool.TotalLiquidity); err != nil {
		return err
	}
	position.Amount1, err = SafeMulDiv(position.Liquidity, pool.Amount1, pool.TotalLiquidity)
	return err
}
