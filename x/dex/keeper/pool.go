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

// CreatePool seeds a constant-product pool for a token pair and mints the
// creator's initial liquidity as the integer square root of the two deposits.
func (k Keeper) CreatePool(ctx context.Context, creator sdk.AccAddress, tokenA, tokenB string, amountA, amountB math.Int) (types.Pool, math.Int, error) {
	// 1. Input validation
	if err := types.ValidateAmount("amount a", amountA); err != nil {
		return types.Pool{}, math.Int{}, err
	}
	if err := types.ValidateAmount("amount b", amountB); err != nil {
		return types.Pool{}, math.Int{}, err
	}
	if _, _, err := k.requireTokens(ctx, tokenA, tokenB); err != nil {
		return types.Pool{}, math.Int{}, err
	}

	// 2. Canonical ordering
	if tokenA > tokenB {
		tokenA, tokenB = tokenB, tokenA
		amountA, amountB = amountB, amountA
	}

	// 3. One pool per pair
	if k.HasPool(ctx, tokenA, tokenB) {
		return types.Pool{}, math.Int{}, types.ErrPoolAlreadyExists.Wrapf("pool already exists for token pair %s/%s", tokenA, tokenB)
	}

	params, err := k.GetParams(ctx)
	if err != nil {
		return types.Pool{}, math.Int{}, fmt.Errorf("CreatePool: get params: %w", err)
	}

	// 4. Initial shares: floor(sqrt(a * b))
	liquidity, err := IntSqrt(amountA, amountB)
	if err != nil {
		return types.Pool{}, math.Int{}, err
	}
	if err := CheckMinimum("initial liquidity", liquidity, params.MinInitialLiquidity); err != nil {
		return types.Pool{}, math.Int{}, err
	}

	// 5. Lock both deposits
	if err := k.lockFunds(ctx, creator, tokenA, amountA); err != nil {
		return types.Pool{}, math.Int{}, err
	}
	if err := k.lockFunds(ctx, creator, tokenB, amountB); err != nil {
		return types.Pool{}, math.Int{}, err
	}

	// 6. Persist pool and creator position
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	pool := types.NewPool(tokenA, tokenB)
	pool.Amount0 = amountA
	pool.Amount1 = amountB
	pool.TotalLiquidity = liquidity
	pool.CreatedHeight = sdkCtx.BlockHeight()
	if err := k.SetPool(ctx, pool); err != nil {
		return types.Pool{}, math.Int{}, fmt.Errorf("CreatePool: save pool: %w", err)
	}

	position := types.NewLiquidityPosition(creator.String(), pool)
	position.Liquidity = liquidity
	position.Amount0 = amountA
	position.Amount1 = amountB
	if err := k.SetPosition(ctx, position); err != nil {
		return types.Pool{}, math.Int{}, fmt.Errorf("CreatePool: save position: %w", err)
	}

	sdkCtx.EventManager().EmitEvents(sdk.Events{
		sdk.NewEvent(
			types.EventTypePoolCreated,
			sdk.NewAttribute(types.AttributeKeyCreator, creator.String()),
			sdk.NewAttribute(types.AttributeKeyDenom0, pool.Denom0),
			sdk.NewAttribute(types.AttributeKeyDenom1, pool.Denom1),
			sdk.NewAttribute(types.AttributeKeyAmount0, amountA.String()),
			sdk.NewAttribute(types.AttributeKeyAmount1, amountB.String()),
			sdk.NewAttribute(types.AttributeKeyLiquidity, liquidity.String()),
		),
		sdk.NewEvent(
			sdk.EventTypeMessage,
			sdk.NewAttribute(sdk.AttributeKeyModule, types.ModuleName),
			sdk.NewAttribute(sdk.AttributeKeySender, creator.String()),
		),
	})
	k.Logger(ctx).Info("pool created", "denom0", pool.Denom0, "denom1", pool.Denom1, "liquidity", liquidity.String())
	if k.metrics != nil {
		k.metrics.PoolCreationRate.Inc()
		k.metrics.PoolsTotal.Inc()
		k.recordReserves(pool)
	}
	if k.hooks != nil {
		if err := k.hooks.AfterPoolCreated(ctx, pool.Denom0, pool.Denom1, creator.String(), liquidity); err != nil {
			return types.Pool{}, math.Int{}, err
		}
	}
	return pool, liquidity, nil
}

// GetPool returns the pool for a token pair in either order.
func (k Keeper) GetPool(ctx context.Context, tokenA, tokenB string) (types.Pool, error) {
	bz := k.getStore(ctx).Get(PoolKey(tokenA, tokenB))
	if bz == nil {
		return types.Pool{}, types.ErrPoolNotFound.Wrapf("pool %s/%s", tokenA, tokenB)
	}
	var pool types.Pool
	if err := json.Unmarshal(bz, &pool); err != nil {
		return types.Pool{}, types.ErrInvalidState.Wrapf("failed to unmarshal pool: %v", err)
	}
	return pool, nil
}

// HasPool reports whether a pool exists for the pair.
func (k Keeper) HasPool(ctx context.Context, tokenA, tokenB string) bool {
	return k.getStore(ctx).Has(PoolKey(tokenA, tokenB))
}

// SetPool stores a pool under its canonical pair key.
func (k Keeper) SetPool(ctx context.Context, pool types.Pool) error {
	if pool.Denom0 >= pool.Denom1 {
		return types.ErrInvalidState.Wrapf("pool denoms %s/%s are not in canonical order", pool.Denom0, pool.Denom1)
	}
	bz, err := json.Marshal(pool)
	if err != nil {
		return types.ErrInvalidState.Wrapf("failed to marshal pool: %v", err)
	}
	k.getStore(ctx).Set(PoolKey(pool.Denom0, pool.Denom1), bz)
	return nil
}

// IteratePools iterates over all pools in canonical pair order.
func (k Keeper) IteratePools(ctx context.Context, cb func(pool types.Pool) (stop bool)) error {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), PoolKeyPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var pool types.Pool
		if err := json.Unmarshal(iterator.Value(), &pool); err != nil {
			return types.ErrInvalidState.Wrapf("failed to unmarshal pool: %v", err)
		}
		if cb(pool) {
			return nil
		}
	}
	return nil
}

// GetAllPools returns all pools
func (k Keeper) GetAllPools(ctx context.Context) ([]types.Pool, error) {
	var pools []types.Pool
	err := k.IteratePools(ctx, func(pool types.Pool) bool {
		pools = append(pools, pool)
		return false
	})
	return pools, err
}

// getActivePool returns a pool that holds reserves.
func (k Keeper) getActivePool(ctx context.Context, tokenA, tokenB string) (types.Pool, error) {
	pool, err := k.GetPool(ctx, tokenA, tokenB)
	if err != nil {
		return types.Pool{}, err
	}
	if pool.IsEmpty() {
		return types.Pool{}, types.ErrInsufficientLiquidity.Wrapf("pool %s/%s has no liquidity", pool.Denom0, pool.Denom1)
	}
	return pool, nil
}

func (k Keeper) recordReserves(pool types.Pool) {
	pair := pairLabel(pool.Denom0, pool.Denom1)
	k.metrics.PoolReserves.WithLabelValues(pair, pool.Denom0).Set(intToFloat(pool.Amount0))
	k.metrics.PoolReserves.WithLabelValues(pair, pool.Denom1).Set(intToFloat(pool.Amount1))
}
