package keeper

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/dexchain/x/dex/types"
)

// collectSwapFee splits a swap fee paid in denom. The LP share moves into the
// pool's fee vault and raises the per-share accumulator; the rest accrues to the
// protocol. Reserves are untouched.
func (k Keeper) collectSwapFee(pool *types.Pool, denom string, fee math.Int, lpShareBps uint32) error {
	if !fee.IsPositive() {
		return nil
	}
	lpFee, protocolFee, err := SplitFee(fee, lpShareBps)
	if err != nil {
		return err
	}
	perShare, err := SafeMulDiv(lpFee, feePrecision, pool.TotalLiquidity)
	if err != nil {
		return err
	}

	if denom == pool.Denom0 {
		pool.FeeVault0 = pool.FeeVault0.Add(lpFee)
		pool.AccFeePerShare0 = pool.AccFeePerShare0.Add(perShare)
		pool.ProtocolFees0 = pool.ProtocolFees0.Add(protocolFee)
	} else {
		pool.FeeVault1 = pool.FeeVault1.Add(lpFee)
		pool.AccFeePerShare1 = pool.AccFeePerShare1.Add(perShare)
		pool.ProtocolFees1 = pool.ProtocolFees1.Add(protocolFee)
	}

	if k.metrics != nil {
		k.metrics.SwapFeesCollected.WithLabelValues(denom, "lp").Add(intToFloat(lpFee))
		k.metrics.SwapFeesCollected.WithLabelValues(denom, "protocol").Add(intToFloat(protocolFee))
	}
	return nil
}

// pendingFees is what a position has earned since its checkpoint.
func pendingFees(pool types.Pool, position types.LiquidityPosition) (math.Int, math.Int, error) {
	pending0, err := SafeMulDiv(position.Liquidity, pool.AccFeePerShare0.Sub(position.FeeCheckpoint0), feePrecision)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	pending1, err := SafeMulDiv(position.Liquidity, pool.AccFeePerShare1.Sub(position.FeeCheckpoint1), feePrecision)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	return pending0, pending1, nil
}

// settlePosition moves pending fees into the position's owed balance and advances
// its checkpoint. It must run before the position's liquidity changes.
func settlePosition(pool types.Pool, position *types.LiquidityPosition) error {
	pending0, pending1, err := pendingFees(pool, *position)
	if err != nil {
		return err
	}
	position.Owed0 = position.Owed0.Add(pending0)
	position.Owed1 = position.Owed1.Add(pending1)
	position.FeeCheckpoint0 = pool.AccFeePerShare0
	position.FeeCheckpoint1 = pool.AccFeePerShare1
	return nil
}

// GetUnclaimedFees returns the fees a provider could claim now, in pool denom order.
func (k Keeper) GetUnclaimedFees(ctx context.Context, provider, tokenA, tokenB string) (types.Pool, math.Int, math.Int, error) {
	pool, err := k.GetPool(ctx, tokenA, tokenB)
	if err != nil {
		return types.Pool{}, math.Int{}, math.Int{}, err
	}
	position, found := k.GetPosition(ctx, pool.Denom0, pool.Denom1, provider)
	if !found {
		return pool, math.ZeroInt(), math.ZeroInt(), nil
	}
	pending0, pending1, err := pendingFees(pool, position)
	if err != nil {
		return types.Pool{}, math.Int{}, math.Int{}, err
	}
	return pool, position.Owed0.Add(pending0), position.Owed1.Add(pending1), nil
}

// ClaimFees pays out a provider's accrued LP fees from the pool's fee vault and
// resets the position so the same accrual is never paid twice.
func (k Keeper) ClaimFees(ctx context.Context, provider sdk.AccAddress, tokenA, tokenB string) (types.Pool, math.Int, math.Int, error) {
	pool, err := k.GetPool(ctx, tokenA, tokenB)
	if err != nil {
		return types.Pool{}, math.Int{}, math.Int{}, err
	}
	position, found := k.GetPosition(ctx, pool.Denom0, pool.Denom1, provider.String())
	if !found {
		return types.Pool{}, math.Int{}, math.Int{}, types.ErrInsufficientLiquidity.Wrapf("%s has no position in %s/%s", provider, pool.Denom0, pool.Denom1)
	}
	if err := settlePosition(pool, &position); err != nil {
		return types.Pool{}, math.Int{}, math.Int{}, err
	}

	paid0, paid1 := position.Owed0, position.Owed1
	if pool.FeeVault0, err = SafeSub(pool.FeeVault0, paid0); err != nil {
		return types.Pool{}, math.Int{}, math.Int{}, types.ErrInvariantViolation.Wrapf("fee vault %s: %v", pool.Denom0, err)
	}
	if pool.FeeVault1, err = SafeSub(pool.FeeVault1, paid1); err != nil {
		return types.Pool{}, math.Int{}, math.Int{}, types.ErrInvariantViolation.Wrapf("fee vault %s: %v", pool.Denom1, err)
	}
	position.Owed0, position.Owed1 = math.ZeroInt(), math.ZeroInt()

	if err := k.SetPool(ctx, pool); err != nil {
		return types.Pool{}, math.Int{}, math.Int{}, err
	}
	if err := k.SetPosition(ctx, position); err != nil {
		return types.Pool{}, math.Int{}, math.Int{}, err
	}
	if err := k.releaseFunds(ctx, provider, pool.Denom0, paid0); err != nil {
		return types.Pool{}, math.Int{}, math.Int{}, err
	}
	if err := k.releaseFunds(ctx, provider, pool.Denom1, paid1); err != nil {
		return types.Pool{}, math.Int{}, math.Int{}, err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeFeesClaimed,
			sdk.NewAttribute(types.AttributeKeyProvider, provider.String()),
			sdk.NewAttribute(types.AttributeKeyDenom0, pool.Denom0),
			sdk.NewAttribute(types.AttributeKeyDenom1, pool.Denom1),
			sdk.NewAttribute(types.AttributeKeyAmount0, paid0.String()),
			sdk.NewAttribute(types.AttributeKeyAmount1, paid1.String()),
		),
	)
	if k.metrics != nil && (paid0.IsPositive() || paid1.IsPositive()) {
		k.metrics.FeeClaims.WithLabelValues(pairLabel(pool.Denom0, pool.Denom1)).Inc()
	}
	return pool, paid0, paid1, nil
}

// WithdrawProtocolFees pays accrued protocol fees of one pool to recipient. Only
// the module authority may withdraw.
func (k Keeper) WithdrawProtocolFees(ctx context.Context, authority string, recipient sdk.AccAddress, tokenA, tokenB, denom string, amount math.Int) error {
	if authority != k.authority {
		return types.ErrNotAuthorized.Wrapf("expected %s, got %s", k.authority, authority)
	}
	if err := types.ValidateAmount("amount", amount); err != nil {
		return err
	}
	pool, err := k.GetPool(ctx, tokenA, tokenB)
	if err != nil {
		return err
	}

	switch denom {
	case pool.Denom0:
		if pool.ProtocolFees0, err = SafeSub(pool.ProtocolFees0, amount); err != nil {
			return types.ErrInsufficientLiquidity.Wrapf("protocol fees %s: %v", denom, err)
		}
	case pool.Denom1:
		if pool.ProtocolFees1, err = SafeSub(pool.ProtocolFees1, amount); err != nil {
			return types.ErrInsufficientLiquidity.Wrapf("protocol fees %s: %v", denom, err)
		}
	default:
		return types.ErrInvalidTokenPair.Wrapf("%s is not part of pool %s/%s", denom, pool.Denom0, pool.Denom1)
	}

	if err := k.SetPool(ctx, pool); err != nil {
		return err
	}
	if err := k.releaseFunds(ctx, recipient, denom, amount); err != nil {
		return err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeProtocolFeesWithdrawn,
			sdk.NewAttribute(types.AttributeKeyRecipient, recipient.String()),
			sdk.NewAttribute(types.AttributeKeyDenom, denom),
			sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
		),
	)
	k.Logger(ctx).Info("protocol fees withdrawn", "recipient", recipient.String(), "denom", denom, "amount", amount.String())
	if k.metrics != nil {
		k.metrics.ProtocolFeesWithdrawn.WithLabelValues(denom).Add(intToFloat(amount))
	}
	return nil
}
