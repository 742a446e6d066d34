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

// OpenOTCOrder escrows amount of quote from the creator and records an offer to
// exchange it for price of base. No matching takes place.
func (k Keeper) OpenOTCOrder(ctx context.Context, creator sdk.AccAddress, base, quote string, amount, price math.Int) (types.OTCOrder, error) {
	if err := types.ValidateAmount("amount", amount); err != nil {
		return types.OTCOrder{}, err
	}
	if err := types.ValidatePrice(price); err != nil {
		return types.OTCOrder{}, err
	}
	if _, _, err := k.requireTokens(ctx, base, quote); err != nil {
		return types.OTCOrder{}, err
	}
	params, err := k.GetParams(ctx)
	if err != nil {
		return types.OTCOrder{}, err
	}
	if err := CheckMinimum("amount", amount, params.MinOrderNotional); err != nil {
		return types.OTCOrder{}, err
	}
	if err := CheckMinimum("price", price, params.MinOrderAmount); err != nil {
		return types.OTCOrder{}, err
	}

	if err := k.lockFunds(ctx, creator, quote, amount); err != nil {
		return types.OTCOrder{}, err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	order := types.OTCOrder{
		UID:        k.nextOrderUID(ctx),
		Creator:    creator.String(),
		BaseDenom:  base,
		QuoteDenom: quote,
		Amount:     amount,
		Price:      price,
		Timestamp:  sdkCtx.BlockTime().Unix(),
		Height:     sdkCtx.BlockHeight(),
	}
	if err := k.SetOTCOrder(ctx, order); err != nil {
		return types.OTCOrder{}, err
	}

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeOTCOrderCreated,
			sdk.NewAttribute(types.AttributeKeyOrderID, fmt.Sprintf("%d", order.UID)),
			sdk.NewAttribute(types.AttributeKeyCreator, order.Creator),
			sdk.NewAttribute(types.AttributeKeyBaseDenom, base),
			sdk.NewAttribute(types.AttributeKeyQuoteDenom, quote),
			sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
			sdk.NewAttribute(types.AttributeKeyPrice, price.String()),
		),
	)
	k.recordOTC(order, "created")
	return order, nil
}

// TakeOTCOrder settles an OTC order in full: the taker pays price of base to the
// creator and receives the escrowed quote.
func (k Keeper) TakeOTCOrder(ctx context.Context, taker sdk.AccAddress, uid uint64) (types.OTCOrder, error) {
	order, err := k.GetOTCOrder(ctx, uid)
	if err != nil {
		return types.OTCOrder{}, err
	}
	creator, err := sdk.AccAddressFromBech32(order.Creator)
	if err != nil {
		return types.OTCOrder{}, types.ErrInvalidAddress.Wrap(err.Error())
	}

	k.deleteOTCOrder(ctx, uid)
	if err := k.transferFunds(ctx, taker, creator, order.BaseDenom, order.Price); err != nil {
		return types.OTCOrder{}, err
	}
	if err := k.releaseFunds(ctx, taker, order.QuoteDenom, order.Amount); err != nil {
		return types.OTCOrder{}, err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeOTCOrderTaken,
			sdk.NewAttribute(types.AttributeKeyOrderID, fmt.Sprintf("%d", uid)),
			sdk.NewAttribute(types.AttributeKeyCreator, order.Creator),
			sdk.NewAttribute(types.AttributeKeyTaker, taker.String()),
			sdk.NewAttribute(types.AttributeKeyAmount, order.Amount.String()),
			sdk.NewAttribute(types.AttributeKeyPrice, order.Price.String()),
		),
	)
	k.recordOTC(order, "taken")
	return order, nil
}

// CancelOTCOrder returns the escrow to the creator. Only the creator may cancel.
func (k Keeper) CancelOTCOrder(ctx context.Context, creator sdk.AccAddress, uid uint64) (math.Int, error) {
	order, err := k.GetOTCOrder(ctx, uid)
	if err != nil {
		return math.Int{}, err
	}
	if order.Creator != creator.String() {
		return math.Int{}, types.ErrNotAuthorized.Wrapf("otc order %d belongs to %s", uid, order.Creator)
	}

	k.deleteOTCOrder(ctx, uid)
	if err := k.releaseFunds(ctx, creator, order.QuoteDenom, order.Amount); err != nil {
		return math.Int{}, err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeOTCOrderCancelled,
			sdk.NewAttribute(types.AttributeKeyOrderID, fmt.Sprintf("%d", uid)),
			sdk.NewAttribute(types.AttributeKeyCreator, order.Creator),
			sdk.NewAttribute(types.AttributeKeyRefunded, order.Amount.String()),
		),
	)
	k.recordOTC(order, "cancelled")
	return order.Amount, nil
}

// SetOTCOrder stores an OTC order.
func (k Keeper) SetOTCOrder(ctx context.Context, order types.OTCOrder) error {
	bz, err := json.Marshal(order)
	if err != nil {
		return types.ErrInvalidState.Wrapf("failed to marshal otc order: %v", err)
	}
	k.getStore(ctx).Set(OTCOrderKey(order.UID), bz)
	return nil
}

// GetOTCOrder returns an open OTC order.
func (k Keeper) GetOTCOrder(ctx context.Context, uid uint64) (types.OTCOrder, error) {
	bz := k.getStore(ctx).Get(OTCOrderKey(uid))
	if bz == nil {
		return types.OTCOrder{}, types.ErrOrderNotFound.Wrapf("otc order %d", uid)
	}
	var order types.OTCOrder
	if err := json.Unmarshal(bz, &order); err != nil {
		return types.OTCOrder{}, types.ErrInvalidState.Wrapf("failed to unmarshal otc order %d: %v", uid, err)
	}
	return order, nil
}

func (k Keeper) deleteOTCOrder(ctx context.Context, uid uint64) {
	k.getStore(ctx).Delete(OTCOrderKey(uid))
}

// GetOTCOrders returns every open OTC order in uid order.
func (k Keeper) GetOTCOrders(ctx context.Context) ([]types.OTCOrder, error) {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), OTCOrderKeyPrefix)
	defer iterator.Close()

	var orders []types.OTCOrder
	for ; iterator.Valid(); iterator.Next() {
		var order types.OTCOrder
		if err := json.Unmarshal(iterator.Value(), &order); err != nil {
			return nil, types.ErrInvalidState.Wrapf("failed to unmarshal otc order: %v", err)
		}
		orders = append(orders, order)
	}
	return orders, nil
}

func (k Keeper) recordOTC(order types.OTCOrder, event string) {
	if k.metrics != nil {
		k.metrics.OTCOrders.WithLabelValues(pairLabel(order.BaseDenom, order.QuoteDenom), event).Inc()
	}
}
