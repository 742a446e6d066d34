package keeper

import (
	"context"
	"encoding/json"

	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	"github.com/google/orderedcode"

	"github.com/paw-chain/dexchain/x/dex/types"
)

// SetOrder stores an exchange order and refreshes its book and creator indexes.
// Only resting orders are stored; an order with nothing left is rejected.
func (k Keeper) SetOrder(ctx context.Context, order types.ExchangeOrder) error {
	if !order.RemainingAmount.IsPositive() {
		return types.ErrInvariantViolation.Wrapf("order %d has no remaining amount", order.UID)
	}
	store := k.getStore(ctx)

	bz, err := json.Marshal(order)
	if err != nil {
		return types.ErrInvalidState.Wrapf("failed to marshal order: %v", err)
	}

	store.Set(OrderKey(order.UID), bz)
	store.Set(BookKey(order), uidBytes(order.UID))
	store.Set(OrderByCreatorKey(order.Creator, order.UID), uidBytes(order.UID))
	return nil
}

// GetOrder returns a resting exchange order.
func (k Keeper) GetOrder(ctx context.Context, uid uint64) (types.ExchangeOrder, error) {
	bz := k.getStore(ctx).Get(OrderKey(uid))
	if bz == nil {
		return types.ExchangeOrder{}, types.ErrOrderNotFound.Wrapf("order %d", uid)
	}
	var order types.ExchangeOrder
	if err := json.Unmarshal(bz, &order); err != nil {
		return types.ExchangeOrder{}, types.ErrInvalidState.Wrapf("failed to unmarshal order %d: %v", uid, err)
	}
	return order, nil
}

// deleteOrder removes an order and all of its index entries.
func (k Keeper) deleteOrder(ctx context.Context, order types.ExchangeOrder) {
	store := k.getStore(ctx)
	store.Delete(OrderKey(order.UID))
	store.Delete(BookKey(order))
	store.Delete(OrderByCreatorKey(order.Creator, order.UID))
}

// bestOrder returns the highest-priority resting order on one side of a book.
func (k Keeper) bestOrder(ctx context.Context, base, quote string, side types.OrderSide) (types.ExchangeOrder, bool, error) {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), BookSidePrefix(base, quote, side))
	defer iterator.Close()

	if !iterator.Valid() {
		return types.ExchangeOrder{}, false, nil
	}
	order, err := k.GetOrder(ctx, uidFromBytes(iterator.Value()))
	if err != nil {
		return types.ExchangeOrder{}, false, err
	}
	return order, true, nil
}

// iterateBookSide walks one side of a book in match priority until cb returns true.
func (k Keeper) iterateBookSide(ctx context.Context, base, quote string, side types.OrderSide, cb func(types.ExchangeOrder) (stop bool, err error)) error {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), BookSidePrefix(base, quote, side))
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		order, err := k.GetOrder(ctx, uidFromBytes(iterator.Value()))
		if err != nil {
			return err
		}
		stop, err := cb(order)
		if err != nil {
			return err
		}
		if stop {
			return nil
		}
	}
	return nil
}

// countRestingOrders counts book index entries per side. It reads only the keys,
// so no order record is decoded.
func (k Keeper) countRestingOrders(ctx context.Context) (bids, asks int, err error) {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), BookKeyPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var base, quote, side string
		if _, err := orderedcode.Parse(string(iterator.Key()[len(BookKeyPrefix):]), &base, &quote, &side); err != nil {
			return 0, 0, types.ErrInvalidState.Wrapf("malformed book key: %v", err)
		}
		if side == bookSideBid {
			bids++
		} else {
			asks++
		}
	}
	return bids, asks, nil
}

// IterateOrders walks every resting order in uid order.
func (k Keeper) IterateOrders(ctx context.Context, cb func(types.ExchangeOrder) (stop bool)) error {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), OrderKeyPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var order types.ExchangeOrder
		if err := json.Unmarshal(iterator.Value(), &order); err != nil {
			return types.ErrInvalidState.Wrapf("failed to unmarshal order: %v", err)
		}
		if cb(order) {
			return nil
		}
	}
	return nil
}

// GetAllOrders returns every resting order.
func (k Keeper) GetAllOrders(ctx context.Context) ([]types.ExchangeOrder, error) {
	var orders []types.ExchangeOrder
	err := k.IterateOrders(ctx, func(order types.ExchangeOrder) bool {
		orders = append(orders, order)
		return false
	})
	return orders, err
}

// GetOrderBook returns up to limit resting orders per side in match priority. A
// zero limit uses the configured maximum depth.
func (k Keeper) GetOrderBook(ctx context.Context, base, quote string, limit uint32) (bids, asks []types.ExchangeOrder, err error) {
	params, err := k.GetParams(ctx)
	if err != nil {
		return nil, nil, err
	}
	if limit == 0 || limit > params.MaxBookDepth {
		limit = params.MaxBookDepth
	}

	collect := func(side types.OrderSide) ([]types.ExchangeOrder, error) {
		orders := []types.ExchangeOrder{}
		err := k.iterateBookSide(ctx, base, quote, side, func(order types.ExchangeOrder) (bool, error) {
			orders = append(orders, order)
			return uint32(len(orders)) >= limit, nil
		})
		return orders, err
	}

	if bids, err = collect(types.OrderSideBuy); err != nil {
		return nil, nil, err
	}
	if asks, err = collect(types.OrderSideSell); err != nil {
		return nil, nil, err
	}
	return bids, asks, nil
}

// GetExchangeOrder returns a resting order by uid.
func (k Keeper) GetExchangeOrder(ctx context.Context, uid uint64) (types.ExchangeOrder, error) {
	return k.GetOrder(ctx, uid)
}

// GetOrderLeftoverEscrow returns the escrow still held for a resting order. It
// fails with ErrOrderNotFound once the order is filled or cancelled.
func (k Keeper) GetOrderLeftoverEscrow(ctx context.Context, uid uint64) (string, math.Int, error) {
	order, err := k.GetOrder(ctx, uid)
	if err != nil {
		return "", math.Int{}, err
	}
	return order.EscrowDenom(), order.EscrowRemaining, nil
}

// GetOrdersByCreator returns all resting orders of a creator in uid order.
func (k Keeper) GetOrdersByCreator(ctx context.Context, creator string) ([]types.ExchangeOrder, error) {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), OrderByCreatorPrefix(creator))
	defer iterator.Close()

	var orders []types.ExchangeOrder
	for ; iterator.Valid(); iterator.Next() {
		order, err := k.GetOrder(ctx, uidFromBytes(iterator.Value()))
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}
