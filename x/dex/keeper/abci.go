package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/dexchain/x/dex/types"
)

// EndBlocker refreshes gauges and, when enabled, runs the invariant self-check.
// It never writes state, so enabling it cannot change consensus.
func (k Keeper) EndBlocker(ctx context.Context) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if k.metrics != nil {
		bids, asks, err := k.countRestingOrders(ctx)
		if err != nil {
			sdkCtx.Logger().Error("failed to count resting orders", "error", err)
		}
		k.metrics.RestingOrders.WithLabelValues(types.OrderSideBuy.String()).Set(float64(bids))
		k.metrics.RestingOrders.WithLabelValues(types.OrderSideSell.String()).Set(float64(asks))
	}

	if k.checkInvariants {
		if msg, broken := AllInvariants(k)(sdkCtx); broken {
			// Don't return error - log and continue to prevent block production halt
			k.Logger(ctx).Error("dex invariant broken", "height", sdkCtx.BlockHeight(), "details", msg)
		}
	}
	return nil
}
