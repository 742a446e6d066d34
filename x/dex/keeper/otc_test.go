package keeper_test

import (
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	keepertest "github.com/paw-chain/dexchain/testutil/keeper"
	"github.com/paw-chain/dexchain/x/dex/types"
)

func TestOTCOrderLifecycle(t *testing.T) {
	_, ctx, env := keepertest.DexKeeper(t)
	k := env.Keeper
	keepertest.RegisterTokens(t, env, 0, gold, silver)

	maker := fundedTrader(t, env, "maker", coin(silver, 500))
	taker := fundedTrader(t, env, "taker", coin(gold, 100))

	// Offer 300 silver for 40 gold.
	order, err := k.OpenOTCOrder(ctx, maker, gold, silver, math.NewInt(300), math.NewInt(40))
	require.NoError(t, err)
	require.Equal(t, uint64(1), order.UID)
	requireBalance(t, env, maker, silver, 200)

	orders, err := k.GetOTCOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)

	taken, err := k.TakeOTCOrder(ctx, taker, order.UID)
	require.NoError(t, err)
	require.Equal(t, order.UID, taken.UID)

	requireBalance(t, env, maker, gold, 40)
	requireBalance(t, env, taker, gold, 60)
	requireBalance(t, env, taker, silver, 300)

	_, err = k.GetOTCOrder(ctx, order.UID)
	require.ErrorIs(t, err, types.ErrOrderNotFound)
	_, err = k.TakeOTCOrder(ctx, taker, order.UID)
	require.ErrorIs(t, err, types.ErrOrderNotFound)

	requireInvariants(t, env)
}

func TestCancelOTCOrder(t *testing.T) {
	_, ctx, env := keepertest.DexKeeper(t)
	k := env.Keeper
	keepertest.RegisterTokens(t, env, 0, gold, silver)

	maker := fundedTrader(t, env, "maker", coin(silver, 500))
	other := fundedTrader(t, env, "other", coin(silver, 500))

	order, err := k.OpenOTCOrder(ctx, maker, gold, silver, math.NewInt(300), math.NewInt(40))
	require.NoError(t, err)

	_, err = k.CancelOTCOrder(ctx, other, order.UID)
	require.ErrorIs(t, err, types.ErrNotAuthorized)

	refund, err := k.CancelOTCOrder(ctx, maker, order.UID)
	require.NoError(t, err)
	require.Equal(t, int64(300), refund.Int64())
	requireBalance(t, env, maker, silver, 500)

	orders, err := k.GetOTCOrders(ctx)
	require.NoError(t, err)
	require.Empty(t, orders)
	requireInvariants(t, env)
}

func TestOTCOrderValidation(t *testing.T) {
	_, ctx, env := keepertest.DexKeeper(t)
	k := env.Keeper
	keepertest.RegisterTokens(t, env, 0, gold, silver)
	maker := fundedTrader(t, env, "maker", coin(silver, 10))

	tests := []struct {
		name   string
		base   string
		amount int64
		price  int64
		err    error
	}{
		{"zero amount", gold, 0, 1, types.ErrInvalidAmount},
		{"zero price", gold, 1, 0, types.ErrInvalidPrice},
		{"unregistered base", "copper", 1, 1, types.ErrTokenNotRegistered},
		{"same denoms", silver, 1, 1, types.ErrInvalidTokenPair},
		{"insufficient funds", gold, 11, 1, types.ErrInsufficientBalance},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := k.OpenOTCOrder(ctx, maker, tt.base, silver, math.NewInt(tt.amount), math.NewInt(tt.price))
			require.ErrorIs(t, err, tt.err)
		})
	}
}

func TestOrderUIDsAreShared(t *testing.T) {
	_, ctx, env := keepertest.DexKeeper(t)
	k := env.Keeper
	keepertest.RegisterTokens(t, env, 0, gold, silver)
	trader := fundedTrader(t, env, "trader", coin(gold, 100), coin(silver, 100))

	first := limit(t, env, trader, types.OrderSideSell, 1, 50, false)
	otc, err := k.OpenOTCOrder(ctx, trader, gold, silver, math.NewInt(10), math.NewInt(1))
	require.NoError(t, err)
	second := limit(t, env, trader, types.OrderSideSell, 1, 50, false)

	require.Equal(t, first.Order.UID+1, otc.UID)
	require.Equal(t, otc.UID+1, second.Order.UID)
	require.Equal(t, second.Order.UID+1, k.GetNextOrderUID(ctx))
}
