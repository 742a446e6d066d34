package keeper_test

import (
	"context"
	"fmt"
	"testing"

	"cosmossdk.io/math"
	"github.com/cosmos/cosmos-sdk/types/query"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	keepertest "github.com/paw-chain/dexchain/testutil/keeper"
	"github.com/paw-chain/dexchain/x/dex/keeper"
	"github.com/paw-chain/dexchain/x/dex/types"
)

type fixedPrices map[string]math.LegacyDec

func (p fixedPrices) GetPrice(_ context.Context, denom string) (math.LegacyDec, error) {
	price, ok := p[denom]
	if !ok {
		return math.LegacyDec{}, fmt.Errorf("no price for %s", denom)
	}
	return price, nil
}

func TestQueryNilRequests(t *testing.T) {
	k, ctx, _ := keepertest.DexKeeper(t)
	qs := keeper.NewQueryServerImpl(*k)

	requireInvalid := func(err error) {
		t.Helper()
		require.Error(t, err)
		require.Equal(t, codes.InvalidArgument, status.Code(err))
	}

	_, err := qs.Params(ctx, nil)
	requireInvalid(err)
	_, err = qs.Pools(ctx, nil)
	requireInvalid(err)
	_, err = qs.Rate(ctx, nil)
	requireInvalid(err)
	_, err = qs.OrderBook(ctx, nil)
	requireInvalid(err)
	_, err = qs.OTCOrders(ctx, nil)
	requireInvalid(err)
	_, err = qs.OrdersByCreator(ctx, &types.QueryOrdersByCreatorRequest{Creator: "bogus"})
	requireInvalid(err)
	_, err = qs.UnclaimedFees(ctx, &types.QueryUnclaimedFeesRequest{Provider: "bogus", TokenA: soul, TokenB: kcal})
	requireInvalid(err)
}

func TestQueryParamsAndTokens(t *testing.T) {
	k, ctx, _ := keepertest.DexKeeper(t)
	qs := keeper.NewQueryServerImpl(*k)

	params, err := qs.Params(ctx, &types.QueryParamsRequest{})
	require.NoError(t, err)
	require.Equal(t, types.DefaultParams(), params.Params)

	tokens, err := qs.Tokens(ctx, &types.QueryTokensRequest{})
	require.NoError(t, err)
	require.Len(t, tokens.Tokens, 2)
}

func TestQueryPoolsPagination(t *testing.T) {
	_, ctx, env := keepertest.DexKeeper(t)
	keepertest.RegisterTokens(t, env, 0, gold, silver)
	keepertest.CreateTestPool(t, env, soul, kcal, math.NewInt(4_000), math.NewInt(1_000))
	keepertest.CreateTestPool(t, env, gold, silver, math.NewInt(1_000), math.NewInt(9_000))
	qs := keeper.NewQueryServerImpl(*env.Keeper)

	first, err := qs.Pools(ctx, &types.QueryPoolsRequest{Pagination: &query.PageRequest{Limit: 1}})
	require.NoError(t, err)
	require.Len(t, first.Pools, 1)
	require.NotEmpty(t, first.Pagination.NextKey)

	second, err := qs.Pools(ctx, &types.QueryPoolsRequest{Pagination: &query.PageRequest{Key: first.Pagination.NextKey, Limit: 1}})
	require.NoError(t, err)
	require.Len(t, second.Pools, 1)
	require.NotEqual(t, first.Pools[0].Denom0, second.Pools[0].Denom0)

	all, err := qs.Pools(ctx, &types.QueryPoolsRequest{})
	require.NoError(t, err)
	require.Len(t, all.Pools, 2)

	pool, err := qs.Pool(ctx, &types.QueryPoolRequest{TokenA: silver, TokenB: gold})
	require.NoError(t, err)
	require.Equal(t, gold, pool.Pool.Denom0)

	_, err = qs.Pool(ctx, &types.QueryPoolRequest{TokenA: gold, TokenB: kcal})
	require.ErrorIs(t, err, types.ErrPoolNotFound)
}

func TestQueryRateMatchesSwap(t *testing.T) {
	_, ctx, env := keepertest.DexKeeper(t)
	keepertest.CreateTestPool(t, env, soul, kcal, soulReserve, kcalReserve)
	trader := fundedTrader(t, env, "trader", sdkCoin(soul, hundredSoul))
	qs := keeper.NewQueryServerImpl(*env.Keeper)

	rate, err := qs.Rate(ctx, &types.QueryRateRequest{TokenIn: soul, TokenOut: kcal, AmountIn: hundredSoul})
	require.NoError(t, err)

	out, _, err := env.Keeper.SwapTokens(ctx, trader, soul, kcal, hundredSoul, rate.AmountOut)
	require.NoError(t, err)
	require.Equal(t, rate.AmountOut.String(), out.String())

	unclaimed, err := qs.UnclaimedFees(ctx, &types.QueryUnclaimedFeesRequest{
		Provider: keepertest.TestAddress("pool-creator-soul-kcal").String(),
		TokenA:   soul,
		TokenB:   kcal,
	})
	require.NoError(t, err)
	require.Equal(t, kcal, unclaimed.Denom0)
	require.True(t, unclaimed.Amount0.IsZero())
	require.True(t, unclaimed.Amount1.IsPositive())
}

func TestQueryOrders(t *testing.T) {
	_, ctx, env := keepertest.DexKeeper(t)
	keepertest.RegisterTokens(t, env, 0, gold, silver)
	alice := fundedTrader(t, env, "alice", coin(gold, 100), coin(silver, 1_000))
	qs := keeper.NewQueryServerImpl(*env.Keeper)

	bid := limit(t, env, alice, types.OrderSideBuy, 5, 2, false)
	limit(t, env, alice, types.OrderSideBuy, 5, 3, false)
	limit(t, env, alice, types.OrderSideSell, 5, 9, false)

	book, err := qs.OrderBook(ctx, &types.QueryOrderBookRequest{BaseDenom: gold, QuoteDenom: silver})
	require.NoError(t, err)
	require.Len(t, book.Bids, 2)
	require.Len(t, book.Asks, 1)
	require.Equal(t, int64(3), book.Bids[0].Price.Int64())

	top, err := qs.OrderBook(ctx, &types.QueryOrderBookRequest{BaseDenom: gold, QuoteDenom: silver, Limit: 1})
	require.NoError(t, err)
	require.Len(t, top.Bids, 1)

	escrow, err := qs.OrderLeftoverEscrow(ctx, &types.QueryOrderLeftoverEscrowRequest{OrderID: bid.Order.UID})
	require.NoError(t, err)
	require.Equal(t, silver, escrow.Denom)
	require.Equal(t, int64(10), escrow.Amount.Int64())

	page, err := qs.OrdersByCreator(ctx, &types.QueryOrdersByCreatorRequest{
		Creator:    alice.String(),
		Pagination: &query.PageRequest{Limit: 2},
	})
	require.NoError(t, err)
	require.Len(t, page.Orders, 2)
	require.Equal(t, bid.Order.UID, page.Orders[0].UID)

	rest, err := qs.OrdersByCreator(ctx, &types.QueryOrdersByCreatorRequest{
		Creator:    alice.String(),
		Pagination: &query.PageRequest{Key: page.Pagination.NextKey},
	})
	require.NoError(t, err)
	require.Len(t, rest.Orders, 1)

	_, err = qs.ExchangeOrder(ctx, &types.QueryExchangeOrderRequest{OrderID: 999})
	require.ErrorIs(t, err, types.ErrOrderNotFound)
}

func TestQueryOTCOrders(t *testing.T) {
	_, ctx, env := keepertest.DexKeeper(t)
	keepertest.RegisterTokens(t, env, 0, gold, silver)
	alice := fundedTrader(t, env, "alice", coin(silver, 1_000))
	qs := keeper.NewQueryServerImpl(*env.Keeper)

	for i := 0; i < 3; i++ {
		_, err := env.Keeper.OpenOTCOrder(ctx, alice, gold, silver, math.NewInt(100), math.NewInt(10))
		require.NoError(t, err)
	}

	page, err := qs.OTCOrders(ctx, &types.QueryOTCOrdersRequest{Pagination: &query.PageRequest{Limit: 2, CountTotal: true}})
	require.NoError(t, err)
	require.Len(t, page.Orders, 2)
	require.Equal(t, uint64(3), page.Pagination.Total)

	order, err := qs.OTCOrder(ctx, &types.QueryOTCOrderRequest{OrderID: page.Orders[0].UID})
	require.NoError(t, err)
	require.Equal(t, alice.String(), order.Order.Creator)
}

func TestQueryPoolValue(t *testing.T) {
	k, ctx, env := keepertest.DexKeeper(t)
	// 2 SOUL and 3 KCAL
	keepertest.CreateTestPool(t, env, soul, kcal, math.NewInt(200_000_000), math.NewInt(30_000_000_000))

	_, err := keeper.NewQueryServerImpl(*k).PoolValue(ctx, &types.QueryPoolValueRequest{TokenA: soul, TokenB: kcal})
	require.ErrorIs(t, err, types.ErrOraclePrice)

	k.SetOracleKeeper(fixedPrices{soul: math.LegacyNewDec(5), kcal: math.LegacyNewDec(2)})
	value, err := keeper.NewQueryServerImpl(*k).PoolValue(ctx, &types.QueryPoolValueRequest{TokenA: soul, TokenB: kcal})
	require.NoError(t, err)
	require.Equal(t, math.LegacyNewDec(16).String(), value.Value.String())

	k.SetOracleKeeper(fixedPrices{soul: math.LegacyNewDec(5)})
	_, err = keeper.NewQueryServerImpl(*k).PoolValue(ctx, &types.QueryPoolValueRequest{TokenA: soul, TokenB: kcal})
	require.ErrorIs(t, err, types.ErrOraclePrice)
}
