package keeper_test

import (
	"testing"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	keepertest "github.com/paw-chain/dexchain/testutil/keeper"
	"github.com/paw-chain/dexchain/x/dex/keeper"
	"github.com/paw-chain/dexchain/x/dex/types"
)

type invariantRegistry struct {
	routes []string
}

func (r *invariantRegistry) RegisterRoute(moduleName, route string, _ sdk.Invariant) {
	r.routes = append(r.routes, moduleName+"/"+route)
}

func TestRegisterInvariants(t *testing.T) {
	k, _, _ := keepertest.DexKeeper(t)
	ir := &invariantRegistry{}
	keeper.RegisterInvariants(ir, *k)
	require.ElementsMatch(t, []string{"dex/module-account-balance", "dex/pool-liquidity", "dex/order-book"}, ir.routes)
}

func TestInvariantsHoldOnActiveState(t *testing.T) {
	_, ctx, env := keepertest.DexKeeper(t)
	keepertest.RegisterTokens(t, env, 0, gold, silver)
	keepertest.CreateTestPool(t, env, soul, kcal, soulReserve, kcalReserve)
	trader := fundedTrader(t, env, "trader", sdkCoin(soul, hundredSoul), coin(gold, 100), coin(silver, 1_000))

	_, _, err := env.Keeper.SwapTokens(ctx, trader, soul, kcal, hundredSoul, math.ZeroInt())
	require.NoError(t, err)
	limit(t, env, trader, types.OrderSideBuy, 10, 3, false)
	_, err = env.Keeper.OpenOTCOrder(ctx, trader, gold, silver, math.NewInt(100), math.NewInt(9))
	require.NoError(t, err)

	for _, inv := range []sdk.Invariant{
		keeper.ModuleAccountBalanceInvariant(*env.Keeper),
		keeper.PoolLiquidityInvariant(*env.Keeper),
		keeper.OrderBookInvariant(*env.Keeper),
	} {
		msg, broken := inv(ctx)
		require.False(t, broken, msg)
	}
}

func TestModuleAccountBalanceInvariantDetectsShortfall(t *testing.T) {
	_, ctx, env := keepertest.DexKeeper(t)
	keepertest.RegisterTokens(t, env, 0, gold, silver)
	trader := fundedTrader(t, env, "trader", coin(silver, 1_000))
	res := limit(t, env, trader, types.OrderSideBuy, 10, 3, false)

	// Claim more escrow than the module holds.
	order := res.Order
	order.EscrowRemaining = math.NewInt(31)
	require.NoError(t, env.Keeper.SetOrder(ctx, order))

	msg, broken := keeper.ModuleAccountBalanceInvariant(*env.Keeper)(ctx)
	require.True(t, broken)
	require.Contains(t, msg, "module balance for silver")
}

func TestPoolLiquidityInvariantDetectsMismatch(t *testing.T) {
	_, ctx, env := keepertest.DexKeeper(t)
	keepertest.CreateTestPool(t, env, soul, kcal, math.NewInt(4_000), math.NewInt(1_000))

	pool, err := env.Keeper.GetPool(ctx, soul, kcal)
	require.NoError(t, err)
	pool.TotalLiquidity = pool.TotalLiquidity.AddRaw(1)
	require.NoError(t, env.Keeper.SetPool(ctx, pool))

	_, broken := keeper.PoolLiquidityInvariant(*env.Keeper)(ctx)
	require.True(t, broken)

	pool.TotalLiquidity = math.ZeroInt()
	require.NoError(t, env.Keeper.SetPool(ctx, pool))
	_, broken = keeper.PoolLiquidityInvariant(*env.Keeper)(ctx)
	require.True(t, broken)
}

func TestEndBlockerNeverFails(t *testing.T) {
	_, ctx, env := keepertest.DexKeeper(t)
	keepertest.CreateTestPool(t, env, soul, kcal, math.NewInt(4_000), math.NewInt(1_000))
	require.NoError(t, env.Keeper.EndBlocker(ctx))

	// A broken invariant is logged, not returned.
	pool, err := env.Keeper.GetPool(ctx, soul, kcal)
	require.NoError(t, err)
	pool.Amount0 = pool.Amount0.AddRaw(1_000_000)
	require.NoError(t, env.Keeper.SetPool(ctx, pool))
	require.NoError(t, env.Keeper.EndBlocker(ctx))

	_, broken := keeper.AllInvariants(*env.Keeper)(ctx)
	require.True(t, broken)
}

func TestOrderBookInvariantDetectsCrossedBook(t *testing.T) {
	_, ctx, env := keepertest.DexKeeper(t)
	keepertest.RegisterTokens(t, env, 0, gold, silver)
	trader := fundedTrader(t, env, "trader", coin(silver, 1_000))
	bid := limit(t, env, trader, types.OrderSideBuy, 10, 3, false)

	_, broken := keeper.OrderBookInvariant(*env.Keeper)(ctx)
	require.False(t, broken)

	ask := bid.Order
	ask.UID = 1_000
	ask.Side = types.OrderSideSell
	ask.Price = math.NewInt(2)
	require.NoError(t, env.Keeper.SetOrder(ctx, ask))

	msg, broken := keeper.OrderBookInvariant(*env.Keeper)(ctx)
	require.True(t, broken)
	require.Contains(t, msg, "book gold/silver crossed: best bid 3 >= best ask 2")
}

func TestOrderBookInvariantDetectsDustOrder(t *testing.T) {
	_, ctx, env := keepertest.DexKeeper(t)
	keepertest.RegisterTokens(t, env, 8, wbtc, usdc)
	trader := keepertest.TestAddress("trader")

	dust := types.ExchangeOrder{
		UID:             1_001,
		Creator:         trader.String(),
		BaseDenom:       wbtc,
		QuoteDenom:      usdc,
		Side:            types.OrderSideSell,
		Kind:            types.OrderKindLimit,
		Price:           math.NewInt(1),
		Amount:          math.NewInt(50_000_000),
		RemainingAmount: math.NewInt(50_000_000),
		EscrowRemaining: math.NewInt(50_000_000),
	}
	require.NoError(t, env.Keeper.SetOrder(ctx, dust))

	msg, broken := keeper.OrderBookInvariant(*env.Keeper)(ctx)
	require.True(t, broken)
	require.Contains(t, msg, "order 1001 rests with 50000000 wbtc worth no usdc")
	require.NotContains(t, msg, "crossed")
}

func TestEndBlockerCountsRestingOrders(t *testing.T) {
	_, ctx, env := keepertest.DexKeeper(t)
	keepertest.RegisterTokens(t, env, 0, gold, silver)
	keepertest.RegisterTokens(t, env, 8, wbtc, usdc)
	trader := fundedTrader(t, env, "trader", coin(gold, 100), coin(silver, 1_000), coin(usdc, 1_000))

	limit(t, env, trader, types.OrderSideBuy, 10, 3, false)
	limit(t, env, trader, types.OrderSideBuy, 5, 2, false)
	limit(t, env, trader, types.OrderSideSell, 4, 9, false)
	limitOn(t, env, trader, wbtc, usdc, types.OrderSideBuy, 1_0000_0000, 7, false)
	require.NoError(t, env.Keeper.EndBlocker(ctx))

	metrics := keeper.NewDEXMetrics()
	require.Equal(t, float64(3), promtestutil.ToFloat64(metrics.RestingOrders.WithLabelValues("buy")))
	require.Equal(t, float64(1), promtestutil.ToFloat64(metrics.RestingOrders.WithLabelValues("sell")))
}
