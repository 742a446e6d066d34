package keeper_test

import (
	"testing"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	keepertest "github.com/paw-chain/dexchain/testutil/keeper"
	"github.com/paw-chain/dexchain/x/dex/types"
)

func TestGenesisExportImport(t *testing.T) {
	_, ctx, env := keepertest.DexKeeper(t)
	k := env.Keeper
	keepertest.RegisterTokens(t, env, 0, gold, silver)

	keepertest.CreateTestPool(t, env, soul, kcal, soulReserve, kcalReserve)
	trader := fundedTrader(t, env, "trader", sdkCoin(soul, hundredSoul), coin(gold, 100), coin(silver, 1_000))
	_, _, err := k.SwapTokens(ctx, trader, soul, kcal, hundredSoul, math.ZeroInt())
	require.NoError(t, err)

	limit(t, env, trader, types.OrderSideBuy, 10, 3, false)
	limit(t, env, trader, types.OrderSideSell, 5, 7, false)
	_, err = k.OpenOTCOrder(ctx, trader, gold, silver, math.NewInt(100), math.NewInt(9))
	require.NoError(t, err)

	exported, err := k.ExportGenesis(ctx)
	require.NoError(t, err)
	require.NoError(t, exported.Validate())
	require.Len(t, exported.Tokens, 4)
	require.Len(t, exported.Pools, 1)
	require.Len(t, exported.Positions, 1)
	require.Len(t, exported.Orders, 2)
	require.Len(t, exported.OTCOrders, 1)
	require.Equal(t, uint64(4), exported.NextOrderUID)

	// Import into a fresh chain and export again.
	fresh, err := keepertest.NewDexEnv(log.NewNopLogger())
	require.NoError(t, err)
	require.NoError(t, fresh.Keeper.InitGenesis(fresh.Ctx, *exported))

	reexported, err := fresh.Keeper.ExportGenesis(fresh.Ctx)
	require.NoError(t, err)
	require.Equal(t, exported, reexported)

	// Book indexes are rebuilt, so the imported orders still match.
	bids, asks, err := fresh.Keeper.GetOrderBook(fresh.Ctx, gold, silver, 0)
	require.NoError(t, err)
	require.Len(t, bids, 1)
	require.Len(t, asks, 1)
	require.Equal(t, uint64(4), fresh.Keeper.GetNextOrderUID(fresh.Ctx))
}

func TestInitGenesisRejectsInvalidState(t *testing.T) {
	env, err := keepertest.NewDexEnv(log.NewNopLogger())
	require.NoError(t, err)

	gen := *types.DefaultGenesis()
	gen.NextOrderUID = 0
	err = env.Keeper.InitGenesis(env.Ctx, gen)
	require.ErrorIs(t, err, types.ErrInvalidGenesis)
}

func TestGenesisValidate(t *testing.T) {
	provider := keepertest.TestAddress("provider").String()
	pool := types.NewPool(kcal, soul)
	pool.Amount0 = math.NewInt(1_000)
	pool.Amount1 = math.NewInt(4_000)
	pool.TotalLiquidity = math.NewInt(2_000)
	position := types.NewLiquidityPosition(provider, pool)
	position.Liquidity = math.NewInt(2_000)

	order := types.ExchangeOrder{
		UID: 1, Creator: provider, BaseDenom: soul, QuoteDenom: kcal,
		Side: types.OrderSideBuy, Kind: types.OrderKindLimit,
		Price: math.NewInt(10), Amount: math.NewInt(5), RemainingAmount: math.NewInt(5), EscrowRemaining: math.NewInt(1),
	}

	tests := []struct {
		name    string
		mutate  func(gs *types.GenesisState)
		wantErr string
	}{
		{"default", func(gs *types.GenesisState) {}, ""},
		{"valid pool and order", func(gs *types.GenesisState) {
			gs.Pools = []types.Pool{pool}
			gs.Positions = []types.LiquidityPosition{position}
			gs.Orders = []types.ExchangeOrder{order}
			gs.NextOrderUID = 2
		}, ""},
		{"duplicate token", func(gs *types.GenesisState) {
			gs.Tokens = append(gs.Tokens, types.TokenInfo{Denom: soul, Decimals: 8})
		}, "duplicate token"},
		{"too many decimals", func(gs *types.GenesisState) {
			gs.Tokens = append(gs.Tokens, types.TokenInfo{Denom: gold, Decimals: 19})
		}, "decimals"},
		{"liquidity mismatch", func(gs *types.GenesisState) {
			gs.Pools = []types.Pool{pool}
		}, "does not match positions"},
		{"unsorted pool", func(gs *types.GenesisState) {
			p := pool
			p.Denom0, p.Denom1 = soul, kcal
			gs.Pools = []types.Pool{p}
		}, "sorted"},
		{"order uid beyond counter", func(gs *types.GenesisState) {
			gs.Orders = []types.ExchangeOrder{order}
		}, "out of range"},
		{"market order resting", func(gs *types.GenesisState) {
			o := order
			o.Kind = types.OrderKindMarket
			gs.Orders = []types.ExchangeOrder{o}
			gs.NextOrderUID = 2
		}, "resting limit"},
		{"uid shared by two orders", func(gs *types.GenesisState) {
			gs.Orders = []types.ExchangeOrder{order}
			gs.OTCOrders = []types.OTCOrder{{UID: 1, Creator: provider, BaseDenom: soul, QuoteDenom: kcal, Amount: math.NewInt(1), Price: math.NewInt(1)}}
			gs.NextOrderUID = 2
		}, "duplicate order uid"},
		{"invalid params", func(gs *types.GenesisState) {
			gs.Params.SwapFeeBps = types.BasisPoints
		}, "params"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gs := types.DefaultGenesis()
			tt.mutate(gs)
			err := gs.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
