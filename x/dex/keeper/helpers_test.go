package keeper_test

import (
	"testing"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	keepertest "github.com/paw-chain/dexchain/testutil/keeper"
	"github.com/paw-chain/dexchain/x/dex/keeper"
	"github.com/paw-chain/dexchain/x/dex/types"
)

// Whole-unit tokens used by the order book tests. With zero decimals a price of
// p means p quote units per base unit.
const (
	gold   = "gold"
	silver = "silver"

	soul = "soul"
	kcal = "kcal"

	// Eight-decimal pair: one whole wbtc is 1e8 atomic units and a price of p
	// means p atomic usdc per whole wbtc.
	wbtc = "wbtc"
	usdc = "usdc"
)

func requireInvariants(t testing.TB, env *keepertest.DexEnv) {
	t.Helper()
	msg, broken := keeper.AllInvariants(*env.Keeper)(env.Ctx)
	require.False(t, broken, msg)
}

func requireBalance(t testing.TB, env *keepertest.DexEnv, addr sdk.AccAddress, denom string, expected int64) {
	t.Helper()
	require.Equal(t, math.NewInt(expected).String(), env.Balance(addr, denom).String(), "%s balance of %s", denom, addr)
}

func fundedTrader(t testing.TB, env *keepertest.DexEnv, label string, coins ...sdk.Coin) sdk.AccAddress {
	t.Helper()
	addr := keepertest.TestAddress(label)
	keepertest.FundAccount(t, env, addr, coins...)
	return addr
}

func coin(denom string, amount int64) sdk.Coin {
	return sdk.NewInt64Coin(denom, amount)
}

func sdkCoin(denom string, amount math.Int) sdk.Coin {
	return sdk.NewCoin(denom, amount)
}

func limit(t testing.TB, env *keepertest.DexEnv, trader sdk.AccAddress, side types.OrderSide, amount, price int64, ioc bool) types.OrderResult {
	t.Helper()
	res, err := env.Keeper.OpenLimitOrder(env.Ctx, trader, gold, silver, side, math.NewInt(amount), math.NewInt(price), ioc)
	require.NoError(t, err)
	return res
}

func limitOn(t testing.TB, env *keepertest.DexEnv, trader sdk.AccAddress, base, quote string, side types.OrderSide, amount, price int64, ioc bool) types.OrderResult {
	t.Helper()
	res, err := env.Keeper.OpenLimitOrder(env.Ctx, trader, base, quote, side, math.NewInt(amount), math.NewInt(price), ioc)
	require.NoError(t, err)
	return res
}
