package keeper_test

import (
	"testing"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	keepertest "github.com/paw-chain/dexchain/testutil/keeper"
	"github.com/paw-chain/dexchain/x/dex/types"
)

func TestDexEnvCommitsBlocks(t *testing.T) {
	env, err := keepertest.NewDexEnv(log.NewNopLogger())
	require.NoError(t, err)
	require.NoError(t, env.Keeper.InitGenesis(env.Ctx, *types.DefaultGenesis()))

	alice := keepertest.TestAddress("alice")
	require.NoError(t, env.Fund(alice, sdk.NewCoins(sdk.NewInt64Coin("soul", 1_000))))

	first := env.Commit()
	require.NotEmpty(t, first)
	require.Equal(t, int64(2), env.Ctx.BlockHeight())
	require.Equal(t, "1000", env.Balance(alice, "soul").String())

	require.NoError(t, env.Fund(alice, sdk.NewCoins(sdk.NewInt64Coin("soul", 1))))
	second := env.Commit()
	require.NotEqual(t, first, second)
	require.Equal(t, int64(3), env.Ctx.BlockHeight())
}

func TestDexEnvCommitIsDeterministic(t *testing.T) {
	run := func() []byte {
		env, err := keepertest.NewDexEnv(log.NewNopLogger())
		require.NoError(t, err)
		require.NoError(t, env.Keeper.InitGenesis(env.Ctx, *types.DefaultGenesis()))
		keepertest.CreateTestPool(t, env, "soul", "kcal", math.NewInt(4_000), math.NewInt(1_000))
		env.Commit()
		return env.Commit()
	}
	require.Equal(t, run(), run())
}
