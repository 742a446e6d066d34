package simulation_test

import (
	"math/rand"
	"testing"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	simtypes "github.com/cosmos/cosmos-sdk/types/simulation"
	"github.com/stretchr/testify/require"

	keepertest "github.com/paw-chain/dexchain/testutil/keeper"
	"github.com/paw-chain/dexchain/x/dex/simulation"
	"github.com/paw-chain/dexchain/x/dex/types"
)

// runSeeded replays a seeded simulation on a fresh chain and returns the
// operation log and the committed app hash.
func runSeeded(t *testing.T, seed int64, n int) ([]simulation.OperationMsg, []byte) {
	t.Helper()
	_, _, env := keepertest.DexKeeper(t)
	keepertest.RegisterTokens(t, env, 2, "gold")

	r := rand.New(rand.NewSource(seed)) //nolint:gosec // deterministic simulation
	accs := simtypes.RandomAccounts(r, 5)
	funds := sdk.NewCoins(
		sdk.NewCoin("gold", math.NewInt(1_000_000_000_000)),
		sdk.NewCoin("kcal", math.NewInt(1_000_000_000_000)),
		sdk.NewCoin("soul", math.NewInt(1_000_000_000_000)),
	)
	for _, acc := range accs {
		require.NoError(t, env.Fund(acc.Address, funds))
	}

	ops := simulation.WeightedOperations(nil, *env.Keeper, funds.Denoms())
	msgs, err := simulation.Run(r, env.Ctx, *env.Keeper, ops, accs, n)
	require.NoError(t, err)
	require.Len(t, msgs, n)
	return msgs, env.Commit()
}

func TestRunKeepsInvariants(t *testing.T) {
	msgs, _ := runSeeded(t, 42, 300)

	accepted := make(map[string]int)
	for _, m := range msgs {
		if m.OK {
			accepted[m.Name]++
		}
	}
	require.Positive(t, accepted[types.TypeMsgCreatePool])
	require.Positive(t, accepted[types.TypeMsgSwap]+accepted[types.TypeMsgOpenLimitOrder])
}

func TestRunIsDeterministic(t *testing.T) {
	msgs1, hash1 := runSeeded(t, 7, 150)
	msgs2, hash2 := runSeeded(t, 7, 150)
	require.Equal(t, msgs1, msgs2)
	require.Equal(t, hash1, hash2)
}

func TestWeightsDisableOperations(t *testing.T) {
	_, _, env := keepertest.DexKeeper(t)
	weights := simulation.DefaultWeights()
	for name := range weights {
		weights[name] = 0
	}
	weights[simulation.OpWeightMsgSwap] = 1

	ops := simulation.WeightedOperations(weights, *env.Keeper, []string{"kcal", "soul"})
	require.Len(t, ops, 1)
	require.Equal(t, simulation.OpWeightMsgSwap, ops[0].Name)

	_, err := simulation.Run(rand.New(rand.NewSource(1)), env.Ctx, *env.Keeper, nil, nil, 1) //nolint:gosec
	require.Error(t, err)
}
