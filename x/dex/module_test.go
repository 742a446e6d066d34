package dex_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	keepertest "github.com/paw-chain/dexchain/testutil/keeper"
	"github.com/paw-chain/dexchain/x/dex"
	"github.com/paw-chain/dexchain/x/dex/types"
)

func TestModuleGenesisRoundTrip(t *testing.T) {
	basic := dex.AppModuleBasic{}
	raw := basic.DefaultGenesis(nil)
	require.NoError(t, basic.ValidateGenesis(nil, nil, raw))

	_, ctx, env := keepertest.DexKeeper(t)
	am := dex.NewAppModule(*env.Keeper)
	require.Equal(t, types.ModuleName, am.Name())

	exported := am.ExportGenesis(ctx, nil)
	var gs types.GenesisState
	require.NoError(t, json.Unmarshal(exported, &gs))
	require.Equal(t, uint64(1), gs.NextOrderUID)
	require.Len(t, gs.Tokens, 2)

	require.NoError(t, am.EndBlock(ctx))
}

func TestModuleValidateGenesisRejectsGarbage(t *testing.T) {
	basic := dex.AppModuleBasic{}
	require.Error(t, basic.ValidateGenesis(nil, nil, json.RawMessage(`{"params":`)))

	bad := types.DefaultGenesis()
	bad.NextOrderUID = 0
	bz, err := json.Marshal(bad)
	require.NoError(t, err)
	require.Error(t, basic.ValidateGenesis(nil, nil, bz))
}

func TestModuleServers(t *testing.T) {
	_, ctx, env := keepertest.DexKeeper(t)
	am := dex.NewAppModule(*env.Keeper)

	res, err := am.QueryServer().Params(ctx, &types.QueryParamsRequest{})
	require.NoError(t, err)
	require.Equal(t, "kcal", res.Params.FeeDenom)

	_, err = am.MsgServer().RegisterToken(ctx, types.NewMsgRegisterToken(env.Authority.String(), "gold", 6))
	require.NoError(t, err)
	_, found := env.Keeper.GetToken(ctx, "gold")
	require.True(t, found)
}
