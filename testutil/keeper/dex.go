package keeper

import (
	"fmt"
	"testing"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/cosmos/cosmos-sdk/codec"
	"github.com/cosmos/cosmos-sdk/codec/address"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	"github.com/cosmos/cosmos-sdk/runtime"
	sdkstd "github.com/cosmos/cosmos-sdk/std"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authkeeper "github.com/cosmos/cosmos-sdk/x/auth/keeper"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	bankkeeper "github.com/cosmos/cosmos-sdk/x/bank/keeper"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	govtypes "github.com/cosmos/cosmos-sdk/x/gov/types"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/dexchain/x/dex/keeper"
	"github.com/paw-chain/dexchain/x/dex/types"
)

// FaucetName is the module account that mints test balances.
const FaucetName = "faucet"

// GenesisTime is the fixed block time of every test chain.
var GenesisTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// DexEnv is an in-memory chain with a real bank ledger and a dex keeper.
type DexEnv struct {
	Keeper     *keeper.Keeper
	BankKeeper bankkeeper.BaseKeeper
	Ctx        sdk.Context
	Store      storetypes.CommitMultiStore
	Authority  sdk.AccAddress
}

// NewDexEnv mounts the auth, bank and dex stores on a MemDB and builds the
// keepers. The dex store holds only the default params until genesis runs.
func NewDexEnv(logger log.Logger) (*DexEnv, error) {
	storeKey := storetypes.NewKVStoreKey(types.StoreKey)
	memStoreKey := storetypes.NewMemoryStoreKey(types.MemStoreKey)
	authStoreKey := storetypes.NewKVStoreKey(authtypes.StoreKey)
	bankStoreKey := storetypes.NewKVStoreKey(banktypes.StoreKey)

	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	// A nil db makes the root store prefix each substore inside the shared MemDB.
	stateStore.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, nil)
	stateStore.MountStoreWithDB(memStoreKey, storetypes.StoreTypeMemory, nil)
	stateStore.MountStoreWithDB(authStoreKey, storetypes.StoreTypeIAVL, nil)
	stateStore.MountStoreWithDB(bankStoreKey, storetypes.StoreTypeIAVL, nil)
	if err := stateStore.LoadLatestVersion(); err != nil {
		return nil, fmt.Errorf("load store: %w", err)
	}

	registry := codectypes.NewInterfaceRegistry()
	sdkstd.RegisterInterfaces(registry)
	authtypes.RegisterInterfaces(registry)
	banktypes.RegisterInterfaces(registry)
	cdc := codec.NewProtoCodec(registry)
	authority := authtypes.NewModuleAddress(govtypes.ModuleName)

	maccPerms := map[string][]string{
		FaucetName:       {authtypes.Minter},
		types.ModuleName: nil,
	}

	accountKeeper := authkeeper.NewAccountKeeper(
		cdc,
		runtime.NewKVStoreService(authStoreKey),
		authtypes.ProtoBaseAccount,
		maccPerms,
		address.NewBech32Codec(sdk.GetConfig().GetBech32AccountAddrPrefix()),
		sdk.GetConfig().GetBech32AccountAddrPrefix(),
		authority.String(),
	)

	bankKeeper := bankkeeper.NewBaseKeeper(
		cdc,
		runtime.NewKVStoreService(bankStoreKey),
		accountKeeper,
		map[string]bool{},
		authority.String(),
		log.NewNopLogger(),
	)

	k := keeper.NewKeeper(storeKey, bankKeeper, authority.String())
	k.SetInvariantCheck(true)

	header := cmtproto.Header{ChainID: "dexchain-test", Height: 1, Time: GenesisTime}
	ctx := sdk.NewContext(stateStore, header, false, logger)
	if err := bankKeeper.SetParams(ctx, banktypes.DefaultParams()); err != nil {
		return nil, fmt.Errorf("set bank params: %w", err)
	}

	return &DexEnv{
		Keeper:     k,
		BankKeeper: bankKeeper,
		Ctx:        ctx,
		Store:      stateStore,
		Authority:  authority,
	}, nil
}

// Fund mints coins to addr through the faucet module account.
func (e *DexEnv) Fund(addr sdk.AccAddress, coins sdk.Coins) error {
	if coins.Empty() {
		return nil
	}
	if err := e.BankKeeper.MintCoins(e.Ctx, FaucetName, coins); err != nil {
		return fmt.Errorf("mint %s: %w", coins, err)
	}
	if err := e.BankKeeper.SendCoinsFromModuleToAccount(e.Ctx, FaucetName, addr, coins); err != nil {
		return fmt.Errorf("fund %s: %w", addr, err)
	}
	return nil
}

// Balance returns the balance of addr in denom.
func (e *DexEnv) Balance(addr sdk.AccAddress, denom string) math.Int {
	return e.BankKeeper.GetBalance(e.Ctx, addr, denom).Amount
}

// Commit writes the working state, advances one block and returns the app hash.
func (e *DexEnv) Commit() []byte {
	id := e.Store.Commit()
	header := e.Ctx.BlockHeader()
	header.Height++
	header.Time = header.Time.Add(5 * time.Second)
	e.Ctx = e.Ctx.WithBlockHeader(header)
	return id.Hash
}

// DexKeeper creates a test keeper for the DEX module backed by a real bank
// keeper, with the default genesis applied.
func DexKeeper(t testing.TB) (*keeper.Keeper, sdk.Context, *DexEnv) {
	t.Helper()

	env, err := NewDexEnv(log.NewNopLogger())
	require.NoError(t, err)

	// Initialize module genesis
	require.NoError(t, env.Keeper.InitGenesis(env.Ctx, *types.DefaultGenesis()))

	return env.Keeper, env.Ctx, env
}

// RegisterTokens registers denoms with the given decimals, failing the test on error.
func RegisterTokens(t testing.TB, env *DexEnv, decimals uint32, denoms ...string) {
	t.Helper()
	for _, denom := range denoms {
		require.NoError(t, env.Keeper.RegisterToken(env.Ctx, denom, decimals))
	}
}

// FundAccount mints coins to addr, failing the test on error.
func FundAccount(t testing.TB, env *DexEnv, addr sdk.AccAddress, coins ...sdk.Coin) {
	t.Helper()
	require.NoError(t, env.Fund(addr, sdk.NewCoins(coins...)))
}

// CreateTestPool creates a pool funded by a fresh creator and returns the
// creator and the minted liquidity.
func CreateTestPool(t testing.TB, env *DexEnv, tokenA, tokenB string, amountA, amountB math.Int) (sdk.AccAddress, math.Int) {
	t.Helper()

	creator := TestAddress(fmt.Sprintf("pool-creator-%s-%s", tokenA, tokenB))
	FundAccount(t, env, creator, sdk.NewCoin(tokenA, amountA), sdk.NewCoin(tokenB, amountB))

	_, liquidity, err := env.Keeper.CreatePool(env.Ctx, creator, tokenA, tokenB, amountA, amountB)
	require.NoError(t, err)
	return creator, liquidity
}

// TestAddress derives a deterministic account address from a label.
func TestAddress(label string) sdk.AccAddress {
	return authtypes.NewModuleAddress("test/" + label)
}
