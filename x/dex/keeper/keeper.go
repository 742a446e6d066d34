package keeper

import (
	"context"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"

	"github.com/paw-chain/dexchain/x/dex/types"
)

// Keeper of the dex store
type Keeper struct {
	storeKey     storetypes.StoreKey
	bankKeeper   types.BankKeeper
	oracleKeeper types.OracleKeeper
	hooks        types.DexHooks
	authority    string
	moduleAddr   sdk.AccAddress
	metrics      *DEXMetrics

	// checkInvariants makes the end blocker run the registered invariants and log
	// any violation. It never writes state.
	checkInvariants bool
}

// NewKeeper creates a new dex Keeper instance
func NewKeeper(
	key storetypes.StoreKey,
	bankKeeper types.BankKeeper,
	authority string,
) *Keeper {
	if _, err := sdk.AccAddressFromBech32(authority); err != nil {
		panic(err)
	}
	return &Keeper{
		storeKey:   key,
		bankKeeper: bankKeeper,
		authority:  authority,
		moduleAddr: authtypes.NewModuleAddress(types.ModuleName),
		metrics:    NewDEXMetrics(),
	}
}

// SetOracleKeeper wires the price feed used by GetPoolValue.
func (k *Keeper) SetOracleKeeper(oracleKeeper types.OracleKeeper) {
	k.oracleKeeper = oracleKeeper
}

// SetHooks sets the exchange hooks. It may be called only once.
func (k *Keeper) SetHooks(hooks types.DexHooks) *Keeper {
	if k.hooks != nil {
		panic("cannot set dex hooks twice")
	}
	k.hooks = hooks
	return k
}

// SetInvariantCheck toggles the end-block invariant self-check.
func (k *Keeper) SetInvariantCheck(enabled bool) {
	k.checkInvariants = enabled
}

// GetAuthority returns the address allowed to send governance messages.
func (k Keeper) GetAuthority() string {
	return k.authority
}

// ModuleAddress returns the account holding escrow, reserves and fee vaults.
func (k Keeper) ModuleAddress() sdk.AccAddress {
	return k.moduleAddr
}

// Logger returns a module-specific logger.
func (k Keeper) Logger(ctx context.Context) log.Logger {
	return sdk.UnwrapSDKContext(ctx).Logger().With("module", "x/"+types.ModuleName)
}

// getStore returns the KVStore for the dex module
func (k Keeper) getStore(ctx context.Context) storetypes.KVStore {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return sdkCtx.KVStore(k.storeKey)
}
