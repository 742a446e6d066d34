package keeper

import (
	"context"

	"cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/paw-chain/dexchain/x/dex/types"
)

// lockFunds moves amount of denom from owner into the module account.
func (k Keeper) lockFunds(ctx context.Context, owner sdk.AccAddress, denom string, amount math.Int) error {
	if !amount.IsPositive() {
		return nil
	}
	coins := sdk.NewCoins(sdk.NewCoin(denom, amount))
	if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, owner, types.ModuleName, coins); err != nil {
		return ledgerError(err)
	}
	return nil
}

// releaseFunds pays amount of denom from the module account to recipient.
func (k Keeper) releaseFunds(ctx context.Context, recipient sdk.AccAddress, denom string, amount math.Int) error {
	if !amount.IsPositive() {
		return nil
	}
	coins := sdk.NewCoins(sdk.NewCoin(denom, amount))
	if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, recipient, coins); err != nil {
		return ledgerError(err)
	}
	return nil
}

// transferFunds moves amount of denom directly between two accounts.
func (k Keeper) transferFunds(ctx context.Context, from, to sdk.AccAddress, denom string, amount math.Int) error {
	if !amount.IsPositive() {
		return nil
	}
	if err := k.bankKeeper.SendCoins(ctx, from, to, sdk.NewCoins(sdk.NewCoin(denom, amount))); err != nil {
		return ledgerError(err)
	}
	return nil
}

func ledgerError(err error) error {
	if errors.IsOf(err, sdkerrors.ErrInsufficientFunds) {
		return types.ErrInsufficientBalance.Wrap(err.Error())
	}
	return err
}
