package types

import (
	"context"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// BankKeeper defines the ledger the DEX settles against. It is satisfied by the
// x/bank keeper; transfers fail with an insufficient-funds error when the sender
// cannot cover the amount.
type BankKeeper interface {
	SendCoins(ctx context.Context, fromAddr, toAddr sdk.AccAddress, amt sdk.Coins) error
	SendCoinsFromAccountToModule(ctx context.Context, senderAddr sdk.AccAddress, recipientModule string, amt sdk.Coins) error
	SendCoinsFromModuleToAccount(ctx context.Context, senderModule string, recipientAddr sdk.AccAddress, amt sdk.Coins) error
	GetBalance(ctx context.Context, addr sdk.AccAddress, denom string) sdk.Coin
}

// OracleKeeper defines the price feed used to value pool reserves.
type OracleKeeper interface {
	// GetPrice returns the price of one whole unit of denom in the reference currency.
	GetPrice(ctx context.Context, denom string) (sdkmath.LegacyDec, error)
}
