package types

import (
	sdkerrors "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Message types
const (
	TypeMsgOpenLimitOrder       = "open_limit_order"
	TypeMsgOpenMarketOrder      = "open_market_order"
	TypeMsgCancelExchangeOrder  = "cancel_exchange_order"
	TypeMsgOpenOTCOrder         = "open_otc_order"
	TypeMsgTakeOTCOrder         = "take_otc_order"
	TypeMsgCancelOTCOrder       = "cancel_otc_order"
	TypeMsgCreatePool           = "create_pool"
	TypeMsgAddLiquidity         = "add_liquidity"
	TypeMsgRemoveLiquidity      = "remove_liquidity"
	TypeMsgSwap                 = "swap"
	TypeMsgSwapFee              = "swap_fee"
	TypeMsgClaimFees            = "claim_fees"
	TypeMsgWithdrawProtocolFees = "withdraw_protocol_fees"
	TypeMsgRegisterToken        = "register_token"
)

const maxTokenDenomLength = 128

// validateTokenDenom checks that a denom is non-empty, bounded and well-formed.
func validateTokenDenom(denom string) error {
	if denom == "" {
		return sdkerrors.Wrap(ErrInvalidTokenPair, "token denomination cannot be empty")
	}
	if len(denom) > maxTokenDenomLength {
		return sdkerrors.Wrap(ErrInvalidTokenPair, "token denomination too long")
	}
	if err := sdk.ValidateDenom(denom); err != nil {
		return sdkerrors.Wrapf(ErrInvalidTokenPair, "invalid denom %q: %s", denom, err)
	}
	return nil
}

// validateTokenPair checks both denoms and that they differ.
func validateTokenPair(denomA, denomB string) error {
	if err := validateTokenDenom(denomA); err != nil {
		return err
	}
	if err := validateTokenDenom(denomB); err != nil {
		return err
	}
	if denomA == denomB {
		return sdkerrors.Wrap(ErrInvalidTokenPair, "tokens must be different")
	}
	return nil
}

func validateAddress(field, addr string) error {
	if _, err := sdk.AccAddressFromBech32(addr); err != nil {
		return sdkerrors.Wrapf(ErrInvalidAddress, "invalid %s address: %s", field, err)
	}
	return nil
}

func mustSigner(addr string) []sdk.AccAddress {
	acc, err := sdk.AccAddressFromBech32(addr)
	if err != nil {
		panic(err)
	}
	return []sdk.AccAddress{acc}
}

func signBytes(msg any) []byte {
	return sdk.MustSortJSON(amino.MustMarshalJSON(msg))
}
