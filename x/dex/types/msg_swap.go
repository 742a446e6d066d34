package types

import (
	sdkerrors "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// MsgSwap defines a message to swap tokens using AMM
type MsgSwap struct {
	Trader       string   `json:"trader"`
	TokenIn      string   `json:"token_in"`
	TokenOut     string   `json:"token_out"`
	AmountIn     math.Int `json:"amount_in"`
	MinAmountOut math.Int `json:"min_amount_out"`
}

// NewMsgSwap creates a new MsgSwap instance
func NewMsgSwap(trader, tokenIn, tokenOut string, amountIn, minAmountOut math.Int) *MsgSwap {
	return &MsgSwap{
		Trader:       trader,
		TokenIn:      tokenIn,
		TokenOut:     tokenOut,
		AmountIn:     amountIn,
		MinAmountOut: minAmountOut,
	}
}

// Route implements the sdk.Msg interface
func (msg MsgSwap) Route() string {
	return RouterKey
}

// Type implements the sdk.Msg interface
func (msg MsgSwap) Type() string {
	return TypeMsgSwap
}

// GetSigners implements the sdk.Msg interface
func (msg MsgSwap) GetSigners() []sdk.AccAddress {
	return mustSigner(msg.Trader)
}

// GetSignBytes implements the sdk.Msg interface
func (msg MsgSwap) GetSignBytes() []byte {
	return signBytes(&msg)
}

// ValidateBasic implements the sdk.Msg interface
func (msg MsgSwap) ValidateBasic() error {
	// Validate trader address
	if err := validateAddress("trader", msg.Trader); err != nil {
		return err
	}

	// Validate token denoms
	if err := validateTokenPair(msg.TokenIn, msg.TokenOut); err != nil {
		return err
	}

	// Validate amounts
	if err := ValidateAmount("amount in", msg.AmountIn); err != nil {
		return err
	}
	if !msg.MinAmountOut.IsNil() && msg.MinAmountOut.IsNegative() {
		return sdkerrors.Wrap(ErrInvalidAmount, "min amount out cannot be negative")
	}

	return nil
}

// MsgSwapFee converts just enough TokenIn into the fee denom to yield FeeAmount.
// MaxAmountIn, when set, bounds what the trader is willing to spend.
type MsgSwapFee struct {
	Trader      string   `json:"trader"`
	TokenIn     string   `json:"token_in"`
	FeeAmount   math.Int `json:"fee_amount"`
	MaxAmountIn math.Int `json:"max_amount_in"`
}

// NewMsgSwapFee creates a new MsgSwapFee instance
func NewMsgSwapFee(trader, tokenIn string, feeAmount, maxAmountIn math.Int) *MsgSwapFee {
	return &MsgSwapFee{
		Trader:      trader,
		TokenIn:     tokenIn,
		FeeAmount:   feeAmount,
		MaxAmountIn: maxAmountIn,
	}
}

func (msg MsgSwapFee) Route() string { return RouterKey }
func (msg MsgSwapFee) Type() string  { return TypeMsgSwapFee }

func (msg MsgSwapFee) GetSigners() []sdk.AccAddress { return mustSigner(msg.Trader) }

func (msg MsgSwapFee) GetSignBytes() []byte { return signBytes(&msg) }

func (msg MsgSwapFee) ValidateBasic() error {
	if err := validateAddress("trader", msg.Trader); err != nil {
		return err
	}
	if err := validateTokenDenom(msg.TokenIn); err != nil {
		return err
	}
	if err := ValidateAmount("fee amount", msg.FeeAmount); err != nil {
		return err
	}
	return ValidateOptionalAmount("max amount in", msg.MaxAmountIn)
}
