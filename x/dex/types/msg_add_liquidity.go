package types

import (
	sdkerrors "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// MsgAddLiquidity deposits into an existing pool. Either amount may be zero, in which
// case it is derived from the pool's current ratio.
type MsgAddLiquidity struct {
	Provider string   `json:"provider"`
	TokenA   string   `json:"token_a"`
	TokenB   string   `json:"token_b"`
	AmountA  math.Int `json:"amount_a"`
	AmountB  math.Int `json:"amount_b"`
}

// NewMsgAddLiquidity creates a new MsgAddLiquidity instance
func NewMsgAddLiquidity(provider, tokenA, tokenB string, amountA, amountB math.Int) *MsgAddLiquidity {
	return &MsgAddLiquidity{
		Provider: provider,
		TokenA:   tokenA,
		TokenB:   tokenB,
		AmountA:  amountA,
		AmountB:  amountB,
	}
}

func (msg MsgAddLiquidity) Route() string { return RouterKey }
func (msg MsgAddLiquidity) Type() string  { return TypeMsgAddLiquidity }

func (msg MsgAddLiquidity) GetSigners() []sdk.AccAddress { return mustSigner(msg.Provider) }

func (msg MsgAddLiquidity) GetSignBytes() []byte { return signBytes(&msg) }

// ValidateBasic implements the sdk.Msg interface
func (msg MsgAddLiquidity) ValidateBasic() error {
	if err := validateAddress("provider", msg.Provider); err != nil {
		return err
	}
	if err := validateTokenPair(msg.TokenA, msg.TokenB); err != nil {
		return err
	}
	if err := ValidateOptionalAmount("amount a", msg.AmountA); err != nil {
		return err
	}
	if err := ValidateOptionalAmount("amount b", msg.AmountB); err != nil {
		return err
	}
	if isZeroOrNil(msg.AmountA) && isZeroOrNil(msg.AmountB) {
		return sdkerrors.Wrap(ErrInvalidAmount, "at least one amount must be positive")
	}
	return nil
}

func isZeroOrNil(v math.Int) bool {
	return v.IsNil() || v.IsZero()
}
