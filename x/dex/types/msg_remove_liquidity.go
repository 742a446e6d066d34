package types

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// MsgRemoveLiquidity withdraws AmountA of TokenA from the provider's position along
// with the proportional share of TokenB. A non-zero AmountB is the minimum TokenB the
// provider will accept.
type MsgRemoveLiquidity struct {
	Provider string   `json:"provider"`
	TokenA   string   `json:"token_a"`
	TokenB   string   `json:"token_b"`
	AmountA  math.Int `json:"amount_a"`
	AmountB  math.Int `json:"amount_b"`
}

// NewMsgRemoveLiquidity creates a new MsgRemoveLiquidity instance
func NewMsgRemoveLiquidity(provider, tokenA, tokenB string, amountA, minAmountB math.Int) *MsgRemoveLiquidity {
	return &MsgRemoveLiquidity{
		Provider: provider,
		TokenA:   tokenA,
		TokenB:   tokenB,
		AmountA:  amountA,
		AmountB:  minAmountB,
	}
}

func (msg MsgRemoveLiquidity) Route() string { return RouterKey }
func (msg MsgRemoveLiquidity) Type() string  { return TypeMsgRemoveLiquidity }

func (msg MsgRemoveLiquidity) GetSigners() []sdk.AccAddress { return mustSigner(msg.Provider) }

func (msg MsgRemoveLiquidity) GetSignBytes() []byte { return signBytes(&msg) }

func (msg MsgRemoveLiquidity) ValidateBasic() error {
	if err := validateAddress("provider", msg.Provider); err != nil {
		return err
	}
	if err := validateTokenPair(msg.TokenA, msg.TokenB); err != nil {
		return err
	}
	if err := ValidateAmount("amount a", msg.AmountA); err != nil {
		return err
	}
	return ValidateOptionalAmount("amount b", msg.AmountB)
}
