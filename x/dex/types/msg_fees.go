package types

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// MsgClaimFees pays out the provider's accrued LP fees for a pool.
type MsgClaimFees struct {
	Provider string `json:"provider"`
	TokenA   string `json:"token_a"`
	TokenB   string `json:"token_b"`
}

func NewMsgClaimFees(provider, tokenA, tokenB string) *MsgClaimFees {
	return &MsgClaimFees{Provider: provider, TokenA: tokenA, TokenB: tokenB}
}

func (msg MsgClaimFees) Route() string { return RouterKey }
func (msg MsgClaimFees) Type() string  { return TypeMsgClaimFees }

func (msg MsgClaimFees) GetSigners() []sdk.AccAddress { return mustSigner(msg.Provider) }

func (msg MsgClaimFees) GetSignBytes() []byte { return signBytes(&msg) }

func (msg MsgClaimFees) ValidateBasic() error {
	if err := validateAddress("provider", msg.Provider); err != nil {
		return err
	}
	return validateTokenPair(msg.TokenA, msg.TokenB)
}

// MsgWithdrawProtocolFees moves accrued protocol fees of one pool to a recipient.
// Only the module authority may send it.
type MsgWithdrawProtocolFees struct {
	Authority string   `json:"authority"`
	Recipient string   `json:"recipient"`
	TokenA    string   `json:"token_a"`
	TokenB    string   `json:"token_b"`
	Denom     string   `json:"denom"`
	Amount    math.Int `json:"amount"`
}

func NewMsgWithdrawProtocolFees(authority, recipient, tokenA, tokenB, denom string, amount math.Int) *MsgWithdrawProtocolFees {
	return &MsgWithdrawProtocolFees{
		Authority: authority,
		Recipient: recipient,
		TokenA:    tokenA,
		TokenB:    tokenB,
		Denom:     denom,
		Amount:    amount,
	}
}

func (msg MsgWithdrawProtocolFees) Route() string { return RouterKey }
func (msg MsgWithdrawProtocolFees) Type() string  { return TypeMsgWithdrawProtocolFees }

func (msg MsgWithdrawProtocolFees) GetSigners() []sdk.AccAddress { return mustSigner(msg.Authority) }

func (msg MsgWithdrawProtocolFees) GetSignBytes() []byte { return signBytes(&msg) }

func (msg MsgWithdrawProtocolFees) ValidateBasic() error {
	if err := validateAddress("authority", msg.Authority); err != nil {
		return err
	}
	if err := validateAddress("recipient", msg.Recipient); err != nil {
		return err
	}
	if err := validateTokenPair(msg.TokenA, msg.TokenB); err != nil {
		return err
	}
	if err := validateTokenDenom(msg.Denom); err != nil {
		return err
	}
	return ValidateAmount("amount", msg.Amount)
}
