package types

import (
	sdkerrors "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// MsgRegisterToken makes a denom tradable. Only the module authority may send it.
type MsgRegisterToken struct {
	Authority string `json:"authority"`
	Denom     string `json:"denom"`
	Decimals  uint32 `json:"decimals"`
}

func NewMsgRegisterToken(authority, denom string, decimals uint32) *MsgRegisterToken {
	return &MsgRegisterToken{Authority: authority, Denom: denom, Decimals: decimals}
}

func (msg MsgRegisterToken) Route() string { return RouterKey }
func (msg MsgRegisterToken) Type() string  { return TypeMsgRegisterToken }

func (msg MsgRegisterToken) GetSigners() []sdk.AccAddress { return mustSigner(msg.Authority) }

func (msg MsgRegisterToken) GetSignBytes() []byte { return signBytes(&msg) }

func (msg MsgRegisterToken) ValidateBasic() error {
	if err := validateAddress("authority", msg.Authority); err != nil {
		return err
	}
	if err := validateTokenDenom(msg.Denom); err != nil {
		return err
	}
	if msg.Decimals > MaxDecimals {
		return sdkerrors.Wrapf(ErrInvalidAmount, "decimals %d exceed %d", msg.Decimals, MaxDecimals)
	}
	return nil
}
