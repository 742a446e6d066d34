package types

import (
	sdkerrors "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// MsgOpenOTCOrder escrows Amount of QuoteDenom in exchange for Price of BaseDenom.
type MsgOpenOTCOrder struct {
	Creator    string   `json:"creator"`
	BaseDenom  string   `json:"base_denom"`
	QuoteDenom string   `json:"quote_denom"`
	Amount     math.Int `json:"amount"`
	Price      math.Int `json:"price"`
}

func NewMsgOpenOTCOrder(creator, base, quote string, amount, price math.Int) *MsgOpenOTCOrder {
	return &MsgOpenOTCOrder{
		Creator:    creator,
		BaseDenom:  base,
		QuoteDenom: quote,
		Amount:     amount,
		Price:      price,
	}
}

func (msg MsgOpenOTCOrder) Route() string { return RouterKey }
func (msg MsgOpenOTCOrder) Type() string  { return TypeMsgOpenOTCOrder }

func (msg MsgOpenOTCOrder) GetSigners() []sdk.AccAddress { return mustSigner(msg.Creator) }

func (msg MsgOpenOTCOrder) GetSignBytes() []byte { return signBytes(&msg) }

func (msg MsgOpenOTCOrder) ValidateBasic() error {
	if err := validateAddress("creator", msg.Creator); err != nil {
		return err
	}
	if err := validateTokenPair(msg.BaseDenom, msg.QuoteDenom); err != nil {
		return err
	}
	if err := ValidateAmount("amount", msg.Amount); err != nil {
		return err
	}
	return ValidatePrice(msg.Price)
}

// MsgTakeOTCOrder fills an OTC order in full.
type MsgTakeOTCOrder struct {
	Taker   string `json:"taker"`
	OrderID uint64 `json:"order_id"`
}

func NewMsgTakeOTCOrder(taker string, orderID uint64) *MsgTakeOTCOrder {
	return &MsgTakeOTCOrder{Taker: taker, OrderID: orderID}
}

func (msg MsgTakeOTCOrder) Route() string { return RouterKey }
func (msg MsgTakeOTCOrder) Type() string  { return TypeMsgTakeOTCOrder }

func (msg MsgTakeOTCOrder) GetSigners() []sdk.AccAddress { return mustSigner(msg.Taker) }

func (msg MsgTakeOTCOrder) GetSignBytes() []byte { return signBytes(&msg) }

func (msg MsgTakeOTCOrder) ValidateBasic() error {
	if err := validateAddress("taker", msg.Taker); err != nil {
		return err
	}
	if msg.OrderID == 0 {
		return sdkerrors.Wrap(ErrOrderNotFound, "order id cannot be zero")
	}
	return nil
}

// MsgCancelOTCOrder returns an OTC order's escrow to its creator.
type MsgCancelOTCOrder struct {
	Creator string `json:"creator"`
	OrderID uint64 `json:"order_id"`
}

func NewMsgCancelOTCOrder(creator string, orderID uint64) *MsgCancelOTCOrder {
	return &MsgCancelOTCOrder{Creator: creator, OrderID: orderID}
}

func (msg MsgCancelOTCOrder) Route() string { return RouterKey }
func (msg MsgCancelOTCOrder) Type() string  { return TypeMsgCancelOTCOrder }

func (msg MsgCancelOTCOrder) GetSigners() []sdk.AccAddress { return mustSigner(msg.Creator) }

func (msg MsgCancelOTCOrder) GetSignBytes() []byte { return signBytes(&msg) }

func (msg MsgCancelOTCOrder) ValidateBasic() error {
	if err := validateAddress("creator", msg.Creator); err != nil {
		return err
	}
	if msg.OrderID == 0 {
		return sdkerrors.Wrap(ErrOrderNotFound, "order id cannot be zero")
	}
	return nil
}
