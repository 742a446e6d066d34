package types

import (
	sdkerrors "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// MsgOpenLimitOrder places a limit order on the (base, quote) book.
type MsgOpenLimitOrder struct {
	Creator           string    `json:"creator"`
	BaseDenom         string    `json:"base_denom"`
	QuoteDenom        string    `json:"quote_denom"`
	Side              OrderSide `json:"side"`
	Amount            math.Int  `json:"amount"`
	Price             math.Int  `json:"price"`
	ImmediateOrCancel bool      `json:"immediate_or_cancel"`
}

// NewMsgOpenLimitOrder creates a new MsgOpenLimitOrder instance
func NewMsgOpenLimitOrder(creator, base, quote string, side OrderSide, amount, price math.Int, ioc bool) *MsgOpenLimitOrder {
	return &MsgOpenLimitOrder{
		Creator:           creator,
		BaseDenom:         base,
		QuoteDenom:        quote,
		Side:              side,
		Amount:            amount,
		Price:             price,
		ImmediateOrCancel: ioc,
	}
}

func (msg MsgOpenLimitOrder) Route() string { return RouterKey }
func (msg MsgOpenLimitOrder) Type() string  { return TypeMsgOpenLimitOrder }

func (msg MsgOpenLimitOrder) GetSigners() []sdk.AccAddress { return mustSigner(msg.Creator) }

func (msg MsgOpenLimitOrder) GetSignBytes() []byte { return signBytes(&msg) }

// ValidateBasic performs stateless checks
func (msg MsgOpenLimitOrder) ValidateBasic() error {
	if err := validateAddress("creator", msg.Creator); err != nil {
		return err
	}
	if err := validateTokenPair(msg.BaseDenom, msg.QuoteDenom); err != nil {
		return err
	}
	if !msg.Side.Valid() {
		return sdkerrors.Wrapf(ErrInvalidState, "unknown order side %d", msg.Side)
	}
	if err := ValidateAmount("amount", msg.Amount); err != nil {
		return err
	}
	return ValidatePrice(msg.Price)
}

// MsgOpenMarketOrder sweeps the opposite side of the book. Amount is denominated in
// the token being spent: quote for buys, base for sells.
type MsgOpenMarketOrder struct {
	Creator    string    `json:"creator"`
	BaseDenom  string    `json:"base_denom"`
	QuoteDenom string    `json:"quote_denom"`
	Side       OrderSide `json:"side"`
	Amount     math.Int  `json:"amount"`
}

// NewMsgOpenMarketOrder creates a new MsgOpenMarketOrder instance
func NewMsgOpenMarketOrder(creator, base, quote string, side OrderSide, amount math.Int) *MsgOpenMarketOrder {
	return &MsgOpenMarketOrder{
		Creator:    creator,
		BaseDenom:  base,
		QuoteDenom: quote,
		Side:       side,
		Amount:     amount,
	}
}

func (msg MsgOpenMarketOrder) Route() string { return RouterKey }
func (msg MsgOpenMarketOrder) Type() string  { return TypeMsgOpenMarketOrder }

func (msg MsgOpenMarketOrder) GetSigners() []sdk.AccAddress { return mustSigner(msg.Creator) }

func (msg MsgOpenMarketOrder) GetSignBytes() []byte { return signBytes(&msg) }

func (msg MsgOpenMarketOrder) ValidateBasic() error {
	if err := validateAddress("creator", msg.Creator); err != nil {
		return err
	}
	if err := validateTokenPair(msg.BaseDenom, msg.QuoteDenom); err != nil {
		return err
	}
	if !msg.Side.Valid() {
		return sdkerrors.Wrapf(ErrInvalidState, "unknown order side %d", msg.Side)
	}
	return ValidateAmount("amount", msg.Amount)
}

// MsgCancelExchangeOrder removes a resting limit order and refunds its escrow.
type MsgCancelExchangeOrder struct {
	Creator string `json:"creator"`
	OrderID uint64 `json:"order_id"`
}

func NewMsgCancelExchangeOrder(creator string, orderID uint64) *MsgCancelExchangeOrder {
	return &MsgCancelExchangeOrder{Creator: creator, OrderID: orderID}
}

func (msg MsgCancelExchangeOrder) Route() string { return RouterKey }
func (msg MsgCancelExchangeOrder) Type() string  { return TypeMsgCancelExchangeOrder }

func (msg MsgCancelExchangeOrder) GetSigners() []sdk.AccAddress { return mustSigner(msg.Creator) }

func (msg MsgCancelExchangeOrder) GetSignBytes() []byte { return signBytes(&msg) }

func (msg MsgCancelExchangeOrder) ValidateBasic() error {
	if err := validateAddress("creator", msg.Creator); err != nil {
		return err
	}
	if msg.OrderID == 0 {
		return sdkerrors.Wrap(ErrOrderNotFound, "order id cannot be zero")
	}
	return nil
}
