package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/dexchain/x/dex/types"
)

// OpenLimitOrder escrows the order's funds, matches it against the opposite side
// of the book in price-time priority and then either closes it, cancels the
// remainder or rests it on the book. A remainder is cancelled when the order is
// immediate-or-cancel, when it is worth less than one quote unit, or when it
// still crosses the book because matching stopped at the fill cap.
func (k Keeper) OpenLimitOrder(
	ctx context.Context,
	creator sdk.AccAddress,
	base, quote string,
	side types.OrderSide,
	amount, price math.Int,
	immediateOrCancel bool,
) (types.OrderResult, error) {
	// 1. Validate inputs before touching any funds
	if !side.Valid() {
		return types.OrderResult{}, types.ErrInvalidState.Wrapf("unknown order side %d", side)
	}
	if err := types.ValidateAmount("amount", amount); err != nil {
		return types.OrderResult{}, err
	}
	if err := types.ValidatePrice(price); err != nil {
		return types.OrderResult{}, err
	}
	baseInfo, _, err := k.requireTokens(ctx, base, quote)
	if err != nil {
		return types.OrderResult{}, err
	}
	params, err := k.GetParams(ctx)
	if err != nil {
		return types.OrderResult{}, err
	}

	// 2. Minimum quantity policy
	if err := CheckMinimum("amount", amount, params.MinOrderAmount); err != nil {
		return types.OrderResult{}, err
	}
	notional, err := QuoteValue(amount, price, baseInfo.Decimals)
	if err != nil {
		return types.OrderResult{}, err
	}
	if err := CheckMinimum("notional", notional, params.MinOrderNotional); err != nil {
		return types.OrderResult{}, err
	}

	// 3. Lock escrow: quote for bids, base for asks
	escrow := amount
	if side == types.OrderSideBuy {
		escrow = notional
	}
	order := k.newOrder(ctx, creator, base, quote, side, types.OrderKindLimit, price, amount, escrow)
	order.ImmediateOrCancel = immediateOrCancel
	if err := k.lockFunds(ctx, creator, order.EscrowDenom(), escrow); err != nil {
		return types.OrderResult{}, err
	}
	k.emitOrderCreated(ctx, order)

	// 4. Match, then close, cancel or rest
	fills, err := k.matchOrder(ctx, &order, params, baseInfo.Decimals)
	if err != nil {
		return types.OrderResult{}, err
	}
	rest := false
	if !immediateOrCancel {
		if rest, err = k.canRest(ctx, order, baseInfo.Decimals); err != nil {
			return types.OrderResult{}, err
		}
	}
	return k.finalizeTaker(ctx, order, fills, rest)
}

// canRest reports whether a limit remainder may join the book.
func (k Keeper) canRest(ctx context.Context, order types.ExchangeOrder, baseDecimals uint32) (bool, error) {
	dust, err := isDust(order, baseDecimals)
	if err != nil || dust {
		return false, err
	}
	best, found, err := k.bestOrder(ctx, order.BaseDenom, order.QuoteDenom, order.Side.Opposite())
	if err != nil {
		return false, err
	}
	return !found || !crosses(order, best), nil
}

// isDust reports whether a limit order's remainder is worth less than one quote
// unit at its own price. Such an order can never trade.
func isDust(order types.ExchangeOrder, baseDecimals uint32) (bool, error) {
	if !order.RemainingAmount.IsPositive() {
		return false, nil
	}
	value, err := QuoteValue(order.RemainingAmount, order.Price, baseDecimals)
	if err != nil {
		return false, err
	}
	return !value.IsPositive(), nil
}

// OpenMarketOrder sweeps the opposite side of the book by price priority. Amount is
// the quote budget for buys and the base quantity for sells. Market orders never
// rest; anything unmatched is refunded.
func (k Keeper) OpenMarketOrder(
	ctx context.Context,
	creator sdk.AccAddress,
	base, quote string,
	side types.OrderSide,
	amount math.Int,
) (types.OrderResult, error) {
	if !side.Valid() {
		return types.OrderResult{}, types.ErrInvalidState.Wrapf("unknown order side %d", side)
	}
	if err := types.ValidateAmount("amount", amount); err != nil {
		return types.OrderResult{}, err
	}
	baseInfo, _, err := k.requireTokens(ctx, base, quote)
	if err != nil {
		return types.OrderResult{}, err
	}
	params, err := k.GetParams(ctx)
	if err != nil {
		return types.OrderResult{}, err
	}
	minimum := params.MinOrderAmount
	if side == types.OrderSideBuy {
		minimum = params.MinOrderNotional
	}
	if err := CheckMinimum("amount", amount, minimum); err != nil {
		return types.OrderResult{}, err
	}

	order := k.newOrder(ctx, creator, base, quote, side, types.OrderKindMarket, math.ZeroInt(), amount, amount)
	order.ImmediateOrCancel = true
	if err := k.lockFunds(ctx, creator, order.EscrowDenom(), amount); err != nil {
		return types.OrderResult{}, err
	}
	k.emitOrderCreated(ctx, order)

	fills, err := k.matchOrder(ctx, &order, params, baseInfo.Decimals)
	if err != nil {
		return types.OrderResult{}, err
	}
	return k.finalizeTaker(ctx, order, fills, false)
}

// CancelExchangeOrder removes a resting order and refunds its escrow. Only the
// creator may cancel.
func (k Keeper) CancelExchangeOrder(ctx context.Context, creator sdk.AccAddress, uid uint64) (math.Int, error) {
	order, err := k.GetOrder(ctx, uid)
	if err != nil {
		return math.Int{}, err
	}
	if order.Creator != creator.String() {
		return math.Int{}, types.ErrNotAuthorized.Wrapf("order %d belongs to %s", uid, order.Creator)
	}

	k.deleteOrder(ctx, order)
	refund := order.EscrowRemaining
	if err := k.releaseFunds(ctx, creator, order.EscrowDenom(), refund); err != nil {
		return math.Int{}, err
	}
	k.emitOrderCancelled(ctx, order, refund)
	if k.metrics != nil {
		k.metrics.OrdersCancelled.WithLabelValues(pairLabel(order.BaseDenom, order.QuoteDenom), order.Side.String(), "user").Inc()
	}
	return refund, nil
}

func (k Keeper) newOrder(
	ctx context.Context,
	creator sdk.AccAddress,
	base, quote string,
	side types.OrderSide,
	kind types.OrderKind,
	price, amount, escrow math.Int,
) types.ExchangeOrder {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return types.ExchangeOrder{
		UID:             k.nextOrderUID(ctx),
		Creator:         creator.String(),
		BaseDenom:       base,
		QuoteDenom:      quote,
		Side:            side,
		Kind:            kind,
		Price:           price,
		Amount:          amount,
		RemainingAmount: amount,
		EscrowRemaining: escrow,
		Timestamp:       sdkCtx.BlockTime().Unix(),
		Height:          sdkCtx.BlockHeight(),
	}
}

// matchOrder fills taker against resting makers until it is exhausted, the
// opposite side is empty, prices stop crossing or the per-order fill cap is hit.
// The maker's price always sets the fill price. A maker too small to be worth one
// quote unit is closed and skipped; a taker in the same position stops matching.
func (k Keeper) matchOrder(ctx context.Context, taker *types.ExchangeOrder, params types.Params, baseDecimals uint32) ([]types.Fill, error) {
	var fills []types.Fill
	for uint32(len(fills)) < params.MaxFillsPerOrder && taker.RemainingAmount.IsPositive() {
		maker, found, err := k.bestOrder(ctx, taker.BaseDenom, taker.QuoteDenom, taker.Side.Opposite())
		if err != nil {
			return nil, err
		}
		if !found || !crosses(*taker, maker) {
			break
		}

		fillBase, err := fillQuantity(*taker, maker, baseDecimals)
		if err != nil {
			return nil, err
		}
		if !fillBase.IsPositive() {
			break
		}
		fillQuote, err := QuoteValue(fillBase, maker.Price, baseDecimals)
		if err != nil {
			return nil, err
		}
		if !fillQuote.IsPositive() {
			if fillBase.Equal(maker.RemainingAmount) {
				if err := k.closeOrder(ctx, maker); err != nil {
					return nil, err
				}
				continue
			}
			break
		}

		fill, err := k.settleFill(ctx, taker, &maker, fillBase, fillQuote, baseDecimals)
		if err != nil {
			return nil, err
		}
		fills = append(fills, fill)
	}
	return fills, nil
}

// crosses reports whether a maker is price-compatible with the taker. Market
// orders accept any price.
func crosses(taker, maker types.ExchangeOrder) bool {
	if taker.Kind == types.OrderKindMarket {
		return true
	}
	switch taker.Side {
	case types.OrderSideBuy:
		return maker.Price.LTE(taker.Price)
	case types.OrderSideSell:
		return maker.Price.GTE(taker.Price)
	default:
		return false
	}
}

// fillQuantity is the base amount exchanged between taker and maker.
func fillQuantity(taker, maker types.ExchangeOrder, baseDecimals uint32) (math.Int, error) {
	takerBase := taker.RemainingAmount
	if taker.Kind == types.OrderKindMarket && taker.Side == types.OrderSideBuy {
		affordable, err := BaseForQuote(taker.RemainingAmount, maker.Price, baseDecimals)
		if err != nil {
			return math.Int{}, err
		}
		takerBase = affordable
	}
	return math.MinInt(takerBase, maker.RemainingAmount), nil
}

// settleFill pays both parties out of escrow, updates both orders and closes the
// maker if it is exhausted or left as dust.
func (k Keeper) settleFill(ctx context.Context, taker, maker *types.ExchangeOrder, fillBase, fillQuote math.Int, baseDecimals uint32) (types.Fill, error) {
	buyer, seller := taker, maker
	if taker.Side == types.OrderSideSell {
		buyer, seller = maker, taker
	}

	var err error
	if buyer.EscrowRemaining, err = SafeSub(buyer.EscrowRemaining, fillQuote); err != nil {
		return types.Fill{}, types.ErrInvariantViolation.Wrapf("order %d quote escrow: %v", buyer.UID, err)
	}
	if seller.EscrowRemaining, err = SafeSub(seller.EscrowRemaining, fillBase); err != nil {
		return types.Fill{}, types.ErrInvariantViolation.Wrapf("order %d base escrow: %v", seller.UID, err)
	}

	buyerAddr, err := sdk.AccAddressFromBech32(buyer.Creator)
	if err != nil {
		return types.Fill{}, types.ErrInvalidAddress.Wrap(err.Error())
	}
	sellerAddr, err := sdk.AccAddressFromBech32(seller.Creator)
	if err != nil {
		return types.Fill{}, types.ErrInvalidAddress.Wrap(err.Error())
	}
	if err := k.releaseFunds(ctx, sellerAddr, taker.QuoteDenom, fillQuote); err != nil {
		return types.Fill{}, err
	}
	if err := k.releaseFunds(ctx, buyerAddr, taker.BaseDenom, fillBase); err != nil {
		return types.Fill{}, err
	}

	// A market buy's remaining amount is its quote budget.
	takerSpent := fillBase
	if taker.Kind == types.OrderKindMarket && taker.Side == types.OrderSideBuy {
		takerSpent = fillQuote
	}
	taker.RemainingAmount = taker.RemainingAmount.Sub(takerSpent)
	maker.RemainingAmount = maker.RemainingAmount.Sub(fillBase)

	fill := types.Fill{
		MakerOrderID: maker.UID,
		Maker:        maker.Creator,
		Price:        maker.Price,
		BaseAmount:   fillBase,
		QuoteAmount:  fillQuote,
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeOrderFilled,
			sdk.NewAttribute(types.AttributeKeyOrderID, fmt.Sprintf("%d", taker.UID)),
			sdk.NewAttribute(types.AttributeKeyMakerOrderID, fmt.Sprintf("%d", maker.UID)),
			sdk.NewAttribute(types.AttributeKeyTaker, taker.Creator),
			sdk.NewAttribute(types.AttributeKeyMaker, maker.Creator),
			sdk.NewAttribute(types.AttributeKeyPrice, maker.Price.String()),
			sdk.NewAttribute(types.AttributeKeyAmount, fillBase.String()),
			sdk.NewAttribute(types.AttributeKeyQuoteAmount, fillQuote.String()),
		),
	)
	k.Logger(ctx).Debug("order filled",
		"taker", taker.UID, "maker", maker.UID, "price", maker.Price.String(), "base", fillBase.String())
	if k.metrics != nil {
		k.metrics.OrderFills.WithLabelValues(pairLabel(taker.BaseDenom, taker.QuoteDenom)).Inc()
	}
	if k.hooks != nil {
		if err := k.hooks.AfterOrderFilled(ctx, taker.BaseDenom, taker.QuoteDenom, taker.UID, fill); err != nil {
			return types.Fill{}, err
		}
	}

	makerDust, err := isDust(*maker, baseDecimals)
	if err != nil {
		return types.Fill{}, err
	}
	if maker.RemainingAmount.IsZero() || makerDust {
		if err := k.closeOrder(ctx, *maker); err != nil {
			return types.Fill{}, err
		}
	} else if err := k.SetOrder(ctx, *maker); err != nil {
		return types.Fill{}, err
	}
	return fill, nil
}

// closeOrder removes a filled or dust resting order and refunds its escrow: the
// unfilled dust plus whatever price improvement and rounding left over.
func (k Keeper) closeOrder(ctx context.Context, order types.ExchangeOrder) error {
	k.deleteOrder(ctx, order)
	return k.completeOrder(ctx, order)
}

func (k Keeper) completeOrder(ctx context.Context, order types.ExchangeOrder) error {
	creator, err := sdk.AccAddressFromBech32(order.Creator)
	if err != nil {
		return types.ErrInvalidAddress.Wrap(err.Error())
	}
	refund := order.EscrowRemaining
	if err := k.releaseFunds(ctx, creator, order.EscrowDenom(), refund); err != nil {
		return err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeOrderClosed,
			sdk.NewAttribute(types.AttributeKeyOrderID, fmt.Sprintf("%d", order.UID)),
			sdk.NewAttribute(types.AttributeKeyCreator, order.Creator),
			sdk.NewAttribute(types.AttributeKeyFilled, order.Amount.Sub(order.RemainingAmount).String()),
			sdk.NewAttribute(types.AttributeKeyRefunded, refund.String()),
		),
	)
	if k.metrics != nil {
		k.metrics.OrdersClosed.WithLabelValues(pairLabel(order.BaseDenom, order.QuoteDenom), order.Side.String()).Inc()
	}
	return nil
}

// finalizeTaker settles the incoming order after matching.
func (k Keeper) finalizeTaker(ctx context.Context, order types.ExchangeOrder, fills []types.Fill, rest bool) (types.OrderResult, error) {
	result := types.OrderResult{Order: order, Fills: fills}

	switch {
	case order.RemainingAmount.IsZero():
		if err := k.completeOrder(ctx, order); err != nil {
			return types.OrderResult{}, err
		}
		result.Status = types.OrderStatusFilled
		result.Order.EscrowRemaining = math.ZeroInt()

	case rest:
		if err := k.SetOrder(ctx, order); err != nil {
			return types.OrderResult{}, err
		}
		result.Status = types.OrderStatusOpen

	default:
		creator, err := sdk.AccAddressFromBech32(order.Creator)
		if err != nil {
			return types.OrderResult{}, types.ErrInvalidAddress.Wrap(err.Error())
		}
		refund := order.EscrowRemaining
		if err := k.releaseFunds(ctx, creator, order.EscrowDenom(), refund); err != nil {
			return types.OrderResult{}, err
		}
		k.emitOrderCancelled(ctx, order, refund)
		if k.metrics != nil {
			k.metrics.OrdersCancelled.WithLabelValues(pairLabel(order.BaseDenom, order.QuoteDenom), order.Side.String(), "unfilled").Inc()
		}
		result.Status = types.OrderStatusCancelled
		result.Order.EscrowRemaining = math.ZeroInt()
	}
	return result, nil
}

func (k Keeper) emitOrderCreated(ctx context.Context, order types.ExchangeOrder) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeOrderCreated,
			sdk.NewAttribute(types.AttributeKeyOrderID, fmt.Sprintf("%d", order.UID)),
			sdk.NewAttribute(types.AttributeKeyCreator, order.Creator),
			sdk.NewAttribute(types.AttributeKeyKind, order.Kind.String()),
			sdk.NewAttribute(types.AttributeKeySide, order.Side.String()),
			sdk.NewAttribute(types.AttributeKeyBaseDenom, order.BaseDenom),
			sdk.NewAttribute(types.AttributeKeyQuoteDenom, order.QuoteDenom),
			sdk.NewAttribute(types.AttributeKeyPrice, order.Price.String()),
			sdk.NewAttribute(types.AttributeKeyAmount, order.Amount.String()),
			sdk.NewAttribute(types.AttributeKeyImmediate, fmt.Sprintf("%t", order.ImmediateOrCancel)),
		),
	)
	if k.metrics != nil {
		k.metrics.OrdersOpened.WithLabelValues(pairLabel(order.BaseDenom, order.QuoteDenom), order.Side.String(), order.Kind.String()).Inc()
	}
}

func (k Keeper) emitOrderCancelled(ctx context.Context, order types.ExchangeOrder, refund math.Int) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeOrderCancelled,
			sdk.NewAttribute(types.AttributeKeyOrderID, fmt.Sprintf("%d", order.UID)),
			sdk.NewAttribute(types.AttributeKeyCreator, order.Creator),
			sdk.NewAttribute(types.AttributeKeyFilled, order.Amount.Sub(order.RemainingAmount).String()),
			sdk.NewAttribute(types.AttributeKeyRefunded, refund.String()),
		),
	)
}
