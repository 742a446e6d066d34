package types

import (
	"fmt"

	sdkmath "cosmossdk.io/math"
)

// OrderSide is the direction of an exchange order.
type OrderSide int32

const (
	OrderSideBuy  OrderSide = 0
	OrderSideSell OrderSide = 1
)

// String returns the side name used in events.
func (s OrderSide) String() string {
	switch s {
	case OrderSideBuy:
		return "buy"
	case OrderSideSell:
		return "sell"
	default:
		return fmt.Sprintf("side(%d)", int32(s))
	}
}

// Opposite returns the side that an order of this side matches against.
func (s OrderSide) Opposite() OrderSide {
	if s == OrderSideBuy {
		return OrderSideSell
	}
	return OrderSideBuy
}

// ParseOrderSide parses "buy" or "sell".
func ParseOrderSide(s string) (OrderSide, error) {
	switch s {
	case "buy":
		return OrderSideBuy, nil
	case "sell":
		return OrderSideSell, nil
	default:
		return 0, ErrInvalidState.Wrapf("unknown order side %q", s)
	}
}

// Valid reports whether s is a known side.
func (s OrderSide) Valid() bool {
	return s == OrderSideBuy || s == OrderSideSell
}

// OrderKind distinguishes how an order was placed.
type OrderKind int32

const (
	OrderKindLimit  OrderKind = 0
	OrderKindMarket OrderKind = 1
	OrderKindOTC    OrderKind = 2
)

func (k OrderKind) String() string {
	switch k {
	case OrderKindLimit:
		return "limit"
	case OrderKindMarket:
		return "market"
	case OrderKindOTC:
		return "otc"
	default:
		return fmt.Sprintf("kind(%d)", int32(k))
	}
}

// OrderStatus is the terminal (or resting) state reported back to the caller.
type OrderStatus int32

const (
	OrderStatusOpen      OrderStatus = 0
	OrderStatusFilled    OrderStatus = 1
	OrderStatusCancelled OrderStatus = 2
)

func (s OrderStatus) String() string {
	switch s {
	case OrderStatusOpen:
		return "open"
	case OrderStatusFilled:
		return "filled"
	case OrderStatusCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("status(%d)", int32(s))
	}
}

// ExchangeOrder is an order resting on (or passing through) the order book.
//
// Price is expressed in quote atomic units per whole base token, i.e. per
// 10^decimals(base) base atomic units. For buy orders Amount is base quantity,
// except market buys where Amount is the quote budget. EscrowRemaining tracks the
// funds still held by the module on the order's behalf.
type ExchangeOrder struct {
	UID               uint64      `json:"uid"`
	Creator           string      `json:"creator"`
	BaseDenom         string      `json:"base_denom"`
	QuoteDenom        string      `json:"quote_denom"`
	Side              OrderSide   `json:"side"`
	Kind              OrderKind   `json:"kind"`
	Price             sdkmath.Int `json:"price"`
	Amount            sdkmath.Int `json:"amount"`
	RemainingAmount   sdkmath.Int `json:"remaining_amount"`
	EscrowRemaining   sdkmath.Int `json:"escrow_remaining"`
	ImmediateOrCancel bool        `json:"immediate_or_cancel"`
	Timestamp         int64       `json:"timestamp"`
	Height            int64       `json:"height"`
}

// EscrowDenom returns the denom the order's escrow is held in.
func (o ExchangeOrder) EscrowDenom() string {
	if o.Side == OrderSideBuy {
		return o.QuoteDenom
	}
	return o.BaseDenom
}

// OTCOrder is a fixed bilateral offer: the creator escrows Amount of the quote token
// and asks for Price of the base token in return. Whoever takes the order pays Price
// base to the creator and receives the escrowed quote.
type OTCOrder struct {
	UID        uint64      `json:"uid"`
	Creator    string      `json:"creator"`
	BaseDenom  string      `json:"base_denom"`
	QuoteDenom string      `json:"quote_denom"`
	Amount     sdkmath.Int `json:"amount"`
	Price      sdkmath.Int `json:"price"`
	Timestamp  int64       `json:"timestamp"`
	Height     int64       `json:"height"`
}

// Fill records one match between a taker and a resting maker order.
type Fill struct {
	MakerOrderID uint64      `json:"maker_order_id"`
	Maker        string      `json:"maker"`
	Price        sdkmath.Int `json:"price"`
	BaseAmount   sdkmath.Int `json:"base_amount"`
	QuoteAmount  sdkmath.Int `json:"quote_amount"`
}

// OrderResult is returned from order placement.
type OrderResult struct {
	Order  ExchangeOrder `json:"order"`
	Fills  []Fill        `json:"fills"`
	Status OrderStatus   `json:"status"`
}

// FilledBase sums the base quantity across all fills.
func (r OrderResult) FilledBase() sdkmath.Int {
	total := sdkmath.ZeroInt()
	for _, f := range r.Fills {
		total = total.Add(f.BaseAmount)
	}
	return total
}

// FilledQuote sums the quote quantity across all fills.
func (r OrderResult) FilledQuote() sdkmath.Int {
	total := sdkmath.ZeroInt()
	for _, f := range r.Fills {
		total = total.Add(f.QuoteAmount)
	}
	return total
}

// Pool is a constant-product liquidity pool for a canonical denom pair.
//
// Amount0/Amount1 are the trading reserves. Swap fees are not added to reserves;
// the LP portion is held in FeeVault0/1 and distributed through AccFeePerShare,
// the protocol portion accrues in ProtocolFees0/1. A swap therefore moves the
// input reserve by the after-fee amount only, and the reserve product grows
// solely from flooring the output, never from fees. LPs earn fees through
// ClaimFees rather than through a rising reserve product.
type Pool struct {
	Denom0          string      `json:"denom0"`
	Denom1          string      `json:"denom1"`
	Amount0         sdkmath.Int `json:"amount0"`
	Amount1         sdkmath.Int `json:"amount1"`
	TotalLiquidity  sdkmath.Int `json:"total_liquidity"`
	AccFeePerShare0 sdkmath.Int `json:"acc_fee_per_share0"`
	AccFeePerShare1 sdkmath.Int `json:"acc_fee_per_share1"`
	FeeVault0       sdkmath.Int `json:"fee_vault0"`
	FeeVault1       sdkmath.Int `json:"fee_vault1"`
	ProtocolFees0   sdkmath.Int `json:"protocol_fees0"`
	ProtocolFees1   sdkmath.Int `json:"protocol_fees1"`
	CreatedHeight   int64       `json:"created_height"`
}

// NewPool returns an empty pool for the pair, with denoms in canonical order.
func NewPool(denomA, denomB string) Pool {
	d0, d1 := CanonicalPair(denomA, denomB)
	return Pool{
		Denom0:          d0,
		Denom1:          d1,
		Amount0:         sdkmath.ZeroInt(),
		Amount1:         sdkmath.ZeroInt(),
		TotalLiquidity:  sdkmath.ZeroInt(),
		AccFeePerShare0: sdkmath.ZeroInt(),
		AccFeePerShare1: sdkmath.ZeroInt(),
		FeeVault0:       sdkmath.ZeroInt(),
		FeeVault1:       sdkmath.ZeroInt(),
		ProtocolFees0:   sdkmath.ZeroInt(),
		ProtocolFees1:   sdkmath.ZeroInt(),
	}
}

// HasDenom reports whether denom is one side of the pool.
func (p Pool) HasDenom(denom string) bool {
	return p.Denom0 == denom || p.Denom1 == denom
}

// Reserves returns (reserveIn, reserveOut) for a swap from denomIn.
func (p Pool) Reserves(denomIn string) (sdkmath.Int, sdkmath.Int) {
	if denomIn == p.Denom0 {
		return p.Amount0, p.Amount1
	}
	return p.Amount1, p.Amount0
}

// Other returns the pool denom that is not denom.
func (p Pool) Other(denom string) string {
	if denom == p.Denom0 {
		return p.Denom1
	}
	return p.Denom0
}

// IsEmpty reports whether all liquidity has been withdrawn.
func (p Pool) IsEmpty() bool {
	return p.TotalLiquidity.IsZero()
}

// LiquidityPosition is a provider's share of a pool.
//
// FeeCheckpoint0/1 snapshot the pool's AccFeePerShare at the last settlement;
// Owed0/1 hold fees settled but not yet claimed.
type LiquidityPosition struct {
	Provider       string      `json:"provider"`
	Denom0         string      `json:"denom0"`
	Denom1         string      `json:"denom1"`
	Amount0        sdkmath.Int `json:"amount0"`
	Amount1        sdkmath.Int `json:"amount1"`
	Liquidity      sdkmath.Int `json:"liquidity"`
	FeeCheckpoint0 sdkmath.Int `json:"fee_checkpoint0"`
	FeeCheckpoint1 sdkmath.Int `json:"fee_checkpoint1"`
	Owed0          sdkmath.Int `json:"owed0"`
	Owed1          sdkmath.Int `json:"owed1"`
}

// NewLiquidityPosition returns an empty position for provider in pool.
func NewLiquidityPosition(provider string, pool Pool) LiquidityPosition {
	return LiquidityPosition{
		Provider:       provider,
		Denom0:         pool.Denom0,
		Denom1:         pool.Denom1,
		Amount0:        sdkmath.ZeroInt(),
		Amount1:        sdkmath.ZeroInt(),
		Liquidity:      sdkmath.ZeroInt(),
		FeeCheckpoint0: pool.AccFeePerShare0,
		FeeCheckpoint1: pool.AccFeePerShare1,
		Owed0:          sdkmath.ZeroInt(),
		Owed1:          sdkmath.ZeroInt(),
	}
}

// TokenInfo is a registered token and its decimal precision.
type TokenInfo struct {
	Denom    string `json:"denom"`
	Decimals uint32 `json:"decimals"`
}

// SwapRoute describes the path a swap takes through one or two pools.
type SwapRoute struct {
	Hops []SwapHop `json:"hops"`
}

// SwapHop is a single pool traversal in a route.
type SwapHop struct {
	DenomIn  string `json:"denom_in"`
	DenomOut string `json:"denom_out"`
}

// Denoms returns the route's denoms in traversal order.
func (r SwapRoute) Denoms() []string {
	if len(r.Hops) == 0 {
		return nil
	}
	out := []string{r.Hops[0].DenomIn}
	for _, h := range r.Hops {
		out = append(out, h.DenomOut)
	}
	return out
}
