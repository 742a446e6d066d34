package types

// Event types for the DEX module
const (
	EventTypeOrderCreated   = "order_created"
	EventTypeOrderFilled    = "order_filled"
	EventTypeOrderClosed    = "order_closed"
	EventTypeOrderCancelled = "order_cancelled"

	EventTypeOTCOrderCreated   = "otc_order_created"
	EventTypeOTCOrderTaken     = "otc_order_taken"
	EventTypeOTCOrderCancelled = "otc_order_cancelled"

	EventTypePoolCreated           = "pool_created"
	EventTypeLiquidityAdded        = "liquidity_added"
	EventTypeLiquidityRemoved      = "liquidity_removed"
	EventTypeSwap                  = "swap"
	EventTypeSwapFee               = "swap_fee"
	EventTypeFeesClaimed           = "fees_claimed"
	EventTypeProtocolFeesWithdrawn = "protocol_fees_withdrawn"
	EventTypeTokenRegistered       = "token_registered"
)

// Event attribute keys
const (
	AttributeKeyOrderID      = "order_id"
	AttributeKeyMakerOrderID = "maker_order_id"
	AttributeKeyCreator      = "creator"
	AttributeKeyMaker        = "maker"
	AttributeKeyTaker        = "taker"
	AttributeKeyKind         = "kind"
	AttributeKeySide         = "side"
	AttributeKeyBaseDenom    = "base_denom"
	AttributeKeyQuoteDenom   = "quote_denom"
	AttributeKeyPrice        = "price"
	AttributeKeyAmount       = "amount"
	AttributeKeyQuoteAmount  = "quote_amount"
	AttributeKeyFilled       = "filled"
	AttributeKeyRefunded     = "refunded"
	AttributeKeyImmediate    = "immediate_or_cancel"

	AttributeKeyDenom0    = "denom0"
	AttributeKeyDenom1    = "denom1"
	AttributeKeyAmount0   = "amount0"
	AttributeKeyAmount1   = "amount1"
	AttributeKeyLiquidity = "liquidity"
	AttributeKeyProvider  = "provider"
	AttributeKeyTrader    = "trader"
	AttributeKeyDenomIn   = "denom_in"
	AttributeKeyDenomOut  = "denom_out"
	AttributeKeyAmountIn  = "amount_in"
	AttributeKeyAmountOut = "amount_out"
	AttributeKeyFee       = "fee"
	AttributeKeyLPFee     = "lp_fee"
	AttributeKeyRoute     = "route"
	AttributeKeyRecipient = "recipient"
	AttributeKeyDenom     = "denom"
	AttributeKeyDecimals  = "decimals"
)
