package types

import (
	"fmt"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// BasisPoints is the denominator for all bps-denominated parameters.
const BasisPoints = 10_000

// Params defines the parameters for the DEX module.
type Params struct {
	// SwapFeeBps is charged on every AMM swap input.
	SwapFeeBps uint32 `json:"swap_fee_bps" yaml:"swap_fee_bps"`
	// LPFeeShareBps is the portion of each swap fee credited to liquidity providers;
	// the remainder accrues to the protocol.
	LPFeeShareBps uint32 `json:"lp_fee_share_bps" yaml:"lp_fee_share_bps"`
	// MinInitialLiquidity is the smallest sqrt(a*b) accepted when seeding a pool.
	MinInitialLiquidity sdkmath.Int `json:"min_initial_liquidity" yaml:"min_initial_liquidity"`
	// MinOrderAmount is the smallest base amount accepted for a book or OTC order.
	MinOrderAmount sdkmath.Int `json:"min_order_amount" yaml:"min_order_amount"`
	// MinOrderNotional is the smallest quote value accepted for a limit order.
	MinOrderNotional sdkmath.Int `json:"min_order_notional" yaml:"min_order_notional"`
	// BridgeDenom is the intermediate token for two-hop virtual pool routing.
	BridgeDenom string `json:"bridge_denom" yaml:"bridge_denom"`
	// FeeDenom is the token SwapFee quotes are denominated in.
	FeeDenom string `json:"fee_denom" yaml:"fee_denom"`
	// MaxBookDepth caps the number of resting orders returned by book queries.
	MaxBookDepth uint32 `json:"max_book_depth" yaml:"max_book_depth"`
	// MaxFillsPerOrder bounds how many maker orders a single incoming order may match.
	// A limit remainder that still crosses the book at the cap is cancelled.
	MaxFillsPerOrder uint32 `json:"max_fills_per_order" yaml:"max_fills_per_order"`
}

// DefaultParams returns a default set of parameters
func DefaultParams() Params {
	return Params{
		SwapFeeBps:          300, // 3%
		LPFeeShareBps:       7_500,
		MinInitialLiquidity: sdkmath.NewInt(1_000),
		MinOrderAmount:      sdkmath.OneInt(),
		MinOrderNotional:    sdkmath.OneInt(),
		BridgeDenom:         "soul",
		FeeDenom:            "kcal",
		MaxBookDepth:        1_000,
		MaxFillsPerOrder:    100,
	}
}

// Validate validates the set of params
func (p Params) Validate() error {
	if p.SwapFeeBps >= BasisPoints {
		return fmt.Errorf("swap fee must be below %d bps: %d", BasisPoints, p.SwapFeeBps)
	}
	if p.LPFeeShareBps > BasisPoints {
		return fmt.Errorf("lp fee share cannot exceed %d bps: %d", BasisPoints, p.LPFeeShareBps)
	}
	if err := validatePositive("min initial liquidity", p.MinInitialLiquidity); err != nil {
		return err
	}
	if err := validatePositive("min order amount", p.MinOrderAmount); err != nil {
		return err
	}
	if err := validatePositive("min order notional", p.MinOrderNotional); err != nil {
		return err
	}
	if err := sdk.ValidateDenom(p.BridgeDenom); err != nil {
		return fmt.Errorf("bridge denom: %w", err)
	}
	if err := sdk.ValidateDenom(p.FeeDenom); err != nil {
		return fmt.Errorf("fee denom: %w", err)
	}
	if p.MaxBookDepth == 0 {
		return fmt.Errorf("max book depth must be positive")
	}
	if p.MaxFillsPerOrder == 0 {
		return fmt.Errorf("max fills per order must be positive")
	}
	return nil
}

func validatePositive(name string, v sdkmath.Int) error {
	if v.IsNil() || !v.IsPositive() {
		return fmt.Errorf("%s must be positive", name)
	}
	return nil
}
