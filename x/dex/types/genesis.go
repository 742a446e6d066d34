package types

import (
	"fmt"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// GenesisState defines the DEX module's genesis state.
type GenesisState struct {
	Params       Params              `json:"params"`
	Tokens       []TokenInfo         `json:"tokens"`
	Pools        []Pool              `json:"pools"`
	Positions    []LiquidityPosition `json:"positions"`
	Orders       []ExchangeOrder     `json:"orders"`
	OTCOrders    []OTCOrder          `json:"otc_orders"`
	NextOrderUID uint64              `json:"next_order_uid"`
}

// DefaultGenesis returns the default genesis state for the DEX module.
func DefaultGenesis() *GenesisState {
	params := DefaultParams()
	return &GenesisState{
		Params: params,
		Tokens: []TokenInfo{
			{Denom: params.BridgeDenom, Decimals: 8},
			{Denom: params.FeeDenom, Decimals: 10},
		},
		Pools:        []Pool{},
		Positions:    []LiquidityPosition{},
		Orders:       []ExchangeOrder{},
		OTCOrders:    []OTCOrder{},
		NextOrderUID: 1,
	}
}

// Validate ensures the genesis state is well-formed.
func (gs GenesisState) Validate() error {
	if err := gs.Params.Validate(); err != nil {
		return fmt.Errorf("params: %w", err)
	}

	tokens := make(map[string]bool, len(gs.Tokens))
	for _, t := range gs.Tokens {
		if err := sdk.ValidateDenom(t.Denom); err != nil {
			return fmt.Errorf("token %q: %w", t.Denom, err)
		}
		if t.Decimals > MaxDecimals {
			return fmt.Errorf("token %s: decimals %d exceed %d", t.Denom, t.Decimals, MaxDecimals)
		}
		if tokens[t.Denom] {
			return fmt.Errorf("duplicate token %s", t.Denom)
		}
		tokens[t.Denom] = true
	}

	pools := make(map[string]Pool, len(gs.Pools))
	for _, p := range gs.Pools {
		if p.Denom0 >= p.Denom1 {
			return fmt.Errorf("pool %s/%s: denoms must be distinct and sorted", p.Denom0, p.Denom1)
		}
		if !tokens[p.Denom0] || !tokens[p.Denom1] {
			return fmt.Errorf("pool %s/%s: unregistered token", p.Denom0, p.Denom1)
		}
		key := p.Denom0 + "/" + p.Denom1
		if _, dup := pools[key]; dup {
			return fmt.Errorf("duplicate pool %s", key)
		}
		if anyNil(p.Amount0, p.Amount1, p.TotalLiquidity, p.AccFeePerShare0, p.AccFeePerShare1,
			p.FeeVault0, p.FeeVault1, p.ProtocolFees0, p.ProtocolFees1) {
			return fmt.Errorf("pool %s: missing amounts", key)
		}
		if p.Amount0.IsNegative() || p.Amount1.IsNegative() || p.TotalLiquidity.IsNegative() {
			return fmt.Errorf("pool %s: negative reserves or liquidity", key)
		}
		empty := p.Amount0.IsZero() && p.Amount1.IsZero()
		if p.TotalLiquidity.IsZero() != empty {
			return fmt.Errorf("pool %s: liquidity and reserves disagree on emptiness", key)
		}
		pools[key] = p
	}

	liquidity := make(map[string]sdkmath.Int, len(gs.Pools))
	for key := range pools {
		liquidity[key] = sdkmath.ZeroInt()
	}
	seenPos := make(map[string]bool, len(gs.Positions))
	for _, pos := range gs.Positions {
		key := pos.Denom0 + "/" + pos.Denom1
		if _, ok := pools[key]; !ok {
			return fmt.Errorf("position of %s references unknown pool %s", pos.Provider, key)
		}
		if _, err := sdk.AccAddressFromBech32(pos.Provider); err != nil {
			return fmt.Errorf("position provider %q: %w", pos.Provider, err)
		}
		if seenPos[key+"/"+pos.Provider] {
			return fmt.Errorf("duplicate position of %s in %s", pos.Provider, key)
		}
		seenPos[key+"/"+pos.Provider] = true
		if anyNil(pos.Amount0, pos.Amount1, pos.Liquidity, pos.FeeCheckpoint0, pos.FeeCheckpoint1, pos.Owed0, pos.Owed1) {
			return fmt.Errorf("position of %s in %s: missing amounts", pos.Provider, key)
		}
		if pos.Liquidity.IsNegative() {
			return fmt.Errorf("position of %s in %s: negative liquidity", pos.Provider, key)
		}
		liquidity[key] = liquidity[key].Add(pos.Liquidity)
	}
	for key, p := range pools {
		if !liquidity[key].Equal(p.TotalLiquidity) {
			return fmt.Errorf("pool %s: total liquidity does not match positions", key)
		}
	}

	seen := make(map[uint64]bool, len(gs.Orders)+len(gs.OTCOrders))
	for _, o := range gs.Orders {
		if o.UID == 0 || o.UID >= gs.NextOrderUID {
			return fmt.Errorf("order uid %d out of range (next %d)", o.UID, gs.NextOrderUID)
		}
		if seen[o.UID] {
			return fmt.Errorf("duplicate order uid %d", o.UID)
		}
		seen[o.UID] = true
		if o.Kind != OrderKindLimit || !o.Side.Valid() {
			return fmt.Errorf("order %d: only resting limit orders may appear in genesis", o.UID)
		}
		if anyNil(o.Price, o.Amount, o.RemainingAmount, o.EscrowRemaining) {
			return fmt.Errorf("order %d: missing amounts", o.UID)
		}
		if !o.RemainingAmount.IsPositive() || !o.Price.IsPositive() {
			return fmt.Errorf("order %d: remaining amount and price must be positive", o.UID)
		}
		if o.EscrowRemaining.IsNegative() {
			return fmt.Errorf("order %d: negative escrow", o.UID)
		}
	}
	for _, o := range gs.OTCOrders {
		if o.UID == 0 || o.UID >= gs.NextOrderUID {
			return fmt.Errorf("otc order uid %d out of range (next %d)", o.UID, gs.NextOrderUID)
		}
		if seen[o.UID] {
			return fmt.Errorf("duplicate order uid %d", o.UID)
		}
		seen[o.UID] = true
		if anyNil(o.Amount, o.Price) || !o.Amount.IsPositive() || !o.Price.IsPositive() {
			return fmt.Errorf("otc order %d: amount and price must be positive", o.UID)
		}
	}
	if gs.NextOrderUID == 0 {
		return fmt.Errorf("next order uid must be positive")
	}
	return nil
}

func anyNil(vals ...sdkmath.Int) bool {
	for _, v := range vals {
		if v.IsNil() {
			return true
		}
	}
	return false
}
