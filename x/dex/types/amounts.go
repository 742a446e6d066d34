package types

import (
	"math/big"

	sdkmath "cosmossdk.io/math"
)

// MaxDecimals bounds a registered token's precision.
const MaxDecimals = 18

// MaxAmount is the largest amount or price accepted from a caller (2^128 - 1).
// Products of two bounded values stay well inside math.Int's 256-bit range.
var MaxAmount = sdkmath.NewIntFromBigInt(new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1)))

// ValidateAmount rejects nil, non-positive and overflow-prone amounts.
func ValidateAmount(name string, amt sdkmath.Int) error {
	if amt.IsNil() || !amt.IsPositive() {
		return ErrInvalidAmount.Wrapf("%s must be positive", name)
	}
	if amt.GT(MaxAmount) {
		return ErrInvalidAmount.Wrapf("%s exceeds maximum %s", name, MaxAmount)
	}
	return nil
}

// ValidateOptionalAmount accepts zero in addition to what ValidateAmount accepts.
func ValidateOptionalAmount(name string, amt sdkmath.Int) error {
	if amt.IsNil() || amt.IsZero() {
		return nil
	}
	return ValidateAmount(name, amt)
}

// ValidatePrice rejects nil, non-positive and overflow-prone prices.
func ValidatePrice(price sdkmath.Int) error {
	if price.IsNil() || !price.IsPositive() {
		return ErrInvalidPrice.Wrap("price must be positive")
	}
	if price.GT(MaxAmount) {
		return ErrInvalidPrice.Wrapf("price exceeds maximum %s", MaxAmount)
	}
	return nil
}
