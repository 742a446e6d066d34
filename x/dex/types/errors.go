package types

import (
	"cosmossdk.io/errors"
)

// DEX module sentinel errors
var (
	ErrInvalidAmount         = errors.Register(ModuleName, 2, "invalid amount")
	ErrInvalidPrice          = errors.Register(ModuleName, 3, "invalid price")
	ErrInsufficientBalance   = errors.Register(ModuleName, 4, "insufficient balance")
	ErrPoolAlreadyExists     = errors.Register(ModuleName, 5, "pool already exists")
	ErrPoolNotFound          = errors.Register(ModuleName, 6, "pool not found")
	ErrOrderNotFound         = errors.Register(ModuleName, 7, "order not found")
	ErrNotAuthorized         = errors.Register(ModuleName, 8, "not authorized")
	ErrInsufficientLiquidity = errors.Register(ModuleName, 9, "insufficient liquidity")
	ErrBelowMinimumQuantity  = errors.Register(ModuleName, 10, "below minimum quantity")
	ErrTokenNotRegistered    = errors.Register(ModuleName, 11, "token not registered")
	ErrInvalidTokenPair      = errors.Register(ModuleName, 12, "invalid token pair")
	ErrSlippageExceeded      = errors.Register(ModuleName, 13, "slippage exceeded")
	ErrOverflow              = errors.Register(ModuleName, 14, "arithmetic overflow")
	ErrInvalidState          = errors.Register(ModuleName, 15, "invalid state")
	ErrInvariantViolation    = errors.Register(ModuleName, 16, "invariant violation")
	ErrOraclePrice           = errors.Register(ModuleName, 17, "oracle price unavailable")
	ErrInvalidAddress        = errors.Register(ModuleName, 18, "invalid address")
	ErrInvalidParams         = errors.Register(ModuleName, 19, "invalid params")
	ErrInvalidGenesis        = errors.Register(ModuleName, 20, "invalid genesis")
)
