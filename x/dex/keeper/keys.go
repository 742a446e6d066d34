package keeper

import (
	"encoding/binary"
	"fmt"
	"math/big"

	sdkmath "cosmossdk.io/math"
	"github.com/google/orderedcode"

	"github.com/paw-chain/dexchain/x/dex/types"
)

var (
	// ParamsKey is the key for module parameters
	ParamsKey = []byte{0x01}

	// TokenKeyPrefix is the prefix for the token registry
	TokenKeyPrefix = []byte{0x02}

	// PoolKeyPrefix is the prefix for pool store keys
	PoolKeyPrefix = []byte{0x03}

	// PositionKeyPrefix is the prefix for liquidity positions, grouped by pool
	PositionKeyPrefix = []byte{0x04}

	// OrderKeyPrefix is the prefix for exchange orders by uid
	OrderKeyPrefix = []byte{0x05}

	// BookKeyPrefix is the price-time index of resting orders
	BookKeyPrefix = []byte{0x06}

	// OrderByCreatorKeyPrefix indexes exchange orders by creator
	OrderByCreatorKeyPrefix = []byte{0x07}

	// OTCOrderKeyPrefix is the prefix for OTC orders by uid
	OTCOrderKeyPrefix = []byte{0x08}

	// NextOrderUIDKey holds the next uid shared by exchange and OTC orders
	NextOrderUIDKey = []byte{0x09}
)

const (
	bookSideBid = "bid"
	bookSideAsk = "ask"

	// priceKeyWidth is the fixed byte width prices are padded to in book keys.
	priceKeyWidth = 32
)

// TokenKey returns the registry key for denom.
func TokenKey(denom string) []byte {
	return append(append([]byte{}, TokenKeyPrefix...), []byte(denom)...)
}

// pairKey encodes a canonical denom pair. Each string is self-terminating so a pair
// key is a safe prefix for keys that extend it.
func pairKey(denom0, denom1 string) []byte {
	bz, err := orderedcode.Append(nil, denom0, denom1)
	if err != nil {
		panic(err)
	}
	return bz
}

// PoolKey returns the store key for the pool of a token pair in either order.
func PoolKey(denomA, denomB string) []byte {
	d0, d1 := types.CanonicalPair(denomA, denomB)
	return append(append([]byte{}, PoolKeyPrefix...), pairKey(d0, d1)...)
}

// PositionKeyByPoolPrefix returns the prefix for all liquidity positions in a pool.
func PositionKeyByPoolPrefix(denomA, denomB string) []byte {
	d0, d1 := types.CanonicalPair(denomA, denomB)
	return append(append([]byte{}, PositionKeyPrefix...), pairKey(d0, d1)...)
}

// PositionKey returns the store key for a provider's position in a pool.
func PositionKey(denomA, denomB, provider string) []byte {
	key, err := orderedcode.Append(PositionKeyByPoolPrefix(denomA, denomB), provider)
	if err != nil {
		panic(err)
	}
	return key
}

// OrderKey returns the store key for an exchange order.
func OrderKey(uid uint64) []byte {
	return append(append([]byte{}, OrderKeyPrefix...), uidBytes(uid)...)
}

// OTCOrderKey returns the store key for an OTC order.
func OTCOrderKey(uid uint64) []byte {
	return append(append([]byte{}, OTCOrderKeyPrefix...), uidBytes(uid)...)
}

// OrderByCreatorPrefix returns the prefix of a creator's order index.
func OrderByCreatorPrefix(creator string) []byte {
	key, err := orderedcode.Append(append([]byte{}, OrderByCreatorKeyPrefix...), creator)
	if err != nil {
		panic(err)
	}
	return key
}

// OrderByCreatorKey returns the creator index entry for an order.
func OrderByCreatorKey(creator string, uid uint64) []byte {
	key, err := orderedcode.Append(OrderByCreatorPrefix(creator), uid)
	if err != nil {
		panic(err)
	}
	return key
}

// BookSidePrefix returns the prefix of one side of a pair's book. Keys under it
// iterate in match priority: bids by price descending, asks by price ascending,
// ties broken by ascending uid.
func BookSidePrefix(base, quote string, side types.OrderSide) []byte {
	key, err := orderedcode.Append(append([]byte{}, BookKeyPrefix...), base, quote, bookSideName(side))
	if err != nil {
		panic(err)
	}
	return key
}

// BookKey returns the book index key for a resting order.
func BookKey(order types.ExchangeOrder) []byte {
	var price interface{} = encodePriceForOrdering(order.Price)
	if order.Side == types.OrderSideBuy {
		price = orderedcode.Decr(price)
	}
	key, err := orderedcode.Append(BookSidePrefix(order.BaseDenom, order.QuoteDenom, order.Side), price, order.UID)
	if err != nil {
		panic(err)
	}
	return key
}

func bookSideName(side types.OrderSide) string {
	if side == types.OrderSideBuy {
		return bookSideBid
	}
	return bookSideAsk
}

// encodePriceForOrdering left-pads the price to a fixed width so byte order equals
// numeric order.
func encodePriceForOrdering(price sdkmath.Int) string {
	if price.IsNegative() || price.BigInt().BitLen() > priceKeyWidth*8 {
		panic(fmt.Sprintf("price %s cannot be encoded in a book key", price))
	}
	buf := make([]byte, priceKeyWidth)
	new(big.Int).Set(price.BigInt()).FillBytes(buf)
	return string(buf)
}

func uidBytes(uid uint64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, uid)
	return bz
}

func uidFromBytes(bz []byte) uint64 {
	return binary.BigEndian.Uint64(bz)
}
