package types

const (
	// ModuleName defines the module name
	ModuleName = "dex"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// MemStoreKey defines the in-memory store key
	MemStoreKey = "mem_" + ModuleName

	// RouterKey defines the module's message routing key
	RouterKey = ModuleName

	// QuerierRoute defines the module's query routing key
	QuerierRoute = ModuleName
)

// CanonicalPair orders two denoms lexicographically. Pools and their positions are
// always addressed by the canonical order so (a, b) and (b, a) name the same pool.
func CanonicalPair(denomA, denomB string) (denom0, denom1 string) {
	if denomA > denomB {
		return denomB, denomA
	}
	return denomA, denomB
}
