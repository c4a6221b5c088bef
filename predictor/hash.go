package predictor

import (
	"math"

	"lukechampine.com/uint128"
)

// HashFunc combines a branch address with a history value. Tables truncate
// the result to their index width; TAGE also compares it in full as a tag.
type HashFunc func(addr, history uint128.Uint128) uint128.Uint128

// HashXOR is the plain exclusive or of address and history.
func HashXOR(addr, history uint128.Uint128) uint128.Uint128 {
	return addr.Xor(history)
}

// HashInvertedXOR XORs the complemented operands. Over a fixed-width integer
// this yields the same value as HashXOR.
func HashInvertedXOR(addr, history uint128.Uint128) uint128.Uint128 {
	return not(addr).Xor(not(history))
}

// HashXNOR returns the bitwise complement of address XOR history.
func HashXNOR(addr, history uint128.Uint128) uint128.Uint128 {
	return not(addr.Xor(history))
}

func not(v uint128.Uint128) uint128.Uint128 {
	return uint128.New(^v.Lo, ^v.Hi)
}

// mask returns a value with the low bits set.
func mask(bits uint) uint128.Uint128 {
	switch {
	case bits >= 128:
		return uint128.Max
	case bits >= 64:
		return uint128.New(math.MaxUint64, uint64(1)<<(bits-64)-1)
	default:
		return uint128.From64(uint64(1)<<bits - 1)
	}
}

// truncate keeps the low bits of v, i.e. v mod 2^bits.
func truncate(v uint128.Uint128, bits uint) uint128.Uint128 {
	return v.And(mask(bits))
}

// tableIndex truncates a hash to a table index. Table sizes never exceed
// 2^63 entries, so the low word holds the whole index.
func tableIndex(v uint128.Uint128, log2Entries uint) uint64 {
	return truncate(v, log2Entries).Lo
}
