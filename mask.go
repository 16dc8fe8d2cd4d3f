package archecs

import (
	"unsafe"

	"github.com/cespare/xxhash/v2"
)

// Masks are bit sets over component registration indices, stored as a fixed
// number of words drawn from the world's mask pools.

func maskWordsFor(maxComponents int) int {
	return (maxComponents + 63) / 64
}

func maskSet(m []uint64, bit uint32) {
	m[bit>>6] |= uint64(1) << (bit & 63)
}

func maskUnset(m []uint64, bit uint32) {
	m[bit>>6] &^= uint64(1) << (bit & 63)
}

func maskHas(m []uint64, bit uint32) bool {
	return m[bit>>6]&(uint64(1)<<(bit&63)) != 0
}

// maskContains reports whether every bit of sub is set in m.
func maskContains(m, sub []uint64) bool {
	for i := range sub {
		if m[i]&sub[i] != sub[i] {
			return false
		}
	}
	return true
}

func maskEmpty(m []uint64) bool {
	for _, w := range m {
		if w != 0 {
			return false
		}
	}
	return true
}

// maskBytes views the mask words as raw bytes for hashing and map keys.
func maskBytes(m []uint64) []byte {
	if len(m) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&m[0])), len(m)*8)
}

func maskHash(m []uint64) uint64 {
	return xxhash.Sum64(maskBytes(m))
}
