package hyperloglog

import (
	"github.com/cespare/xxhash/v2"
	"github.com/spaolacci/murmur3"
)

// HashFunc maps an item to the 32-bit hash domain. It must be deterministic
// and spread items uniformly over all 32 bits. Cryptographic strength is not
// required.
type HashFunc func(item string) uint32

// Murmur3 hashes item with MurmurHash3 (x86, 32-bit, seed 0). It is the
// default hash of the estimator.
func Murmur3(item string) uint32 {
	return murmur3.Sum32([]byte(item))
}

// XXHash hashes item with xxHash64 and folds the result to 32 bits by
// XOR-ing its two halves, so every input bit still affects every output bit.
func XXHash(item string) uint32 {
	h := xxhash.Sum64String(item)
	return uint32(h>>32) ^ uint32(h)
}

// HashByName returns the hash function registered under name ("murmur3" or
// "xxhash"). The second result is false for unknown names.
func HashByName(name string) (HashFunc, bool) {
	switch name {
	case "murmur3", "":
		return Murmur3, true
	case "xxhash":
		return XXHash, true
	default:
		return nil, false
	}
}
