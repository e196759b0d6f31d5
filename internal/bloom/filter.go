// Package bloom implements a classic Bloom filter for string membership checks.
//
// A Bloom filter is a probabilistic data structure that allows checking if an
// element is *definitely not* in a set or *probably* in a set. It is highly
// space-efficient but does not support deletion.
//
// The Algorithm
// =============
//
// The filter is a fixed array of m bits, all zero at creation. Adding an item
// hashes it k times, with MurmurHash3 seeded by the round number 0..k-1, and
// sets bit hash_i(item) mod m for every round. Contains repeats the same k
// hashes and reports true only if all k bits are set.
//
// False negatives are impossible. False positives happen when other items
// have set all k bits of an item that was never added. For n items the rate
// is roughly (1 - e^(-kn/m))^k; EstimateParameters picks m and k for a target
// rate.
//
// This filter is unrelated to the cardinality estimator in package
// hyperloglog. The estimator uses a single unseeded hash per item; the
// multi-round hashing lives here only.
package bloom

import (
	"errors"
	"sync"

	"github.com/bits-and-blooms/bitset"
	"github.com/spaolacci/murmur3"
)

const (
	// Configuration Defaults
	DefaultSize   = 1000
	DefaultHashes = 3
)

// ErrInvalidConfig is returned by New when the size or number of hashes is
// zero.
var ErrInvalidConfig = errors.New("bloom: size and number of hashes must be positive")

// Config holds the initialization parameters for a new Bloom Filter.
type Config struct {
	// Size is the number of bits in the filter.
	Size uint

	// Hashes is the number of hash rounds per item.
	Hashes uint
}

// DefaultConfig returns the default configuration for new Bloom Filters.
func DefaultConfig() Config {
	return Config{
		Size:   DefaultSize,
		Hashes: DefaultHashes,
	}
}

// Filter is a fixed-size Bloom filter. It is safe for concurrent use.
type Filter struct {
	mu     sync.RWMutex
	bits   *bitset.BitSet
	size   uint
	hashes uint
}

// New creates an empty filter with cfg.Size bits and cfg.Hashes rounds.
func New(cfg Config) (*Filter, error) {
	if cfg.Size == 0 || cfg.Hashes == 0 {
		return nil, ErrInvalidConfig
	}

	return &Filter{
		bits:   bitset.New(cfg.Size),
		size:   cfg.Size,
		hashes: cfg.Hashes,
	}, nil
}

// Add inserts item into the filter.
func (f *Filter) Add(item string) {
	data := []byte(item)

	f.mu.Lock()
	defer f.mu.Unlock()

	for i := uint(0); i < f.hashes; i++ {
		f.bits.Set(f.index(data, i))
	}
}

// Contains reports whether item was probably added. A false result is
// definite.
func (f *Filter) Contains(item string) bool {
	data := []byte(item)

	f.mu.RLock()
	defer f.mu.RUnlock()

	for i := uint(0); i < f.hashes; i++ {
		if !f.bits.Test(f.index(data, i)) {
			return false
		}
	}
	return true
}

// Size returns the number of bits in the filter.
func (f *Filter) Size() uint { return f.size }

// Hashes returns the number of hash rounds per item.
func (f *Filter) Hashes() uint { return f.hashes }

// FillRatio returns the fraction of bits that are set.
func (f *Filter) FillRatio() float64 {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return float64(f.bits.Count()) / float64(f.size)
}

// index returns the bit selected by hash round i for data.
func (f *Filter) index(data []byte, round uint) uint {
	return uint(murmur3.Sum32WithSeed(data, uint32(round))) % f.size
}
