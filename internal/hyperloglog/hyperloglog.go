// Package hyperloglog implements the HyperLogLog algorithm for cardinality estimation.
//
// The HyperLogLog (HLL) algorithm is a probabilistic data structure used to
// estimate the number of distinct elements in a multiset. It achieves this
// using a fixed amount of memory, regardless of the actual cardinality. A
// typical use is counting the unique client addresses found in a very large
// access log, where keeping every address in a set would not fit in memory.
//
// This implementation follows the formulation in [1]:
//
//   - A single unseeded 32-bit hash per item (MurmurHash3 by default).
//   - A configurable precision p (1 <= p <= 32) selecting m = 2^p registers.
//     The standard error is roughly 1.04/sqrt(m), so the default p=14 gives
//     16,384 registers and ~0.81%.
//   - One byte per register. The maximum rank for a 32-bit hash is 32, so
//     6 bits would be enough, but direct byte access keeps Add and Count
//     free of bit packing.
//   - The raw harmonic-mean estimate with the small-range linear counting
//     correction.
//
// [1] P. Flajolet, Éric Fusy, O. Gandouet, and F. Meunier. Hyperloglog: The
//
//	analysis of a near-optimal cardinality estimation algorithm.
//
// The Algorithm
// =============
//
// Every item is hashed to a 32-bit value x. The p least significant bits of x
// select a register (bucket). The remaining 32-p bits form w, and the rank of
// w is the 1-indexed position of its first set bit, counting from the most
// significant bit of the (32-p)-bit field:
//
//	 31                      p  p-1            0
//	+-------------------------+----------------+
//	|            w            |     bucket     |
//	+-------------------------+----------------+
//
// A rank of k happens with probability 2^-k, so the largest rank seen by a
// register tells how many distinct items probably reached it. Each register
// keeps only the maximum rank it has observed.
//
// The Estimate
// ============
//
// Count combines the registers with a normalized harmonic mean:
//
//	Z = sum(2^-reg[j]) for j in 0..m-1
//	E = alpha * m^2 / Z
//
// When E <= 2.5m and some registers are still zero, linear counting over the
// empty registers is more accurate and is returned instead:
//
//	E = m * ln(m / V)    where V is the number of zero registers
//
// Limitations
// ===========
//
// There is no large-range correction. With a 32-bit hash, collisions start to
// bias the estimate downwards once the cardinality approaches 2^32/30 (about
// 143 million). Callers counting beyond that range need a 64-bit hash based
// estimator.
//
// Estimators cannot be merged, reset or serialized. Start a new Estimator to
// start a new count.
package hyperloglog

import (
	"math"
	"sync"
)

const (
	// DefaultPrecision is the precision used by NewDefault (m = 16,384).
	DefaultPrecision = 14

	// MinPrecision and MaxPrecision bound the precision parameter. Rank
	// extraction needs 32-p >= 0 bits left after the bucket index.
	MinPrecision = 1
	MaxPrecision = 32

	hashBits = 32 // width of the hash domain

	// smallRangeFactor * m is the threshold below which linear counting is
	// considered.
	smallRangeFactor = 2.5
)

// Estimator is a HyperLogLog cardinality estimator.
//
// All methods are safe for concurrent use. Add holds the write lock for the
// whole register update, and Count excludes Add for the full register scan,
// so an estimate never observes a partially applied Add.
type Estimator struct {
	mu sync.RWMutex

	p      uint8    // precision
	m      uint64   // number of registers, 2^p
	mask   uint32   // m-1, selects the bucket bits
	bitLen uint8    // 32-p, width of the rank field
	alpha  float64  // bias constant for m
	hash   HashFunc // item -> uint32

	registers registerBank

	cachedEstimate float64
	cacheInvalid   bool
}

// NewDefault creates an Estimator with DefaultPrecision and the Murmur3 hash.
func NewDefault() *Estimator {
	e, _ := New(DefaultPrecision)
	return e
}

// New creates an Estimator with 2^precision registers, hashing items with
// Murmur3. It returns a *ConfigurationError if precision is outside
// [MinPrecision, MaxPrecision].
func New(precision int) (*Estimator, error) {
	return NewWithHash(precision, Murmur3)
}

// NewWithHash creates an Estimator that uses hash to map items to the 32-bit
// hash domain. A nil hash selects Murmur3.
func NewWithHash(precision int, hash HashFunc) (*Estimator, error) {
	if precision < MinPrecision || precision > MaxPrecision {
		return nil, &ConfigurationError{Precision: precision}
	}
	if hash == nil {
		hash = Murmur3
	}

	m := uint64(1) << precision

	return &Estimator{
		p:         uint8(precision),
		m:         m,
		mask:      uint32(m - 1),
		bitLen:    uint8(hashBits - precision),
		alpha:     alphaFor(m),
		hash:      hash,
		registers: newRegisterBank(m),

		// An empty estimator has a known count of zero, but we let the first
		// Count go through the formula like any other.
		cacheInvalid: true,
	}, nil
}

// Precision returns the precision parameter p.
func (e *Estimator) Precision() int { return int(e.p) }

// Buckets returns the number of registers m = 2^p.
func (e *Estimator) Buckets() uint64 { return e.m }

// Alpha returns the bias constant selected for this estimator.
func (e *Estimator) Alpha() float64 { return e.alpha }

// Registers returns a copy of the register bank.
func (e *Estimator) Registers() []uint8 {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]uint8, len(e.registers))
	copy(out, e.registers)
	return out
}

// Add incorporates item into the estimate. Empty strings are valid items.
// It reports whether a register changed; adding an item that was already
// added never changes a register.
func (e *Estimator) Add(item string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	bucket, rank := e.bucketAndRank(item)
	if !e.registers.update(bucket, rank) {
		return false
	}

	e.cacheInvalid = true
	return true
}

// AddValue incorporates a dynamically typed value, as found in decoded
// records. Strings and byte slices are added; any other type is rejected
// with an *InvalidItemError and leaves the estimator untouched.
func (e *Estimator) AddValue(v any) error {
	switch item := v.(type) {
	case string:
		e.Add(item)
	case []byte:
		e.Add(string(item))
	default:
		return &InvalidItemError{Value: v}
	}
	return nil
}

// Count returns the estimated number of distinct items added so far.
//
// The result is cached until the next Add that changes a register, so
// repeated calls on an idle estimator do not rescan the register bank.
func (e *Estimator) Count() (float64, error) {
	//
	// DESIGN
	// ------
	//
	// The fast path takes a read lock and returns the cached estimate. If the
	// cache is stale we take the write lock, re-check (another goroutine may
	// have refreshed it while we waited), and only then scan the registers.
	// Holding the write lock during the scan also excludes concurrent Add
	// calls, so the estimate reflects one consistent register state.
	//

	e.mu.RLock()
	if !e.cacheInvalid {
		cached := e.cachedEstimate
		e.mu.RUnlock()
		return cached, nil
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.cacheInvalid {
		return e.cachedEstimate, nil
	}

	estimate, err := e.estimate()
	if err != nil {
		return 0, err
	}

	e.cachedEstimate = estimate
	e.cacheInvalid = false
	return estimate, nil
}

// estimate evaluates the two-regime estimator over the current registers.
// The caller must hold the lock.
func (e *Estimator) estimate() (float64, error) {
	histo := e.registers.histogram()

	z := harmonicSum(histo)
	if !(z > 0) {
		return 0, ErrInvariantViolation
	}

	m := float64(e.m)
	raw := e.alpha * m * m / z

	if raw <= smallRangeFactor*m {
		if zeros := histo[0]; zeros > 0 {
			return linearCounting(e.m, uint64(zeros)), nil
		}
	}

	return raw, nil
}

// bucketAndRank splits the hash of item into a register index and a rank.
func (e *Estimator) bucketAndRank(item string) (uint64, uint8) {
	x := e.hash(item)

	bucket := uint64(x & e.mask)

	// Shifting a uint32 by 32 yields 0, which is what p=32 needs: no bits
	// are left for the rank and every item gets the sentinel rank of 1.
	w := x >> e.p

	return bucket, rank(w, e.bitLen)
}

// alphaFor returns the bias constant for m registers. The small cases come
// from the table in [1]; larger banks use the asymptotic approximation.
func alphaFor(m uint64) float64 {
	switch m {
	case 16:
		return 0.673
	case 32:
		return 0.697
	case 64:
		return 0.709
	default:
		return 0.7213 / (1 + 1.079/float64(m))
	}
}

// harmonicSum computes Z = sum(2^-r) from a register histogram, where
// histo[r] is the number of registers holding rank r.
func harmonicSum(histo []int) float64 {
	z := 0.0
	for r, n := range histo {
		if n == 0 {
			continue
		}
		z += float64(n) * math.Ldexp(1, -r)
	}
	return z
}

// linearCounting is the small-range estimate m * ln(m / v) over v empty
// registers out of m.
func linearCounting(m, v uint64) float64 {
	fm := float64(m)
	return fm * math.Log(fm/float64(v))
}
