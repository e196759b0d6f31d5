package hyperloglog

// maxRank is the largest rank a 32-bit hash can produce: p=1 leaves 31 rank
// bits, and all of them zero gives 31+1.
const maxRank = hashBits

// registerBank stores one register per bucket, one byte each.
type registerBank []uint8

func newRegisterBank(m uint64) registerBank {
	return make(registerBank, m)
}

// update raises the register at bucket to rank if rank is greater than the
// current value. It reports whether the register changed. Registers never
// decrease.
//
// It is not thread-safe; the caller must handle locking.
func (r registerBank) update(bucket uint64, rank uint8) bool {
	if rank > r[bucket] {
		r[bucket] = rank
		return true
	}
	return false
}

// histogram counts the occurrences of each rank across all registers.
// histogram()[0] is the number of registers that were never touched.
func (r registerBank) histogram() []int {
	histo := make([]int, maxRank+1)

	for _, value := range r {
		histo[value]++
	}

	return histo
}

// nonZero returns the number of registers that have been set.
func (r registerBank) nonZero() int {
	n := 0
	for _, value := range r {
		if value != 0 {
			n++
		}
	}
	return n
}
