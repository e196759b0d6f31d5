package hyperloglog

import "math/bits"

// rank computes ρ(w): the 1-indexed position of the first set bit of w,
// reading w as a bitLen-wide field from its most significant bit. If no bit
// is set, the rank is bitLen+1.
func rank(w uint32, bitLen uint8) uint8 {
	//
	// DESIGN
	// ------
	//
	// w is the hash shifted right by p, so only its low bitLen bits carry
	// information. bits.LeadingZeros32 counts zeros over all 32 bits, which
	// includes the p bits freed by the shift. We mask w to bitLen bits and
	// subtract those p padding zeros to get the leading zeros inside the
	// field.
	//
	// For w == 0 the same arithmetic gives 32-p+1 = bitLen+1, but we keep the
	// sentinel explicit.
	//

	if bitLen == 0 {
		return 1
	}

	w &= uint32(1)<<bitLen - 1
	if w == 0 {
		return bitLen + 1
	}

	padding := hashBits - int(bitLen)
	return uint8(bits.LeadingZeros32(w)-padding) + 1
}
