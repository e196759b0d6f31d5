package bloom

import "math"

// EstimateParameters calculates the optimal number of bits and hash rounds
// for n items at a false positive rate p.
func EstimateParameters(n uint64, p float64) (uint, uint) {
	// Sanitize inputs: n=0 creates invalid math, p must be strictly 0 < p < 1
	// to avoid Log() returning -Inf or non-negative values.
	if n == 0 {
		n = 1
	}
	if p <= 0 {
		p = 1e-9
	} else if p >= 1.0 {
		p = 0.99
	}

	// Standard Bloom Filter formulas:
	//   m = -(n * ln(p)) / (ln(2)^2)
	//   k = (m / n) * ln(2)
	ln2 := math.Log(2)
	m := math.Ceil(-float64(n) * math.Log(p) / (ln2 * ln2))
	k := math.Round(m / float64(n) * ln2)

	if k < 1 {
		k = 1
	}

	return uint(m), uint(k)
}

// ConfigFor returns a Config sized for n items at a false positive rate p.
func ConfigFor(n uint64, p float64) Config {
	size, hashes := EstimateParameters(n, p)
	return Config{Size: size, Hashes: hashes}
}
