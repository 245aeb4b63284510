package domain

import (
	"fmt"
	"math/bits"
)

// FingerprintBits is the fixed width of a perceptual hash in bits.
const FingerprintBits = 256

// fingerprintWords is the number of 64-bit words backing a fingerprint.
const fingerprintWords = FingerprintBits / 64

// Fingerprint is a fixed-width perceptual hash. Similarity between two
// images is the Hamming distance between their fingerprints: zero for
// identical hashes, up to FingerprintBits for bitwise opposites.
type Fingerprint [fingerprintWords]uint64

// FingerprintFromWords builds a Fingerprint from hash words in big-endian
// word order, as produced by the hashing library.
func FingerprintFromWords(words []uint64) (Fingerprint, error) {
	var fp Fingerprint
	if len(words) != fingerprintWords {
		return fp, fmt.Errorf("fingerprint requires %d words, got %d", fingerprintWords, len(words))
	}
	copy(fp[:], words)
	return fp, nil
}

// Distance returns the Hamming distance to other. It is symmetric and
// satisfies the triangle inequality, which the BK-tree relies on.
func (f Fingerprint) Distance(other Fingerprint) int {
	d := 0
	for i := range f {
		d += bits.OnesCount64(f[i] ^ other[i])
	}
	return d
}

// String renders the fingerprint as lowercase hex.
func (f Fingerprint) String() string {
	return fmt.Sprintf("%016x%016x%016x%016x", f[0], f[1], f[2], f[3])
}
