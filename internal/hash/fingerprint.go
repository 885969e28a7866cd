package hash

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint computes the xxHash64 of a DEX payload.
func Fingerprint(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// FormatFingerprint renders a fingerprint as 16 lowercase hex digits.
func FormatFingerprint(fp uint64) string {
	return fmt.Sprintf("%016x", fp)
}
