package metadata

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// Hash returns the hex blake2b-256 digest of data.
func Hash(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashEqual compares two hex digests case-insensitively.
func HashEqual(a, b string) bool {
	return a != "" && strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
