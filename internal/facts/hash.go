package facts

import (
	"crypto/sha256"
	"encoding/hex"
)

// ClaimHash derives the cache key for a claim text. The digest is stable
// across runs for identical text; the version prefix lets a future format
// change invalidate old entries wholesale.
func ClaimHash(claimText string) string {
	sum := sha256.Sum256([]byte(claimText))
	return "claims:v1:" + hex.EncodeToString(sum[:])
}
