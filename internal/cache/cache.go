// Package cache provides the byte-level stores behind the fact-validation
// cache: in-memory, on-disk, and a layered combination. Keys are claim
// hashes produced by the facts package; values are opaque encoded records.
package cache

import "time"

// Cache is the minimal store contract. Implementations are safe for
// concurrent use; two racing writes for the same key resolve last-write-wins.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}
