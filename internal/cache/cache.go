// Package cache stores fetched registry payloads. Filings and facts
// documents change rarely, so repeated runs against the same filer are
// served locally instead of hitting the registry again.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is the storage interface the registry client fetches through
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// CacheKey derives a stable key from a registry URL. The version segment
// invalidates everything when the payload handling changes.
func CacheKey(url string) string {
	hash := sha256.Sum256([]byte(url))
	return "attest:v1:" + hex.EncodeToString(hash[:])
}
