package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for analysis memoization
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a cache key from the canonical artifact bytes. The engine is
// deterministic given its input, so identical bytes always map to the same
// analysis.
func Key(artifactJSON []byte) string {
	hash := sha256.Sum256(artifactJSON)
	return "terrain:v1:" + hex.EncodeToString(hash[:])
}
