package cache

import "time"

// Cache defines a key-value cache API with per-entry TTL.
// A read of an expired entry is a miss, never an error; callers must always
// be able to recompute the underlying value.
type Cache[K comparable, V any] interface {
	// Get returns the value and whether it was present and not expired.
	// An expired entry is evicted on read.
	Get(key K) (V, bool)

	// Set stores the value. If ttl <= 0, the cache's default TTL applies.
	Set(key K, value V, ttl time.Duration)

	// Has reports whether a key is present and not expired.
	Has(key K) bool

	// Delete removes a key if present.
	Delete(key K)

	// Clear removes all entries.
	Clear()

	// Len returns the number of non-expired items currently stored.
	// Best-effort snapshot for diagnostics only.
	Len() int

	// Keys returns a snapshot of the non-expired keys.
	Keys() []K

	// PurgeExpired scans and removes expired entries.
	PurgeExpired()
}
