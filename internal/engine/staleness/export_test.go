package staleness

// NewCacheWithSum creates a Cache digesting keys with sum.
func NewCacheWithSum(sum func(Key) uint64) *Cache {
	return newCache(sum)
}
