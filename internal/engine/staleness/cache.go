package staleness

import (
	"encoding/binary"
	"strconv"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/singleflight"
)

// Key identifies one memoized staleness query.
type Key struct {
	Kind string
	Dir  string
	Ext  string
	Ref  time.Time
}

// FilesKey is the key of a files-modified query.
func FilesKey(dir, ext string, ref time.Time) Key {
	return Key{Kind: "files", Dir: dir, Ext: ext, Ref: ref}
}

// FolderKey is the key of a folder-modified query.
func FolderKey(dir string, ref time.Time) Key {
	return Key{Kind: "folder", Dir: dir, Ref: ref}
}

// Sum digests the key.
func (k Key) Sum() uint64 {
	d := xxhash.New()
	for _, s := range []string{k.Kind, k.Dir, k.Ext} {
		_, _ = d.WriteString(s)
		_, _ = d.Write([]byte{0})
	}

	var buf [12]byte
	binary.LittleEndian.PutUint64(buf[:8], uint64(k.Ref.Unix()))       //nolint:gosec // Bit pattern only
	binary.LittleEndian.PutUint32(buf[8:], uint32(k.Ref.Nanosecond())) //nolint:gosec // Always < 1e9
	_, _ = d.Write(buf[:])
	return d.Sum64()
}

// Equal reports whether both keys describe the same query.
func (k Key) Equal(other Key) bool {
	return k.Kind == other.Kind && k.Dir == other.Dir && k.Ext == other.Ext && k.Ref.Equal(other.Ref)
}

// String encodes the key exactly.
func (k Key) String() string {
	return k.Kind + "\x00" + k.Dir + "\x00" + k.Ext + "\x00" + strconv.FormatInt(k.Ref.UnixNano(), 10)
}

type entry struct {
	key   Key
	value bool
}

// Cache memoizes staleness answers for one build session.
//
// Entries are bucketed by the key digest and matched on the full key, so a
// digest collision costs a comparison, never a wrong answer. They are only
// valid as long as the filesystem does not change; callers clear the cache
// with Invalidate between passes. Errors are never stored.
type Cache struct {
	mu         sync.RWMutex
	buckets    map[uint64][]entry
	generation uint64
	group      singleflight.Group
	sum        func(Key) uint64
}

// NewCache creates an empty Cache.
func NewCache() *Cache {
	return newCache(Key.Sum)
}

func newCache(sum func(Key) uint64) *Cache {
	return &Cache{
		buckets: make(map[uint64][]entry),
		sum:     sum,
	}
}

// Do returns the cached answer for key, computing and storing it on a miss.
// Concurrent misses for the same key share one computation.
func (c *Cache) Do(key Key, compute func() (bool, error)) (bool, error) {
	sum := c.sum(key)

	c.mu.RLock()
	value, ok := c.lookup(sum, key)
	generation := c.generation
	c.mu.RUnlock()

	if ok {
		return value, nil
	}

	flightKey := key.String() + "@" + strconv.FormatUint(generation, 10)
	result, err, _ := c.group.Do(flightKey, func() (any, error) {
		computed, err := compute()
		if err != nil {
			return false, err
		}

		c.mu.Lock()
		// An Invalidate during compute means the answer may describe an older filesystem.
		if c.generation == generation {
			c.store(sum, key, computed)
		}
		c.mu.Unlock()

		return computed, nil
	})
	if err != nil {
		return false, err
	}

	return result.(bool), nil //nolint:forcetypeassert // Only bools are returned above
}

// lookup must be called with mu held.
func (c *Cache) lookup(sum uint64, key Key) (bool, bool) {
	for _, e := range c.buckets[sum] {
		if e.key.Equal(key) {
			return e.value, true
		}
	}
	return false, false
}

// store must be called with mu held for writing.
func (c *Cache) store(sum uint64, key Key, value bool) {
	bucket := c.buckets[sum]
	for i := range bucket {
		if bucket[i].key.Equal(key) {
			bucket[i].value = value
			return
		}
	}
	c.buckets[sum] = append(bucket, entry{key: key, value: value})
}

// Invalidate drops every entry.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	clear(c.buckets)
	c.generation++
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n := 0
	for _, bucket := range c.buckets {
		n += len(bucket)
	}
	return n
}
