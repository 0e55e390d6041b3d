package viewer

import (
	"container/list"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
	"sync"

	"github.com/philipparndt/roomsnap/pkg/document"
)

// DefaultCacheSize is the number of warped images kept per view
const DefaultCacheSize = 32

// Cache is a bounded least-recently-used map. Put evicts the oldest entry
// once capacity is exceeded; Get marks an entry as recently used.
type Cache[V any] struct {
	mu       sync.Mutex
	capacity int
	order    *list.List
	items    map[string]*list.Element
}

type cacheEntry[V any] struct {
	key   string
	value V
}

// NewCache creates a cache holding at most capacity entries
func NewCache[V any](capacity int) *Cache[V] {
	if capacity < 1 {
		capacity = 1
	}
	return &Cache[V]{
		capacity: capacity,
		order:    list.New(),
		items:    make(map[string]*list.Element),
	}
}

// Get returns the cached value for key
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*cacheEntry[V]).value, true
}

// Put stores value under key
func (c *Cache[V]) Put(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		el.Value.(*cacheEntry[V]).value = value
		c.order.MoveToFront(el)
		return
	}
	c.items[key] = c.order.PushFront(&cacheEntry[V]{key: key, value: value})

	for c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.items, oldest.Value.(*cacheEntry[V]).key)
	}
}

// Len returns the number of cached entries
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Clear drops every entry
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Init()
	clear(c.items)
}

// WarpKey hashes everything a warped image depends on
func WarpKey(filename string, quad document.Quad, width, height int) string {
	h := sha256.New()
	h.Write([]byte(filename))

	var buf [8]byte
	for _, p := range quad {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(p.X))
		h.Write(buf[:])
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(p.Y))
		h.Write(buf[:])
	}
	binary.LittleEndian.PutUint64(buf[:], uint64(width))
	h.Write(buf[:])
	binary.LittleEndian.PutUint64(buf[:], uint64(height))
	h.Write(buf[:])

	return hex.EncodeToString(h.Sum(nil))
}
