package bridge

import (
	"container/list"
	"sync"

	"github.com/dekarrin/picireny/internal/oracle"
)

// Cache is a bounded, concurrency-safe least-recently-used cache mapping a
// candidate's content hash to the oracle verdict it previously produced
// (spec §6, "the bridge SHOULD cache oracle results keyed by candidate
// content so identical candidates reached by different reduction paths are
// never re-tested").
//
// No third-party LRU library appears anywhere in the example pack, so this
// follows the textbook container/list + map implementation (the same shape
// golang.org/x/groupcache/lru and hashicorp/golang-lru use internally).
type Cache struct {
	mu       sync.Mutex
	capacity int
	ll       *list.List
	items    map[string]*list.Element
}

type cacheEntry struct {
	key     string
	verdict oracle.Verdict
}

// NewCache returns a Cache holding at most capacity entries. capacity <= 0
// means unbounded.
func NewCache(capacity int) *Cache {
	return &Cache{
		capacity: capacity,
		ll:       list.New(),
		items:    make(map[string]*list.Element),
	}
}

// Get returns the cached verdict for key, if present.
func (c *Cache) Get(key string) (oracle.Verdict, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return oracle.Unresolved, false
	}
	c.ll.MoveToFront(el)
	return el.Value.(*cacheEntry).verdict, true
}

// Put records the verdict for key, evicting the least-recently-used entry
// if the cache is at capacity.
func (c *Cache) Put(key string, v oracle.Verdict) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		c.ll.MoveToFront(el)
		el.Value.(*cacheEntry).verdict = v
		return
	}

	el := c.ll.PushFront(&cacheEntry{key: key, verdict: v})
	c.items[key] = el

	if c.capacity > 0 && c.ll.Len() > c.capacity {
		oldest := c.ll.Back()
		if oldest != nil {
			c.ll.Remove(oldest)
			delete(c.items, oldest.Value.(*cacheEntry).key)
		}
	}
}

// Len returns the number of entries currently cached.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}
