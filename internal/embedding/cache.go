package embedding

import (
	"container/list"
	"sync"
)

const defaultCacheSize = 512

// Cache is an LRU cache of embeddings keyed by prepared text. Job
// descriptions are embedded once per uploaded resume, so caching them
// avoids re-running inference for every candidate against the same job.
type Cache struct {
	capacity int
	entries  map[string]*list.Element
	order    *list.List
	mu       sync.Mutex
}

type cacheItem struct {
	key    string
	vector []float32
}

// NewCache returns a cache holding up to capacity vectors. A
// non-positive capacity falls back to a sensible default.
func NewCache(capacity int) *Cache {
	if capacity <= 0 {
		capacity = defaultCacheSize
	}
	return &Cache{
		capacity: capacity,
		entries:  make(map[string]*list.Element),
		order:    list.New(),
	}
}

// Get returns the cached vector for key, marking it recently used.
func (c *Cache) Get(key string) ([]float32, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(elem)
	return elem.Value.(*cacheItem).vector, true
}

// Put stores the vector for key, evicting the least recently used
// entry when the cache is full.
func (c *Cache) Put(key string, vector []float32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		c.order.MoveToFront(elem)
		elem.Value.(*cacheItem).vector = vector
		return
	}

	c.entries[key] = c.order.PushFront(&cacheItem{key: key, vector: vector})
	if c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheItem).key)
	}
}

// Len reports the number of cached vectors.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
