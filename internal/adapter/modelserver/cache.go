package modelserver

import (
	"context"
	"sync"

	"github.com/jceal/stormwater-classifier/internal/domain"
)

// CachedPredictor wraps a Predictor with an in-memory LRU cache keyed by the
// input text. Model decisions are deterministic per text, so repeated
// submissions with identical descriptions skip the round trip.
type CachedPredictor struct {
	inner domain.Predictor
	cache *lruCache
}

// NewCachedPredictor creates a cache decorator around a predictor.
func NewCachedPredictor(inner domain.Predictor, maxEntries int) *CachedPredictor {
	return &CachedPredictor{
		inner: inner,
		cache: newLRUCache(maxEntries),
	}
}

func (c *CachedPredictor) Predict(ctx context.Context, text string) (bool, error) {
	if decision, ok := c.cache.get(text); ok {
		return decision, nil
	}
	decision, err := c.inner.Predict(ctx, text)
	if err != nil {
		// Errors are not cached so transient failures can be retried.
		return decision, err
	}
	c.cache.put(text, decision)
	return decision, nil
}

// lruCache is a simple thread-safe LRU cache for thresholded decisions.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   string
	value bool
	prev  *entry
	next  *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) (bool, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return false, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
