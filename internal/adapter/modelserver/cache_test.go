package modelserver

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mock for cache tests ---

type countingPredictor struct {
	calls    int
	decision bool
	err      error
}

func (m *countingPredictor) Predict(_ context.Context, _ string) (bool, error) {
	m.calls++
	return m.decision, m.err
}

// --- CachedPredictor tests ---

func TestCachedPredictor_CacheHit(t *testing.T) {
	inner := &countingPredictor{decision: true}
	cached := NewCachedPredictor(inner, 10)

	d1, err := cached.Predict(context.Background(), "demolition and regrading")
	require.NoError(t, err)
	assert.True(t, d1)

	d2, err := cached.Predict(context.Background(), "demolition and regrading")
	require.NoError(t, err)
	assert.True(t, d2)

	assert.Equal(t, 1, inner.calls, "should only call inner once")
}

func TestCachedPredictor_DifferentTextsMiss(t *testing.T) {
	inner := &countingPredictor{decision: false}
	cached := NewCachedPredictor(inner, 10)

	_, _ = cached.Predict(context.Background(), "text one")
	_, _ = cached.Predict(context.Background(), "text two")

	assert.Equal(t, 2, inner.calls)
}

func TestCachedPredictor_ErrorsNotCached(t *testing.T) {
	inner := &countingPredictor{err: errors.New("server unavailable")}
	cached := NewCachedPredictor(inner, 10)

	_, err := cached.Predict(context.Background(), "some text")
	require.Error(t, err)

	inner.err = nil
	inner.decision = true

	d, err := cached.Predict(context.Background(), "some text")
	require.NoError(t, err)
	assert.True(t, d)
	assert.Equal(t, 2, inner.calls, "failed call must not populate the cache")
}

// --- LRU cache unit tests ---

func TestLRUCache_BasicGetPut(t *testing.T) {
	c := newLRUCache(3)

	c.put("a", true)
	c.put("b", false)

	decision, ok := c.get("a")
	assert.True(t, ok)
	assert.True(t, decision)

	_, ok = c.get("missing")
	assert.False(t, ok)
}

func TestLRUCache_Eviction(t *testing.T) {
	c := newLRUCache(2)

	c.put("a", true)
	c.put("b", true)
	c.put("c", true) // evicts "a"

	_, ok := c.get("a")
	assert.False(t, ok, "a should have been evicted")

	_, ok = c.get("b")
	assert.True(t, ok)

	_, ok = c.get("c")
	assert.True(t, ok)
}

func TestLRUCache_AccessPromotesEntry(t *testing.T) {
	c := newLRUCache(2)

	c.put("a", true)
	c.put("b", true)

	// Access "a" to promote it
	c.get("a")

	// Insert "c", which should evict "b" (LRU), not "a"
	c.put("c", true)

	_, ok := c.get("a")
	assert.True(t, ok, "a was accessed recently, should not be evicted")

	_, ok = c.get("b")
	assert.False(t, ok, "b should have been evicted")
}

func TestLRUCache_UpdateExisting(t *testing.T) {
	c := newLRUCache(2)

	c.put("a", false)
	c.put("a", true)

	decision, ok := c.get("a")
	assert.True(t, ok)
	assert.True(t, decision)
}
