package geostore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func square(minLon, minLat, maxLon, maxLat float64) ring {
	return ring{
		{minLon, minLat},
		{maxLon, minLat},
		{maxLon, maxLat},
		{minLon, maxLat},
		{minLon, minLat},
	}
}

func TestPolygonContains(t *testing.T) {
	outer := square(0, 0, 10, 10)

	t.Run("simple polygon", func(t *testing.T) {
		p := polygon{outer}
		assert.True(t, p.contains(position{5, 5}))
		assert.False(t, p.contains(position{15, 5}))
		assert.False(t, p.contains(position{-1, -1}))
	})

	t.Run("hole excludes interior points", func(t *testing.T) {
		p := polygon{outer, square(4, 4, 6, 6)}
		assert.True(t, p.contains(position{2, 2}))
		assert.False(t, p.contains(position{5, 5}))
	})

	t.Run("empty polygon contains nothing", func(t *testing.T) {
		assert.False(t, polygon{}.contains(position{0, 0}))
	})
}

func TestMultiPolygonContains(t *testing.T) {
	mp := multiPolygon{
		{square(0, 0, 1, 1)},
		{square(10, 10, 11, 11)},
	}
	assert.True(t, mp.contains(position{0.5, 0.5}))
	assert.True(t, mp.contains(position{10.5, 10.5}))
	assert.False(t, mp.contains(position{5, 5}))
}

func TestCentroid(t *testing.T) {
	t.Run("square", func(t *testing.T) {
		c := polygon{square(0, 0, 10, 10)}.centroid()
		assert.InDelta(t, 5, c.lon(), 1e-9)
		assert.InDelta(t, 5, c.lat(), 1e-9)
	})

	t.Run("degenerate ring falls back to vertex average", func(t *testing.T) {
		c := polygon{ring{{2, 4}, {2, 4}, {2, 4}}}.centroid()
		assert.InDelta(t, 2, c.lon(), 1e-9)
		assert.InDelta(t, 4, c.lat(), 1e-9)
	})
}

func TestValidCoordinate(t *testing.T) {
	assert.True(t, validCoordinate(position{-73.98, 40.69}))
	assert.True(t, validCoordinate(position{180, -90}))
	assert.False(t, validCoordinate(position{585000, 4500000}))
	assert.False(t, validCoordinate(position{0, 91}))
}
