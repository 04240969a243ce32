package geostore

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jceal/stormwater-classifier/internal/domain"
)

const parcelFixture = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "geometry": {"type": "Point", "coordinates": [-73.98, 40.69]},
      "properties": {"Borough": "BK", "Address": "123 Main Street", "LotArea": 30000}
    },
    {
      "type": "Feature",
      "geometry": {
        "type": "Polygon",
        "coordinates": [[[-74.12, 40.56], [-74.10, 40.56], [-74.10, 40.58], [-74.12, 40.58], [-74.12, 40.56]]]
      },
      "properties": {"Borough": "si", "Address": "460 New Dorp Lane"}
    }
  ]
}`

const drainageFixture = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "geometry": {
        "type": "Polygon",
        "coordinates": [[[-74.2, 40.5], [-74.0, 40.5], [-74.0, 40.6], [-74.2, 40.6], [-74.2, 40.5]]]
      },
      "properties": {"NAME": "SI-OAKWOOD", "FLOATABLES": "YES", "PATHOGENS": "no", "NITROGEN": "YES", "PHOSPHORUS": ""}
    },
    {
      "type": "Feature",
      "geometry": {
        "type": "MultiPolygon",
        "coordinates": [[[[-73.95, 40.80], [-73.90, 40.80], [-73.90, 40.85], [-73.95, 40.85], [-73.95, 40.80]]]]
      },
      "properties": {"NAME": "MN-HARLEM", "FLOATABLES": "", "PATHOGENS": "YES", "NITROGEN": "", "PHOSPHORUS": ""}
    }
  ]
}`

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(
		writeFixture(t, "parcels.geojson", parcelFixture),
		writeFixture(t, "drainage.geojson", drainageFixture),
		nil,
		testLogger(),
	)
	require.NoError(t, err)
	return store
}

func TestStoreParcelLookups(t *testing.T) {
	store := newTestStore(t)

	t.Run("substring match is case-insensitive", func(t *testing.T) {
		parcel, ok := store.FindParcel("BK", "123 main street")
		require.True(t, ok)
		assert.Equal(t, "123 Main Street", parcel.Address)
		require.True(t, parcel.HasLotArea)
		assert.Equal(t, 30000.0, parcel.LotAreaSF)
		assert.Equal(t, domain.Point{Lat: 40.69, Lon: -73.98}, parcel.Centroid)
	})

	t.Run("borough codes are normalized to upper case", func(t *testing.T) {
		parcel, ok := store.FindParcel("SI", "460 New Dorp Lane")
		require.True(t, ok)
		assert.Equal(t, "SI", parcel.BoroughCode)
		assert.False(t, parcel.HasLotArea)
	})

	t.Run("polygon parcel centroid", func(t *testing.T) {
		parcel, ok := store.FindParcel("SI", "460 New Dorp Lane")
		require.True(t, ok)
		assert.InDelta(t, 40.57, parcel.Centroid.Lat, 1e-9)
		assert.InDelta(t, -74.11, parcel.Centroid.Lon, 1e-9)
	})

	t.Run("wrong borough misses", func(t *testing.T) {
		_, ok := store.FindParcel("QN", "123 Main Street")
		assert.False(t, ok)
	})

	t.Run("exact address lookup", func(t *testing.T) {
		_, ok := store.ParcelByAddress("BK", "123 Main Street")
		assert.True(t, ok)
		_, ok = store.ParcelByAddress("BK", "123 main street")
		assert.False(t, ok)
	})

	t.Run("address listing", func(t *testing.T) {
		assert.Equal(t, []string{"123 Main Street"}, store.Addresses("BK"))
		assert.Empty(t, store.Addresses("QN"))
	})
}

func TestStoreDrainageContainment(t *testing.T) {
	store := newTestStore(t)

	t.Run("point inside polygon zone", func(t *testing.T) {
		area, ok := store.DrainageAreaContaining(domain.Point{Lat: 40.57, Lon: -74.11})
		require.True(t, ok)
		assert.Equal(t, "SI-OAKWOOD", area.Name)
		assert.Equal(t, "YES", area.Floatables)
	})

	t.Run("point inside multipolygon zone", func(t *testing.T) {
		area, ok := store.DrainageAreaContaining(domain.Point{Lat: 40.82, Lon: -73.92})
		require.True(t, ok)
		assert.Equal(t, "MN-HARLEM", area.Name)
	})

	t.Run("point outside all zones", func(t *testing.T) {
		_, ok := store.DrainageAreaContaining(domain.Point{Lat: 40.69, Lon: -73.98})
		assert.False(t, ok)
	})
}

func TestStoreLoadErrors(t *testing.T) {
	t.Run("projected coordinates are rejected", func(t *testing.T) {
		projected := `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "geometry": {"type": "Point", "coordinates": [585000, 4500000]},
      "properties": {"Borough": "BK", "Address": "1 State Plane Way"}
    }
  ]
}`
		_, err := NewStore(writeFixture(t, "parcels.geojson", projected), "", nil, testLogger())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "outside lon/lat range")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := NewStore("/nonexistent/parcels.geojson", "", nil, testLogger())
		assert.Error(t, err)
	})

	t.Run("not a feature collection", func(t *testing.T) {
		_, err := NewStore(writeFixture(t, "parcels.geojson", `{"type": "Feature"}`), "", nil, testLogger())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "FeatureCollection")
	})

	t.Run("unsupported geometry", func(t *testing.T) {
		lineString := `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "geometry": {"type": "LineString", "coordinates": [[-73.98, 40.69], [-73.97, 40.70]]},
      "properties": {"Borough": "BK", "Address": "2 Linear Park"}
    }
  ]
}`
		_, err := NewStore(writeFixture(t, "parcels.geojson", lineString), "", nil, testLogger())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported parcel geometry")
	})

	t.Run("empty paths yield an empty store", func(t *testing.T) {
		store, err := NewStore("", "", nil, testLogger())
		require.NoError(t, err)

		_, ok := store.FindParcel("BK", "123 Main Street")
		assert.False(t, ok)
		_, ok = store.DrainageAreaContaining(domain.Point{Lat: 40.69, Lon: -73.98})
		assert.False(t, ok)
	})
}
