package domain

// Point is a WGS-84 coordinate pair. All containment math runs in
// geographic (latitude/longitude) coordinates.
type Point struct {
	Lat float64
	Lon float64
}

// Parcel is a real-property record from the parcel store.
type Parcel struct {
	BoroughCode string
	Address     string
	Centroid    Point
	LotAreaSF   float64
	HasLotArea  bool
}

// DrainageArea carries the pollutant indicator fields of an MS4 drainage
// polygon. Values are the raw categorical strings from the dataset; a
// pollutant is flagged when its field equals "YES" case-insensitively.
type DrainageArea struct {
	Name       string
	Floatables string
	Pathogens  string
	Nitrogen   string
	Phosphorus string
}

// ParcelStore is the geospatial parcel/drainage lookup consumed by the
// location resolver. Implementations must be safe for concurrent use after
// construction.
type ParcelStore interface {
	// FindParcel returns the first parcel in the borough whose address
	// contains the given string case-insensitively.
	FindParcel(boroughCode, address string) (Parcel, bool)

	// ParcelByAddress returns the parcel whose address equals the given
	// string exactly. Used to re-query a fuzzy-match candidate.
	ParcelByAddress(boroughCode, address string) (Parcel, bool)

	// Addresses returns the known addresses in a borough, for fuzzy
	// matching.
	Addresses(boroughCode string) []string

	// DrainageAreaContaining returns the first drainage-area polygon
	// containing the point, if any.
	DrainageAreaContaining(pt Point) (DrainageArea, bool)
}
