package geostore

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/jceal/stormwater-classifier/internal/domain"
	"github.com/jceal/stormwater-classifier/internal/observability"
)

// Store implements domain.ParcelStore over GeoJSON parcel and drainage-area
// files loaded once at startup. All lookups are in-memory and read-only
// after construction.
type Store struct {
	parcels   map[string][]domain.Parcel // keyed by borough code
	addresses map[string][]string
	drainage  []drainageZone
	metrics   *observability.Metrics
	logger    *slog.Logger
}

type drainageZone struct {
	area  domain.DrainageArea
	shape multiPolygon
}

// NewStore loads the parcel and drainage datasets. Either path may be empty,
// which leaves the corresponding lookups always missing. Metrics may be nil.
func NewStore(parcelPath, drainagePath string, metrics *observability.Metrics, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		parcels:   make(map[string][]domain.Parcel),
		addresses: make(map[string][]string),
		metrics:   metrics,
		logger:    logger,
	}

	if parcelPath != "" {
		if err := s.loadParcels(parcelPath); err != nil {
			return nil, fmt.Errorf("loading parcels from %s: %w", parcelPath, err)
		}
	}
	if drainagePath != "" {
		if err := s.loadDrainage(drainagePath); err != nil {
			return nil, fmt.Errorf("loading drainage areas from %s: %w", drainagePath, err)
		}
	}

	total := 0
	for _, ps := range s.parcels {
		total += len(ps)
	}
	logger.Info("geodata loaded",
		"parcels", total,
		"boroughs", len(s.parcels),
		"drainage_areas", len(s.drainage),
	)
	return s, nil
}

// FindParcel matches by case-insensitive address substring within a borough.
func (s *Store) FindParcel(boroughCode, address string) (domain.Parcel, bool) {
	needle := strings.ToLower(address)
	for _, p := range s.parcels[boroughCode] {
		if strings.Contains(strings.ToLower(p.Address), needle) {
			s.countLookup("exact", true)
			return p, true
		}
	}
	s.countLookup("exact", false)
	return domain.Parcel{}, false
}

// ParcelByAddress matches the stored address exactly.
func (s *Store) ParcelByAddress(boroughCode, address string) (domain.Parcel, bool) {
	for _, p := range s.parcels[boroughCode] {
		if p.Address == address {
			return p, true
		}
	}
	return domain.Parcel{}, false
}

// Addresses lists every known address in a borough, in file order.
func (s *Store) Addresses(boroughCode string) []string {
	return s.addresses[boroughCode]
}

// DrainageAreaContaining returns the first drainage area whose polygon
// contains the point.
func (s *Store) DrainageAreaContaining(pt domain.Point) (domain.DrainageArea, bool) {
	pos := position{pt.Lon, pt.Lat}
	for _, zone := range s.drainage {
		if zone.shape.contains(pos) {
			s.countLookup("drainage", true)
			return zone.area, true
		}
	}
	s.countLookup("drainage", false)
	return domain.DrainageArea{}, false
}

func (s *Store) countLookup(method string, hit bool) {
	if s.metrics == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	s.metrics.StoreLookups.WithLabelValues(method, result).Inc()
}

// GeoJSON wire types. Coordinates stay raw until the geometry type is known.

type featureCollection struct {
	Type     string    `json:"type"`
	Features []feature `json:"features"`
}

type feature struct {
	Geometry   geometry        `json:"geometry"`
	Properties json.RawMessage `json:"properties"`
}

type geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

type parcelProperties struct {
	Borough string   `json:"Borough"`
	Address string   `json:"Address"`
	LotArea *float64 `json:"LotArea"`
}

type drainageProperties struct {
	Name       string `json:"NAME"`
	Floatables string `json:"FLOATABLES"`
	Pathogens  string `json:"PATHOGENS"`
	Nitrogen   string `json:"NITROGEN"`
	Phosphorus string `json:"PHOSPHORUS"`
}

func (s *Store) loadParcels(path string) error {
	fc, err := readFeatureCollection(path)
	if err != nil {
		return err
	}

	for i, f := range fc.Features {
		var props parcelProperties
		if err := json.Unmarshal(f.Properties, &props); err != nil {
			return fmt.Errorf("feature %d: properties: %w", i, err)
		}
		if props.Borough == "" || props.Address == "" {
			s.logger.Warn("skipping parcel without borough or address", "feature", i)
			continue
		}

		centroid, err := parcelCentroid(f.Geometry)
		if err != nil {
			return fmt.Errorf("feature %d (%s): %w", i, props.Address, err)
		}

		code := strings.ToUpper(strings.TrimSpace(props.Borough))
		parcel := domain.Parcel{
			BoroughCode: code,
			Address:     props.Address,
			Centroid:    domain.Point{Lat: centroid.lat(), Lon: centroid.lon()},
		}
		if props.LotArea != nil {
			parcel.LotAreaSF = *props.LotArea
			parcel.HasLotArea = true
		}
		s.parcels[code] = append(s.parcels[code], parcel)
		s.addresses[code] = append(s.addresses[code], props.Address)
	}
	return nil
}

func (s *Store) loadDrainage(path string) error {
	fc, err := readFeatureCollection(path)
	if err != nil {
		return err
	}

	for i, f := range fc.Features {
		var props drainageProperties
		if err := json.Unmarshal(f.Properties, &props); err != nil {
			return fmt.Errorf("feature %d: properties: %w", i, err)
		}

		shape, err := decodeArea(f.Geometry)
		if err != nil {
			return fmt.Errorf("feature %d (%s): %w", i, props.Name, err)
		}

		s.drainage = append(s.drainage, drainageZone{
			area: domain.DrainageArea{
				Name:       props.Name,
				Floatables: props.Floatables,
				Pathogens:  props.Pathogens,
				Nitrogen:   props.Nitrogen,
				Phosphorus: props.Phosphorus,
			},
			shape: shape,
		})
	}
	return nil
}

func readFeatureCollection(path string) (featureCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return featureCollection{}, err
	}
	var fc featureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return featureCollection{}, fmt.Errorf("parsing GeoJSON: %w", err)
	}
	if fc.Type != "FeatureCollection" {
		return featureCollection{}, fmt.Errorf("expected FeatureCollection, got %q", fc.Type)
	}
	return fc, nil
}

// parcelCentroid resolves a parcel geometry to a representative point.
// Points are used directly; polygons use their area-weighted centroid.
func parcelCentroid(g geometry) (position, error) {
	switch g.Type {
	case "Point":
		var pt position
		if err := json.Unmarshal(g.Coordinates, &pt); err != nil {
			return position{}, fmt.Errorf("point coordinates: %w", err)
		}
		if !validCoordinate(pt) {
			return position{}, fmt.Errorf("coordinate %v outside lon/lat range, dataset may be projected", pt)
		}
		return pt, nil
	case "Polygon":
		var poly polygon
		if err := json.Unmarshal(g.Coordinates, &poly); err != nil {
			return position{}, fmt.Errorf("polygon coordinates: %w", err)
		}
		if err := validateRings(poly); err != nil {
			return position{}, err
		}
		return poly.centroid(), nil
	default:
		return position{}, fmt.Errorf("unsupported parcel geometry %q", g.Type)
	}
}

// decodeArea resolves a drainage geometry to a multiPolygon.
func decodeArea(g geometry) (multiPolygon, error) {
	switch g.Type {
	case "Polygon":
		var poly polygon
		if err := json.Unmarshal(g.Coordinates, &poly); err != nil {
			return nil, fmt.Errorf("polygon coordinates: %w", err)
		}
		if err := validateRings(poly); err != nil {
			return nil, err
		}
		return multiPolygon{poly}, nil
	case "MultiPolygon":
		var mp multiPolygon
		if err := json.Unmarshal(g.Coordinates, &mp); err != nil {
			return nil, fmt.Errorf("multipolygon coordinates: %w", err)
		}
		for _, poly := range mp {
			if err := validateRings(poly); err != nil {
				return nil, err
			}
		}
		return mp, nil
	default:
		return nil, fmt.Errorf("unsupported drainage geometry %q", g.Type)
	}
}

func validateRings(p polygon) error {
	for _, r := range p {
		for _, pt := range r {
			if !validCoordinate(pt) {
				return fmt.Errorf("coordinate %v outside lon/lat range, dataset may be projected", pt)
			}
		}
	}
	return nil
}
