package geostore

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/jceal/stormwater-classifier/internal/domain"
	"github.com/jceal/stormwater-classifier/internal/observability"
)

// PostgresStore implements domain.ParcelStore against a Postgres database.
// Parcels are queried per lookup; drainage-area polygons are loaded once at
// startup and containment runs in memory, matching the GeoJSON store.
type PostgresStore struct {
	db       *sqlx.DB
	drainage []drainageZone
	metrics  *observability.Metrics
	logger   *slog.Logger
}

type parcelRow struct {
	BoroughCode string          `db:"borough_code"`
	Address     string          `db:"address"`
	Lat         float64         `db:"lat"`
	Lon         float64         `db:"lon"`
	LotArea     sql.NullFloat64 `db:"lot_area"`
}

type drainageRow struct {
	Name       string `db:"name"`
	Floatables string `db:"floatables"`
	Pathogens  string `db:"pathogens"`
	Nitrogen   string `db:"nitrogen"`
	Phosphorus string `db:"phosphorus"`
	Geometry   []byte `db:"geometry"`
}

// NewPostgresStore connects, verifies the connection, and preloads the
// drainage-area polygons. Metrics may be nil.
func NewPostgresStore(dsn string, metrics *observability.Metrics, logger *slog.Logger) (*PostgresStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}

	s := &PostgresStore{db: db, metrics: metrics, logger: logger}
	if err := s.loadDrainage(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("postgres parcel store ready", "drainage_areas", len(s.drainage))
	return s, nil
}

// Close releases the database connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) loadDrainage() error {
	const query = `
		SELECT name, floatables, pathogens, nitrogen, phosphorus, geometry
		FROM drainage_areas`

	var rows []drainageRow
	if err := s.db.Select(&rows, query); err != nil {
		return fmt.Errorf("loading drainage areas: %w", err)
	}

	for _, row := range rows {
		var g geometry
		if err := json.Unmarshal(row.Geometry, &g); err != nil {
			return fmt.Errorf("drainage area %s: geometry: %w", row.Name, err)
		}
		shape, err := decodeArea(g)
		if err != nil {
			return fmt.Errorf("drainage area %s: %w", row.Name, err)
		}
		s.drainage = append(s.drainage, drainageZone{
			area: domain.DrainageArea{
				Name:       row.Name,
				Floatables: row.Floatables,
				Pathogens:  row.Pathogens,
				Nitrogen:   row.Nitrogen,
				Phosphorus: row.Phosphorus,
			},
			shape: shape,
		})
	}
	return nil
}

// FindParcel matches by case-insensitive address substring within a borough.
func (s *PostgresStore) FindParcel(boroughCode, address string) (domain.Parcel, bool) {
	const query = `
		SELECT borough_code, address, lat, lon, lot_area
		FROM parcels
		WHERE borough_code = $1 AND address ILIKE '%' || $2 || '%'
		ORDER BY address
		LIMIT 1`

	return s.queryOne("exact", query, boroughCode, address)
}

// ParcelByAddress matches the stored address exactly.
func (s *PostgresStore) ParcelByAddress(boroughCode, address string) (domain.Parcel, bool) {
	const query = `
		SELECT borough_code, address, lat, lon, lot_area
		FROM parcels
		WHERE borough_code = $1 AND address = $2
		LIMIT 1`

	return s.queryOne("by_address", query, boroughCode, address)
}

func (s *PostgresStore) queryOne(method, query string, args ...any) (domain.Parcel, bool) {
	var row parcelRow
	err := s.db.Get(&row, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		s.countLookup(method, false)
		return domain.Parcel{}, false
	}
	if err != nil {
		s.logger.Error("parcel query failed", "method", method, "error", err)
		s.countLookup(method, false)
		return domain.Parcel{}, false
	}

	s.countLookup(method, true)
	parcel := domain.Parcel{
		BoroughCode: row.BoroughCode,
		Address:     row.Address,
		Centroid:    domain.Point{Lat: row.Lat, Lon: row.Lon},
	}
	if row.LotArea.Valid {
		parcel.LotAreaSF = row.LotArea.Float64
		parcel.HasLotArea = true
	}
	return parcel, true
}

// Addresses lists every known address in a borough.
func (s *PostgresStore) Addresses(boroughCode string) []string {
	const query = `SELECT address FROM parcels WHERE borough_code = $1 ORDER BY address`

	var out []string
	if err := s.db.Select(&out, query, boroughCode); err != nil {
		s.logger.Error("address listing failed", "borough", boroughCode, "error", err)
		return nil
	}
	return out
}

// DrainageAreaContaining returns the first preloaded drainage area whose
// polygon contains the point.
func (s *PostgresStore) DrainageAreaContaining(pt domain.Point) (domain.DrainageArea, bool) {
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

func (s *PostgresStore) countLookup(method string, hit bool) {
	if s.metrics == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	s.metrics.StoreLookups.WithLabelValues(method, result).Inc()
}
