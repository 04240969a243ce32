// Command genmock generates mock geodata and a labeled evaluation dataset.
// It labels the sample descriptions with the actual classifier so the
// fixtures stay consistent with real pipeline behavior.
//
// Usage:
//
//	go run ./cmd/genmock -out-dir data/mock
package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jceal/stormwater-classifier/internal/adapter/geostore"
	"github.com/jceal/stormwater-classifier/internal/domain"
	"github.com/jceal/stormwater-classifier/internal/evaluation"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	outDir := flag.String("out-dir", "", "output directory for fixture files")
	flag.Parse()

	if *outDir == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out-dir")
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return err
	}

	parcelPath := filepath.Join(*outDir, "parcels.geojson")
	drainagePath := filepath.Join(*outDir, "drainage.geojson")
	labelsPath := filepath.Join(*outDir, "labels.csv")

	if err := writeJSON(parcelPath, parcelFixture()); err != nil {
		return fmt.Errorf("writing parcel fixture: %w", err)
	}
	log.Printf("wrote parcel fixture: %s", parcelPath)

	if err := writeJSON(drainagePath, drainageFixture()); err != nil {
		return fmt.Errorf("writing drainage fixture: %w", err)
	}
	log.Printf("wrote drainage fixture: %s", drainagePath)

	if err := writeLabels(labelsPath, parcelPath, drainagePath); err != nil {
		return fmt.Errorf("writing labeled dataset: %w", err)
	}
	log.Printf("wrote labeled dataset: %s (%d rows)", labelsPath, len(sampleDescriptions))
	return nil
}

// GeoJSON fixture types.

type featureCollection struct {
	Type     string    `json:"type"`
	Features []feature `json:"features"`
}

type feature struct {
	Type       string         `json:"type"`
	Geometry   geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

type geometry struct {
	Type        string `json:"type"`
	Coordinates any    `json:"coordinates"`
}

func point(lon, lat float64) geometry {
	return geometry{Type: "Point", Coordinates: []float64{lon, lat}}
}

func box(minLon, minLat, maxLon, maxLat float64) geometry {
	return geometry{Type: "Polygon", Coordinates: [][][]float64{{
		{minLon, minLat}, {maxLon, minLat}, {maxLon, maxLat}, {minLon, maxLat}, {minLon, minLat},
	}}}
}

func parcelFixture() featureCollection {
	parcels := []struct {
		borough, address string
		lon, lat         float64
		lotArea          float64
	}{
		{"BK", "123 Main Street", -73.98, 40.69, 30000},
		{"BK", "200 Atlantic Avenue", -73.99, 40.688, 8000},
		{"SI", "460 New Dorp Lane", -74.11, 40.57, 4000},
		{"SI", "88 Richmond Road", -74.12, 40.575, 45000},
		{"QN", "30-10 Steinway Street", -73.92, 40.76, 12000},
		{"MN", "350 Fifth Avenue", -73.985, 40.748, 91000},
	}

	fc := featureCollection{Type: "FeatureCollection"}
	for _, p := range parcels {
		fc.Features = append(fc.Features, feature{
			Type:     "Feature",
			Geometry: point(p.lon, p.lat),
			Properties: map[string]any{
				"Borough": p.borough,
				"Address": p.address,
				"LotArea": p.lotArea,
			},
		})
	}
	return fc
}

func drainageFixture() featureCollection {
	return featureCollection{
		Type: "FeatureCollection",
		Features: []feature{
			{
				Type:     "Feature",
				Geometry: box(-74.2, 40.5, -74.0, 40.6),
				Properties: map[string]any{
					"NAME": "SI-OAKWOOD", "FLOATABLES": "YES", "PATHOGENS": "NO",
					"NITROGEN": "YES", "PHOSPHORUS": "NO",
				},
			},
			{
				Type:     "Feature",
				Geometry: box(-73.95, 40.74, -73.90, 40.78),
				Properties: map[string]any{
					"NAME": "QN-FLUSHING", "FLOATABLES": "NO", "PATHOGENS": "YES",
					"NITROGEN": "NO", "PHOSPHORUS": "YES",
				},
			},
		},
	}
}

var sampleDescriptions = []string{
	"Project at 123 Main Street in the borough of Brooklyn will disturb 25,000 SF and add 6,000 SF of new impervious area",
	"Construction of a new building at 460 New Dorp Lane, Staten Island",
	"Disturbing 25,000 SF for a new building at 88 Richmond Road, Staten Island",
	"New impervious area of 5,500 square feet at 30-10 Steinway Street, Queens",
	"Disturbing the entire site at 88 Richmond Road, Staten Island for a new structure",
	"Full-depth reconstruction of the plaza at 350 Fifth Avenue, Manhattan",
	"Facade repairs at 200 Atlantic Avenue, Brooklyn",
	"Work disturbing 19,999 SF and adding 4,999 SF of new impervious area",
	"Interior renovation with no sitework",
	"Roadway reconstruction covering 12,000 sq ft",
}

// writeLabels classifies each sample against the generated geodata and
// writes the resulting labels as evaluation ground truth.
func writeLabels(labelsPath, parcelPath, drainagePath string) error {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := geostore.NewStore(parcelPath, drainagePath, nil, logger)
	if err != nil {
		return err
	}
	classifier := domain.NewClassifier(store, domain.PredictorBundle{}, logger)

	f, err := os.Create(labelsPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := append([]string{"description"}, evaluation.FinalLabels...)
	header = append(header, evaluation.IntermediateLabels...)
	if err := w.Write(header); err != nil {
		return err
	}

	for _, desc := range sampleDescriptions {
		final, inter := classifier.ClassifyWithExplanation(context.Background(), desc)

		nni := "false"
		if final.NNI.Applicable() {
			encoded, err := json.Marshal(final.NNI)
			if err != nil {
				return err
			}
			nni = string(encoded)
		}

		row := []string{
			desc,
			strconv.FormatBool(final.ESC),
			strconv.FormatBool(final.WQ),
			strconv.FormatBool(final.RR),
			strconv.FormatBool(final.Vv),
			nni,
			strconv.FormatBool(inter.Disturb20000SF),
			strconv.FormatBool(inter.NewImp),
			strconv.FormatBool(inter.NewImp5000SF),
			strconv.FormatBool(inter.Table22Activity),
			strconv.FormatBool(inter.InMS4),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
