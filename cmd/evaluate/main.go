// Command evaluate scores the classifier against a labeled CSV dataset and
// prints per-label precision/recall/F1 plus aggregate metrics.
//
// Usage:
//
//	go run ./cmd/evaluate \
//	  -data data/labels.csv \
//	  -parcel-data data/parcels.geojson \
//	  -drainage-data data/drainage.geojson \
//	  -model-server http://localhost:8000
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/jceal/stormwater-classifier/internal/adapter/geostore"
	"github.com/jceal/stormwater-classifier/internal/adapter/modelserver"
	"github.com/jceal/stormwater-classifier/internal/domain"
	"github.com/jceal/stormwater-classifier/internal/evaluation"
)

func main() {
	dataPath := flag.String("data", "", "path to labeled CSV dataset")
	parcelPath := flag.String("parcel-data", "", "path to parcel GeoJSON (optional)")
	drainagePath := flag.String("drainage-data", "", "path to drainage-area GeoJSON (optional)")
	modelServer := flag.String("model-server", "", "model server base URL (optional)")
	flag.Parse()

	if *dataPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*dataPath, *parcelPath, *drainagePath, *modelServer); code != 0 {
		os.Exit(code)
	}
}

func run(dataPath, parcelPath, drainagePath, modelServer string) int {
	// Evaluation output goes to stdout; diagnostics stay out of the way.
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	samples, err := evaluation.LoadDataset(dataPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load dataset: %v\n", err)
		return 1
	}

	var store domain.ParcelStore
	if parcelPath != "" || drainagePath != "" {
		s, err := geostore.NewStore(parcelPath, drainagePath, nil, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: load geodata: %v\n", err)
			return 1
		}
		store = s
	}

	var predictors domain.PredictorBundle
	if modelServer != "" {
		predictors = domain.PredictorBundle{
			Activity: modelserver.NewLazyPredictor(
				modelserver.NewClient(modelServer, "table_2_2_activity", 5*time.Second, logger, nil),
			),
			NewConnection: modelserver.NewLazyPredictor(
				modelserver.NewClient(modelServer, "new_connection", 5*time.Second, logger, nil),
			),
		}
	}

	classifier := domain.NewClassifier(store, predictors, logger)

	report := evaluation.Evaluate(context.Background(), classifier, samples)
	report.Render(os.Stdout)
	return 0
}
