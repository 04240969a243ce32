// Command classifier runs the stormwater classification service: it consumes
// project submissions from Kafka, labels them with SWDM categories, publishes
// the results to the sink topic, and serves a synchronous HTTP endpoint.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/jceal/stormwater-classifier/internal/adapter/geostore"
	httpadapter "github.com/jceal/stormwater-classifier/internal/adapter/http"
	kafkaadapter "github.com/jceal/stormwater-classifier/internal/adapter/kafka"
	"github.com/jceal/stormwater-classifier/internal/adapter/modelserver"
	"github.com/jceal/stormwater-classifier/internal/config"
	"github.com/jceal/stormwater-classifier/internal/domain"
	"github.com/jceal/stormwater-classifier/internal/observability"
	"github.com/jceal/stormwater-classifier/internal/pipeline"
)

func main() {
	// Local development convenience; missing .env is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	domain.SetFuzzyMatchCutoff(cfg.FuzzyMatchCutoff)

	store, closeStore, err := buildStore(cfg, metrics, logger)
	if err != nil {
		logger.Error("failed to initialize parcel store", "error", err)
		os.Exit(1)
	}
	if closeStore != nil {
		defer closeStore()
	}

	predictors := buildPredictors(cfg, metrics, logger)
	classifier := domain.NewClassifier(store, predictors, logger)

	reader := kafkaadapter.NewReader(cfg, logger)
	writer := kafkaadapter.NewWriter(cfg, logger)
	transformer := pipeline.NewTransformer(classifier, metrics, logger)

	p := pipeline.New(reader, transformer, writer, logger, metrics, cfg.BatchSize)

	srv := httpadapter.NewServer(cfg.HTTPAddr, classifier, p, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := reader.Close(); err != nil {
		logger.Error("kafka reader close error", "error", err)
	}
	if err := writer.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}

	logger.Info("shutdown complete")
}

// buildStore selects the parcel store backend. The returned close function
// is nil for stores without resources to release.
func buildStore(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) (domain.ParcelStore, func(), error) {
	switch cfg.ParcelStore {
	case "none":
		logger.Info("parcel store disabled, location features default to false")
		return nil, nil, nil
	case "postgres":
		store, err := geostore.NewPostgresStore(cfg.PostgresDSN, metrics, logger)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {
			if err := store.Close(); err != nil {
				logger.Error("parcel store close error", "error", err)
			}
		}, nil
	default:
		store, err := geostore.NewStore(cfg.ParcelDataPath, cfg.DrainageDataPath, metrics, logger)
		if err != nil {
			return nil, nil, err
		}
		return store, nil, nil
	}
}

// buildPredictors wires the model server clients, feature-flagged via
// MODEL_SERVER_ENABLED / MODEL_SERVER_URL.
func buildPredictors(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) domain.PredictorBundle {
	if !cfg.ModelServerEnabled {
		logger.Info("model server disabled, predictor labels default to false")
		metrics.PredictorEnabled.Set(0)
		return domain.PredictorBundle{}
	}

	logger.Info("model server enabled",
		"url", cfg.ModelServerURL, "timeout", cfg.ModelServerTimeout, "cache_size", cfg.ModelCacheSize)
	metrics.PredictorEnabled.Set(1)

	build := func(model string) domain.Predictor {
		client := modelserver.NewClient(cfg.ModelServerURL, model, cfg.ModelServerTimeout, logger, metrics)
		return modelserver.NewCachedPredictor(modelserver.NewLazyPredictor(client), cfg.ModelCacheSize)
	}
	return domain.PredictorBundle{
		Activity:      build("table_2_2_activity"),
		NewConnection: build("new_connection"),
	}
}
