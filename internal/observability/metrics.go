package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// classification pipeline.
type Metrics struct {
	MessagesConsumed     prometheus.Counter
	MessagesProduced     prometheus.Counter
	ClassificationErrors prometheus.Counter
	PipelineRunning      prometheus.Gauge

	// Batch processing metrics.
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram

	// Extraction and lookup metrics.
	ParseOutcomes *prometheus.CounterVec // labels: field={disturbed_area,new_impervious,location}, outcome={explicit,inferred,absent}
	StoreLookups  *prometheus.CounterVec // labels: method={exact,fuzzy,drainage}, result={hit,miss}

	// Model server metrics.
	PredictorRequests *prometheus.CounterVec   // labels: model, outcome={positive,negative,error}
	PredictorDuration *prometheus.HistogramVec // labels: model
	PredictorEnabled  prometheus.Gauge
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		MessagesConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "stormwater",
			Name:      "messages_consumed_total",
			Help:      "Total submissions read from the source topic.",
		}),
		MessagesProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "stormwater",
			Name:      "messages_produced_total",
			Help:      "Total labeled results written to the sink topic.",
		}),
		ClassificationErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "stormwater",
			Name:      "classification_errors_total",
			Help:      "Total submissions that failed to parse or serialize.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "stormwater",
			Name:      "pipeline_running",
			Help:      "1 when the pipeline is active, 0 when shut down.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "stormwater",
			Name:      "batch_size",
			Help:      "Number of submissions per batch extracted from Kafka.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "stormwater",
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete batch extract-classify-load cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		ParseOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stormwater",
			Name:      "parse_outcomes_total",
			Help:      "Text extraction outcomes by field.",
		}, []string{"field", "outcome"}),
		StoreLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stormwater",
			Name:      "store_lookups_total",
			Help:      "Parcel and drainage-area lookups by method and result.",
		}, []string{"method", "result"}),
		PredictorRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stormwater",
			Name:      "predictor_requests_total",
			Help:      "Model server requests by model and outcome.",
		}, []string{"model", "outcome"}),
		PredictorDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "stormwater",
			Name:      "predictor_duration_seconds",
			Help:      "Model server request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"model"}),
		PredictorEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "stormwater",
			Name:      "predictor_enabled",
			Help:      "1 when the model server predictors are configured, 0 otherwise.",
		}),
	}

	prometheus.MustRegister(
		m.MessagesConsumed,
		m.MessagesProduced,
		m.ClassificationErrors,
		m.PipelineRunning,
		m.BatchSize,
		m.BatchProcessingDuration,
		m.ParseOutcomes,
		m.StoreLookups,
		m.PredictorRequests,
		m.PredictorDuration,
		m.PredictorEnabled,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		MessagesConsumed:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "stormwater", Name: "messages_consumed_total"}),
		MessagesProduced:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "stormwater", Name: "messages_produced_total"}),
		ClassificationErrors:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "stormwater", Name: "classification_errors_total"}),
		PipelineRunning:         prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "stormwater", Name: "pipeline_running"}),
		BatchSize:               prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "stormwater", Name: "batch_size"}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "stormwater", Name: "batch_processing_duration_seconds"}),
		ParseOutcomes:           prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "stormwater", Name: "parse_outcomes_total"}, []string{"field", "outcome"}),
		StoreLookups:            prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "stormwater", Name: "store_lookups_total"}, []string{"method", "result"}),
		PredictorRequests:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "stormwater", Name: "predictor_requests_total"}, []string{"model", "outcome"}),
		PredictorDuration:       prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "stormwater", Name: "predictor_duration_seconds"}, []string{"model"}),
		PredictorEnabled:        prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "stormwater", Name: "predictor_enabled"}),
	}
}
