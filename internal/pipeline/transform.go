package pipeline

import (
	"context"
	"log/slog"

	"github.com/jceal/stormwater-classifier/internal/domain"
	"github.com/jceal/stormwater-classifier/internal/observability"
)

// ClassificationTransformer implements Transformer by parsing a submission,
// classifying it, and serializing the labeled result.
type ClassificationTransformer struct {
	classifier *domain.Classifier
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewTransformer creates a ClassificationTransformer. Metrics may be nil.
func NewTransformer(classifier *domain.Classifier, metrics *observability.Metrics, logger *slog.Logger) *ClassificationTransformer {
	return &ClassificationTransformer{
		classifier: classifier,
		metrics:    metrics,
		logger:     logger,
	}
}

func (t *ClassificationTransformer) Transform(ctx context.Context, raw domain.RawSubmission) (domain.OutputEvent, error) {
	sub, err := domain.ParseRawSubmission(raw)
	if err != nil {
		return domain.OutputEvent{}, err
	}

	t.countParseOutcomes(sub.Description)

	result := t.classifier.ClassifySubmission(ctx, sub)
	return domain.SerializeClassification(result)
}

// countParseOutcomes records which fields the extractor recognized, the
// signal used to spot pattern drift in incoming descriptions.
func (t *ClassificationTransformer) countParseOutcomes(text string) {
	if t.metrics == nil {
		return
	}
	parsed := domain.ParseDescription(text)

	switch {
	case parsed.DisturbedArea.IsFullSite():
		t.metrics.ParseOutcomes.WithLabelValues("disturbed_area", "full_site").Inc()
	case parsed.DisturbedArea.IsAbsent():
		t.metrics.ParseOutcomes.WithLabelValues("disturbed_area", "absent").Inc()
	default:
		t.metrics.ParseOutcomes.WithLabelValues("disturbed_area", "measured").Inc()
	}

	switch {
	case parsed.NewImperviousSF > 1:
		t.metrics.ParseOutcomes.WithLabelValues("new_impervious", "measured").Inc()
	case parsed.NewImperviousSF == 1:
		t.metrics.ParseOutcomes.WithLabelValues("new_impervious", "nominal").Inc()
	default:
		t.metrics.ParseOutcomes.WithLabelValues("new_impervious", "absent").Inc()
	}

	if parsed.HasLocation() {
		t.metrics.ParseOutcomes.WithLabelValues("location", "present").Inc()
	} else {
		t.metrics.ParseOutcomes.WithLabelValues("location", "absent").Inc()
	}
}
