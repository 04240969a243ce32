package domain

import (
	"context"
	"log/slog"
)

// SWDM thresholds in square feet.
const (
	disturbThresholdSF = 20_000
	newImpThresholdSF  = 5_000
)

// Classifier combines the text extractor, the location resolver, and the
// predictor bundle into SWDM category labels. It holds only read-only state
// and is safe for concurrent use.
type Classifier struct {
	store      ParcelStore
	predictors PredictorBundle
	logger     *slog.Logger
}

// NewClassifier creates a Classifier. A nil store disables location
// resolution (all location features default); nil predictors default to
// false decisions.
func NewClassifier(store ParcelStore, predictors PredictorBundle, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{store: store, predictors: predictors, logger: logger}
}

// Classify runs the full pipeline on a raw description and returns the
// final labels.
func (c *Classifier) Classify(ctx context.Context, text string) FinalLabels {
	final, _ := c.ClassifyWithExplanation(ctx, text)
	return final
}

// ClassifyWithExplanation additionally returns the intermediate label
// vector for diagnostics and evaluation.
func (c *Classifier) ClassifyWithExplanation(ctx context.Context, text string) (FinalLabels, IntermediateLabels) {
	parsed := ParseDescription(text)
	loc := ResolveLocation(c.store, parsed)

	inter := c.computeIntermediates(ctx, parsed, loc)
	vv := c.predict(ctx, c.predictors.NewConnection, "new_connection", parsed.Text)

	return computeFinalLabels(inter, vv), inter
}

// ClassifySubmission classifies a submission and stamps the result with the
// package clock.
func (c *Classifier) ClassifySubmission(ctx context.Context, sub Submission) Classification {
	final, inter := c.ClassifyWithExplanation(ctx, sub.Description)
	return Classification{
		ID:           sub.ID,
		Final:        final,
		Intermediate: inter,
		ClassifiedAt: clock.Now(),
	}
}

// computeIntermediates derives the boolean feature vector from the parsed
// description and resolved location features.
func (c *Classifier) computeIntermediates(ctx context.Context, parsed ParsedDescription, loc LocationFeatures) IntermediateLabels {
	disturbed, hasDisturbed := disturbedAreaUsed(parsed, loc)
	newImp := parsed.NewImperviousSF

	return IntermediateLabels{
		Disturb20000SF:  hasDisturbed && disturbed >= disturbThresholdSF,
		NewImp5000SF:    newImp >= newImpThresholdSF,
		NewImp:          newImp > 0,
		Table22Activity: c.predict(ctx, c.predictors.Activity, "table_2_2_activity", parsed.Text),
		InMS4:           loc.InMS4,
		Pollutants:      loc.Pollutants,
	}
}

// disturbedAreaUsed picks the disturbance quantity the threshold rules see:
// the resolver's full-site value when the entire-site sentinel was parsed,
// otherwise the parsed number, otherwise the parcel lot area. An absent
// quantity never exceeds any threshold.
func disturbedAreaUsed(parsed ParsedDescription, loc LocationFeatures) (float64, bool) {
	if parsed.DisturbedArea.IsFullSite() {
		return loc.FullSiteDisturbedSF, loc.HasFullSiteDisturbedSF
	}
	if sf, ok := parsed.DisturbedArea.SquareFeet(); ok {
		return sf, true
	}
	return loc.LotAreaSF, loc.HasLotArea
}

// computeFinalLabels applies the deterministic SWDM rules. Every rule is
// evaluated independently from the same intermediate set.
func computeFinalLabels(inter IntermediateLabels, vv bool) FinalLabels {
	esc := inter.Disturb20000SF || inter.NewImp5000SF

	rr := (inter.NewImp || inter.NewImp5000SF) && !inter.Table22Activity
	wq := rr // identical SWDM rule, duplicated output field

	nni := NNINotApplicable()
	if inter.NewImp && inter.Disturb20000SF && !inter.Table22Activity && inter.InMS4 {
		nni = NNIApplicable(inter.Pollutants)
	}

	return FinalLabels{ESC: esc, WQ: wq, RR: rr, NNI: nni, Vv: vv}
}

// predict runs a binary classifier on the raw text. A nil or failing
// predictor degrades to false so the rule engine stays usable in
// partially-configured environments.
func (c *Classifier) predict(ctx context.Context, p Predictor, model, text string) bool {
	if p == nil {
		return false
	}
	decision, err := p.Predict(ctx, text)
	if err != nil {
		c.logger.Warn("predictor unavailable, defaulting to false",
			"model", model,
			"error", err,
		)
		return false
	}
	return decision
}
