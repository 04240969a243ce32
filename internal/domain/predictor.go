package domain

import "context"

// Predictor is a fitted binary text classifier: text in, thresholded
// decision out. Implementations threshold an internal probability at 0.5.
type Predictor interface {
	Predict(ctx context.Context, text string) (bool, error)
}

// PredictorBundle holds the two named classifiers the rule engine consumes.
// It is built once at startup and never mutated; nil fields mean the
// classifier is not configured and its decision defaults to false.
type PredictorBundle struct {
	// Activity predicts whether the described work is a Table 2.2
	// activity (exempt from runoff-reduction requirements).
	Activity Predictor

	// NewConnection predicts whether the project creates a new storm
	// sewer connection (the Vv category).
	NewConnection Predictor
}
