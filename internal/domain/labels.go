package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// PollutantTag is one of the fixed pollutant-of-concern vocabulary.
type PollutantTag string

const (
	PollutantFloatables PollutantTag = "floatables"
	PollutantPathogens  PollutantTag = "pathogens"
	PollutantNitrogen   PollutantTag = "nitrogen"
	PollutantPhosphorus PollutantTag = "phosphorus"
)

// LocationFeatures is the result of resolving a parsed address against the
// parcel and drainage stores. The zero value is the safe default returned
// whenever resolution is impossible.
type LocationFeatures struct {
	InMS4      bool
	Pollutants []PollutantTag

	LotAreaSF  float64
	HasLotArea bool

	// FullSiteDisturbedSF is populated only when the description used the
	// entire-site sentinel and a parcel with a lot area was resolved.
	FullSiteDisturbedSF    float64
	HasFullSiteDisturbedSF bool
}

// IntermediateLabels is the derived boolean feature vector, computed fresh
// per classification call and exposed for diagnostics and evaluation.
type IntermediateLabels struct {
	Disturb20000SF  bool           `json:"disturb_20000_sf"`
	NewImp5000SF    bool           `json:"new_imp_5000_sf"`
	NewImp          bool           `json:"new_imp"`
	Table22Activity bool           `json:"table_2_2_activity"`
	InMS4           bool           `json:"in_ms4"`
	Pollutants      []PollutantTag `json:"pollutants_of_concern"`
}

// NNIResult is a tagged variant: either not applicable, or applicable with a
// non-empty pollutant tag set. It is never an empty set; the single
// construction site collapses an empty set to not-applicable.
type NNIResult struct {
	applicable bool
	pollutants []PollutantTag
}

// NNINotApplicable is the negative NNI outcome.
func NNINotApplicable() NNIResult { return NNIResult{} }

// NNIApplicable builds a positive NNI outcome carrying the pollutant tags.
// An empty tag set yields the not-applicable variant.
func NNIApplicable(tags []PollutantTag) NNIResult {
	if len(tags) == 0 {
		return NNIResult{}
	}
	return NNIResult{applicable: true, pollutants: tags}
}

// Applicable reports whether NNI applies.
func (n NNIResult) Applicable() bool { return n.applicable }

// Pollutants returns the tag set; nil when not applicable.
func (n NNIResult) Pollutants() []PollutantTag { return n.pollutants }

// MarshalJSON emits false for not-applicable and the tag array otherwise,
// the shape downstream regulatory workflows consume.
func (n NNIResult) MarshalJSON() ([]byte, error) {
	if !n.applicable {
		return []byte("false"), nil
	}
	return json.Marshal(n.pollutants)
}

// UnmarshalJSON accepts either the boolean false or a tag array.
func (n *NNIResult) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		if b {
			return fmt.Errorf("NNI: boolean true is not a valid encoding")
		}
		*n = NNIResult{}
		return nil
	}
	var tags []PollutantTag
	if err := json.Unmarshal(data, &tags); err != nil {
		return fmt.Errorf("NNI: %w", err)
	}
	*n = NNIApplicable(tags)
	return nil
}

// FinalLabels is the output contract consumed by downstream regulatory
// workflows. WQ always equals RR; both fields are kept for compatibility.
type FinalLabels struct {
	ESC bool      `json:"ESC"`
	WQ  bool      `json:"WQ"`
	RR  bool      `json:"RR"`
	NNI NNIResult `json:"NNI"`
	Vv  bool      `json:"Vv"`
}

// Classification is a labeled result as published to the sink topic and
// returned by the HTTP surface.
type Classification struct {
	ID           string             `json:"id"`
	Final        FinalLabels        `json:"final"`
	Intermediate IntermediateLabels `json:"intermediate"`
	ClassifiedAt time.Time          `json:"classified_at"`
}
