package domain

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// fuzzyMatchCutoff is the minimum similarity ratio for the fuzzy address
// fallback. 0.6 matches the behavior of the upstream address lists.
var fuzzyMatchCutoff = 0.6

// SetFuzzyMatchCutoff overrides the fuzzy fallback cutoff. Values outside
// (0, 1] are ignored.
func SetFuzzyMatchCutoff(v float64) {
	if v > 0 && v <= 1 {
		fuzzyMatchCutoff = v
	}
}

// ResolveLocation resolves a parsed address to parcel and drainage-area
// features. It is total: a missing address or borough, an unmapped borough,
// or an unresolvable parcel all degrade to the zero LocationFeatures.
func ResolveLocation(store ParcelStore, parsed ParsedDescription) LocationFeatures {
	if store == nil || !parsed.HasLocation() {
		return LocationFeatures{}
	}

	code, ok := parsed.Borough.Code()
	if !ok {
		return LocationFeatures{}
	}

	parcel, ok := store.FindParcel(code, parsed.StreetAddress)
	if !ok {
		parcel, ok = fuzzyFindParcel(store, code, parsed.StreetAddress)
	}
	if !ok {
		return LocationFeatures{}
	}

	features := LocationFeatures{
		LotAreaSF:  parcel.LotAreaSF,
		HasLotArea: parcel.HasLotArea,
	}

	if area, contained := store.DrainageAreaContaining(parcel.Centroid); contained {
		features.InMS4 = true
		features.Pollutants = pollutantTags(area)
	}

	if parsed.DisturbedArea.IsFullSite() && parcel.HasLotArea {
		features.FullSiteDisturbedSF = parcel.LotAreaSF
		features.HasFullSiteDisturbedSF = true
	}

	return features
}

// fuzzyFindParcel finds the closest known address in the borough by
// similarity ratio and re-queries the exact record. Candidates below the
// cutoff are rejected.
func fuzzyFindParcel(store ParcelStore, boroughCode, address string) (Parcel, bool) {
	best := ""
	bestRatio := 0.0
	for _, candidate := range store.Addresses(boroughCode) {
		r := similarityRatio(address, candidate)
		if r > bestRatio {
			best, bestRatio = candidate, r
		}
	}
	if bestRatio < fuzzyMatchCutoff {
		return Parcel{}, false
	}
	return store.ParcelByAddress(boroughCode, best)
}

// similarityRatio is the difflib sequence-matcher ratio over characters,
// case-insensitive.
func similarityRatio(a, b string) float64 {
	m := difflib.NewMatcher(splitChars(strings.ToLower(a)), splitChars(strings.ToLower(b)))
	return m.Ratio()
}

func splitChars(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

// pollutantTags reads the four indicator fields of a drainage area in the
// fixed vocabulary order.
func pollutantTags(area DrainageArea) []PollutantTag {
	var tags []PollutantTag
	if isYes(area.Floatables) {
		tags = append(tags, PollutantFloatables)
	}
	if isYes(area.Pathogens) {
		tags = append(tags, PollutantPathogens)
	}
	if isYes(area.Nitrogen) {
		tags = append(tags, PollutantNitrogen)
	}
	if isYes(area.Phosphorus) {
		tags = append(tags, PollutantPhosphorus)
	}
	return tags
}

func isYes(v string) bool {
	return strings.EqualFold(strings.TrimSpace(v), "YES")
}
