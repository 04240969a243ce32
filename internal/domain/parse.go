package domain

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// quantityRe matches a square-footage token like "12,000 SF" or
	// "12000 sq ft" anywhere in the text.
	quantityRe = regexp.MustCompile(`(?i)([\d,]+)\s*(?:sf|square\s*feet|sq\s*ft)`)

	// addressRe matches the first "<number> <name tokens> <suffix>" run,
	// e.g. "123 Main Street", "460 New Dorp Lane", "116 3rd Avenue".
	addressRe = regexp.MustCompile(`(?i)\b(\d+\s+[A-Za-z0-9.\-'\s]+?\s+(?:Street|St|Avenue|Ave|Boulevard|Blvd|Lane|Ln|Road|Rd|Drive|Dr))\b`)

	// boroughRe matches a borough name, optionally preceded by
	// "in the borough of".
	boroughRe = regexp.MustCompile(`(?i)\b(?:in\s+(?:the\s+borough\s+of\s+)?)?(Bronx\b|Brooklyn\b|Queens\b|Manhattan\b|Staten\s+Island\b|SI\b|S\.I\.)`)
)

// disturbPhrases are explicit disturbance phrasings, tried in order; the
// first match wins and its captured quantity becomes the disturbed area.
var disturbPhrases = []*regexp.Regexp{
	regexp.MustCompile(`(?i)disturb(?:s|ed|ance|ing)?\s*(?:approximately|around|roughly)?\s*([\d,]+\s*(?:sf|square\s*feet|sq\s*ft))`),
	regexp.MustCompile(`(?i)soil\s+disturbance\s*(?:of)?\s*([\d,]+\s*(?:sf|square\s*feet))`),
}

// fullSitePhrases imply the entire site is disturbed without giving a number.
// Only consulted after the explicit phrases and the lone-quantity heuristic
// have both failed.
var fullSitePhrases = []*regexp.Regexp{
	regexp.MustCompile(`(?i)disturb(?:ing|s|ed)?\s+(?:the\s+)?(?:entire|full)\s+(?:site|lot|parcel)`),
	regexp.MustCompile(`(?i)(?:entire|full)\s+(?:site|lot|parcel)\s+will\s+be\s+disturbed`),
	regexp.MustCompile(`(?i)full[-\s]?site`),
	regexp.MustCompile(`(?i)full[-\s]?lot`),
	regexp.MustCompile(`(?i)full[-\s]?parcel`),
	regexp.MustCompile(`(?i)full[-\s]depth\s+reconstruction`),
	regexp.MustCompile(`(?i)the\s+entire\s+.*\s+will\s+be\s+disturbed`),
}

// imperviousPhrases are explicit new-impervious-area phrasings, tried in
// order with the first match winning.
var imperviousPhrases = []*regexp.Regexp{
	regexp.MustCompile(`(?i)new\s+impervious\s+area\s*(?:of)?\s*([\d,]+\s*(?:sf|square\s*feet))`),
	regexp.MustCompile(`(?i)adding\s*([\d,]+\s*(?:sf|square\s*feet))\s+of\s+new\s+impervious`),
	regexp.MustCompile(`(?i)(?:propos(?:es|ing)\s*)?([\d,]+\s*(?:sf|square\s*feet))\s*(?:of)?\s*new\s+impervious`),
}

// newBuildingPhrases imply some unmeasured new impervious area. Any match
// records the nominal value 1.
var newBuildingPhrases = []*regexp.Regexp{
	regexp.MustCompile(`(?i)new\s+building`),
	regexp.MustCompile(`(?i)construction\s+of\s+(?:a\s+)?new`),
	regexp.MustCompile(`(?i)constructing\s+a\s+new`),
	regexp.MustCompile(`(?i)erect(?:ing)?\s+a\s+new`),
	regexp.MustCompile(`(?i)propos(?:es|ing)\s+a\s+new\s+building`),
	regexp.MustCompile(`(?i)replace(?:s|d|ment)?\s+.*\s+with\s+a\s+new\s+building`),
	regexp.MustCompile(`(?i)construct(?:ing)?\s+.*\s+new\s+building`),
	regexp.MustCompile(`(?i)new\s+\d+-story\s+building`),
	regexp.MustCompile(`(?i)new\s+structure`),
	regexp.MustCompile(`(?i)propos(?:es|ing)\s+.*new\s+building`),
}

// ParseDescription extracts address, borough, disturbed area, and new
// impervious area from a free-text project description. It is total: text
// matching no pattern yields absent/default fields, never an error.
func ParseDescription(text string) ParsedDescription {
	parsed := ParsedDescription{Text: text}

	if m := addressRe.FindStringSubmatch(text); m != nil {
		parsed.StreetAddress = m[1]
	}
	if m := boroughRe.FindStringSubmatch(text); m != nil {
		parsed.Borough = normalizeBorough(m[1])
	}

	parsed.DisturbedArea = parseDisturbedArea(text)
	parsed.NewImperviousSF = parseNewImpervious(text)

	return parsed
}

// parseDisturbedArea applies the disturbance cascade: explicit phrase, lone
// quantity heuristic, full-site sentinel, absent.
func parseDisturbedArea(text string) DisturbedArea {
	for _, re := range disturbPhrases {
		if m := re.FindStringSubmatch(text); m != nil {
			if sf, ok := extractSquareFeet(m[1]); ok {
				return DisturbedSquareFeet(sf)
			}
		}
	}

	// A single quantity anywhere in the text is assumed to describe
	// disturbance.
	if all := quantityRe.FindAllStringSubmatch(text, -1); len(all) == 1 {
		if sf, ok := extractSquareFeet(all[0][1]); ok {
			return DisturbedSquareFeet(sf)
		}
	}

	for _, re := range fullSitePhrases {
		if re.MatchString(text) {
			return FullSiteDisturbed()
		}
	}

	return DisturbedAreaAbsent()
}

// parseNewImpervious applies the impervious cascade: explicit phrase,
// new-building nominal value, zero.
func parseNewImpervious(text string) float64 {
	for _, re := range imperviousPhrases {
		if m := re.FindStringSubmatch(text); m != nil {
			if sf, ok := extractSquareFeet(m[1]); ok {
				return sf
			}
		}
	}

	for _, re := range newBuildingPhrases {
		if re.MatchString(text) {
			return 1
		}
	}

	return 0
}

var nonDigitRe = regexp.MustCompile(`[^\d]`)

// extractSquareFeet converts a quantity token like "12,000 SF" into 12000.
// A token with no digits yields false.
func extractSquareFeet(token string) (float64, bool) {
	cleaned := nonDigitRe.ReplaceAllString(token, "")
	if cleaned == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// normalizeBorough canonicalizes a matched borough token: case, internal
// whitespace, and the Staten Island abbreviations.
func normalizeBorough(match string) Borough {
	collapsed := whitespaceRe.ReplaceAllString(strings.TrimSpace(match), " ")
	switch strings.ToLower(collapsed) {
	case "bronx":
		return BoroughBronx
	case "brooklyn":
		return BoroughBrooklyn
	case "queens":
		return BoroughQueens
	case "manhattan":
		return BoroughManhattan
	case "staten island", "si", "s.i.":
		return BoroughStatenIsland
	default:
		return ""
	}
}
