package domain

// Borough is one of the five NYC borough names as they appear in
// project descriptions.
type Borough string

const (
	BoroughBronx        Borough = "Bronx"
	BoroughBrooklyn     Borough = "Brooklyn"
	BoroughQueens       Borough = "Queens"
	BoroughManhattan    Borough = "Manhattan"
	BoroughStatenIsland Borough = "Staten Island"
)

// boroughCodes maps borough names to the short codes used by the parcel store
// (MapPLUTO convention).
var boroughCodes = map[Borough]string{
	BoroughManhattan:    "MN",
	BoroughBronx:        "BX",
	BoroughBrooklyn:     "BK",
	BoroughQueens:       "QN",
	BoroughStatenIsland: "SI",
}

// Code returns the parcel-store borough code, or false for an
// unmapped borough (including the empty value).
func (b Borough) Code() (string, bool) {
	code, ok := boroughCodes[b]
	return code, ok
}

// DisturbedArea is a tagged value: absent, the entire-site sentinel, or a
// measured quantity in square feet. The sentinel and a numeric value are
// mutually exclusive by construction.
type DisturbedArea struct {
	kind disturbedKind
	sf   float64
}

type disturbedKind uint8

const (
	disturbedAbsent disturbedKind = iota
	disturbedFullSite
	disturbedMeasured
)

// DisturbedAreaAbsent reports that no disturbance information was recognized.
func DisturbedAreaAbsent() DisturbedArea { return DisturbedArea{} }

// FullSiteDisturbed reports that the description says the entire site, lot,
// or parcel is disturbed, without giving a number.
func FullSiteDisturbed() DisturbedArea { return DisturbedArea{kind: disturbedFullSite} }

// DisturbedSquareFeet reports a measured disturbance quantity.
func DisturbedSquareFeet(sf float64) DisturbedArea {
	return DisturbedArea{kind: disturbedMeasured, sf: sf}
}

func (d DisturbedArea) IsAbsent() bool   { return d.kind == disturbedAbsent }
func (d DisturbedArea) IsFullSite() bool { return d.kind == disturbedFullSite }

// SquareFeet returns the measured quantity; ok is false when the value is
// absent or the full-site sentinel.
func (d DisturbedArea) SquareFeet() (float64, bool) {
	return d.sf, d.kind == disturbedMeasured
}

// ParsedDescription is the immutable result of text extraction. Absent fields
// are the zero value: empty address, empty borough, DisturbedAreaAbsent.
type ParsedDescription struct {
	Text            string
	StreetAddress   string
	Borough         Borough
	DisturbedArea   DisturbedArea
	NewImperviousSF float64
}

// HasLocation reports whether both an address and a borough were extracted,
// the precondition for any parcel lookup.
func (p ParsedDescription) HasLocation() bool {
	return p.StreetAddress != "" && p.Borough != ""
}
