// Package domain implements stormwater design manual (SWDM) category
// classification for construction project descriptions.
//
// # Input
//
// Projects arrive as free-text descriptions, e.g.
//
//	"Project at 123 Main Street in the borough of Brooklyn will disturb
//	 25,000 SF and add 6,000 SF of new impervious area"
//
// Only a fixed, finite pattern set is recognized; anything the patterns miss
// yields absent fields, never an error.
//
// # Extraction conventions
//
// Addresses:
//
//	"<number> <name tokens> <suffix>" where suffix is one of
//	Street/St/Avenue/Ave/Boulevard/Blvd/Lane/Ln/Road/Rd/Drive/Dr
//	(case-insensitive). First match wins.
//
// Boroughs:
//
//	Bronx, Brooklyn, Queens, Manhattan, Staten Island (also "SI"/"S.I."),
//	optionally preceded by "in the borough of". Mapped to the MapPLUTO
//	borough codes BX, BK, QN, MN, SI.
//
// Quantities:
//
//	"<digits-and-commas> SF|square feet|sq ft". Normalization strips every
//	non-digit character, so "12,000 SF" parses as 12000.
//
// Disturbed area resolves in strict priority order: an explicit disturbance
// phrase, then a lone quantity anywhere in the text (a single number is
// assumed to describe disturbance), then a full-site phrase which sets the
// entire-site sentinel instead of a number. Reordering the cascade silently
// changes behavior; the unit tests pin the documented precedence.
//
// New impervious area resolves similarly: an explicit impervious phrase, then
// a new-building phrase which records the nominal value 1 ("some new
// impervious area exists"), then 0.
//
// # SWDM thresholds
//
//	disturb_20000_sf: disturbed area >= 20,000 SF
//	new_imp_5000_sf:  new impervious area >= 5,000 SF
//	new_imp:          new impervious area > 0
//
// Final categories:
//
//	ESC = disturb_20000_sf OR new_imp_5000_sf
//	RR  = (new_imp OR new_imp_5000_sf) AND NOT table_2_2_activity
//	WQ  = RR (identical SWDM rule, kept as a separate field downstream)
//	NNI = pollutants of concern when new_imp AND disturb_20000_sf AND NOT
//	      table_2_2_activity AND in_ms4, otherwise not applicable
//	Vv  = new-connection text classifier decision
//
// table_2_2_activity and Vv come from fitted binary text classifiers served
// remotely; a missing or unreachable classifier degrades to false.
//
// # Pollutants of concern
//
// MS4 drainage-area polygons carry FLOATABLES, PATHOGENS, NITROGEN and
// PHOSPHORUS indicator fields; a tag is emitted when the field equals "YES"
// (case-insensitive). The vocabulary is fixed: floatables, pathogens,
// nitrogen, phosphorus.
package domain
