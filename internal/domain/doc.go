// Package domain models rooftop rainwater-harvesting estimates.
//
// # Runoff Model
//
// The estimate is a fixed-constant runoff model. Rainfall is not looked up by
// region; the location selected on the form only centres the map.
//
//	annual runoff (L/yr) = round(rooftop area (m²) × 0.8 × 800 mm)
//	initial cost (₹)     = round(rooftop area × 150)
//	annual savings (₹)   = round(annual runoff × 0.02)
//
// One millimetre of rain on one square metre is one litre, so area × rainfall
// in mm yields litres directly. The runoff coefficient of 0.8 is the share of
// that rain a pitched or flat rooftop sheds into gutters.
//
// Savings are computed from the already rounded runoff figure, so the two
// numbers shown to the user stay consistent with each other.
//
// # Recharge Structures
//
// The recommended structure depends only on available open space, evaluated
// in order with strict comparisons:
//
//	open space > 50 m²  Recharge Trench   10m x 1m x 2m deep
//	open space > 20 m²  Percolation Tank  3m x 3m x 2m deep
//	otherwise           Recharge Pit      2m x 2m x 3m deep
//
// Exactly 20 and exactly 50 fall to the lower tier.
//
// # Form Input
//
// Form values arrive as free text and are never rejected. Areas parse the
// leading numeric prefix of the value ("150m2" is 150); anything unparseable,
// negative, or non-finite becomes 0. The dweller count parses a leading
// integer and falls back to 1. Dwellers and location are carried through to
// the output but do not enter any formula.
//
// # Sessions and Access
//
// The session record is a single JSON object {id, email, name}. Its presence
// is the only authentication signal: there is no token and no expiry. Access
// to protected paths is decided by [Guard], which returns a [Decision] before
// any protected content is produced.
package domain
