package domain

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// PropertyForm is the estimate form as submitted, before coercion.
// Field names follow the form's input ids.
type PropertyForm struct {
	RooftopArea string `json:"rooftopArea"`
	Dwellers    string `json:"dwellers"`
	OpenSpace   string `json:"openSpace"`
	Location    string `json:"location"`
}

// Complete reports whether every form field was filled in. The form only
// offers submission once it is complete, but ParsePropertyForm accepts any input.
func (f PropertyForm) Complete() bool {
	return strings.TrimSpace(f.RooftopArea) != "" &&
		strings.TrimSpace(f.Dwellers) != "" &&
		strings.TrimSpace(f.OpenSpace) != "" &&
		strings.TrimSpace(f.Location) != ""
}

var (
	// floatPrefixRe matches the leading decimal number of a value, e.g. "150m2" -> "150".
	floatPrefixRe = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`)

	// intPrefixRe matches the leading integer of a value, e.g. "4.5" -> "4".
	intPrefixRe = regexp.MustCompile(`^[+-]?\d+`)
)

// ParsePropertyForm coerces free-text form values into a PropertyInput.
// It never fails: unparseable areas become 0 and an unparseable or
// non-positive dweller count becomes 1.
func ParsePropertyForm(f PropertyForm) PropertyInput {
	return PropertyInput{
		RooftopArea:   parseAreaOrZero(f.RooftopArea),
		DwellerCount:  parseCountOrOne(f.Dwellers),
		OpenSpaceArea: parseAreaOrZero(f.OpenSpace),
		Location:      ParseLocationCode(f.Location),
	}
}

// parseAreaOrZero parses the leading number of s, returning 0 when there is
// none or the value is negative or non-finite.
func parseAreaOrZero(s string) float64 {
	m := floatPrefixRe.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}

// parseCountOrOne parses the leading integer of s, returning 1 when there is
// none or the count is not positive.
func parseCountOrOne(s string) int {
	m := intPrefixRe.FindString(strings.TrimSpace(s))
	if m == "" {
		return 1
	}
	v, err := strconv.Atoi(m)
	if err != nil || v <= 0 {
		return 1
	}
	return v
}
