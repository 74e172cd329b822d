package domain

import "strings"

// LocationCode identifies a region on the estimate form's location selector.
type LocationCode string

const (
	LocationMumbai    LocationCode = "mumbai"
	LocationDelhi     LocationCode = "delhi"
	LocationBangalore LocationCode = "bangalore"
	LocationChennai   LocationCode = "chennai"
	LocationHyderabad LocationCode = "hyderabad"
	LocationPune      LocationCode = "pune"
	LocationKolkata   LocationCode = "kolkata"
	LocationAhmedabad LocationCode = "ahmedabad"
	LocationOther     LocationCode = "other"
)

var locationNames = map[LocationCode]string{
	LocationMumbai:    "Mumbai, Maharashtra",
	LocationDelhi:     "Delhi, NCR",
	LocationBangalore: "Bangalore, Karnataka",
	LocationChennai:   "Chennai, Tamil Nadu",
	LocationHyderabad: "Hyderabad, Telangana",
	LocationPune:      "Pune, Maharashtra",
	LocationKolkata:   "Kolkata, West Bengal",
	LocationAhmedabad: "Ahmedabad, Gujarat",
	LocationOther:     "Other",
}

// LocationCodes lists the selector options in display order.
func LocationCodes() []LocationCode {
	return []LocationCode{
		LocationMumbai, LocationDelhi, LocationBangalore, LocationChennai,
		LocationHyderabad, LocationPune, LocationKolkata, LocationAhmedabad,
		LocationOther,
	}
}

// ParseLocationCode normalizes a selector value. Unknown values are kept
// (lowercased, trimmed) rather than rejected.
func ParseLocationCode(s string) LocationCode {
	return LocationCode(strings.ToLower(strings.TrimSpace(s)))
}

// Known reports whether the code is one of the selector options.
func (c LocationCode) Known() bool {
	_, ok := locationNames[c]
	return ok
}

// DisplayName returns the selector label, or the raw code when unknown.
func (c LocationCode) DisplayName() string {
	if name, ok := locationNames[c]; ok {
		return name
	}
	return string(c)
}
