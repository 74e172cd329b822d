package domain

import "context"

// GeocodingResult contains location data returned by a geocoding provider.
type GeocodingResult struct {
	Lat              float64
	Lng              float64
	FormattedAddress string
	PlaceName        string
	Confidence       float64 // 0.0–1.0 provider confidence score
}

// Empty reports whether the provider found nothing.
func (r GeocodingResult) Empty() bool {
	return r.FormattedAddress == "" && r.Lat == 0 && r.Lng == 0
}

// Geocoder resolves place names and coordinates through a mapping provider.
type Geocoder interface {
	// ForwardGeocode converts a free-text place to coordinates.
	ForwardGeocode(ctx context.Context, place string) (GeocodingResult, error)

	// ReverseGeocode converts coordinates to place details.
	ReverseGeocode(ctx context.Context, lat, lng float64) (GeocodingResult, error)
}
