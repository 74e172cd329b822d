package domain

import (
	"context"
	"log/slog"
)

// EnrichWithGeocoding attaches the selected region's coordinates to a record.
// If geocoder is nil the record is returned untouched; lookup failures and
// empty results only set GeoSource.
func EnrichWithGeocoding(ctx context.Context, rec EstimateRecord, geocoder Geocoder, logger *slog.Logger) EstimateRecord {
	if geocoder == nil {
		return rec
	}

	loc := rec.Input.Location
	if !loc.Known() || loc == LocationOther {
		rec.GeoSource = "original"
		return rec
	}

	result, err := geocoder.ForwardGeocode(ctx, loc.DisplayName())
	if err != nil {
		logger.Warn("forward geocoding failed",
			"record_id", rec.ID,
			"location", loc,
			"error", err,
		)
		rec.GeoSource = "failed"
		return rec
	}
	if result.Lat == 0 && result.Lng == 0 {
		rec.GeoSource = "original"
		return rec
	}

	rec.Geo = Geo{Lat: result.Lat, Lng: result.Lng}
	rec.FormattedAddress = result.FormattedAddress
	rec.GeoSource = "forward"
	return rec
}
