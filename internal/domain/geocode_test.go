package domain

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

// --- mock geocoder ---

type mockGeocoder struct {
	forwardResult GeocodingResult
	forwardErr    error
	forwardCalls  int
	lastQuery     string
}

func (m *mockGeocoder) ForwardGeocode(_ context.Context, place string) (GeocodingResult, error) {
	m.forwardCalls++
	m.lastQuery = place
	return m.forwardResult, m.forwardErr
}

func (m *mockGeocoder) ReverseGeocode(_ context.Context, _, _ float64) (GeocodingResult, error) {
	return GeocodingResult{}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func recordAt(loc LocationCode) EstimateRecord {
	return EstimateRecord{ID: "est-1", Input: PropertyInput{Location: loc}}
}

// --- tests ---

func TestEnrichWithGeocoding_NilGeocoder(t *testing.T) {
	result := EnrichWithGeocoding(context.Background(), recordAt(LocationPune), nil, discardLogger())

	assert.Empty(t, result.GeoSource)
	assert.Equal(t, Geo{}, result.Geo)
}

func TestEnrichWithGeocoding_Forward(t *testing.T) {
	geo := &mockGeocoder{
		forwardResult: GeocodingResult{
			Lat:              18.5204,
			Lng:              73.8567,
			FormattedAddress: "Pune, Maharashtra, India",
			PlaceName:        "Pune",
			Confidence:       0.97,
		},
	}

	result := EnrichWithGeocoding(context.Background(), recordAt(LocationPune), geo, discardLogger())

	assert.Equal(t, Geo{Lat: 18.5204, Lng: 73.8567}, result.Geo)
	assert.Equal(t, "Pune, Maharashtra, India", result.FormattedAddress)
	assert.Equal(t, "forward", result.GeoSource)
	assert.Equal(t, "Pune, Maharashtra", geo.lastQuery)
	assert.Equal(t, 1, geo.forwardCalls)
}

func TestEnrichWithGeocoding_Error_GracefulDegradation(t *testing.T) {
	geo := &mockGeocoder{forwardErr: errors.New("API timeout")}

	result := EnrichWithGeocoding(context.Background(), recordAt(LocationDelhi), geo, discardLogger())

	assert.Equal(t, "failed", result.GeoSource)
	assert.Equal(t, Geo{}, result.Geo)
}

func TestEnrichWithGeocoding_EmptyResult(t *testing.T) {
	geo := &mockGeocoder{}

	result := EnrichWithGeocoding(context.Background(), recordAt(LocationKolkata), geo, discardLogger())

	assert.Equal(t, "original", result.GeoSource)
}

func TestEnrichWithGeocoding_SkipsUnknownAndOther(t *testing.T) {
	geo := &mockGeocoder{}

	for _, loc := range []LocationCode{LocationOther, "jaipur", ""} {
		result := EnrichWithGeocoding(context.Background(), recordAt(loc), geo, discardLogger())
		assert.Equal(t, "original", result.GeoSource, loc)
	}
	assert.Equal(t, 0, geo.forwardCalls)
}
