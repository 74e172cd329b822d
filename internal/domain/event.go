package domain

import (
	"context"
	"time"
)

// SubmissionRecord is the flat JSON a site form submission is published as.
// Form values stay as free text; coercion happens in the estimator.
type SubmissionRecord struct {
	SubmissionID string `json:"submission_id"`
	UserID       string `json:"user_id"`
	PropertyForm
}

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// Geo represents a WGS-84 latitude/longitude coordinate pair.
type Geo struct {
	Lat float64 `json:"lat,omitempty"`
	Lng float64 `json:"lng,omitempty"`
}

// Submission is a parsed form submission.
type Submission struct {
	ID          string
	UserID      string
	Form        PropertyForm
	SubmittedAt time.Time
}

// EstimateRecord is an estimate computed for a submission.
type EstimateRecord struct {
	ID           string          `json:"id"`
	SubmissionID string          `json:"submission_id,omitempty"`
	UserID       string          `json:"user_id,omitempty"`
	Input        PropertyInput   `json:"input"`
	LocationName string          `json:"location_name,omitempty"`
	Estimate     HarvestEstimate `json:"estimate"`
	CostBenefit  string          `json:"cost_benefit"`

	// Geocoding enrichment of the selected region.
	Geo              Geo    `json:"geo,omitempty"`
	FormattedAddress string `json:"formatted_address,omitempty"`
	GeoSource        string `json:"geo_source,omitempty"` // "forward", "original", "failed"

	SubmittedAt time.Time `json:"submitted_at"`
	ProcessedAt time.Time `json:"processed_at"`
}

// OutputEvent is the serialized form destined for the sink topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}
