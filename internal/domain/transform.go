package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// ParseSubmission deserializes a RawEvent's value into a Submission.
// The message timestamp is used as the submission time.
func ParseSubmission(raw RawEvent) (Submission, error) {
	var rec SubmissionRecord
	if err := json.Unmarshal(raw.Value, &rec); err != nil {
		return Submission{}, fmt.Errorf("parse submission: %w", err)
	}

	return Submission{
		ID:          rec.SubmissionID,
		UserID:      rec.UserID,
		Form:        rec.PropertyForm,
		SubmittedAt: raw.Timestamp.UTC(),
	}, nil
}

// EstimateSubmission coerces the submitted form, runs the runoff model, and
// stamps the result with a deterministic ID and the processing time.
func EstimateSubmission(sub Submission) EstimateRecord {
	input := ParsePropertyForm(sub.Form)
	estimate := Calculate(input)

	return EstimateRecord{
		ID:           generateID(sub, input),
		SubmissionID: sub.ID,
		UserID:       sub.UserID,
		Input:        input,
		LocationName: input.Location.DisplayName(),
		Estimate:     estimate,
		CostBenefit:  CostBenefit(estimate),
		SubmittedAt:  sub.SubmittedAt,
		ProcessedAt:  processedAt(),
	}
}

// SerializeEstimateRecord marshals a record into an OutputEvent keyed by its ID.
func SerializeEstimateRecord(rec EstimateRecord) (OutputEvent, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize estimate record: %w", err)
	}
	return OutputEvent{
		Key:   []byte(rec.ID),
		Value: data,
		Headers: map[string]string{
			"recharge_structure": string(rec.Estimate.RechargeStructure),
			"processed_at":       rec.ProcessedAt.Format(time.RFC3339),
		},
	}, nil
}

// generateID produces a deterministic ID from the submission and its coerced
// input, so replaying a submission yields the same record ID.
func generateID(sub Submission, in PropertyInput) string {
	input := fmt.Sprintf("%s|%s|%g|%d|%g|%s|%d",
		sub.ID, sub.UserID, in.RooftopArea, in.DwellerCount, in.OpenSpaceArea, in.Location, sub.SubmittedAt.Unix())
	hash := sha256.Sum256([]byte(input))
	return "est-" + hex.EncodeToString(hash[:8])
}
