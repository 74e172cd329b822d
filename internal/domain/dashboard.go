package domain

import "time"

// EstimateStatus tracks how far a saved estimate has progressed.
type EstimateStatus string

const (
	StatusDraft      EstimateStatus = "draft"
	StatusInProgress EstimateStatus = "in-progress"
	StatusCompleted  EstimateStatus = "completed"
)

// SavedEstimate is a rooftop estimate listed on the dashboard.
type SavedEstimate struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	Area             float64        `json:"area"`
	Location         string         `json:"location"`
	AnnualRainfall   float64        `json:"annual_rainfall"`   // mm
	EstimatedHarvest float64        `json:"estimated_harvest"` // m³/year
	PotentialSavings float64        `json:"potential_savings"` // INR/year
	CreatedAt        time.Time      `json:"created_at"`
	Status           EstimateStatus `json:"status"`
}

// DashboardSummary aggregates a user's saved estimates.
type DashboardSummary struct {
	Count        int     `json:"count"`
	Completed    int     `json:"completed"`
	TotalHarvest float64 `json:"total_harvest"`
	TotalSavings float64 `json:"total_savings"`
}

// Summarize totals harvest and savings across estimates and counts completed ones.
func Summarize(estimates []SavedEstimate) DashboardSummary {
	s := DashboardSummary{Count: len(estimates)}
	for _, e := range estimates {
		s.TotalHarvest += e.EstimatedHarvest
		s.TotalSavings += e.PotentialSavings
		if e.Status == StatusCompleted {
			s.Completed++
		}
	}
	return s
}

// PlaceholderEstimates returns the sample estimates shown to every signed-in
// user until saved estimates are backed by storage.
func PlaceholderEstimates() []SavedEstimate {
	return []SavedEstimate{
		{
			ID:               "1",
			Name:             "Main House Rooftop",
			Area:             1200,
			Location:         LocationBangalore.DisplayName(),
			AnnualRainfall:   924,
			EstimatedHarvest: 832,
			PotentialSavings: 12480,
			CreatedAt:        time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
			Status:           StatusCompleted,
		},
		{
			ID:               "2",
			Name:             "Garage Rooftop",
			Area:             400,
			Location:         LocationBangalore.DisplayName(),
			AnnualRainfall:   924,
			EstimatedHarvest: 277,
			PotentialSavings: 4155,
			CreatedAt:        time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC),
			Status:           StatusInProgress,
		},
	}
}
