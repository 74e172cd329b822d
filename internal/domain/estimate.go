package domain

import (
	"fmt"
	"math"
)

// Fixed runoff model constants.
const (
	RunoffCoefficient = 0.8
	AnnualRainfallMM  = 800.0
	CostPerSquareM    = 150.0
	SavingsPerLiter   = 0.02

	trenchThreshold = 50.0
	tankThreshold   = 20.0
)

// RechargeStructure is a constructed feature that returns harvested water to the ground.
type RechargeStructure string

const (
	RechargePit     RechargeStructure = "recharge_pit"
	PercolationTank RechargeStructure = "percolation_tank"
	RechargeTrench  RechargeStructure = "recharge_trench"
)

// DisplayName returns the label shown on the estimate result card.
func (s RechargeStructure) DisplayName() string {
	switch s {
	case RechargePit:
		return "Recharge Pit"
	case PercolationTank:
		return "Percolation Tank"
	case RechargeTrench:
		return "Recharge Trench"
	default:
		return string(s)
	}
}

// PropertyInput holds the numeric property attributes an estimate is derived from.
type PropertyInput struct {
	RooftopArea   float64      `json:"rooftop_area"`    // m²
	DwellerCount  int          `json:"dweller_count"`   // carried, not used by the model
	OpenSpaceArea float64      `json:"open_space_area"` // m²
	Location      LocationCode `json:"location"`        // carried, not used by the model
}

// HarvestEstimate is the harvesting potential and recommendation for a property.
type HarvestEstimate struct {
	AnnualRunoffVolume    float64           `json:"annual_runoff_volume"` // liters/year
	RechargeStructure     RechargeStructure `json:"recharge_structure"`
	RecommendedDimensions string            `json:"recommended_dimensions"`
	InitialCostEstimate   float64           `json:"initial_cost_estimate"`   // INR
	AnnualSavingsEstimate float64           `json:"annual_savings_estimate"` // INR
}

// Calculate maps a property to its harvest estimate. It never fails:
// negative or non-finite areas, and rooftops large enough to overflow the
// runoff volume, are treated as zero.
func Calculate(in PropertyInput) HarvestEstimate {
	rooftop := nonNegative(in.RooftopArea)
	openSpace := nonNegative(in.OpenSpaceArea)

	runoff := math.Round(rooftop * RunoffCoefficient * AnnualRainfallMM)
	if math.IsInf(runoff, 0) {
		rooftop, runoff = 0, 0
	}
	structure, dims := SelectStructure(openSpace)

	return HarvestEstimate{
		AnnualRunoffVolume:    runoff,
		RechargeStructure:     structure,
		RecommendedDimensions: dims,
		InitialCostEstimate:   math.Round(rooftop * CostPerSquareM),
		AnnualSavingsEstimate: math.Round(runoff * SavingsPerLiter),
	}
}

// SelectStructure picks the recharge structure and its dimensions for the
// available open space. First match wins; comparisons are strict.
func SelectStructure(openSpace float64) (RechargeStructure, string) {
	switch {
	case openSpace > trenchThreshold:
		return RechargeTrench, "10m x 1m x 2m deep"
	case openSpace > tankThreshold:
		return PercolationTank, "3m x 3m x 2m deep"
	default:
		return RechargePit, "2m x 2m x 3m deep"
	}
}

// CostBenefit formats the cost line of the result card,
// e.g. "Initial cost: ₹22500, Annual savings: ₹1920".
func CostBenefit(e HarvestEstimate) string {
	return fmt.Sprintf("Initial cost: ₹%.0f, Annual savings: ₹%.0f", e.InitialCostEstimate, e.AnnualSavingsEstimate)
}

func nonNegative(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
