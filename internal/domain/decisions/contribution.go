package decisions

import "math"

// ContributionItem is one free-text contribution. Its author is given by the
// list it is submitted in (ai_contributions or doctor_contributions).
type ContributionItem string

// ContributionWeight is the score every item adds to its author, regardless of content.
const ContributionWeight = 10

// ContributionSplit is the percentage share of AI and doctor in a decision.
// Both values are non-negative and sum to 100 up to 2-decimal rounding.
type ContributionSplit struct {
	AIPercent     float64 `json:"ai_percent"`
	DoctorPercent float64 `json:"doctor_percent"`
}

// ComputeSplit scores both lists by item count. Two empty lists give 50/50.
func ComputeSplit(aiItems, doctorItems []ContributionItem) ContributionSplit {
	aiScore := len(aiItems) * ContributionWeight
	doctorScore := len(doctorItems) * ContributionWeight

	total := aiScore + doctorScore
	if total == 0 {
		return ContributionSplit{AIPercent: 50, DoctorPercent: 50}
	}

	return ContributionSplit{
		AIPercent:     round2(float64(aiScore) / float64(total) * 100),
		DoctorPercent: round2(float64(doctorScore) / float64(total) * 100),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
