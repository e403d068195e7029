package analysis

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RiskLevel enum
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
	RiskUnknown  RiskLevel = "unknown"
)

// ParseRiskLevel normalises free-form model output onto the enum.
func ParseRiskLevel(s string) RiskLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return RiskLow
	case "moderate", "medium":
		return RiskModerate
	case "high":
		return RiskHigh
	case "critical", "severe":
		return RiskCritical
	default:
		return RiskUnknown
	}
}

func (r *RiskLevel) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		*r = RiskUnknown
		return nil
	}
	*r = ParseRiskLevel(s)
	return nil
}

// Status enum
type Status string

const (
	StatusPending   Status = "pending"
	StatusReviewed  Status = "reviewed"
	StatusDismissed Status = "dismissed"
)

// ModelFallback marks a report produced without the generation service.
const ModelFallback = "fallback"

// Report is the structured reply of the generation service plus the metadata
// stamped on it after parsing.
type Report struct {
	Findings        Text      `json:"findings"`
	Concerns        TextList  `json:"concerns"`
	RiskLevel       RiskLevel `json:"risk_level"`
	Recommendations TextList  `json:"recommendations"`
	Evidence        TextList  `json:"evidence"`
	ConfidenceScore float64   `json:"confidence_score"`
	GeneratedAt     time.Time `json:"generated_at"`
	ModelUsed       string    `json:"model_used"`
}

func (r Report) IsFallback() bool { return r.ModelUsed == ModelFallback }

// Record is the persisted AnalysisRecord. Immutable once saved.
type Record struct {
	ID                uuid.UUID  `json:"id"`
	PatientID         uuid.UUID  `json:"patient_id"`
	RequestedBy       *uuid.UUID `json:"requested_by,omitempty"`
	AnalysisTimestamp time.Time  `json:"analysis_timestamp"`
	Findings          string     `json:"findings"`
	Concerns          []string   `json:"concerns"`
	RiskLevel         RiskLevel  `json:"risk_level"`
	Recommendations   []string   `json:"recommendations"`
	Evidence          []string   `json:"evidence"`
	ConfidenceScore   float64    `json:"confidence_score"`
	Status            Status     `json:"status"`
	ModelUsed         string     `json:"model_used"`
}

// NewRecord builds a pending record from a report.
func NewRecord(patientID uuid.UUID, requestedBy *uuid.UUID, rep Report, now time.Time) *Record {
	risk := rep.RiskLevel
	if risk == "" {
		risk = RiskUnknown
	}
	return &Record{
		ID:                uuid.New(),
		PatientID:         patientID,
		RequestedBy:       requestedBy,
		AnalysisTimestamp: now.UTC(),
		Findings:          string(rep.Findings),
		Concerns:          nonNil(rep.Concerns),
		RiskLevel:         risk,
		Recommendations:   nonNil(rep.Recommendations),
		Evidence:          nonNil(rep.Evidence),
		ConfidenceScore:   rep.ConfidenceScore,
		Status:            StatusPending,
		ModelUsed:         rep.ModelUsed,
	}
}

func nonNil(l TextList) []string {
	if l == nil {
		return []string{}
	}
	return []string(l)
}

// Page is a paginated list of records, newest first.
type Page struct {
	Data       []*Record `json:"data"`
	Page       int       `json:"page"`
	PageSize   int       `json:"pageSize"`
	Total      int64     `json:"totalItems"`
	TotalPages int       `json:"totalPages"`
}
