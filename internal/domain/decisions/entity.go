package decisions

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultConfidence is used when the doctor does not send a confidence value.
const DefaultConfidence = 0.85

// Medication is one prescribed drug in a decision.
type Medication struct {
	Name      string `json:"name"`
	Dosage    string `json:"dosage,omitempty"`
	Frequency string `json:"frequency,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

// UnmarshalJSON also accepts a bare string, taken as the medication name.
func (m *Medication) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var name string
		if err := json.Unmarshal(b, &name); err != nil {
			return err
		}
		*m = Medication{Name: name}
		return nil
	}
	type plain Medication
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*m = Medication(p)
	return nil
}

// Date is a calendar day serialised as YYYY-MM-DD.
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

// ParseDate accepts YYYY-MM-DD or a full RFC 3339 timestamp.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayout, s); err == nil {
		return Date{t}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Date{}, err
	}
	y, m, d := t.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}, nil
}

func (d Date) String() string { return d.Format(dateLayout) }

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// FinalDecision is the append-only record of a doctor+AI treatment decision.
type FinalDecision struct {
	ID                        uuid.UUID          `json:"id"`
	DiscussionID              string             `json:"discussion_id,omitempty"`
	PatientID                 uuid.UUID          `json:"patient_id"`
	DoctorID                  uuid.UUID          `json:"doctor_id"`
	TreatmentPlan             map[string]any     `json:"treatment_plan"`
	Medications               []Medication       `json:"medications"`
	LifestyleRecommendations  []string           `json:"lifestyle_recommendations"`
	FollowUpDate              *Date              `json:"follow_up_date,omitempty"`
	AIContributionPercent     float64            `json:"ai_contribution_percent"`
	DoctorContributionPercent float64            `json:"doctor_contribution_percent"`
	AIContributions           []ContributionItem `json:"ai_contributions"`
	DoctorContributions       []ContributionItem `json:"doctor_contributions"`
	DecisionConfidence        float64            `json:"decision_confidence"`
	CreatedAt                 time.Time          `json:"created_at"`
}

// Split returns the stored contribution percentages.
func (d *FinalDecision) Split() ContributionSplit {
	return ContributionSplit{AIPercent: d.AIContributionPercent, DoctorPercent: d.DoctorContributionPercent}
}
