package aifailures

import "time"

// Operations that can fail.
const (
	OpAnalyze  = "analyze"
	OpProposal = "proposal"
	OpChat     = "chat"
)

// Failure is a persisted record of an AI call that ended in a fallback.
type Failure struct {
	ID        int64     `json:"id"`
	Operation string    `json:"operation"`
	Model     string    `json:"model,omitempty"`
	Message   string    `json:"message"`
	PatientID string    `json:"patient_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
