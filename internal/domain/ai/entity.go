package ai

import (
	"bytes"
	"encoding/json"
)

// OutcomeStatus tells callers whether a payload came from the model.
type OutcomeStatus string

const (
	OutcomeOK       OutcomeStatus = "ok"
	OutcomeFallback OutcomeStatus = "fallback"
)

// Outcome travels next to every AI payload. Reason is empty on success.
type Outcome struct {
	Status OutcomeStatus `json:"status"`
	Reason string        `json:"reason,omitempty"`
}

func Succeeded() Outcome { return Outcome{Status: OutcomeOK} }

func Failed(err error) Outcome {
	o := Outcome{Status: OutcomeFallback}
	if err != nil {
		o.Reason = err.Error()
	}
	return o
}

func (o Outcome) OK() bool { return o.Status == OutcomeOK }

// Speakers in a collaboration conversation. Anything other than SpeakerAI is
// replayed to the model as the user.
const (
	SpeakerAI     = "ai"
	SpeakerDoctor = "doctor"
)

// ChatTurn is one prior message of a doctor/AI conversation.
type ChatTurn struct {
	Speaker string `json:"speaker"`
	Content string `json:"content"`
}

// Proposal is a treatment proposal as returned by the model. List entries may
// be strings or objects, so they are kept as raw values.
type Proposal struct {
	Medications      List   `json:"medications"`
	LifestyleChanges List   `json:"lifestyle_changes"`
	DiagnosticTests  List   `json:"diagnostic_tests"`
	FollowUpPlan     any    `json:"follow_up_plan"`
	PatientEducation any    `json:"patient_education,omitempty"`
	Risks            any    `json:"risks,omitempty"`
	Rationale        any    `json:"rationale,omitempty"`
	Error            string `json:"error,omitempty"`
}

// FailedProposalPlan is the follow-up text of a proposal built without the model.
const FailedProposalPlan = "Unable to generate proposal"

// FailedProposal is the error-shaped proposal returned when generation fails.
func FailedProposal(err error) Proposal {
	p := Proposal{
		Medications:      List{},
		LifestyleChanges: List{},
		DiagnosticTests:  List{},
		FollowUpPlan:     FailedProposalPlan,
	}
	if err != nil {
		p.Error = err.Error()
	}
	return p
}

// List is a JSON array of arbitrary values. A single non-array value is
// accepted as a one-element list and null as an empty one.
type List []any

func (l *List) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*l = List{}
		return nil
	}
	if b[0] == '[' {
		var items []any
		if err := json.Unmarshal(b, &items); err != nil {
			return err
		}
		*l = List(items)
		return nil
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*l = List{v}
	return nil
}
