package decisions

import (
	"context"

	"github.com/google/uuid"
)

// Repository port. Decisions are append-only: there is no update or delete.
type Repository interface {
	Save(ctx context.Context, d *FinalDecision) error
	Get(ctx context.Context, id uuid.UUID) (*FinalDecision, error)
	// ListByPatient returns every decision for the patient, newest first.
	// A patient without decisions yields an empty slice and no error.
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*FinalDecision, error)
}
