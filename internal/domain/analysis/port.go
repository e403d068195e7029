package analysis

import (
	"context"

	"github.com/google/uuid"
)

// Repository port for persisting and querying analyses
type Repository interface {
	Save(ctx context.Context, r *Record) error
	Get(ctx context.Context, id uuid.UUID) (*Record, error)
	// ListByPatient returns one page ordered by analysis_timestamp desc and
	// the total number of records for the patient.
	ListByPatient(ctx context.Context, patientID uuid.UUID, page, pageSize int) ([]*Record, int64, error)
}
