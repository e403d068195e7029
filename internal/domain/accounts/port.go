package accounts

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository port (interface untuk persistence)
type Repository interface {
	// CreateWithProfile stores the user and exactly one of patient/doctor in a
	// single transaction. Nothing is kept when any insert fails.
	CreateWithProfile(ctx context.Context, u *User, p *Patient, d *Doctor) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error

	GetPatient(ctx context.Context, id uuid.UUID) (*Patient, error)
	GetPatientByUserID(ctx context.Context, userID uuid.UUID) (*Patient, error)
	ListPatients(ctx context.Context) ([]*Patient, error)
	GetDoctorByUserID(ctx context.Context, userID uuid.UUID) (*Doctor, error)
}

// PatientLookup is the narrow read port used by analysis and decision use-cases.
type PatientLookup interface {
	GetPatient(ctx context.Context, id uuid.UUID) (*Patient, error)
}
