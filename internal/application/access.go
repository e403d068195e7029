package application

import (
	"github.com/google/uuid"

	"github.com/bryanwahyu/healthcare-collab/internal/domain/accounts"
)

// CanReadPatient reports whether caller may read records of the patient.
// Doctors read every patient; patients only their own profile.
func CanReadPatient(caller accounts.Identity, patientID uuid.UUID) bool {
	if caller.IsDoctor() {
		return true
	}
	return caller.Role == accounts.RolePatient && caller.ProfileID == patientID
}
