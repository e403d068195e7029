package accounts

import (
	"time"

	"github.com/google/uuid"
)

// Role enum
type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
)

func (r Role) Valid() bool {
	return r == RolePatient || r == RoleDoctor
}

// User is the login identity shared by patients and doctors.
type User struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	IsActive     bool       `json:"is_active"`
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Patient profile, one per patient user.
type Patient struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	DateOfBirth time.Time `json:"date_of_birth"`
	Gender      string    `json:"gender,omitempty"`
	BloodType   string    `json:"blood_type,omitempty"`
	HeightCm    *float64  `json:"height_cm,omitempty"`
	WeightKg    *float64  `json:"weight_kg,omitempty"`
	CreatedAt   time.Time `json:"created_at"`

	// populated by joins, not stored on the patients table
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// Name returns "First Last" when the owning user was joined in.
func (p *Patient) Name() string {
	if p.FirstName == "" && p.LastName == "" {
		return ""
	}
	return p.FirstName + " " + p.LastName
}

// AgeAt returns the completed years between DateOfBirth and now.
func (p *Patient) AgeAt(now time.Time) int {
	if p.DateOfBirth.IsZero() {
		return 0
	}
	age := now.Year() - p.DateOfBirth.Year()
	if now.Month() < p.DateOfBirth.Month() ||
		(now.Month() == p.DateOfBirth.Month() && now.Day() < p.DateOfBirth.Day()) {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}

// Doctor profile, one per doctor user.
type Doctor struct {
	ID                uuid.UUID `json:"id"`
	UserID            uuid.UUID `json:"user_id"`
	LicenseNumber     string    `json:"license_number,omitempty"`
	Specialization    string    `json:"specialization,omitempty"`
	YearsOfExperience int       `json:"years_of_experience"`
	CreatedAt         time.Time `json:"created_at"`
}

// Identity is the authenticated caller attached to a request.
// ProfileID is the patient or doctor row owned by the user.
type Identity struct {
	UserID    uuid.UUID
	Role      Role
	ProfileID uuid.UUID
}

func (i Identity) IsDoctor() bool { return i.Role == RoleDoctor }
