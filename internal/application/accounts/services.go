package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/bryanwahyu/healthcare-collab/internal/application"
	"github.com/bryanwahyu/healthcare-collab/internal/domain"
	"github.com/bryanwahyu/healthcare-collab/internal/domain/accounts"
	"github.com/bryanwahyu/healthcare-collab/internal/infra/logger"
)

// TokenIssuer signs access tokens for an identity.
type TokenIssuer interface {
	Issue(id accounts.Identity) (string, error)
}

// Service implements use-cases untuk akun: register, login, me, patients.
type Service struct {
	Repo   accounts.Repository
	Tokens TokenIssuer
	Clock  application.Clock
	Log    *logger.Logger
}

func NewService(repo accounts.Repository, tokens TokenIssuer, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{Repo: repo, Tokens: tokens, Clock: application.SystemClock{}, Log: log.With("service", "accounts")}
}

// defaultDateOfBirth is used when a patient registers without one.
var defaultDateOfBirth = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// Command untuk register
type RegisterCommand struct {
	Email     string
	Password  string
	Role      string
	FirstName string
	LastName  string

	// patient profile
	DateOfBirth string
	Gender      string
	BloodType   string
	HeightCm    *float64
	WeightKg    *float64

	// doctor profile
	LicenseNumber     string
	Specialization    string
	YearsOfExperience int
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	User        *accounts.User `json:"user"`
	AccessToken string         `json:"access_token"`
}

// ErrEmailTaken is returned when the email already belongs to a user.
var ErrEmailTaken = &domain.ValidationError{Field: "email", Message: "Email already registered"}

// Register creates the user and its profile in one transaction and issues a token.
func (s *Service) Register(ctx context.Context, cmd RegisterCommand) (AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(cmd.Email))
	required := []struct{ name, val string }{
		{"email", email},
		{"password", cmd.Password},
		{"role", cmd.Role},
		{"first_name", strings.TrimSpace(cmd.FirstName)},
		{"last_name", strings.TrimSpace(cmd.LastName)},
	}
	for _, f := range required {
		if f.val == "" {
			return AuthResult{}, domain.Missing(f.name)
		}
	}
	role := accounts.Role(strings.ToLower(cmd.Role))
	if !role.Valid() {
		return AuthResult{}, domain.Invalid("role", "must be patient or doctor")
	}
	if cmd.YearsOfExperience < 0 {
		return AuthResult{}, domain.Invalid("years_of_experience", "must not be negative")
	}

	if _, err := s.Repo.GetByEmail(ctx, email); err == nil {
		return AuthResult{}, ErrEmailTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return AuthResult{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResult{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.Clock.Now()
	user := &accounts.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		FirstName:    strings.TrimSpace(cmd.FirstName),
		LastName:     strings.TrimSpace(cmd.LastName),
		CreatedAt:    now,
		IsActive:     true,
	}

	var (
		patient *accounts.Patient
		doctor  *accounts.Doctor
		profile uuid.UUID
	)
	switch role {
	case accounts.RolePatient:
		dob := defaultDateOfBirth
		if strings.TrimSpace(cmd.DateOfBirth) != "" {
			if dob, err = time.Parse("2006-01-02", strings.TrimSpace(cmd.DateOfBirth)); err != nil {
				return AuthResult{}, domain.Invalid("date_of_birth", "must be YYYY-MM-DD")
			}
		}
		patient = &accounts.Patient{
			ID:          uuid.New(),
			UserID:      user.ID,
			DateOfBirth: dob,
			Gender:      cmd.Gender,
			BloodType:   cmd.BloodType,
			HeightCm:    cmd.HeightCm,
			WeightKg:    cmd.WeightKg,
			CreatedAt:   now,
		}
		profile = patient.ID
	case accounts.RoleDoctor:
		doctor = &accounts.Doctor{
			ID:                uuid.New(),
			UserID:            user.ID,
			LicenseNumber:     cmd.LicenseNumber,
			Specialization:    cmd.Specialization,
			YearsOfExperience: cmd.YearsOfExperience,
			CreatedAt:         now,
		}
		profile = doctor.ID
	}

	if err := s.Repo.CreateWithProfile(ctx, user, patient, doctor); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return AuthResult{}, ErrEmailTaken
		}
		return AuthResult{}, err
	}

	token, err := s.Tokens.Issue(accounts.Identity{UserID: user.ID, Role: role, ProfileID: profile})
	if err != nil {
		return AuthResult{}, fmt.Errorf("failed to issue token: %w", err)
	}
	s.Log.Info("user registered", "user_id", user.ID.String(), "role", string(role))
	return AuthResult{User: user, AccessToken: token}, nil
}

// ErrBadCredentials covers both unknown email and wrong password.
var ErrBadCredentials = domain.Unauthorized("Invalid credentials")

// Login verifies the password, stamps last_login and issues a token.
func (s *Service) Login(ctx context.Context, email, password string) (AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return AuthResult{}, &domain.ValidationError{Field: "email", Message: "Email and password required"}
	}

	user, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return AuthResult{}, ErrBadCredentials
		}
		return AuthResult{}, err
	}
	if !user.IsActive {
		return AuthResult{}, ErrBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return AuthResult{}, ErrBadCredentials
	}

	id, err := s.identityOf(ctx, user)
	if err != nil {
		return AuthResult{}, err
	}

	now := s.Clock.Now()
	if err := s.Repo.TouchLastLogin(ctx, user.ID, now); err != nil {
		return AuthResult{}, err
	}
	user.LastLogin = &now

	token, err := s.Tokens.Issue(id)
	if err != nil {
		return AuthResult{}, fmt.Errorf("failed to issue token: %w", err)
	}
	return AuthResult{User: user, AccessToken: token}, nil
}

// identityOf resolves the profile row owned by the user. A user without a
// profile still gets a token, just without profile id.
func (s *Service) identityOf(ctx context.Context, u *accounts.User) (accounts.Identity, error) {
	id := accounts.Identity{UserID: u.ID, Role: u.Role}
	switch u.Role {
	case accounts.RoleDoctor:
		d, err := s.Repo.GetDoctorByUserID(ctx, u.ID)
		if err == nil {
			id.ProfileID = d.ID
		} else if !errors.Is(err, domain.ErrNotFound) {
			return id, err
		}
	case accounts.RolePatient:
		p, err := s.Repo.GetPatientByUserID(ctx, u.ID)
		if err == nil {
			id.ProfileID = p.ID
		} else if !errors.Is(err, domain.ErrNotFound) {
			return id, err
		}
	}
	return id, nil
}

// Me returns the caller's user record.
func (s *Service) Me(ctx context.Context, caller accounts.Identity) (*accounts.User, error) {
	u, err := s.Repo.GetByID(ctx, caller.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFound("User not found")
		}
		return nil, err
	}
	return u, nil
}

// ListPatients is restricted to doctors.
func (s *Service) ListPatients(ctx context.Context, caller accounts.Identity) ([]*accounts.Patient, error) {
	if !caller.IsDoctor() {
		return nil, domain.Forbidden("Unauthorized")
	}
	patients, err := s.Repo.ListPatients(ctx)
	if err != nil {
		return nil, err
	}
	if patients == nil {
		patients = []*accounts.Patient{}
	}
	return patients, nil
}
