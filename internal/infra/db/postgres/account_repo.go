package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	domain "github.com/bryanwahyu/healthcare-collab/internal/domain/accounts"
	"github.com/bryanwahyu/healthcare-collab/internal/infra/db/dbutil"
)

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// CreateWithProfile inserts the user and its profile in one transaction
func (r *AccountRepository) CreateWithProfile(ctx context.Context, u *domain.User, p *domain.Patient, d *domain.Doctor) error {
	err := dbutil.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		const qUser = `
INSERT INTO users
  (id, email, password_hash, role, first_name, last_name, created_at, is_active)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8);`
		if _, err := tx.ExecContext(ctx, qUser,
			u.ID, u.Email, u.PasswordHash, string(u.Role), u.FirstName, u.LastName, u.CreatedAt, u.IsActive,
		); err != nil {
			return err
		}

		if p != nil {
			const qPatient = `
INSERT INTO patients
  (id, user_id, date_of_birth, gender, blood_type, height_cm, weight_kg, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8);`
			if _, err := tx.ExecContext(ctx, qPatient,
				p.ID, p.UserID, p.DateOfBirth, dbutil.NullString(p.Gender), dbutil.NullString(p.BloodType),
				p.HeightCm, p.WeightKg, p.CreatedAt,
			); err != nil {
				return err
			}
		}

		if d != nil {
			const qDoctor = `
INSERT INTO doctors
  (id, user_id, license_number, specialization, years_of_experience, created_at)
VALUES ($1,$2,$3,$4,$5,$6);`
			if _, err := tx.ExecContext(ctx, qDoctor,
				d.ID, d.UserID, dbutil.NullString(d.LicenseNumber), dbutil.NullString(d.Specialization),
				d.YearsOfExperience, d.CreatedAt,
			); err != nil {
				return err
			}
		}
		return nil
	})
	return dbutil.Conflict(err)
}

const userColumns = `id, email, password_hash, role, first_name, last_name, created_at, last_login, is_active`

func scanUser(row interface{ Scan(...any) error }) (*domain.User, error) {
	var (
		u         domain.User
		role      string
		lastLogin sql.NullTime
	)
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &role, &u.FirstName, &u.LastName, &u.CreatedAt, &lastLogin, &u.IsActive); err != nil {
		return nil, dbutil.NotFound(err)
	}
	u.Role = domain.Role(role)
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLogin = &t
	}
	return &u, nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1;`, id))
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email=$1;`, email))
}

func (r *AccountRepository) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET last_login=$1 WHERE id=$2;`, at, id)
	return err
}

const patientSelect = `
SELECT p.id, p.user_id, p.date_of_birth, p.gender, p.blood_type, p.height_cm, p.weight_kg, p.created_at,
       u.first_name, u.last_name
FROM patients p
JOIN users u ON u.id = p.user_id`

func scanPatient(row interface{ Scan(...any) error }) (*domain.Patient, error) {
	var (
		p                 domain.Patient
		gender, bloodType sql.NullString
		height, weight    sql.NullFloat64
	)
	if err := row.Scan(&p.ID, &p.UserID, &p.DateOfBirth, &gender, &bloodType, &height, &weight, &p.CreatedAt,
		&p.FirstName, &p.LastName); err != nil {
		return nil, dbutil.NotFound(err)
	}
	p.Gender = gender.String
	p.BloodType = bloodType.String
	if height.Valid {
		p.HeightCm = &height.Float64
	}
	if weight.Valid {
		p.WeightKg = &weight.Float64
	}
	return &p, nil
}

func (r *AccountRepository) GetPatient(ctx context.Context, id uuid.UUID) (*domain.Patient, error) {
	return scanPatient(r.db.QueryRowContext(ctx, patientSelect+` WHERE p.id=$1;`, id))
}

func (r *AccountRepository) GetPatientByUserID(ctx context.Context, userID uuid.UUID) (*domain.Patient, error) {
	return scanPatient(r.db.QueryRowContext(ctx, patientSelect+` WHERE p.user_id=$1;`, userID))
}

// ListPatients returns every patient ordered by last then first name
func (r *AccountRepository) ListPatients(ctx context.Context) ([]*domain.Patient, error) {
	rows, err := r.db.QueryContext(ctx, patientSelect+` ORDER BY u.last_name, u.first_name, p.id;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*domain.Patient{}
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *AccountRepository) GetDoctorByUserID(ctx context.Context, userID uuid.UUID) (*domain.Doctor, error) {
	const q = `
SELECT id, user_id, license_number, specialization, years_of_experience, created_at
FROM doctors
WHERE user_id=$1;`
	var (
		d                       domain.Doctor
		license, specialization sql.NullString
	)
	err := r.db.QueryRowContext(ctx, q, userID).Scan(&d.ID, &d.UserID, &license, &specialization, &d.YearsOfExperience, &d.CreatedAt)
	if err != nil {
		return nil, dbutil.NotFound(err)
	}
	d.LicenseNumber = license.String
	d.Specialization = specialization.String
	return &d, nil
}
