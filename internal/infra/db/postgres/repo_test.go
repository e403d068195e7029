package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/bryanwahyu/healthcare-collab/internal/domain"
	"github.com/bryanwahyu/healthcare-collab/internal/domain/accounts"
	"github.com/bryanwahyu/healthcare-collab/internal/domain/aifailures"
	"github.com/bryanwahyu/healthcare-collab/internal/domain/analysis"
	"github.com/bryanwahyu/healthcare-collab/internal/domain/decisions"
)

func newMock(t *testing.T) (*AccountRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	return NewAccountRepository(db), mock, func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
		db.Close()
	}
}

func TestCreateWithProfileCommits(t *testing.T) {
	repo, mock, done := newMock(t)
	defer done()

	now := time.Now().UTC()
	u := &accounts.User{ID: uuid.New(), Email: "a@b.c", PasswordHash: "h", Role: accounts.RoleDoctor, FirstName: "A", LastName: "B", CreatedAt: now, IsActive: true}
	d := &accounts.Doctor{ID: uuid.New(), UserID: u.ID, LicenseNumber: "MD-1", CreatedAt: now}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users").
		WithArgs(u.ID, u.Email, u.PasswordHash, "doctor", "A", "B", now, true).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO doctors").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.CreateWithProfile(context.Background(), u, nil, d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCreateWithProfileRollsBack(t *testing.T) {
	repo, mock, done := newMock(t)
	defer done()

	u := &accounts.User{ID: uuid.New(), Email: "a@b.c", Role: accounts.RolePatient}
	p := &accounts.Patient{ID: uuid.New(), UserID: u.ID}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO patients").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	if err := repo.CreateWithProfile(context.Background(), u, p, nil); err == nil {
		t.Fatalf("expected error")
	}
}

func TestCreateWithProfileDuplicateEmail(t *testing.T) {
	repo, mock, done := newMock(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users").WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectRollback()

	err := repo.CreateWithProfile(context.Background(), &accounts.User{ID: uuid.New()}, nil, nil)
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestGetPatientNotFound(t *testing.T) {
	repo, mock, done := newMock(t)
	defer done()

	id := uuid.New()
	mock.ExpectQuery("FROM patients p").WithArgs(id).WillReturnRows(sqlmock.NewRows([]string{"id"}))
	if _, err := repo.GetPatient(context.Background(), id); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGetPatientJoinsName(t *testing.T) {
	repo, mock, done := newMock(t)
	defer done()

	id, userID := uuid.New(), uuid.New()
	dob := time.Date(1980, 2, 29, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "user_id", "date_of_birth", "gender", "blood_type", "height_cm", "weight_kg", "created_at", "first_name", "last_name"}).
		AddRow(id.String(), userID.String(), dob, "female", nil, 165.5, nil, time.Now(), "Mia", "Park")
	mock.ExpectQuery("FROM patients p").WithArgs(id).WillReturnRows(rows)

	p, err := repo.GetPatient(context.Background(), id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name() != "Mia Park" || p.BloodType != "" || p.HeightCm == nil || *p.HeightCm != 165.5 || p.WeightKg != nil {
		t.Fatalf("unexpected patient: %+v", p)
	}
}

func TestAnalysisListByPatient(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewAnalysisRepository(db)

	patientID := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM ai_analyses")).
		WithArgs(patientID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	cols := []string{"id", "patient_id", "requested_by", "analysis_timestamp", "findings", "concerns", "risk_level",
		"recommendations", "evidence", "confidence_score", "status", "model_used"}
	mock.ExpectQuery("ORDER BY analysis_timestamp DESC").
		WithArgs(patientID, 2, 2).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(uuid.NewString(), patientID.String(), nil, time.Now(), "f", []byte(`["c1"]`), "high",
				[]byte(`["r1","r2"]`), nil, 0.85, "pending", "gpt-4o-mini"))

	items, total, err := repo.ListByPatient(context.Background(), patientID, 2, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 3 || len(items) != 1 {
		t.Fatalf("unexpected result: total=%d items=%d", total, len(items))
	}
	a := items[0]
	if a.RiskLevel != analysis.RiskHigh || len(a.Recommendations) != 2 || a.Evidence == nil || a.RequestedBy != nil {
		t.Fatalf("unexpected record: %+v", a)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDecisionSaveAndEmptyList(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewDecisionRepository(db)

	follow, _ := decisions.ParseDate("2025-12-01")
	d := &decisions.FinalDecision{
		ID:                        uuid.New(),
		PatientID:                 uuid.New(),
		DoctorID:                  uuid.New(),
		Medications:               []decisions.Medication{{Name: "Metformin", Dosage: "500mg"}},
		FollowUpDate:              &follow,
		AIContributionPercent:     50,
		DoctorContributionPercent: 50,
		DecisionConfidence:        0.85,
		CreatedAt:                 time.Now().UTC(),
	}
	mock.ExpectExec("INSERT INTO final_decisions").
		WithArgs(d.ID, sqlmock.AnyArg(), d.PatientID, d.DoctorID, "{}", `[{"name":"Metformin","dosage":"500mg"}]`, "[]",
			sqlmock.AnyArg(), 50.0, 50.0, "[]", "[]", 0.85, d.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	if err := repo.Save(context.Background(), d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mock.ExpectQuery("FROM final_decisions").WillReturnRows(sqlmock.NewRows([]string{"id"}))
	list, err := repo.ListByPatient(context.Background(), d.PatientID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if list == nil || len(list) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", list)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDecisionGetDecodesJSON(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewDecisionRepository(db)

	id := uuid.New()
	cols := []string{"id", "discussion_id", "patient_id", "doctor_id", "treatment_plan", "medications", "lifestyle_recommendations",
		"follow_up_date", "ai_contribution_percent", "doctor_contribution_percent", "ai_contributions",
		"doctor_contributions", "decision_confidence", "created_at"}
	mock.ExpectQuery("FROM final_decisions WHERE id").WithArgs(id).WillReturnRows(sqlmock.NewRows(cols).
		AddRow(id.String(), "disc-7", uuid.NewString(), uuid.NewString(), []byte(`{"goal":"HbA1c < 7"}`),
			[]byte(`[{"name":"Metformin"}]`), []byte(`["walk daily"]`), time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC),
			33.33, 66.67, []byte(`["trend"]`), []byte(`["exam","dose"]`), 0.9, time.Now()))

	d, err := repo.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.DiscussionID != "disc-7" || d.TreatmentPlan["goal"] != "HbA1c < 7" || len(d.DoctorContributions) != 2 {
		t.Fatalf("unexpected decision: %+v", d)
	}
	if d.FollowUpDate == nil || d.FollowUpDate.String() != "2025-12-01" {
		t.Fatalf("unexpected follow up date: %v", d.FollowUpDate)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDecisionListByPatientNewestFirst(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewDecisionRepository(db)

	patientID := uuid.New()
	newer, older := uuid.New(), uuid.New()
	cols := []string{"id", "discussion_id", "patient_id", "doctor_id", "treatment_plan", "medications", "lifestyle_recommendations",
		"follow_up_date", "ai_contribution_percent", "doctor_contribution_percent", "ai_contributions",
		"doctor_contributions", "decision_confidence", "created_at"}
	mock.ExpectQuery(`FROM final_decisions\s+WHERE patient_id=\$1\s+ORDER BY created_at DESC, id DESC`).
		WithArgs(patientID).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(newer.String(), nil, patientID.String(), uuid.NewString(), []byte(`{}`), []byte(`[]`), []byte(`[]`),
				nil, 40.0, 60.0, []byte(`[]`), []byte(`[]`), 0.8, time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)).
			AddRow(older.String(), nil, patientID.String(), uuid.NewString(), []byte(`{}`), []byte(`[]`), []byte(`[]`),
				nil, 50.0, 50.0, []byte(`[]`), []byte(`[]`), 0.7, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)))

	list, err := repo.ListByPatient(context.Background(), patientID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 2 || list[0].ID != newer || list[1].ID != older {
		t.Fatalf("unexpected order: %+v", list)
	}
	if list[0].FollowUpDate != nil || list[0].DiscussionID != "" || list[1].AIContributionPercent != 50 {
		t.Fatalf("unexpected decision: %+v", list[0])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAIFailureSaveReturnsID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewAIFailureRepository(db)

	mock.ExpectQuery("INSERT INTO ai_failures").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))
	f := &aifailures.Failure{Operation: aifailures.OpChat, Model: "gpt-4o-mini", Message: "timeout"}
	if err := repo.Save(context.Background(), f); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.ID != 42 {
		t.Fatalf("expected id 42, got %d", f.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
