package decisions

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/bryanwahyu/healthcare-collab/internal/application"
	"github.com/bryanwahyu/healthcare-collab/internal/domain"
	"github.com/bryanwahyu/healthcare-collab/internal/domain/accounts"
	"github.com/bryanwahyu/healthcare-collab/internal/domain/decisions"
)

type memRepo struct {
	saved []*decisions.FinalDecision
	err   error
}

func (m *memRepo) Save(_ context.Context, d *decisions.FinalDecision) error {
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, d)
	return nil
}

func (m *memRepo) Get(_ context.Context, id uuid.UUID) (*decisions.FinalDecision, error) {
	for _, d := range m.saved {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memRepo) ListByPatient(_ context.Context, patientID uuid.UUID) ([]*decisions.FinalDecision, error) {
	var out []*decisions.FinalDecision
	for _, d := range m.saved {
		if d.PatientID == patientID {
			out = append(out, d)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type patients struct {
	known map[uuid.UUID]bool
	calls int
}

func (p *patients) GetPatient(_ context.Context, id uuid.UUID) (*accounts.Patient, error) {
	p.calls++
	if p.known[id] {
		return &accounts.Patient{ID: id}, nil
	}
	return nil, domain.ErrNotFound
}

type archiveSpy struct{ keys []string }

func (a *archiveSpy) PutJSON(_ context.Context, key string, _ any) (string, error) {
	a.keys = append(a.keys, key)
	return "mem://" + key, nil
}

type tick struct{ n int }

func (t *tick) DecisionRecorded() { t.n++ }

type fixture struct {
	svc      *Service
	repo     *memRepo
	patients *patients
	archive  *archiveSpy
	metrics  *tick
	patient  uuid.UUID
	doctor   accounts.Identity
}

func newFixture() *fixture {
	patientID := uuid.New()
	f := &fixture{
		repo:     &memRepo{},
		patients: &patients{known: map[uuid.UUID]bool{patientID: true}},
		archive:  &archiveSpy{},
		metrics:  &tick{},
		patient:  patientID,
		doctor:   accounts.Identity{UserID: uuid.New(), Role: accounts.RoleDoctor, ProfileID: uuid.New()},
	}
	f.svc = NewService(f.repo, f.patients, f.archive, f.metrics, nil)
	f.svc.Clock = application.FixedClock{T: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	return f
}

func TestCreateComputesSplitAndDefaults(t *testing.T) {
	f := newFixture()
	res, err := f.svc.Create(context.Background(), f.doctor, CreateCommand{
		PatientID:           f.patient.String(),
		AIContributions:     []decisions.ContributionItem{"flagged glucose trend"},
		DoctorContributions: []decisions.ContributionItem{"adjusted dose", "ordered HbA1c"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d := res.Decision
	if res.Contributions.AIPercent != 33.33 || res.Contributions.DoctorPercent != 66.67 {
		t.Fatalf("unexpected split: %+v", res.Contributions)
	}
	if d.AIContributionPercent != 33.33 || d.DoctorContributionPercent != 66.67 {
		t.Fatalf("expected split stored on decision, got %+v", d.Split())
	}
	if d.DecisionConfidence != decisions.DefaultConfidence {
		t.Fatalf("expected default confidence, got %v", d.DecisionConfidence)
	}
	if d.DoctorID != f.doctor.ProfileID {
		t.Fatalf("expected doctor profile id, got %s", d.DoctorID)
	}
	if d.TreatmentPlan == nil || d.Medications == nil || d.LifestyleRecommendations == nil {
		t.Fatalf("expected empty collections, got %+v", d)
	}
	if len(f.repo.saved) != 1 || f.metrics.n != 1 || len(f.archive.keys) != 1 {
		t.Fatalf("expected one save, metric tick and archive copy")
	}
}

func TestCreateRejectsNonDoctorBeforePersistence(t *testing.T) {
	f := newFixture()
	caller := accounts.Identity{UserID: uuid.New(), Role: accounts.RolePatient, ProfileID: f.patient}
	_, err := f.svc.Create(context.Background(), caller, CreateCommand{PatientID: f.patient.String()})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if len(f.repo.saved) != 0 || f.patients.calls != 0 || len(f.archive.keys) != 0 {
		t.Fatalf("expected no reads or writes for a non-doctor")
	}
}

func TestCreateValidation(t *testing.T) {
	f := newFixture()
	bad := 1.5
	neg := -0.1
	cases := []struct {
		name string
		cmd  CreateCommand
	}{
		{"missing patient", CreateCommand{}},
		{"malformed patient", CreateCommand{PatientID: "42"}},
		{"confidence above one", CreateCommand{PatientID: f.patient.String(), Confidence: &bad}},
		{"negative confidence", CreateCommand{PatientID: f.patient.String(), Confidence: &neg}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Create(context.Background(), f.doctor, tc.cmd)
			if !domain.IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
	if len(f.repo.saved) != 0 {
		t.Fatalf("expected nothing saved")
	}
}

func TestCreateUnknownPatient(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Create(context.Background(), f.doctor, CreateCommand{PatientID: uuid.NewString()})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCreateKeepsExplicitConfidence(t *testing.T) {
	f := newFixture()
	zero := 0.0
	res, err := f.svc.Create(context.Background(), f.doctor, CreateCommand{PatientID: f.patient.String(), Confidence: &zero})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Decision.DecisionConfidence != 0 {
		t.Fatalf("expected explicit zero confidence to be kept, got %v", res.Decision.DecisionConfidence)
	}
	if res.Contributions.AIPercent != 50 || res.Contributions.DoctorPercent != 50 {
		t.Fatalf("expected 50/50 with no contributions, got %+v", res.Contributions)
	}
}

func TestGetAndList(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		f.svc.Clock = application.FixedClock{T: time.Date(2025, 6, 1+i, 0, 0, 0, 0, time.UTC)}
		res, err := f.svc.Create(ctx, f.doctor, CreateCommand{PatientID: f.patient.String()})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		ids = append(ids, res.Decision.ID)
	}

	list, err := f.svc.ListByPatient(ctx, f.doctor, f.patient)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 3 || list[0].ID != ids[2] || list[2].ID != ids[0] {
		t.Fatalf("expected newest first")
	}

	got, err := f.svc.Get(ctx, f.doctor, ids[1])
	if err != nil || got.ID != ids[1] {
		t.Fatalf("expected to fetch decision, got %v %v", got, err)
	}

	if _, err := f.svc.Get(ctx, f.doctor, uuid.New()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	empty, err := f.svc.ListByPatient(ctx, f.doctor, uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", empty)
	}
}

func TestPatientReadsOnlyOwnDecisions(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	res, err := f.svc.Create(ctx, f.doctor, CreateCommand{PatientID: f.patient.String()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	owner := accounts.Identity{UserID: uuid.New(), Role: accounts.RolePatient, ProfileID: f.patient}
	if _, err := f.svc.Get(ctx, owner, res.Decision.ID); err != nil {
		t.Fatalf("expected owner to read decision, got %v", err)
	}

	other := accounts.Identity{UserID: uuid.New(), Role: accounts.RolePatient, ProfileID: uuid.New()}
	if _, err := f.svc.Get(ctx, other, res.Decision.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden for another patient, got %v", err)
	}
	if _, err := f.svc.ListByPatient(ctx, other, f.patient); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden list for another patient, got %v", err)
	}
}
