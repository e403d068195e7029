package decisions

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/bryanwahyu/healthcare-collab/internal/application"
	"github.com/bryanwahyu/healthcare-collab/internal/domain"
	"github.com/bryanwahyu/healthcare-collab/internal/domain/accounts"
	"github.com/bryanwahyu/healthcare-collab/internal/domain/archive"
	"github.com/bryanwahyu/healthcare-collab/internal/domain/decisions"
	"github.com/bryanwahyu/healthcare-collab/internal/infra/logger"
)

// Metrics receives a tick per recorded decision.
type Metrics interface {
	DecisionRecorded()
}

// Service is the decision recorder. Decisions are append-only.
type Service struct {
	Repo     decisions.Repository
	Patients accounts.PatientLookup
	Archive  archive.Store
	Metrics  Metrics
	Clock    application.Clock
	Log      *logger.Logger
}

func NewService(repo decisions.Repository, patients accounts.PatientLookup, store archive.Store, metrics Metrics, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		Repo:     repo,
		Patients: patients,
		Archive:  store,
		Metrics:  metrics,
		Clock:    application.SystemClock{},
		Log:      log.With("service", "decisions"),
	}
}

// Command untuk create decision
type CreateCommand struct {
	DiscussionID             string
	PatientID                string
	TreatmentPlan            map[string]any
	Medications              []decisions.Medication
	LifestyleRecommendations []string
	FollowUpDate             *decisions.Date
	AIContributions          []decisions.ContributionItem
	DoctorContributions      []decisions.ContributionItem
	// Confidence is nil when the doctor did not send one.
	Confidence *float64
}

type CreateResult struct {
	Decision      *decisions.FinalDecision    `json:"decision"`
	Contributions decisions.ContributionSplit `json:"contributions"`
}

// Create validates the command, computes the contribution split and persists
// the decision. Non-doctors are rejected before anything is read or written.
func (s *Service) Create(ctx context.Context, caller accounts.Identity, cmd CreateCommand) (CreateResult, error) {
	if !caller.IsDoctor() {
		return CreateResult{}, domain.Forbidden("Unauthorized")
	}
	if caller.ProfileID == uuid.Nil {
		return CreateResult{}, domain.Forbidden("Doctor profile not found")
	}

	rawPatient := strings.TrimSpace(cmd.PatientID)
	if rawPatient == "" {
		return CreateResult{}, domain.Missing("patient_id")
	}
	patientID, err := uuid.Parse(rawPatient)
	if err != nil {
		return CreateResult{}, domain.Invalid("patient_id", "must be a UUID")
	}
	confidence := decisions.DefaultConfidence
	if cmd.Confidence != nil {
		confidence = *cmd.Confidence
		if confidence < 0 || confidence > 1 {
			return CreateResult{}, domain.Invalid("confidence", "must be between 0 and 1")
		}
	}

	if _, err := s.Patients.GetPatient(ctx, patientID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return CreateResult{}, domain.NotFound("Patient not found")
		}
		return CreateResult{}, err
	}

	split := decisions.ComputeSplit(cmd.AIContributions, cmd.DoctorContributions)
	d := &decisions.FinalDecision{
		ID:                        uuid.New(),
		DiscussionID:              strings.TrimSpace(cmd.DiscussionID),
		PatientID:                 patientID,
		DoctorID:                  caller.ProfileID,
		TreatmentPlan:             orEmptyMap(cmd.TreatmentPlan),
		Medications:               orEmptySlice(cmd.Medications),
		LifestyleRecommendations:  orEmptySlice(cmd.LifestyleRecommendations),
		FollowUpDate:              cmd.FollowUpDate,
		AIContributionPercent:     split.AIPercent,
		DoctorContributionPercent: split.DoctorPercent,
		AIContributions:           orEmptySlice(cmd.AIContributions),
		DoctorContributions:       orEmptySlice(cmd.DoctorContributions),
		DecisionConfidence:        confidence,
		CreatedAt:                 s.Clock.Now().UTC(),
	}
	if err := s.Repo.Save(ctx, d); err != nil {
		return CreateResult{}, err
	}

	if s.Metrics != nil {
		s.Metrics.DecisionRecorded()
	}
	if s.Archive != nil {
		key := archive.DecisionKey(d.PatientID.String(), d.ID.String())
		if _, err := s.Archive.PutJSON(ctx, key, d); err != nil {
			s.Log.Warn("failed to archive decision", "decision_id", d.ID.String(), "error", err)
		}
	}
	s.Log.Info("decision recorded",
		"decision_id", d.ID.String(),
		"patient_id", d.PatientID.String(),
		"ai_percent", split.AIPercent,
		"doctor_percent", split.DoctorPercent,
	)
	return CreateResult{Decision: d, Contributions: split}, nil
}

// Get returns one decision. Patients may only read their own.
func (s *Service) Get(ctx context.Context, caller accounts.Identity, id uuid.UUID) (*decisions.FinalDecision, error) {
	d, err := s.Repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFound("Decision not found")
		}
		return nil, err
	}
	if !application.CanReadPatient(caller, d.PatientID) {
		return nil, domain.Forbidden("Unauthorized")
	}
	return d, nil
}

// ListByPatient returns the patient's decisions newest first, or an empty slice.
func (s *Service) ListByPatient(ctx context.Context, caller accounts.Identity, patientID uuid.UUID) ([]*decisions.FinalDecision, error) {
	if !application.CanReadPatient(caller, patientID) {
		return nil, domain.Forbidden("Unauthorized")
	}
	list, err := s.Repo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*decisions.FinalDecision{}
	}
	return list, nil
}

func orEmptyMap(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}

func orEmptySlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
