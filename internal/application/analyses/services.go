package analyses

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/bryanwahyu/healthcare-collab/internal/application"
	aiapp "github.com/bryanwahyu/healthcare-collab/internal/application/ai"
	"github.com/bryanwahyu/healthcare-collab/internal/domain"
	"github.com/bryanwahyu/healthcare-collab/internal/domain/accounts"
	"github.com/bryanwahyu/healthcare-collab/internal/domain/ai"
	"github.com/bryanwahyu/healthcare-collab/internal/domain/analysis"
	"github.com/bryanwahyu/healthcare-collab/internal/domain/archive"
	"github.com/bryanwahyu/healthcare-collab/internal/infra/logger"
)

// Analyzer produces a report for one patient. Satisfied by *aiapp.Service.
type Analyzer interface {
	Analyze(ctx context.Context, in aiapp.AnalysisInput) (analysis.Report, ai.Outcome)
}

// Service implements use-cases untuk AI analysis records.
type Service struct {
	Repo     analysis.Repository
	Patients accounts.PatientLookup
	AI       Analyzer
	Archive  archive.Store
	Clock    application.Clock
	Log      *logger.Logger
}

func NewService(repo analysis.Repository, patients accounts.PatientLookup, analyzer Analyzer, store archive.Store, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		Repo:     repo,
		Patients: patients,
		AI:       analyzer,
		Archive:  store,
		Clock:    application.SystemClock{},
		Log:      log.With("service", "analyses"),
	}
}

// Command untuk request analysis. Empty fields fall back to the patient profile.
type RequestCommand struct {
	PatientID         uuid.UUID
	ChronicConditions []string
	Medications       []string
	Vitals            []analysis.VitalReading
	HealthLogs        []analysis.HealthLogEntry
}

type RequestResult struct {
	Record  *analysis.Record `json:"record"`
	Report  analysis.Report  `json:"analysis"`
	Outcome ai.Outcome       `json:"outcome"`
}

// Request runs one analysis for a patient and persists it as pending.
// A fallback report is persisted too; the outcome tells the caller which one it got.
func (s *Service) Request(ctx context.Context, caller accounts.Identity, cmd RequestCommand) (RequestResult, error) {
	if !caller.IsDoctor() {
		return RequestResult{}, domain.Forbidden("Unauthorized")
	}
	patient, err := s.Patients.GetPatient(ctx, cmd.PatientID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return RequestResult{}, domain.NotFound("Patient not found")
		}
		return RequestResult{}, err
	}

	now := s.Clock.Now()
	in := aiapp.AnalysisInput{
		Patient: analysis.PatientSnapshot{
			Name:              patient.Name(),
			Age:               patient.AgeAt(now),
			Gender:            patient.Gender,
			ChronicConditions: cmd.ChronicConditions,
			Medications:       cmd.Medications,
		},
		Vitals:    cmd.Vitals,
		HealthLog: cmd.HealthLogs,
	}

	ctx = aiapp.WithPatientID(ctx, patient.ID.String())
	report, outcome := s.AI.Analyze(ctx, in)

	var requestedBy *uuid.UUID
	if caller.ProfileID != uuid.Nil {
		id := caller.ProfileID
		requestedBy = &id
	}
	rec := analysis.NewRecord(patient.ID, requestedBy, report, now)
	if err := s.Repo.Save(ctx, rec); err != nil {
		return RequestResult{}, err
	}

	s.archive(ctx, rec)
	s.Log.Info("analysis recorded",
		"analysis_id", rec.ID.String(),
		"patient_id", rec.PatientID.String(),
		"outcome", string(outcome.Status),
		"risk_level", string(rec.RiskLevel),
	)
	return RequestResult{Record: rec, Report: report, Outcome: outcome}, nil
}

// archive is best effort; the database row is the source of truth.
func (s *Service) archive(ctx context.Context, rec *analysis.Record) {
	if s.Archive == nil {
		return
	}
	key := archive.AnalysisKey(rec.PatientID.String(), rec.ID.String())
	if _, err := s.Archive.PutJSON(ctx, key, rec); err != nil {
		s.Log.Warn("failed to archive analysis", "analysis_id", rec.ID.String(), "error", err)
	}
}

// Get returns one record. Patients may only read their own.
func (s *Service) Get(ctx context.Context, caller accounts.Identity, id uuid.UUID) (*analysis.Record, error) {
	rec, err := s.Repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFound("Analysis not found")
		}
		return nil, err
	}
	if !application.CanReadPatient(caller, rec.PatientID) {
		return nil, domain.Forbidden("Unauthorized")
	}
	return rec, nil
}

// Pagination bounds.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ListByPatient returns one page of records, newest first.
func (s *Service) ListByPatient(ctx context.Context, caller accounts.Identity, patientID uuid.UUID, page, pageSize int) (analysis.Page, error) {
	if !application.CanReadPatient(caller, patientID) {
		return analysis.Page{}, domain.Forbidden("Unauthorized")
	}
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	items, total, err := s.Repo.ListByPatient(ctx, patientID, page, pageSize)
	if err != nil {
		return analysis.Page{}, err
	}
	if items == nil {
		items = []*analysis.Record{}
	}
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return analysis.Page{
		Data:       items,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}
