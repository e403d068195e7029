package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	domain "github.com/bryanwahyu/healthcare-collab/internal/domain/analysis"
	"github.com/bryanwahyu/healthcare-collab/internal/infra/db/dbutil"
)

type AnalysisRepository struct {
	db *sql.DB
}

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

// Save inserts an analysis record. Records are never updated.
func (r *AnalysisRepository) Save(ctx context.Context, a *domain.Record) error {
	const q = `
INSERT INTO ai_analyses
  (id, patient_id, requested_by, analysis_timestamp, findings, concerns, risk_level,
   recommendations, evidence, confidence_score, status, model_used)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12);`
	concerns, err := dbutil.JSON(a.Concerns, "[]")
	if err != nil {
		return err
	}
	recs, err := dbutil.JSON(a.Recommendations, "[]")
	if err != nil {
		return err
	}
	evidence, err := dbutil.JSON(a.Evidence, "[]")
	if err != nil {
		return err
	}
	var requestedBy uuid.NullUUID
	if a.RequestedBy != nil {
		requestedBy = uuid.NullUUID{UUID: *a.RequestedBy, Valid: true}
	}
	_, err = r.db.ExecContext(ctx, q,
		a.ID, a.PatientID, requestedBy, a.AnalysisTimestamp, a.Findings, concerns, string(a.RiskLevel),
		recs, evidence, a.ConfidenceScore, string(a.Status), a.ModelUsed,
	)
	return err
}

const analysisColumns = `id, patient_id, requested_by, analysis_timestamp, findings, concerns, risk_level,
       recommendations, evidence, confidence_score, status, model_used`

func scanAnalysis(row interface{ Scan(...any) error }) (*domain.Record, error) {
	var (
		a                        domain.Record
		requestedBy              uuid.NullUUID
		concerns, recs, evidence []byte
		risk, status             string
	)
	if err := row.Scan(&a.ID, &a.PatientID, &requestedBy, &a.AnalysisTimestamp, &a.Findings, &concerns, &risk,
		&recs, &evidence, &a.ConfidenceScore, &status, &a.ModelUsed); err != nil {
		return nil, dbutil.NotFound(err)
	}
	if requestedBy.Valid {
		id := requestedBy.UUID
		a.RequestedBy = &id
	}
	a.RiskLevel = domain.RiskLevel(risk)
	a.Status = domain.Status(status)
	a.Concerns, a.Recommendations, a.Evidence = []string{}, []string{}, []string{}
	if err := dbutil.Decode(concerns, &a.Concerns); err != nil {
		return nil, err
	}
	if err := dbutil.Decode(recs, &a.Recommendations); err != nil {
		return nil, err
	}
	if err := dbutil.Decode(evidence, &a.Evidence); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AnalysisRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Record, error) {
	return scanAnalysis(r.db.QueryRowContext(ctx, `SELECT `+analysisColumns+` FROM ai_analyses WHERE id=$1;`, id))
}

// ListByPatient returns a page of records ordered by analysis_timestamp desc
func (r *AnalysisRepository) ListByPatient(ctx context.Context, patientID uuid.UUID, page, pageSize int) ([]*domain.Record, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM ai_analyses WHERE patient_id=$1;`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit, offset := dbutil.Page(page, pageSize)
	q := `SELECT ` + analysisColumns + `
FROM ai_analyses
WHERE patient_id=$1
ORDER BY analysis_timestamp DESC, id DESC
LIMIT $2 OFFSET $3;`
	rows, err := r.db.QueryContext(ctx, q, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []*domain.Record{}
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, a)
	}
	return out, total, rows.Err()
}
