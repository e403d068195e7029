package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	domain "github.com/bryanwahyu/healthcare-collab/internal/domain/decisions"
	"github.com/bryanwahyu/healthcare-collab/internal/infra/db/dbutil"
)

type DecisionRepository struct {
	db *sql.DB
}

func NewDecisionRepository(db *sql.DB) *DecisionRepository {
	return &DecisionRepository{db: db}
}

// Save inserts a final decision. There is no update path.
func (r *DecisionRepository) Save(ctx context.Context, d *domain.FinalDecision) error {
	const q = `
INSERT INTO final_decisions
  (id, discussion_id, patient_id, doctor_id, treatment_plan, medications, lifestyle_recommendations,
   follow_up_date, ai_contribution_percent, doctor_contribution_percent, ai_contributions,
   doctor_contributions, decision_confidence, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14);`
	args, err := decisionArgs(d)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, q, args...)
	return err
}

func decisionArgs(d *domain.FinalDecision) ([]any, error) {
	plan, err := dbutil.JSON(d.TreatmentPlan, "{}")
	if err != nil {
		return nil, err
	}
	meds, err := dbutil.JSON(d.Medications, "[]")
	if err != nil {
		return nil, err
	}
	lifestyle, err := dbutil.JSON(d.LifestyleRecommendations, "[]")
	if err != nil {
		return nil, err
	}
	aiItems, err := dbutil.JSON(d.AIContributions, "[]")
	if err != nil {
		return nil, err
	}
	docItems, err := dbutil.JSON(d.DoctorContributions, "[]")
	if err != nil {
		return nil, err
	}
	var followUp sql.NullTime
	if d.FollowUpDate != nil {
		followUp = sql.NullTime{Time: d.FollowUpDate.Time, Valid: true}
	}
	return []any{
		d.ID, dbutil.NullString(d.DiscussionID), d.PatientID, d.DoctorID, plan, meds, lifestyle,
		followUp, d.AIContributionPercent, d.DoctorContributionPercent, aiItems,
		docItems, d.DecisionConfidence, d.CreatedAt,
	}, nil
}

const decisionColumns = `id, discussion_id, patient_id, doctor_id, treatment_plan, medications, lifestyle_recommendations,
       follow_up_date, ai_contribution_percent, doctor_contribution_percent, ai_contributions,
       doctor_contributions, decision_confidence, created_at`

func scanDecision(row interface{ Scan(...any) error }) (*domain.FinalDecision, error) {
	var (
		d                                    domain.FinalDecision
		discussion                           sql.NullString
		plan, meds, lifestyle, aiRaw, docRaw []byte
		followUp                             sql.NullTime
	)
	if err := row.Scan(&d.ID, &discussion, &d.PatientID, &d.DoctorID, &plan, &meds, &lifestyle,
		&followUp, &d.AIContributionPercent, &d.DoctorContributionPercent, &aiRaw,
		&docRaw, &d.DecisionConfidence, &d.CreatedAt); err != nil {
		return nil, dbutil.NotFound(err)
	}
	d.DiscussionID = discussion.String
	if followUp.Valid {
		d.FollowUpDate = &domain.Date{Time: followUp.Time}
	}
	d.TreatmentPlan = map[string]any{}
	d.Medications = []domain.Medication{}
	d.LifestyleRecommendations = []string{}
	d.AIContributions = []domain.ContributionItem{}
	d.DoctorContributions = []domain.ContributionItem{}
	for _, f := range []struct {
		raw []byte
		dst any
	}{
		{plan, &d.TreatmentPlan},
		{meds, &d.Medications},
		{lifestyle, &d.LifestyleRecommendations},
		{aiRaw, &d.AIContributions},
		{docRaw, &d.DoctorContributions},
	} {
		if err := dbutil.Decode(f.raw, f.dst); err != nil {
			return nil, err
		}
	}
	return &d, nil
}

func (r *DecisionRepository) Get(ctx context.Context, id uuid.UUID) (*domain.FinalDecision, error) {
	return scanDecision(r.db.QueryRowContext(ctx, `SELECT `+decisionColumns+` FROM final_decisions WHERE id=$1;`, id))
}

// ListByPatient returns every decision for the patient, newest first
func (r *DecisionRepository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*domain.FinalDecision, error) {
	q := `SELECT ` + decisionColumns + `
FROM final_decisions
WHERE patient_id=$1
ORDER BY created_at DESC, id DESC;`
	rows, err := r.db.QueryContext(ctx, q, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*domain.FinalDecision{}
	for rows.Next() {
		d, err := scanDecision(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
