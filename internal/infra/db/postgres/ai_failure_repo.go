package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	domain "github.com/bryanwahyu/healthcare-collab/internal/domain/aifailures"
	"github.com/bryanwahyu/healthcare-collab/internal/infra/db/dbutil"
)

type AIFailureRepository struct {
	db *sql.DB
}

func NewAIFailureRepository(db *sql.DB) *AIFailureRepository { return &AIFailureRepository{db: db} }

func (r *AIFailureRepository) Save(ctx context.Context, f *domain.Failure) error {
	const q = `
INSERT INTO ai_failures
  (operation, model, message, patient_id, created_at)
VALUES ($1,$2,$3,$4,$5)
RETURNING id;`
	msg := f.Message
	if strings.TrimSpace(msg) == "" {
		msg = "-"
	}
	created := f.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	return r.db.QueryRowContext(ctx, q,
		dbutil.OrDash(f.Operation), dbutil.OrDash(f.Model), msg, dbutil.NullString(f.PatientID), created,
	).Scan(&f.ID)
}

func (r *AIFailureRepository) ListRecent(ctx context.Context, limit int) ([]*domain.Failure, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `
SELECT id, operation, model, message, patient_id, created_at
FROM ai_failures
ORDER BY created_at DESC, id DESC
LIMIT $1;`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*domain.Failure{}
	for rows.Next() {
		var (
			f       domain.Failure
			patient sql.NullString
		)
		if err := rows.Scan(&f.ID, &f.Operation, &f.Model, &f.Message, &patient, &f.CreatedAt); err != nil {
			return nil, err
		}
		f.PatientID = patient.String
		out = append(out, &f)
	}
	return out, rows.Err()
}
