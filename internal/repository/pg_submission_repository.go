package repository

import (
	"context"

	"github.com/formbridge/backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgSubmissionRepository is the PostgreSQL implementation of SubmissionRepository.
// The open-ended payload lives in a JSONB column; pgx marshals the
// map[string]any in both directions.
type PgSubmissionRepository struct {
	pool *pgxpool.Pool
}

// NewPgSubmissionRepository creates a PgSubmissionRepository backed by the given pool.
func NewPgSubmissionRepository(pool *pgxpool.Pool) *PgSubmissionRepository {
	return &PgSubmissionRepository{pool: pool}
}

var _ SubmissionRepository = (*PgSubmissionRepository)(nil)

// Create inserts a new submissions row and populates CreatedAt from RETURNING.
func (r *PgSubmissionRepository) Create(ctx context.Context, sub *model.Submission) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO submissions (id, form_id, data)
		 VALUES ($1, $2, $3)
		 RETURNING created_at`,
		sub.ID, sub.FormID, sub.Data,
	).Scan(&sub.CreatedAt)
}

// ListByFormID returns one page of a form's submissions, newest first.
func (r *PgSubmissionRepository) ListByFormID(ctx context.Context, formID string, opts model.SubmissionListOptions) ([]*model.Submission, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, form_id, data, created_at
		 FROM submissions WHERE form_id = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		formID, opts.Limit, opts.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSubmissions(rows)
}

// ListAllByFormID returns every submission for a form, oldest first.
func (r *PgSubmissionRepository) ListAllByFormID(ctx context.Context, formID string) ([]*model.Submission, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, form_id, data, created_at
		 FROM submissions WHERE form_id = $1 ORDER BY created_at ASC`,
		formID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSubmissions(rows)
}

type submissionRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func collectSubmissions(rows submissionRows) ([]*model.Submission, error) {
	var subs []*model.Submission
	for rows.Next() {
		var s model.Submission
		if err := rows.Scan(&s.ID, &s.FormID, &s.Data, &s.CreatedAt); err != nil {
			return nil, err
		}
		subs = append(subs, &s)
	}
	return subs, rows.Err()
}

// CountByFormID returns the total number of submissions for a form.
func (r *PgSubmissionRepository) CountByFormID(ctx context.Context, formID string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM submissions WHERE form_id = $1`, formID,
	).Scan(&n)
	return n, err
}

// DeleteByFormID removes all submissions belonging to a form.
func (r *PgSubmissionRepository) DeleteByFormID(ctx context.Context, formID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM submissions WHERE form_id = $1`, formID)
	return err
}
