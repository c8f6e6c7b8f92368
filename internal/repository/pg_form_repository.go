package repository

import (
	"context"
	"errors"

	"github.com/formbridge/backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgFormRepository is the PostgreSQL implementation of FormRepository.
type PgFormRepository struct {
	pool *pgxpool.Pool
}

// NewPgFormRepository creates a PgFormRepository backed by the given pool.
func NewPgFormRepository(pool *pgxpool.Pool) *PgFormRepository {
	return &PgFormRepository{pool: pool}
}

var _ FormRepository = (*PgFormRepository)(nil)

const formColumns = `id, owner_id, name, COALESCE(description, ''), is_active,
	email_notifications, notification_emails, allowed_origins, created_at, updated_at`

func scanForm(scan func(...any) error) (*model.Form, error) {
	var f model.Form
	err := scan(&f.ID, &f.OwnerID, &f.Name, &f.Description, &f.IsActive,
		&f.Settings.EmailNotifications, &f.Settings.NotificationEmails,
		&f.AllowedOrigins, &f.CreatedAt, &f.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// Create inserts a new forms row and populates timestamps from RETURNING.
// The caller supplies the id.
func (r *PgFormRepository) Create(ctx context.Context, form *model.Form) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO forms (id, owner_id, name, description, is_active,
		                    email_notifications, notification_emails, allowed_origins)
		 VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8)
		 RETURNING created_at, updated_at`,
		form.ID, form.OwnerID, form.Name, form.Description, form.IsActive,
		form.Settings.EmailNotifications, form.Settings.NotificationEmails,
		form.AllowedOrigins,
	).Scan(&form.CreatedAt, &form.UpdatedAt)
}

// FindByID loads a form by id alone. The public intake path uses this;
// everything owner-facing goes through FindByIDAndOwner.
func (r *PgFormRepository) FindByID(ctx context.Context, id string) (*model.Form, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+formColumns+` FROM forms WHERE id = $1`, id)
	return scanForm(row.Scan)
}

// FindByIDAndOwner loads a form only if ownerID owns it. A wrong owner is
// indistinguishable from a missing form.
func (r *PgFormRepository) FindByIDAndOwner(ctx context.Context, id, ownerID string) (*model.Form, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+formColumns+` FROM forms WHERE id = $1 AND owner_id = $2`,
		id, ownerID)
	return scanForm(row.Scan)
}

// ListByOwnerID returns the owner's forms, newest first, with submission counts.
func (r *PgFormRepository) ListByOwnerID(ctx context.Context, ownerID string) ([]*model.Form, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT f.id, f.owner_id, f.name, COALESCE(f.description, ''), f.is_active,
		        f.email_notifications, f.notification_emails, f.allowed_origins,
		        f.created_at, f.updated_at,
		        (SELECT COUNT(*) FROM submissions s WHERE s.form_id = f.id)
		 FROM forms f WHERE f.owner_id = $1 ORDER BY f.created_at DESC`,
		ownerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var forms []*model.Form
	for rows.Next() {
		var f model.Form
		if err := rows.Scan(&f.ID, &f.OwnerID, &f.Name, &f.Description, &f.IsActive,
			&f.Settings.EmailNotifications, &f.Settings.NotificationEmails,
			&f.AllowedOrigins, &f.CreatedAt, &f.UpdatedAt, &f.SubmissionCount); err != nil {
			return nil, err
		}
		forms = append(forms, &f)
	}
	return forms, rows.Err()
}

// Update writes all mutable fields and refreshes updated_at.
func (r *PgFormRepository) Update(ctx context.Context, form *model.Form) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE forms
		 SET name = $2, description = NULLIF($3, ''), is_active = $4,
		     email_notifications = $5, notification_emails = $6,
		     allowed_origins = $7, updated_at = NOW()
		 WHERE id = $1`,
		form.ID, form.Name, form.Description, form.IsActive,
		form.Settings.EmailNotifications, form.Settings.NotificationEmails,
		form.AllowedOrigins,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateOwner reassigns a form to a new owner.
func (r *PgFormRepository) UpdateOwner(ctx context.Context, id, newOwnerID string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE forms SET owner_id = $2, updated_at = NOW() WHERE id = $1`,
		id, newOwnerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a form. Submissions go with it via the FK cascade, but the
// service layer also deletes them explicitly so the invariant does not
// depend on schema configuration.
func (r *PgFormRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM forms WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
