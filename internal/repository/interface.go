package repository

import (
	"context"

	"github.com/formbridge/backend/internal/model"
)

// DB is the connection-liveness interface used by the health endpoint.
type DB interface {
	Ping(ctx context.Context) error
}

// UserRepository is the persistence interface for users.
// Account creation happens in the auth collaborator; this service only reads.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

// FormRepository is the persistence interface for forms.
// Owner-scoped lookups take both id and ownerID so that ownership is
// enforced by query filtering, not by a separate authorization check.
type FormRepository interface {
	Create(ctx context.Context, form *model.Form) error
	// FindByID loads a form regardless of owner. Used by the public
	// intake path only.
	FindByID(ctx context.Context, id string) (*model.Form, error)
	// FindByIDAndOwner loads a form only if ownerID owns it.
	FindByIDAndOwner(ctx context.Context, id, ownerID string) (*model.Form, error)
	ListByOwnerID(ctx context.Context, ownerID string) ([]*model.Form, error)
	Update(ctx context.Context, form *model.Form) error
	UpdateOwner(ctx context.Context, id, newOwnerID string) error
	Delete(ctx context.Context, id string) error
}

// SubmissionRepository is the persistence interface for submissions.
type SubmissionRepository interface {
	Create(ctx context.Context, sub *model.Submission) error
	ListByFormID(ctx context.Context, formID string, opts model.SubmissionListOptions) ([]*model.Submission, error)
	// ListAllByFormID returns every submission for a form, oldest first.
	// Used by the CSV export.
	ListAllByFormID(ctx context.Context, formID string) ([]*model.Submission, error)
	CountByFormID(ctx context.Context, formID string) (int, error)
	DeleteByFormID(ctx context.Context, formID string) error
}
