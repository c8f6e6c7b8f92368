package service

import (
	"context"

	"github.com/formbridge/backend/internal/model"
)

// FormService defines the business logic for form management. Every
// operation except Create is owner-scoped: callers pass the authenticated
// user's ID and a form owned by someone else behaves like a missing form.
type FormService interface {
	// Create stores a new form. ID and timestamps are populated by the
	// implementation.
	Create(ctx context.Context, form *model.Form) error

	GetByIDAndOwner(ctx context.Context, id, ownerID string) (*model.Form, error)
	ListByOwnerID(ctx context.Context, ownerID string) ([]*model.Form, error)

	// Update applies a partial update and returns the updated form.
	Update(ctx context.Context, id, ownerID string, upd model.FormUpdate) (*model.Form, error)

	// Delete removes the form and every submission recorded against it.
	Delete(ctx context.Context, id, ownerID string) error

	// Transfer reassigns the form to the user with targetEmail and returns
	// the new owner. Fails with ErrTargetNotFound or ErrSelfTransfer.
	Transfer(ctx context.Context, id, ownerID, targetEmail string) (*model.User, error)
}
