package service

import (
	"context"

	"github.com/formbridge/backend/internal/model"
	"github.com/formbridge/backend/internal/ratelimit"
)

// ---------------------------------------------------------------------------
// Shared func-field mocks for the service tests
// ---------------------------------------------------------------------------

type mockFormRepo struct {
	createFunc         func(ctx context.Context, form *model.Form) error
	findByIDFunc       func(ctx context.Context, id string) (*model.Form, error)
	findByIDOwnerFunc  func(ctx context.Context, id, ownerID string) (*model.Form, error)
	listByOwnerFunc    func(ctx context.Context, ownerID string) ([]*model.Form, error)
	updateFunc         func(ctx context.Context, form *model.Form) error
	updateOwnerFunc    func(ctx context.Context, id, newOwnerID string) error
	deleteFunc         func(ctx context.Context, id string) error
}

func (m *mockFormRepo) Create(ctx context.Context, form *model.Form) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, form)
	}
	return nil
}

func (m *mockFormRepo) FindByID(ctx context.Context, id string) (*model.Form, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockFormRepo) FindByIDAndOwner(ctx context.Context, id, ownerID string) (*model.Form, error) {
	if m.findByIDOwnerFunc != nil {
		return m.findByIDOwnerFunc(ctx, id, ownerID)
	}
	return nil, nil
}

func (m *mockFormRepo) ListByOwnerID(ctx context.Context, ownerID string) ([]*model.Form, error) {
	if m.listByOwnerFunc != nil {
		return m.listByOwnerFunc(ctx, ownerID)
	}
	return nil, nil
}

func (m *mockFormRepo) Update(ctx context.Context, form *model.Form) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, form)
	}
	return nil
}

func (m *mockFormRepo) UpdateOwner(ctx context.Context, id, newOwnerID string) error {
	if m.updateOwnerFunc != nil {
		return m.updateOwnerFunc(ctx, id, newOwnerID)
	}
	return nil
}

func (m *mockFormRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

type mockSubmissionRepo struct {
	createFunc       func(ctx context.Context, sub *model.Submission) error
	listFunc         func(ctx context.Context, formID string, opts model.SubmissionListOptions) ([]*model.Submission, error)
	listAllFunc      func(ctx context.Context, formID string) ([]*model.Submission, error)
	countFunc        func(ctx context.Context, formID string) (int, error)
	deleteByFormFunc func(ctx context.Context, formID string) error
}

func (m *mockSubmissionRepo) Create(ctx context.Context, sub *model.Submission) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, sub)
	}
	return nil
}

func (m *mockSubmissionRepo) ListByFormID(ctx context.Context, formID string, opts model.SubmissionListOptions) ([]*model.Submission, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, formID, opts)
	}
	return nil, nil
}

func (m *mockSubmissionRepo) ListAllByFormID(ctx context.Context, formID string) ([]*model.Submission, error) {
	if m.listAllFunc != nil {
		return m.listAllFunc(ctx, formID)
	}
	return nil, nil
}

func (m *mockSubmissionRepo) CountByFormID(ctx context.Context, formID string) (int, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx, formID)
	}
	return 0, nil
}

func (m *mockSubmissionRepo) DeleteByFormID(ctx context.Context, formID string) error {
	if m.deleteByFormFunc != nil {
		return m.deleteByFormFunc(ctx, formID)
	}
	return nil
}

type mockUserRepo struct {
	findByIDFunc    func(ctx context.Context, id string) (*model.User, error)
	findByEmailFunc func(ctx context.Context, email string) (*model.User, error)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return nil, nil
}

type mockRateLimiter struct {
	checkFunc func(ctx context.Context, key string) (ratelimit.Result, error)
}

func (m *mockRateLimiter) Check(ctx context.Context, key string) (ratelimit.Result, error) {
	if m.checkFunc != nil {
		return m.checkFunc(ctx, key)
	}
	return ratelimit.Result{Allowed: true, Remaining: 4}, nil
}

type mockNotifier struct {
	notifyFunc func(ctx context.Context, form *model.Form, owner *model.User, data map[string]any) error
}

func (m *mockNotifier) Notify(ctx context.Context, form *model.Form, owner *model.User, data map[string]any) error {
	if m.notifyFunc != nil {
		return m.notifyFunc(ctx, form, owner, data)
	}
	return nil
}
