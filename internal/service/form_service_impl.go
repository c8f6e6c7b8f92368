package service

import (
	"context"
	"errors"

	"github.com/formbridge/backend/internal/model"
	"github.com/formbridge/backend/internal/repository"
	"github.com/google/uuid"
)

// formServiceImpl is the production implementation of FormService.
type formServiceImpl struct {
	formRepo repository.FormRepository
	subRepo  repository.SubmissionRepository
	userRepo repository.UserRepository
}

// NewFormService creates a FormService backed by the given repositories.
func NewFormService(formRepo repository.FormRepository, subRepo repository.SubmissionRepository, userRepo repository.UserRepository) FormService {
	return &formServiceImpl{formRepo: formRepo, subRepo: subRepo, userRepo: userRepo}
}

// Create stores a new form. New forms are active by default; the generated
// uuid doubles as the public endpoint identifier, so it must not be
// derivable from anything the owner controls.
func (s *formServiceImpl) Create(ctx context.Context, form *model.Form) error {
	form.ID = uuid.NewString()
	form.IsActive = true
	if form.Settings.NotificationEmails == nil {
		form.Settings.NotificationEmails = []string{}
	}
	if form.AllowedOrigins == nil {
		form.AllowedOrigins = []string{}
	}
	return s.formRepo.Create(ctx, form)
}

func (s *formServiceImpl) GetByIDAndOwner(ctx context.Context, id, ownerID string) (*model.Form, error) {
	return s.formRepo.FindByIDAndOwner(ctx, id, ownerID)
}

func (s *formServiceImpl) ListByOwnerID(ctx context.Context, ownerID string) ([]*model.Form, error) {
	return s.formRepo.ListByOwnerID(ctx, ownerID)
}

// Update loads the owner's form, applies the non-nil fields of upd, and
// writes it back.
func (s *formServiceImpl) Update(ctx context.Context, id, ownerID string, upd model.FormUpdate) (*model.Form, error) {
	form, err := s.formRepo.FindByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil && *upd.Name != "" {
		form.Name = *upd.Name
	}
	if upd.Description != nil {
		form.Description = *upd.Description
	}
	if upd.IsActive != nil {
		form.IsActive = *upd.IsActive
	}
	if upd.Settings != nil {
		form.Settings = *upd.Settings
		if form.Settings.NotificationEmails == nil {
			form.Settings.NotificationEmails = []string{}
		}
	}
	if upd.AllowedOrigins != nil {
		form.AllowedOrigins = upd.AllowedOrigins
	}

	if err := s.formRepo.Update(ctx, form); err != nil {
		return nil, err
	}
	return form, nil
}

// Delete removes the form and its submissions. The submissions go first so
// a failure cannot leave orphans pointing at a deleted form.
func (s *formServiceImpl) Delete(ctx context.Context, id, ownerID string) error {
	if _, err := s.formRepo.FindByIDAndOwner(ctx, id, ownerID); err != nil {
		return err
	}
	if err := s.subRepo.DeleteByFormID(ctx, id); err != nil {
		return err
	}
	return s.formRepo.Delete(ctx, id)
}

// Transfer reassigns ownership to the user holding targetEmail.
func (s *formServiceImpl) Transfer(ctx context.Context, id, ownerID, targetEmail string) (*model.User, error) {
	if _, err := s.formRepo.FindByIDAndOwner(ctx, id, ownerID); err != nil {
		return nil, err
	}

	target, err := s.userRepo.FindByEmail(ctx, targetEmail)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTargetNotFound
		}
		return nil, err
	}
	if target.ID == ownerID {
		return nil, ErrSelfTransfer
	}

	if err := s.formRepo.UpdateOwner(ctx, id, target.ID); err != nil {
		return nil, err
	}
	return target, nil
}
