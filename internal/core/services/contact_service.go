package services

import (
	"context"

	"github.com/lorrc/home-services-backend/internal/core/domain"
	apperrors "github.com/lorrc/home-services-backend/internal/core/errors"
	"github.com/lorrc/home-services-backend/internal/core/ports"
)

// ContactService implements customer-record logic and drives the
// new_customer automation trigger.
type ContactService struct {
	contactRepo   ports.ContactRepository
	automationSvc ports.AutomationService
}

var _ ports.ContactService = (*ContactService)(nil)

// NewContactService creates a new contact service.
func NewContactService(contactRepo ports.ContactRepository, automationSvc ports.AutomationService) *ContactService {
	return &ContactService{
		contactRepo:   contactRepo,
		automationSvc: automationSvc,
	}
}

// CreateContact persists a new customer and fires the new_customer trigger.
// An automation failure does not undo the write.
func (s *ContactService) CreateContact(ctx context.Context, contact *domain.Contact) (*domain.Contact, error) {
	if contact.FirstName == "" {
		return nil, apperrors.ErrContactNameRequired
	}

	created, err := s.contactRepo.Create(ctx, contact)
	if err != nil {
		return nil, err
	}

	autoErr := s.automationSvc.EvaluateAndFire(ctx, created.BusinessID, domain.TriggerNewCustomer, domain.TriggerContext{
		"contactId":   created.ID,
		"contactName": created.FullName(),
	})

	return created, autoErr
}

// UpdateContact applies an edit to an existing customer record.
func (s *ContactService) UpdateContact(ctx context.Context, contact *domain.Contact) (*domain.Contact, error) {
	if contact.ID == 0 {
		return nil, apperrors.ErrContactIDRequired
	}
	if contact.FirstName == "" {
		return nil, apperrors.ErrContactNameRequired
	}
	return s.contactRepo.Update(ctx, contact)
}

// ListContacts returns a page of customers for a business.
func (s *ContactService) ListContacts(ctx context.Context, businessID int64, limit, offset int) ([]*domain.Contact, error) {
	return s.contactRepo.ListByBusiness(ctx, businessID, limit, offset)
}
