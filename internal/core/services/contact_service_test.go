package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/lorrc/home-services-backend/internal/core/domain"
	apperrors "github.com/lorrc/home-services-backend/internal/core/errors"
	"github.com/lorrc/home-services-backend/internal/core/mocks"
	"github.com/lorrc/home-services-backend/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestContactService_CreateContact(t *testing.T) {
	ctx := context.Background()

	t.Run("fires the new customer trigger", func(t *testing.T) {
		contactRepo := mocks.NewMockContactRepository()
		automationSvc := mocks.NewMockAutomationService()
		svc := services.NewContactService(contactRepo, automationSvc)

		contact := &domain.Contact{BusinessID: 1, FirstName: "Maria", LastName: "Diaz"}
		created := &domain.Contact{ID: 9, BusinessID: 1, FirstName: "Maria", LastName: "Diaz"}

		contactRepo.On("Create", ctx, contact).Return(created, nil)
		automationSvc.On("EvaluateAndFire", ctx, int64(1), domain.TriggerNewCustomer, domain.TriggerContext{
			"contactId":   int64(9),
			"contactName": "Maria Diaz",
		}).Return(nil)

		got, err := svc.CreateContact(ctx, contact)
		require.NoError(t, err)
		assert.Equal(t, int64(9), got.ID)
		automationSvc.AssertExpectations(t)
	})

	t.Run("rejects a missing first name", func(t *testing.T) {
		contactRepo := mocks.NewMockContactRepository()
		automationSvc := mocks.NewMockAutomationService()
		svc := services.NewContactService(contactRepo, automationSvc)

		_, err := svc.CreateContact(ctx, &domain.Contact{BusinessID: 1})
		assert.ErrorIs(t, err, apperrors.ErrContactNameRequired)
		contactRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("automation failure does not undo the write", func(t *testing.T) {
		contactRepo := mocks.NewMockContactRepository()
		automationSvc := mocks.NewMockAutomationService()
		svc := services.NewContactService(contactRepo, automationSvc)

		contact := &domain.Contact{BusinessID: 1, FirstName: "Sam"}
		created := &domain.Contact{ID: 3, BusinessID: 1, FirstName: "Sam"}

		contactRepo.On("Create", ctx, contact).Return(created, nil)
		automationSvc.On("EvaluateAndFire", ctx, int64(1), domain.TriggerNewCustomer, mock.Anything).
			Return(errors.New("rule fetch timed out"))

		got, err := svc.CreateContact(ctx, contact)
		assert.ErrorContains(t, err, "rule fetch timed out")
		require.NotNil(t, got)
		assert.Equal(t, int64(3), got.ID)
	})
}

func TestContactService_UpdateContact(t *testing.T) {
	ctx := context.Background()

	t.Run("requires an ID", func(t *testing.T) {
		svc := services.NewContactService(mocks.NewMockContactRepository(), mocks.NewMockAutomationService())

		_, err := svc.UpdateContact(ctx, &domain.Contact{FirstName: "Maria"})
		assert.ErrorIs(t, err, apperrors.ErrContactIDRequired)
	})

	t.Run("does not fire automations", func(t *testing.T) {
		contactRepo := mocks.NewMockContactRepository()
		automationSvc := mocks.NewMockAutomationService()
		svc := services.NewContactService(contactRepo, automationSvc)

		contact := &domain.Contact{ID: 9, BusinessID: 1, FirstName: "Maria"}
		contactRepo.On("Update", ctx, contact).Return(contact, nil)

		_, err := svc.UpdateContact(ctx, contact)
		require.NoError(t, err)
		automationSvc.AssertNotCalled(t, "EvaluateAndFire", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
