package services_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lorrc/home-services-backend/internal/core/domain"
	apperrors "github.com/lorrc/home-services-backend/internal/core/errors"
	"github.com/lorrc/home-services-backend/internal/core/mocks"
	"github.com/lorrc/home-services-backend/internal/core/ports"
	"github.com/lorrc/home-services-backend/internal/core/services"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newEngine(repo *mocks.MockAutomationRepository, broadcaster *mocks.MockEventBroadcaster) *services.AutomationService {
	return services.NewAutomationService(repo, services.NewEqualityMatcher(), broadcaster, 0, testLogger())
}

func smsRule(id, businessID int64, conditions map[string]any) *domain.Automation {
	return &domain.Automation{
		ID:         id,
		BusinessID: businessID,
		Name:       "follow up after job",
		Trigger:    domain.TriggerJobCompleted,
		Conditions: conditions,
		Actions: []domain.Action{
			{Type: domain.ActionSendSMS, Params: map[string]string{
				"to":      "{{contactPhone}}",
				"message": "Thanks {{contactName}}, your job is done!",
			}},
		},
		IsActive: true,
	}
}

func TestAutomationService_EvaluateAndFire(t *testing.T) {
	ctx := context.Background()

	t.Run("fires matching rule and broadcasts per action", func(t *testing.T) {
		mockRepo := mocks.NewMockAutomationRepository()
		mockBroadcaster := mocks.NewMockEventBroadcaster()
		mockSender := mocks.NewMockMessageSender()

		svc := newEngine(mockRepo, mockBroadcaster)
		svc.RegisterHandler(domain.ActionSendSMS, services.NewSendSMSHandler(mockSender, testLogger()))

		rule := smsRule(10, 1, nil)
		mockRepo.On("ListByBusiness", ctx, int64(1)).Return([]*domain.Automation{rule}, nil)
		mockSender.On("Send", ctx, int64(1), "+15550100", "Thanks Maria Diaz, your job is done!").Return(nil)
		mockBroadcaster.On("Broadcast", mock.MatchedBy(func(e domain.Event) bool {
			return e.Type == domain.EventAutomationTriggered && e.BusinessID == 1
		})).Return(nil)

		err := svc.EvaluateAndFire(ctx, 1, domain.TriggerJobCompleted, domain.TriggerContext{
			"contactPhone": "+15550100",
			"contactName":  "Maria Diaz",
		})

		require.NoError(t, err)
		mockSender.AssertExpectations(t)
		mockBroadcaster.AssertNumberOfCalls(t, "Broadcast", 1)
	})

	t.Run("skips inactive rules", func(t *testing.T) {
		mockRepo := mocks.NewMockAutomationRepository()
		mockBroadcaster := mocks.NewMockEventBroadcaster()
		mockSender := mocks.NewMockMessageSender()

		svc := newEngine(mockRepo, mockBroadcaster)
		svc.RegisterHandler(domain.ActionSendSMS, services.NewSendSMSHandler(mockSender, testLogger()))

		rule := smsRule(10, 1, nil)
		rule.IsActive = false
		mockRepo.On("ListByBusiness", ctx, int64(1)).Return([]*domain.Automation{rule}, nil)

		err := svc.EvaluateAndFire(ctx, 1, domain.TriggerJobCompleted, domain.TriggerContext{})

		require.NoError(t, err)
		mockSender.AssertNotCalled(t, "Send")
		mockBroadcaster.AssertNotCalled(t, "Broadcast")
	})

	t.Run("skips rules for other triggers", func(t *testing.T) {
		mockRepo := mocks.NewMockAutomationRepository()
		mockBroadcaster := mocks.NewMockEventBroadcaster()

		svc := newEngine(mockRepo, mockBroadcaster)

		rule := smsRule(10, 1, nil)
		mockRepo.On("ListByBusiness", ctx, int64(1)).Return([]*domain.Automation{rule}, nil)

		err := svc.EvaluateAndFire(ctx, 1, domain.TriggerNewCustomer, domain.TriggerContext{})

		require.NoError(t, err)
		mockBroadcaster.AssertNotCalled(t, "Broadcast")
	})

	t.Run("all conditions must match", func(t *testing.T) {
		mockRepo := mocks.NewMockAutomationRepository()
		mockBroadcaster := mocks.NewMockEventBroadcaster()
		mockSender := mocks.NewMockMessageSender()

		svc := newEngine(mockRepo, mockBroadcaster)
		svc.RegisterHandler(domain.ActionSendSMS, services.NewSendSMSHandler(mockSender, testLogger()))

		rule := smsRule(10, 1, map[string]any{"jobType": "repair", "priority": "high"})
		mockRepo.On("ListByBusiness", ctx, int64(1)).Return([]*domain.Automation{rule}, nil)

		err := svc.EvaluateAndFire(ctx, 1, domain.TriggerJobCompleted, domain.TriggerContext{
			"jobType":  "repair",
			"priority": "low",
		})

		require.NoError(t, err)
		mockSender.AssertNotCalled(t, "Send")
		mockBroadcaster.AssertNotCalled(t, "Broadcast")
	})

	t.Run("unknown action type is skipped without broadcast", func(t *testing.T) {
		mockRepo := mocks.NewMockAutomationRepository()
		mockBroadcaster := mocks.NewMockEventBroadcaster()

		svc := newEngine(mockRepo, mockBroadcaster)

		rule := &domain.Automation{
			ID:         11,
			BusinessID: 1,
			Name:       "mystery action",
			Trigger:    domain.TriggerJobCompleted,
			Conditions: map[string]any{},
			Actions:    []domain.Action{{Type: "carrier_pigeon", Params: map[string]string{}}},
			IsActive:   true,
		}
		mockRepo.On("ListByBusiness", ctx, int64(1)).Return([]*domain.Automation{rule}, nil)

		err := svc.EvaluateAndFire(ctx, 1, domain.TriggerJobCompleted, domain.TriggerContext{})

		require.NoError(t, err)
		mockBroadcaster.AssertNotCalled(t, "Broadcast")
	})

	t.Run("handler failure still broadcasts and does not stop later actions", func(t *testing.T) {
		mockRepo := mocks.NewMockAutomationRepository()
		mockBroadcaster := mocks.NewMockEventBroadcaster()
		mockHandler := mocks.NewMockActionHandler()

		svc := newEngine(mockRepo, mockBroadcaster)
		svc.RegisterHandler(domain.ActionSendSMS, mockHandler)

		rule := &domain.Automation{
			ID:         12,
			BusinessID: 1,
			Name:       "two step",
			Trigger:    domain.TriggerJobCompleted,
			Conditions: map[string]any{},
			Actions: []domain.Action{
				{Type: domain.ActionSendSMS, Params: map[string]string{"to": "a"}},
				{Type: domain.ActionSendSMS, Params: map[string]string{"to": "b"}},
			},
			IsActive: true,
		}
		mockRepo.On("ListByBusiness", ctx, int64(1)).Return([]*domain.Automation{rule}, nil)
		mockHandler.On("Execute", ctx, rule, rule.Actions[0], mock.Anything).Return(errors.New("provider down"))
		mockHandler.On("Execute", ctx, rule, rule.Actions[1], mock.Anything).Return(nil)
		mockBroadcaster.On("Broadcast", mock.Anything).Return(nil)

		err := svc.EvaluateAndFire(ctx, 1, domain.TriggerJobCompleted, domain.TriggerContext{})

		require.NoError(t, err)
		mockHandler.AssertExpectations(t)
		mockBroadcaster.AssertNumberOfCalls(t, "Broadcast", 2)
	})

	t.Run("rule fetch failure propagates", func(t *testing.T) {
		mockRepo := mocks.NewMockAutomationRepository()
		mockBroadcaster := mocks.NewMockEventBroadcaster()

		svc := newEngine(mockRepo, mockBroadcaster)

		mockRepo.On("ListByBusiness", ctx, int64(1)).Return(nil, errors.New("connection refused"))

		err := svc.EvaluateAndFire(ctx, 1, domain.TriggerJobCompleted, domain.TriggerContext{})

		assert.ErrorContains(t, err, "connection refused")
		mockBroadcaster.AssertNotCalled(t, "Broadcast")
	})

	t.Run("fetch runs under configured timeout", func(t *testing.T) {
		mockRepo := mocks.NewMockAutomationRepository()
		mockBroadcaster := mocks.NewMockEventBroadcaster()

		svc := services.NewAutomationService(mockRepo, services.NewEqualityMatcher(), mockBroadcaster, 50*time.Millisecond, testLogger())

		mockRepo.On("ListByBusiness", mock.MatchedBy(func(c context.Context) bool {
			_, ok := c.Deadline()
			return ok
		}), int64(1)).Return([]*domain.Automation{}, nil)

		err := svc.EvaluateAndFire(ctx, 1, domain.TriggerJobCompleted, domain.TriggerContext{})

		require.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})
}

func TestAutomationService_CreateAutomation(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mockRepo := mocks.NewMockAutomationRepository()
		mockBroadcaster := mocks.NewMockEventBroadcaster()
		svc := newEngine(mockRepo, mockBroadcaster)

		mockRepo.On("Create", ctx, mock.AnythingOfType("*domain.Automation")).
			Return(&domain.Automation{ID: 1, Name: "welcome"}, nil)

		rule, err := svc.CreateAutomation(ctx, domain.AutomationParams{
			BusinessID: 1,
			Name:       "welcome",
			Trigger:    domain.TriggerNewCustomer,
			Actions:    []domain.Action{{Type: domain.ActionSendSMS}},
			IsActive:   true,
		})

		require.NoError(t, err)
		assert.Equal(t, int64(1), rule.ID)
		mockRepo.AssertExpectations(t)
	})

	t.Run("rejects rule without actions", func(t *testing.T) {
		mockRepo := mocks.NewMockAutomationRepository()
		mockBroadcaster := mocks.NewMockEventBroadcaster()
		svc := newEngine(mockRepo, mockBroadcaster)

		_, err := svc.CreateAutomation(ctx, domain.AutomationParams{
			BusinessID: 1,
			Name:       "empty",
			Trigger:    domain.TriggerNewCustomer,
		})

		assert.ErrorIs(t, err, apperrors.ErrAutomationNoActions)
		mockRepo.AssertNotCalled(t, "Create")
	})

	t.Run("rejects unknown trigger", func(t *testing.T) {
		mockRepo := mocks.NewMockAutomationRepository()
		mockBroadcaster := mocks.NewMockEventBroadcaster()
		svc := newEngine(mockRepo, mockBroadcaster)

		_, err := svc.CreateAutomation(ctx, domain.AutomationParams{
			BusinessID: 1,
			Name:       "bad trigger",
			Trigger:    "solar_eclipse",
			Actions:    []domain.Action{{Type: domain.ActionSendSMS}},
		})

		assert.ErrorIs(t, err, apperrors.ErrInvalidTrigger)
	})
}

func TestAutomationService_UpdateAutomation(t *testing.T) {
	ctx := context.Background()

	t.Run("partial update keeps untouched fields", func(t *testing.T) {
		mockRepo := mocks.NewMockAutomationRepository()
		mockBroadcaster := mocks.NewMockEventBroadcaster()
		svc := newEngine(mockRepo, mockBroadcaster)

		existing := smsRule(5, 1, map[string]any{"jobType": "repair"})
		mockRepo.On("GetByID", ctx, int64(5)).Return(existing, nil)
		mockRepo.On("Update", ctx, mock.MatchedBy(func(a *domain.Automation) bool {
			return a.Name == "renamed" && a.Trigger == domain.TriggerJobCompleted && !a.IsActive
		})).Return(existing, nil)

		name := "renamed"
		active := false
		_, err := svc.UpdateAutomation(ctx, ports.UpdateAutomationParams{
			ID:       5,
			Name:     &name,
			IsActive: &active,
		})

		require.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo := mocks.NewMockAutomationRepository()
		mockBroadcaster := mocks.NewMockEventBroadcaster()
		svc := newEngine(mockRepo, mockBroadcaster)

		mockRepo.On("GetByID", ctx, int64(99)).Return(nil, apperrors.ErrAutomationNotFound)

		_, err := svc.UpdateAutomation(ctx, ports.UpdateAutomationParams{ID: 99})

		assert.ErrorIs(t, err, apperrors.ErrAutomationNotFound)
	})
}
