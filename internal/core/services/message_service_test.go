package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lorrc/home-services-backend/internal/core/domain"
	apperrors "github.com/lorrc/home-services-backend/internal/core/errors"
	"github.com/lorrc/home-services-backend/internal/core/mocks"
	"github.com/lorrc/home-services-backend/internal/core/ports"
	"github.com/lorrc/home-services-backend/internal/core/services"
)

func TestMessageService_CreateMessage(t *testing.T) {
	ctx := context.Background()
	conversation := &domain.Conversation{ID: 3, BusinessID: 1}

	t.Run("inbound message broadcasts and fires new_message", func(t *testing.T) {
		mockRepo := mocks.NewMockConversationRepository()
		mockAuto := mocks.NewMockAutomationService()
		mockBroadcaster := mocks.NewMockEventBroadcaster()

		svc := services.NewMessageService(mockRepo, mockAuto, mockBroadcaster)

		created := &domain.Message{ID: 9, ConversationID: 3, Content: "my AC is rattling", Status: domain.MessageUnread}
		mockRepo.On("GetByID", ctx, int64(3)).Return(conversation, nil)
		mockRepo.On("CreateMessage", ctx, mock.AnythingOfType("*domain.Message")).Return(created, nil)
		mockBroadcaster.On("Broadcast", mock.MatchedBy(func(e domain.Event) bool {
			return e.Type == domain.EventNewChatMessage && e.BusinessID == 1
		})).Return(nil)
		mockAuto.On("EvaluateAndFire", ctx, int64(1), domain.TriggerNewMessage, mock.MatchedBy(func(tc domain.TriggerContext) bool {
			return tc["conversationId"] == int64(3) && tc["content"] == "my AC is rattling"
		})).Return(nil)

		msg, err := svc.CreateMessage(ctx, ports.CreateMessageParams{
			ConversationID: 3,
			Content:        "my AC is rattling",
		})

		require.NoError(t, err)
		assert.Equal(t, int64(9), msg.ID)
		mockBroadcaster.AssertExpectations(t)
		mockAuto.AssertExpectations(t)
	})

	t.Run("business replies broadcast but do not fire automations", func(t *testing.T) {
		mockRepo := mocks.NewMockConversationRepository()
		mockAuto := mocks.NewMockAutomationService()
		mockBroadcaster := mocks.NewMockEventBroadcaster()

		svc := services.NewMessageService(mockRepo, mockAuto, mockBroadcaster)

		created := &domain.Message{ID: 10, ConversationID: 3, Content: "on our way", IsFromBusiness: true}
		mockRepo.On("GetByID", ctx, int64(3)).Return(conversation, nil)
		mockRepo.On("CreateMessage", ctx, mock.AnythingOfType("*domain.Message")).Return(created, nil)
		mockBroadcaster.On("Broadcast", mock.Anything).Return(nil)

		_, err := svc.CreateMessage(ctx, ports.CreateMessageParams{
			ConversationID: 3,
			Content:        "on our way",
			IsFromBusiness: true,
		})

		require.NoError(t, err)
		mockAuto.AssertNotCalled(t, "EvaluateAndFire")
	})

	t.Run("empty content is rejected before any lookup", func(t *testing.T) {
		mockRepo := mocks.NewMockConversationRepository()
		mockAuto := mocks.NewMockAutomationService()
		mockBroadcaster := mocks.NewMockEventBroadcaster()

		svc := services.NewMessageService(mockRepo, mockAuto, mockBroadcaster)

		_, err := svc.CreateMessage(ctx, ports.CreateMessageParams{ConversationID: 3})

		assert.ErrorIs(t, err, apperrors.ErrContentRequired)
		mockRepo.AssertNotCalled(t, "GetByID")
	})

	t.Run("unknown conversation", func(t *testing.T) {
		mockRepo := mocks.NewMockConversationRepository()
		mockAuto := mocks.NewMockAutomationService()
		mockBroadcaster := mocks.NewMockEventBroadcaster()

		svc := services.NewMessageService(mockRepo, mockAuto, mockBroadcaster)

		mockRepo.On("GetByID", ctx, int64(99)).Return(nil, apperrors.ErrConversationNotFound)

		_, err := svc.CreateMessage(ctx, ports.CreateMessageParams{ConversationID: 99, Content: "hello"})

		assert.ErrorIs(t, err, apperrors.ErrConversationNotFound)
		mockBroadcaster.AssertNotCalled(t, "Broadcast")
	})
}

func TestMessageService_MarkConversationRead(t *testing.T) {
	ctx := context.Background()

	t.Run("marks read and notifies subscribers", func(t *testing.T) {
		mockRepo := mocks.NewMockConversationRepository()
		mockAuto := mocks.NewMockAutomationService()
		mockBroadcaster := mocks.NewMockEventBroadcaster()

		svc := services.NewMessageService(mockRepo, mockAuto, mockBroadcaster)

		mockRepo.On("GetByID", ctx, int64(3)).Return(&domain.Conversation{ID: 3, BusinessID: 1}, nil)
		mockRepo.On("MarkMessagesRead", ctx, int64(3)).Return(nil)
		mockBroadcaster.On("Broadcast", mock.MatchedBy(func(e domain.Event) bool {
			return e.Type == domain.EventMessageRead && e.BusinessID == 1
		})).Return(nil)

		err := svc.MarkConversationRead(ctx, 3)

		require.NoError(t, err)
		mockRepo.AssertExpectations(t)
		mockBroadcaster.AssertExpectations(t)
	})

	t.Run("repo failure skips the broadcast", func(t *testing.T) {
		mockRepo := mocks.NewMockConversationRepository()
		mockAuto := mocks.NewMockAutomationService()
		mockBroadcaster := mocks.NewMockEventBroadcaster()

		svc := services.NewMessageService(mockRepo, mockAuto, mockBroadcaster)

		mockRepo.On("GetByID", ctx, int64(3)).Return(&domain.Conversation{ID: 3, BusinessID: 1}, nil)
		mockRepo.On("MarkMessagesRead", ctx, int64(3)).Return(apperrors.ErrInternal)

		err := svc.MarkConversationRead(ctx, 3)

		assert.Error(t, err)
		mockBroadcaster.AssertNotCalled(t, "Broadcast")
	})
}
