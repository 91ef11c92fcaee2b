package services

import (
	"context"
	"time"

	"github.com/lorrc/home-services-backend/internal/core/domain"
	apperrors "github.com/lorrc/home-services-backend/internal/core/errors"
	"github.com/lorrc/home-services-backend/internal/core/ports"
)

// MessageService implements conversation and chat-message logic. The REST
// write path is authoritative for chat; realtime connections only receive
// what this service broadcasts after a successful write.
type MessageService struct {
	conversationRepo ports.ConversationRepository
	automationSvc    ports.AutomationService
	broadcaster      ports.EventBroadcaster
}

var _ ports.MessageService = (*MessageService)(nil)

// NewMessageService creates a new message service.
func NewMessageService(
	conversationRepo ports.ConversationRepository,
	automationSvc ports.AutomationService,
	broadcaster ports.EventBroadcaster,
) *MessageService {
	return &MessageService{
		conversationRepo: conversationRepo,
		automationSvc:    automationSvc,
		broadcaster:      broadcaster,
	}
}

// CreateConversation opens a new chat thread for a business.
func (s *MessageService) CreateConversation(ctx context.Context, businessID int64, contactID *int64) (*domain.Conversation, error) {
	conversation := &domain.Conversation{
		BusinessID:    businessID,
		ContactID:     contactID,
		LastMessageAt: time.Now(),
	}
	return s.conversationRepo.Create(ctx, conversation)
}

// ListConversations returns all chat threads for a business.
func (s *MessageService) ListConversations(ctx context.Context, businessID int64) ([]*domain.Conversation, error) {
	return s.conversationRepo.ListByBusiness(ctx, businessID)
}

// CreateMessage persists a chat message, broadcasts it, and fires the
// new_message trigger for inbound customer messages. Broadcast and
// automation failures do not undo the write.
func (s *MessageService) CreateMessage(ctx context.Context, params ports.CreateMessageParams) (*domain.Message, error) {
	if params.Content == "" {
		return nil, apperrors.ErrContentRequired
	}

	conversation, err := s.conversationRepo.GetByID(ctx, params.ConversationID)
	if err != nil {
		return nil, err
	}

	message := &domain.Message{
		ConversationID: params.ConversationID,
		Content:        params.Content,
		IsFromBusiness: params.IsFromBusiness,
		Status:         domain.MessageUnread,
	}
	created, err := s.conversationRepo.CreateMessage(ctx, message)
	if err != nil {
		return nil, err
	}

	_ = s.broadcaster.Broadcast(domain.NewChatMessageEvent(conversation.BusinessID, conversation.ID, created))

	var autoErr error
	if !params.IsFromBusiness {
		autoErr = s.automationSvc.EvaluateAndFire(ctx, conversation.BusinessID, domain.TriggerNewMessage, domain.TriggerContext{
			"conversationId": conversation.ID,
			"messageId":      created.ID,
			"content":        created.Content,
		})
	}

	return created, autoErr
}

// ListMessages returns all messages in a conversation, oldest first.
func (s *MessageService) ListMessages(ctx context.Context, conversationID int64) ([]*domain.Message, error) {
	if _, err := s.conversationRepo.GetByID(ctx, conversationID); err != nil {
		return nil, err
	}
	return s.conversationRepo.ListMessages(ctx, conversationID)
}

// MarkConversationRead marks every unread message in a conversation as read
// and notifies the business's subscribers so open dashboards can clear their
// badges.
func (s *MessageService) MarkConversationRead(ctx context.Context, conversationID int64) error {
	conversation, err := s.conversationRepo.GetByID(ctx, conversationID)
	if err != nil {
		return err
	}

	if err := s.conversationRepo.MarkMessagesRead(ctx, conversationID); err != nil {
		return err
	}

	_ = s.broadcaster.Broadcast(domain.NewMessageReadEvent(conversation.BusinessID, conversation.ID))
	return nil
}
