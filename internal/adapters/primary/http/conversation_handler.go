package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lorrc/home-services-backend/internal/adapters/primary/validation"
	"github.com/lorrc/home-services-backend/internal/core/domain"
	apperrors "github.com/lorrc/home-services-backend/internal/core/errors"
	"github.com/lorrc/home-services-backend/internal/core/ports"
)

// ConversationHandler handles HTTP requests for chat threads and messages.
// This is the authoritative write path for chat; the websocket only carries
// the resulting broadcasts.
type ConversationHandler struct {
	messageService ports.MessageService
	errorHandler   *ErrorHandler
	logger         *slog.Logger
}

// NewConversationHandler creates a new conversation handler
func NewConversationHandler(messageService ports.MessageService, errorHandler *ErrorHandler, logger *slog.Logger) *ConversationHandler {
	return &ConversationHandler{
		messageService: messageService,
		errorHandler:   errorHandler,
		logger:         logger.With("handler", "conversation"),
	}
}

// Router sets up a new chi Router for all conversation routes.
func (h *ConversationHandler) Router() http.Handler {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

// RegisterRoutes sets up the routing for all conversation endpoints.
func (h *ConversationHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleListConversations)
	r.Post("/", h.HandleCreateConversation)

	r.Route("/{conversationID}", func(r chi.Router) {
		r.Get("/messages", h.HandleListMessages)
		r.Post("/messages", h.HandleCreateMessage)
		r.Post("/read", h.HandleMarkRead)
	})
}

// --- Request/Response DTOs ---

// CreateConversationRequest defines the expected JSON body for opening a
// thread
type CreateConversationRequest struct {
	ContactID *int64 `json:"contactId"`
}

// CreateMessageRequest defines the expected JSON body for posting a message
type CreateMessageRequest struct {
	Content        string `json:"content"`
	IsFromBusiness bool   `json:"isFromBusiness"`
}

// Validate validates the create message request
func (r *CreateMessageRequest) Validate() error {
	v := validation.NewValidator()

	v.Required("content", r.Content).
		MaxLength("content", r.Content, 4000)

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// ConversationDTO defines the JSON response for conversations.
type ConversationDTO struct {
	ID            int64  `json:"id"`
	BusinessID    int64  `json:"businessId"`
	ContactID     *int64 `json:"contactId,omitempty"`
	LastMessage   string `json:"lastMessage,omitempty"`
	LastMessageAt string `json:"lastMessageAt"`
	UnreadCount   int32  `json:"unreadCount"`
	CreatedAt     string `json:"createdAt"`
}

func toConversationDTO(conversation *domain.Conversation) ConversationDTO {
	return ConversationDTO{
		ID:            conversation.ID,
		BusinessID:    conversation.BusinessID,
		ContactID:     conversation.ContactID,
		LastMessage:   conversation.LastMessage,
		LastMessageAt: conversation.LastMessageAt.Format(time.RFC3339),
		UnreadCount:   conversation.UnreadCount,
		CreatedAt:     conversation.CreatedAt.Format(time.RFC3339),
	}
}

func toConversationDTOs(conversations []*domain.Conversation) []ConversationDTO {
	response := make([]ConversationDTO, 0, len(conversations))
	for _, conversation := range conversations {
		response = append(response, toConversationDTO(conversation))
	}
	return response
}

// MessageDTO defines the JSON response for messages.
type MessageDTO struct {
	ID             int64  `json:"id"`
	ConversationID int64  `json:"conversationId"`
	Content        string `json:"content"`
	IsFromBusiness bool   `json:"isFromBusiness"`
	Status         string `json:"status"`
	CreatedAt      string `json:"createdAt"`
}

func toMessageDTO(message *domain.Message) MessageDTO {
	return MessageDTO{
		ID:             message.ID,
		ConversationID: message.ConversationID,
		Content:        message.Content,
		IsFromBusiness: message.IsFromBusiness,
		Status:         string(message.Status),
		CreatedAt:      message.CreatedAt.Format(time.RFC3339),
	}
}

func toMessageDTOs(messages []*domain.Message) []MessageDTO {
	response := make([]MessageDTO, 0, len(messages))
	for _, message := range messages {
		response = append(response, toMessageDTO(message))
	}
	return response
}

// --- Handlers ---

// HandleListConversations handles GET /businesses/{businessID}/conversations
func (h *ConversationHandler) HandleListConversations(w http.ResponseWriter, r *http.Request) {
	businessID, err := ParseBusinessID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	conversations, err := h.messageService.ListConversations(r.Context(), businessID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteList(w, toConversationDTOs(conversations))
}

// HandleCreateConversation handles POST /businesses/{businessID}/conversations
func (h *ConversationHandler) HandleCreateConversation(w http.ResponseWriter, r *http.Request) {
	businessID, err := ParseBusinessID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	req, err := validation.DecodeAndValidate[CreateConversationRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	conversation, err := h.messageService.CreateConversation(r.Context(), businessID, req.ContactID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("conversation created",
		"conversation_id", conversation.ID,
		"business_id", businessID,
	)

	WriteCreated(w, toConversationDTO(conversation))
}

// HandleListMessages handles GET .../conversations/{conversationID}/messages
func (h *ConversationHandler) HandleListMessages(w http.ResponseWriter, r *http.Request) {
	conversationID, err := h.parseConversationID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	messages, err := h.messageService.ListMessages(r.Context(), conversationID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteList(w, toMessageDTOs(messages))
}

// HandleCreateMessage handles POST .../conversations/{conversationID}/messages
func (h *ConversationHandler) HandleCreateMessage(w http.ResponseWriter, r *http.Request) {
	conversationID, err := h.parseConversationID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	req, err := validation.DecodeAndValidate[CreateMessageRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	message, err := h.messageService.CreateMessage(r.Context(), ports.CreateMessageParams{
		ConversationID: conversationID,
		Content:        req.Content,
		IsFromBusiness: req.IsFromBusiness,
	})
	if err != nil && message == nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	if err != nil {
		// The message is stored and broadcast; only the automation pass
		// failed.
		h.logger.Error("automation evaluation failed after message create",
			"message_id", message.ID,
			"error", err,
		)
	}

	WriteCreated(w, toMessageDTO(message))
}

// HandleMarkRead handles POST .../conversations/{conversationID}/read
func (h *ConversationHandler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	conversationID, err := h.parseConversationID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := h.messageService.MarkConversationRead(r.Context(), conversationID); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteNoContent(w)
}

func (h *ConversationHandler) parseConversationID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "conversationID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewBadRequestError(err, "Invalid conversation ID")
	}
	return id, nil
}
