package ports

import (
	"context"
	"time"

	"github.com/lorrc/home-services-backend/internal/core/domain"
)

// EventBroadcaster defines the port for pushing real-time events to
// subscribed connections. Delivery is fire-and-forget: implementations never
// surface per-connection send failures to the caller.
type EventBroadcaster interface {
	Broadcast(event domain.Event) error
}

// MessageSender defines the port for outbound customer messaging (SMS and
// friends). No real provider integration exists yet; the adapter decides what
// "sending" means.
type MessageSender interface {
	Send(ctx context.Context, businessID int64, to, body string) error
}

// EmailSender defines the port for outbound email. Like MessageSender, the
// adapter decides what "sending" means until a real provider is wired.
type EmailSender interface {
	Send(ctx context.Context, businessID int64, to, subject, body string) error
}

// ConditionMatcher decides whether a rule's conditions hold for a trigger
// context. The engine's control flow does not depend on the matching
// strategy.
type ConditionMatcher interface {
	Matches(conditions map[string]any, context domain.TriggerContext) bool
}

// ActionHandler executes one automation action type.
type ActionHandler interface {
	Execute(ctx context.Context, rule *domain.Automation, action domain.Action, trigCtx domain.TriggerContext) error
}

// AutomationService evaluates trigger+condition rules and manages the rule
// set.
type AutomationService interface {
	EvaluateAndFire(ctx context.Context, businessID int64, trigger domain.TriggerType, trigCtx domain.TriggerContext) error
	CreateAutomation(ctx context.Context, params domain.AutomationParams) (*domain.Automation, error)
	UpdateAutomation(ctx context.Context, params UpdateAutomationParams) (*domain.Automation, error)
	ListAutomations(ctx context.Context, businessID int64) ([]*domain.Automation, error)
}

// UpdateAutomationParams is the input for editing an automation rule. Nil
// fields are left untouched.
type UpdateAutomationParams struct {
	ID          int64
	Name        *string
	Description *string
	Trigger     *domain.TriggerType
	Conditions  map[string]any
	Actions     []domain.Action
	IsActive    *bool
}

// UpdateJobParams is the input for editing a job. Nil fields are left
// untouched.
type UpdateJobParams struct {
	ID           int64
	Title        *string
	Description  *string
	Status       *domain.JobStatus
	TechnicianID *int64
	Notes        *string
	Price        *string
}

// JobService manages scheduled work and drives job-status automations.
type JobService interface {
	CreateJob(ctx context.Context, params domain.JobParams) (*domain.Job, error)
	GetJob(ctx context.Context, id int64) (*domain.Job, error)
	UpdateJob(ctx context.Context, params UpdateJobParams) (*domain.Job, error)
	ListJobs(ctx context.Context, businessID int64, contactID *int64, limit, offset int) ([]*domain.Job, error)
}

// CreateMessageParams is the input for posting a chat message.
type CreateMessageParams struct {
	ConversationID int64
	Content        string
	IsFromBusiness bool
}

// MessageService manages conversations and the chat broadcast path.
type MessageService interface {
	CreateConversation(ctx context.Context, businessID int64, contactID *int64) (*domain.Conversation, error)
	ListConversations(ctx context.Context, businessID int64) ([]*domain.Conversation, error)
	CreateMessage(ctx context.Context, params CreateMessageParams) (*domain.Message, error)
	ListMessages(ctx context.Context, conversationID int64) ([]*domain.Message, error)
	MarkConversationRead(ctx context.Context, conversationID int64) error
}

// ContactService manages customer records and the new-customer trigger.
type ContactService interface {
	CreateContact(ctx context.Context, contact *domain.Contact) (*domain.Contact, error)
	UpdateContact(ctx context.Context, contact *domain.Contact) (*domain.Contact, error)
	ListContacts(ctx context.Context, businessID int64, limit, offset int) ([]*domain.Contact, error)
}

// ReviewService manages discovered reviews.
type ReviewService interface {
	CreateReview(ctx context.Context, review *domain.Review) (*domain.Review, error)
	ListReviews(ctx context.Context, businessID int64) ([]*domain.Review, error)
}

// BusinessService manages tenants and their dashboard stats.
type BusinessService interface {
	CreateBusiness(ctx context.Context, business *domain.Business) (*domain.Business, error)
	GetBusiness(ctx context.Context, id int64) (*domain.Business, error)
	GetBusinessBySlug(ctx context.Context, slug string) (*domain.Business, error)
	UpdateBusiness(ctx context.Context, business *domain.Business) (*domain.Business, error)
	ListBusinesses(ctx context.Context) ([]*domain.Business, error)
	GetStats(ctx context.Context, businessID int64) (domain.BusinessStats, error)
}

// DemoAccess is the result of validating a demo token.
type DemoAccess struct {
	Business    *domain.Business
	Token       string
	AccessToken string
	ExpiresAt   time.Time
}

// DemoTokenService issues and validates demo access tokens.
type DemoTokenService interface {
	IssueToken(ctx context.Context, businessID int64) (*domain.DemoToken, error)
	ValidateToken(ctx context.Context, token string) (*DemoAccess, error)
}
