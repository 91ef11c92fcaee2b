package ports

import (
	"context"

	"github.com/lorrc/home-services-backend/internal/core/domain"
)

// BusinessRepository handles tenant persistence.
type BusinessRepository interface {
	Create(ctx context.Context, business *domain.Business) (*domain.Business, error)
	GetByID(ctx context.Context, id int64) (*domain.Business, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Business, error)
	Update(ctx context.Context, business *domain.Business) (*domain.Business, error)
	List(ctx context.Context) ([]*domain.Business, error)
}

// ContactRepository handles customer records.
type ContactRepository interface {
	Create(ctx context.Context, contact *domain.Contact) (*domain.Contact, error)
	GetByID(ctx context.Context, id int64) (*domain.Contact, error)
	Update(ctx context.Context, contact *domain.Contact) (*domain.Contact, error)
	ListByBusiness(ctx context.Context, businessID int64, limit, offset int) ([]*domain.Contact, error)
}

// ConversationRepository handles chat threads and their messages.
type ConversationRepository interface {
	Create(ctx context.Context, conversation *domain.Conversation) (*domain.Conversation, error)
	GetByID(ctx context.Context, id int64) (*domain.Conversation, error)
	ListByBusiness(ctx context.Context, businessID int64) ([]*domain.Conversation, error)

	CreateMessage(ctx context.Context, message *domain.Message) (*domain.Message, error)
	ListMessages(ctx context.Context, conversationID int64) ([]*domain.Message, error)
	MarkMessagesRead(ctx context.Context, conversationID int64) error
}

// JobRepository handles scheduled work.
type JobRepository interface {
	Create(ctx context.Context, job *domain.Job) (*domain.Job, error)
	GetByID(ctx context.Context, id int64) (*domain.Job, error)
	Update(ctx context.Context, job *domain.Job) (*domain.Job, error)
	ListByBusiness(ctx context.Context, businessID int64, contactID *int64, limit, offset int) ([]*domain.Job, error)
}

// ReviewRepository handles discovered reviews.
type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) (*domain.Review, error)
	ListByBusiness(ctx context.Context, businessID int64) ([]*domain.Review, error)
}

// AutomationRepository handles automation rule storage. The engine only ever
// reads; writes come from the management API.
type AutomationRepository interface {
	Create(ctx context.Context, automation *domain.Automation) (*domain.Automation, error)
	GetByID(ctx context.Context, id int64) (*domain.Automation, error)
	Update(ctx context.Context, automation *domain.Automation) (*domain.Automation, error)
	ListByBusiness(ctx context.Context, businessID int64) ([]*domain.Automation, error)
}

// DemoTokenRepository handles demo access tokens.
type DemoTokenRepository interface {
	Create(ctx context.Context, token *domain.DemoToken) (*domain.DemoToken, error)
	GetByToken(ctx context.Context, token string) (*domain.DemoToken, error)
}

// StatsRepository aggregates the dashboard snapshot for one business.
type StatsRepository interface {
	GetBusinessStats(ctx context.Context, businessID int64) (domain.BusinessStats, error)
}
