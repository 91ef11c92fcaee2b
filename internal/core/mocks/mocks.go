package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/lorrc/home-services-backend/internal/core/domain"
	"github.com/lorrc/home-services-backend/internal/core/ports"
)

// MockBusinessRepository is a mock implementation of ports.BusinessRepository
type MockBusinessRepository struct {
	mock.Mock
}

func NewMockBusinessRepository() *MockBusinessRepository {
	return &MockBusinessRepository{}
}

func (m *MockBusinessRepository) Create(ctx context.Context, business *domain.Business) (*domain.Business, error) {
	args := m.Called(ctx, business)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Business), args.Error(1)
}

func (m *MockBusinessRepository) GetByID(ctx context.Context, id int64) (*domain.Business, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Business), args.Error(1)
}

func (m *MockBusinessRepository) GetBySlug(ctx context.Context, slug string) (*domain.Business, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Business), args.Error(1)
}

func (m *MockBusinessRepository) Update(ctx context.Context, business *domain.Business) (*domain.Business, error) {
	args := m.Called(ctx, business)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Business), args.Error(1)
}

func (m *MockBusinessRepository) List(ctx context.Context) ([]*domain.Business, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Business), args.Error(1)
}

// MockContactRepository is a mock implementation of ports.ContactRepository
type MockContactRepository struct {
	mock.Mock
}

func NewMockContactRepository() *MockContactRepository {
	return &MockContactRepository{}
}

func (m *MockContactRepository) Create(ctx context.Context, contact *domain.Contact) (*domain.Contact, error) {
	args := m.Called(ctx, contact)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contact), args.Error(1)
}

func (m *MockContactRepository) GetByID(ctx context.Context, id int64) (*domain.Contact, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contact), args.Error(1)
}

func (m *MockContactRepository) Update(ctx context.Context, contact *domain.Contact) (*domain.Contact, error) {
	args := m.Called(ctx, contact)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contact), args.Error(1)
}

func (m *MockContactRepository) ListByBusiness(ctx context.Context, businessID int64, limit, offset int) ([]*domain.Contact, error) {
	args := m.Called(ctx, businessID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Contact), args.Error(1)
}

// MockConversationRepository is a mock implementation of ports.ConversationRepository
type MockConversationRepository struct {
	mock.Mock
}

func NewMockConversationRepository() *MockConversationRepository {
	return &MockConversationRepository{}
}

func (m *MockConversationRepository) Create(ctx context.Context, conversation *domain.Conversation) (*domain.Conversation, error) {
	args := m.Called(ctx, conversation)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Conversation), args.Error(1)
}

func (m *MockConversationRepository) GetByID(ctx context.Context, id int64) (*domain.Conversation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Conversation), args.Error(1)
}

func (m *MockConversationRepository) ListByBusiness(ctx context.Context, businessID int64) ([]*domain.Conversation, error) {
	args := m.Called(ctx, businessID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Conversation), args.Error(1)
}

func (m *MockConversationRepository) CreateMessage(ctx context.Context, message *domain.Message) (*domain.Message, error) {
	args := m.Called(ctx, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Message), args.Error(1)
}

func (m *MockConversationRepository) ListMessages(ctx context.Context, conversationID int64) ([]*domain.Message, error) {
	args := m.Called(ctx, conversationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Message), args.Error(1)
}

func (m *MockConversationRepository) MarkMessagesRead(ctx context.Context, conversationID int64) error {
	args := m.Called(ctx, conversationID)
	return args.Error(0)
}

// MockJobRepository is a mock implementation of ports.JobRepository
type MockJobRepository struct {
	mock.Mock
}

func NewMockJobRepository() *MockJobRepository {
	return &MockJobRepository{}
}

func (m *MockJobRepository) Create(ctx context.Context, job *domain.Job) (*domain.Job, error) {
	args := m.Called(ctx, job)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Job), args.Error(1)
}

func (m *MockJobRepository) GetByID(ctx context.Context, id int64) (*domain.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Job), args.Error(1)
}

func (m *MockJobRepository) Update(ctx context.Context, job *domain.Job) (*domain.Job, error) {
	args := m.Called(ctx, job)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Job), args.Error(1)
}

func (m *MockJobRepository) ListByBusiness(ctx context.Context, businessID int64, contactID *int64, limit, offset int) ([]*domain.Job, error) {
	args := m.Called(ctx, businessID, contactID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Job), args.Error(1)
}

// MockReviewRepository is a mock implementation of ports.ReviewRepository
type MockReviewRepository struct {
	mock.Mock
}

func NewMockReviewRepository() *MockReviewRepository {
	return &MockReviewRepository{}
}

func (m *MockReviewRepository) Create(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	args := m.Called(ctx, review)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *MockReviewRepository) ListByBusiness(ctx context.Context, businessID int64) ([]*domain.Review, error) {
	args := m.Called(ctx, businessID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Review), args.Error(1)
}

// MockAutomationRepository is a mock implementation of ports.AutomationRepository
type MockAutomationRepository struct {
	mock.Mock
}

func NewMockAutomationRepository() *MockAutomationRepository {
	return &MockAutomationRepository{}
}

func (m *MockAutomationRepository) Create(ctx context.Context, automation *domain.Automation) (*domain.Automation, error) {
	args := m.Called(ctx, automation)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Automation), args.Error(1)
}

func (m *MockAutomationRepository) GetByID(ctx context.Context, id int64) (*domain.Automation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Automation), args.Error(1)
}

func (m *MockAutomationRepository) Update(ctx context.Context, automation *domain.Automation) (*domain.Automation, error) {
	args := m.Called(ctx, automation)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Automation), args.Error(1)
}

func (m *MockAutomationRepository) ListByBusiness(ctx context.Context, businessID int64) ([]*domain.Automation, error) {
	args := m.Called(ctx, businessID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Automation), args.Error(1)
}

// MockDemoTokenRepository is a mock implementation of ports.DemoTokenRepository
type MockDemoTokenRepository struct {
	mock.Mock
}

func NewMockDemoTokenRepository() *MockDemoTokenRepository {
	return &MockDemoTokenRepository{}
}

func (m *MockDemoTokenRepository) Create(ctx context.Context, token *domain.DemoToken) (*domain.DemoToken, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DemoToken), args.Error(1)
}

func (m *MockDemoTokenRepository) GetByToken(ctx context.Context, token string) (*domain.DemoToken, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DemoToken), args.Error(1)
}

// MockStatsRepository is a mock implementation of ports.StatsRepository
type MockStatsRepository struct {
	mock.Mock
}

func NewMockStatsRepository() *MockStatsRepository {
	return &MockStatsRepository{}
}

func (m *MockStatsRepository) GetBusinessStats(ctx context.Context, businessID int64) (domain.BusinessStats, error) {
	args := m.Called(ctx, businessID)
	return args.Get(0).(domain.BusinessStats), args.Error(1)
}

// MockEventBroadcaster is a mock implementation of ports.EventBroadcaster
type MockEventBroadcaster struct {
	mock.Mock
}

func NewMockEventBroadcaster() *MockEventBroadcaster {
	return &MockEventBroadcaster{}
}

func (m *MockEventBroadcaster) Broadcast(event domain.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

// MockMessageSender is a mock implementation of ports.MessageSender
type MockMessageSender struct {
	mock.Mock
}

func NewMockMessageSender() *MockMessageSender {
	return &MockMessageSender{}
}

func (m *MockMessageSender) Send(ctx context.Context, businessID int64, to, body string) error {
	args := m.Called(ctx, businessID, to, body)
	return args.Error(0)
}

// MockEmailSender is a mock implementation of ports.EmailSender
type MockEmailSender struct {
	mock.Mock
}

func NewMockEmailSender() *MockEmailSender {
	return &MockEmailSender{}
}

func (m *MockEmailSender) Send(ctx context.Context, businessID int64, to, subject, body string) error {
	args := m.Called(ctx, businessID, to, subject, body)
	return args.Error(0)
}

// MockActionHandler is a mock implementation of ports.ActionHandler
type MockActionHandler struct {
	mock.Mock
}

func NewMockActionHandler() *MockActionHandler {
	return &MockActionHandler{}
}

func (m *MockActionHandler) Execute(ctx context.Context, rule *domain.Automation, action domain.Action, trigCtx domain.TriggerContext) error {
	args := m.Called(ctx, rule, action, trigCtx)
	return args.Error(0)
}

// MockAutomationService is a mock implementation of ports.AutomationService
type MockAutomationService struct {
	mock.Mock
}

func NewMockAutomationService() *MockAutomationService {
	return &MockAutomationService{}
}

func (m *MockAutomationService) EvaluateAndFire(ctx context.Context, businessID int64, trigger domain.TriggerType, trigCtx domain.TriggerContext) error {
	args := m.Called(ctx, businessID, trigger, trigCtx)
	return args.Error(0)
}

func (m *MockAutomationService) CreateAutomation(ctx context.Context, params domain.AutomationParams) (*domain.Automation, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Automation), args.Error(1)
}

func (m *MockAutomationService) UpdateAutomation(ctx context.Context, params ports.UpdateAutomationParams) (*domain.Automation, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Automation), args.Error(1)
}

func (m *MockAutomationService) ListAutomations(ctx context.Context, businessID int64) ([]*domain.Automation, error) {
	args := m.Called(ctx, businessID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Automation), args.Error(1)
}
