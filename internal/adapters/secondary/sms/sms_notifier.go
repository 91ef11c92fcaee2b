package sms

import (
	"context"
	"log/slog"

	"github.com/lorrc/home-services-backend/internal/core/ports"
)

// MockSMSNotifier is a secondary adapter that mocks sending SMS messages.
// It implements the ports.MessageSender interface.
type MockSMSNotifier struct {
	logger *slog.Logger
}

// NewMockSMSNotifier creates a new mock SMS sender.
func NewMockSMSNotifier(logger *slog.Logger) ports.MessageSender {
	return &MockSMSNotifier{
		logger: logger.With("component", "sms_notifier"),
	}
}

// Send logs the message to the console instead of hitting a provider.
func (n *MockSMSNotifier) Send(_ context.Context, businessID int64, to, body string) error {
	n.logger.Info("mock sms sent",
		"business_id", businessID,
		"to", to,
		"body", body,
	)
	return nil
}
