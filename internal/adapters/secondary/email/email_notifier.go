package email

import (
	"context"
	"log/slog"

	"github.com/lorrc/home-services-backend/internal/core/ports"
)

// MockSMTPNotifier is a secondary adapter that mocks sending emails.
// It implements the ports.EmailSender interface.
type MockSMTPNotifier struct {
	logger *slog.Logger
}

// NewMockSMTPNotifier creates a new mock email sender.
func NewMockSMTPNotifier(logger *slog.Logger) ports.EmailSender {
	return &MockSMTPNotifier{
		logger: logger.With("component", "email_notifier"),
	}
}

// Send logs the mock email instead of talking to an SMTP server.
func (n *MockSMTPNotifier) Send(_ context.Context, businessID int64, to, subject, body string) error {
	n.logger.Info("mock email sent",
		"business_id", businessID,
		"to", to,
		"subject", subject,
		"body", body,
	)
	return nil
}
