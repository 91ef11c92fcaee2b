package domain_test

import (
	"testing"

	"github.com/lorrc/home-services-backend/internal/core/domain"
	apperrors "github.com/lorrc/home-services-backend/internal/core/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTriggerType_IsValid(t *testing.T) {
	tests := []struct {
		name    string
		trigger domain.TriggerType
		want    bool
	}{
		{"job_completed is valid", domain.TriggerJobCompleted, true},
		{"new_customer is valid", domain.TriggerNewCustomer, true},
		{"new_message is valid", domain.TriggerNewMessage, true},
		{"appointment_scheduled is valid", domain.TriggerAppointmentScheduled, true},
		{"custom is valid", domain.TriggerCustom, true},
		{"empty is invalid", domain.TriggerType(""), false},
		{"job_started is invalid", domain.TriggerType("job_started"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.trigger.IsValid())
		})
	}
}

func TestNewAutomation(t *testing.T) {
	validParams := func() domain.AutomationParams {
		return domain.AutomationParams{
			BusinessID: 1,
			Name:       "Thank you text",
			Trigger:    domain.TriggerJobCompleted,
			Actions: []domain.Action{
				{Type: domain.ActionSendSMS, Params: map[string]string{"to": "{{contactPhone}}"}},
			},
			IsActive: true,
		}
	}

	t.Run("builds a rule with defaulted conditions", func(t *testing.T) {
		rule, err := domain.NewAutomation(validParams())
		require.NoError(t, err)
		assert.NotNil(t, rule.Conditions)
		assert.Empty(t, rule.Conditions)
		assert.Len(t, rule.Actions, 1)
	})

	t.Run("keeps provided conditions", func(t *testing.T) {
		params := validParams()
		params.Conditions = map[string]any{"jobType": "repair"}

		rule, err := domain.NewAutomation(params)
		require.NoError(t, err)
		assert.Equal(t, "repair", rule.Conditions["jobType"])
	})

	t.Run("rejects missing name", func(t *testing.T) {
		params := validParams()
		params.Name = ""

		_, err := domain.NewAutomation(params)
		assert.ErrorIs(t, err, apperrors.ErrAutomationNameRequired)
	})

	t.Run("rejects unknown trigger", func(t *testing.T) {
		params := validParams()
		params.Trigger = domain.TriggerType("on_invoice")

		_, err := domain.NewAutomation(params)
		assert.ErrorIs(t, err, apperrors.ErrInvalidTrigger)
	})

	t.Run("rejects empty action list", func(t *testing.T) {
		params := validParams()
		params.Actions = nil

		_, err := domain.NewAutomation(params)
		assert.ErrorIs(t, err, apperrors.ErrAutomationNoActions)
	})
}
