package domain

import (
	"time"

	apperrors "github.com/lorrc/home-services-backend/internal/core/errors"
)

// TriggerType names a domain occurrence that can activate automation rules.
type TriggerType string

const (
	TriggerJobCompleted         TriggerType = "job_completed"
	TriggerNewCustomer          TriggerType = "new_customer"
	TriggerNewMessage           TriggerType = "new_message"
	TriggerAppointmentScheduled TriggerType = "appointment_scheduled"
	TriggerCustom               TriggerType = "custom"
)

// IsValid reports whether the trigger belongs to the taxonomy.
func (t TriggerType) IsValid() bool {
	switch t {
	case TriggerJobCompleted, TriggerNewCustomer, TriggerNewMessage,
		TriggerAppointmentScheduled, TriggerCustom:
		return true
	}
	return false
}

// ActionType names a side effect an automation rule can perform.
type ActionType string

const (
	ActionSendSMS     ActionType = "send_sms"
	ActionSendEmail   ActionType = "send_email"
	ActionNotifyStaff ActionType = "notify_staff"
)

// Action is one typed, parameterized step of a rule. Params may contain
// {{variable}} placeholders interpolated from the trigger context.
type Action struct {
	Type   ActionType        `json:"type"`
	Params map[string]string `json:"params"`
}

// Automation is a trigger+conditions+actions rule owned by one business.
// The engine treats it as read-only; lifecycle is the management API's job.
type Automation struct {
	ID          int64          `json:"id"`
	BusinessID  int64          `json:"businessId"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Trigger     TriggerType    `json:"trigger"`
	Conditions  map[string]any `json:"conditions"`
	Actions     []Action       `json:"actions"`
	IsActive    bool           `json:"isActive"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   *time.Time     `json:"updatedAt,omitempty"`
}

// AutomationParams is the input for creating an automation rule.
type AutomationParams struct {
	BusinessID  int64
	Name        string
	Description string
	Trigger     TriggerType
	Conditions  map[string]any
	Actions     []Action
	IsActive    bool
}

// NewAutomation validates the params and builds a rule. A rule must carry at
// least one action to be valid.
func NewAutomation(params AutomationParams) (*Automation, error) {
	if params.Name == "" {
		return nil, apperrors.ErrAutomationNameRequired
	}
	if !params.Trigger.IsValid() {
		return nil, apperrors.ErrInvalidTrigger
	}
	if len(params.Actions) == 0 {
		return nil, apperrors.ErrAutomationNoActions
	}

	conditions := params.Conditions
	if conditions == nil {
		conditions = map[string]any{}
	}

	return &Automation{
		BusinessID:  params.BusinessID,
		Name:        params.Name,
		Description: params.Description,
		Trigger:     params.Trigger,
		Conditions:  conditions,
		Actions:     params.Actions,
		IsActive:    params.IsActive,
	}, nil
}

// TriggerContext is the key/value payload a domain event carries into rule
// evaluation. Conditions match against it; action params interpolate from it.
type TriggerContext map[string]any
