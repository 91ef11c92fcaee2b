package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lorrc/home-services-backend/internal/core/domain"
	apperrors "github.com/lorrc/home-services-backend/internal/core/errors"
	"github.com/lorrc/home-services-backend/internal/core/ports"
)

// AutomationService evaluates trigger+condition rules against domain events
// and executes matching actions. Action dispatch goes through a registry so
// adding an action type is a registration, not a new branch.
type AutomationService struct {
	automationRepo ports.AutomationRepository
	matcher        ports.ConditionMatcher
	broadcaster    ports.EventBroadcaster
	handlers       map[domain.ActionType]ports.ActionHandler
	fetchTimeout   time.Duration
	logger         *slog.Logger
}

var _ ports.AutomationService = (*AutomationService)(nil)

// NewAutomationService creates a new automation engine. Rule fetches run
// under fetchTimeout; zero disables the deadline.
func NewAutomationService(
	automationRepo ports.AutomationRepository,
	matcher ports.ConditionMatcher,
	broadcaster ports.EventBroadcaster,
	fetchTimeout time.Duration,
	logger *slog.Logger,
) *AutomationService {
	return &AutomationService{
		automationRepo: automationRepo,
		matcher:        matcher,
		broadcaster:    broadcaster,
		handlers:       make(map[domain.ActionType]ports.ActionHandler),
		fetchTimeout:   fetchTimeout,
		logger:         logger.With("component", "automation_engine"),
	}
}

// RegisterHandler binds an action type to its handler. Later registrations
// replace earlier ones.
func (s *AutomationService) RegisterHandler(actionType domain.ActionType, handler ports.ActionHandler) {
	s.handlers[actionType] = handler
}

// EvaluateAndFire finds all active rules for the business whose trigger
// matches and whose conditions hold, then executes each rule's actions in
// array order. Rules are evaluated in storage order; actions of one rule run
// to completion before the next rule starts.
//
// A rule-fetch failure aborts the whole evaluation and is returned to the
// caller. Action handler errors and unknown action types are logged and
// skipped; an AUTOMATION_TRIGGERED event is still broadcast for every
// dispatched action.
func (s *AutomationService) EvaluateAndFire(
	ctx context.Context,
	businessID int64,
	trigger domain.TriggerType,
	trigCtx domain.TriggerContext,
) error {
	fetchCtx := ctx
	if s.fetchTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, s.fetchTimeout)
		defer cancel()
	}

	rules, err := s.automationRepo.ListByBusiness(fetchCtx, businessID)
	if err != nil {
		return fmt.Errorf("fetching automation rules for business %d: %w", businessID, err)
	}

	for _, rule := range rules {
		if !rule.IsActive || rule.Trigger != trigger {
			continue
		}
		if !s.matcher.Matches(rule.Conditions, trigCtx) {
			continue
		}

		s.logger.Info("automation rule matched",
			"business_id", businessID,
			"automation_id", rule.ID,
			"trigger", trigger,
			"actions", len(rule.Actions),
		)

		for _, action := range rule.Actions {
			s.dispatchAction(ctx, rule, action, trigCtx)
		}
	}

	return nil
}

// dispatchAction executes one action and broadcasts AUTOMATION_TRIGGERED
// regardless of the handler outcome.
func (s *AutomationService) dispatchAction(
	ctx context.Context,
	rule *domain.Automation,
	action domain.Action,
	trigCtx domain.TriggerContext,
) {
	handler, ok := s.handlers[action.Type]
	if !ok {
		s.logger.Warn("unknown automation action type, skipping",
			"automation_id", rule.ID,
			"action_type", action.Type,
		)
		return
	}

	if err := handler.Execute(ctx, rule, action, trigCtx); err != nil {
		s.logger.Error("automation action failed",
			"automation_id", rule.ID,
			"action_type", action.Type,
			"error", err,
		)
	}

	_ = s.broadcaster.Broadcast(domain.NewAutomationTriggeredEvent(rule, action, trigCtx))
}

// CreateAutomation validates and persists a new rule.
func (s *AutomationService) CreateAutomation(ctx context.Context, params domain.AutomationParams) (*domain.Automation, error) {
	rule, err := domain.NewAutomation(params)
	if err != nil {
		return nil, err
	}
	return s.automationRepo.Create(ctx, rule)
}

// UpdateAutomation applies a partial edit to an existing rule.
func (s *AutomationService) UpdateAutomation(ctx context.Context, params ports.UpdateAutomationParams) (*domain.Automation, error) {
	rule, err := s.automationRepo.GetByID(ctx, params.ID)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		if *params.Name == "" {
			return nil, apperrors.ErrAutomationNameRequired
		}
		rule.Name = *params.Name
	}
	if params.Description != nil {
		rule.Description = *params.Description
	}
	if params.Trigger != nil {
		if !params.Trigger.IsValid() {
			return nil, apperrors.ErrInvalidTrigger
		}
		rule.Trigger = *params.Trigger
	}
	if params.Conditions != nil {
		rule.Conditions = params.Conditions
	}
	if params.Actions != nil {
		if len(params.Actions) == 0 {
			return nil, apperrors.ErrAutomationNoActions
		}
		rule.Actions = params.Actions
	}
	if params.IsActive != nil {
		rule.IsActive = *params.IsActive
	}

	return s.automationRepo.Update(ctx, rule)
}

// ListAutomations returns all rules for a business.
func (s *AutomationService) ListAutomations(ctx context.Context, businessID int64) ([]*domain.Automation, error) {
	return s.automationRepo.ListByBusiness(ctx, businessID)
}

// SendSMSHandler executes send_sms actions. It interpolates {{variable}}
// placeholders in the action params from the trigger context and hands the
// rendered message to the outbound sender.
type SendSMSHandler struct {
	sender ports.MessageSender
	logger *slog.Logger
}

var _ ports.ActionHandler = (*SendSMSHandler)(nil)

// NewSendSMSHandler creates the send_sms action handler.
func NewSendSMSHandler(sender ports.MessageSender, logger *slog.Logger) *SendSMSHandler {
	return &SendSMSHandler{
		sender: sender,
		logger: logger.With("component", "send_sms_action"),
	}
}

// Execute renders and sends the SMS described by the action params.
func (h *SendSMSHandler) Execute(
	ctx context.Context,
	rule *domain.Automation,
	action domain.Action,
	trigCtx domain.TriggerContext,
) error {
	to := Interpolate(action.Params["to"], trigCtx)
	body := Interpolate(action.Params["message"], trigCtx)

	if to == "" {
		return fmt.Errorf("send_sms action of automation %d has no recipient", rule.ID)
	}

	return h.sender.Send(ctx, rule.BusinessID, to, body)
}

// SendEmailHandler executes send_email actions. Params follow the same
// {{variable}} interpolation rules as send_sms.
type SendEmailHandler struct {
	sender ports.EmailSender
	logger *slog.Logger
}

var _ ports.ActionHandler = (*SendEmailHandler)(nil)

// NewSendEmailHandler creates the send_email action handler.
func NewSendEmailHandler(sender ports.EmailSender, logger *slog.Logger) *SendEmailHandler {
	return &SendEmailHandler{
		sender: sender,
		logger: logger.With("component", "send_email_action"),
	}
}

// Execute renders and sends the email described by the action params.
func (h *SendEmailHandler) Execute(
	ctx context.Context,
	rule *domain.Automation,
	action domain.Action,
	trigCtx domain.TriggerContext,
) error {
	to := Interpolate(action.Params["to"], trigCtx)
	subject := Interpolate(action.Params["subject"], trigCtx)
	body := Interpolate(action.Params["message"], trigCtx)

	if to == "" {
		return fmt.Errorf("send_email action of automation %d has no recipient", rule.ID)
	}

	return h.sender.Send(ctx, rule.BusinessID, to, subject, body)
}

// NotifyStaffHandler executes notify_staff actions. The operator-facing
// delivery rides on the AUTOMATION_TRIGGERED broadcast the engine emits after
// dispatch, so the handler only renders and records the note.
type NotifyStaffHandler struct {
	logger *slog.Logger
}

var _ ports.ActionHandler = (*NotifyStaffHandler)(nil)

// NewNotifyStaffHandler creates the notify_staff action handler.
func NewNotifyStaffHandler(logger *slog.Logger) *NotifyStaffHandler {
	return &NotifyStaffHandler{logger: logger.With("component", "notify_staff_action")}
}

// Execute renders the staff note into the trigger context so the following
// AUTOMATION_TRIGGERED broadcast carries it.
func (h *NotifyStaffHandler) Execute(
	_ context.Context,
	rule *domain.Automation,
	action domain.Action,
	trigCtx domain.TriggerContext,
) error {
	note := Interpolate(action.Params["message"], trigCtx)
	trigCtx["staffNote"] = note

	h.logger.Info("staff notification queued",
		"business_id", rule.BusinessID,
		"automation_id", rule.ID,
		"note", note,
	)
	return nil
}
