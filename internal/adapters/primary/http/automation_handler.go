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

// AutomationHandler handles HTTP requests for automation rules
type AutomationHandler struct {
	automationService ports.AutomationService
	errorHandler      *ErrorHandler
	logger            *slog.Logger
}

// NewAutomationHandler creates a new automation handler
func NewAutomationHandler(automationService ports.AutomationService, errorHandler *ErrorHandler, logger *slog.Logger) *AutomationHandler {
	return &AutomationHandler{
		automationService: automationService,
		errorHandler:      errorHandler,
		logger:            logger.With("handler", "automation"),
	}
}

// Router sets up a new chi Router for all automation routes.
func (h *AutomationHandler) Router() http.Handler {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

// RegisterRoutes sets up the routing for all automation endpoints.
func (h *AutomationHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleListAutomations)
	r.Post("/", h.HandleCreateAutomation)
	r.Patch("/{automationID}", h.HandleUpdateAutomation)
}

// --- Request/Response DTOs ---

// ActionDTO is one step of a rule in requests and responses.
type ActionDTO struct {
	Type   string            `json:"type"`
	Params map[string]string `json:"params"`
}

// CreateAutomationRequest defines the expected JSON body for creating a rule
type CreateAutomationRequest struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Trigger     string         `json:"trigger"`
	Conditions  map[string]any `json:"conditions"`
	Actions     []ActionDTO    `json:"actions"`
	IsActive    *bool          `json:"isActive"`
}

// Validate validates the create automation request
func (r *CreateAutomationRequest) Validate() error {
	v := validation.NewValidator()

	v.Required("name", r.Name).
		MaxLength("name", r.Name, 200)

	v.Required("trigger", r.Trigger).
		OneOf("trigger", r.Trigger, []string{
			"job_completed", "new_customer", "new_message",
			"appointment_scheduled", "custom",
		})

	v.Custom("actions", len(r.Actions) > 0, "At least one action is required")

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// UpdateAutomationRequest defines the expected JSON body for partial rule
// updates. Absent fields are left untouched.
type UpdateAutomationRequest struct {
	Name        *string        `json:"name"`
	Description *string        `json:"description"`
	Trigger     *string        `json:"trigger"`
	Conditions  map[string]any `json:"conditions"`
	Actions     []ActionDTO    `json:"actions"`
	IsActive    *bool          `json:"isActive"`
}

// Validate validates the update automation request
func (r *UpdateAutomationRequest) Validate() error {
	v := validation.NewValidator()

	if r.Trigger != nil {
		v.OneOf("trigger", *r.Trigger, []string{
			"job_completed", "new_customer", "new_message",
			"appointment_scheduled", "custom",
		})
	}

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// AutomationDTO defines the JSON response for automation rules.
type AutomationDTO struct {
	ID          int64          `json:"id"`
	BusinessID  int64          `json:"businessId"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Trigger     string         `json:"trigger"`
	Conditions  map[string]any `json:"conditions"`
	Actions     []ActionDTO    `json:"actions"`
	IsActive    bool           `json:"isActive"`
	CreatedAt   string         `json:"createdAt"`
	UpdatedAt   *string        `json:"updatedAt,omitempty"`
}

func toActions(dtos []ActionDTO) []domain.Action {
	actions := make([]domain.Action, 0, len(dtos))
	for _, dto := range dtos {
		actions = append(actions, domain.Action{
			Type:   domain.ActionType(dto.Type),
			Params: dto.Params,
		})
	}
	return actions
}

func toActionDTOs(actions []domain.Action) []ActionDTO {
	dtos := make([]ActionDTO, 0, len(actions))
	for _, action := range actions {
		dtos = append(dtos, ActionDTO{
			Type:   string(action.Type),
			Params: action.Params,
		})
	}
	return dtos
}

func toAutomationDTO(rule *domain.Automation) AutomationDTO {
	var updatedAt *string
	if rule.UpdatedAt != nil {
		value := rule.UpdatedAt.Format(time.RFC3339)
		updatedAt = &value
	}

	return AutomationDTO{
		ID:          rule.ID,
		BusinessID:  rule.BusinessID,
		Name:        rule.Name,
		Description: rule.Description,
		Trigger:     string(rule.Trigger),
		Conditions:  rule.Conditions,
		Actions:     toActionDTOs(rule.Actions),
		IsActive:    rule.IsActive,
		CreatedAt:   rule.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   updatedAt,
	}
}

func toAutomationDTOs(rules []*domain.Automation) []AutomationDTO {
	response := make([]AutomationDTO, 0, len(rules))
	for _, rule := range rules {
		response = append(response, toAutomationDTO(rule))
	}
	return response
}

// --- Handlers ---

// HandleListAutomations handles GET /businesses/{businessID}/automations
func (h *AutomationHandler) HandleListAutomations(w http.ResponseWriter, r *http.Request) {
	businessID, err := ParseBusinessID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	rules, err := h.automationService.ListAutomations(r.Context(), businessID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteList(w, toAutomationDTOs(rules))
}

// HandleCreateAutomation handles POST /businesses/{businessID}/automations
func (h *AutomationHandler) HandleCreateAutomation(w http.ResponseWriter, r *http.Request) {
	businessID, err := ParseBusinessID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	req, err := validation.DecodeAndValidate[CreateAutomationRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	params := domain.AutomationParams{
		BusinessID:  businessID,
		Name:        req.Name,
		Description: req.Description,
		Trigger:     domain.TriggerType(req.Trigger),
		Conditions:  req.Conditions,
		Actions:     toActions(req.Actions),
		IsActive:    isActive,
	}

	rule, err := h.automationService.CreateAutomation(r.Context(), params)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("automation created",
		"automation_id", rule.ID,
		"business_id", businessID,
		"trigger", rule.Trigger,
	)

	WriteCreated(w, toAutomationDTO(rule))
}

// HandleUpdateAutomation handles PATCH /businesses/{businessID}/automations/{automationID}
func (h *AutomationHandler) HandleUpdateAutomation(w http.ResponseWriter, r *http.Request) {
	automationID, err := strconv.ParseInt(chi.URLParam(r, "automationID"), 10, 64)
	if err != nil || automationID <= 0 {
		h.errorHandler.Handle(w, r, apperrors.NewBadRequestError(err, "Invalid automation ID"))
		return
	}

	req, err := validation.DecodeAndValidate[UpdateAutomationRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	params := ports.UpdateAutomationParams{
		ID:          automationID,
		Name:        req.Name,
		Description: req.Description,
		Conditions:  req.Conditions,
		IsActive:    req.IsActive,
	}
	if req.Trigger != nil {
		trigger := domain.TriggerType(*req.Trigger)
		params.Trigger = &trigger
	}
	if req.Actions != nil {
		params.Actions = toActions(req.Actions)
	}

	rule, err := h.automationService.UpdateAutomation(r.Context(), params)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, toAutomationDTO(rule))
}
