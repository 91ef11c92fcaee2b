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

// ContactHandler handles HTTP requests for customer records
type ContactHandler struct {
	contactService ports.ContactService
	errorHandler   *ErrorHandler
	logger         *slog.Logger
}

// NewContactHandler creates a new contact handler
func NewContactHandler(contactService ports.ContactService, errorHandler *ErrorHandler, logger *slog.Logger) *ContactHandler {
	return &ContactHandler{
		contactService: contactService,
		errorHandler:   errorHandler,
		logger:         logger.With("handler", "contact"),
	}
}

// Router sets up a new chi Router for all contact routes.
func (h *ContactHandler) Router() http.Handler {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

// RegisterRoutes sets up the routing for all contact endpoints.
func (h *ContactHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleListContacts)
	r.Post("/", h.HandleCreateContact)
	r.Put("/{contactID}", h.HandleUpdateContact)
}

// --- Request/Response DTOs ---

// ContactRequest defines the expected JSON body for creating or updating a
// contact
type ContactRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	Zip       string `json:"zip"`
	Notes     string `json:"notes"`
}

// Validate validates the contact request
func (r *ContactRequest) Validate() error {
	v := validation.NewValidator()

	v.Required("firstName", r.FirstName).
		MaxLength("firstName", r.FirstName, 100)

	v.MaxLength("lastName", r.LastName, 100)

	if r.Email != "" {
		v.Email("email", r.Email)
	}

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

func (r *ContactRequest) toDomain(businessID int64) *domain.Contact {
	return &domain.Contact{
		BusinessID: businessID,
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		Email:      r.Email,
		Phone:      r.Phone,
		Address:    r.Address,
		City:       r.City,
		State:      r.State,
		Zip:        r.Zip,
		Notes:      r.Notes,
	}
}

// ContactDTO defines the JSON response for contacts.
type ContactDTO struct {
	ID         int64   `json:"id"`
	BusinessID int64   `json:"businessId"`
	FirstName  string  `json:"firstName"`
	LastName   string  `json:"lastName,omitempty"`
	Email      string  `json:"email,omitempty"`
	Phone      string  `json:"phone,omitempty"`
	Address    string  `json:"address,omitempty"`
	City       string  `json:"city,omitempty"`
	State      string  `json:"state,omitempty"`
	Zip        string  `json:"zip,omitempty"`
	Notes      string  `json:"notes,omitempty"`
	CreatedAt  string  `json:"createdAt"`
	UpdatedAt  *string `json:"updatedAt,omitempty"`
}

func toContactDTO(contact *domain.Contact) ContactDTO {
	var updatedAt *string
	if contact.UpdatedAt != nil {
		value := contact.UpdatedAt.Format(time.RFC3339)
		updatedAt = &value
	}

	return ContactDTO{
		ID:         contact.ID,
		BusinessID: contact.BusinessID,
		FirstName:  contact.FirstName,
		LastName:   contact.LastName,
		Email:      contact.Email,
		Phone:      contact.Phone,
		Address:    contact.Address,
		City:       contact.City,
		State:      contact.State,
		Zip:        contact.Zip,
		Notes:      contact.Notes,
		CreatedAt:  contact.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  updatedAt,
	}
}

func toContactDTOs(contacts []*domain.Contact) []ContactDTO {
	response := make([]ContactDTO, 0, len(contacts))
	for _, contact := range contacts {
		response = append(response, toContactDTO(contact))
	}
	return response
}

// --- Handlers ---

// HandleListContacts handles GET /businesses/{businessID}/contacts
func (h *ContactHandler) HandleListContacts(w http.ResponseWriter, r *http.Request) {
	businessID, err := ParseBusinessID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	page := validation.ParsePagination(r, maxPageSize)

	contacts, err := h.contactService.ListContacts(r.Context(), businessID, page.Limit, page.Offset)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteList(w, toContactDTOs(contacts))
}

// HandleCreateContact handles POST /businesses/{businessID}/contacts
func (h *ContactHandler) HandleCreateContact(w http.ResponseWriter, r *http.Request) {
	businessID, err := ParseBusinessID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	req, err := validation.DecodeAndValidate[ContactRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	contact, err := h.contactService.CreateContact(r.Context(), req.toDomain(businessID))
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("contact created",
		"contact_id", contact.ID,
		"business_id", businessID,
	)

	WriteCreated(w, toContactDTO(contact))
}

// HandleUpdateContact handles PUT /businesses/{businessID}/contacts/{contactID}
func (h *ContactHandler) HandleUpdateContact(w http.ResponseWriter, r *http.Request) {
	businessID, err := ParseBusinessID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	contactID, err := strconv.ParseInt(chi.URLParam(r, "contactID"), 10, 64)
	if err != nil || contactID <= 0 {
		h.errorHandler.Handle(w, r, apperrors.NewBadRequestError(err, "Invalid contact ID"))
		return
	}

	req, err := validation.DecodeAndValidate[ContactRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	contact := req.toDomain(businessID)
	contact.ID = contactID

	updated, err := h.contactService.UpdateContact(r.Context(), contact)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, toContactDTO(updated))
}
