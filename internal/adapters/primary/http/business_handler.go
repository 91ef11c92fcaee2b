package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	mw "github.com/lorrc/home-services-backend/internal/adapters/primary/http/middleware"
	"github.com/lorrc/home-services-backend/internal/adapters/primary/validation"
	"github.com/lorrc/home-services-backend/internal/core/domain"
	apperrors "github.com/lorrc/home-services-backend/internal/core/errors"
	"github.com/lorrc/home-services-backend/internal/core/ports"
)

// BusinessHandler handles HTTP requests for businesses
type BusinessHandler struct {
	businessService     ports.BusinessService
	contactHandler      *ContactHandler
	jobHandler          *JobHandler
	reviewHandler       *ReviewHandler
	automationHandler   *AutomationHandler
	conversationHandler *ConversationHandler
	sessionAuth         func(http.Handler) http.Handler
	errorHandler        *ErrorHandler
	logger              *slog.Logger
}

// NewBusinessHandler creates a new business handler
func NewBusinessHandler(
	businessService ports.BusinessService,
	contactHandler *ContactHandler,
	jobHandler *JobHandler,
	reviewHandler *ReviewHandler,
	automationHandler *AutomationHandler,
	conversationHandler *ConversationHandler,
	sessionAuth func(http.Handler) http.Handler,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *BusinessHandler {
	return &BusinessHandler{
		businessService:     businessService,
		contactHandler:      contactHandler,
		jobHandler:          jobHandler,
		reviewHandler:       reviewHandler,
		automationHandler:   automationHandler,
		conversationHandler: conversationHandler,
		sessionAuth:         sessionAuth,
		errorHandler:        errorHandler,
		logger:              logger.With("handler", "business"),
	}
}

// Router sets up a new chi Router for all business-related routes.
func (h *BusinessHandler) Router() http.Handler {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

// RegisterRoutes sets up the routing for all business endpoints.
func (h *BusinessHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleListBusinesses)
	r.Post("/", h.HandleCreateBusiness)
	r.Get("/slug/{slug}", h.HandleGetBusinessBySlug)

	// Routes for a specific business
	r.Route("/{businessID}", func(r chi.Router) {
		r.Get("/", h.HandleGetBusiness)

		// Public surfaces: the demo site and visitor chat widget hit
		// these without a session.
		if h.reviewHandler != nil {
			r.Mount("/reviews", h.reviewHandler.Router())
		}
		if h.conversationHandler != nil {
			r.Mount("/conversations", h.conversationHandler.Router())
		}

		// Dashboard surfaces require a demo session scoped to this
		// business when session auth is configured.
		r.Group(func(r chi.Router) {
			if h.sessionAuth != nil {
				r.Use(h.sessionAuth, h.requireSessionScope)
			}

			r.Put("/", h.HandleUpdateBusiness)
			r.Get("/stats", h.HandleGetStats)

			if h.contactHandler != nil {
				r.Mount("/contacts", h.contactHandler.Router())
			}
			if h.jobHandler != nil {
				r.Mount("/jobs", h.jobHandler.Router())
			}
			if h.automationHandler != nil {
				r.Mount("/automations", h.automationHandler.Router())
			}
		})
	})
}

// requireSessionScope rejects sessions issued for a different business than
// the one addressed by the URL. It runs after the session middleware.
func (h *BusinessHandler) requireSessionScope(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		businessID, err := ParseBusinessID(r)
		if err != nil {
			h.errorHandler.Handle(w, r, err)
			return
		}

		claims, ok := mw.GetSessionClaims(r.Context())
		if !ok || claims.BusinessID != businessID {
			h.errorHandler.Handle(w, r, apperrors.NewUnauthorizedError("Session is not valid for this business"))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// --- Request/Response DTOs ---

// BusinessRequest defines the expected JSON body for creating or updating a
// business
type BusinessRequest struct {
	Name         string         `json:"name"`
	Slug         string         `json:"slug"`
	Description  string         `json:"description"`
	Address      string         `json:"address"`
	City         string         `json:"city"`
	State        string         `json:"state"`
	Zip          string         `json:"zip"`
	Phone        string         `json:"phone"`
	Email        string         `json:"email"`
	Website      string         `json:"website"`
	Vertical     string         `json:"vertical"`
	Logo         string         `json:"logo"`
	Theme        map[string]any `json:"theme"`
	CustomDomain string         `json:"customDomain"`
	Settings     map[string]any `json:"settings"`
}

// Validate validates the business request
func (r *BusinessRequest) Validate() error {
	v := validation.NewValidator()

	v.Required("name", r.Name).
		MaxLength("name", r.Name, 200)

	v.Required("slug", r.Slug).
		MaxLength("slug", r.Slug, 100)

	v.Required("vertical", r.Vertical).
		OneOf("vertical", r.Vertical, []string{
			"hvac", "plumbing", "electrical", "cleaning",
			"landscaping", "roofing", "general",
		})

	if r.Email != "" {
		v.Email("email", r.Email)
	}

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

func (r *BusinessRequest) toDomain() *domain.Business {
	return &domain.Business{
		Name:         r.Name,
		Slug:         r.Slug,
		Description:  r.Description,
		Address:      r.Address,
		City:         r.City,
		State:        r.State,
		Zip:          r.Zip,
		Phone:        r.Phone,
		Email:        r.Email,
		Website:      r.Website,
		Vertical:     domain.BusinessVertical(r.Vertical),
		Logo:         r.Logo,
		Theme:        r.Theme,
		CustomDomain: r.CustomDomain,
		Settings:     r.Settings,
	}
}

// BusinessDTO defines the JSON response for businesses.
type BusinessDTO struct {
	ID           int64          `json:"id"`
	Name         string         `json:"name"`
	Slug         string         `json:"slug"`
	Description  string         `json:"description,omitempty"`
	Address      string         `json:"address,omitempty"`
	City         string         `json:"city,omitempty"`
	State        string         `json:"state,omitempty"`
	Zip          string         `json:"zip,omitempty"`
	Phone        string         `json:"phone,omitempty"`
	Email        string         `json:"email,omitempty"`
	Website      string         `json:"website,omitempty"`
	Vertical     string         `json:"vertical"`
	Logo         string         `json:"logo,omitempty"`
	Theme        map[string]any `json:"theme,omitempty"`
	CustomDomain string         `json:"customDomain,omitempty"`
	Settings     map[string]any `json:"settings,omitempty"`
	CreatedAt    string         `json:"createdAt"`
	UpdatedAt    *string        `json:"updatedAt,omitempty"`
}

func toBusinessDTO(business *domain.Business) BusinessDTO {
	var updatedAt *string
	if business.UpdatedAt != nil {
		value := business.UpdatedAt.Format(time.RFC3339)
		updatedAt = &value
	}

	return BusinessDTO{
		ID:           business.ID,
		Name:         business.Name,
		Slug:         business.Slug,
		Description:  business.Description,
		Address:      business.Address,
		City:         business.City,
		State:        business.State,
		Zip:          business.Zip,
		Phone:        business.Phone,
		Email:        business.Email,
		Website:      business.Website,
		Vertical:     string(business.Vertical),
		Logo:         business.Logo,
		Theme:        business.Theme,
		CustomDomain: business.CustomDomain,
		Settings:     business.Settings,
		CreatedAt:    business.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    updatedAt,
	}
}

func toBusinessDTOs(businesses []*domain.Business) []BusinessDTO {
	response := make([]BusinessDTO, 0, len(businesses))
	for _, business := range businesses {
		response = append(response, toBusinessDTO(business))
	}
	return response
}

// --- Handlers ---

// HandleListBusinesses handles GET /businesses
func (h *BusinessHandler) HandleListBusinesses(w http.ResponseWriter, r *http.Request) {
	businesses, err := h.businessService.ListBusinesses(r.Context())
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteList(w, toBusinessDTOs(businesses))
}

// HandleCreateBusiness handles POST /businesses
func (h *BusinessHandler) HandleCreateBusiness(w http.ResponseWriter, r *http.Request) {
	req, err := validation.DecodeAndValidate[BusinessRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	business, err := h.businessService.CreateBusiness(r.Context(), req.toDomain())
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("business created",
		"business_id", business.ID,
		"slug", business.Slug,
	)

	WriteCreated(w, toBusinessDTO(business))
}

// HandleGetBusiness handles GET /businesses/{businessID}
func (h *BusinessHandler) HandleGetBusiness(w http.ResponseWriter, r *http.Request) {
	businessID, err := ParseBusinessID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	business, err := h.businessService.GetBusiness(r.Context(), businessID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, toBusinessDTO(business))
}

// HandleGetBusinessBySlug handles GET /businesses/slug/{slug}
func (h *BusinessHandler) HandleGetBusinessBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		h.errorHandler.Handle(w, r, apperrors.ErrSlugRequired)
		return
	}

	business, err := h.businessService.GetBusinessBySlug(r.Context(), slug)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, toBusinessDTO(business))
}

// HandleUpdateBusiness handles PUT /businesses/{businessID}
func (h *BusinessHandler) HandleUpdateBusiness(w http.ResponseWriter, r *http.Request) {
	businessID, err := ParseBusinessID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	req, err := validation.DecodeAndValidate[BusinessRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	business := req.toDomain()
	business.ID = businessID

	updated, err := h.businessService.UpdateBusiness(r.Context(), business)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, toBusinessDTO(updated))
}

// HandleGetStats handles GET /businesses/{businessID}/stats
func (h *BusinessHandler) HandleGetStats(w http.ResponseWriter, r *http.Request) {
	businessID, err := ParseBusinessID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	stats, err := h.businessService.GetStats(r.Context(), businessID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, stats)
}

// ParseBusinessID extracts the businessID URL parameter. It is shared by the
// handlers mounted under /businesses/{businessID}.
func ParseBusinessID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "businessID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewBadRequestError(err, "Invalid business ID")
	}
	return id, nil
}
