package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lorrc/home-services-backend/internal/adapters/primary/validation"
	apperrors "github.com/lorrc/home-services-backend/internal/core/errors"
	"github.com/lorrc/home-services-backend/internal/core/ports"
)

// DemoHandler handles demo link issuance and exchange
type DemoHandler struct {
	demoService  ports.DemoTokenService
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

// NewDemoHandler creates a new demo handler
func NewDemoHandler(demoService ports.DemoTokenService, errorHandler *ErrorHandler, logger *slog.Logger) *DemoHandler {
	return &DemoHandler{
		demoService:  demoService,
		errorHandler: errorHandler,
		logger:       logger.With("handler", "demo"),
	}
}

// Router sets up a new chi Router for all demo routes.
func (h *DemoHandler) Router() http.Handler {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

// RegisterRoutes sets up the routing for all demo endpoints.
func (h *DemoHandler) RegisterRoutes(r chi.Router) {
	r.Post("/tokens", h.HandleIssueToken)
	r.Get("/{token}", h.HandleValidateToken)
}

// --- Request/Response DTOs ---

// IssueTokenRequest defines the expected JSON body for issuing a demo link
type IssueTokenRequest struct {
	BusinessID int64 `json:"businessId"`
}

// Validate validates the issue token request
func (r *IssueTokenRequest) Validate() error {
	v := validation.NewValidator()

	v.Custom("businessId", r.BusinessID > 0, "Must be a positive integer")

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// DemoTokenDTO defines the JSON response for an issued demo token.
type DemoTokenDTO struct {
	Token      string `json:"token"`
	BusinessID int64  `json:"businessId"`
	ExpiresAt  string `json:"expiresAt"`
}

// DemoAccessDTO defines the JSON response for a validated demo token.
type DemoAccessDTO struct {
	Business    BusinessDTO `json:"business"`
	AccessToken string      `json:"accessToken"`
	ExpiresAt   string      `json:"expiresAt"`
}

// --- Handlers ---

// HandleIssueToken handles POST /demo/tokens
func (h *DemoHandler) HandleIssueToken(w http.ResponseWriter, r *http.Request) {
	req, err := validation.DecodeAndValidate[IssueTokenRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	token, err := h.demoService.IssueToken(r.Context(), req.BusinessID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("demo token issued",
		"business_id", token.BusinessID,
	)

	WriteCreated(w, DemoTokenDTO{
		Token:      token.Token,
		BusinessID: token.BusinessID,
		ExpiresAt:  token.ExpiresAt.Format(time.RFC3339),
	})
}

// HandleValidateToken handles GET /demo/{token}
func (h *DemoHandler) HandleValidateToken(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if token == "" {
		h.errorHandler.Handle(w, r, apperrors.ErrDemoTokenNotFound)
		return
	}

	access, err := h.demoService.ValidateToken(r.Context(), token)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, DemoAccessDTO{
		Business:    toBusinessDTO(access.Business),
		AccessToken: access.AccessToken,
		ExpiresAt:   access.ExpiresAt.Format(time.RFC3339),
	})
}
