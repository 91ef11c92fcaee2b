package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	mw "github.com/lorrc/home-services-backend/internal/adapters/primary/http/middleware"
	apperrors "github.com/lorrc/home-services-backend/internal/core/errors"
)

// GetRequestID retrieves the request ID from context
func GetRequestID(ctx context.Context) string {
	return mw.GetRequestID(ctx)
}

// ErrorResponse is the standard JSON error response format
type ErrorResponse struct {
	Error   string                 `json:"error"`
	Code    string                 `json:"code,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ValidationErrorResponse includes field-level validation errors
type ValidationErrorResponse struct {
	Error  string              `json:"error"`
	Code   string              `json:"code"`
	Fields map[string][]string `json:"fields,omitempty"`
}

// ErrorHandler provides centralized error handling with logging
type ErrorHandler struct {
	logger *slog.Logger
}

// NewErrorHandler creates a new error handler with the given logger
func NewErrorHandler(logger *slog.Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Handle processes an error and writes the appropriate HTTP response
func (h *ErrorHandler) Handle(w http.ResponseWriter, r *http.Request, err error) {
	requestID := GetRequestID(r.Context())

	// Check for AppError first (our custom error type)
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		h.logError(r, appErr.StatusCode, appErr.Err, requestID)
		h.writeErrorResponse(w, appErr.StatusCode, ErrorResponse{
			Error:   appErr.Message,
			Code:    appErr.Code,
			Details: appErr.Details,
		})
		return
	}

	// Check for ValidationErrors
	var validationErrs *apperrors.ValidationErrors
	if errors.As(err, &validationErrs) {
		h.logError(r, http.StatusUnprocessableEntity, err, requestID)
		h.writeValidationErrorResponse(w, validationErrs)
		return
	}

	// Map known domain errors to HTTP responses
	statusCode, response := h.mapDomainError(err)
	h.logError(r, statusCode, err, requestID)
	h.writeErrorResponse(w, statusCode, response)
}

// mapDomainError converts domain errors to HTTP status codes and responses
func (h *ErrorHandler) mapDomainError(err error) (int, ErrorResponse) {
	switch {
	// Authentication
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized, ErrorResponse{
			Error: "Authentication required",
			Code:  "UNAUTHORIZED",
		}
	case errors.Is(err, apperrors.ErrDemoTokenExpired):
		return http.StatusUnauthorized, ErrorResponse{
			Error: "Demo link has expired",
			Code:  "DEMO_TOKEN_EXPIRED",
		}

	// Not Found errors
	case errors.Is(err, apperrors.ErrBusinessNotFound):
		return http.StatusNotFound, ErrorResponse{
			Error: "Business not found",
			Code:  "BUSINESS_NOT_FOUND",
		}
	case errors.Is(err, apperrors.ErrContactNotFound):
		return http.StatusNotFound, ErrorResponse{
			Error: "Contact not found",
			Code:  "CONTACT_NOT_FOUND",
		}
	case errors.Is(err, apperrors.ErrConversationNotFound):
		return http.StatusNotFound, ErrorResponse{
			Error: "Conversation not found",
			Code:  "CONVERSATION_NOT_FOUND",
		}
	case errors.Is(err, apperrors.ErrJobNotFound):
		return http.StatusNotFound, ErrorResponse{
			Error: "Job not found",
			Code:  "JOB_NOT_FOUND",
		}
	case errors.Is(err, apperrors.ErrReviewNotFound):
		return http.StatusNotFound, ErrorResponse{
			Error: "Review not found",
			Code:  "REVIEW_NOT_FOUND",
		}
	case errors.Is(err, apperrors.ErrAutomationNotFound):
		return http.StatusNotFound, ErrorResponse{
			Error: "Automation not found",
			Code:  "AUTOMATION_NOT_FOUND",
		}
	case errors.Is(err, apperrors.ErrDemoTokenNotFound):
		return http.StatusNotFound, ErrorResponse{
			Error: "Demo token not found",
			Code:  "DEMO_TOKEN_NOT_FOUND",
		}

	// Conflict errors
	case errors.Is(err, apperrors.ErrSlugTaken):
		return http.StatusConflict, ErrorResponse{
			Error: "A business with this slug already exists",
			Code:  "SLUG_TAKEN",
		}

	// Validation errors
	case errors.Is(err, apperrors.ErrBusinessNameRequired),
		errors.Is(err, apperrors.ErrSlugRequired),
		errors.Is(err, apperrors.ErrInvalidSlug),
		errors.Is(err, apperrors.ErrSlugImmutable),
		errors.Is(err, apperrors.ErrInvalidVertical),
		errors.Is(err, apperrors.ErrContactIDRequired),
		errors.Is(err, apperrors.ErrContactNameRequired),
		errors.Is(err, apperrors.ErrContentRequired),
		errors.Is(err, apperrors.ErrTitleRequired),
		errors.Is(err, apperrors.ErrJobTimeRequired),
		errors.Is(err, apperrors.ErrJobTimeInverted),
		errors.Is(err, apperrors.ErrInvalidJobStatus),
		errors.Is(err, apperrors.ErrInvalidRating),
		errors.Is(err, apperrors.ErrPlatformRequired),
		errors.Is(err, apperrors.ErrAutomationNameRequired),
		errors.Is(err, apperrors.ErrInvalidTrigger),
		errors.Is(err, apperrors.ErrAutomationNoActions):
		return http.StatusBadRequest, ErrorResponse{
			Error: err.Error(),
			Code:  "VALIDATION_ERROR",
		}

	// Business rule violations
	case errors.Is(err, apperrors.ErrJobAlreadyClosed):
		return http.StatusBadRequest, ErrorResponse{
			Error: "Job is already completed or cancelled",
			Code:  "JOB_ALREADY_CLOSED",
		}

	// Rate limiting
	case errors.Is(err, apperrors.ErrRateLimited):
		return http.StatusTooManyRequests, ErrorResponse{
			Error: "Too many requests. Please try again later.",
			Code:  "RATE_LIMITED",
		}

	// Default to internal server error
	default:
		return http.StatusInternalServerError, ErrorResponse{
			Error: "An unexpected error occurred",
			Code:  "INTERNAL_ERROR",
		}
	}
}

// logError logs the error with appropriate context
func (h *ErrorHandler) logError(r *http.Request, statusCode int, err error, requestID string) {
	logAttrs := []any{
		"request_id", requestID,
		"method", r.Method,
		"path", r.URL.Path,
		"status_code", statusCode,
		"error", err.Error(),
	}

	// Log at different levels based on status code
	switch {
	case statusCode >= 500:
		h.logger.Error("server error", logAttrs...)
	case statusCode >= 400:
		h.logger.Warn("client error", logAttrs...)
	default:
		h.logger.Info("request error", logAttrs...)
	}
}

// writeErrorResponse writes a JSON error response
func (h *ErrorHandler) writeErrorResponse(w http.ResponseWriter, statusCode int, response ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(response)
}

// writeValidationErrorResponse writes a validation error response
func (h *ErrorHandler) writeValidationErrorResponse(w http.ResponseWriter, errs *apperrors.ValidationErrors) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnprocessableEntity)
	_ = json.NewEncoder(w).Encode(ValidationErrorResponse{
		Error:  "Validation failed",
		Code:   "VALIDATION_ERROR",
		Fields: errs.Errors,
	})
}
