package errors

import (
	"errors"
	"fmt"
)

// Domain errors - these represent business rule violations
var (
	// Business validation
	ErrBusinessNotFound     = errors.New("business not found")
	ErrBusinessNameRequired = errors.New("business name is required")
	ErrSlugRequired         = errors.New("slug is required")
	ErrSlugTaken            = errors.New("slug is already in use")
	ErrInvalidSlug          = errors.New("slug must be lowercase letters, digits and hyphens")
	ErrSlugImmutable        = errors.New("slug cannot be changed")
	ErrInvalidVertical      = errors.New("invalid business vertical")

	// Contact validation
	ErrContactNotFound     = errors.New("contact not found")
	ErrContactIDRequired   = errors.New("contact ID is required")
	ErrContactNameRequired = errors.New("contact first name is required")

	// Conversation & message validation
	ErrConversationNotFound = errors.New("conversation not found")
	ErrMessageNotFound      = errors.New("message not found")
	ErrContentRequired      = errors.New("message content is required")

	// Job validation
	ErrJobNotFound      = errors.New("job not found")
	ErrTitleRequired    = errors.New("title is required")
	ErrJobTimeRequired  = errors.New("job start and end time are required")
	ErrJobTimeInverted  = errors.New("job end time is before start time")
	ErrInvalidJobStatus = errors.New("invalid job status")
	ErrJobAlreadyClosed = errors.New("job is already completed or cancelled")

	// Review validation
	ErrReviewNotFound   = errors.New("review not found")
	ErrInvalidRating    = errors.New("rating must be between 1 and 5")
	ErrPlatformRequired = errors.New("review platform is required")

	// Automation validation
	ErrAutomationNotFound     = errors.New("automation not found")
	ErrAutomationNameRequired = errors.New("automation name is required")
	ErrInvalidTrigger         = errors.New("invalid automation trigger")
	ErrAutomationNoActions    = errors.New("automation must define at least one action")

	// Demo tokens
	ErrDemoTokenNotFound = errors.New("demo token not found")
	ErrDemoTokenExpired  = errors.New("demo token expired")

	// Generic
	ErrNotFound     = errors.New("resource not found")
	ErrInternal     = errors.New("internal server error")
	ErrBadRequest   = errors.New("bad request")
	ErrConflict     = errors.New("resource conflict")
	ErrRateLimited  = errors.New("rate limit exceeded")
	ErrUnauthorized = errors.New("unauthorized")
)

// AppError wraps errors with additional context for HTTP responses
type AppError struct {
	Err        error  // The underlying error
	Message    string // User-friendly message
	Code       string // Machine-readable error code
	StatusCode int    // HTTP status code
	Details    map[string]interface{}
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Error constructors for common cases
func NewBadRequestError(err error, message string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		Code:       "BAD_REQUEST",
		StatusCode: 400,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Err:        ErrUnauthorized,
		Message:    message,
		Code:       "UNAUTHORIZED",
		StatusCode: 401,
	}
}

func NewNotFoundError(err error, message string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		Code:       "NOT_FOUND",
		StatusCode: 404,
	}
}

func NewConflictError(err error, message string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		Code:       "CONFLICT",
		StatusCode: 409,
	}
}

func NewValidationError(err error, message string, details map[string]interface{}) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		Code:       "VALIDATION_ERROR",
		StatusCode: 422,
		Details:    details,
	}
}

func NewRateLimitError() *AppError {
	return &AppError{
		Err:        ErrRateLimited,
		Message:    "Too many requests. Please try again later.",
		Code:       "RATE_LIMITED",
		StatusCode: 429,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Err:        err,
		Message:    "An unexpected error occurred",
		Code:       "INTERNAL_ERROR",
		StatusCode: 500,
	}
}

// ValidationErrors holds multiple field validation errors
type ValidationErrors struct {
	Errors map[string][]string `json:"errors"`
}

func NewValidationErrors() *ValidationErrors {
	return &ValidationErrors{
		Errors: make(map[string][]string),
	}
}

func (v *ValidationErrors) Add(field, message string) {
	v.Errors[field] = append(v.Errors[field], message)
}

func (v *ValidationErrors) HasErrors() bool {
	return len(v.Errors) > 0
}

func (v *ValidationErrors) Error() string {
	return fmt.Sprintf("validation failed: %d field(s) have errors", len(v.Errors))
}
