package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error codes returned in the "code" field of the error envelope.
const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeReasonRequired    = "REASON_REQUIRED"
	CodeNotesRequired     = "NOTES_REQUIRED"
	CodeInvalidRole       = "INVALID_ROLE"
	CodeInvalidStatus     = "INVALID_STATUS"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeForbidden         = "FORBIDDEN"
	CodeAccountTypeNeeded = "ACCOUNT_TYPE_REQUIRED"
	CodeCSRFInvalid       = "CSRF_INVALID"
	CodeNotFound          = "NOT_FOUND"
	CodeConflict          = "CONFLICT"
	CodeRateLimited       = "RATE_LIMITED"
	CodeInternal          = "INTERNAL_ERROR"
	internalErrorMessage  = "Internal server error"
)

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Error       string         `json:"error"`
	Code        string         `json:"code,omitempty"`
	Suggestions []string       `json:"suggestions,omitempty"`
	Context     map[string]any `json:"context,omitempty"`
}

// AppError represents a custom application error
type AppError struct {
	Code        string
	Message     string
	Err         error
	Suggestions []string
	Context     map[string]any
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithSuggestions attaches human-readable hints to the error.
func (e *AppError) WithSuggestions(s ...string) *AppError {
	e.Suggestions = append(e.Suggestions, s...)
	return e
}

// WithContext attaches a key/value pair echoed in the error envelope.
func (e *AppError) WithContext(key string, value any) *AppError {
	if e.Context == nil {
		e.Context = map[string]any{}
	}
	e.Context[key] = value
	return e
}

func NewNotFoundError(resource string, id any) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

// NewCodedValidationError is a 400 carrying a specific machine-readable code.
func NewCodedValidationError(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    CodeUnauthorized,
		Message: message,
	}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{
		Code:    CodeForbidden,
		Message: message,
	}
}

func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    CodeConflict,
		Message: message,
	}
}

// NewTransitionError reports a status change the state machine does not allow.
func NewTransitionError(kind string, from, to ModerationStatus) *AppError {
	return &AppError{
		Code:    CodeInvalidTransition,
		Message: fmt.Sprintf("%s cannot move from %s to %s", kind, from, to),
		Context: map[string]any{"current_status": from},
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: internalErrorMessage,
		Err:     err,
	}
}

// StatusFor maps an error to its HTTP status code.
func StatusFor(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return fiber.StatusInternalServerError
	}
	switch appErr.Code {
	case CodeValidation, CodeReasonRequired, CodeNotesRequired, CodeInvalidRole, CodeInvalidStatus:
		return fiber.StatusBadRequest
	case CodeUnauthorized:
		return fiber.StatusUnauthorized
	case CodeForbidden, CodeAccountTypeNeeded, CodeCSRFInvalid:
		return fiber.StatusForbidden
	case CodeNotFound:
		return fiber.StatusNotFound
	case CodeConflict, CodeInvalidTransition:
		return fiber.StatusConflict
	case CodeRateLimited:
		return fiber.StatusTooManyRequests
	default:
		return fiber.StatusInternalServerError
	}
}

// RespondWithError writes the error envelope. Server errors never echo the
// wrapped cause; callers log it.
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	var response ErrorResponse

	var appErr *AppError
	switch {
	case status >= fiber.StatusInternalServerError:
		response = ErrorResponse{Error: internalErrorMessage, Code: CodeInternal}
	case errors.As(err, &appErr):
		response = ErrorResponse{
			Error:       appErr.Message,
			Code:        appErr.Code,
			Suggestions: appErr.Suggestions,
			Context:     appErr.Context,
		}
	default:
		response = ErrorResponse{Error: err.Error()}
	}

	return c.Status(status).JSON(response)
}
