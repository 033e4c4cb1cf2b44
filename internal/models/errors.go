package models

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error codes used across the application. Handlers map these to HTTP
// statuses; services never touch HTTP concerns directly.
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeNotFound     = "NOT_FOUND"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeDuplicate    = "DUPLICATE"
	CodeAlreadyLiked = "ALREADY_LIKED"
	CodeNotLiked     = "NOT_LIKED"
	CodeDependency   = "DEPENDENCY_ERROR"
	CodeInternal     = "INTERNAL_ERROR"
)

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Err     error
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

// Predefined error constructors
func NewNotFoundError(resource string, id interface{}) *AppError {
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

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    CodeUnauthorized,
		Message: message,
	}
}

func NewDuplicateError(message string) *AppError {
	return &AppError{
		Code:    CodeDuplicate,
		Message: message,
	}
}

// NewAlreadyLikedError signals that an active like row already exists for
// the (user, target) pair.
func NewAlreadyLikedError(target string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeAlreadyLiked,
		Message: fmt.Sprintf("User has already liked %s %v", target, id),
	}
}

// NewNotLikedError signals that no like row exists for the (user, target) pair.
func NewNotLikedError(target string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeNotLiked,
		Message: fmt.Sprintf("User has not liked %s %v", target, id),
	}
}

// NewDependencyError wraps a failure from an external collaborator (blob
// store or relational store) that is not the caller's fault.
func NewDependencyError(message string, err error) *AppError {
	return &AppError{
		Code:    CodeDependency,
		Message: message,
		Err:     err,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "Internal server error",
		Err:     err,
	}
}

// RespondWithError creates a standardized error response
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	var response ErrorResponse

	if appErr, ok := err.(*AppError); ok {
		response = ErrorResponse{
			Error: appErr.Message,
			Code:  appErr.Code,
		}
		if appErr.Err != nil {
			response.Details = appErr.Err.Error()
		}
	} else {
		response = ErrorResponse{
			Error: err.Error(),
		}
	}

	return c.Status(status).JSON(response)
}
