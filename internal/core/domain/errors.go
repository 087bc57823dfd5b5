package domain

import (
	"errors"
	"fmt"
	"strings"
)

// DomainError represents a business logic error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *DomainError) Unwrap() error {
	return e.Err
}

const (
	ErrCodeMissingRequiredField = "MISSING_REQUIRED_FIELD"
	ErrCodeInvalidField         = "INVALID_FIELD"
	ErrCodeMethodNotAllowed     = "METHOD_NOT_ALLOWED"
	ErrCodeNotFound             = "NOT_FOUND"
	ErrCodeRequestTooLarge      = "REQUEST_TOO_LARGE"
	ErrCodeInternal             = "INTERNAL_ERROR"
)

// MsgInternalError is the only message clients see for internal failures.
const MsgInternalError = "Internal Server Error"

// NewMissingRequiredFieldError names every missing field, in request order.
func NewMissingRequiredFieldError(fields ...string) *DomainError {
	return &DomainError{
		Code:    ErrCodeMissingRequiredField,
		Message: fmt.Sprintf("Missing required fields: %s", strings.Join(fields, ", ")),
	}
}

func NewInvalidFieldError(field string, err error) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidField,
		Message: fmt.Sprintf("Invalid value for field: %s", field),
		Err:     err,
	}
}

func NewMethodNotAllowedError(method string) *DomainError {
	return &DomainError{
		Code:    ErrCodeMethodNotAllowed,
		Message: "Method not allowed",
		Err:     fmt.Errorf("method %s", method),
	}
}

func NewNotFoundError(path string) *DomainError {
	return &DomainError{
		Code:    ErrCodeNotFound,
		Message: "Not found",
		Err:     fmt.Errorf("path %s", path),
	}
}

func NewRequestTooLargeError(limit int64) *DomainError {
	return &DomainError{
		Code:    ErrCodeRequestTooLarge,
		Message: fmt.Sprintf("Request body exceeds %d bytes", limit),
	}
}

// NewInternalError wraps err behind the generic message clients are allowed to see.
func NewInternalError(err error) *DomainError {
	return &DomainError{
		Code:    ErrCodeInternal,
		Message: MsgInternalError,
		Err:     err,
	}
}

// IsErrorCode checks if an error is a DomainError with a specific code
func IsErrorCode(err error, code string) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}
