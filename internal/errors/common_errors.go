package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypePrecondition ErrorType = "PRECONDITION"
	ErrTypeFormatting   ErrorType = "FORMATTING"
	ErrTypePersistence  ErrorType = "PERSISTENCE"
	ErrTypeValidation   ErrorType = "VALIDATION"
	ErrTypeNotFound     ErrorType = "NOT_FOUND"
	ErrTypeConfig       ErrorType = "CONFIG"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewPreconditionError reports a snapshot that violates an input invariant,
// or a derived value that would not be finite.
func NewPreconditionError(message string) *AppError {
	return NewAppError(ErrTypePrecondition, message, nil)
}

// NewFormattingError reports a value that cannot be rendered for display
func NewFormattingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeFormatting, message, cause)
}

// NewPersistenceError reports a failed write or read of an artifact
func NewPersistenceError(message string, cause error) *AppError {
	return NewAppError(ErrTypePersistence, message, cause)
}

// NewAppValidationError creates a validation error for AppError type
func NewAppValidationError(message string) *AppError {
	return NewAppError(ErrTypeValidation, message, nil)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return NewAppError(ErrTypeNotFound, fmt.Sprintf("%s not found", resource), nil)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// TypeOf returns the type of the first AppError in err's chain
func TypeOf(err error) (ErrorType, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type, true
	}
	return "", false
}

// IsType reports whether err's chain contains an AppError of the given type
func IsType(err error, errType ErrorType) bool {
	t, ok := TypeOf(err)
	return ok && t == errType
}

func IsPrecondition(err error) bool { return IsType(err, ErrTypePrecondition) }

func IsFormatting(err error) bool { return IsType(err, ErrTypeFormatting) }

func IsPersistence(err error) bool { return IsType(err, ErrTypePersistence) }

func IsNotFound(err error) bool { return IsType(err, ErrTypeNotFound) }
