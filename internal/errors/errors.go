package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents the category of a pipeline error. Callers
// discriminate on the type, never on message text.
type ErrorType string

const (
	ErrTypeFileNotFound   ErrorType = "FILE_NOT_FOUND"
	ErrTypeEmptyData      ErrorType = "EMPTY_DATA"
	ErrTypeEmptyInput     ErrorType = "EMPTY_INPUT"
	ErrTypeValidation     ErrorType = "VALIDATION"
	ErrTypeColumnNotFound ErrorType = "COLUMN_NOT_FOUND"
	ErrTypeParsing        ErrorType = "PARSING"
	ErrTypeStorage        ErrorType = "STORAGE"
	ErrTypeConfig         ErrorType = "CONFIG"
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

// IsType reports whether err is (or wraps) an AppError of the given type.
func IsType(err error, errType ErrorType) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type == errType
	}
	return false
}

// TypeOf returns the type of err, or "" when err is not an AppError.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type
	}
	return ""
}

// Helper functions for common error types

// NewFileNotFoundError creates a file-not-found error
func NewFileNotFoundError(path string, cause error) *AppError {
	return NewAppError(ErrTypeFileNotFound, fmt.Sprintf("file not found: %s", path), cause)
}

// NewEmptyDataError creates an error for a file that parsed to zero rows
func NewEmptyDataError(message string) *AppError {
	return NewAppError(ErrTypeEmptyData, message, nil)
}

// NewEmptyInputError creates an error for an empty in-memory dataset
func NewEmptyInputError(message string) *AppError {
	return NewAppError(ErrTypeEmptyInput, message, nil)
}

// NewValidationError creates a schema validation error
func NewValidationError(reason string) *AppError {
	return NewAppError(ErrTypeValidation, reason, nil)
}

// NewColumnNotFoundError creates an error for a missing column
func NewColumnNotFoundError(column string) *AppError {
	return NewAppError(ErrTypeColumnNotFound, fmt.Sprintf("column %q not found in dataset", column), nil)
}

// NewParsingError creates a parsing-related error
func NewParsingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}
