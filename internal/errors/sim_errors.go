package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCategory represents the kind of failure a simulation run can hit
type ErrorCategory string

const (
	ErrorCategorySchema        ErrorCategory = "SCHEMA"
	ErrorCategoryHistory       ErrorCategory = "HISTORY"
	ErrorCategoryData          ErrorCategory = "DATA"
	ErrorCategoryConfiguration ErrorCategory = "CONFIG"
	ErrorCategoryIO            ErrorCategory = "IO"
)

// Sentinel errors, one per category, for use with errors.Is
var (
	ErrSchema              = stderrors.New("required columns missing")
	ErrInsufficientHistory = stderrors.New("insufficient price history")
	ErrInvalidData         = stderrors.New("invalid price data")
	ErrInvalidConfig       = stderrors.New("invalid configuration")
	ErrIO                  = stderrors.New("i/o failure")
)

// SimError represents a categorized error with context
type SimError struct {
	Category   ErrorCategory
	Component  string
	Operation  string
	Message    string
	Underlying error
	Context    map[string]interface{}
}

// Error implements the error interface
func (e *SimError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("[%s:%s] %s: %s: %v", e.Category, e.Component, e.Operation, e.Message, e.Underlying)
	}
	return fmt.Sprintf("[%s:%s] %s: %s", e.Category, e.Component, e.Operation, e.Message)
}

// Unwrap returns the underlying error for error unwrapping
func (e *SimError) Unwrap() error {
	return e.Underlying
}

// Is matches the sentinel error of the error's category
func (e *SimError) Is(target error) bool {
	return target == sentinelFor(e.Category)
}

// IsFatal reports whether the run must stop. Every category is fatal for a
// static input; there is nothing to retry.
func (e *SimError) IsFatal() bool {
	return true
}

// WithContext adds context information to the error
func (e *SimError) WithContext(key string, value interface{}) *SimError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewSimError creates a new categorized simulation error
func NewSimError(category ErrorCategory, component, operation, message string) *SimError {
	return &SimError{
		Category:  category,
		Component: component,
		Operation: operation,
		Message:   message,
		Context:   make(map[string]interface{}),
	}
}

// WrapError wraps an existing error with simulation error context
func WrapError(err error, category ErrorCategory, component, operation string) *SimError {
	if err == nil {
		return nil
	}

	return &SimError{
		Category:   category,
		Component:  component,
		Operation:  operation,
		Message:    "operation failed",
		Underlying: err,
		Context:    make(map[string]interface{}),
	}
}

func sentinelFor(category ErrorCategory) error {
	switch category {
	case ErrorCategorySchema:
		return ErrSchema
	case ErrorCategoryHistory:
		return ErrInsufficientHistory
	case ErrorCategoryData:
		return ErrInvalidData
	case ErrorCategoryConfiguration:
		return ErrInvalidConfig
	case ErrorCategoryIO:
		return ErrIO
	default:
		return nil
	}
}

// Common error constructors
func NewSchemaError(component, operation, message string) *SimError {
	return NewSimError(ErrorCategorySchema, component, operation, message)
}

func NewHistoryError(component, operation, message string) *SimError {
	return NewSimError(ErrorCategoryHistory, component, operation, message)
}

func NewDataError(component, operation, message string) *SimError {
	return NewSimError(ErrorCategoryData, component, operation, message)
}

func NewConfigurationError(component, operation, message string) *SimError {
	return NewSimError(ErrorCategoryConfiguration, component, operation, message)
}

func NewIOError(component, operation string, err error) *SimError {
	return WrapError(err, ErrorCategoryIO, component, operation)
}

// AsSimError finds the first SimError in err's chain
func AsSimError(err error) (*SimError, bool) {
	var se *SimError
	if stderrors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// ExitCode maps an error to a process exit status
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	se, ok := AsSimError(err)
	if !ok {
		return 1
	}
	switch se.Category {
	case ErrorCategoryConfiguration:
		return 2
	case ErrorCategoryIO:
		return 3
	default:
		return 1
	}
}
