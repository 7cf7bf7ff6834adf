// Package errors provides a lightweight structured error type (SyncError)
// for category-based classification of docsync failures at the CLI boundary.
package errors

import (
	stdErrors "errors"
	"fmt"
)

// ErrorCategory represents the category of a docsync error for classification
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// Mirror and manifest errors
	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryManifest   ErrorCategory = "manifest"

	// Runtime and infrastructure errors
	CategoryWatch    ErrorCategory = "watch"
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
)

// ContextFields carries structured context for SyncError
type ContextFields map[string]any

// SyncError is a structured error with category, severity and context
type SyncError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// Error implements the error interface
func (e *SyncError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *SyncError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *SyncError) WithContext(key string, value any) *SyncError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new SyncError
func New(category ErrorCategory, severity ErrorSeverity, message string) *SyncError {
	return &SyncError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new SyncError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *SyncError {
	return &SyncError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// As finds the first SyncError in err's chain.
func As(err error) (*SyncError, bool) {
	var se *SyncError
	if stdErrors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// IsCategory checks if an error (or anything it wraps) belongs to a specific category
func IsCategory(err error, category ErrorCategory) bool {
	if se, ok := As(err); ok {
		return se.Category == category
	}
	return false
}

// GetCategory extracts the category from an error, or returns CategoryInternal if not a SyncError
func GetCategory(err error) ErrorCategory {
	if se, ok := As(err); ok {
		return se.Category
	}
	return CategoryInternal
}
