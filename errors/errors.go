package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the message. The code and cause stay reachable through the
// struct fields and Unwrap.
func (e *AppError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// --- Resolution ---

// NoImplementation creates the error returned when a subject has no candidates.
func NoImplementation(subject string) *AppError {
	return &AppError{
		Code:    ErrCodeNoImplementation,
		Message: "No implementations found for: " + subject,
		Details: map[string]any{"subject": subject},
	}
}

// MoreThanOneImplementation creates the error returned when exactly one
// candidate was required but several were found.
func MoreThanOneImplementation(subject string) *AppError {
	return &AppError{
		Code:    ErrCodeAmbiguousImplementation,
		Message: "More than one implementation found for: " + subject,
		Details: map[string]any{"subject": subject},
	}
}

// DuplicateType creates the error returned when two candidates declare the same type key.
func DuplicateType(subject, typ string) *AppError {
	return &AppError{
		Code:    ErrCodeAmbiguousImplementation,
		Message: "More than one implementation found for: " + subject + " with type: " + typ,
		Details: map[string]any{"subject": subject, "type": typ},
	}
}

// TypeNotFound creates the error returned for an unregistered type key.
func TypeNotFound(typ string) *AppError {
	return &AppError{
		Code:    ErrCodeTypeNotFound,
		Message: "No implementation found for type: " + typ,
		Details: map[string]any{"type": typ},
	}
}

// --- Settings ---

// SettingNotFound creates the error returned for a missing setting.
func SettingNotFound(name string) *AppError {
	return &AppError{
		Code:    ErrCodeSettingNotFound,
		Message: "Setting name: " + name + " not found in SettingsProvider.",
		Details: map[string]any{"name": name},
	}
}

// --- Validation ---

// Validation creates a new AppError for validation errors.
func Validation(message string) *AppError {
	return &AppError{Code: ErrCodeInvalidInput, Message: message}
}

// MissingField creates a new AppError for a missing required field.
func MissingField(field string) *AppError {
	return &AppError{
		Code:    ErrCodeMissingField,
		Message: fmt.Sprintf("Missing required field: %s", field),
		Details: map[string]any{"field": field},
	}
}

// Internal creates a new AppError for an unexpected failure.
func Internal(cause error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "An unexpected error occurred.",
		Cause:   cause,
	}
}

// --- Matching ---

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err, or any error it wraps, is an AppError with code.
func HasCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}
