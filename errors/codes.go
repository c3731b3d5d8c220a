package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Resolution errors
const (
	// ErrCodeNoImplementation indicates no candidate implementation was found.
	ErrCodeNoImplementation ErrorCode = "NO_IMPLEMENTATION"
	// ErrCodeAmbiguousImplementation indicates more candidates were found than allowed.
	ErrCodeAmbiguousImplementation ErrorCode = "AMBIGUOUS_IMPLEMENTATION"
	// ErrCodeTypeNotFound indicates a type key was never registered.
	ErrCodeTypeNotFound ErrorCode = "TYPE_NOT_FOUND"
)

// Settings errors
const (
	// ErrCodeSettingNotFound indicates a setting name is absent from the current mapping.
	ErrCodeSettingNotFound ErrorCode = "SETTING_NOT_FOUND"
)

// Validation errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeMissingField indicates a required field is missing.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
)

// Internal errors
const (
	// ErrCodeInternal indicates an unexpected internal failure.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// IsResolutionCode reports whether code belongs to implementation resolution.
func IsResolutionCode(code ErrorCode) bool {
	switch code {
	case ErrCodeNoImplementation, ErrCodeAmbiguousImplementation, ErrCodeTypeNotFound:
		return true
	}
	return false
}
