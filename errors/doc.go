// Package errors provides the unified error type used across initkit.
// Every failure is an *AppError carrying a machine-readable code; its
// Error() text is exactly the human-readable message so the same string can
// be logged and returned.
package errors
