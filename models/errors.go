package models

import "fmt"

// Error codes covering the failure classes an operation can surface.
const (
	CodeTransport  = "TRANSPORT_ERROR"
	CodeAuth       = "AUTH_ERROR"
	CodeDecode     = "DECODE_ERROR"
	CodeAPI        = "API_ERROR"
	CodeValidation = "VALIDATION_ERROR"
	CodeUnknown    = "UNKNOWN_ERROR"
)

// AppError is the discriminated failure value returned by every operation.
// Message is always suitable for direct display.
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
func NewTransportError(err error) *AppError {
	return &AppError{
		Code:    CodeTransport,
		Message: "request failed",
		Err:     err,
	}
}

func NewAuthError(message string) *AppError {
	return &AppError{
		Code:    CodeAuth,
		Message: message,
	}
}

func NewDecodeError(err error) *AppError {
	return &AppError{
		Code:    CodeDecode,
		Message: "could not decode server response",
		Err:     err,
	}
}

// NewAPIError wraps an error message reported by the platform's generic
// error envelope.
func NewAPIError(message string) *AppError {
	return &AppError{
		Code:    CodeAPI,
		Message: message,
	}
}

// NewValidationError reports a request rejected locally, before anything
// was sent to the platform.
func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

func NewUnknownError() *AppError {
	return &AppError{
		Code:    CodeUnknown,
		Message: "unknown error",
	}
}

// FieldError reports a required wire field that was missing or malformed.
// Tolerant fields never produce one; they resolve to absent instead.
type FieldError struct {
	Entity string
	Field  string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: required field %q missing or malformed", e.Entity, e.Field)
}
