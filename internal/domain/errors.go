package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	CodeInternal      ErrorCode = "INTERNAL_ERROR"
	CodeInvalidInput  ErrorCode = "INVALID_INPUT"
	CodeNotFound      ErrorCode = "NOT_FOUND"
	CodeUnauthorized  ErrorCode = "UNAUTHORIZED"
	CodeConfiguration ErrorCode = "CONFIGURATION_ERROR"

	// Validation errors
	CodeValidation    ErrorCode = "VALIDATION_ERROR"
	CodeMissingField  ErrorCode = "MISSING_FIELD"
	CodeInvalidFormat ErrorCode = "INVALID_FORMAT"
	CodeOutOfRange    ErrorCode = "OUT_OF_RANGE"

	// Generation errors
	CodeTransport           ErrorCode = "TRANSPORT_ERROR"
	CodeMalformedGeneration ErrorCode = "MALFORMED_GENERATION"
	CodeQuotaExceeded       ErrorCode = "QUOTA_EXCEEDED"

	// Session errors
	CodeInvalidTransition ErrorCode = "INVALID_TRANSITION"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string                 `json:"code"`
		Message string                 `json:"message"`
		Context map[string]interface{} `json:"context,omitempty"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
		Context: e.Context,
	})
}

// WithContext attaches a key/value pair that is exposed to API clients.
func (e *DomainError) WithContext(key string, value interface{}) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// HasCode reports whether err carries a DomainError with the given code.
func HasCode(err error, code ErrorCode) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}

// Helper functions for common errors
func NewNotFoundError(message string) *DomainError {
	return NewError(CodeNotFound, message, nil)
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(CodeInvalidInput, message, nil)
}

func NewInternalError(message string, cause error) *DomainError {
	return NewError(CodeInternal, message, cause)
}

func NewUnauthorizedError(message string) *DomainError {
	return NewError(CodeUnauthorized, message, nil)
}

func NewConfigurationError(message string) *DomainError {
	return NewError(CodeConfiguration, message, nil)
}

func NewQuotaExceededError(used, limit int) *DomainError {
	return NewError(CodeQuotaExceeded,
		"Generation limit reached. Upgrade your plan to create more quizzes.", nil).
		WithContext("used", used).
		WithContext("limit", limit)
}

func NewInvalidTransitionError(message string) *DomainError {
	return NewError(CodeInvalidTransition, message, nil)
}

// NewTransportError wraps a failed provider call. The message is safe to
// show to end users.
func NewTransportError(cause error) *DomainError {
	return NewError(CodeTransport, "The AI service is unavailable right now, please try again", cause)
}

// MalformedPayloadError keeps the provider text that could not be turned
// into a question, for diagnostics only.
type MalformedPayloadError struct {
	Raw string
	Err error
}

func (e *MalformedPayloadError) Error() string {
	return fmt.Sprintf("malformed provider payload: %v", e.Err)
}

func (e *MalformedPayloadError) Unwrap() error {
	return e.Err
}

// NewMalformedGenerationError reports provider output that failed parsing or
// validation. The raw text is reachable through errors.As on
// *MalformedPayloadError but never serialized to clients.
func NewMalformedGenerationError(raw string, cause error) *DomainError {
	return NewError(CodeMalformedGeneration,
		"The AI service returned an unexpected answer, please try again",
		&MalformedPayloadError{Raw: raw, Err: cause})
}

// ValidationError describes a single invalid field.
type ValidationError struct {
	Field   string    `json:"field,omitempty"`
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{Code: CodeValidation, Message: message}
}

func NewMissingFieldError(field string) *ValidationError {
	return &ValidationError{Field: field, Code: CodeMissingField, Message: "is required"}
}

func NewInvalidFormatError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Code: CodeInvalidFormat, Message: message}
}

func NewOutOfRangeError(field string, min, max int) *ValidationError {
	return &ValidationError{
		Field:   field,
		Code:    CodeOutOfRange,
		Message: fmt.Sprintf("must be between %d and %d", min, max),
	}
}

// ValidationErrors collects every field problem found in one request.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for i := range v {
		msgs = append(msgs, v[i].Error())
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Add appends ve when it is not nil.
func (v *ValidationErrors) Add(ve *ValidationError) {
	if ve != nil {
		*v = append(*v, *ve)
	}
}

// Err returns nil when nothing was collected.
func (v ValidationErrors) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}
