package domain

import (
	"encoding/json"
	"fmt"
)

// MsgPromptRequired is returned verbatim when the topic form field is missing.
const MsgPromptRequired = "Prompt is required"

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	ErrInternal        ErrorCode = "INTERNAL_ERROR"
	ErrInvalidInput    ErrorCode = "INVALID_INPUT"
	ErrLLMServiceError ErrorCode = "LLM_SERVICE_ERROR"
	ErrMalformedOutput ErrorCode = "MALFORMED_OUTPUT"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(ErrInvalidInput, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(ErrInternal, message, err)
}

func NewLLMServiceError(err error) *DomainError {
	return NewError(ErrLLMServiceError, "Failed to process with LLM service", err)
}

func NewMalformedOutputError(err error) *DomainError {
	return NewError(ErrMalformedOutput, "LLM output is not valid JSON", err)
}
