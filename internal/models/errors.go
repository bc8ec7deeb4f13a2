package models

import (
	"errors"
	"strings"
)

// Domain errors shared by services and handlers.
var (
	ErrInvalidCredentials = errors.New("Invalid credentials")
	ErrUnauthorized       = errors.New("Not authorized, token failed")
	ErrNotFound           = errors.New("Registration not found")
)

// FieldError is a single field-level validation message.
type FieldError struct {
	Field string `json:"field"`
	Msg   string `json:"msg"`
}

// ValidationError lists every field that failed validation.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Msg)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Msg: msg}}}
}

// ServiceError hides a storage or internal fault behind a generic message.
// The cause stays reachable through Unwrap for logging.
type ServiceError struct {
	Message string
	Cause   error
}

func (e *ServiceError) Error() string { return e.Message }

func (e *ServiceError) Unwrap() error { return e.Cause }

// NewServiceError wraps cause with a client-safe message.
func NewServiceError(message string, cause error) *ServiceError {
	return &ServiceError{Message: message, Cause: cause}
}
