package core

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks a local, pre-submission failure. It is never sent to the remote service.
	ErrValidation = errors.New("validation failed")

	// ErrConflict marks a rejection reported by the remote service.
	ErrConflict = errors.New("rejected by remote service")

	// ErrTransport marks a request that could not reach the remote service or got no usable answer.
	ErrTransport = errors.New("remote service unreachable")
)

// ValidationError names the field that blocked a submission.
type ValidationError struct {
	Field  string
	Reason string
}

// NewValidationError creates a ValidationError for field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

// Unwrap makes errors.Is(err, ErrValidation) hold.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// RemoteError carries the human-readable message of a failed remote call.
// Kind is either ErrConflict or ErrTransport.
type RemoteError struct {
	Kind       error
	StatusCode int
	Message    string
	Cause      error
}

// NewConflictError creates a RemoteError for a request the service rejected.
func NewConflictError(statusCode int, message string) *RemoteError {
	return &RemoteError{Kind: ErrConflict, StatusCode: statusCode, Message: message}
}

// NewTransportError creates a RemoteError for a request that failed in transit.
func NewTransportError(statusCode int, message string, cause error) *RemoteError {
	return &RemoteError{Kind: ErrTransport, StatusCode: statusCode, Message: message, Cause: cause}
}

func (e *RemoteError) Error() string {
	msg := e.Message
	if msg == "" && e.Cause != nil {
		msg = e.Cause.Error()
	}

	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (status %d): %s", e.Kind, e.StatusCode, msg)
	}

	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

// Unwrap exposes both the kind sentinel and the underlying cause.
func (e *RemoteError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}

	return []error{e.Kind}
}

// UserMessage returns the message to surface for err: the service message for remote errors,
// the field and reason for validation errors, the error text otherwise.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var remoteErr *RemoteError
	if errors.As(err, &remoteErr) && remoteErr.Message != "" {
		return remoteErr.Message
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Error()
	}

	return err.Error()
}
