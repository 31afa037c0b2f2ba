package shell

// HandlerResult represents the outcome of a command handler execution.
// Message is the human-readable confirmation returned by the remote service.
type HandlerResult struct {
	// Idempotent indicates that the requested state already held locally and nothing was submitted.
	// This is a first-class business outcome, not an error condition.
	Idempotent bool

	// Submitted indicates that a request reached the remote service.
	Submitted bool

	// Message is the service confirmation, empty unless Submitted.
	Message string
}

// NewSuccessResult creates a HandlerResult for a request the remote service accepted.
func NewSuccessResult(message string) HandlerResult {
	return HandlerResult{
		Submitted: true,
		Message:   message,
	}
}

// NewIdempotentResult creates a HandlerResult for operations that needed no request.
func NewIdempotentResult() HandlerResult {
	return HandlerResult{
		Idempotent: true,
	}
}

// NewErrorResult creates a HandlerResult for failed operations.
// submitted tells whether the failure happened after the request was sent.
func NewErrorResult(submitted bool) HandlerResult {
	return HandlerResult{
		Submitted: submitted,
	}
}
