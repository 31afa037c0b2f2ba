package core

// DecisionResult represents the outcome of a business decision in a Decide function.
//
// IMPORTANT: DecisionResult should only be constructed using the provided factory methods:
// IdempotentDecision(), SuccessDecision(mutation), or ErrorDecision(err).
type DecisionResult struct {
	Outcome  string   // "idempotent", "success", or "error"
	Mutation Mutation // nil unless the outcome is success
	Err      error
}

const (
	idempotentOutcome = "idempotent"
	successOutcome    = "success"
	errorOutcome      = "error"
)

// IdempotentDecision creates a DecisionResult indicating no request is needed.
func IdempotentDecision() DecisionResult {
	return DecisionResult{
		Outcome: idempotentOutcome,
	}
}

// SuccessDecision creates a DecisionResult carrying the mutation to submit.
func SuccessDecision(mutation Mutation) DecisionResult {
	return DecisionResult{
		Outcome:  successOutcome,
		Mutation: mutation,
	}
}

// ErrorDecision creates a DecisionResult for a local rule violation. Nothing is submitted.
func ErrorDecision(err error) DecisionResult {
	return DecisionResult{
		Outcome: errorOutcome,
		Err:     err,
	}
}

// HasMutationToSubmit returns true if a request must be sent to the remote service.
func (r DecisionResult) HasMutationToSubmit() bool {
	return r.Outcome == successOutcome
}

// IsIdempotent returns true if the requested state already holds.
func (r DecisionResult) IsIdempotent() bool {
	return r.Outcome == idempotentOutcome
}

// HasError returns the error if there is one, otherwise nil.
func (r DecisionResult) HasError() error {
	if r.Outcome == errorOutcome {
		return r.Err
	}

	return nil
}
