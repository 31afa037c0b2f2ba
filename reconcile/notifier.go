package reconcile

import (
	"context"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/librarydesk/core"
)

// Outcome is the one-shot report of a settled mutation.
type Outcome struct {
	Ticket     uuid.UUID
	Kind       core.MutationKind
	Succeeded  bool
	Idempotent bool
	Message    string
	Err        error
}

// Notifier receives every outcome exactly once.
type Notifier interface {
	Notify(ctx context.Context, outcome Outcome)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, outcome Outcome)

// Notify implements Notifier.
func (f NotifierFunc) Notify(ctx context.Context, outcome Outcome) {
	f(ctx, outcome)
}
