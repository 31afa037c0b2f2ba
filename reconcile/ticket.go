package reconcile

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/librarydesk/core"
)

// TicketState is the phase of one mutation.
type TicketState string

const (
	TicketNeutral   TicketState = "neutral"
	TicketPending   TicketState = "pending"
	TicketSucceeded TicketState = "succeeded"
	TicketFailed    TicketState = "failed"
)

// ErrInvalidTransition is returned for a ticket transition the state machine does not allow.
var ErrInvalidTransition = errors.New("invalid ticket transition")

// Ticket tracks one mutation through pending to its outcome.
type Ticket struct {
	id   uuid.UUID
	kind core.MutationKind

	mu         sync.Mutex
	state      TicketState
	message    string
	err        error
	idempotent bool
}

// NewTicket creates a neutral ticket for a mutation of kind.
func NewTicket(kind core.MutationKind) *Ticket {
	return &Ticket{
		id:    uuid.New(),
		kind:  kind,
		state: TicketNeutral,
	}
}

// ID returns the ticket identifier.
func (t *Ticket) ID() uuid.UUID { return t.id }

// Kind returns the mutation kind.
func (t *Ticket) Kind() core.MutationKind { return t.kind }

// State returns the current phase.
func (t *Ticket) State() TicketState {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.state
}

// Begin moves a neutral ticket to pending.
func (t *Ticket) Begin() error {
	return t.transition(TicketNeutral, TicketPending, func() {})
}

// Succeed settles a pending ticket with the service message.
// An idempotent success changed nothing remotely.
func (t *Ticket) Succeed(message string, idempotent bool) error {
	return t.transition(TicketPending, TicketSucceeded, func() {
		t.message = message
		t.idempotent = idempotent
	})
}

// Fail settles a pending ticket with err.
func (t *Ticket) Fail(err error) error {
	return t.transition(TicketPending, TicketFailed, func() {
		t.err = err
		t.message = core.UserMessage(err)
	})
}

// Reset returns a settled ticket to neutral and clears its outcome.
func (t *Ticket) Reset() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != TicketSucceeded && t.state != TicketFailed {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, t.state, TicketNeutral)
	}

	t.state = TicketNeutral
	t.message = ""
	t.err = nil
	t.idempotent = false

	return nil
}

// Outcome returns the settled outcome. It is only meaningful in a settled state.
func (t *Ticket) Outcome() Outcome {
	t.mu.Lock()
	defer t.mu.Unlock()

	return Outcome{
		Ticket:     t.id,
		Kind:       t.kind,
		Succeeded:  t.state == TicketSucceeded,
		Idempotent: t.idempotent,
		Message:    t.message,
		Err:        t.err,
	}
}

func (t *Ticket) transition(from, to TicketState, apply func()) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != from {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, t.state, to)
	}

	t.state = to
	apply()

	return nil
}

func (t *Ticket) refetches() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.state == TicketSucceeded && !t.idempotent
}
