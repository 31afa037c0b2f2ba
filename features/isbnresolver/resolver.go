package isbnresolver

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/AntonStoeckl/librarydesk/core"
	"github.com/AntonStoeckl/librarydesk/shell"
)

// DefaultQuietInterval is the debounce interval between the last keystroke and the lookup.
const DefaultQuietInterval = 450 * time.Millisecond

const (
	logMsgLookupStarted   = "isbn lookup started"
	logMsgLookupCompleted = "isbn lookup completed"
	logMsgLookupFailed    = "isbn lookup failed"
	logMsgLookupDiscarded = "isbn lookup discarded"
)

// ErrNegativeQuietInterval is returned by WithQuietInterval for a negative interval.
var ErrNegativeQuietInterval = errors.New("quiet interval must not be negative")

// Lookuper defines the remote operation needed by the Resolver.
type Lookuper interface {
	LookupByISBN(ctx context.Context, isbn core.ISBNString) (core.ISBNLookupResult, error)
}

// Resolver tracks one ISBN input and its classification. It is safe for concurrent use.
type Resolver struct {
	lookuper         Lookuper
	clock            shell.Clock
	quiet            time.Duration
	logger           shell.Logger
	contextualLogger shell.ContextualLogger
	metricsCollector shell.MetricsCollector

	flights singleflight.Group

	mu          sync.Mutex
	input       core.ISBNString
	status      Status
	editEnabled bool
	fields      Fields
	timer       shell.Timer

	// last lookup that produced a verdict
	resolvedKey    core.ISBNString
	resolvedResult core.ISBNLookupResult
}

// Option configures a Resolver.
type Option func(*Resolver) error

// WithClock sets the clock that drives the debounce timer.
func WithClock(clock shell.Clock) Option {
	return func(r *Resolver) error {
		r.clock = clock
		return nil
	}
}

// WithQuietInterval sets the debounce interval. Zero looks up on the next timer tick.
func WithQuietInterval(d time.Duration) Option {
	return func(r *Resolver) error {
		if d < 0 {
			return ErrNegativeQuietInterval
		}

		r.quiet = d

		return nil
	}
}

// WithLogging sets the logger for lookup reporting.
func WithLogging(logger shell.Logger) Option {
	return func(r *Resolver) error {
		r.logger = logger
		return nil
	}
}

// WithContextualLogging sets the contextual logger for lookup reporting.
func WithContextualLogging(logger shell.ContextualLogger) Option {
	return func(r *Resolver) error {
		r.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for lookup counting.
func WithMetrics(collector shell.MetricsCollector) Option {
	return func(r *Resolver) error {
		r.metricsCollector = collector
		return nil
	}
}

// NewResolver creates a Resolver with empty input.
func NewResolver(lookuper Lookuper, opts ...Option) (*Resolver, error) {
	r := &Resolver{
		lookuper: lookuper,
		clock:    shell.SystemClock{},
		quiet:    DefaultQuietInterval,
		status:   StatusUnset,
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// SetInput records the raw ISBN text. A changed key resets the verdict and schedules a lookup
// once the input has been quiet. Returning to the last resolved key restores its verdict
// without a new request.
func (r *Resolver) SetInput(raw string) {
	key := core.NormalizeISBN(raw)

	r.mu.Lock()
	defer r.mu.Unlock()

	if key == r.input {
		return
	}

	r.stopTimer()

	if r.status == StatusExists {
		r.fields = Fields{}
	}

	r.input = key
	r.status = StatusUnset
	r.editEnabled = false

	if key == "" {
		return
	}

	if key == r.resolvedKey {
		r.applyVerdict(r.resolvedResult)
		return
	}

	r.timer = r.clock.AfterFunc(r.quiet, func() {
		r.lookupIfCurrent(key)
	})
}

// ToggleEdit flips the edit toggle of a known title and returns the new state.
// Under any other status it does nothing and returns false.
func (r *Resolver) ToggleEdit() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status != StatusExists {
		return false
	}

	r.editEnabled = !r.editEnabled

	return r.editEnabled
}

// SetField sets one metadata input. It fails with ErrFieldLocked while the fields are locked.
func (r *Resolver) SetField(field Field, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.snapshot().Locked() {
		return fmt.Errorf("%w: %s", ErrFieldLocked, field)
	}

	if err := r.fields.set(field, value); err != nil {
		return fmt.Errorf("%w: %q", err, field)
	}

	return nil
}

// Resolution returns the current state without waiting for pending lookups.
func (r *Resolver) Resolution() Resolution {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.snapshot()
}

// Ensure returns a resolution for the current input that is never checking or pending.
// A resolved key returns immediately, a lookup in flight is awaited, otherwise one lookup is forced.
// An empty input resolves to StatusUnset. A failed lookup is returned as the error.
func (r *Resolver) Ensure(ctx context.Context) (Resolution, error) {
	for {
		r.mu.Lock()
		key := r.input
		current := r.snapshot()
		if key == "" || (key == r.resolvedKey && r.status != StatusChecking) {
			r.mu.Unlock()
			return current, nil
		}
		r.stopTimer()
		r.mu.Unlock()

		if err := r.await(ctx, key); err != nil {
			return r.Resolution(), err
		}

		r.mu.Lock()
		stillCurrent := r.input == key
		r.mu.Unlock()

		if stillCurrent {
			return r.Resolution(), nil
		}
	}
}

// Check forces a lookup of the current input even when it is already resolved.
func (r *Resolver) Check(ctx context.Context) (Resolution, error) {
	r.mu.Lock()
	key := r.input
	if key == "" {
		defer r.mu.Unlock()
		return r.snapshot(), nil
	}
	r.stopTimer()
	r.resolvedKey = ""
	r.mu.Unlock()

	return r.Ensure(ctx)
}

// Reset clears the input, the fields and the cached verdict, e.g. after a successful submission.
// A lookup still in flight is discarded when it returns.
func (r *Resolver) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stopTimer()
	r.input = ""
	r.status = StatusUnset
	r.editEnabled = false
	r.fields = Fields{}
	r.resolvedKey = ""
	r.resolvedResult = core.ISBNLookupResult{}
}

// Close stops a pending debounce timer.
func (r *Resolver) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stopTimer()
}

func (r *Resolver) lookupIfCurrent(key core.ISBNString) {
	r.mu.Lock()
	current := r.input == key && r.resolvedKey != key
	r.mu.Unlock()

	if !current {
		return
	}

	_ = r.await(context.Background(), key)
}

// await joins or starts the flight for key. The lookup itself is detached from ctx
// so one abandoning waiter does not fail the others.
func (r *Resolver) await(ctx context.Context, key core.ISBNString) error {
	flightCtx := context.WithoutCancel(ctx)

	ch := r.flights.DoChan(key, func() (any, error) {
		return r.runLookup(flightCtx, key)
	})

	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-ch:
		return res.Err
	}
}

// runLookup performs one request and applies its result exactly once.
func (r *Resolver) runLookup(ctx context.Context, key core.ISBNString) (core.ISBNLookupResult, error) {
	r.mu.Lock()
	if r.input == key {
		r.status = StatusChecking
	}
	r.mu.Unlock()

	shell.LogInfo(ctx, r.logger, r.contextualLogger, logMsgLookupStarted, shell.LogAttrISBN, key)

	result, err := r.lookuper.LookupByISBN(ctx, key)

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.input != key {
		shell.LogInfo(ctx, r.logger, r.contextualLogger, logMsgLookupDiscarded, shell.LogAttrISBN, key)
		r.countLookup(ctx, shell.StatusDiscarded)

		return result, err
	}

	if err != nil {
		r.status = StatusUnset
		r.editEnabled = false
		shell.LogWarn(ctx, r.logger, r.contextualLogger, logMsgLookupFailed,
			shell.LogAttrISBN, key,
			shell.LogAttrError, err.Error(),
		)
		r.countLookup(ctx, shell.StatusFor(err))

		return result, err
	}

	r.resolvedKey = key
	r.resolvedResult = result
	r.applyVerdict(result)

	shell.LogInfo(ctx, r.logger, r.contextualLogger, logMsgLookupCompleted,
		shell.LogAttrISBN, key,
		shell.LogAttrStatus, string(r.status),
	)
	r.countLookup(ctx, string(r.status))

	return result, nil
}

func (r *Resolver) applyVerdict(result core.ISBNLookupResult) {
	r.editEnabled = false

	// Without metadata there is nothing to lock, so the title is handled as new.
	if !result.Exists || result.Book == nil {
		r.status = StatusNew
		return
	}

	r.status = StatusExists
	r.fields = fieldsFrom(*result.Book)
}

func (r *Resolver) snapshot() Resolution {
	return Resolution{
		Status:      r.status,
		ISBN:        r.input,
		EditEnabled: r.editEnabled,
		Fields:      r.fields,
	}
}

func (r *Resolver) stopTimer() {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}

func (r *Resolver) countLookup(ctx context.Context, status string) {
	if r.metricsCollector == nil {
		return
	}

	shell.IncrementCounter(ctx, r.metricsCollector, shell.ISBNLookupsMetric, map[string]string{
		shell.LogAttrStatus: status,
	})
}
