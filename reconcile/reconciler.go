package reconcile

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/AntonStoeckl/librarydesk/core"
	"github.com/AntonStoeckl/librarydesk/features/query/borrowrecords"
	"github.com/AntonStoeckl/librarydesk/features/query/listbooks"
	"github.com/AntonStoeckl/librarydesk/shell"
)

const (
	logMsgPassCompleted   = "reconciliation pass completed"
	logMsgPassFailed      = "reconciliation pass failed"
	logMsgOutcomeReported = "mutation outcome reported"
)

// ErrNilHandler is returned by NewReconciler when a query handler is missing.
var ErrNilHandler = errors.New("query handler must not be nil")

// BooksHandler fetches one page of books.
type BooksHandler = shell.QueryHandler[listbooks.Query, core.BookPage]

// BorrowRecordsHandler fetches the borrow records of one scope.
type BorrowRecordsHandler = shell.QueryHandler[borrowrecords.Query, []core.BorrowRecord]

// MutationFunc performs one mutation against the remote service.
type MutationFunc func(ctx context.Context) (shell.HandlerResult, error)

// Reconciler owns the local projections and refreshes them after mutations.
// Passes and descriptor fetches are serialized, reads of the projections never block on them.
type Reconciler struct {
	books   BooksHandler
	records BorrowRecordsHandler

	notifier         Notifier
	scope            core.BorrowScope
	logger           shell.Logger
	contextualLogger shell.ContextualLogger
	metricsCollector shell.MetricsCollector
	tracingCollector shell.TracingCollector

	passMu sync.Mutex

	mu             sync.Mutex
	descriptor     listbooks.Descriptor
	fetched        bool
	page           core.BookPage
	borrowRecords  []core.BorrowRecord
	settledTickets []*Ticket
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithNotifier sets the receiver of mutation outcomes.
func WithNotifier(notifier Notifier) Option {
	return func(r *Reconciler) {
		r.notifier = notifier
	}
}

// WithBorrowScope selects whose borrow records are projected. The default is BorrowScopeAll.
func WithBorrowScope(scope core.BorrowScope) Option {
	return func(r *Reconciler) {
		r.scope = scope
	}
}

// WithDescriptor sets the descriptor used until the first SetDescriptor.
func WithDescriptor(descriptor listbooks.Descriptor) Option {
	return func(r *Reconciler) {
		r.descriptor = descriptor
	}
}

// WithLogging sets the logger for pass reporting.
func WithLogging(logger shell.Logger) Option {
	return func(r *Reconciler) {
		r.logger = logger
	}
}

// WithContextualLogging sets the contextual logger for pass reporting.
func WithContextualLogging(logger shell.ContextualLogger) Option {
	return func(r *Reconciler) {
		r.contextualLogger = logger
	}
}

// WithMetrics sets the metrics collector for pass instrumentation.
func WithMetrics(collector shell.MetricsCollector) Option {
	return func(r *Reconciler) {
		r.metricsCollector = collector
	}
}

// WithTracing sets the tracing collector for pass spans.
func WithTracing(collector shell.TracingCollector) Option {
	return func(r *Reconciler) {
		r.tracingCollector = collector
	}
}

// NewReconciler creates a Reconciler with empty projections.
func NewReconciler(books BooksHandler, records BorrowRecordsHandler, opts ...Option) (*Reconciler, error) {
	if books == nil || records == nil {
		return nil, ErrNilHandler
	}

	r := &Reconciler{
		books:      books,
		records:    records,
		scope:      core.BorrowScopeAll,
		descriptor: listbooks.NewDescriptor(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r, nil
}

// Submit runs mutation under a new ticket, settles the ticket and runs a pass.
// The returned error is the mutation's error, or the pass error when the mutation succeeded.
func (r *Reconciler) Submit(ctx context.Context, kind core.MutationKind, mutation MutationFunc) (Outcome, error) {
	ticket := NewTicket(kind)
	if err := ticket.Begin(); err != nil {
		return Outcome{}, err
	}

	result, mutationErr := mutation(ctx)
	if mutationErr != nil {
		_ = ticket.Fail(mutationErr)
	} else {
		_ = ticket.Succeed(result.Message, result.Idempotent)
	}

	outcome := ticket.Outcome()
	r.settle(ticket)

	passErr := r.Pass(ctx)
	if mutationErr != nil {
		return outcome, mutationErr
	}

	return outcome, passErr
}

// Settle queues an externally driven ticket for the next pass. The ticket must be settled.
func (r *Reconciler) Settle(ticket *Ticket) error {
	switch ticket.State() {
	case TicketSucceeded, TicketFailed:
	default:
		return ErrInvalidTransition
	}

	r.settle(ticket)

	return nil
}

// Pass drains every settled ticket, refetches the affected collections once each,
// reports every outcome and resets the drained tickets to neutral.
func (r *Reconciler) Pass(ctx context.Context) error {
	r.passMu.Lock()
	defer r.passMu.Unlock()

	r.mu.Lock()
	drained := r.settledTickets
	r.settledTickets = nil
	r.mu.Unlock()

	if len(drained) == 0 {
		return nil
	}

	start := time.Now()
	affected := affectedBy(drained)
	ctx, span := r.startPassSpan(ctx, affected)

	err := r.refetch(ctx, affected)

	for _, ticket := range drained {
		r.report(ctx, ticket.Outcome())
		_ = ticket.Reset()
	}

	duration := time.Since(start)
	status := shell.StatusFor(err)
	shell.RecordDuration(ctx, r.metricsCollector, shell.ReconcilerPassDurationMetric, duration, map[string]string{
		shell.LogAttrStatus: status,
	})
	shell.FinishSpan(r.tracingCollector, span, status, duration, err)

	if err != nil {
		shell.LogError(ctx, r.logger, r.contextualLogger, logMsgPassFailed,
			shell.LogAttrCollection, joinCollections(affected),
			shell.LogAttrError, err.Error(),
		)

		return err
	}

	shell.LogInfo(ctx, r.logger, r.contextualLogger, logMsgPassCompleted,
		shell.LogAttrCollection, joinCollections(affected),
		shell.LogAttrDurationMS, shell.ToMilliseconds(duration),
	)

	return nil
}

// SetDescriptor makes d the book descriptor and fetches its page.
// A descriptor equal to the last fetched one does not fetch again. It reports whether a fetch happened.
func (r *Reconciler) SetDescriptor(ctx context.Context, d listbooks.Descriptor) (bool, error) {
	r.passMu.Lock()
	defer r.passMu.Unlock()

	r.mu.Lock()
	unchanged := r.fetched && r.descriptor.Equal(d)
	r.mu.Unlock()

	if unchanged {
		return false, nil
	}

	return true, r.fetchBooks(ctx, d)
}

// Refresh fetches the given collections, all of them when none are named.
func (r *Reconciler) Refresh(ctx context.Context, collections ...Collection) error {
	if len(collections) == 0 {
		collections = []Collection{CollectionBooks, CollectionBorrowRecords}
	}

	r.passMu.Lock()
	defer r.passMu.Unlock()

	return r.refetch(ctx, collections)
}

// Descriptor returns the descriptor of the projected book page.
func (r *Reconciler) Descriptor() listbooks.Descriptor {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.descriptor
}

// Books returns a copy of the projected book page.
func (r *Reconciler) Books() core.BookPage {
	r.mu.Lock()
	defer r.mu.Unlock()

	page := r.page
	page.Books = append([]core.Book(nil), r.page.Books...)

	return page
}

// BorrowRecords returns a copy of the projected borrow records.
func (r *Reconciler) BorrowRecords() []core.BorrowRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]core.BorrowRecord(nil), r.borrowRecords...)
}

func (r *Reconciler) settle(ticket *Ticket) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.settledTickets = append(r.settledTickets, ticket)
}

// refetch fetches each collection once. The fetches run concurrently and one failing
// does not cancel the others.
func (r *Reconciler) refetch(ctx context.Context, collections []Collection) error {
	r.mu.Lock()
	descriptor := r.descriptor
	r.mu.Unlock()

	var group errgroup.Group

	for _, collection := range collections {
		shell.IncrementCounter(ctx, r.metricsCollector, shell.ReconcilerRefetchesMetric, map[string]string{
			shell.LogAttrCollection: string(collection),
		})

		switch collection {
		case CollectionBooks:
			group.Go(func() error {
				return r.fetchBooks(ctx, descriptor)
			})
		case CollectionBorrowRecords:
			group.Go(func() error {
				return r.fetchBorrowRecords(ctx)
			})
		}
	}

	return group.Wait()
}

// fetchBooks fetches the page of d. When the page lies beyond the reported total,
// the descriptor is clamped to the last page and fetched exactly once more.
func (r *Reconciler) fetchBooks(ctx context.Context, d listbooks.Descriptor) error {
	page, err := r.books.Handle(ctx, listbooks.BuildQuery(d))
	if err != nil {
		return err
	}

	if clamped, changed := d.Clamp(page.TotalPages); changed {
		shell.IncrementCounter(ctx, r.metricsCollector, shell.ReconcilerClampsMetric, map[string]string{
			shell.LogAttrCollection: string(CollectionBooks),
		})

		page, err = r.books.Handle(ctx, listbooks.BuildQuery(clamped))
		if err != nil {
			return err
		}

		d = clamped
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.descriptor = d
	r.page = page
	r.fetched = true

	return nil
}

func (r *Reconciler) fetchBorrowRecords(ctx context.Context) error {
	records, err := r.records.Handle(ctx, borrowrecords.BuildQuery(r.scope))
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.borrowRecords = records

	return nil
}

func (r *Reconciler) report(ctx context.Context, outcome Outcome) {
	status := shell.StatusSuccess
	switch {
	case outcome.Err != nil:
		status = shell.StatusFor(outcome.Err)
	case outcome.Idempotent:
		status = shell.StatusIdempotent
	}

	shell.IncrementCounter(ctx, r.metricsCollector, shell.ReconcilerOutcomesMetric, map[string]string{
		shell.LogAttrStatus:       status,
		shell.LogAttrMutationKind: string(outcome.Kind),
	})

	shell.LogInfo(ctx, r.logger, r.contextualLogger, logMsgOutcomeReported,
		shell.LogAttrTicket, outcome.Ticket.String(),
		shell.LogAttrMutationKind, string(outcome.Kind),
		shell.LogAttrStatus, status,
	)

	if r.notifier != nil {
		r.notifier.Notify(ctx, outcome)
	}
}

func (r *Reconciler) startPassSpan(ctx context.Context, affected []Collection) (context.Context, shell.SpanContext) {
	if r.tracingCollector == nil {
		return ctx, nil
	}

	return r.tracingCollector.StartSpan(ctx, shell.SpanNameReconcilePass, map[string]string{
		shell.LogAttrCollection: joinCollections(affected),
	})
}

// affectedBy returns the union of the collections of every ticket that needs a refetch,
// in first-seen order.
func affectedBy(tickets []*Ticket) []Collection {
	seen := make(map[Collection]bool, 2)
	var union []Collection

	for _, ticket := range tickets {
		if !ticket.refetches() {
			continue
		}

		for _, collection := range AffectedCollections(ticket.Kind()) {
			if !seen[collection] {
				seen[collection] = true
				union = append(union, collection)
			}
		}
	}

	return union
}

func joinCollections(collections []Collection) string {
	names := make([]string, 0, len(collections))
	for _, collection := range collections {
		names = append(names, string(collection))
	}

	return strings.Join(names, ",")
}
