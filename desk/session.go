package desk

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AntonStoeckl/librarydesk/core"
	"github.com/AntonStoeckl/librarydesk/features/command/addbook"
	"github.com/AntonStoeckl/librarydesk/features/command/confirmreturn"
	"github.com/AntonStoeckl/librarydesk/features/command/recordborrow"
	"github.com/AntonStoeckl/librarydesk/features/command/removebook"
	"github.com/AntonStoeckl/librarydesk/features/command/restorebook"
	"github.com/AntonStoeckl/librarydesk/features/isbnresolver"
	"github.com/AntonStoeckl/librarydesk/features/query/borrowrecords"
	"github.com/AntonStoeckl/librarydesk/features/query/categories"
	"github.com/AntonStoeckl/librarydesk/features/query/listbooks"
	"github.com/AntonStoeckl/librarydesk/reconcile"
	"github.com/AntonStoeckl/librarydesk/shell"
	"github.com/AntonStoeckl/librarydesk/shell/config"
)

var (
	// ErrBookNotProjected is returned when a book is not part of the projected page.
	ErrBookNotProjected = errors.New("book is not on the current page")

	// ErrNoOutstandingLoan is returned when no projected record is outstanding for a book and user.
	ErrNoOutstandingLoan = errors.New("no outstanding loan for this book and user")
)

// Remote is the part of the library service a Session talks to.
type Remote interface {
	listbooks.BooksLister
	isbnresolver.Lookuper
	addbook.BookSubmitter
	removebook.DeletionSubmitter
	recordborrow.BorrowSubmitter
	borrowrecords.RecordsLister
	categories.CategoriesLister
}

// Session is one librarian's working state against the library service.
// It is safe for concurrent use.
type Session struct {
	categories categories.Handler

	addBook       shell.CommandHandler[addbook.Command]
	removeBook    shell.CommandHandler[removebook.Command]
	restoreBook   shell.CommandHandler[restorebook.Command]
	recordBorrow  shell.CommandHandler[recordborrow.Command]
	confirmReturn shell.CommandHandler[confirmreturn.Command]

	resolver       *isbnresolver.Resolver
	reconciler     *reconcile.Reconciler
	categoryLookup *core.CategoryLookup
}

// NewSession wires every handler, wrapped with observability, the ISBN resolver and the reconciler.
func NewSession(cfg config.Config, remote Remote, opts ...Option) (*Session, error) {
	o := sessionOptions{scope: core.BorrowScopeAll, clock: shell.SystemClock{}}
	for _, opt := range opts {
		opt(&o)
	}

	descriptor, err := listbooks.NewDescriptor().WithLimit(cfg.PageLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to apply page limit: %w", err)
	}

	books, err := wrapQuery[listbooks.Query, core.BookPage](
		listbooks.NewQueryHandler(remote, listbooks.WithRetryOptions(o.retryFor(listbooks.Query{}.QueryType())...)), o)
	if err != nil {
		return nil, fmt.Errorf("failed to create ListBooks handler: %w", err)
	}

	records, err := wrapQuery[borrowrecords.Query, []core.BorrowRecord](
		borrowrecords.NewQueryHandler(remote, borrowrecords.WithRetryOptions(o.retryFor(borrowrecords.Query{}.QueryType())...)), o)
	if err != nil {
		return nil, fmt.Errorf("failed to create ListBorrowRecords handler: %w", err)
	}

	categoryHandler, err := wrapQuery[categories.Query, []core.Category](
		categories.NewQueryHandler(remote, categories.WithRetryOptions(o.retryFor(categories.Query{}.QueryType())...)), o)
	if err != nil {
		return nil, fmt.Errorf("failed to create ListCategories handler: %w", err)
	}

	s := &Session{
		categories:     categoryHandler,
		categoryLookup: core.NewCategoryLookup(nil),
	}

	if s.addBook, err = wrapCommand[addbook.Command](addbook.NewCommandHandler(remote), o); err != nil {
		return nil, fmt.Errorf("failed to create AddBook handler: %w", err)
	}

	if s.removeBook, err = wrapCommand[removebook.Command](removebook.NewCommandHandler(remote), o); err != nil {
		return nil, fmt.Errorf("failed to create RemoveBook handler: %w", err)
	}

	if s.restoreBook, err = wrapCommand[restorebook.Command](restorebook.NewCommandHandler(remote), o); err != nil {
		return nil, fmt.Errorf("failed to create RestoreBook handler: %w", err)
	}

	if s.recordBorrow, err = wrapCommand[recordborrow.Command](recordborrow.NewCommandHandler(remote), o); err != nil {
		return nil, fmt.Errorf("failed to create RecordBorrow handler: %w", err)
	}

	if s.confirmReturn, err = wrapCommand[confirmreturn.Command](confirmreturn.NewCommandHandler(remote), o); err != nil {
		return nil, fmt.Errorf("failed to create ConfirmReturn handler: %w", err)
	}

	s.resolver, err = isbnresolver.NewResolver(remote,
		isbnresolver.WithClock(o.clock),
		isbnresolver.WithQuietInterval(cfg.ISBNQuiet),
		isbnresolver.WithLogging(o.logger),
		isbnresolver.WithContextualLogging(o.contextualLogger),
		isbnresolver.WithMetrics(o.metricsCollector),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create ISBN resolver: %w", err)
	}

	s.reconciler, err = reconcile.NewReconciler(books, records,
		reconcile.WithDescriptor(descriptor),
		reconcile.WithBorrowScope(o.scope),
		reconcile.WithNotifier(o.notifier),
		reconcile.WithLogging(o.logger),
		reconcile.WithContextualLogging(o.contextualLogger),
		reconcile.WithMetrics(o.metricsCollector),
		reconcile.WithTracing(o.tracingCollector),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create reconciler: %w", err)
	}

	return s, nil
}

// Close stops the pending ISBN debounce timer.
func (s *Session) Close() {
	s.resolver.Close()
}

// Browse fetches the page of d. An identical descriptor is served from the projection.
func (s *Session) Browse(ctx context.Context, d listbooks.Descriptor) (core.BookPage, error) {
	if _, err := s.reconciler.SetDescriptor(ctx, d); err != nil {
		return core.BookPage{}, err
	}

	return s.reconciler.Books(), nil
}

// Descriptor returns the descriptor of the projected page.
func (s *Session) Descriptor() listbooks.Descriptor {
	return s.reconciler.Descriptor()
}

// Books returns the projected page.
func (s *Session) Books() core.BookPage {
	return s.reconciler.Books()
}

// SetFacet derives a descriptor from the current one and browses it.
// A failing change leaves the listing untouched.
func (s *Session) SetFacet(ctx context.Context, change func(listbooks.Descriptor) (listbooks.Descriptor, error)) (core.BookPage, error) {
	next, err := change(s.reconciler.Descriptor())
	if err != nil {
		return core.BookPage{}, err
	}

	return s.Browse(ctx, next)
}

// Search sets the search term.
func (s *Session) Search(ctx context.Context, term string) (core.BookPage, error) {
	return s.SetFacet(ctx, func(d listbooks.Descriptor) (listbooks.Descriptor, error) {
		return d.WithSearch(term), nil
	})
}

// SortBy sets the sort key.
func (s *Session) SortBy(ctx context.Context, key listbooks.SortKey) (core.BookPage, error) {
	return s.SetFacet(ctx, func(d listbooks.Descriptor) (listbooks.Descriptor, error) {
		return d.WithSort(key)
	})
}

// FilterAvailability sets the availability filter.
func (s *Session) FilterAvailability(ctx context.Context, availability listbooks.Availability) (core.BookPage, error) {
	return s.SetFacet(ctx, func(d listbooks.Descriptor) (listbooks.Descriptor, error) {
		return d.WithAvailability(availability)
	})
}

// FilterPrice replaces both price bounds. A minimum above the maximum is rejected.
func (s *Session) FilterPrice(ctx context.Context, minPrice, maxPrice decimal.NullDecimal) (core.BookPage, error) {
	return s.SetFacet(ctx, func(d listbooks.Descriptor) (listbooks.Descriptor, error) {
		// Clearing first keeps the range check from seeing the old opposite bound.
		cleared, err := d.WithMinPrice(decimal.NullDecimal{})
		if err != nil {
			return d, err
		}

		if cleared, err = cleared.WithMaxPrice(decimal.NullDecimal{}); err != nil {
			return d, err
		}

		if cleared, err = cleared.WithMinPrice(minPrice); err != nil {
			return d, err
		}

		return cleared.WithMaxPrice(maxPrice)
	})
}

// FilterCategory sets the category filter, empty clears it.
func (s *Session) FilterCategory(ctx context.Context, id core.CategoryIDString) (core.BookPage, error) {
	return s.SetFacet(ctx, func(d listbooks.Descriptor) (listbooks.Descriptor, error) {
		return d.WithCategory(id), nil
	})
}

// ShowDeleted switches between the active and the soft-deleted listing.
func (s *Session) ShowDeleted(ctx context.Context, deleted bool) (core.BookPage, error) {
	state := core.DeletionStateActive
	if deleted {
		state = core.DeletionStateDeleted
	}

	return s.SetFacet(ctx, func(d listbooks.Descriptor) (listbooks.Descriptor, error) {
		return d.WithDeletionState(state)
	})
}

// SetPageSize sets the page size.
func (s *Session) SetPageSize(ctx context.Context, limit int) (core.BookPage, error) {
	return s.SetFacet(ctx, func(d listbooks.Descriptor) (listbooks.Descriptor, error) {
		return d.WithLimit(limit)
	})
}

// GoToPage moves to page p.
func (s *Session) GoToPage(ctx context.Context, p int) (core.BookPage, error) {
	return s.SetFacet(ctx, func(d listbooks.Descriptor) (listbooks.Descriptor, error) {
		return d.WithPage(p)
	})
}

// NextPage moves one page forward. On the last page it returns the projection unchanged.
func (s *Session) NextPage(ctx context.Context) (core.BookPage, error) {
	page := s.reconciler.Books()
	current := s.reconciler.Descriptor().Page()

	if current >= page.TotalPages {
		return page, nil
	}

	return s.GoToPage(ctx, current+1)
}

// PrevPage moves one page back. On the first page it returns the projection unchanged.
func (s *Session) PrevPage(ctx context.Context) (core.BookPage, error) {
	current := s.reconciler.Descriptor().Page()
	if current <= 1 {
		return s.reconciler.Books(), nil
	}

	return s.GoToPage(ctx, current-1)
}

// Book returns a book of the projected page.
func (s *Session) Book(id core.BookIDString) (core.Book, error) {
	for _, book := range s.reconciler.Books().Books {
		if book.ID == id {
			return book, nil
		}
	}

	return core.Book{}, fmt.Errorf("%w: %s", ErrBookNotProjected, id)
}

// TypeISBN records the raw ISBN input of the add-book form.
func (s *Session) TypeISBN(raw string) isbnresolver.Resolution {
	s.resolver.SetInput(raw)

	return s.resolver.Resolution()
}

// CheckISBN forces a lookup of the current ISBN input.
func (s *Session) CheckISBN(ctx context.Context) (isbnresolver.Resolution, error) {
	return s.resolver.Check(ctx)
}

// ToggleEdit flips the edit toggle of a known title.
func (s *Session) ToggleEdit() bool {
	return s.resolver.ToggleEdit()
}

// SetField sets one metadata input of the add-book form.
func (s *Session) SetField(field isbnresolver.Field, value string) error {
	return s.resolver.SetField(field, value)
}

// Resolution returns the current state of the add-book form.
func (s *Session) Resolution() isbnresolver.Resolution {
	return s.resolver.Resolution()
}

// SubmitBook submits the add-book form with rawCopies copies.
// It waits for a verdict on the ISBN first. A failed lookup blocks the submission.
// The form is reset after a successful submission.
func (s *Session) SubmitBook(ctx context.Context, rawCopies string) (reconcile.Outcome, error) {
	resolution, err := s.resolver.Ensure(ctx)
	if err != nil {
		return reconcile.Outcome{}, fmt.Errorf("isbn could not be checked: %w", err)
	}

	outcome, err := s.reconciler.Submit(ctx, core.MutationAddBook, func(ctx context.Context) (shell.HandlerResult, error) {
		return s.addBook.Handle(ctx, addbook.BuildCommand(resolution, rawCopies))
	})

	if outcome.Succeeded && !outcome.Idempotent {
		s.resolver.Reset()
	}

	return outcome, err
}

// RemoveBook soft-deletes book.
func (s *Session) RemoveBook(ctx context.Context, book core.Book) (reconcile.Outcome, error) {
	return s.reconciler.Submit(ctx, core.MutationRemoveBook, func(ctx context.Context) (shell.HandlerResult, error) {
		return s.removeBook.Handle(ctx, removebook.BuildCommand(book))
	})
}

// RestoreBook reverts the soft delete of book.
func (s *Session) RestoreBook(ctx context.Context, book core.Book) (reconcile.Outcome, error) {
	return s.reconciler.Submit(ctx, core.MutationRestoreBook, func(ctx context.Context) (shell.HandlerResult, error) {
		return s.restoreBook.Handle(ctx, restorebook.BuildCommand(book))
	})
}

// RecordBorrow lends one copy of book to the user with email.
func (s *Session) RecordBorrow(ctx context.Context, book core.Book, email string) (reconcile.Outcome, error) {
	return s.reconciler.Submit(ctx, core.MutationRecordBorrow, func(ctx context.Context) (shell.HandlerResult, error) {
		return s.recordBorrow.Handle(ctx, recordborrow.BuildCommand(book, email))
	})
}

// ConfirmReturn marks record as returned.
func (s *Session) ConfirmReturn(ctx context.Context, record core.BorrowRecord) (reconcile.Outcome, error) {
	return s.reconciler.Submit(ctx, core.MutationConfirmReturn, func(ctx context.Context) (shell.HandlerResult, error) {
		return s.confirmReturn.Handle(ctx, confirmreturn.BuildCommand(record))
	})
}

// OutstandingRecord returns the projected outstanding loan of bookID by email.
func (s *Session) OutstandingRecord(bookID core.BookIDString, email core.EmailString) (core.BorrowRecord, error) {
	for _, record := range s.reconciler.BorrowRecords() {
		if record.BookID == bookID && record.UserEmail == email && record.IsOutstanding() {
			return record, nil
		}
	}

	return core.BorrowRecord{}, ErrNoOutstandingLoan
}

// RefreshBorrowRecords fetches the borrow records of the session scope.
func (s *Session) RefreshBorrowRecords(ctx context.Context) error {
	return s.reconciler.Refresh(ctx, reconcile.CollectionBorrowRecords)
}

// BorrowRecords returns the projected borrow records.
func (s *Session) BorrowRecords() []core.BorrowRecord {
	return s.reconciler.BorrowRecords()
}

// CatalogPartition splits the projected records into active and overdue loans at now.
func (s *Session) CatalogPartition(now time.Time) borrowrecords.CatalogPartition {
	return borrowrecords.ProjectCatalog(s.reconciler.BorrowRecords(), now)
}

// PersonalPartition splits the projected records into returned and outstanding loans.
func (s *Session) PersonalPartition() borrowrecords.PersonalPartition {
	return borrowrecords.ProjectPersonal(s.reconciler.BorrowRecords())
}

// CategoryName resolves a category id, building the lookup table on first use.
// When the table cannot be built the raw id is returned with the error.
func (s *Session) CategoryName(ctx context.Context, id core.CategoryIDString) (string, error) {
	err := s.RefreshCategories(ctx)

	return s.categoryLookup.Name(id), err
}

// RefreshCategories builds the category table when it is missing or stale.
func (s *Session) RefreshCategories(ctx context.Context) error {
	return categories.Refresh(ctx, s.categories, s.categoryLookup)
}

// CategoryNames resolves ids against the current table without fetching.
// Unknown ids, and every id before the first build, resolve to themselves.
func (s *Session) CategoryNames(ids []core.CategoryIDString) []string {
	return s.categoryLookup.Names(ids)
}

// Categories lists every category.
func (s *Session) Categories(ctx context.Context) ([]core.Category, error) {
	return s.categories.Handle(ctx, categories.BuildQuery())
}

// InvalidateCategories marks the category table stale after a category change.
func (s *Session) InvalidateCategories() {
	s.categoryLookup.Invalidate()
}

func (o sessionOptions) retryFor(queryType string) []shell.RetryOption {
	opts := append([]shell.RetryOption(nil), o.retryOptions...)
	if o.metricsCollector != nil {
		opts = append(opts, shell.WithMetrics(o.metricsCollector, queryType))
	}

	return opts
}
