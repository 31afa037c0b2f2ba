package helper

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AntonStoeckl/librarydesk/core"
)

// Method names used for call counting and failure injection on FakeRemote.
const (
	FakeMethodListBooks            = "ListBooks"
	FakeMethodLookupByISBN         = "LookupByISBN"
	FakeMethodSubmitBookMutation   = "SubmitBookMutation"
	FakeMethodSetDeletionState     = "SetDeletionState"
	FakeMethodSubmitBorrowMutation = "SubmitBorrowMutation"
	FakeMethodListBorrowRecords    = "ListBorrowRecords"
	FakeMethodListCategories       = "ListCategories"
)

const (
	fakeDefaultLimit = 8
	fakeLoanPeriod   = 7 * 24 * time.Hour
)

// FakeRemote is an in-memory stand-in for the library service that enforces the same
// rules the service does. It is safe for concurrent use.
type FakeRemote struct {
	mu               sync.Mutex
	books            []core.Book
	records          []core.BorrowRecord
	categories       []core.Category
	currentUserEmail core.EmailString
	now              func() time.Time
	calls            map[string]int
	failures         map[string][]error
	lookupGate       chan struct{}
	listQueries      []url.Values
	nextID           int
}

// NewFakeRemote creates an empty FakeRemote. currentUserEmail scopes the "mine" borrow listing.
func NewFakeRemote(currentUserEmail core.EmailString, now func() time.Time) *FakeRemote {
	return &FakeRemote{
		currentUserEmail: currentUserEmail,
		now:              now,
		calls:            map[string]int{},
		failures:         map[string][]error{},
	}
}

// GivenBooks seeds books; later entries count as newer.
func (f *FakeRemote) GivenBooks(books ...core.Book) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.books = append(f.books, books...)
}

// GivenBorrowRecords seeds borrow records.
func (f *FakeRemote) GivenBorrowRecords(records ...core.BorrowRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.records = append(f.records, records...)
}

// GivenCategories seeds categories.
func (f *FakeRemote) GivenCategories(categories ...core.Category) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.categories = append(f.categories, categories...)
}

// FailNext queues err as the answer to the next call of method.
func (f *FakeRemote) FailNext(method string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.failures[method] = append(f.failures[method], err)
}

// HoldLookups makes every LookupByISBN block until ReleaseLookups is called.
func (f *FakeRemote) HoldLookups() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.lookupGate = make(chan struct{})
}

// ReleaseLookups unblocks every held LookupByISBN.
func (f *FakeRemote) ReleaseLookups() {
	f.mu.Lock()
	gate := f.lookupGate
	f.lookupGate = nil
	f.mu.Unlock()

	if gate != nil {
		close(gate)
	}
}

// Calls returns how often method was called.
func (f *FakeRemote) Calls(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.calls[method]
}

// ResetCalls clears every call counter and recorded list query.
func (f *FakeRemote) ResetCalls() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = map[string]int{}
	f.listQueries = nil
}

// ListQueries returns the encoded queries of every ListBooks call, in call order.
func (f *FakeRemote) ListQueries() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	encoded := make([]string, 0, len(f.listQueries))
	for _, q := range f.listQueries {
		encoded = append(encoded, q.Encode())
	}

	return encoded
}

// Book returns the stored state of a book.
func (f *FakeRemote) Book(id core.BookIDString) (core.Book, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if i := f.bookIndex(id); i >= 0 {
		return f.books[i], true
	}

	return core.Book{}, false
}

// ListBooks filters, sorts and paginates the stored books like the service does.
// A page beyond the last one yields an empty book list with the real totals.
func (f *FakeRemote) ListBooks(_ context.Context, query url.Values) (core.BookPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.listQueries = append(f.listQueries, cloneValues(query))
	if err := f.begin(FakeMethodListBooks); err != nil {
		return core.BookPage{}, err
	}

	page := atoiOr(query.Get("page"), 1)
	limit := atoiOr(query.Get("limit"), fakeDefaultLimit)

	matching := make([]core.Book, 0, len(f.books))
	for i := len(f.books) - 1; i >= 0; i-- {
		if matchesQuery(f.books[i], query) {
			matching = append(matching, f.books[i])
		}
	}

	sortBooks(matching, query.Get("sort"))

	totalPages := (len(matching) + limit - 1) / limit
	start := (page - 1) * limit
	end := start + limit
	if start > len(matching) {
		start = len(matching)
	}
	if end > len(matching) {
		end = len(matching)
	}

	return core.BookPage{
		Books:      append([]core.Book(nil), matching[start:end]...),
		TotalBooks: len(matching),
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

// LookupByISBN reports whether a title with isbn exists.
func (f *FakeRemote) LookupByISBN(ctx context.Context, isbn core.ISBNString) (core.ISBNLookupResult, error) {
	f.mu.Lock()
	gate := f.lookupGate
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return core.ISBNLookupResult{}, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.begin(FakeMethodLookupByISBN); err != nil {
		return core.ISBNLookupResult{}, err
	}

	for _, book := range f.books {
		if book.ISBN != "" && book.ISBN == isbn {
			metadata := book.Metadata()
			return core.ISBNLookupResult{Exists: true, Book: &metadata}, nil
		}
	}

	return core.ISBNLookupResult{}, nil
}

// SubmitBookMutation adds copies, creates a title or updates one.
func (f *FakeRemote) SubmitBookMutation(_ context.Context, payload core.BookMutationPayload) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.begin(FakeMethodSubmitBookMutation); err != nil {
		return "", err
	}

	if payload.Quantity < 1 {
		return "", core.NewConflictError(http.StatusBadRequest, "Quantity must be at least 1")
	}

	existing := -1
	if payload.ISBN != "" {
		for i, book := range f.books {
			if book.ISBN == payload.ISBN {
				existing = i
				break
			}
		}
	}

	switch payload.Intent {
	case core.IntentAddCopies, core.IntentUpdateTitle:
		if existing < 0 {
			return "", core.NewConflictError(http.StatusNotFound, "Book not found")
		}

		book := &f.books[existing]
		book.TotalCopies += payload.Quantity
		book.Quantity += payload.Quantity
		if payload.Intent == core.IntentUpdateTitle {
			book.Title, book.Author = payload.Title, payload.Author
			book.Description, book.Price = payload.Description, payload.Price
			return "Book updated successfully", nil
		}

		return "Copies added successfully", nil

	case core.IntentCreateTitle:
		if existing >= 0 {
			return "", core.NewConflictError(http.StatusConflict, "Book with this ISBN already exists")
		}

		f.nextID++
		f.books = append(f.books, core.Book{
			ID:          fmt.Sprintf("book-%d", f.nextID),
			ISBN:        payload.ISBN,
			Title:       payload.Title,
			Author:      payload.Author,
			Description: payload.Description,
			Price:       payload.Price,
			TotalCopies: payload.Quantity,
			Quantity:    payload.Quantity,
			CreatedAt:   core.ToTimestamp(f.now()),
		})

		return "Book added successfully", nil
	}

	return "", core.NewConflictError(http.StatusBadRequest, "Unknown intent")
}

// SetDeletionState soft-deletes or restores a book.
func (f *FakeRemote) SetDeletionState(_ context.Context, mutation core.DeletionMutation) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.begin(FakeMethodSetDeletionState); err != nil {
		return "", err
	}

	i := f.bookIndex(mutation.BookID)
	if i < 0 {
		return "", core.NewConflictError(http.StatusNotFound, "Book not found")
	}

	book := &f.books[i]
	if mutation.State == core.DeletionStateDeleted {
		if book.Quantity != book.TotalCopies {
			return "", core.NewConflictError(http.StatusBadRequest, "Book has copies on loan")
		}

		book.IsDeleted = true

		return "Book deleted successfully", nil
	}

	book.IsDeleted = false

	return "Book restored successfully", nil
}

// SubmitBorrowMutation records a loan or confirms a return.
func (f *FakeRemote) SubmitBorrowMutation(_ context.Context, mutation core.BorrowMutation) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.begin(FakeMethodSubmitBorrowMutation); err != nil {
		return "", err
	}

	i := f.bookIndex(mutation.BookID)
	if i < 0 {
		return "", core.NewConflictError(http.StatusNotFound, "Book not found")
	}

	book := &f.books[i]
	now := core.ToTimestamp(f.now())

	if mutation.Kind == core.BorrowKindReturn {
		for j := range f.records {
			record := &f.records[j]
			if record.BookID == mutation.BookID && record.UserEmail == mutation.UserEmail && !record.Returned {
				record.Returned = true
				record.ReturnDate = &now
				book.Quantity++

				return "Book returned successfully", nil
			}
		}

		return "", core.NewConflictError(http.StatusNotFound, "No outstanding loan for this user")
	}

	if book.IsDeleted || book.Quantity == 0 {
		return "", core.NewConflictError(http.StatusBadRequest, "Book is not available")
	}

	book.Quantity--
	f.nextID++
	f.records = append(f.records, core.BorrowRecord{
		ID:           fmt.Sprintf("record-%d", f.nextID),
		BookID:       book.ID,
		BookTitle:    book.Title,
		UserID:       "user-" + mutation.UserEmail,
		UserEmail:    mutation.UserEmail,
		BorrowedDate: now,
		DueDate:      now.Add(fakeLoanPeriod),
		Price:        book.Price,
	})

	return "Borrowed book recorded successfully", nil
}

// ListBorrowRecords lists all records or those of the current user.
func (f *FakeRemote) ListBorrowRecords(_ context.Context, scope core.BorrowScope) ([]core.BorrowRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.begin(FakeMethodListBorrowRecords); err != nil {
		return nil, err
	}

	records := make([]core.BorrowRecord, 0, len(f.records))
	for _, record := range f.records {
		if scope == core.BorrowScopeAll || record.UserEmail == f.currentUserEmail {
			records = append(records, record)
		}
	}

	return records, nil
}

// ListCategories lists every category.
func (f *FakeRemote) ListCategories(_ context.Context) ([]core.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.begin(FakeMethodListCategories); err != nil {
		return nil, err
	}

	return append([]core.Category(nil), f.categories...), nil
}

// begin counts the call and pops a queued failure. The caller holds f.mu.
func (f *FakeRemote) begin(method string) error {
	f.calls[method]++

	queued := f.failures[method]
	if len(queued) == 0 {
		return nil
	}

	f.failures[method] = queued[1:]

	return queued[0]
}

func (f *FakeRemote) bookIndex(id core.BookIDString) int {
	for i, book := range f.books {
		if book.ID == id {
			return i
		}
	}

	return -1
}

func matchesQuery(book core.Book, query url.Values) bool {
	if book.IsDeleted != (query.Get("deleted") == "true") {
		return false
	}

	if search := strings.ToLower(query.Get("search")); search != "" {
		if !strings.Contains(strings.ToLower(book.Title), search) &&
			!strings.Contains(strings.ToLower(book.Author), search) {
			return false
		}
	}

	switch query.Get("availability") {
	case "true":
		if !book.Available() {
			return false
		}
	case "false":
		if book.Available() {
			return false
		}
	}

	if minPrice, err := decimal.NewFromString(query.Get("minPrice")); err == nil && book.Price.LessThan(minPrice) {
		return false
	}

	if maxPrice, err := decimal.NewFromString(query.Get("maxPrice")); err == nil && book.Price.GreaterThan(maxPrice) {
		return false
	}

	if category := query.Get("category"); category != "" {
		for _, id := range book.CategoryIDs {
			if id == category {
				return true
			}
		}

		return false
	}

	return true
}

func sortBooks(books []core.Book, key string) {
	switch key {
	case "price_asc":
		sort.SliceStable(books, func(i, j int) bool { return books[i].Price.LessThan(books[j].Price) })
	case "price_desc":
		sort.SliceStable(books, func(i, j int) bool { return books[i].Price.GreaterThan(books[j].Price) })
	case "quantity_asc":
		sort.SliceStable(books, func(i, j int) bool { return books[i].Quantity < books[j].Quantity })
	case "quantity_desc":
		sort.SliceStable(books, func(i, j int) bool { return books[i].Quantity > books[j].Quantity })
	}
}

func atoiOr(raw string, fallback int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}

	return n
}

func cloneValues(query url.Values) url.Values {
	clone := make(url.Values, len(query))
	for k, v := range query {
		clone[k] = append([]string(nil), v...)
	}

	return clone
}
