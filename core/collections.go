package core

// ISBNLookupResult is the answer of the authoritative catalog for one normalized ISBN.
// Book is set only when Exists is true.
type ISBNLookupResult struct {
	Exists bool
	Book   *BookMetadata
}

// BookPage is one page of the book collection as reported by the remote service.
type BookPage struct {
	Books      []Book
	TotalBooks int
	Page       int
	Limit      int
	TotalPages int
}

// BorrowScope selects whose borrow records are listed.
type BorrowScope string

const (
	// BorrowScopeAll lists every user's records (admin view).
	BorrowScopeAll BorrowScope = "all"
	// BorrowScopeMine lists the authenticated user's records.
	BorrowScopeMine BorrowScope = "mine"
)
