package reconcile

import "github.com/AntonStoeckl/librarydesk/core"

// Collection names a locally projected collection.
type Collection string

const (
	// CollectionBooks is the current page of the book collection.
	CollectionBooks Collection = "books"
	// CollectionBorrowRecords is the borrow records of the session's scope.
	CollectionBorrowRecords Collection = "borrow_records"
)

// AffectedCollections returns the collections whose invariants a mutation of kind could have changed.
// A borrow or a return touches both, every other mutation only the books.
func AffectedCollections(kind core.MutationKind) []Collection {
	switch kind {
	case core.MutationRecordBorrow, core.MutationConfirmReturn:
		return []Collection{CollectionBooks, CollectionBorrowRecords}
	default:
		return []Collection{CollectionBooks}
	}
}
