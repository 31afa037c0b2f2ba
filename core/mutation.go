package core

import "github.com/shopspring/decimal"

// MutationKind identifies a state-changing operation against the remote service.
type MutationKind string

const (
	// MutationAddBook adds a new title or more copies of an existing one.
	MutationAddBook MutationKind = "add_book"
	// MutationRecordBorrow lends one copy to a user.
	MutationRecordBorrow MutationKind = "record_borrow"
	// MutationConfirmReturn marks a loan as returned.
	MutationConfirmReturn MutationKind = "confirm_return"
	// MutationRemoveBook soft-deletes a title.
	MutationRemoveBook MutationKind = "remove_book"
	// MutationRestoreBook reverts a soft delete.
	MutationRestoreBook MutationKind = "restore_book"
)

// Mutation is a request a Decide function approved for submission.
type Mutation interface {
	MutationKind() MutationKind
}

// SubmissionIntent tags a book mutation so the service never has to infer intent from payload shape.
type SubmissionIntent string

const (
	// IntentAddCopies adds copies to an existing title, metadata untouched.
	IntentAddCopies SubmissionIntent = "add_copies"
	// IntentCreateTitle creates a new title with its first copies.
	IntentCreateTitle SubmissionIntent = "create_title"
	// IntentUpdateTitle edits the metadata of an existing title and adds copies.
	IntentUpdateTitle SubmissionIntent = "update_title"
)

// BookMutationPayload is either copies-only (IntentAddCopies: ISBN and Quantity)
// or full metadata (the other intents). Quantity is the number of copies to add.
type BookMutationPayload struct {
	Intent      SubmissionIntent
	ISBN        ISBNString
	Title       string
	Author      string
	Price       decimal.Decimal
	Quantity    int
	Description string
}

// MutationKind implements Mutation.
func (p BookMutationPayload) MutationKind() MutationKind {
	return MutationAddBook
}

// CopiesOnly reports whether metadata keys are omitted on the wire.
func (p BookMutationPayload) CopiesOnly() bool {
	return p.Intent == IntentAddCopies
}

// BorrowMutationKind distinguishes the two borrow lifecycle requests.
type BorrowMutationKind string

const (
	// BorrowKindBorrow requests a new loan.
	BorrowKindBorrow BorrowMutationKind = "borrow"
	// BorrowKindReturn requests the outstanding to returned transition.
	BorrowKindReturn BorrowMutationKind = "return"
)

// BorrowMutation identifies a loan by the book and the borrowing user's contact identity.
type BorrowMutation struct {
	Kind      BorrowMutationKind
	UserEmail EmailString
	BookID    BookIDString
}

// MutationKind implements Mutation.
func (m BorrowMutation) MutationKind() MutationKind {
	if m.Kind == BorrowKindReturn {
		return MutationConfirmReturn
	}

	return MutationRecordBorrow
}

// DeletionState is the soft-delete state of a book.
type DeletionState string

const (
	// DeletionStateActive is a visible, borrowable book.
	DeletionStateActive DeletionState = "active"
	// DeletionStateDeleted is a soft-deleted book.
	DeletionStateDeleted DeletionState = "deleted"
)

// DeletionMutation moves a book into the target deletion state.
type DeletionMutation struct {
	BookID BookIDString
	State  DeletionState
}

// MutationKind implements Mutation.
func (m DeletionMutation) MutationKind() MutationKind {
	if m.State == DeletionStateDeleted {
		return MutationRemoveBook
	}

	return MutationRestoreBook
}
