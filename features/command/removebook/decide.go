package removebook

import (
	"fmt"

	"github.com/AntonStoeckl/librarydesk/core"
)

// CanDelete reports whether no copy of book is on loan.
func CanDelete(book core.Book) bool {
	return book.Quantity == book.TotalCopies
}

// Decide implements the business logic to soft-delete a book.
//
// Business Rules:
//   - an already deleted book needs no request (idempotent)
//   - a book with copies on loan cannot be deleted, the error names the outstanding count
func Decide(book core.Book) core.DecisionResult {
	if book.IsDeleted {
		return core.IdempotentDecision()
	}

	if !CanDelete(book) {
		onLoan := book.OnLoan()
		noun := "copies are"
		if onLoan == 1 {
			noun = "copy is"
		}

		return core.ErrorDecision(core.NewValidationError(
			"quantity",
			fmt.Sprintf("%d %s still on loan, wait until all copies are returned", onLoan, noun),
		))
	}

	return core.SuccessDecision(core.DeletionMutation{
		BookID: book.ID,
		State:  core.DeletionStateDeleted,
	})
}
