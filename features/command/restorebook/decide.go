package restorebook

import "github.com/AntonStoeckl/librarydesk/core"

// Decide implements the business logic to restore a book.
// An active book needs no request.
func Decide(book core.Book) core.DecisionResult {
	if !book.IsDeleted {
		return core.IdempotentDecision()
	}

	return core.SuccessDecision(core.DeletionMutation{
		BookID: book.ID,
		State:  core.DeletionStateActive,
	})
}
