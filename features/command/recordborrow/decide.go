package recordborrow

import (
	"github.com/AntonStoeckl/librarydesk/core"
)

type borrowInput struct {
	Email string `json:"email" validate:"required,email"`
}

// Decide implements the business logic to record a borrow.
//
// Business Rules:
//   - the borrower is identified by a well-formed email address
//   - a deleted book cannot be borrowed
//   - a book without an available copy cannot be borrowed
func Decide(book core.Book, email core.EmailString) core.DecisionResult {
	if err := core.ValidateFields(borrowInput{Email: email}); err != nil {
		return core.ErrorDecision(err)
	}

	if book.IsDeleted {
		return core.ErrorDecision(core.NewValidationError("book", "is deleted and cannot be borrowed"))
	}

	if !book.Available() {
		return core.ErrorDecision(core.NewValidationError("quantity", "no copy is available"))
	}

	return core.SuccessDecision(core.BorrowMutation{
		Kind:      core.BorrowKindBorrow,
		UserEmail: email,
		BookID:    book.ID,
	})
}
