package confirmreturn

import (
	"github.com/AntonStoeckl/librarydesk/core"
)

type returnInput struct {
	BookID string `json:"book" validate:"required"`
	Email  string `json:"email" validate:"required,email"`
}

// Decide implements the business logic to confirm a return.
//
// Business Rules:
//   - the loan is identified by book id and borrower email, both must be present
//   - a record that is already returned cannot be returned again
func Decide(record core.BorrowRecord) core.DecisionResult {
	if err := core.ValidateFields(returnInput{BookID: record.BookID, Email: record.UserEmail}); err != nil {
		return core.ErrorDecision(err)
	}

	if record.Returned {
		return core.ErrorDecision(core.NewValidationError("returned", "the loan was already returned"))
	}

	return core.SuccessDecision(core.BorrowMutation{
		Kind:      core.BorrowKindReturn,
		UserEmail: record.UserEmail,
		BookID:    record.BookID,
	})
}
