package addbook

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/AntonStoeckl/librarydesk/core"
	"github.com/AntonStoeckl/librarydesk/features/isbnresolver"
)

type metadataInput struct {
	Title    string `json:"title" validate:"required"`
	Author   string `json:"author" validate:"required"`
	Price    string `json:"price" validate:"required"`
	Quantity int    `json:"quantity" validate:"min=1"`
}

// Decide implements the business logic to resolve an add-book submission.
//
// Business Rules:
//   - exists, edit off: copies-only payload, the metadata inputs are ignored
//   - exists, edit on: full metadata payload updating the title
//   - new, or no ISBN at all: full metadata payload creating the title
//   - checking, or unset with an ISBN: no payload, the status must settle first
//   - full metadata needs a non-blank title and author and a non-negative price
//
// Returns:
//   - SuccessDecision carrying the tagged core.BookMutationPayload
//   - ErrorDecision with a core.ValidationError otherwise
func Decide(resolution isbnresolver.Resolution, copies int) core.DecisionResult {
	if copies < 1 {
		return core.ErrorDecision(core.NewValidationError("quantity", fmt.Sprintf("must be at least 1, got %d", copies)))
	}

	switch resolution.Status {
	case isbnresolver.StatusExists:
		if !resolution.EditEnabled {
			return core.SuccessDecision(core.BookMutationPayload{
				Intent:   core.IntentAddCopies,
				ISBN:     resolution.ISBN,
				Quantity: copies,
			})
		}

		return fullMetadataDecision(core.IntentUpdateTitle, resolution, copies)

	case isbnresolver.StatusNew:
		return fullMetadataDecision(core.IntentCreateTitle, resolution, copies)

	case isbnresolver.StatusUnset:
		if resolution.ISBN == "" {
			return fullMetadataDecision(core.IntentCreateTitle, resolution, copies)
		}
	}

	return core.ErrorDecision(core.NewValidationError(
		"isbn",
		fmt.Sprintf("status of %s is %s, wait for the lookup to finish", resolution.ISBN, resolution.Status),
	))
}

func fullMetadataDecision(intent core.SubmissionIntent, resolution isbnresolver.Resolution, copies int) core.DecisionResult {
	input := metadataInput{
		Title:    strings.TrimSpace(resolution.Fields.Title),
		Author:   strings.TrimSpace(resolution.Fields.Author),
		Price:    strings.TrimSpace(resolution.Fields.Price),
		Quantity: copies,
	}

	if err := core.ValidateFields(input); err != nil {
		return core.ErrorDecision(err)
	}

	price, err := decimal.NewFromString(input.Price)
	if err != nil {
		return core.ErrorDecision(core.NewValidationError("price", fmt.Sprintf("%q is not a number", input.Price)))
	}

	if price.IsNegative() {
		return core.ErrorDecision(core.NewValidationError("price", "must not be negative"))
	}

	return core.SuccessDecision(core.BookMutationPayload{
		Intent:      intent,
		ISBN:        resolution.ISBN,
		Title:       input.Title,
		Author:      input.Author,
		Price:       price,
		Quantity:    copies,
		Description: strings.TrimSpace(resolution.Fields.Description),
	})
}
