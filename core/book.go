package core

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Book is the client-side projection of a title held by the remote service.
// TotalCopies counts every copy ever added, Quantity the copies currently not on loan.
type Book struct {
	ID          BookIDString
	ISBN        ISBNString
	Title       string
	Author      string
	Description string
	Price       decimal.Decimal
	TotalCopies int
	Quantity    int
	CategoryIDs []CategoryIDString
	IsDeleted   bool
	CreatedAt   Timestamp
}

// BookMetadata is the editable part of a title, as returned by an ISBN lookup.
type BookMetadata struct {
	Title       string
	Author      string
	Description string
	Price       decimal.Decimal
}

// Available reports whether at least one copy can be borrowed.
func (b Book) Available() bool {
	return b.Quantity > 0
}

// OnLoan returns the number of copies currently borrowed.
func (b Book) OnLoan() int {
	return b.TotalCopies - b.Quantity
}

// Metadata returns the editable metadata of the book.
func (b Book) Metadata() BookMetadata {
	return BookMetadata{
		Title:       b.Title,
		Author:      b.Author,
		Description: b.Description,
		Price:       b.Price,
	}
}

// CheckCopyCounts verifies the copy count invariants 0 <= quantity <= totalCopies and totalCopies >= 1,
// and that the price is not negative.
func (b Book) CheckCopyCounts() error {
	switch {
	case b.TotalCopies < 1:
		return NewValidationError("totalCopies", fmt.Sprintf("must be at least 1, got %d", b.TotalCopies))
	case b.Quantity < 0:
		return NewValidationError("quantity", fmt.Sprintf("must not be negative, got %d", b.Quantity))
	case b.Quantity > b.TotalCopies:
		return NewValidationError(
			"quantity",
			fmt.Sprintf("%d available copies exceed %d total copies", b.Quantity, b.TotalCopies),
		)
	case b.Price.IsNegative():
		return NewValidationError("price", "must not be negative")
	}

	return nil
}
