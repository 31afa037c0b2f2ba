package helper

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/librarydesk/core"
)

// GivenUniqueID returns a fresh time-ordered identifier.
func GivenUniqueID(t testing.TB) string {
	id, err := uuid.NewV7()
	assert.NoError(t, err, "error in arranging test data")

	return id.String()
}

// FixtureBook returns an active book with all copies on the shelf.
func FixtureBook(id core.BookIDString, isbn string, copies int, fakeClock time.Time) core.Book {
	return core.Book{
		ID:          id,
		ISBN:        core.NormalizeISBN(isbn),
		Title:       "Learning Domain-Driven Design",
		Author:      "Vlad Khononov",
		Description: "First Edition",
		Price:       decimal.RequireFromString("39.99"),
		TotalCopies: copies,
		Quantity:    copies,
		CreatedAt:   core.ToTimestamp(fakeClock),
	}
}

// FixtureLentBook returns an active book with onLoan of its copies borrowed.
func FixtureLentBook(id core.BookIDString, copies, onLoan int, fakeClock time.Time) core.Book {
	book := FixtureBook(id, "978-1-098-10013-1", copies, fakeClock)
	book.Quantity = copies - onLoan

	return book
}

// FixtureDeletedBook returns a soft-deleted book with all copies on the shelf.
func FixtureDeletedBook(id core.BookIDString, copies int, fakeClock time.Time) core.Book {
	book := FixtureBook(id, "978-1-098-10013-1", copies, fakeClock)
	book.IsDeleted = true

	return book
}

// FixtureOutstandingRecord returns a loan borrowed at borrowedAt and due one week later.
func FixtureOutstandingRecord(id string, bookID core.BookIDString, email core.EmailString, borrowedAt time.Time) core.BorrowRecord {
	return core.BorrowRecord{
		ID:           id,
		BookID:       bookID,
		BookTitle:    "Learning Domain-Driven Design",
		UserID:       "user-" + email,
		UserEmail:    email,
		BorrowedDate: core.ToTimestamp(borrowedAt),
		DueDate:      core.ToTimestamp(borrowedAt.Add(7 * 24 * time.Hour)),
		Price:        decimal.RequireFromString("39.99"),
	}
}

// FixtureReturnedRecord returns a loan that was returned at returnedAt.
func FixtureReturnedRecord(
	id string,
	bookID core.BookIDString,
	email core.EmailString,
	borrowedAt time.Time,
	returnedAt time.Time,
) core.BorrowRecord {
	record := FixtureOutstandingRecord(id, bookID, email, borrowedAt)
	returnDate := core.ToTimestamp(returnedAt)
	record.ReturnDate = &returnDate
	record.Returned = true

	return record
}
