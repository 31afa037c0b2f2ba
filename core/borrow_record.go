package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// BorrowRecord represents one loan of one copy.
// DueDate is fixed when the record is created, Price is the snapshot taken at borrowing time.
// A record transitions once from outstanding to returned and never reverts.
type BorrowRecord struct {
	ID           string
	BookID       BookIDString
	BookTitle    string
	UserID       UserIDString
	UserEmail    EmailString
	BorrowedDate Timestamp
	DueDate      Timestamp
	ReturnDate   *Timestamp
	Returned     bool
	Price        decimal.Decimal
}

// IsOutstanding reports whether the copy has not been returned yet.
func (r BorrowRecord) IsOutstanding() bool {
	return !r.Returned
}

// IsOverdue reports whether the record is outstanding and its due date has passed at now.
// A returned record is never overdue, however late the return was.
func (r BorrowRecord) IsOverdue(now time.Time) bool {
	return !r.Returned && now.After(r.DueDate)
}
