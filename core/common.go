package core

import (
	"time"
)

// Identifiers and timestamps are plain alias types.

// BookIDString represents a book identifier assigned by the remote service
type BookIDString = string

// UserIDString represents a borrowing user's identifier
type UserIDString = string

// EmailString represents a borrowing user's contact identity
type EmailString = string

// ISBNString represents a normalized ISBN
type ISBNString = string

// CategoryIDString represents a category identifier
type CategoryIDString = string

// Timestamp represents a point in time reported by the remote service
type Timestamp = time.Time

// ToTimestamp converts a time to Timestamp with UTC normalization and millisecond precision,
// which is the precision the service reports.
func ToTimestamp(t time.Time) Timestamp {
	return t.UTC().Truncate(time.Millisecond)
}
