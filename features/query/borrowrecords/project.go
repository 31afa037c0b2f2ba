package borrowrecords

import (
	"time"

	"github.com/AntonStoeckl/librarydesk/core"
)

// CatalogPartition is the admin view of all borrow records.
type CatalogPartition struct {
	Active  []core.BorrowRecord
	Overdue []core.BorrowRecord
}

// PersonalPartition is the single-user view of borrow records.
type PersonalPartition struct {
	Returned    []core.BorrowRecord
	Outstanding []core.BorrowRecord
}

// ProjectCatalog splits records at now.
//
// Query Logic:
//
//	OVERDUE: not returned and the due date has passed
//	ACTIVE: every other record, returned records included
func ProjectCatalog(records []core.BorrowRecord, now time.Time) CatalogPartition {
	partition := CatalogPartition{
		Active:  make([]core.BorrowRecord, 0, len(records)),
		Overdue: make([]core.BorrowRecord, 0),
	}

	for _, record := range records {
		if record.IsOverdue(now) {
			partition.Overdue = append(partition.Overdue, record)
			continue
		}

		partition.Active = append(partition.Active, record)
	}

	return partition
}

// ProjectPersonal splits records by whether they were returned, regardless of due dates.
func ProjectPersonal(records []core.BorrowRecord) PersonalPartition {
	partition := PersonalPartition{
		Returned:    make([]core.BorrowRecord, 0),
		Outstanding: make([]core.BorrowRecord, 0, len(records)),
	}

	for _, record := range records {
		if record.IsOutstanding() {
			partition.Outstanding = append(partition.Outstanding, record)
			continue
		}

		partition.Returned = append(partition.Returned, record)
	}

	return partition
}
