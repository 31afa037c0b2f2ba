package borrowrecords_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/librarydesk/core"
	"github.com/AntonStoeckl/librarydesk/features/query/borrowrecords"
	. "github.com/AntonStoeckl/librarydesk/testutil/helper" //nolint:revive
)

func Test_ProjectCatalog_SplitsActiveAndOverdue(t *testing.T) {
	// arrange
	now := time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC)
	overdue := FixtureOutstandingRecord("r1", "book-1", "a@example.com", now.Add(-8*24*time.Hour))
	active := FixtureOutstandingRecord("r2", "book-2", "b@example.com", now.Add(-2*24*time.Hour))
	returnedLate := FixtureReturnedRecord("r3", "book-3", "c@example.com", now.Add(-30*24*time.Hour), now.Add(-time.Hour))
	overdueToo := FixtureOutstandingRecord("r4", "book-4", "d@example.com", now.Add(-10*24*time.Hour))

	// act
	partition := borrowrecords.ProjectCatalog([]core.BorrowRecord{overdue, active, returnedLate, overdueToo}, now)

	// assert
	assert.Equal(t, []string{"r1", "r4"}, ids(partition.Overdue), "Should keep input order")
	assert.Equal(t, []string{"r2", "r3"}, ids(partition.Active), "Should never classify a returned record as overdue")
}

func Test_ProjectCatalog_IsDeterministic(t *testing.T) {
	now := time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC)
	records := []core.BorrowRecord{
		FixtureOutstandingRecord("r1", "book-1", "a@example.com", now.Add(-8*24*time.Hour)),
		FixtureOutstandingRecord("r2", "book-2", "b@example.com", now),
	}

	first := borrowrecords.ProjectCatalog(records, now)
	second := borrowrecords.ProjectCatalog(records, now)

	assert.Equal(t, first, second)
	assert.Len(t, records, 2, "Should not modify the input")
}

func Test_ProjectCatalog_DueExactlyNowIsActive(t *testing.T) {
	now := time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC)
	record := FixtureOutstandingRecord("r1", "book-1", "a@example.com", now.Add(-7*24*time.Hour))

	partition := borrowrecords.ProjectCatalog([]core.BorrowRecord{record}, now)

	assert.Empty(t, partition.Overdue)
	assert.Len(t, partition.Active, 1)
}

func Test_ProjectPersonal_SplitsReturnedAndOutstanding(t *testing.T) {
	now := time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC)
	records := []core.BorrowRecord{
		FixtureReturnedRecord("r1", "book-1", "me@example.com", now.Add(-20*24*time.Hour), now.Add(-15*24*time.Hour)),
		FixtureOutstandingRecord("r2", "book-2", "me@example.com", now.Add(-30*24*time.Hour)),
		FixtureOutstandingRecord("r3", "book-3", "me@example.com", now),
	}

	partition := borrowrecords.ProjectPersonal(records)

	assert.Equal(t, []string{"r1"}, ids(partition.Returned))
	assert.Equal(t, []string{"r2", "r3"}, ids(partition.Outstanding), "Should count overdue records as outstanding")
}

func Test_Projections_EmptyInput(t *testing.T) {
	catalog := borrowrecords.ProjectCatalog(nil, time.Now())
	personal := borrowrecords.ProjectPersonal(nil)

	assert.NotNil(t, catalog.Active)
	assert.NotNil(t, catalog.Overdue)
	assert.Empty(t, personal.Returned)
	assert.Empty(t, personal.Outstanding)
}

func ids(records []core.BorrowRecord) []string {
	result := make([]string, 0, len(records))
	for _, record := range records {
		result = append(result, record.ID)
	}

	return result
}
