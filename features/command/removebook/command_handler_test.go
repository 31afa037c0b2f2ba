package removebook_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/librarydesk/core"
	"github.com/AntonStoeckl/librarydesk/features/command/removebook"
	. "github.com/AntonStoeckl/librarydesk/testutil/helper" //nolint:revive
)

func Test_CommandHandler_Handle_Success(t *testing.T) {
	// arrange
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	remote := NewFakeRemote("admin@example.com", func() time.Time { return now })
	book := FixtureBook("book-1", "978-1-098-10013-1", 2, now)
	remote.GivenBooks(book)
	handler := removebook.NewCommandHandler(remote)

	// act
	result, err := handler.Handle(context.Background(), removebook.BuildCommand(book))

	// assert
	require.NoError(t, err, "Should soft-delete the book")
	assert.Equal(t, "Book deleted successfully", result.Message)

	stored, _ := remote.Book("book-1")
	assert.True(t, stored.IsDeleted)
}

func Test_CommandHandler_Handle_Idempotent_WhenAlreadyDeleted(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	remote := NewFakeRemote("admin@example.com", func() time.Time { return now })
	handler := removebook.NewCommandHandler(remote)

	result, err := handler.Handle(context.Background(), removebook.BuildCommand(FixtureDeletedBook("book-1", 1, now)))

	require.NoError(t, err)
	assert.True(t, result.Idempotent)
	assert.Equal(t, 0, remote.Calls(FakeMethodSetDeletionState), "Should not contact the service")
}

func Test_CommandHandler_Handle_Error_WhenCopiesOnLoanLocally(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	remote := NewFakeRemote("admin@example.com", func() time.Time { return now })
	handler := removebook.NewCommandHandler(remote)

	_, err := handler.Handle(context.Background(), removebook.BuildCommand(FixtureLentBook("book-1", 2, 1, now)))

	assert.ErrorIs(t, err, core.ErrValidation)
	assert.Equal(t, 0, remote.Calls(FakeMethodSetDeletionState))
}

func Test_CommandHandler_Handle_Error_WhenServiceSeesCopiesOnLoan(t *testing.T) {
	// arrange
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	remote := NewFakeRemote("admin@example.com", func() time.Time { return now })
	remote.GivenBooks(FixtureLentBook("book-1", 2, 1, now))
	handler := removebook.NewCommandHandler(remote)
	staleLocalView := FixtureBook("book-1", "978-1-098-10013-1", 2, now)

	// act
	result, err := handler.Handle(context.Background(), removebook.BuildCommand(staleLocalView))

	// assert
	assert.ErrorIs(t, err, core.ErrConflict, "Should surface the authoritative rejection")
	assert.True(t, result.Submitted)

	stored, _ := remote.Book("book-1")
	assert.False(t, stored.IsDeleted)
}
