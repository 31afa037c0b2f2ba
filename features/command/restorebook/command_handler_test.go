package restorebook_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/librarydesk/core"
	"github.com/AntonStoeckl/librarydesk/features/command/restorebook"
	. "github.com/AntonStoeckl/librarydesk/testutil/helper" //nolint:revive
)

func Test_Decide(t *testing.T) {
	now := time.Now()

	restore := restorebook.Decide(FixtureDeletedBook("book-1", 1, now))
	require.True(t, restore.HasMutationToSubmit())
	assert.Equal(t, core.DeletionMutation{BookID: "book-1", State: core.DeletionStateActive}, restore.Mutation)

	active := restorebook.Decide(FixtureBook("book-1", "978-1-098-10013-1", 1, now))
	assert.True(t, active.IsIdempotent(), "Should need no request for an active book")
}

func Test_CommandHandler_Handle_Success(t *testing.T) {
	// arrange
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	remote := NewFakeRemote("admin@example.com", func() time.Time { return now })
	deleted := FixtureDeletedBook("book-1", 2, now)
	remote.GivenBooks(deleted)
	handler := restorebook.NewCommandHandler(remote)

	// act
	result, err := handler.Handle(context.Background(), restorebook.BuildCommand(deleted))

	// assert
	require.NoError(t, err)
	assert.Equal(t, "Book restored successfully", result.Message)

	stored, _ := remote.Book("book-1")
	assert.False(t, stored.IsDeleted, "Should make the book visible again")
}

func Test_CommandHandler_Handle_Idempotent_WhenActive(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	remote := NewFakeRemote("admin@example.com", func() time.Time { return now })
	handler := restorebook.NewCommandHandler(remote)

	result, err := handler.Handle(context.Background(), restorebook.BuildCommand(FixtureBook("book-1", "978-1-098-10013-1", 1, now)))

	require.NoError(t, err)
	assert.True(t, result.Idempotent)
	assert.Equal(t, 0, remote.Calls(FakeMethodSetDeletionState))
}

func Test_CommandHandler_Handle_UnknownBookIsRejected(t *testing.T) {
	remote := NewFakeRemote("admin@example.com", time.Now)
	handler := restorebook.NewCommandHandler(remote)

	_, err := handler.Handle(context.Background(), restorebook.BuildCommand(FixtureDeletedBook("missing", 1, time.Now())))

	assert.ErrorIs(t, err, core.ErrConflict)
	assert.Equal(t, "Book not found", core.UserMessage(err))
}
