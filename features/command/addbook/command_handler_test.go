package addbook_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/librarydesk/core"
	"github.com/AntonStoeckl/librarydesk/features/command/addbook"
	"github.com/AntonStoeckl/librarydesk/features/isbnresolver"
	. "github.com/AntonStoeckl/librarydesk/testutil/helper" //nolint:revive
)

func Test_CommandHandler_Handle_AddsCopiesToKnownTitle(t *testing.T) {
	// arrange
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	remote := NewFakeRemote("admin@example.com", func() time.Time { return now })
	remote.GivenBooks(FixtureBook("book-1", "978-1-098-10013-1", 2, now))
	handler := addbook.NewCommandHandler(remote)

	resolution := isbnresolver.Resolution{Status: isbnresolver.StatusExists, ISBN: "9781098100131"}

	// act
	result, err := handler.Handle(context.Background(), addbook.BuildCommand(resolution, "3"))

	// assert
	require.NoError(t, err, "Should add copies")
	assert.True(t, result.Submitted)
	assert.Equal(t, "Copies added successfully", result.Message, "Should surface the service message")

	book, _ := remote.Book("book-1")
	assert.Equal(t, 5, book.TotalCopies)
	assert.Equal(t, 5, book.Quantity)
}

func Test_CommandHandler_Handle_CreatesNewTitle(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	remote := NewFakeRemote("admin@example.com", func() time.Time { return now })
	handler := addbook.NewCommandHandler(remote)

	resolution := isbnresolver.Resolution{
		Status: isbnresolver.StatusNew,
		ISBN:   "9783161484100",
		Fields: isbnresolver.Fields{Title: "Go in Practice", Author: "Matt Butcher", Price: "12.50"},
	}

	result, err := handler.Handle(context.Background(), addbook.BuildCommand(resolution, ""))

	require.NoError(t, err)
	assert.Equal(t, "Book added successfully", result.Message)

	page, err := remote.ListBooks(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, page.Books, 1)
	assert.Equal(t, 1, page.Books[0].TotalCopies, "Should default to one copy")
}

func Test_CommandHandler_Handle_LocalRuleViolationSendsNothing(t *testing.T) {
	remote := NewFakeRemote("admin@example.com", time.Now)
	handler := addbook.NewCommandHandler(remote)

	resolution := isbnresolver.Resolution{Status: isbnresolver.StatusChecking, ISBN: "9783161484100"}

	result, err := handler.Handle(context.Background(), addbook.BuildCommand(resolution, "1"))

	assert.ErrorIs(t, err, core.ErrValidation)
	assert.False(t, result.Submitted)
	assert.Equal(t, 0, remote.Calls(FakeMethodSubmitBookMutation), "Should never submit against an unknown status")
}

func Test_CommandHandler_Handle_RemoteRejectionIsNotRetried(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	remote := NewFakeRemote("admin@example.com", func() time.Time { return now })
	remote.GivenBooks(FixtureBook("book-1", "978-3-16-148410-0", 1, now))
	handler := addbook.NewCommandHandler(remote)

	resolution := isbnresolver.Resolution{
		Status: isbnresolver.StatusNew,
		ISBN:   "9783161484100",
		Fields: isbnresolver.Fields{Title: "Go in Practice", Author: "Matt Butcher", Price: "1"},
	}

	result, err := handler.Handle(context.Background(), addbook.BuildCommand(resolution, "1"))

	assert.ErrorIs(t, err, core.ErrConflict)
	assert.Equal(t, "Book with this ISBN already exists", core.UserMessage(err))
	assert.True(t, result.Submitted, "Should report that the request reached the service")
	assert.Equal(t, 1, remote.Calls(FakeMethodSubmitBookMutation))
}

func Test_CommandHandler_Handle_TransportFailureFailsClosed(t *testing.T) {
	remote := NewFakeRemote("admin@example.com", time.Now)
	remote.FailNext(FakeMethodSubmitBookMutation, core.NewTransportError(0, "", errors.New("connection reset")))
	handler := addbook.NewCommandHandler(remote)

	resolution := isbnresolver.Resolution{Status: isbnresolver.StatusExists, ISBN: "9781098100131"}

	_, err := handler.Handle(context.Background(), addbook.BuildCommand(resolution, "1"))

	assert.ErrorIs(t, err, core.ErrTransport)
	assert.Equal(t, 1, remote.Calls(FakeMethodSubmitBookMutation), "Should not resubmit on its own")
}
