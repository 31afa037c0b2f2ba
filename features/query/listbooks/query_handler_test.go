package listbooks_test

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/librarydesk/core"
	"github.com/AntonStoeckl/librarydesk/features/query/listbooks"
	"github.com/AntonStoeckl/librarydesk/shell"
	. "github.com/AntonStoeckl/librarydesk/testutil/helper" //nolint:revive
)

func Test_QueryHandler_Handle_ReturnsPageWithTotals(t *testing.T) {
	// arrange
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	remote := NewFakeRemote("reader@example.com", func() time.Time { return now })
	givenBooks(remote, 17, now)
	handler := listbooks.NewQueryHandler(remote)

	// act
	page, err := handler.Handle(context.Background(), listbooks.BuildQuery(listbooks.NewDescriptor()))

	// assert
	require.NoError(t, err)
	assert.Len(t, page.Books, 8)
	assert.Equal(t, 17, page.TotalBooks)
	assert.Equal(t, 3, page.TotalPages, "Should need 3 pages for 17 books at 8 per page")
	assert.Equal(t, []string{"limit=8&page=1"}, remote.ListQueries(), "Should send the canonical query")
}

func Test_QueryHandler_Handle_PageBeyondTotalSignalsClamp(t *testing.T) {
	// arrange
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	remote := NewFakeRemote("reader@example.com", func() time.Time { return now })
	givenBooks(remote, 16, now)
	handler := listbooks.NewQueryHandler(remote)
	onPageThree := must(t)(listbooks.NewDescriptor().WithPage(3))

	// act
	page, err := handler.Handle(context.Background(), listbooks.BuildQuery(onPageThree))

	// assert
	require.NoError(t, err)
	assert.Empty(t, page.Books, "Should return no books past the last page")

	clamped, changed := onPageThree.Clamp(page.TotalPages)
	assert.True(t, changed, "Should clamp a page that no longer exists")
	assert.Equal(t, 2, clamped.Page())
}

func Test_QueryHandler_Handle_RetriesTransportErrors(t *testing.T) {
	// arrange
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	remote := NewFakeRemote("reader@example.com", func() time.Time { return now })
	givenBooks(remote, 2, now)
	remote.FailNext(FakeMethodListBooks, core.NewTransportError(503, "service unavailable", nil))
	handler := listbooks.NewQueryHandler(remote, listbooks.WithRetryOptions(shell.WithBaseDelay(time.Millisecond)))

	// act
	page, err := handler.Handle(context.Background(), listbooks.BuildQuery(listbooks.NewDescriptor()))

	// assert
	require.NoError(t, err, "Should succeed on the second attempt")
	assert.Len(t, page.Books, 2)
	assert.Equal(t, 2, remote.Calls(FakeMethodListBooks))
}

func Test_QueryHandler_Handle_DoesNotRetryConflicts(t *testing.T) {
	// arrange
	remote := NewFakeRemote("reader@example.com", time.Now)
	remote.FailNext(FakeMethodListBooks, core.NewConflictError(400, "invalid sort"))
	handler := listbooks.NewQueryHandler(remote, listbooks.WithRetryOptions(shell.WithBaseDelay(time.Millisecond)))

	// act
	_, err := handler.Handle(context.Background(), listbooks.BuildQuery(listbooks.NewDescriptor()))

	// assert
	assert.ErrorIs(t, err, core.ErrConflict)
	assert.Equal(t, 1, remote.Calls(FakeMethodListBooks), "Should fail fast on a rejection")
}

func Test_QueryHandler_Handle_FillsMissingTotals(t *testing.T) {
	// arrange
	lister := stubLister{page: core.BookPage{TotalBooks: 13}}
	handler := listbooks.NewQueryHandler(lister)
	d := must(t)(listbooks.NewDescriptor().WithLimit(5))

	// act
	page, err := handler.Handle(context.Background(), listbooks.BuildQuery(d))

	// assert
	require.NoError(t, err)
	assert.Equal(t, 5, page.Limit, "Should fall back to the requested limit")
	assert.Equal(t, 1, page.Page, "Should fall back to the requested page")
	assert.Equal(t, 3, page.TotalPages, "Should derive total pages from the total")
}

func Test_QueryHandler_Handle_PassesCancellationThrough(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	handler := listbooks.NewQueryHandler(stubLister{err: context.Canceled})

	_, err := handler.Handle(ctx, listbooks.BuildQuery(listbooks.NewDescriptor()))

	assert.True(t, errors.Is(err, context.Canceled), "Should surface the cancellation")
}

type stubLister struct {
	page core.BookPage
	err  error
}

func (s stubLister) ListBooks(_ context.Context, _ url.Values) (core.BookPage, error) {
	return s.page, s.err
}

func givenBooks(remote *FakeRemote, count int, now time.Time) {
	for i := 0; i < count; i++ {
		remote.GivenBooks(FixtureBook(fmt.Sprintf("book-%02d", i), fmt.Sprintf("978-0-00-%06d-0", i), 2, now))
	}
}
