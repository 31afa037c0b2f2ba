package removebook_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/librarydesk/core"
	"github.com/AntonStoeckl/librarydesk/features/command/removebook"
	. "github.com/AntonStoeckl/librarydesk/testutil/helper" //nolint:revive
)

func Test_Decide_Success_WhenAllCopiesOnShelf(t *testing.T) {
	// arrange
	book := FixtureBook("book-1", "978-1-098-10013-1", 3, time.Now())

	// act
	result := removebook.Decide(book)

	// assert
	require.True(t, result.HasMutationToSubmit(), "Should submit a deletion")
	assert.Equal(t, core.DeletionMutation{BookID: "book-1", State: core.DeletionStateDeleted}, result.Mutation)
	assert.True(t, removebook.CanDelete(book))
}

func Test_Decide_Idempotent_WhenAlreadyDeleted(t *testing.T) {
	book := FixtureDeletedBook("book-1", 2, time.Now())

	result := removebook.Decide(book)

	assert.True(t, result.IsIdempotent(), "Should need no request")
	assert.NoError(t, result.HasError())
}

func Test_Decide_Error_WhenCopiesOnLoan(t *testing.T) {
	testCases := []struct {
		name           string
		onLoan         int
		expectedReason string
	}{
		{name: "one copy out", onLoan: 1, expectedReason: "1 copy is still on loan"},
		{name: "all copies out", onLoan: 3, expectedReason: "3 copies are still on loan"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			book := FixtureLentBook("book-1", 3, tc.onLoan, time.Now())

			result := removebook.Decide(book)

			assert.False(t, removebook.CanDelete(book))
			assert.False(t, result.HasMutationToSubmit())
			assert.ErrorIs(t, result.HasError(), core.ErrValidation)
			assert.ErrorContains(t, result.HasError(), tc.expectedReason, "Should name the outstanding count")
		})
	}
}
