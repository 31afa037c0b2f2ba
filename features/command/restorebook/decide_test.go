package restorebook_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/librarydesk/core"
	"github.com/AntonStoeckl/librarydesk/features/command/restorebook"
	. "github.com/AntonStoeckl/librarydesk/testutil/helper" //nolint:revive
)

func Test_Decide_Success_WhenDeleted(t *testing.T) {
	// arrange
	book := FixtureDeletedBook("book-1", 2, time.Now())

	// act
	result := restorebook.Decide(book)

	// assert
	require.True(t, result.HasMutationToSubmit(), "Should submit a restore")
	assert.Equal(t, core.DeletionMutation{BookID: "book-1", State: core.DeletionStateActive}, result.Mutation)
}

func Test_Decide_Idempotent_WhenActive(t *testing.T) {
	book := FixtureBook("book-1", "978-1-098-10013-1", 2, time.Now())

	result := restorebook.Decide(book)

	assert.True(t, result.IsIdempotent(), "Should need no request")
	assert.NoError(t, result.HasError())
}
