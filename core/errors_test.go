package core_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/librarydesk/core"
)

func Test_RemoteError_UnwrapsToKind(t *testing.T) {
	conflict := fmt.Errorf("delete book: %w", core.NewConflictError(409, "book still has borrowed copies"))
	cause := errors.New("connection refused")
	transport := core.NewTransportError(0, "", cause)

	assert.ErrorIs(t, conflict, core.ErrConflict)
	assert.NotErrorIs(t, conflict, core.ErrTransport)
	assert.ErrorIs(t, transport, core.ErrTransport)
	assert.ErrorIs(t, transport, cause, "Should expose the underlying cause")
	assert.Contains(t, transport.Error(), "connection refused")
}

func Test_UserMessage(t *testing.T) {
	assert.Equal(t, "", core.UserMessage(nil))
	assert.Equal(t, "book still has borrowed copies",
		core.UserMessage(fmt.Errorf("wrapped: %w", core.NewConflictError(409, "book still has borrowed copies"))))
	assert.Equal(t, "title: must not be empty",
		core.UserMessage(core.NewValidationError("title", "must not be empty")))
	assert.Equal(t, "boom", core.UserMessage(errors.New("boom")))
}
