package addbook

import (
	"context"

	"github.com/AntonStoeckl/librarydesk/core"
	"github.com/AntonStoeckl/librarydesk/shell"
)

// BookSubmitter defines the remote operation needed by the CommandHandler.
type BookSubmitter interface {
	SubmitBookMutation(ctx context.Context, payload core.BookMutationPayload) (string, error)
}

// CommandHandler orchestrates the add-book workflow: Decide -> Submit.
// Submissions are never retried, a failure requires an explicit resubmission.
// External wrappers handle all observability concerns.
type CommandHandler struct {
	submitter BookSubmitter
}

// NewCommandHandler creates a new CommandHandler.
func NewCommandHandler(submitter BookSubmitter) CommandHandler {
	return CommandHandler{submitter: submitter}
}

// Handle decides on the payload and submits it.
// A local rule violation returns the core.ValidationError without contacting the service.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	result := Decide(command.Resolution, command.Copies)
	if err := result.HasError(); err != nil {
		return shell.NewErrorResult(false), err
	}

	payload, ok := result.Mutation.(core.BookMutationPayload)
	if !ok {
		return shell.NewErrorResult(false), core.NewValidationError("payload", "unexpected mutation type")
	}

	message, err := h.submitter.SubmitBookMutation(ctx, payload)
	if err != nil {
		return shell.NewErrorResult(true), err
	}

	return shell.NewSuccessResult(message), nil
}
