package recordborrow

import (
	"context"

	"github.com/AntonStoeckl/librarydesk/core"
	"github.com/AntonStoeckl/librarydesk/shell"
)

// BorrowSubmitter defines the remote operation needed by the CommandHandler.
type BorrowSubmitter interface {
	SubmitBorrowMutation(ctx context.Context, mutation core.BorrowMutation) (string, error)
}

// CommandHandler orchestrates the borrow workflow: Decide -> Submit.
type CommandHandler struct {
	submitter BorrowSubmitter
}

// NewCommandHandler creates a new CommandHandler.
func NewCommandHandler(submitter BorrowSubmitter) CommandHandler {
	return CommandHandler{submitter: submitter}
}

// Handle decides on the borrow and submits it.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	result := Decide(command.Book, command.UserEmail)
	if err := result.HasError(); err != nil {
		return shell.NewErrorResult(false), err
	}

	message, err := h.submitter.SubmitBorrowMutation(ctx, result.Mutation.(core.BorrowMutation)) //nolint:forcetypeassert // Decide only yields BorrowMutation
	if err != nil {
		return shell.NewErrorResult(true), err
	}

	return shell.NewSuccessResult(message), nil
}
