package removebook

import (
	"context"

	"github.com/AntonStoeckl/librarydesk/core"
	"github.com/AntonStoeckl/librarydesk/shell"
)

// DeletionSubmitter defines the remote operation needed by the CommandHandler.
type DeletionSubmitter interface {
	SetDeletionState(ctx context.Context, mutation core.DeletionMutation) (string, error)
}

// CommandHandler orchestrates the soft-delete workflow: Decide -> Submit.
type CommandHandler struct {
	submitter DeletionSubmitter
}

// NewCommandHandler creates a new CommandHandler.
func NewCommandHandler(submitter DeletionSubmitter) CommandHandler {
	return CommandHandler{submitter: submitter}
}

// Handle decides on the deletion and submits it.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	result := Decide(command.Book)

	if result.IsIdempotent() {
		return shell.NewIdempotentResult(), nil
	}

	if err := result.HasError(); err != nil {
		return shell.NewErrorResult(false), err
	}

	message, err := h.submitter.SetDeletionState(ctx, result.Mutation.(core.DeletionMutation)) //nolint:forcetypeassert // Decide only yields DeletionMutation
	if err != nil {
		return shell.NewErrorResult(true), err
	}

	return shell.NewSuccessResult(message), nil
}
