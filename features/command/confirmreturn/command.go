package confirmreturn

import "github.com/AntonStoeckl/librarydesk/core"

const (
	commandType = "ConfirmReturn"
)

// Command represents the intent to confirm the return of the loan in Record.
type Command struct {
	Record core.BorrowRecord
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command for record.
func BuildCommand(record core.BorrowRecord) Command {
	return Command{Record: record}
}
