package restorebook

import "github.com/AntonStoeckl/librarydesk/core"

const (
	commandType = "RestoreBook"
)

// Command represents the intent to restore a soft-deleted book, carrying the book as currently known.
type Command struct {
	Book core.Book
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command for book.
func BuildCommand(book core.Book) Command {
	return Command{Book: book}
}
