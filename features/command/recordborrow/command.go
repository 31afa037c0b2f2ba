package recordborrow

import (
	"strings"

	"github.com/AntonStoeckl/librarydesk/core"
)

const (
	commandType = "RecordBorrow"
)

// Command represents the intent to lend one copy of Book to the user with UserEmail.
type Command struct {
	Book      core.Book
	UserEmail core.EmailString
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command. The email is trimmed.
func BuildCommand(book core.Book, email string) Command {
	return Command{
		Book:      book,
		UserEmail: strings.TrimSpace(email),
	}
}
