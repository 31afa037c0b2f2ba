package addbook

import (
	"strconv"
	"strings"

	"github.com/AntonStoeckl/librarydesk/features/isbnresolver"
)

const (
	commandType = "AddBook"
)

// Command represents the intent to add copies of a book to the catalog.
type Command struct {
	Resolution isbnresolver.Resolution
	Copies     int
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command from a settled resolution and the raw copy-count text.
func BuildCommand(resolution isbnresolver.Resolution, rawCopies string) Command {
	return Command{
		Resolution: resolution,
		Copies:     ParseCopies(rawCopies),
	}
}

// ParseCopies reads the copy-count input. Anything unparsable or below 1 counts as one copy.
func ParseCopies(raw string) int {
	copies, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || copies < 1 {
		return 1
	}

	return copies
}
