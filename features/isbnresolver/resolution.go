package isbnresolver

import (
	"errors"

	"github.com/AntonStoeckl/librarydesk/core"
)

// Status is the classification of the current ISBN input.
type Status string

const (
	// StatusUnset means no verdict: empty input, a pending debounce, or a failed lookup.
	StatusUnset Status = "unset"
	// StatusChecking means a lookup for the current input is in flight.
	StatusChecking Status = "checking"
	// StatusExists means the catalog knows the title.
	StatusExists Status = "exists"
	// StatusNew means the catalog does not know the title.
	StatusNew Status = "new"
)

// Field names one editable metadata field of the add-book form.
type Field string

const (
	FieldTitle       Field = "title"
	FieldAuthor      Field = "author"
	FieldDescription Field = "description"
	FieldPrice       Field = "price"
)

var (
	// ErrFieldLocked is returned by SetField while a known title's metadata is locked.
	ErrFieldLocked = errors.New("field is locked, enable editing first")

	// ErrUnknownField is returned by SetField for a field name outside the form.
	ErrUnknownField = errors.New("unknown field")
)

// Fields holds the raw text of the metadata inputs.
type Fields struct {
	Title       string
	Author      string
	Description string
	Price       string
}

func fieldsFrom(metadata core.BookMetadata) Fields {
	return Fields{
		Title:       metadata.Title,
		Author:      metadata.Author,
		Description: metadata.Description,
		Price:       metadata.Price.String(),
	}
}

func (f *Fields) set(field Field, value string) error {
	switch field {
	case FieldTitle:
		f.Title = value
	case FieldAuthor:
		f.Author = value
	case FieldDescription:
		f.Description = value
	case FieldPrice:
		f.Price = value
	default:
		return ErrUnknownField
	}

	return nil
}

// Resolution is a snapshot of the resolver state, the input of the add-book decision.
type Resolution struct {
	Status      Status
	ISBN        core.ISBNString
	EditEnabled bool
	Fields      Fields
}

// Locked reports whether the metadata fields are read-only.
func (r Resolution) Locked() bool {
	return r.Status == StatusExists && !r.EditEnabled
}
