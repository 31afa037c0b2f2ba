package remote

import (
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"

	"github.com/AntonStoeckl/librarydesk/core"
)

type messageEnvelope struct {
	Message string `json:"message"`
}

type bookDTO struct {
	ID          string          `json:"_id"`
	ISBN        string          `json:"isbn"`
	Title       string          `json:"title"`
	Author      string          `json:"author"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	TotalCopies int             `json:"totalCopies"`
	Quantity    int             `json:"quantity"`
	Categories  []string        `json:"categories"`
	IsDeleted   bool            `json:"isDeleted"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type bookPageDTO struct {
	Books      []bookDTO `json:"books"`
	TotalBooks int       `json:"totalBooks"`
	Page       int       `json:"page"`
	Limit      int       `json:"limit"`
	TotalPages int       `json:"totalPages"`
}

type bookMetadataDTO struct {
	Title       string          `json:"title"`
	Author      string          `json:"author"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

type isbnLookupDTO struct {
	Exists bool             `json:"exists"`
	Book   *bookMetadataDTO `json:"book,omitempty"`
}

// addBookRequestDTO omits every metadata key for copies-only submissions.
type addBookRequestDTO struct {
	Intent      string              `json:"intent"`
	ISBN        string              `json:"isbn"`
	Quantity    int                 `json:"quantity"`
	Title       *string             `json:"title,omitempty"`
	Author      *string             `json:"author,omitempty"`
	Price       jsoniter.RawMessage `json:"price,omitempty"`
	Description *string             `json:"description,omitempty"`
}

type borrowRequestDTO struct {
	Email string `json:"email"`
}

type borrowUserDTO struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type borrowRecordDTO struct {
	ID           string          `json:"_id"`
	Book         string          `json:"book"`
	BookTitle    string          `json:"bookTitle"`
	User         borrowUserDTO   `json:"user"`
	BorrowedDate time.Time       `json:"borrowedDate"`
	DueDate      time.Time       `json:"dueDate"`
	ReturnDate   *time.Time      `json:"returnDate"`
	Returned     bool            `json:"returned"`
	Price        decimal.Decimal `json:"price"`
}

type borrowRecordsDTO struct {
	BorrowedBooks []borrowRecordDTO `json:"borrowedBooks"`
}

type categoryDTO struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

type categoriesDTO struct {
	Categories []categoryDTO `json:"categories"`
}

func (d bookDTO) toCore() core.Book {
	categoryIDs := append([]core.CategoryIDString(nil), d.Categories...)

	return core.Book{
		ID:          d.ID,
		ISBN:        core.NormalizeISBN(d.ISBN),
		Title:       d.Title,
		Author:      d.Author,
		Description: d.Description,
		Price:       d.Price,
		TotalCopies: d.TotalCopies,
		Quantity:    d.Quantity,
		CategoryIDs: categoryIDs,
		IsDeleted:   d.IsDeleted,
		CreatedAt:   core.ToTimestamp(d.CreatedAt),
	}
}

func (d bookPageDTO) toCore() core.BookPage {
	books := make([]core.Book, 0, len(d.Books))
	for _, b := range d.Books {
		books = append(books, b.toCore())
	}

	return core.BookPage{
		Books:      books,
		TotalBooks: d.TotalBooks,
		Page:       d.Page,
		Limit:      d.Limit,
		TotalPages: d.TotalPages,
	}
}

// toCore treats an answer without book metadata as an unknown title.
func (d isbnLookupDTO) toCore() core.ISBNLookupResult {
	if !d.Exists || d.Book == nil {
		return core.ISBNLookupResult{}
	}

	return core.ISBNLookupResult{
		Exists: true,
		Book: &core.BookMetadata{
			Title:       d.Book.Title,
			Author:      d.Book.Author,
			Description: d.Book.Description,
			Price:       d.Book.Price,
		},
	}
}

func (d borrowRecordDTO) toCore() core.BorrowRecord {
	record := core.BorrowRecord{
		ID:           d.ID,
		BookID:       d.Book,
		BookTitle:    d.BookTitle,
		UserID:       d.User.ID,
		UserEmail:    d.User.Email,
		BorrowedDate: core.ToTimestamp(d.BorrowedDate),
		DueDate:      core.ToTimestamp(d.DueDate),
		Returned:     d.Returned,
		Price:        d.Price,
	}

	if d.ReturnDate != nil {
		returnDate := core.ToTimestamp(*d.ReturnDate)
		record.ReturnDate = &returnDate
	}

	return record
}

func addBookRequestFrom(payload core.BookMutationPayload) addBookRequestDTO {
	req := addBookRequestDTO{
		Intent:   string(payload.Intent),
		ISBN:     payload.ISBN,
		Quantity: payload.Quantity,
	}

	if payload.CopiesOnly() {
		return req
	}

	title, author, description := payload.Title, payload.Author, payload.Description
	req.Title = &title
	req.Author = &author
	req.Description = &description
	// Plain JSON number, decimal.Decimal would marshal as a quoted string.
	req.Price = jsoniter.RawMessage(payload.Price.String())

	return req
}
