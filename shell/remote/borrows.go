package remote

import (
	"context"
	"net/http"
	"net/url"

	"github.com/AntonStoeckl/librarydesk/core"
)

const (
	pathRecordBorrow    = "borrow/record-borrow-book"
	pathReturnBorrowed  = "borrow/return-borrowed-book"
	pathBorrowedByUsers = "borrow/borrowed-books-by-users"
	pathMyBorrowedBooks = "borrow/my-borrowed-books"
)

// SubmitBorrowMutation records a loan or confirms a return.
func (c *Client) SubmitBorrowMutation(ctx context.Context, mutation core.BorrowMutation) (string, error) {
	method, path := http.MethodPost, pathRecordBorrow
	if mutation.Kind == core.BorrowKindReturn {
		method, path = http.MethodPut, pathReturnBorrowed
	}

	var answer messageEnvelope
	body := borrowRequestDTO{Email: mutation.UserEmail}
	if err := c.do(ctx, method, path+"/"+url.PathEscape(mutation.BookID), nil, body, &answer); err != nil {
		return "", err
	}

	return answer.Message, nil
}

// ListBorrowRecords fetches every user's records (core.BorrowScopeAll) or the current user's.
func (c *Client) ListBorrowRecords(ctx context.Context, scope core.BorrowScope) ([]core.BorrowRecord, error) {
	path := pathMyBorrowedBooks
	if scope == core.BorrowScopeAll {
		path = pathBorrowedByUsers
	}

	var listing borrowRecordsDTO
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &listing); err != nil {
		return nil, err
	}

	records := make([]core.BorrowRecord, 0, len(listing.BorrowedBooks))
	for _, r := range listing.BorrowedBooks {
		records = append(records, r.toCore())
	}

	return records, nil
}
