package remote

import (
	"context"
	"net/http"
	"net/url"

	"github.com/AntonStoeckl/librarydesk/core"
)

const (
	pathListBooks   = "book/all"
	pathAddBook     = "book/admin/add"
	pathISBNLookup  = "book/isbn"
	pathDeleteBook  = "book/admin/delete"
	pathRestoreBook = "book/admin/restore"
)

// ListBooks fetches one page of books. query carries the encoded list descriptor.
func (c *Client) ListBooks(ctx context.Context, query url.Values) (core.BookPage, error) {
	var page bookPageDTO
	if err := c.do(ctx, http.MethodGet, pathListBooks, query, nil, &page); err != nil {
		return core.BookPage{}, err
	}

	return page.toCore(), nil
}

// LookupByISBN asks the service whether a title with the normalized isbn exists.
func (c *Client) LookupByISBN(ctx context.Context, isbn core.ISBNString) (core.ISBNLookupResult, error) {
	var lookup isbnLookupDTO
	if err := c.do(ctx, http.MethodGet, pathISBNLookup+"/"+url.PathEscape(isbn), nil, nil, &lookup); err != nil {
		return core.ISBNLookupResult{}, err
	}

	return lookup.toCore(), nil
}

// SubmitBookMutation sends an add-copies, create-title or update-title request.
// It returns the service confirmation message.
func (c *Client) SubmitBookMutation(ctx context.Context, payload core.BookMutationPayload) (string, error) {
	var answer messageEnvelope
	if err := c.do(ctx, http.MethodPost, pathAddBook, nil, addBookRequestFrom(payload), &answer); err != nil {
		return "", err
	}

	return answer.Message, nil
}

// SetDeletionState soft-deletes or restores a book.
func (c *Client) SetDeletionState(ctx context.Context, mutation core.DeletionMutation) (string, error) {
	path := pathRestoreBook
	if mutation.State == core.DeletionStateDeleted {
		path = pathDeleteBook
	}

	var answer messageEnvelope
	if err := c.do(ctx, http.MethodPut, path+"/"+url.PathEscape(mutation.BookID), nil, nil, &answer); err != nil {
		return "", err
	}

	return answer.Message, nil
}
