package listbooks

import (
	"context"
	"net/url"

	"github.com/AntonStoeckl/librarydesk/core"
	"github.com/AntonStoeckl/librarydesk/shell"
)

// BooksLister defines the remote operation needed by the QueryHandler.
type BooksLister interface {
	ListBooks(ctx context.Context, query url.Values) (core.BookPage, error)
}

// QueryHandler fetches one page of books, retrying transport failures.
type QueryHandler struct {
	lister       BooksLister
	retryOptions []shell.RetryOption
}

// Option configures a QueryHandler.
type Option func(*QueryHandler)

// WithRetryOptions sets a custom retry configuration for the handler.
func WithRetryOptions(opts ...shell.RetryOption) Option {
	return func(h *QueryHandler) {
		h.retryOptions = opts
	}
}

// NewQueryHandler creates a new QueryHandler with optional configuration.
func NewQueryHandler(lister BooksLister, opts ...Option) QueryHandler {
	handler := QueryHandler{lister: lister}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle fetches the page described by the query.
// The service's totalPages is recomputed from totalBooks and the limit when the service omits it.
func (h QueryHandler) Handle(ctx context.Context, query Query) (core.BookPage, error) {
	var page core.BookPage

	_, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		fetched, fetchErr := h.lister.ListBooks(retryCtx, query.Descriptor.Values())
		page = fetched

		return fetchErr
	}, h.retryOptions...)
	if err != nil {
		return core.BookPage{}, err
	}

	if page.Limit < 1 {
		page.Limit = query.Descriptor.Limit()
	}

	if page.Page < 1 {
		page.Page = query.Descriptor.Page()
	}

	if page.TotalPages == 0 && page.TotalBooks > 0 {
		page.TotalPages = TotalPagesFor(page.TotalBooks, page.Limit)
	}

	return page, nil
}
