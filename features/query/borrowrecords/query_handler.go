package borrowrecords

import (
	"context"

	"github.com/AntonStoeckl/librarydesk/core"
	"github.com/AntonStoeckl/librarydesk/shell"
)

// RecordsLister defines the remote operation needed by the QueryHandler.
type RecordsLister interface {
	ListBorrowRecords(ctx context.Context, scope core.BorrowScope) ([]core.BorrowRecord, error)
}

// QueryHandler lists borrow records, retrying transport failures.
type QueryHandler struct {
	lister       RecordsLister
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
func NewQueryHandler(lister RecordsLister, opts ...Option) QueryHandler {
	handler := QueryHandler{lister: lister}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle lists the records of the query's scope, in service order.
func (h QueryHandler) Handle(ctx context.Context, query Query) ([]core.BorrowRecord, error) {
	var records []core.BorrowRecord

	_, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		fetched, fetchErr := h.lister.ListBorrowRecords(retryCtx, query.Scope)
		records = fetched

		return fetchErr
	}, h.retryOptions...)
	if err != nil {
		return nil, err
	}

	return records, nil
}
