package categories

import (
	"context"

	"github.com/AntonStoeckl/librarydesk/core"
	"github.com/AntonStoeckl/librarydesk/shell"
)

// CategoriesLister defines the remote operation needed by the QueryHandler.
type CategoriesLister interface {
	ListCategories(ctx context.Context) ([]core.Category, error)
}

// QueryHandler lists categories, retrying transport failures.
type QueryHandler struct {
	lister       CategoriesLister
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
func NewQueryHandler(lister CategoriesLister, opts ...Option) QueryHandler {
	handler := QueryHandler{lister: lister}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle lists every category.
func (h QueryHandler) Handle(ctx context.Context, _ Query) ([]core.Category, error) {
	var categories []core.Category

	_, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		fetched, fetchErr := h.lister.ListCategories(retryCtx)
		categories = fetched

		return fetchErr
	}, h.retryOptions...)
	if err != nil {
		return nil, err
	}

	return categories, nil
}

// Handler lists categories. Both the plain and the observable QueryHandler satisfy it.
type Handler = shell.QueryHandler[Query, []core.Category]

// Refresh rebuilds lookup through handler when it is stale.
func Refresh(ctx context.Context, handler Handler, lookup *core.CategoryLookup) error {
	if !lookup.Stale() {
		return nil
	}

	fetched, err := handler.Handle(ctx, BuildQuery())
	if err != nil {
		return err
	}

	lookup.Rebuild(fetched)

	return nil
}
