package remote

import (
	"context"
	"net/http"

	"github.com/AntonStoeckl/librarydesk/core"
)

const pathListCategories = "category/all"

// ListCategories fetches every category.
func (c *Client) ListCategories(ctx context.Context) ([]core.Category, error) {
	var listing categoriesDTO
	if err := c.do(ctx, http.MethodGet, pathListCategories, nil, nil, &listing); err != nil {
		return nil, err
	}

	categories := make([]core.Category, 0, len(listing.Categories))
	for _, cat := range listing.Categories {
		categories = append(categories, core.Category{ID: cat.ID, Name: cat.Name})
	}

	return categories, nil
}
