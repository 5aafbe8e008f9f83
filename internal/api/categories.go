package api

import (
	"context"
	"net/http"

	"github.com/allegrolike/storefront/internal/models"
	"github.com/allegrolike/storefront/internal/result"
)

type CreateCategoryRequest struct {
	Name string `json:"name"`
	// ParentCategoryID is nil for a root category.
	ParentCategoryID *uint `json:"parentCategoryId"`
}

func (c *Client) GetCategories(ctx context.Context) result.Result[[]models.Category] {
	return doJSON[[]models.Category](c, ctx, http.MethodGet, "categories", nil, nil)
}

func (c *Client) CreateCategory(ctx context.Context, req CreateCategoryRequest) result.Result[models.Category] {
	return doJSON[models.Category](c, ctx, http.MethodPost, "categories", nil, req)
}
