package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/allegrolike/storefront/internal/models"
	"github.com/allegrolike/storefront/internal/result"
)

// ProductFilters narrow the product listing. Zero values are omitted from the
// query string.
type ProductFilters struct {
	Search   string
	Category string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Page     int
	Size     int
}

func (f ProductFilters) query() url.Values {
	q := url.Values{}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	if f.MinPrice != nil {
		q.Set("minPrice", f.MinPrice.String())
	}
	if f.MaxPrice != nil {
		q.Set("maxPrice", f.MaxPrice.String())
	}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.Size > 0 {
		q.Set("size", strconv.Itoa(f.Size))
	}
	return q
}

type CreateProductRequest struct {
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity uint            `json:"stockQuantity"`
	SellerID      uint            `json:"sellerId"`
	CategoryID    uint            `json:"categoryId"`
}

func (c *Client) GetProducts(ctx context.Context, filters ProductFilters) result.Result[[]models.Product] {
	return doJSON[[]models.Product](c, ctx, http.MethodGet, "products", filters.query(), nil)
}

func (c *Client) GetProduct(ctx context.Context, id uint) result.Result[models.Product] {
	return doJSON[models.Product](c, ctx, http.MethodGet, fmt.Sprintf("products/%d", id), nil, nil)
}

// CreateProduct sends the product fields as a JSON part alongside the image
// file part. Admin only; the server enforces the role.
func (c *Client) CreateProduct(ctx context.Context, req CreateProductRequest, imageName string, image io.Reader) result.Result[models.Product] {
	return doMultipart[models.Product](c, ctx, "products", func(w *multipart.Writer) error {
		data, err := json.Marshal(req)
		if err != nil {
			return err
		}

		part, err := w.CreateFormField("productData")
		if err != nil {
			return err
		}
		if _, err := part.Write(data); err != nil {
			return err
		}

		file, err := w.CreateFormFile("productImage", imageName)
		if err != nil {
			return err
		}
		_, err = io.Copy(file, image)
		return err
	})
}

func (c *Client) UpdateProduct(ctx context.Context, id uint, fields map[string]any) result.Result[models.Product] {
	return doJSON[models.Product](c, ctx, http.MethodPut, fmt.Sprintf("products/%d", id), nil, fields)
}

func (c *Client) DeleteProduct(ctx context.Context, id uint) result.Result[struct{}] {
	return doJSON[struct{}](c, ctx, http.MethodDelete, fmt.Sprintf("products/%d", id), nil, nil)
}
