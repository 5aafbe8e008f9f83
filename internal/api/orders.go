package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/allegrolike/storefront/internal/models"
	"github.com/allegrolike/storefront/internal/result"
)

// CreateOrderRequest is the optional shipping address payload for order
// creation. A nil request means "ship to the address already on the user".
type CreateOrderRequest struct {
	City        string `json:"city"`
	Country     string `json:"country"`
	Street      string `json:"street"`
	HouseNumber int    `json:"houseNumber"`
}

func pageQuery(page, size int) url.Values {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if size > 0 {
		q.Set("size", strconv.Itoa(size))
	}
	return q
}

// GetAllOrders lists every user's orders. Admin only.
func (c *Client) GetAllOrders(ctx context.Context, page, size int) result.Result[[]models.Order] {
	return doJSON[[]models.Order](c, ctx, http.MethodGet, "orders", pageQuery(page, size), nil)
}

func (c *Client) GetUserOrders(ctx context.Context, userID uint, page, size int) result.Result[[]models.Order] {
	return doJSON[[]models.Order](c, ctx, http.MethodGet, fmt.Sprintf("orders/users/%d", userID), pageQuery(page, size), nil)
}

// CreateOrder turns the user's current cart into an order. The cart is
// cleared server-side as a side effect.
func (c *Client) CreateOrder(ctx context.Context, userID uint, shipping *CreateOrderRequest) result.Result[models.Order] {
	var body any
	if shipping != nil {
		body = shipping
	}
	return doJSON[models.Order](c, ctx, http.MethodPost, fmt.Sprintf("orders/users/%d", userID), nil, body)
}
