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

// Cart mutations pass their arguments as query parameters and carry no body;
// every response is the full canonical cart, which callers adopt wholesale.

func (c *Client) GetCart(ctx context.Context) result.Result[models.Cart] {
	return doJSON[models.Cart](c, ctx, http.MethodGet, "cart", nil, nil)
}

func (c *Client) AddCartItem(ctx context.Context, productID uint, quantity uint) result.Result[models.Cart] {
	q := url.Values{}
	q.Set("productId", strconv.FormatUint(uint64(productID), 10))
	q.Set("quantity", strconv.FormatUint(uint64(quantity), 10))
	return doJSON[models.Cart](c, ctx, http.MethodPost, "cart/items", q, nil)
}

func (c *Client) UpdateCartItem(ctx context.Context, itemID uint, quantity uint) result.Result[models.Cart] {
	q := url.Values{}
	q.Set("quantity", strconv.FormatUint(uint64(quantity), 10))
	return doJSON[models.Cart](c, ctx, http.MethodPatch, fmt.Sprintf("cart/items/%d", itemID), q, nil)
}

func (c *Client) RemoveCartItem(ctx context.Context, itemID uint) result.Result[models.Cart] {
	return doJSON[models.Cart](c, ctx, http.MethodDelete, fmt.Sprintf("cart/items/%d", itemID), nil, nil)
}

func (c *Client) ClearCart(ctx context.Context) result.Result[models.Cart] {
	return doJSON[models.Cart](c, ctx, http.MethodPost, "cart/clear", nil, nil)
}
