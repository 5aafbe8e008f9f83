package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/allegrolike/storefront/internal/models"
	"github.com/allegrolike/storefront/internal/result"
)

// SearchAddresses runs a free-text address search, used by the
// create-or-search address flow during checkout.
func (c *Client) SearchAddresses(ctx context.Context, query string) result.Result[[]models.Address] {
	return doJSON[[]models.Address](c, ctx, http.MethodGet, "addresses/"+url.PathEscape(query), nil, nil)
}
