package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/allegrolike/storefront/internal/models"
	"github.com/allegrolike/storefront/internal/result"
)

// UserGoneMsg replaces any 404 on the user routes: the token still names a
// user the backend no longer knows about.
const UserGoneMsg = "Current user was not found in the database, please relogin"

type UpdateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type CreateAddressRequest struct {
	City        string `json:"city"`
	Country     string `json:"country"`
	Street      string `json:"street"`
	HouseNumber int    `json:"houseNumber"`
}

func (c *Client) userCall(ctx context.Context, method, path string, body any) result.Result[models.User] {
	r, status := doJSONStatus[models.User](c, ctx, method, path, url.Values{}, body)
	if status == http.StatusNotFound {
		return result.Fail[models.User](UserGoneMsg)
	}
	return r
}

// UpdateUser patches profile fields; the response is the full updated user,
// which callers adopt wholesale.
func (c *Client) UpdateUser(ctx context.Context, userID uint, req UpdateUserRequest) result.Result[models.User] {
	return c.userCall(ctx, http.MethodPatch, fmt.Sprintf("users/%d", userID), req)
}

// CreateUserAddress creates a new address and attaches it to the user.
func (c *Client) CreateUserAddress(ctx context.Context, userID uint, req CreateAddressRequest) result.Result[models.User] {
	return c.userCall(ctx, http.MethodPost, fmt.Sprintf("users/%d/address", userID), req)
}

// SetUserAddress re-points the user at an existing address.
func (c *Client) SetUserAddress(ctx context.Context, userID, addressID uint) result.Result[models.User] {
	return c.userCall(ctx, http.MethodPut, fmt.Sprintf("users/%d/address/%d", userID, addressID), nil)
}
