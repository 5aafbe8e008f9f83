package api

import (
	"context"
	"net/http"

	"github.com/allegrolike/storefront/internal/models"
	"github.com/allegrolike/storefront/internal/result"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token    string `json:"token"`
	Type     string `json:"type"`
	Username string `json:"username"`
}

func (c *Client) Login(ctx context.Context, req LoginRequest) result.Result[AuthResponse] {
	return doJSON[AuthResponse](c, ctx, http.MethodPost, "auth/login", nil, req)
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) result.Result[AuthResponse] {
	return doJSON[AuthResponse](c, ctx, http.MethodPost, "auth/registerUser", nil, req)
}

// CheckToken validates the persisted bearer token and returns the server's
// view of the current user.
func (c *Client) CheckToken(ctx context.Context) result.Result[models.User] {
	return doJSON[models.User](c, ctx, http.MethodGet, "auth/checkToken", nil, nil)
}
