// Package api wraps the storefront REST backend. Every wrapper returns a
// result.Result instead of an error: expected failures (rejected requests,
// server faults, unreachable network) are translated into messages fit for
// direct display.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/allegrolike/storefront/internal/logging"
	"github.com/allegrolike/storefront/internal/result"
)

// TokenSource yields the current bearer token, or "" when logged out.
type TokenSource interface {
	Token() string
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
}

func NewClient(serverURL string, tokens TokenSource, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(serverURL, "/") + "/api/",
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		tokens: tokens,
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return req, nil
}

// doJSON performs a request with an optional JSON body and translates the
// response into a Result per the error taxonomy: 5xx and undecodable success
// bodies become the generic server message, other HTTP errors surface the
// server-provided message, transport errors become the network message.
func doJSON[T any](c *Client, ctx context.Context, method, path string, query url.Values, body any) result.Result[T] {
	r, _ := doJSONStatus[T](c, ctx, method, path, query, body)
	return r
}

// doJSONStatus is doJSON plus the HTTP status code (0 when no response
// arrived), for the few wrappers whose message depends on the status.
func doJSONStatus[T any](c *Client, ctx context.Context, method, path string, query url.Values, body any) (result.Result[T], int) {
	var buf io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return result.Fail[T](err.Error()), 0
		}
		buf = bytes.NewReader(data)
	}

	req, err := c.newRequest(ctx, method, path, query, buf)
	if err != nil {
		return result.Fail[T](err.Error()), 0
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return send[T](c, req)
}

func send[T any](c *Client, req *http.Request) (result.Result[T], int) {
	l := logging.FromContext(req.Context()).With(
		"method", req.Method,
		"url", req.URL.Path,
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		l.Warn("request_failed", "error", err)
		return result.NetworkError[T](), 0
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		l.Warn("server_error", "status", resp.StatusCode)
		return result.ServerError[T](), resp.StatusCode
	}
	if resp.StatusCode >= http.StatusBadRequest {
		msg := errorMessage(resp)
		l.Warn("request_rejected", "status", resp.StatusCode, "message", msg)
		return result.Fail[T](msg), resp.StatusCode
	}

	var content T
	if resp.StatusCode == http.StatusNoContent {
		return result.Ok(content), resp.StatusCode
	}
	if err := json.NewDecoder(resp.Body).Decode(&content); err != nil {
		l.Error("decode_response", "status", resp.StatusCode, "error", err)
		return result.ServerError[T](), resp.StatusCode
	}
	l.Debug("request_ok", "status", resp.StatusCode)
	return result.Ok(content), resp.StatusCode
}

// errorMessage extracts the displayable message from a 4xx body. Structured
// bodies carry a "message" field; plain-text bodies are surfaced verbatim.
func errorMessage(resp *http.Response) string {
	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil || len(bytes.TrimSpace(data)) == 0 {
		return http.StatusText(resp.StatusCode)
	}

	var structured struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &structured); err == nil && structured.Message != "" {
		return structured.Message
	}
	return string(bytes.TrimSpace(data))
}

// doMultipart posts a multipart form assembled by fill and decodes the JSON
// response the same way doJSON does.
func doMultipart[T any](c *Client, ctx context.Context, path string, fill func(w *multipart.Writer) error) result.Result[T] {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := fill(w); err != nil {
		return result.Fail[T](err.Error())
	}
	if err := w.Close(); err != nil {
		return result.Fail[T](err.Error())
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, nil, &buf)
	if err != nil {
		return result.Fail[T](err.Error())
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	r, _ := send[T](c, req)
	return r
}
