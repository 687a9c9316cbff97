// Package api is the remote gateway for the shopping-list backend: one typed
// function per resource operation. Transport failures and non-2xx responses
// are normalized into *Error values carrying a human-readable message, and the
// bearer token is injected into protected requests. The package is blind to
// UI concerns.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TokenSource supplies the current bearer token for protected requests. It
// must not block; the session store backs it with an in-memory snapshot.
type TokenSource interface {
	CurrentToken() string
}

// Client talks to the shopping-list backend.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	tokens      TokenSource
	onAuthError func()
}

// NewClient creates a gateway client for the given base URL.
func NewClient(baseURL string, timeout time.Duration, tokens TokenSource) *Client {
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		tokens:     tokens,
	}
}

// OnAuthError registers the callback fired when any protected call receives
// an authorization-denied response. The session store hooks its ClearToken
// here so a stale token logs the whole client out.
func (c *Client) OnAuthError(fn func()) {
	c.onAuthError = fn
}

// do executes one request and decodes the 2xx response body into out (which
// may be nil). Failures come back as *Error.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any, protected bool) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &Error{Kind: KindTransport, Message: fmt.Sprintf("encoding request: %v", err)}
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return &Error{Kind: KindTransport, Message: fmt.Sprintf("building request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if protected {
		if token := c.tokens.CurrentToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Kind: KindTransport, Message: "no connection to the server"}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.normalize(resp, protected)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &Error{Kind: KindServer, Message: "unreadable server response"}
		}
	}
	return nil
}

// normalize converts a non-2xx response into the error taxonomy. An
// authorization-denied response on a protected call fires the global session
// clear before the error is returned; on unprotected calls (bad login
// credentials) it is just a validation failure.
func (c *Client) normalize(resp *http.Response, protected bool) error {
	message := serverMessage(resp)

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		if protected {
			if c.onAuthError != nil {
				c.onAuthError()
			}
			return &Error{Kind: KindAuth, Message: message}
		}
		return &Error{Kind: KindValidation, Message: message}
	case resp.StatusCode >= 500:
		return &Error{Kind: KindServer, Message: message}
	default:
		return &Error{Kind: KindValidation, Message: message}
	}
}

func serverMessage(resp *http.Response) string {
	var body errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Message != "" {
		return body.Message
	}
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "your session has expired, please log in again"
	case resp.StatusCode >= 500:
		return "the server ran into a problem, please try again"
	default:
		return fmt.Sprintf("request rejected (status %d)", resp.StatusCode)
	}
}

// fetchPage decodes one paginated listing response and maps each record.
func fetchPage[W any, T any](ctx context.Context, c *Client, path string, q ListQuery, mapFn func(W) T) (Page[T], error) {
	var envelope listEnvelope[W]
	if err := c.do(ctx, http.MethodGet, path, q.Values(), nil, &envelope, true); err != nil {
		return Page[T]{}, err
	}
	items := make([]T, 0, len(envelope.Data))
	for _, w := range envelope.Data {
		items = append(items, mapFn(w))
	}
	return Page[T]{Items: items, Pagination: mapPagination(envelope.Pagination)}, nil
}
