// Package transport delivers built requests over HTTP. Client is the
// blocking capability; Async wraps a Client into the awaitable one.
package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kart-io/pling/pkg/errors"
)

// maxErrorBody bounds how much of a failed response is kept in the error.
const maxErrorBody = 4 << 10

// Request is a fully built outbound request.
type Request struct {
	Method      string
	URL         string
	ContentType string
	Body        []byte
}

// Client performs a request and reports whether it succeeded.
type Client interface {
	Do(ctx context.Context, req *Request) error
}

// ClientFunc adapts a function to the Client interface.
type ClientFunc func(ctx context.Context, req *Request) error

// Do calls f(ctx, req).
func (f ClientFunc) Do(ctx context.Context, req *Request) error {
	return f(ctx, req)
}

// HTTPClient is the net/http implementation of Client.
type HTTPClient struct {
	client    *http.Client
	userAgent string
}

// NewHTTPClient creates a client with the given per-request timeout.
func NewHTTPClient(timeout time.Duration, userAgent string) *HTTPClient {
	return &HTTPClient{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// Do sends req. A response outside 2xx is reported as ErrUnexpectedStatus
// with the response body as details.
func (c *HTTPClient) Do(ctx context.Context, req *Request) error {
	method := req.Method
	if method == "" {
		method = http.MethodPost
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, bytes.NewReader(req.Body))
	if err != nil {
		return errors.Wrap(err, errors.ErrInvalidFormat, "failed to create request")
	}
	if req.ContentType != "" {
		httpReq.Header.Set("Content-Type", req.ContentType)
	}
	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return errors.Wrap(err, errors.ErrNetworkConnection, "request failed")
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.New(errors.ErrUnexpectedStatus, fmt.Sprintf("unexpected status %d", resp.StatusCode)).
			WithDetails(string(body)).
			WithContext("status_code", resp.StatusCode)
	}
	return nil
}
