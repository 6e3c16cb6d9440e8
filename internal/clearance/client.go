package clearance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// maxResponseBody limits how much of a reply we read. Rendered listing
// pages run to a few megabytes; 20MB leaves generous headroom while
// preventing memory exhaustion from a misbehaving service.
const maxResponseBody = 20 * 1024 * 1024

// errorBodyLimit caps how much of an error response body is carried in
// RequestError. Enough for diagnosis without flooding logs.
const errorBodyLimit = 4 * 1024

// Client talks to the cf-clearance-scraper service.
//
// Design decision: the client carries its own http.Client rather than
// accepting one per call because the endpoint and timeout are fixed for
// the lifetime of a run, and a shared client keeps connection reuse
// working across batch pages.
type Client struct {
	// endpoint is the full URL of the clearance endpoint,
	// http://{host}:{port}/cf-clearance-scraper.
	endpoint string

	// httpClient performs the actual requests.
	httpClient *http.Client

	// logger records request failures before they are returned.
	logger *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Used by tests and by
// callers that need custom transport settings.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger used for request failures.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a clearance service client for the given host and
// port. The timeout applies to each request end to end, including the
// service-side challenge solve, so it should be generous (a minute or
// more).
//
// The constructor validates the endpoint but performs no network traffic;
// a dead service surfaces as a request error on the first call.
func NewClient(host string, port int, timeout time.Duration, opts ...Option) (*Client, error) {
	if host == "" || port < 1 || port > 65535 {
		return nil, fmt.Errorf("%w: host=%q port=%d", ErrInvalidEndpoint, host, port)
	}

	c := &Client{
		endpoint: fmt.Sprintf("http://%s:%d/cf-clearance-scraper", host, port),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = slog.Default()
	}

	return c, nil
}

// Endpoint returns the configured clearance endpoint URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Do sends a single synchronous request to the clearance service and
// decodes the reply.
//
// Failure handling follows the batch driver's needs: any transport failure
// or non-2xx status is logged here, wrapped with the HTTP status and
// response body, and returned to the caller. There is no retry; one failed
// call is one reported failure.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	if !req.Mode.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMode, req.Mode)
	}
	if req.Mode == ModeTurnstileMin && req.SiteKey == "" {
		return nil, ErrMissingSiteKey
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode clearance request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create clearance request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		// No response was received: the raw transport message is all
		// the context we have.
		wrapped := fmt.Errorf("clearance request failed: %w", err)
		c.logger.Error("clearance request failed",
			"url", req.URL,
			"mode", req.Mode.String(),
			"error", err,
		)
		return nil, wrapped
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, fmt.Errorf("failed to read clearance response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		reqErr := &RequestError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       truncate(string(body), errorBodyLimit),
		}
		c.logger.Error("clearance service error",
			"url", req.URL,
			"mode", req.Mode.String(),
			"status", resp.Status,
		)
		return nil, reqErr
	}

	return decodeResponse(resp.StatusCode, body), nil
}

// SourceHTML fetches the rendered HTML of a page via source mode.
// This is the call the batch harvester makes for every listing page.
func (c *Client) SourceHTML(ctx context.Context, pageURL string, proxy *Proxy) (string, error) {
	resp, err := c.Do(ctx, Request{
		URL:   pageURL,
		Mode:  ModeSource,
		Proxy: proxy,
	})
	if err != nil {
		return "", err
	}

	// The service reports solve failures inside a 200 reply.
	if resp.Code != 0 && resp.Code != http.StatusOK {
		return "", &RequestError{
			StatusCode: resp.Code,
			Status:     fmt.Sprintf("%d (service)", resp.Code),
			Body:       resp.Message,
		}
	}

	html := resp.HTML()
	if html == "" {
		return "", ErrEmptySource
	}
	return html, nil
}

// decodeResponse interprets a 2xx reply body.
//
// The service normally replies with a JSON object, but some versions return
// the bare HTML string in source mode. A body that does not parse as a JSON
// object is treated as page source.
func decodeResponse(statusCode int, body []byte) *Response {
	trimmed := strings.TrimSpace(string(body))

	if strings.HasPrefix(trimmed, "{") {
		var r Response
		if err := json.Unmarshal(body, &r); err == nil {
			return &r
		}
	}

	// A bare JSON string is also possible: "<html>..."
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(body, &s); err == nil {
			return &Response{Code: statusCode, Source: s}
		}
	}

	return &Response{Code: statusCode, Source: string(body)}
}

// truncate shortens s to at most n bytes, marking the cut.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "...(truncated)"
}
