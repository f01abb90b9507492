// Package vendorhttp is the JSON-over-HTTP plumbing shared by the vendor
// clients (maps, weather, hotels, messaging).
package vendorhttp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "travel-assistant/vendorhttp"

const (
	DefaultTimeout   = 8 * time.Second
	maxResponseBytes = 1 << 20
	maxErrorBytes    = 4096
)

// HTTPStatusError captures non-2xx upstream responses.
type HTTPStatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("vendorhttp: unexpected status %d from %s: %s", e.StatusCode, e.URL, e.Body)
}

func (e *HTTPStatusError) HTTPStatusCode() int {
	return e.StatusCode
}

// StatusCode extracts the upstream status from err, if any.
func StatusCode(err error) (int, bool) {
	var se *HTTPStatusError
	if !errors.As(err, &se) {
		return 0, false
	}
	return se.StatusCode, true
}

// Client issues JSON requests with a bounded timeout.
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	tracer     trace.Tracer
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout replaces the client with one bounded by d.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient = &http.Client{Timeout: d}
		}
	}
}

// WithTracerProvider records request spans with tp instead of the global
// provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Client) {
		if tp != nil {
			c.tracer = tp.Tracer(tracerName)
		}
	}
}

// WithHeader sets a header sent on every request.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.headers[key] = value
	}
}

// New creates a Client with DefaultTimeout and JSON Accept headers.
func New(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		headers:    map[string]string{"Accept": "application/json"},
		tracer:     otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// resolvedHTTPClient returns the configured client, or a default one when the
// field was cleared.
func (c *Client) resolvedHTTPClient() *http.Client {
	if c.httpClient != nil {
		return c.httpClient
	}
	return &http.Client{Timeout: DefaultTimeout}
}

// GetJSON issues a GET to endpoint with query appended and decodes the JSON body into out.
func (c *Client) GetJSON(ctx context.Context, endpoint string, query url.Values, out any) error {
	full := endpoint
	if len(query) > 0 {
		sep := "?"
		if strings.Contains(endpoint, "?") {
			sep = "&"
		}
		full = endpoint + sep + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, full, nil)
	if err != nil {
		return fmt.Errorf("vendorhttp: create request: %w", err)
	}
	return c.do(req, endpoint, out)
}

// PostJSON marshals body, POSTs it with the extra headers and decodes the
// response into out when out is non-nil.
func (c *Client) PostJSON(ctx context.Context, endpoint string, headers map[string]string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("vendorhttp: marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("vendorhttp: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return c.do(req, endpoint, out)
}

// do reports errors against the endpoint without its query string so API keys
// passed as query parameters never reach logs.
func (c *Client) do(req *http.Request, endpoint string, out any) error {
	for k, v := range c.headers {
		if req.Header.Get(k) == "" {
			req.Header.Set(k, v)
		}
	}

	ctx, span := c.startSpan(req, endpoint)
	defer span.End()

	res, err := c.resolvedHTTPClient().Do(req.WithContext(ctx))
	if err != nil {
		err = fmt.Errorf("vendorhttp: request %s: %w", endpoint, redact(err))
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	defer func() { _ = res.Body.Close() }()

	span.SetAttributes(attribute.Int("http.response.status_code", res.StatusCode))
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		buf, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBytes))
		statusErr := &HTTPStatusError{StatusCode: res.StatusCode, URL: endpoint, Body: string(buf)}
		span.SetStatus(codes.Error, fmt.Sprintf("unexpected status %d", res.StatusCode))
		return statusErr
	}

	buf, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("vendorhttp: read response body: %w", err)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(buf, out); err != nil {
		return fmt.Errorf("vendorhttp: decode response from %s: %w", endpoint, err)
	}
	return nil
}

// startSpan opens a client span named after the method and host. Only the
// endpoint without its query is recorded because some vendors take the API key
// as a query parameter.
func (c *Client) startSpan(req *http.Request, endpoint string) (context.Context, trace.Span) {
	tracer := c.tracer
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}
	return tracer.Start(req.Context(), req.Method+" "+req.URL.Host,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", req.Method),
			attribute.String("server.address", req.URL.Host),
			attribute.String("url.path", req.URL.Path),
			attribute.String("vendor.endpoint", endpoint),
		),
	)
}

// redact strips the URL (and its query) from *url.Error values.
func redact(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return fmt.Errorf("%s: %w", ue.Op, ue.Err)
	}
	return err
}
