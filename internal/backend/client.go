// Package backend is the HTTP client for the code assistant service.
//
// Each run is a single POST of {"code": ...} to baseURL+endpoint; the
// service answers {"result": ...}. There are no retries.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"codefix/internal/jsonutil"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// DefaultBaseURL is where the local model server listens by default.
const DefaultBaseURL = "http://127.0.0.1:5000"

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 4 << 20

// Client sends code to the backend.
type Client struct {
	baseURL string
	client  *http.Client
	tracer  oteltrace.Tracer
	logger  zerolog.Logger
	timeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.client = hc
		}
	}
}

// WithTimeout bounds each request. Zero keeps transport defaults. It applies
// to whichever http.Client the client ends up with, regardless of order.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithTracer records one span per request.
func WithTracer(t oteltrace.Tracer) Option {
	return func(c *Client) {
		if t != nil {
			c.tracer = t
		}
	}
}

// WithLogger sets the diagnostics logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// New creates a client for baseURL, which must be an absolute http(s) URL.
func New(baseURL string, opts ...Option) (*Client, error) {
	base, err := NormalizeBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL: base,
		client:  &http.Client{},
		tracer:  noop.NewTracerProvider().Tracer("codefix/backend"),
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.client
		hc.Timeout = c.timeout
		c.client = &hc
	}
	c.logger = c.logger.With().Str("component", "backend").Logger()
	return c, nil
}

// NormalizeBaseURL validates raw and strips any trailing slash.
func NormalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("base url is empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("base url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("base url %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return "", fmt.Errorf("base url %q: missing host", raw)
	}
	return strings.TrimRight(raw, "/"), nil
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type runRequest struct {
	Code string `json:"code"`
}

// Run posts code to endpoint and returns the "result" field of the reply.
// Errors wrap ErrTransport, ErrStatus (as *StatusError) or ErrMalformed.
func (c *Client) Run(ctx context.Context, endpoint, code string) (result string, err error) {
	requestID := uuid.NewString()
	target := c.baseURL + endpoint

	ctx, span := c.tracer.Start(ctx, "codefix.backend.run",
		oteltrace.WithSpanKind(oteltrace.SpanKindClient),
		oteltrace.WithAttributes(
			attribute.String("codefix.endpoint", endpoint),
			attribute.String("codefix.request.id", requestID),
			attribute.Int("codefix.code.length", len(code)),
			attribute.String("http.url", target),
		),
	)
	start := time.Now()
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			c.logger.Error().Err(err).Str("request_id", requestID).Str("endpoint", endpoint).
				Dur("elapsed", time.Since(start)).Msg("request failed")
		} else {
			span.SetStatus(codes.Ok, "")
			c.logger.Debug().Str("request_id", requestID).Str("endpoint", endpoint).
				Dur("elapsed", time.Since(start)).Msg("request completed")
		}
		span.End()
	}()

	body, err := json.Marshal(runRequest{Code: code})
	if err != nil {
		return "", fmt.Errorf("%w: encode request: %v", ErrTransport, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: build request: %v", ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return "", fmt.Errorf("%w: read body: %v", ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &StatusError{Code: resp.StatusCode, Detail: errorDetail(data)}
	}
	if len(data) > maxResponseBytes {
		return "", fmt.Errorf("%w: %w (limit %d bytes)", ErrMalformed, ErrTooLarge, maxResponseBytes)
	}
	return decodeResult(data)
}

func decodeResult(data []byte) (string, error) {
	var payload map[string]interface{}
	if err := jsonutil.UnmarshalWithContext(data, &payload, "decode result"); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	result, ok := jsonutil.LookupString(payload, "result")
	if !ok {
		return "", fmt.Errorf("%w: missing string field \"result\"", ErrMalformed)
	}
	return result, nil
}

// errorDetail pulls a short message out of an error body, if it is JSON.
func errorDetail(data []byte) string {
	var payload map[string]interface{}
	if err := json.Unmarshal(data, &payload); err != nil {
		return ""
	}
	return jsonutil.GetString(payload, "detail")
}
