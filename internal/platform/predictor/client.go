// Package predictor is the HTTP client for the external prediction service.
// Payloads are opaque JSON and are forwarded verbatim in both directions.
package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/alzcare/alzcare/internal/errs"
)

// DefaultTimeout bounds every call to the prediction service.
const DefaultTimeout = 30 * time.Second

// maxBody caps how much of an upstream answer is read.
const maxBody = 4 << 20

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client, e.g. in tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger used for failed calls.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithObserver registers a callback invoked after each call with the
// upstream path, the outcome label and the call duration.
func WithObserver(fn func(path, outcome string, d time.Duration)) Option {
	return func(c *Client) { c.observe = fn }
}

type Client struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
	observe func(path, outcome string, d time.Duration)
}

func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  zerolog.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) Health(ctx context.Context) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "/health", nil)
}

func (c *Client) ModelInfo(ctx context.Context) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "/model-info", nil)
}

func (c *Client) DatasetInfo(ctx context.Context) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "/dataset-info", nil)
}

// Predict forwards a feature map to the basic model.
func (c *Client) Predict(ctx context.Context, features json.RawMessage) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, "/predict", features)
}

// PredictEnhanced forwards a feature map to the model with dataset analysis.
func (c *Client) PredictEnhanced(ctx context.Context, features json.RawMessage) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, "/predict-enhanced", features)
}

// do performs one call. A non-2xx answer becomes *errs.UpstreamError; a
// timeout or a connection failure wraps errs.ErrUpstreamTimeout or
// errs.ErrUpstreamUnreachable.
func (c *Client) do(ctx context.Context, method, path string, body []byte) (json.RawMessage, error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return nil, fmt.Errorf("build prediction request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		err = classify(err)
		c.finish(path, outcome(err), start, err)
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		err = classify(err)
		c.finish(path, outcome(err), start, err)
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := &errs.UpstreamError{Status: resp.StatusCode, Body: data}
		c.finish(path, "upstream_error", start, err)
		return nil, err
	}
	c.finish(path, "ok", start, nil)
	if len(bytes.TrimSpace(data)) == 0 || !json.Valid(data) {
		// The service is expected to answer JSON; relay anything else as a string.
		quoted, _ := json.Marshal(string(data))
		return quoted, nil
	}
	return data, nil
}

func (c *Client) finish(path, result string, start time.Time, err error) {
	d := time.Since(start)
	if c.observe != nil {
		c.observe(path, result, d)
	}
	if err != nil {
		c.logger.Warn().Err(err).Str("path", path).Dur("duration", d).Msg("prediction service call failed")
	}
}

func classify(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %v", errs.ErrUpstreamTimeout, err)
	}
	return fmt.Errorf("%w: %v", errs.ErrUpstreamUnreachable, err)
}

func outcome(err error) string {
	if errors.Is(err, errs.ErrUpstreamTimeout) {
		return "timeout"
	}
	return "unreachable"
}
