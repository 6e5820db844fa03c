// Package sedapi is the HTTP transport for the SSDC SED Builder REST service.
package sedapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/sedbuilder/internal/domain"
	"github.com/couchcryptid/sedbuilder/internal/observability"
)

// maxErrorBody bounds how much of a failed response body ends up in errors.
const maxErrorBody = 512

// Client fetches SED data with one GET per call. It never retries.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	clock      clockwork.Clock
	metrics    *observability.Metrics
	logger     *slog.Logger

	// unreachable is set while the most recent attempt failed to connect.
	unreachable atomic.Bool
}

// NewClient creates a client for the service rooted at baseURL, e.g.
// "https://tools.ssdc.asi.it/SED/rest".
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		timeout:    timeout,
		httpClient: &http.Client{Timeout: timeout},
		clock:      clockwork.NewRealClock(),
		metrics:    metrics,
		logger:     logger,
	}
}

// DataURL returns the getData URL for a position.
func (c *Client) DataURL(coords domain.Coordinates) string {
	return fmt.Sprintf("%s/getData?ra=%s&dec=%s",
		c.baseURL,
		url.QueryEscape(domain.FormatDegrees(coords.RA)),
		url.QueryEscape(domain.FormatDegrees(coords.Dec)),
	)
}

// GetData validates the coordinates, fetches the response and parses it.
// Invalid coordinates fail before any network traffic.
func (c *Client) GetData(ctx context.Context, ra, dec float64) (*domain.Response, error) {
	coords, err := domain.NewCoordinates(ra, dec)
	if err != nil {
		return nil, err
	}
	body, err := c.Fetch(ctx, coords)
	if err != nil {
		return nil, err
	}
	resp, err := domain.ParseResponse(body)
	if err != nil {
		return nil, fmt.Errorf("getData %s: %w", coords.Key(), err)
	}
	if !resp.IsSuccessful() {
		c.logger.Warn("sed builder returned non-OK status",
			"status_code", resp.ResponseInfo.StatusCode,
			"coords", coords.Key(),
		)
	}
	return resp, nil
}

// Fetch performs the getData request and returns the raw body.
func (c *Client) Fetch(ctx context.Context, coords domain.Coordinates) ([]byte, error) {
	u := c.DataURL(coords)
	start := c.clock.Now()

	body, err := c.do(ctx, u)
	c.metrics.UpstreamDuration.Observe(c.clock.Since(start).Seconds())
	c.metrics.UpstreamRequests.WithLabelValues(outcome(err)).Inc()

	var connErr *ConnectionFailedError
	c.unreachable.Store(errors.As(err, &connErr))

	if err != nil {
		c.logger.Error("sed builder request failed", "url", u, "error", err)
		return nil, err
	}
	c.logger.Debug("sed builder request done", "url", u, "bytes", len(body))
	return body, nil
}

func (c *Client) do(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.classify(ctx, u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &RequestFailedError{URL: u, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.classify(ctx, u, err)
	}
	return body, nil
}

// classify maps a transport failure to TimeoutError or ConnectionFailedError.
// Caller cancellation is returned as is.
func (c *Client) classify(ctx context.Context, u string, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return fmt.Errorf("getData %s: %w", u, ctx.Err())
	}
	var ue *url.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ue) && ue.Timeout()) {
		return &TimeoutError{URL: u, Timeout: c.timeout, Err: err}
	}
	return &ConnectionFailedError{URL: u, Err: err}
}

// CheckReadiness reports an error only while the last request could not reach
// the service. A client that has not made a request yet is ready.
func (c *Client) CheckReadiness(_ context.Context) error {
	if c.unreachable.Load() {
		return fmt.Errorf("%w: last request to %s did not connect", ErrConnectionFailed, c.baseURL)
	}
	return nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return observability.OutcomeSuccess
	case errors.Is(err, ErrTimeout):
		return observability.OutcomeTimeout
	case errors.Is(err, ErrRequestFailed):
		return observability.OutcomeStatusError
	case errors.Is(err, ErrConnectionFailed):
		return observability.OutcomeConnectionError
	default:
		return observability.OutcomeCanceled
	}
}
