// Package webhook implements an HTTP POST adapter.
//
// Publishes capture completion events as JSON to a configurable URL.
// Retries with exponential backoff on transient failures.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/justapithecus/depthcap/adapter"
	"github.com/justapithecus/depthcap/iox"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 10 * time.Second

// DefaultRetries is the default number of retry attempts.
const DefaultRetries = 3

// Headers set on every request in addition to Config.Headers.
const (
	HeaderEvent   = "X-Depthcap-Event"
	HeaderSession = "X-Depthcap-Session"
)

// Config configures the webhook adapter.
type Config struct {
	// URL is the HTTP endpoint to POST to (required).
	URL string
	// Headers are custom HTTP headers added to each request.
	Headers map[string]string
	// Timeout is the per-request timeout (default 10s).
	Timeout time.Duration
	// Retries is the number of retry attempts on failure (default 3).
	Retries int
	// Backoff is the delay before the first retry (default 500ms).
	Backoff time.Duration
}

// Adapter publishes capture completion events via HTTP POST.
type Adapter struct {
	config Config
	client *http.Client
}

// New creates a webhook adapter from the given config.
// Returns an error if the URL is empty.
func New(cfg Config) (*Adapter, error) {
	if cfg.URL == "" {
		return nil, errors.New("webhook adapter requires a URL")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Retries < 0 {
		return nil, fmt.Errorf("retries must be >= 0, got %d", cfg.Retries)
	}

	return &Adapter{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// Publish sends the event as a JSON POST request.
// 5xx, 429 and network errors are retried; other 4xx responses fail
// immediately.
func (a *Adapter) Publish(ctx context.Context, event *adapter.CaptureCompletedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("webhook: marshal event: %w", err)
	}

	return adapter.Retry(ctx, "webhook", a.config.Retries, a.config.Backoff, func(ctx context.Context) error {
		err := a.doRequest(ctx, event, body)
		var statusErr *StatusError
		if errors.As(err, &statusErr) && !statusErr.Retriable() {
			return fmt.Errorf("%w: %w", adapter.ErrPermanent, err)
		}
		return err
	})
}

// StatusError is returned for non-2xx HTTP responses.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.Code)
}

// Retriable reports whether the request may succeed if repeated.
func (e *StatusError) Retriable() bool {
	return e.Code >= 500 || e.Code == http.StatusTooManyRequests
}

// doRequest performs a single HTTP POST and returns nil on 2xx.
func (a *Adapter) doRequest(ctx context.Context, event *adapter.CaptureCompletedEvent, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.config.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderEvent, event.EventType)
	req.Header.Set(HeaderSession, event.SessionID)
	for k, v := range a.config.Headers {
		req.Header.Set(k, v)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer iox.DiscardClose(resp.Body)

	// Drain body to allow connection reuse
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Code: resp.StatusCode}
	}

	return nil
}

// Close releases adapter resources.
func (a *Adapter) Close() error {
	a.client.CloseIdleConnections()
	return nil
}

// Verify Adapter implements the adapter interface.
var _ adapter.Adapter = (*Adapter)(nil)
