// Package redis implements a Redis adapter.
//
// Publishes capture completion events as JSON to a pub/sub channel and,
// optionally, appends them to a stream so consumers that were offline can
// catch up. Retries with exponential backoff on connection errors.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/justapithecus/depthcap/adapter"
)

// DefaultChannel is the default pub/sub channel name.
const DefaultChannel = "depthcap:capture_completed"

// DefaultTimeout is the default per-publish timeout.
const DefaultTimeout = 5 * time.Second

// DefaultRetries is the default number of retry attempts.
const DefaultRetries = 3

// DefaultStreamMaxLen caps the stream length (approximate trimming).
const DefaultStreamMaxLen = 10000

// Config configures the Redis adapter.
type Config struct {
	// URL is the Redis connection URL (required).
	// Format: redis://[:password@]host:port[/db]
	URL string
	// Channel is the pub/sub channel name (default: depthcap:capture_completed).
	Channel string
	// Stream, if set, also appends each event to this stream via XADD.
	Stream string
	// StreamMaxLen caps the stream length (default 10000).
	StreamMaxLen int64
	// Timeout is the per-publish timeout (default 5s).
	Timeout time.Duration
	// Retries is the number of retry attempts on failure (default 3).
	Retries int
	// Backoff is the delay before the first retry (default 500ms).
	Backoff time.Duration
}

// Adapter publishes capture completion events via Redis PUBLISH (and XADD).
type Adapter struct {
	config Config
	client *goredis.Client
}

// New creates a Redis adapter from the given config.
// Returns an error if the URL is empty or invalid.
func New(cfg Config) (*Adapter, error) {
	if cfg.URL == "" {
		return nil, errors.New("redis adapter requires a URL")
	}

	opts, err := goredis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("redis adapter: invalid URL: %w", err)
	}

	if cfg.Channel == "" {
		cfg.Channel = DefaultChannel
	}
	if cfg.StreamMaxLen <= 0 {
		cfg.StreamMaxLen = DefaultStreamMaxLen
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Retries < 0 {
		return nil, fmt.Errorf("retries must be >= 0, got %d", cfg.Retries)
	}

	return &Adapter{
		config: cfg,
		client: goredis.NewClient(opts),
	}, nil
}

// Publish sends the event to the configured channel and stream.
// The stream append happens first so a subscriber that reacts to the
// pub/sub message can already read it from the stream.
func (a *Adapter) Publish(ctx context.Context, event *adapter.CaptureCompletedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("redis: marshal event: %w", err)
	}

	return adapter.Retry(ctx, "redis", a.config.Retries, a.config.Backoff, func(ctx context.Context) error {
		publishCtx, cancel := context.WithTimeout(ctx, a.config.Timeout)
		defer cancel()

		if a.config.Stream != "" {
			err := a.client.XAdd(publishCtx, &goredis.XAddArgs{
				Stream: a.config.Stream,
				MaxLen: a.config.StreamMaxLen,
				Approx: true,
				Values: map[string]any{
					"event_type": event.EventType,
					"session_id": event.SessionID,
					"payload":    string(body),
				},
			}).Err()
			if err != nil {
				return fmt.Errorf("xadd %s: %w", a.config.Stream, err)
			}
		}

		return a.client.Publish(publishCtx, a.config.Channel, body).Err()
	})
}

// Close releases adapter resources.
func (a *Adapter) Close() error {
	return a.client.Close()
}

// Verify Adapter implements the adapter interface.
var _ adapter.Adapter = (*Adapter)(nil)
