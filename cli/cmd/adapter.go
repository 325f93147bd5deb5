package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/justapithecus/depthcap/adapter"
	"github.com/justapithecus/depthcap/adapter/redis"
	"github.com/justapithecus/depthcap/adapter/webhook"
	"github.com/justapithecus/depthcap/cli/config"
)

// adapterPublishTimeout bounds the whole publish including retries.
const adapterPublishTimeout = 30 * time.Second

// adapterChoice holds parsed adapter configuration.
type adapterChoice struct {
	typ     string // "", "webhook" or "redis"
	url     string
	channel string
	stream  string
	headers map[string]string
	timeout time.Duration
	retries int
}

func adapterFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "adapter",
			Usage: "Completion event adapter: webhook or redis",
		},
		&cli.StringFlag{
			Name:  "adapter-url",
			Usage: "Adapter endpoint (webhook URL or redis:// URL)",
		},
		&cli.StringSliceFlag{
			Name:  "adapter-header",
			Usage: "Webhook header as Key=Value (repeatable)",
		},
		&cli.StringFlag{
			Name:  "adapter-channel",
			Usage: "Redis pub/sub channel",
		},
		&cli.StringFlag{
			Name:  "adapter-stream",
			Usage: "Redis stream to also append events to",
		},
		&cli.DurationFlag{
			Name:  "adapter-timeout",
			Usage: "Per-attempt adapter timeout",
		},
		&cli.IntFlag{
			Name:  "adapter-retries",
			Usage: "Adapter retry attempts",
			Value: webhook.DefaultRetries,
		},
	}
}

func resolveAdapterChoice(c *cli.Context, cfg *config.Config) (adapterChoice, error) {
	ac := configVal(cfg, func(c *config.Config) config.AdapterConfig { return c.Adapter })

	choice := adapterChoice{
		typ:     resolveString(c, "adapter", ac.Type),
		url:     resolveString(c, "adapter-url", ac.URL),
		channel: resolveString(c, "adapter-channel", ac.Channel),
		stream:  resolveString(c, "adapter-stream", ac.Stream),
		timeout: resolveDuration(c, "adapter-timeout", ac.Timeout.Duration),
		retries: c.Int("adapter-retries"),
		headers: make(map[string]string, len(ac.Headers)),
	}
	if !c.IsSet("adapter-retries") && ac.Retries != nil {
		choice.retries = *ac.Retries
	}
	for k, v := range ac.Headers {
		choice.headers[k] = v
	}
	for _, h := range c.StringSlice("adapter-header") {
		k, v, ok := strings.Cut(h, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return adapterChoice{}, fmt.Errorf("invalid --adapter-header %q (want Key=Value)", h)
		}
		choice.headers[strings.TrimSpace(k)] = v
	}
	return choice, nil
}

// buildAdapter returns nil when no adapter is configured.
func buildAdapter(choice adapterChoice) (adapter.Adapter, error) {
	switch choice.typ {
	case "":
		return nil, nil
	case "webhook":
		return webhook.New(webhook.Config{
			URL:     choice.url,
			Headers: choice.headers,
			Timeout: choice.timeout,
			Retries: choice.retries,
		})
	case "redis":
		return redis.New(redis.Config{
			URL:     choice.url,
			Channel: choice.channel,
			Stream:  choice.stream,
			Timeout: choice.timeout,
			Retries: choice.retries,
		})
	default:
		return nil, fmt.Errorf("unknown adapter: %s (must be webhook or redis)", choice.typ)
	}
}

// publishEvent sends the completion event and closes the adapter.
func publishEvent(a adapter.Adapter, event *adapter.CaptureCompletedEvent) error {
	defer func() { _ = a.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), adapterPublishTimeout)
	defer cancel()
	return a.Publish(ctx, event)
}
