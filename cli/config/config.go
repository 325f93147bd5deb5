package config

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// Config represents a depthcap.yaml configuration file.
// All values are optional and act as defaults for depthcap flags.
// CLI flags always override config values.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Capture CaptureConfig `yaml:"capture"`
	Source  SourceConfig  `yaml:"source"`
	Adapter AdapterConfig `yaml:"adapter"`
	Log     LogConfig     `yaml:"log"`

	// UnsetVars lists ${VAR} references that were unset with no default.
	UnsetVars []string `yaml:"-"`
}

// StorageConfig holds storage defaults from the config file.
type StorageConfig struct {
	Backend     string `yaml:"backend"`
	Path        string `yaml:"path"`
	Region      string `yaml:"region"`
	Endpoint    string `yaml:"endpoint"`
	S3PathStyle bool   `yaml:"s3_path_style"`
}

// CaptureConfig holds capture session defaults.
type CaptureConfig struct {
	// Mode is single or continuous.
	Mode     string   `yaml:"mode"`
	Interval Duration `yaml:"interval"`
	Policy   string   `yaml:"policy"`
	// Duration bounds a continuous session.
	Duration Duration `yaml:"duration"`
	// Frames stops a session once this many frames are counted.
	Frames int `yaml:"frames"`
}

// SourceConfig holds frame source defaults.
type SourceConfig struct {
	Kind           string `yaml:"kind"`
	Recording      string `yaml:"recording"`
	Loop           bool   `yaml:"loop"`
	Width          int    `yaml:"width"`
	Height         int    `yaml:"height"`
	Format         string `yaml:"format"`
	RowPadding     int    `yaml:"row_padding"`
	DropDepthEvery int    `yaml:"drop_depth_every"`
}

// AdapterConfig holds adapter defaults from the config file.
type AdapterConfig struct {
	Type    string            `yaml:"type"`
	URL     string            `yaml:"url"`
	Channel string            `yaml:"channel,omitempty"`
	Stream  string            `yaml:"stream,omitempty"`
	Headers map[string]string `yaml:"headers,omitempty"`
	Timeout Duration          `yaml:"timeout,omitempty"`
	Retries *int              `yaml:"retries,omitempty"`
}

// LogConfig holds logging defaults.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Validate checks enumerated values and numeric ranges.
// Empty values are allowed; they fall back to flag defaults.
func (c *Config) Validate() error {
	var errs []error
	check := func(field, value string, allowed ...string) {
		if value == "" {
			return
		}
		for _, a := range allowed {
			if value == a {
				return
			}
		}
		errs = append(errs, fmt.Errorf("%s: %q is not one of %s", field, value, strings.Join(allowed, ", ")))
	}

	check("storage.backend", c.Storage.Backend, "fs", "s3")
	check("capture.mode", c.Capture.Mode, "single", "continuous")
	check("capture.policy", c.Capture.Policy, "skip", "serialize")
	check("source.kind", c.Source.Kind, "synthetic", "replay")
	check("source.format", c.Source.Format, "depth_meters", "disparity_reciprocal")
	check("adapter.type", c.Adapter.Type, "webhook", "redis")
	check("log.level", c.Log.Level, "debug", "info", "warn", "error")

	if c.Capture.Interval.Duration < 0 {
		errs = append(errs, errors.New("capture.interval must not be negative"))
	}
	if c.Capture.Frames < 0 {
		errs = append(errs, errors.New("capture.frames must not be negative"))
	}
	if c.Source.Width < 0 || c.Source.Height < 0 {
		errs = append(errs, errors.New("source.width and source.height must not be negative"))
	}
	if c.Source.RowPadding%4 != 0 {
		errs = append(errs, errors.New("source.row_padding must be a multiple of 4"))
	}
	if c.Source.Kind == "replay" && c.Source.Recording == "" {
		errs = append(errs, errors.New("source.recording is required for the replay source"))
	}
	if c.Adapter.Type != "" && c.Adapter.URL == "" {
		errs = append(errs, errors.New("adapter.url is required when adapter.type is set"))
	}
	if c.Adapter.Retries != nil && *c.Adapter.Retries < 0 {
		errs = append(errs, errors.New("adapter.retries must not be negative"))
	}

	return errors.Join(errs...)
}

// Duration wraps time.Duration for YAML string parsing (e.g. "100ms", "5m").
type Duration struct {
	time.Duration
}

// UnmarshalYAML parses a duration string like "100ms" or "5m30s".
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

func bytesReader(s string) io.Reader {
	return strings.NewReader(s)
}

// isEmptyDocument reports whether a decode error means the input had no
// YAML document at all (an empty or comment-only file).
func isEmptyDocument(err error) bool {
	return errors.Is(err, io.EOF)
}
