// Package reader provides the read-side data access layer for the depthcap CLI.
//
// Read-only commands (list, inspect) go through this package exclusively.
// It never writes to storage.
package reader

import (
	"context"

	"github.com/justapithecus/depthcap/storage"
)

// Browser is the read surface of a capture store.
// *storage.LodeStorage satisfies it.
type Browser interface {
	List(ctx context.Context, opts storage.ListOptions) ([]storage.Entry, error)
	Get(ctx context.Context, path string) ([]byte, error)
}

// ListArtifactItem is one row of the list command.
type ListArtifactItem struct {
	Name    string `json:"name" yaml:"name"`
	Kind    string `json:"kind" yaml:"kind"`
	Session string `json:"session" yaml:"session"`
	Day     string `json:"day" yaml:"day"`
	Path    string `json:"path" yaml:"path"`
}

// ListArtifactsOptions filters the list command.
type ListArtifactsOptions struct {
	Kind    string
	Session string
	Limit   int
}

// InspectDepthResponse describes a depth table.
// Depth statistics are in meters over valid texels only.
type InspectDepthResponse struct {
	Source   string  `json:"source" yaml:"source"`
	Width    int     `json:"width" yaml:"width"`
	Height   int     `json:"height" yaml:"height"`
	Cells    int     `json:"cells" yaml:"cells"`
	Valid    int     `json:"valid" yaml:"valid"`
	Invalid  int     `json:"invalid" yaml:"invalid"`
	Coverage float64 `json:"coverage" yaml:"coverage"`
	Min      float64 `json:"min_m" yaml:"min_m"`
	Max      float64 `json:"max_m" yaml:"max_m"`
	Mean     float64 `json:"mean_m" yaml:"mean_m"`
	StdDev   float64 `json:"stddev_m" yaml:"stddev_m"`
}
