// Package storage persists encoded capture artifacts.
//
// Storage is the narrow sink the capture pipeline writes to. LodeStorage is
// the production implementation: it writes named blobs into a Lode store
// (filesystem, S3 or memory) under Hive-style partitions:
//
//	captures/day=<YYYY-MM-DD>/session=<session_id>/<name>
package storage

import (
	"context"
	"time"

	"github.com/justapithecus/depthcap/types"
)

// Storage persists named byte blobs.
type Storage interface {
	// Save writes data under name. Implementations must be safe for
	// concurrent use; failures are returned as *StorageError where possible.
	Save(ctx context.Context, kind types.ArtifactKind, name string, data []byte) error
}

// Entry is a persisted artifact as seen by List.
type Entry struct {
	Path    string             `json:"path" yaml:"path"`
	Name    string             `json:"name" yaml:"name"`
	Kind    types.ArtifactKind `json:"kind" yaml:"kind"`
	Day     string             `json:"day" yaml:"day"`
	Session string             `json:"session" yaml:"session"`
}

// ListOptions filters List results.
type ListOptions struct {
	// Kind restricts results to one artifact kind. Empty means all.
	Kind types.ArtifactKind
	// Session restricts results to one session. Empty means all.
	Session string
	// Limit caps the number of results. Zero means no limit.
	Limit int
}

// DeriveDay computes the partition day from session start time.
// Format: YYYY-MM-DD in UTC.
func DeriveDay(start time.Time) string {
	return start.UTC().Format("2006-01-02")
}
