// Package adapter defines the notification boundary for finished capture sessions.
//
// Adapters publish a session completion event to downstream systems
// (an HTTP endpoint, a Redis channel). The CLI owns adapter lifecycle;
// users provide configuration only.
package adapter

import (
	"context"
	"time"

	"github.com/justapithecus/depthcap/metrics"
	"github.com/justapithecus/depthcap/types"
)

// EventTypeCaptureCompleted is the event type of CaptureCompletedEvent.
const EventTypeCaptureCompleted = "capture_completed"

// CaptureCompletedEvent is the payload published when a capture session ends.
type CaptureCompletedEvent struct {
	Version         string `json:"version"`
	EventType       string `json:"event_type"` // always "capture_completed"
	SessionID       string `json:"session_id"`
	Day             string `json:"day"`
	Mode            string `json:"mode"` // single_shot or continuous
	Policy          string `json:"policy"`
	FrameCount      int64  `json:"frame_count"`
	FramesFull      int64  `json:"frames_rgb_depth"`
	FramesColorOnly int64  `json:"frames_rgb_only"`
	FramesFailed    int64  `json:"frames_failed"`
	Skipped         int64  `json:"skipped"`
	LastStatus      string `json:"last_status"`
	StorageBackend  string `json:"storage_backend"`
	StoragePath     string `json:"storage_path"`
	Timestamp       string `json:"timestamp"` // RFC 3339
	DurationMs      int64  `json:"duration_ms"`
}

// EventInput carries the session facts NewCaptureCompletedEvent needs.
type EventInput struct {
	Session     types.CaptureSession
	Metrics     metrics.Snapshot
	Mode        types.CaptureMode
	Day         string
	StoragePath string
	StartedAt   time.Time
	CompletedAt time.Time
}

// NewCaptureCompletedEvent builds the completion event for a session.
func NewCaptureCompletedEvent(in EventInput) *CaptureCompletedEvent {
	return &CaptureCompletedEvent{
		Version:         types.Version,
		EventType:       EventTypeCaptureCompleted,
		SessionID:       in.Session.SessionID,
		Day:             in.Day,
		Mode:            string(in.Mode),
		Policy:          in.Metrics.Policy,
		FrameCount:      in.Session.FrameCount,
		FramesFull:      in.Metrics.FramesFull,
		FramesColorOnly: in.Metrics.FramesColorOnly,
		FramesFailed:    in.Metrics.FramesFailed,
		Skipped:         in.Session.Skipped,
		LastStatus:      in.Session.LastStatus,
		StorageBackend:  in.Metrics.StorageBackend,
		StoragePath:     in.StoragePath,
		Timestamp:       in.CompletedAt.UTC().Format(time.RFC3339),
		DurationMs:      in.CompletedAt.Sub(in.StartedAt).Milliseconds(),
	}
}

// Adapter publishes capture completion events to a downstream system.
// Implementations must be safe for single-use per session.
type Adapter interface {
	// Publish sends a completion event to the downstream system.
	// Must respect context cancellation and deadlines.
	Publish(ctx context.Context, event *CaptureCompletedEvent) error

	// Close releases adapter resources.
	Close() error
}
