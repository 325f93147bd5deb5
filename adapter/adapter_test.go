package adapter

import (
	"testing"
	"time"

	"github.com/justapithecus/depthcap/metrics"
	"github.com/justapithecus/depthcap/types"
)

func TestNewCaptureCompletedEvent(t *testing.T) {
	started := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ev := NewCaptureCompletedEvent(EventInput{
		Session: types.CaptureSession{
			SessionID:  "sess-1",
			FrameCount: 12,
			Skipped:    3,
			LastStatus: "Stopped. Saved 12 frames, skipped 3",
		},
		Metrics: metrics.Snapshot{
			FramesFull:      10,
			FramesColorOnly: 2,
			Policy:          "skip",
			StorageBackend:  "fs",
		},
		Mode:        types.CaptureModeContinuous,
		Day:         "2026-03-01",
		StoragePath: "file:///data/captures/day=2026-03-01/session=sess-1",
		StartedAt:   started,
		CompletedAt: started.Add(1500 * time.Millisecond),
	})

	if ev.EventType != EventTypeCaptureCompleted {
		t.Errorf("EventType = %q", ev.EventType)
	}
	if ev.Version != types.Version {
		t.Errorf("Version = %q, want %q", ev.Version, types.Version)
	}
	if ev.FrameCount != 12 || ev.Skipped != 3 || ev.FramesFull != 10 || ev.FramesColorOnly != 2 {
		t.Errorf("counters = %+v", ev)
	}
	if ev.Mode != "continuous" || ev.Policy != "skip" || ev.StorageBackend != "fs" {
		t.Errorf("labels = %+v", ev)
	}
	if ev.DurationMs != 1500 {
		t.Errorf("DurationMs = %d, want 1500", ev.DurationMs)
	}
	if ev.Timestamp != "2026-03-01T12:00:01Z" {
		t.Errorf("Timestamp = %q", ev.Timestamp)
	}
}
