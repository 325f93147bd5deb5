// Package source provides frame sources for the capture pipeline.
//
// A FrameSource is a non-blocking pull of the most recent synchronized
// color + depth sample. Latest is fed by a producer (a sensor callback);
// Replay plays back a recording; Synthetic generates frames on demand.
package source

import (
	"fmt"
	"sync"

	"github.com/justapithecus/depthcap/types"
)

// Source kinds accepted by configuration.
const (
	KindSynthetic = "synthetic"
	KindReplay    = "replay"
)

// FrameSource yields the current frame without blocking.
type FrameSource interface {
	// CurrentFrame returns the latest frame, or false if none is available.
	CurrentFrame() (*types.Frame, bool)
}

// Latest holds the most recent frame published by a producer.
// Safe for concurrent Publish and CurrentFrame.
type Latest struct {
	mu    sync.RWMutex
	frame *types.Frame
}

// NewLatest creates an empty latest-frame holder.
func NewLatest() *Latest {
	return &Latest{}
}

// Publish replaces the current frame. Frames must not be mutated afterwards.
func (l *Latest) Publish(f *types.Frame) {
	l.mu.Lock()
	l.frame = f
	l.mu.Unlock()
}

// Clear drops the current frame (sensor paused or interrupted).
func (l *Latest) Clear() {
	l.Publish(nil)
}

// CurrentFrame returns the last published frame.
func (l *Latest) CurrentFrame() (*types.Frame, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.frame, l.frame != nil
}

// ValidateKind checks a configured source kind.
func ValidateKind(kind string) error {
	switch kind {
	case KindSynthetic, KindReplay:
		return nil
	default:
		return fmt.Errorf("unknown source %q (want %s or %s)", kind, KindSynthetic, KindReplay)
	}
}

// Verify Latest implements FrameSource.
var _ FrameSource = (*Latest)(nil)
