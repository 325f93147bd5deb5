package source

import (
	"fmt"
	"os"
	"sync"

	"github.com/justapithecus/depthcap/recording"
	"github.com/justapithecus/depthcap/types"
)

// Replay serves recorded frames, advancing one frame per CurrentFrame call.
type Replay struct {
	mu     sync.Mutex
	frames []*types.Frame
	next   int
	loop   bool
	header recording.Header
}

// NewReplay creates a replay over frames. With loop set the sequence
// restarts after the last frame; otherwise the source runs dry.
func NewReplay(frames []*types.Frame, loop bool) *Replay {
	return &Replay{frames: frames, loop: loop}
}

// OpenReplay loads a recording file into memory.
func OpenReplay(path string, loop bool) (*Replay, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open recording: %w", err)
	}
	defer func() { _ = f.Close() }()

	r, err := recording.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read recording %s: %w", path, err)
	}
	frames, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read recording %s: %w", path, err)
	}

	rp := NewReplay(frames, loop)
	rp.header = r.Header()
	return rp, nil
}

// CurrentFrame returns the next recorded frame.
func (r *Replay) CurrentFrame() (*types.Frame, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.frames) == 0 {
		return nil, false
	}
	if r.next >= len(r.frames) {
		if !r.loop {
			return nil, false
		}
		r.next = 0
	}
	f := r.frames[r.next]
	r.next++
	return f, true
}

// Len returns the number of recorded frames.
func (r *Replay) Len() int {
	return len(r.frames)
}

// Header returns the recording header (zero for in-memory replays).
func (r *Replay) Header() recording.Header {
	return r.header
}

// Verify Replay implements FrameSource.
var _ FrameSource = (*Replay)(nil)
