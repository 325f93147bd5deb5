// Package metrics provides per-session capture metrics.
//
// The Collector accumulates counters during a single capture session. It is a
// leaf package with no internal dependencies. Tick admission counters are
// absorbed from policy stats when the session ends rather than recorded live.
package metrics

import "sync"

// Snapshot is an immutable point-in-time view of all session metrics.
type Snapshot struct {
	// Pipeline outcomes
	FramesCaptured  int64 `json:"frames_captured" yaml:"frames_captured"`
	FramesFull      int64 `json:"frames_rgb_depth" yaml:"frames_rgb_depth"`
	FramesColorOnly int64 `json:"frames_rgb_only" yaml:"frames_rgb_only"`
	FramesFailed    int64 `json:"frames_failed" yaml:"frames_failed"`
	NoFrame         int64 `json:"no_frame" yaml:"no_frame"`

	// Ticks (absorbed from policy stats at session end)
	TicksReceived int64 `json:"ticks_received" yaml:"ticks_received"`
	TicksAdmitted int64 `json:"ticks_admitted" yaml:"ticks_admitted"`
	TicksSkipped  int64 `json:"ticks_skipped" yaml:"ticks_skipped"`

	// Decode / encode
	DecodeFailures      map[string]int64 `json:"decode_failures" yaml:"decode_failures"`
	ImageEncodeFailures int64            `json:"image_encode_failures" yaml:"image_encode_failures"`
	TableEncodeFailures int64            `json:"table_encode_failures" yaml:"table_encode_failures"`
	DepthSaveFailures   int64            `json:"depth_save_failures" yaml:"depth_save_failures"`

	// Storage
	StorageWriteSuccess int64 `json:"storage_write_success" yaml:"storage_write_success"`
	StorageWriteFailure int64 `json:"storage_write_failure" yaml:"storage_write_failure"`
	StorageBytes        int64 `json:"storage_bytes" yaml:"storage_bytes"`

	// Dimensions
	Policy         string `json:"policy" yaml:"policy"`
	StorageBackend string `json:"storage_backend" yaml:"storage_backend"`
	SessionID      string `json:"session_id" yaml:"session_id"`
}

// Collector accumulates metrics during a capture session.
// Thread-safe via sync.Mutex. All methods are nil-receiver safe.
type Collector struct {
	mu sync.Mutex

	framesCaptured  int64
	framesFull      int64
	framesColorOnly int64
	framesFailed    int64
	noFrame         int64

	ticksReceived int64
	ticksAdmitted int64
	ticksSkipped  int64

	decodeFailures      map[string]int64
	imageEncodeFailures int64
	tableEncodeFailures int64
	depthSaveFailures   int64

	storageWriteSuccess int64
	storageWriteFailure int64
	storageBytes        int64

	policy         string
	storageBackend string
	sessionID      string
}

// NewCollector creates a Collector with dimension labels.
func NewCollector(policy, storageBackend, sessionID string) *Collector {
	return &Collector{
		decodeFailures: make(map[string]int64),
		policy:         policy,
		storageBackend: storageBackend,
		sessionID:      sessionID,
	}
}

// --- Pipeline outcomes ---

// IncFrameFull records a frame saved with both image and depth table.
func (c *Collector) IncFrameFull() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.framesCaptured++
	c.framesFull++
	c.mu.Unlock()
}

// IncFrameColorOnly records a frame saved without its depth table.
func (c *Collector) IncFrameColorOnly() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.framesCaptured++
	c.framesColorOnly++
	c.mu.Unlock()
}

// IncFrameFailed records a frame with an artifact that could not be saved.
func (c *Collector) IncFrameFailed() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.framesCaptured++
	c.framesFailed++
	c.mu.Unlock()
}

// IncNoFrame records a trigger that found no frame to capture.
func (c *Collector) IncNoFrame() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.noFrame++
	c.mu.Unlock()
}

// --- Decode / encode ---

// IncDecodeFailure records a depth decode failure by kind label.
func (c *Collector) IncDecodeFailure(kind string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.decodeFailures[kind]++
	c.mu.Unlock()
}

// IncImageEncodeFailure records a failed PNG encode.
func (c *Collector) IncImageEncodeFailure() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.imageEncodeFailures++
	c.mu.Unlock()
}

// IncTableEncodeFailure records a failed depth table encode.
func (c *Collector) IncTableEncodeFailure() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.tableEncodeFailures++
	c.mu.Unlock()
}

// IncDepthSaveFailure records a depth table that encoded but was not saved
// while its color image was.
func (c *Collector) IncDepthSaveFailure() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.depthSaveFailures++
	c.mu.Unlock()
}

// --- Storage ---
// Storage counters are per Save call.

// IncStorageWriteSuccess records a successful save of n bytes.
func (c *Collector) IncStorageWriteSuccess(n int) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.storageWriteSuccess++
	c.storageBytes += int64(n)
	c.mu.Unlock()
}

// IncStorageWriteFailure records a failed save.
func (c *Collector) IncStorageWriteFailure() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.storageWriteFailure++
	c.mu.Unlock()
}

// --- Ticks (absorbed from policy stats) ---

// AbsorbTickStats copies tick admission counters into the collector.
// Called once at session end with the final policy snapshot.
func (c *Collector) AbsorbTickStats(received, admitted, skipped int64) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.ticksReceived = received
	c.ticksAdmitted = admitted
	c.ticksSkipped = skipped
	c.mu.Unlock()
}

// --- Snapshot ---

// Snapshot returns an immutable point-in-time view of all metrics.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	failures := make(map[string]int64, len(c.decodeFailures))
	for k, v := range c.decodeFailures {
		failures[k] = v
	}

	return Snapshot{
		FramesCaptured:  c.framesCaptured,
		FramesFull:      c.framesFull,
		FramesColorOnly: c.framesColorOnly,
		FramesFailed:    c.framesFailed,
		NoFrame:         c.noFrame,

		TicksReceived: c.ticksReceived,
		TicksAdmitted: c.ticksAdmitted,
		TicksSkipped:  c.ticksSkipped,

		DecodeFailures:      failures,
		ImageEncodeFailures: c.imageEncodeFailures,
		TableEncodeFailures: c.tableEncodeFailures,
		DepthSaveFailures:   c.depthSaveFailures,

		StorageWriteSuccess: c.storageWriteSuccess,
		StorageWriteFailure: c.storageWriteFailure,
		StorageBytes:        c.storageBytes,

		Policy:         c.policy,
		StorageBackend: c.storageBackend,
		SessionID:      c.sessionID,
	}
}
