// Package capture implements the capture controller: a small state machine
// that drives single-shot and continuous capture of color + depth frames.
//
// Modes are Idle, SingleShot and Continuous. All state transitions happen
// under one mutex. In continuous mode a ticker fires every Interval and each
// tick is offered to a policy.Policy; an admitted tick runs the pipeline
// (pull frame, decode depth, encode, save) on its own goroutine. At most one
// pipeline is in flight at any time.
package capture

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/justapithecus/depthcap/log"
	"github.com/justapithecus/depthcap/metrics"
	"github.com/justapithecus/depthcap/policy"
	"github.com/justapithecus/depthcap/source"
	"github.com/justapithecus/depthcap/storage"
	"github.com/justapithecus/depthcap/types"
)

// DefaultInterval is the continuous capture tick period (10 Hz).
const DefaultInterval = 100 * time.Millisecond

// Config configures a Controller.
type Config struct {
	// Source supplies frames (required).
	Source source.FrameSource
	// Storage persists artifacts (required).
	Storage storage.Storage
	// Policy admits continuous ticks. Defaults to policy.NewSkipPolicy().
	Policy policy.Policy
	// Interval is the continuous tick period. Defaults to DefaultInterval.
	Interval time.Duration
	// SessionID is reported in snapshots.
	SessionID string
	// Logger is optional.
	Logger *log.Logger
	// Metrics is optional; a nil collector records nothing.
	Metrics *metrics.Collector
	// Now is the clock used for artifact timestamps. Defaults to time.Now.
	Now func() time.Time
}

// Controller is the capture state machine. Safe for concurrent use.
type Controller struct {
	source   source.FrameSource
	storage  storage.Storage
	policy   policy.Policy
	interval time.Duration
	logger   *log.Logger
	metrics  *metrics.Collector
	now      func() time.Time

	mu         sync.Mutex // guards everything below
	sessionID  string
	mode       types.CaptureMode
	frameCount int64
	skipped    int64
	status     string
	// gen identifies the current continuous run; ticks from an older run
	// are never admitted.
	gen      uint64
	stopping bool
	inFlight bool
	cancel   context.CancelFunc
	loopDone chan struct{}

	pipelines sync.WaitGroup
}

// NewController creates an idle controller.
func NewController(cfg Config) (*Controller, error) {
	if cfg.Source == nil {
		return nil, errors.New("capture: frame source is required")
	}
	if cfg.Storage == nil {
		return nil, errors.New("capture: storage is required")
	}
	if cfg.Policy == nil {
		cfg.Policy = policy.NewSkipPolicy()
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NewNop()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Controller{
		source:    cfg.Source,
		storage:   cfg.Storage,
		policy:    cfg.Policy,
		interval:  cfg.Interval,
		logger:    cfg.Logger,
		metrics:   cfg.Metrics,
		now:       cfg.Now,
		sessionID: cfg.SessionID,
		mode:      types.CaptureModeIdle,
		status:    StatusIdle,
	}, nil
}

// Session returns a snapshot of the controller state.
func (c *Controller) Session() types.CaptureSession {
	c.mu.Lock()
	defer c.mu.Unlock()
	return types.CaptureSession{
		SessionID:  c.sessionID,
		Mode:       c.mode,
		FrameCount: c.frameCount,
		Skipped:    c.skipped,
		LastStatus: c.status,
	}
}

// PolicyStats returns the admission counters of the tick policy.
func (c *Controller) PolicyStats() policy.Stats {
	return c.policy.Stats()
}

// StartContinuous begins periodic capture. It is a no-op returning false
// unless the controller is idle. The tick loop runs until StopContinuous is
// called or ctx is done.
func (c *Controller) StartContinuous(ctx context.Context) bool {
	c.mu.Lock()
	if c.mode != types.CaptureModeIdle || c.stopping || c.inFlight {
		c.mu.Unlock()
		return false
	}
	c.mode = types.CaptureModeContinuous
	c.frameCount = 0
	c.skipped = 0
	c.status = StatusContinuousStarted
	c.gen++
	gen := c.gen

	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	c.cancel = cancel
	c.loopDone = done
	c.mu.Unlock()

	c.logger.Info("continuous capture started", map[string]any{
		"interval_ms": c.interval.Milliseconds(),
		"policy":      c.policy.Name(),
	})
	go c.loop(loopCtx, gen, done)
	return true
}

// StopContinuous ends periodic capture. It is a no-op returning false unless
// the controller is in continuous mode. When it returns no further pipeline
// will start and the in-flight pipeline, if any, has completed.
func (c *Controller) StopContinuous() bool {
	c.mu.Lock()
	if c.mode != types.CaptureModeContinuous {
		c.mu.Unlock()
		return false
	}
	c.mode = types.CaptureModeIdle
	c.stopping = true
	cancel, done := c.cancel, c.loopDone
	c.cancel, c.loopDone = nil, nil
	c.mu.Unlock()

	cancel()
	<-done
	c.pipelines.Wait()

	c.mu.Lock()
	c.stopping = false
	c.status = stoppedStatus(c.frameCount, c.skipped)
	frames, skipped := c.frameCount, c.skipped
	c.mu.Unlock()

	c.logger.Info("continuous capture stopped", map[string]any{
		"frames":  frames,
		"skipped": skipped,
	})
	return true
}

// CaptureSingle runs the pipeline once, synchronously. It is a no-op
// returning false unless the controller is idle.
func (c *Controller) CaptureSingle(ctx context.Context) bool {
	c.mu.Lock()
	if c.mode != types.CaptureModeIdle || c.stopping || c.inFlight {
		c.mu.Unlock()
		return false
	}
	c.mode = types.CaptureModeSingleShot
	c.inFlight = true
	frameNumber := c.frameCount
	c.mu.Unlock()

	o := c.runPipeline(ctx, frameNumber)

	c.mu.Lock()
	c.complete(o)
	c.inFlight = false
	c.mode = types.CaptureModeIdle
	c.mu.Unlock()
	return true
}

// loop owns the ticker for one continuous run.
func (c *Controller) loop(ctx context.Context, gen uint64, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.tick(ctx, gen)
		}
	}
}

// tick offers one tick to the policy and starts a pipeline if admitted.
func (c *Controller) tick(ctx context.Context, gen uint64) {
	release, ok := c.policy.Admit(ctx)
	if !ok {
		if ctx.Err() != nil {
			return
		}
		c.mu.Lock()
		if c.mode == types.CaptureModeContinuous && c.gen == gen {
			c.skipped++
			c.status = StatusSkipped
		}
		c.mu.Unlock()
		c.logger.Debug("tick skipped", nil)
		return
	}

	c.mu.Lock()
	if c.mode != types.CaptureModeContinuous || c.gen != gen {
		c.mu.Unlock()
		release()
		return
	}
	frameNumber := c.frameCount
	c.inFlight = true
	c.pipelines.Add(1)
	c.mu.Unlock()

	// The pipeline outlives the tick loop: stopping never cancels a save.
	pctx := context.WithoutCancel(ctx)
	go func() {
		defer c.pipelines.Done()
		o := c.runPipeline(pctx, frameNumber)

		c.mu.Lock()
		c.complete(o)
		c.inFlight = false
		c.mu.Unlock()
		release()
	}()
}

// complete folds a pipeline outcome into session state.
// Caller must hold c.mu.
func (c *Controller) complete(o outcome) {
	if o != outcomeNoFrame {
		c.frameCount++
	}
	c.status = statusFor(o, c.frameCount)
}
