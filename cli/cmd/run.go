package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap/zapcore"

	"github.com/justapithecus/depthcap/adapter"
	"github.com/justapithecus/depthcap/capture"
	"github.com/justapithecus/depthcap/cli/config"
	"github.com/justapithecus/depthcap/cli/render"
	"github.com/justapithecus/depthcap/cli/tui"
	"github.com/justapithecus/depthcap/log"
	"github.com/justapithecus/depthcap/metrics"
	"github.com/justapithecus/depthcap/policy"
	"github.com/justapithecus/depthcap/source"
	"github.com/justapithecus/depthcap/storage"
	"github.com/justapithecus/depthcap/types"
)

// Exit codes for run.
const (
	exitSuccess        = 0
	exitCaptureFailure = 1
	exitConfigError    = 2
)

// Capture modes accepted by --mode.
const (
	modeSingle     = "single"
	modeContinuous = "continuous"
)

// defaultSourceInterval is how often the camera feed delivers a frame (~30 fps).
const defaultSourceInterval = 33 * time.Millisecond

// frameCheckInterval is how often a --frames bound is checked.
const frameCheckInterval = 10 * time.Millisecond

// RunCommand returns the run command.
// This is the only command that captures frames.
func RunCommand() *cli.Command {
	flags := []cli.Flag{
		ConfigFlag,
		// Session flags
		&cli.StringFlag{
			Name:  "mode",
			Usage: "Capture mode: single or continuous",
			Value: modeSingle,
		},
		&cli.DurationFlag{
			Name:  "duration",
			Usage: "Stop continuous capture after this long (0 = until interrupted)",
		},
		&cli.IntFlag{
			Name:  "frames",
			Usage: "Stop continuous capture once this many frames are counted (0 = no limit)",
		},
		&cli.DurationFlag{
			Name:  "interval",
			Usage: "Continuous capture tick period",
			Value: capture.DefaultInterval,
		},
		&cli.StringFlag{
			Name:  "policy",
			Usage: "Tick admission policy: skip or serialize",
			Value: policy.NameSkip,
		},
		// Source flags
		&cli.StringFlag{
			Name:  "source",
			Usage: "Frame source: synthetic or replay",
			Value: source.KindSynthetic,
		},
		&cli.StringFlag{
			Name:  "recording",
			Usage: "Recording file for the replay source",
		},
		&cli.BoolFlag{
			Name:  "loop",
			Usage: "Loop the replay source",
		},
		&cli.IntFlag{
			Name:  "width",
			Usage: "Synthetic frame width",
			Value: 64,
		},
		&cli.IntFlag{
			Name:  "height",
			Usage: "Synthetic frame height",
			Value: 48,
		},
		&cli.StringFlag{
			Name:  "depth-format",
			Usage: "Synthetic depth format: depth_meters or disparity_reciprocal",
			Value: string(types.PixelFormatDepthMeters),
		},
		&cli.IntFlag{
			Name:  "row-padding",
			Usage: "Synthetic depth row padding in bytes (multiple of 4)",
		},
		&cli.IntFlag{
			Name:  "drop-depth-every",
			Usage: "Omit depth from every Nth synthetic frame (0 = never)",
		},
		&cli.DurationFlag{
			Name:  "source-interval",
			Usage: "Frame delivery period of the source feed",
			Value: defaultSourceInterval,
		},
		// Output flags
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn, error",
			Value: "info",
		},
		&cli.StringFlag{
			Name:  "log-file",
			Usage: "Write logs to this file instead of stderr",
		},
		&cli.BoolFlag{
			Name:  "quiet",
			Usage: "Suppress the session report",
		},
		FormatFlag,
		NoColorFlag,
		&cli.BoolFlag{
			Name:  "tui",
			Usage: "Drive the session interactively (s: single, c: continuous, q: quit)",
		},
	}
	flags = append(flags, StorageFlags()...)
	flags = append(flags, adapterFlags()...)

	return &cli.Command{
		Name:   "run",
		Usage:  "Run a capture session",
		Flags:  flags,
		Action: runAction,
	}
}

// runChoice holds the resolved run configuration.
type runChoice struct {
	mode           string
	duration       time.Duration
	frames         int64
	interval       time.Duration
	policy         string
	logLevel       string
	source         sourceChoice
	sourceInterval time.Duration
	storage        storageChoice
	adapter        adapterChoice
}

// sourceChoice holds parsed frame source configuration.
type sourceChoice struct {
	kind           string
	recording      string
	loop           bool
	width          int
	height         int
	format         types.PixelFormat
	rowPadding     int
	dropDepthEvery int
}

// RunReport is the session report printed when run finishes.
type RunReport struct {
	SessionID           string           `json:"session_id" yaml:"session_id"`
	Mode                string           `json:"mode" yaml:"mode"`
	FrameCount          int64            `json:"frame_count" yaml:"frame_count"`
	Skipped             int64            `json:"skipped" yaml:"skipped"`
	LastStatus          string           `json:"last_status" yaml:"last_status"`
	FramesFull          int64            `json:"frames_rgb_depth" yaml:"frames_rgb_depth"`
	FramesColorOnly     int64            `json:"frames_rgb_only" yaml:"frames_rgb_only"`
	FramesFailed        int64            `json:"frames_failed" yaml:"frames_failed"`
	NoFrame             int64            `json:"no_frame" yaml:"no_frame"`
	TicksReceived       int64            `json:"ticks_received" yaml:"ticks_received"`
	TicksSkipped        int64            `json:"ticks_skipped" yaml:"ticks_skipped"`
	DecodeFailures      map[string]int64 `json:"decode_failures" yaml:"decode_failures"`
	StorageWriteSuccess int64            `json:"storage_write_success" yaml:"storage_write_success"`
	StorageWriteFailure int64            `json:"storage_write_failure" yaml:"storage_write_failure"`
	StorageBytes        int64            `json:"storage_bytes" yaml:"storage_bytes"`
	StorageBackend      string           `json:"storage_backend" yaml:"storage_backend"`
	StoragePath         string           `json:"storage_path" yaml:"storage_path"`
	Policy              string           `json:"policy" yaml:"policy"`
	Day                 string           `json:"day" yaml:"day"`
	Duration            string           `json:"duration" yaml:"duration"`
}

func runAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return cli.Exit(err.Error(), exitConfigError)
	}
	choice, err := resolveRunChoice(c, cfg)
	if err != nil {
		return cli.Exit(fmt.Sprintf("invalid run config: %v", err), exitConfigError)
	}
	r, err := render.NewRenderer(c)
	if err != nil {
		return cli.Exit(err.Error(), exitConfigError)
	}
	useTUI := c.Bool("tui")

	// Set up context with signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	// Start time is "now" - used to derive the partition day
	startedAt := time.Now()
	sessionID := uuid.NewString()
	day := storage.DeriveDay(startedAt)

	store, err := buildStorage(ctx, choice.storage, storage.Config{SessionID: sessionID, Day: day})
	if err != nil {
		return cli.Exit(fmt.Sprintf("failed to open storage: %v", err), exitConfigError)
	}
	pol, err := policy.New(choice.policy)
	if err != nil {
		return cli.Exit(err.Error(), exitConfigError)
	}
	producer, err := buildSource(choice.source)
	if err != nil {
		return cli.Exit(fmt.Sprintf("failed to open source: %v", err), exitConfigError)
	}
	adp, err := buildAdapter(choice.adapter)
	if err != nil {
		return cli.Exit(fmt.Sprintf("invalid adapter config: %v", err), exitConfigError)
	}

	collector := metrics.NewCollector(pol.Name(), store.Backend(), sessionID)
	logger, closeLog, err := buildLogger(choice, useTUI, c.String("log-file"), log.SessionMeta{
		SessionID:      sessionID,
		StorageBackend: store.Backend(),
		Policy:         pol.Name(),
	})
	if err != nil {
		return cli.Exit(err.Error(), exitConfigError)
	}
	defer closeLog()

	// The controller polls a latest-frame buffer fed like a camera delegate
	latest := source.NewLatest()
	feedDone := source.Feed(ctx, latest, producer, choice.sourceInterval)

	ctrl, err := capture.NewController(capture.Config{
		Source:    latest,
		Storage:   storage.NewInstrumentedStorage(store, collector),
		Policy:    pol,
		Interval:  choice.interval,
		SessionID: sessionID,
		Logger:    logger,
		Metrics:   collector,
	})
	if err != nil {
		return cli.Exit(err.Error(), exitConfigError)
	}

	logger.Info("capture session started", map[string]any{
		"mode":         choice.mode,
		"source":       choice.source.kind,
		"storage_path": choice.storage.path,
		"day":          day,
	})

	mode := types.CaptureModeSingleShot
	switch {
	case useTUI:
		view := &tui.SessionView{
			Ctx:        ctx,
			Controller: ctrl,
			Metrics:    collector.Snapshot,
			Continuous: choice.mode == modeContinuous,
		}
		if err := r.RenderTUI(tui.ViewRunSession, view); err != nil {
			return fmt.Errorf("TUI failed: %w", err)
		}
		if ctrl.PolicyStats().Received > 0 {
			mode = types.CaptureModeContinuous
		}
	case choice.mode == modeContinuous:
		mode = types.CaptureModeContinuous
		runContinuous(ctx, ctrl, choice.duration, choice.frames)
	default:
		ctrl.CaptureSingle(ctx)
	}

	cancel()
	<-feedDone
	completedAt := time.Now()

	stats := ctrl.PolicyStats()
	collector.AbsorbTickStats(stats.Received, stats.Admitted, stats.Skipped)
	session := ctrl.Session()
	snap := collector.Snapshot()

	logger.Info("capture session finished", map[string]any{
		"frame_count": session.FrameCount,
		"skipped":     session.Skipped,
		"status":      session.LastStatus,
	})

	if snap.FramesFailed > 0 {
		logger.Sugar().Warnf("%d of %d frames failed to save", snap.FramesFailed, session.FrameCount)
	}

	if adp != nil {
		event := adapter.NewCaptureCompletedEvent(adapter.EventInput{
			Session:     session,
			Metrics:     snap,
			Mode:        mode,
			Day:         day,
			StoragePath: choice.storage.path,
			StartedAt:   startedAt,
			CompletedAt: completedAt,
		})
		if err := publishEvent(adp, event); err != nil {
			// Best-effort: the artifacts are already persisted
			logger.Warn("adapter publish failed", map[string]any{
				"adapter": choice.adapter.typ,
				"error":   err.Error(),
			})
			fmt.Fprintf(os.Stderr, "Warning: adapter publish failed: %v\n", err)
		}
	}

	if !c.Bool("quiet") {
		report := buildRunReport(session, snap, mode, day, choice.storage.path, completedAt.Sub(startedAt))
		if err := r.Render(report); err != nil {
			return err
		}
	}

	return cli.Exit("", sessionExitCode(session, snap))
}

func resolveRunChoice(c *cli.Context, cfg *config.Config) (runChoice, error) {
	cc := configVal(cfg, func(c *config.Config) config.CaptureConfig { return c.Capture })
	sc := configVal(cfg, func(c *config.Config) config.SourceConfig { return c.Source })
	lc := configVal(cfg, func(c *config.Config) config.LogConfig { return c.Log })

	ac, err := resolveAdapterChoice(c, cfg)
	if err != nil {
		return runChoice{}, err
	}

	choice := runChoice{
		mode:     resolveString(c, "mode", cc.Mode),
		duration: resolveDuration(c, "duration", cc.Duration.Duration),
		frames:   int64(resolveInt(c, "frames", cc.Frames)),
		interval: resolveDuration(c, "interval", cc.Interval.Duration),
		policy:   resolveString(c, "policy", cc.Policy),
		logLevel: resolveString(c, "log-level", lc.Level),
		source: sourceChoice{
			kind:           resolveString(c, "source", sc.Kind),
			recording:      resolveString(c, "recording", sc.Recording),
			loop:           resolveBool(c, "loop", sc.Loop),
			width:          resolveInt(c, "width", sc.Width),
			height:         resolveInt(c, "height", sc.Height),
			format:         types.PixelFormat(resolveString(c, "depth-format", sc.Format)),
			rowPadding:     resolveInt(c, "row-padding", sc.RowPadding),
			dropDepthEvery: resolveInt(c, "drop-depth-every", sc.DropDepthEvery),
		},
		sourceInterval: c.Duration("source-interval"),
		storage:        resolveStorageChoice(c, cfg),
		adapter:        ac,
	}
	return choice, validateRunChoice(choice)
}

func validateRunChoice(choice runChoice) error {
	switch choice.mode {
	case modeSingle, modeContinuous:
	default:
		return fmt.Errorf("invalid mode: %s (must be %s or %s)", choice.mode, modeSingle, modeContinuous)
	}
	if choice.mode == modeSingle && (choice.duration > 0 || choice.frames > 0) {
		fmt.Fprintf(os.Stderr, "Warning: --duration/--frames ignored for single mode\n")
	}
	if choice.frames < 0 {
		return fmt.Errorf("--frames must be >= 0, got %d", choice.frames)
	}
	if choice.interval <= 0 {
		return fmt.Errorf("--interval must be positive, got %s", choice.interval)
	}
	if choice.sourceInterval <= 0 {
		return fmt.Errorf("--source-interval must be positive, got %s", choice.sourceInterval)
	}
	if err := source.ValidateKind(choice.source.kind); err != nil {
		return err
	}
	if choice.source.kind == source.KindReplay && choice.source.recording == "" {
		return fmt.Errorf("--recording is required for the replay source")
	}
	if _, err := zapcore.ParseLevel(choice.logLevel); err != nil {
		return fmt.Errorf("invalid log-level: %s", choice.logLevel)
	}
	return nil
}

func buildSource(choice sourceChoice) (source.FrameSource, error) {
	switch choice.kind {
	case source.KindReplay:
		rp, err := source.OpenReplay(choice.recording, choice.loop)
		if err != nil {
			return nil, err
		}
		if rp.Len() == 0 {
			fmt.Fprintf(os.Stderr, "Warning: recording %s has no frames\n", choice.recording)
		}
		return rp, nil
	default:
		return source.NewSynthetic(source.SyntheticConfig{
			Width:          choice.width,
			Height:         choice.height,
			Format:         choice.format,
			RowPadding:     choice.rowPadding,
			DropDepthEvery: choice.dropDepthEvery,
		})
	}
}

// buildLogger creates the session logger. The TUI owns the terminal, so
// without --log-file its session logs are discarded.
func buildLogger(choice runChoice, useTUI bool, logFile string, meta log.SessionMeta) (*log.Logger, func(), error) {
	level, err := zapcore.ParseLevel(choice.logLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log-level: %s", choice.logLevel)
	}
	if logFile == "" {
		if useTUI {
			return log.NewNop(), func() {}, nil
		}
		return log.NewLoggerWithLevel(meta, level), func() {}, nil
	}

	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open log file: %w", err)
	}
	logger := log.NewLoggerWithWriter(meta, f, level)
	return logger, func() { _ = f.Close() }, nil
}

// runContinuous captures until the duration or frame bound is reached or
// ctx ends, then stops and waits for the in-flight pipeline.
// A frame bound may be exceeded by the pipeline in flight at stop.
func runContinuous(ctx context.Context, ctrl *capture.Controller, duration time.Duration, frames int64) {
	if !ctrl.StartContinuous(ctx) {
		return
	}
	defer ctrl.StopContinuous()

	var deadline <-chan time.Time
	if duration > 0 {
		timer := time.NewTimer(duration)
		defer timer.Stop()
		deadline = timer.C
	}

	check := time.NewTicker(frameCheckInterval)
	defer check.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-deadline:
			return
		case <-check.C:
			if frames > 0 && ctrl.Session().FrameCount >= frames {
				return
			}
		}
	}
}

func buildRunReport(s types.CaptureSession, m metrics.Snapshot, mode types.CaptureMode, day, storagePath string, elapsed time.Duration) RunReport {
	return RunReport{
		SessionID:           s.SessionID,
		Mode:                string(mode),
		FrameCount:          s.FrameCount,
		Skipped:             s.Skipped,
		LastStatus:          s.LastStatus,
		FramesFull:          m.FramesFull,
		FramesColorOnly:     m.FramesColorOnly,
		FramesFailed:        m.FramesFailed,
		NoFrame:             m.NoFrame,
		TicksReceived:       m.TicksReceived,
		TicksSkipped:        m.TicksSkipped,
		DecodeFailures:      m.DecodeFailures,
		StorageWriteSuccess: m.StorageWriteSuccess,
		StorageWriteFailure: m.StorageWriteFailure,
		StorageBytes:        m.StorageBytes,
		StorageBackend:      m.StorageBackend,
		StoragePath:         storagePath,
		Policy:              m.Policy,
		Day:                 day,
		Duration:            elapsed.Round(time.Millisecond).String(),
	}
}

// sessionExitCode is exitCaptureFailure when nothing was saved or any frame
// failed to save.
func sessionExitCode(s types.CaptureSession, m metrics.Snapshot) int {
	if s.FrameCount == 0 || m.FramesFailed > 0 {
		return exitCaptureFailure
	}
	return exitSuccess
}
