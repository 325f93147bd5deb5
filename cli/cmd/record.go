package cmd

import (
	"bufio"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/justapithecus/depthcap/cli/render"
	"github.com/justapithecus/depthcap/iox"
	"github.com/justapithecus/depthcap/recording"
	"github.com/justapithecus/depthcap/source"
	"github.com/justapithecus/depthcap/types"
)

// RecordResponse is the response for the record command.
type RecordResponse struct {
	Path        string `json:"path" yaml:"path"`
	Frames      int    `json:"frames" yaml:"frames"`
	Width       int    `json:"width" yaml:"width"`
	Height      int    `json:"height" yaml:"height"`
	DepthFormat string `json:"depth_format" yaml:"depth_format"`
	Bytes       int64  `json:"bytes" yaml:"bytes"`
}

// RecordCommand returns the record command.
// It writes a synthetic recording that `run --source replay` can play back.
func RecordCommand() *cli.Command {
	return &cli.Command{
		Name:  "record",
		Usage: "Write a synthetic frame recording for replay",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "out",
				Aliases:  []string{"o"},
				Usage:    "Output recording file",
				Required: true,
			},
			&cli.IntFlag{
				Name:  "frames",
				Usage: "Number of frames to record",
				Value: 30,
			},
			&cli.IntFlag{
				Name:  "width",
				Usage: "Frame width",
				Value: 64,
			},
			&cli.IntFlag{
				Name:  "height",
				Usage: "Frame height",
				Value: 48,
			},
			&cli.StringFlag{
				Name:  "depth-format",
				Usage: "Depth format: depth_meters or disparity_reciprocal",
				Value: string(types.PixelFormatDepthMeters),
			},
			&cli.IntFlag{
				Name:  "row-padding",
				Usage: "Depth row padding in bytes (multiple of 4)",
			},
			&cli.IntFlag{
				Name:  "drop-depth-every",
				Usage: "Omit depth from every Nth frame (0 = never)",
			},
			&cli.DurationFlag{
				Name:  "frame-interval",
				Usage: "Capture timestamp spacing between frames",
				Value: defaultSourceInterval,
			},
			FormatFlag,
			NoColorFlag,
		},
		Action: recordAction,
	}
}

func recordAction(c *cli.Context) error {
	r, err := render.NewRenderer(c)
	if err != nil {
		return err
	}

	n := c.Int("frames")
	if n <= 0 {
		return cli.Exit("--frames must be positive", 1)
	}

	start := time.Now().UTC()
	step := c.Duration("frame-interval")
	var i int
	src, err := source.NewSynthetic(source.SyntheticConfig{
		Width:          c.Int("width"),
		Height:         c.Int("height"),
		Format:         types.PixelFormat(c.String("depth-format")),
		RowPadding:     c.Int("row-padding"),
		DropDepthEvery: c.Int("drop-depth-every"),
		Now: func() time.Time {
			return start.Add(time.Duration(i) * step)
		},
	})
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	path := c.String("out")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create recording: %w", err)
	}
	defer iox.DiscardClose(f)

	counter := iox.NewCountingWriter(f)
	buf := bufio.NewWriter(counter)
	w := recording.NewWriter(buf)
	if err := w.WriteHeader(source.KindSynthetic, start); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i = 0; i < n; i++ {
		frame, _ := src.CurrentFrame()
		if err := w.WriteFrame(frame); err != nil {
			return fmt.Errorf("write frame %d: %w", i, err)
		}
	}
	if err := buf.Flush(); err != nil {
		return fmt.Errorf("flush recording: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close recording: %w", err)
	}

	return r.Render(RecordResponse{
		Path:        path,
		Frames:      n,
		Width:       c.Int("width"),
		Height:      c.Int("height"),
		DepthFormat: c.String("depth-format"),
		Bytes:       counter.Count(),
	})
}
