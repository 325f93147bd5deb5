package capture

import (
	"context"

	"github.com/justapithecus/depthcap/depth"
	"github.com/justapithecus/depthcap/encode"
	"github.com/justapithecus/depthcap/types"
)

// runPipeline captures, encodes and saves one frame numbered frameNumber.
// It never returns an error: every failure is logged, counted and folded
// into the outcome.
func (c *Controller) runPipeline(ctx context.Context, frameNumber int64) outcome {
	frame, ok := c.source.CurrentFrame()
	if !ok || frame == nil {
		c.metrics.IncNoFrame()
		c.logger.Debug("no frame available", map[string]any{"frame": frameNumber})
		return outcomeNoFrame
	}

	at := c.now()

	// Depth is best-effort: any failure degrades to a color-only capture.
	var grid *types.DepthGrid
	if frame.Depth != nil {
		g, err := depth.DecodeBuffer(frame.Depth)
		if err != nil {
			c.metrics.IncDecodeFailure(depth.KindLabel(err))
			c.logger.Warn("depth decode failed", map[string]any{
				"frame":  frameNumber,
				"seq":    frame.Seq,
				"format": string(frame.Depth.Format),
				"error":  err.Error(),
			})
		} else {
			grid = g
		}
	}

	imageSaved := false
	img, err := encode.Image(frame.Color, encode.ArtifactName(types.ArtifactKindImage, frameNumber, at))
	if err != nil {
		c.metrics.IncImageEncodeFailure()
		c.logger.Error("image encode failed", map[string]any{
			"frame": frameNumber,
			"error": err.Error(),
		})
	} else {
		imageSaved = c.save(ctx, frameNumber, img)
	}

	depthAttempted, depthSaved := false, false
	if grid != nil {
		table, err := encode.DepthTable(grid, encode.ArtifactName(types.ArtifactKindDepthTable, frameNumber, at))
		if err != nil {
			c.metrics.IncTableEncodeFailure()
			c.logger.Warn("depth table encode failed", map[string]any{
				"frame": frameNumber,
				"error": err.Error(),
			})
		} else {
			depthAttempted = true
			depthSaved = c.save(ctx, frameNumber, table)
		}
	}

	// A saved image with a lost depth table is a color-only capture.
	var o outcome
	switch {
	case !imageSaved:
		o = outcomeFailed
		c.metrics.IncFrameFailed()
	case depthSaved:
		o = outcomeFull
		c.metrics.IncFrameFull()
	default:
		o = outcomeColorOnly
		c.metrics.IncFrameColorOnly()
		if depthAttempted {
			c.metrics.IncDepthSaveFailure()
		}
	}

	fields := map[string]any{
		"frame":   frameNumber,
		"seq":     frame.Seq,
		"outcome": o.String(),
	}
	if grid != nil && c.logger.DebugEnabled() {
		s := depth.Summarize(grid)
		fields["depth_coverage"] = s.Coverage()
		fields["depth_mean"] = s.Mean
	}
	c.logger.Debug("frame processed", fields)
	return o
}

// save writes one artifact and reports whether it succeeded.
func (c *Controller) save(ctx context.Context, frameNumber int64, a *types.EncodedArtifact) bool {
	if err := c.storage.Save(ctx, a.Kind, a.Name, a.Data); err != nil {
		c.logger.Error("storage write failed", map[string]any{
			"frame": frameNumber,
			"kind":  string(a.Kind),
			"name":  a.Name,
			"error": err.Error(),
		})
		return false
	}
	return true
}
