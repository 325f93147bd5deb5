package source

import (
	"errors"
	"sync/atomic"
	"time"

	"github.com/justapithecus/depthcap/depth"
	"github.com/justapithecus/depthcap/types"
)

// SyntheticConfig configures a Synthetic source.
type SyntheticConfig struct {
	Width  int
	Height int
	// Format is the depth pixel format to emit. Defaults to depth_meters.
	Format types.PixelFormat
	// RowPadding adds this many bytes of padding to each depth row.
	// Must be a multiple of 4.
	RowPadding int
	// DropDepthEvery omits the depth map from every Nth frame. Zero never drops.
	DropDepthEvery int
	// Now is the clock used for CapturedAt. Defaults to time.Now.
	Now func() time.Time
}

// Synthetic generates a moving gradient scene with a sloped depth plane.
type Synthetic struct {
	cfg SyntheticConfig
	seq atomic.Int64
}

// NewSynthetic creates a synthetic source.
func NewSynthetic(cfg SyntheticConfig) (*Synthetic, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, errors.New("synthetic source: width and height must be positive")
	}
	if cfg.RowPadding < 0 || cfg.RowPadding%4 != 0 {
		return nil, errors.New("synthetic source: row padding must be a non-negative multiple of 4")
	}
	if cfg.Format == "" {
		cfg.Format = types.PixelFormatDepthMeters
	}
	if !cfg.Format.IsSupported() {
		return nil, errors.New("synthetic source: unsupported depth format " + string(cfg.Format))
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Synthetic{cfg: cfg}, nil
}

// CurrentFrame generates the next frame. Always available.
func (s *Synthetic) CurrentFrame() (*types.Frame, bool) {
	seq := s.seq.Add(1)
	w, h := s.cfg.Width, s.cfg.Height

	pix := make([]byte, w*h*4)
	for y := range h {
		for x := range w {
			i := (y*w + x) * 4
			pix[i] = byte((x*255/max(w-1, 1) + int(seq)) % 256)
			pix[i+1] = byte(y * 255 / max(h-1, 1))
			pix[i+2] = byte(seq * 8 % 256)
			pix[i+3] = 255
		}
	}

	f := &types.Frame{
		Seq:        seq,
		CapturedAt: s.cfg.Now(),
		Color:      types.ColorImage{Width: w, Height: h, Pix: pix},
	}
	if s.cfg.DropDepthEvery > 0 && seq%int64(s.cfg.DropDepthEvery) == 0 {
		return f, true
	}

	values := make([]float32, w*h)
	for y := range h {
		for x := range w {
			// Plane from 0.5m to 4.5m, drifting with seq.
			m := 0.5 + 4*float32(x+y)/float32(w+h) + float32(seq%10)*0.01
			if s.cfg.Format == types.PixelFormatDisparityReciprocal {
				m = 1 / m
			}
			values[y*w+x] = m
		}
	}
	f.Depth = depth.EncodeBuffer(values, s.cfg.Format, w, h, w*4+s.cfg.RowPadding)
	return f, true
}

// Verify Synthetic implements FrameSource.
var _ FrameSource = (*Synthetic)(nil)
