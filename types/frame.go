//nolint:revive // types is a common Go package naming convention
package types

import "time"

// PixelFormat identifies how a raw depth buffer encodes each texel.
type PixelFormat string

// Pixel formats understood by the depth decoder.
const (
	// PixelFormatDepthMeters stores float32 distance in meters.
	PixelFormatDepthMeters PixelFormat = "depth_meters"
	// PixelFormatDisparityReciprocal stores float32 inverse depth (1/m).
	PixelFormatDisparityReciprocal PixelFormat = "disparity_reciprocal"
)

// IsSupported returns true if the decoder knows how to convert this format.
func (f PixelFormat) IsSupported() bool {
	return f == PixelFormatDepthMeters || f == PixelFormatDisparityReciprocal
}

// ColorImage is an RGBA8 raster with a tightly packed row stride of Width*4.
type ColorImage struct {
	Width  int    `msgpack:"width"`
	Height int    `msgpack:"height"`
	Pix    []byte `msgpack:"pix"`
}

// DepthBuffer is a raw depth map as emitted by the sensor.
// Rows may be padded: BytesPerRow can exceed Width*4.
type DepthBuffer struct {
	Data        []byte      `msgpack:"data"`
	Format      PixelFormat `msgpack:"format"`
	Width       int         `msgpack:"width"`
	Height      int         `msgpack:"height"`
	BytesPerRow int         `msgpack:"bytes_per_row"`
}

// Frame is one synchronized color + depth sample.
// A Frame is immutable once published by a source.
type Frame struct {
	// Seq is the monotonic sensor sequence number.
	Seq int64 `msgpack:"seq"`
	// CapturedAt is the wall-clock capture time.
	CapturedAt time.Time `msgpack:"captured_at"`
	// Color is the camera image.
	Color ColorImage `msgpack:"color"`
	// Depth is nil when the sensor produced no depth map for this tick.
	Depth *DepthBuffer `msgpack:"depth,omitempty"`
}
