// Package depth converts raw depth-sensor buffers into depth grids in meters.
//
// Two float32 encodings are supported:
//   - depth_meters: each texel is already a distance in meters
//   - disparity_reciprocal: each texel is inverse depth; depth = 1/d
//
// Buffers are little-endian and may carry row padding (BytesPerRow > Width*4).
package depth

import (
	"encoding/binary"
	"math"

	"github.com/justapithecus/depthcap/types"
)

// bytesPerTexel is the size of one float32 texel.
const bytesPerTexel = 4

// Decode converts buf into a DepthGrid.
//
// Validation order: dimensions, pixel format, buffer length. Invalid texels
// in a disparity map decode to 0 ("no depth") and never fail the frame.
// Decode has no side effects and is deterministic for identical input.
func Decode(buf []byte, format types.PixelFormat, width, height, bytesPerRow int) (*types.DepthGrid, error) {
	if width <= 0 || height <= 0 {
		return nil, newDecodeError(ErrInvalidDimensions, "width=%d height=%d", width, height)
	}
	if bytesPerRow%bytesPerTexel != 0 {
		return nil, newDecodeError(ErrInvalidDimensions, "bytes_per_row=%d is not a multiple of %d", bytesPerRow, bytesPerTexel)
	}
	if bytesPerRow < width*bytesPerTexel {
		return nil, newDecodeError(ErrInvalidDimensions, "bytes_per_row=%d shorter than row of %d texels", bytesPerRow, width)
	}

	var convert func(float32) float32
	switch format {
	case types.PixelFormatDepthMeters:
		convert = passThrough
	case types.PixelFormatDisparityReciprocal:
		convert = disparityToDepth
	default:
		return nil, newDecodeError(ErrUnsupportedFormat, "format=%q", format)
	}

	if need := height * bytesPerRow; len(buf) < need {
		return nil, newDecodeError(ErrBufferTooShort, "have %d bytes, need %d", len(buf), need)
	}

	stride := bytesPerRow / bytesPerTexel
	values := make([]float32, 0, width*height)
	for y := range height {
		rowStart := y * stride
		for x := range width {
			off := (rowStart + x) * bytesPerTexel
			raw := math.Float32frombits(binary.LittleEndian.Uint32(buf[off : off+bytesPerTexel]))
			values = append(values, convert(raw))
		}
	}

	return &types.DepthGrid{Width: width, Height: height, Values: values}, nil
}

// DecodeBuffer decodes a sensor DepthBuffer.
func DecodeBuffer(b *types.DepthBuffer) (*types.DepthGrid, error) {
	if b == nil {
		return nil, newDecodeError(ErrInvalidDimensions, "nil depth buffer")
	}
	return Decode(b.Data, b.Format, b.Width, b.Height, b.BytesPerRow)
}

func passThrough(v float32) float32 { return v }

// disparityToDepth returns 1/d for positive finite d, else 0.
func disparityToDepth(d float32) float32 {
	f := float64(d)
	if d > 0 && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return 1.0 / d
	}
	return 0
}

// EncodeBuffer packs values into a little-endian float32 buffer with the given
// row stride. It is the inverse of Decode for depth_meters and is used by
// synthetic sources and recordings.
func EncodeBuffer(values []float32, format types.PixelFormat, width, height, bytesPerRow int) *types.DepthBuffer {
	data := make([]byte, height*bytesPerRow)
	for y := range height {
		for x := range width {
			off := y*bytesPerRow + x*bytesPerTexel
			binary.LittleEndian.PutUint32(data[off:], math.Float32bits(values[y*width+x]))
		}
	}
	return &types.DepthBuffer{
		Data:        data,
		Format:      format,
		Width:       width,
		Height:      height,
		BytesPerRow: bytesPerRow,
	}
}
