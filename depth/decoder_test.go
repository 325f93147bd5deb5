package depth

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/justapithecus/depthcap/types"
)

// packRows builds a little-endian float32 buffer with padded rows.
// Padding texels are filled with a sentinel that must never be decoded.
func packRows(t *testing.T, values []float32, width, height, bytesPerRow int) []byte {
	t.Helper()
	buf := make([]byte, height*bytesPerRow)
	for i := 0; i+4 <= len(buf); i += 4 {
		binary.LittleEndian.PutUint32(buf[i:], math.Float32bits(-999))
	}
	for y := range height {
		for x := range width {
			off := y*bytesPerRow + x*4
			binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(values[y*width+x]))
		}
	}
	return buf
}

func TestDecode_DepthMetersScenario(t *testing.T) {
	values := []float32{1.0, 2.0, 3.0, 4.0}
	buf := packRows(t, values, 2, 2, 8)

	grid, err := Decode(buf, types.PixelFormatDepthMeters, 2, 2, 8)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if diff := cmp.Diff(values, grid.Values); diff != "" {
		t.Errorf("values mismatch (-want +got):\n%s", diff)
	}
	if !grid.Valid() {
		t.Error("decoded grid should be valid")
	}
}

func TestDecode_DisparityScenario(t *testing.T) {
	buf := packRows(t, []float32{0.5, 0.0, -1.0, 2.0}, 2, 2, 8)

	grid, err := Decode(buf, types.PixelFormatDisparityReciprocal, 2, 2, 8)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	want := []float32{2.0, 0.0, 0.0, 0.5}
	if diff := cmp.Diff(want, grid.Values); diff != "" {
		t.Errorf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_DisparityNonFinite(t *testing.T) {
	in := []float32{
		float32(math.Inf(1)),
		float32(math.Inf(-1)),
		float32(math.NaN()),
		4.0,
	}
	buf := packRows(t, in, 4, 1, 16)

	grid, err := Decode(buf, types.PixelFormatDisparityReciprocal, 4, 1, 16)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	want := []float32{0, 0, 0, 0.25}
	if diff := cmp.Diff(want, grid.Values); diff != "" {
		t.Errorf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_IgnoresRowPadding(t *testing.T) {
	tests := []struct {
		name        string
		width       int
		height      int
		bytesPerRow int
	}{
		{"tight", 3, 2, 12},
		{"one texel pad", 3, 2, 16},
		{"wide pad", 3, 3, 64},
		{"single row", 5, 1, 32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := make([]float32, tt.width*tt.height)
			for i := range values {
				values[i] = float32(i) + 0.25
			}
			buf := packRows(t, values, tt.width, tt.height, tt.bytesPerRow)

			grid, err := Decode(buf, types.PixelFormatDepthMeters, tt.width, tt.height, tt.bytesPerRow)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if diff := cmp.Diff(values, grid.Values); diff != "" {
				t.Errorf("values mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecode_DisparityReciprocalProperty(t *testing.T) {
	for _, d := range []float32{0.001, 0.1, 0.5, 1, 3, 250} {
		buf := packRows(t, []float32{d}, 1, 1, 4)
		grid, err := Decode(buf, types.PixelFormatDisparityReciprocal, 1, 1, 4)
		if err != nil {
			t.Fatalf("Decode(%v) failed: %v", d, err)
		}
		if want := 1.0 / d; grid.Values[0] != want {
			t.Errorf("Decode(%v) = %v, want %v", d, grid.Values[0], want)
		}
	}
}

func TestDecode_Errors(t *testing.T) {
	ok := make([]byte, 16)

	tests := []struct {
		name        string
		buf         []byte
		format      types.PixelFormat
		width       int
		height      int
		bytesPerRow int
		want        error
	}{
		{"unsupported format", ok, types.PixelFormat("depth_float16"), 2, 2, 8, ErrUnsupportedFormat},
		{"empty format", ok, "", 2, 2, 8, ErrUnsupportedFormat},
		{"buffer too short", ok[:15], types.PixelFormatDepthMeters, 2, 2, 8, ErrBufferTooShort},
		{"zero width", ok, types.PixelFormatDepthMeters, 0, 2, 8, ErrInvalidDimensions},
		{"negative height", ok, types.PixelFormatDepthMeters, 2, -1, 8, ErrInvalidDimensions},
		{"unaligned stride", ok, types.PixelFormatDepthMeters, 1, 2, 6, ErrInvalidDimensions},
		{"stride shorter than row", ok, types.PixelFormatDepthMeters, 3, 1, 8, ErrInvalidDimensions},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grid, err := Decode(tt.buf, tt.format, tt.width, tt.height, tt.bytesPerRow)
			if grid != nil {
				t.Errorf("expected nil grid, got %+v", grid)
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
			var decodeErr *DecodeError
			if !errors.As(err, &decodeErr) {
				t.Errorf("expected *DecodeError, got %T", err)
			}
		})
	}
}

func TestDecode_UnsupportedFormatBeforeLength(t *testing.T) {
	_, err := Decode(nil, types.PixelFormat("yuv"), 2, 2, 8)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestDecodeBuffer_RoundTripsEncodeBuffer(t *testing.T) {
	values := []float32{0.5, 1.5, 2.5, 3.5, 4.5, 5.5}
	b := EncodeBuffer(values, types.PixelFormatDepthMeters, 3, 2, 16)

	grid, err := DecodeBuffer(b)
	if err != nil {
		t.Fatalf("DecodeBuffer failed: %v", err)
	}
	if diff := cmp.Diff(values, grid.Values); diff != "" {
		t.Errorf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeBuffer_Nil(t *testing.T) {
	if _, err := DecodeBuffer(nil); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("error = %v, want ErrInvalidDimensions", err)
	}
}

func TestDecode_Deterministic(t *testing.T) {
	buf := packRows(t, []float32{0.3, 0.7, 1.1, 9}, 2, 2, 12)
	a, err := Decode(buf, types.PixelFormatDisparityReciprocal, 2, 2, 12)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Decode(buf, types.PixelFormatDisparityReciprocal, 2, 2, 12)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("non-deterministic decode (-a +b):\n%s", diff)
	}
}

func TestKindLabel(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{newDecodeError(ErrUnsupportedFormat, "x"), "unsupported_format"},
		{newDecodeError(ErrBufferTooShort, "x"), "buffer_too_short"},
		{newDecodeError(ErrInvalidDimensions, "x"), "invalid_dimensions"},
		{errors.New("boom"), "other"},
	}
	for _, tt := range tests {
		if got := KindLabel(tt.err); got != tt.want {
			t.Errorf("KindLabel(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
