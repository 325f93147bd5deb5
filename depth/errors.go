package depth

import (
	"errors"
	"fmt"
)

// Sentinel errors for decode failure classification.
// Use errors.Is(err, ErrXxx) for typed assertions.
var (
	// ErrUnsupportedFormat indicates a pixel format the decoder cannot convert.
	// Callers skip depth persistence for the frame but may keep the color image.
	ErrUnsupportedFormat = errors.New("unsupported depth pixel format")

	// ErrBufferTooShort indicates fewer than height*bytesPerRow bytes.
	ErrBufferTooShort = errors.New("depth buffer too short")

	// ErrInvalidDimensions indicates malformed caller input (non-positive
	// dimensions, unaligned or undersized row stride).
	ErrInvalidDimensions = errors.New("invalid depth buffer dimensions")
)

// DecodeError wraps a decode failure with its classification.
type DecodeError struct {
	// Kind is the sentinel error (ErrUnsupportedFormat, ErrBufferTooShort, ErrInvalidDimensions).
	Kind error
	// Msg carries the offending values.
	Msg string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%v: %s", e.Kind, e.Msg)
}

// Is reports whether the error matches the target sentinel.
func (e *DecodeError) Is(target error) bool {
	return errors.Is(e.Kind, target)
}

func newDecodeError(kind error, format string, args ...any) *DecodeError {
	return &DecodeError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// KindLabel returns a short metric label for a decode error.
// Returns "other" for errors that are not decode errors.
func KindLabel(err error) string {
	switch {
	case errors.Is(err, ErrUnsupportedFormat):
		return "unsupported_format"
	case errors.Is(err, ErrBufferTooShort):
		return "buffer_too_short"
	case errors.Is(err, ErrInvalidDimensions):
		return "invalid_dimensions"
	default:
		return "other"
	}
}
