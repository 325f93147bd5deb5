package encode

import (
	"errors"
	"fmt"
)

// Sentinel errors for encode failure classification.
var (
	// ErrInvalidDimensions indicates a color image with non-positive width or height.
	ErrInvalidDimensions = errors.New("invalid image dimensions")

	// ErrPixelBufferSize indicates Pix does not hold exactly Width*Height RGBA texels.
	ErrPixelBufferSize = errors.New("pixel buffer size mismatch")

	// ErrInvalidGrid indicates a depth grid whose value count disagrees with its dimensions.
	ErrInvalidGrid = errors.New("invalid depth grid")

	// ErrMalformedTable indicates a depth table that cannot be parsed back into a grid.
	ErrMalformedTable = errors.New("malformed depth table")
)

// ImageEncodeError wraps an image encoding failure with its classification.
type ImageEncodeError struct {
	Kind   error
	Width  int
	Height int
	Err    error
}

func (e *ImageEncodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("encode image %dx%d: %v: %v", e.Width, e.Height, e.Kind, e.Err)
	}
	return fmt.Sprintf("encode image %dx%d: %v", e.Width, e.Height, e.Kind)
}

// Unwrap returns the underlying error, if any.
func (e *ImageEncodeError) Unwrap() error {
	return e.Err
}

// Is reports whether the error matches the target sentinel.
func (e *ImageEncodeError) Is(target error) bool {
	return errors.Is(e.Kind, target)
}
