// Package encode serializes capture outputs: color frames to PNG and depth
// grids to a textual x,y,depth table. It performs no I/O; callers hand the
// resulting artifacts to storage.
package encode

import (
	"bytes"
	"image"
	"image/png"

	"github.com/justapithecus/depthcap/types"
)

var pngEncoder = png.Encoder{CompressionLevel: png.BestSpeed}

// EncodeImage encodes an RGBA8 color image as PNG.
func EncodeImage(img types.ColorImage) ([]byte, error) {
	if img.Width <= 0 || img.Height <= 0 {
		return nil, &ImageEncodeError{Kind: ErrInvalidDimensions, Width: img.Width, Height: img.Height}
	}
	if len(img.Pix) != img.Width*img.Height*4 {
		return nil, &ImageEncodeError{Kind: ErrPixelBufferSize, Width: img.Width, Height: img.Height}
	}

	rgba := &image.RGBA{
		Pix:    img.Pix,
		Stride: img.Width * 4,
		Rect:   image.Rect(0, 0, img.Width, img.Height),
	}

	var buf bytes.Buffer
	if err := pngEncoder.Encode(&buf, rgba); err != nil {
		return nil, &ImageEncodeError{Kind: ErrInvalidDimensions, Width: img.Width, Height: img.Height, Err: err}
	}
	return buf.Bytes(), nil
}

// Image encodes img and wraps it as a named artifact.
func Image(img types.ColorImage, name string) (*types.EncodedArtifact, error) {
	data, err := EncodeImage(img)
	if err != nil {
		return nil, err
	}
	return &types.EncodedArtifact{
		Kind:        types.ArtifactKindImage,
		Name:        name,
		ContentType: types.ArtifactKindImage.ContentType(),
		Data:        data,
	}, nil
}
