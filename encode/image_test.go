package encode

import (
	"bytes"
	"errors"
	"image/png"
	"testing"

	"github.com/justapithecus/depthcap/types"
)

func testImage(w, h int) types.ColorImage {
	pix := make([]byte, w*h*4)
	for i := 0; i < len(pix); i += 4 {
		pix[i] = byte(i)
		pix[i+1] = byte(i >> 8)
		pix[i+2] = 0x7f
		pix[i+3] = 0xff
	}
	return types.ColorImage{Width: w, Height: h, Pix: pix}
}

func TestEncodeImage_Lossless(t *testing.T) {
	img := testImage(5, 3)

	data, err := EncodeImage(img)
	if err != nil {
		t.Fatalf("EncodeImage failed: %v", err)
	}

	decoded, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode failed: %v", err)
	}
	b := decoded.Bounds()
	if b.Dx() != 5 || b.Dy() != 3 {
		t.Fatalf("decoded bounds = %v, want 5x3", b)
	}

	for y := range 3 {
		for x := range 5 {
			r, g, bl, a := decoded.At(x, y).RGBA()
			i := (y*5 + x) * 4
			got := [4]byte{byte(r >> 8), byte(g >> 8), byte(bl >> 8), byte(a >> 8)}
			want := [4]byte{img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3]}
			if got != want {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestEncodeImage_Errors(t *testing.T) {
	tests := []struct {
		name string
		img  types.ColorImage
		want error
	}{
		{"zero width", types.ColorImage{Width: 0, Height: 2}, ErrInvalidDimensions},
		{"zero height", types.ColorImage{Width: 2, Height: 0}, ErrInvalidDimensions},
		{"negative", types.ColorImage{Width: -1, Height: 2}, ErrInvalidDimensions},
		{"short pix", types.ColorImage{Width: 2, Height: 2, Pix: make([]byte, 15)}, ErrPixelBufferSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := EncodeImage(tt.img)
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
			var imgErr *ImageEncodeError
			if !errors.As(err, &imgErr) {
				t.Errorf("expected *ImageEncodeError, got %T", err)
			}
		})
	}
}

func TestImage_Artifact(t *testing.T) {
	a, err := Image(testImage(2, 2), "rgb_image_3_99.png")
	if err != nil {
		t.Fatal(err)
	}
	if a.Kind != types.ArtifactKindImage || a.ContentType != "image/png" {
		t.Errorf("unexpected artifact: %+v", a.Kind)
	}
	if !bytes.HasPrefix(a.Data, []byte("\x89PNG")) {
		t.Error("artifact data is not a PNG")
	}
}
