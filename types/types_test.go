package types //nolint:revive // types is a valid package name

import "testing"

func TestDepthGrid_Valid(t *testing.T) {
	tests := []struct {
		name string
		grid *DepthGrid
		want bool
	}{
		{"nil", nil, false},
		{"ok", &DepthGrid{Width: 2, Height: 2, Values: make([]float32, 4)}, true},
		{"short", &DepthGrid{Width: 2, Height: 2, Values: make([]float32, 3)}, false},
		{"long", &DepthGrid{Width: 2, Height: 2, Values: make([]float32, 5)}, false},
		{"zero width", &DepthGrid{Width: 0, Height: 2, Values: nil}, false},
		{"negative height", &DepthGrid{Width: 2, Height: -1, Values: nil}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.grid.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDepthGrid_At_RowMajor(t *testing.T) {
	g := &DepthGrid{Width: 3, Height: 2, Values: []float32{0, 1, 2, 3, 4, 5}}
	if got := g.At(2, 0); got != 2 {
		t.Errorf("At(2,0) = %v, want 2", got)
	}
	if got := g.At(0, 1); got != 3 {
		t.Errorf("At(0,1) = %v, want 3", got)
	}
}

func TestArtifactKind_NamingParts(t *testing.T) {
	tests := []struct {
		kind   ArtifactKind
		prefix string
		ext    string
	}{
		{ArtifactKindImage, "rgb_image", "png"},
		{ArtifactKindDepthTable, "depth_data", "csv"},
	}

	for _, tt := range tests {
		if got := tt.kind.Prefix(); got != tt.prefix {
			t.Errorf("%s.Prefix() = %q, want %q", tt.kind, got, tt.prefix)
		}
		if got := tt.kind.Ext(); got != tt.ext {
			t.Errorf("%s.Ext() = %q, want %q", tt.kind, got, tt.ext)
		}
		back, ok := KindFromExt(tt.ext)
		if !ok || back != tt.kind {
			t.Errorf("KindFromExt(%q) = %q, %v; want %q", tt.ext, back, ok, tt.kind)
		}
	}

	if _, ok := KindFromExt("txt"); ok {
		t.Error("KindFromExt(txt) should be unknown")
	}
}

func TestPixelFormat_IsSupported(t *testing.T) {
	if !PixelFormatDepthMeters.IsSupported() || !PixelFormatDisparityReciprocal.IsSupported() {
		t.Error("known formats must be supported")
	}
	if PixelFormat("depth_float16").IsSupported() {
		t.Error("unknown format must not be supported")
	}
}
