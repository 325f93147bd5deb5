package encode

import (
	"testing"
	"time"

	"github.com/justapithecus/depthcap/types"
)

func TestArtifactName(t *testing.T) {
	at := time.UnixMilli(1734220800123)

	tests := []struct {
		kind  types.ArtifactKind
		frame int64
		want  string
	}{
		{types.ArtifactKindImage, 0, "rgb_image_0_1734220800123.png"},
		{types.ArtifactKindDepthTable, 42, "depth_data_42_1734220800123.csv"},
	}
	for _, tt := range tests {
		if got := ArtifactName(tt.kind, tt.frame, at); got != tt.want {
			t.Errorf("ArtifactName(%s, %d) = %q, want %q", tt.kind, tt.frame, got, tt.want)
		}
	}
}
