package reader

import (
	"fmt"
	"io"
	"strings"

	"github.com/justapithecus/depthcap/depth"
	"github.com/justapithecus/depthcap/encode"
	"github.com/justapithecus/depthcap/types"
)

// ParseKind converts a --kind flag value to an artifact kind.
// Accepts kind names and file extensions. Empty means all kinds.
func ParseKind(s string) (types.ArtifactKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", nil
	case string(types.ArtifactKindImage), "png", "rgb":
		return types.ArtifactKindImage, nil
	case string(types.ArtifactKindDepthTable), "csv", "depth":
		return types.ArtifactKindDepthTable, nil
	default:
		return "", fmt.Errorf("invalid kind: %q (must be image or depth_table)", s)
	}
}

// parseDepthTable reads a depth table and builds the inspect response.
func parseDepthTable(source string, r io.Reader) (*InspectDepthResponse, error) {
	grid, err := encode.ParseDepthTable(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}

	s := depth.Summarize(grid)
	return &InspectDepthResponse{
		Source:   source,
		Width:    grid.Width,
		Height:   grid.Height,
		Cells:    len(grid.Values),
		Valid:    s.Valid,
		Invalid:  s.Invalid,
		Coverage: s.Coverage(),
		Min:      s.Min,
		Max:      s.Max,
		Mean:     s.Mean,
		StdDev:   s.StdDev,
	}, nil
}
