package depth

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/justapithecus/depthcap/types"
)

// Summary describes the valid texels of a depth grid.
// A texel is valid when it is finite and > 0; zero marks "no depth".
type Summary struct {
	Width   int     `json:"width" yaml:"width"`
	Height  int     `json:"height" yaml:"height"`
	Valid   int     `json:"valid" yaml:"valid"`
	Invalid int     `json:"invalid" yaml:"invalid"`
	Min     float64 `json:"min_m" yaml:"min_m"`
	Max     float64 `json:"max_m" yaml:"max_m"`
	Mean    float64 `json:"mean_m" yaml:"mean_m"`
	StdDev  float64 `json:"stddev_m" yaml:"stddev_m"`
}

// Coverage returns the fraction of valid texels in [0, 1].
func (s Summary) Coverage() float64 {
	total := s.Valid + s.Invalid
	if total == 0 {
		return 0
	}
	return float64(s.Valid) / float64(total)
}

// Summarize computes statistics over the valid texels of g.
// Statistics are zero when no texel is valid.
func Summarize(g *types.DepthGrid) Summary {
	if g == nil {
		return Summary{}
	}
	s := Summary{Width: g.Width, Height: g.Height}

	valid := make([]float64, 0, len(g.Values))
	for _, v := range g.Values {
		f := float64(v)
		if f > 0 && !math.IsInf(f, 0) && !math.IsNaN(f) {
			valid = append(valid, f)
		}
	}
	s.Valid = len(valid)
	s.Invalid = len(g.Values) - s.Valid
	if s.Valid == 0 {
		return s
	}

	s.Min = floats.Min(valid)
	s.Max = floats.Max(valid)
	if s.Valid > 1 {
		s.Mean, s.StdDev = stat.MeanStdDev(valid, nil)
	} else {
		s.Mean = valid[0]
	}
	return s
}
