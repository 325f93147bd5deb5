package types

// DepthGrid is a dense, row-major grid of depth values in meters.
// Index of (x, y) is y*Width + x.
type DepthGrid struct {
	Width  int
	Height int
	Values []float32
}

// Valid returns true if the grid dimensions agree with its values.
// Invalid grids must not be persisted.
func (g *DepthGrid) Valid() bool {
	if g == nil || g.Width <= 0 || g.Height <= 0 {
		return false
	}
	return len(g.Values) == g.Width*g.Height
}

// At returns the value at (x, y). Caller must ensure the grid is valid
// and the coordinates are in range.
func (g *DepthGrid) At(x, y int) float32 {
	return g.Values[y*g.Width+x]
}
