package encode

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/justapithecus/depthcap/types"
)

// tableHeader is the first record of every depth table.
var tableHeader = []string{"x", "y", "depth"}

// EncodeDepthTable renders g as UTF-8 text: a header line "x,y,depth" followed by
// one line per cell, y outer and x inner, matching index = y*width + x.
func EncodeDepthTable(g *types.DepthGrid) ([]byte, error) {
	if !g.Valid() {
		if g == nil {
			return nil, fmt.Errorf("%w: nil grid", ErrInvalidGrid)
		}
		return nil, fmt.Errorf("%w: %dx%d with %d values", ErrInvalidGrid, g.Width, g.Height, len(g.Values))
	}

	var buf bytes.Buffer
	buf.Grow(16 * (len(g.Values) + 1))
	w := csv.NewWriter(&buf)

	if err := w.Write(tableHeader); err != nil {
		return nil, err
	}
	record := make([]string, 3)
	for y := range g.Height {
		record[1] = strconv.Itoa(y)
		for x := range g.Width {
			record[0] = strconv.Itoa(x)
			record[2] = FormatDepth(g.Values[y*g.Width+x])
			if err := w.Write(record); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DepthTable encodes g and wraps it as a named artifact.
func DepthTable(g *types.DepthGrid, name string) (*types.EncodedArtifact, error) {
	data, err := EncodeDepthTable(g)
	if err != nil {
		return nil, err
	}
	return &types.EncodedArtifact{
		Kind:        types.ArtifactKindDepthTable,
		Name:        name,
		ContentType: types.ArtifactKindDepthTable.ContentType(),
		Data:        data,
	}, nil
}

// FormatDepth formats a depth value independently of locale: period decimal
// separator, no grouping, shortest text that round-trips to the same float32.
// Whole numbers keep a fractional part ("1.0"). Non-finite values render as
// "nan", "inf" or "-inf".
func FormatDepth(v float32) string {
	f := float64(v)
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}

	s := strconv.FormatFloat(f, 'f', -1, 32)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// ParseDepthTable parses a table produced by EncodeDepthTable back into a grid.
// Cells must appear in row-major order with no gaps; the width is taken from
// the first row.
func ParseDepthTable(r io.Reader) (*types.DepthGrid, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 3
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty input", ErrMalformedTable)
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedTable, err)
	}
	if header[0] != tableHeader[0] || header[1] != tableHeader[1] || header[2] != tableHeader[2] {
		return nil, fmt.Errorf("%w: unexpected header %q", ErrMalformedTable, strings.Join(header, ","))
	}

	width := 0
	var values []float32
	for line := 2; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedTable, err)
		}

		x, errX := strconv.Atoi(record[0])
		y, errY := strconv.Atoi(record[1])
		d, errD := strconv.ParseFloat(record[2], 32)
		if errX != nil || errY != nil || errD != nil {
			return nil, fmt.Errorf("%w: line %d: cannot parse %q", ErrMalformedTable, line, strings.Join(record, ","))
		}

		i := len(values)
		if width == 0 && y == 1 && x == 0 {
			width = i
		}
		wantX, wantY := i, 0
		if width > 0 {
			wantX, wantY = i%width, i/width
		}
		if x != wantX || y != wantY {
			return nil, fmt.Errorf("%w: line %d: cell (%d,%d) out of order, want (%d,%d)", ErrMalformedTable, line, x, y, wantX, wantY)
		}
		values = append(values, float32(d))
	}

	if len(values) == 0 {
		return nil, fmt.Errorf("%w: no cells", ErrMalformedTable)
	}
	if width == 0 {
		width = len(values)
	}
	if len(values)%width != 0 {
		return nil, fmt.Errorf("%w: %d cells do not fill rows of width %d", ErrMalformedTable, len(values), width)
	}

	return &types.DepthGrid{Width: width, Height: len(values) / width, Values: values}, nil
}
