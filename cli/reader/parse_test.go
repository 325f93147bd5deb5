package reader

import (
	"math"
	"strings"
	"testing"

	"github.com/justapithecus/depthcap/types"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		input   string
		want    types.ArtifactKind
		wantErr bool
	}{
		{"", "", false},
		{"image", types.ArtifactKindImage, false},
		{"PNG", types.ArtifactKindImage, false},
		{"depth_table", types.ArtifactKindDepthTable, false},
		{"csv", types.ArtifactKindDepthTable, false},
		{" depth ", types.ArtifactKindDepthTable, false},
		{"mesh", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseKind(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseKind(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseKind(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseDepthTable(t *testing.T) {
	table := "x,y,depth\n0,0,1.0\n1,0,3.0\n0,1,0.0\n1,1,nan\n"

	resp, err := parseDepthTable("frame.csv", strings.NewReader(table))
	if err != nil {
		t.Fatalf("parseDepthTable failed: %v", err)
	}
	if resp.Source != "frame.csv" || resp.Width != 2 || resp.Height != 2 || resp.Cells != 4 {
		t.Errorf("shape = %+v", resp)
	}
	if resp.Valid != 2 || resp.Invalid != 2 {
		t.Errorf("valid/invalid = %d/%d, want 2/2", resp.Valid, resp.Invalid)
	}
	if resp.Coverage != 0.5 {
		t.Errorf("Coverage = %v, want 0.5", resp.Coverage)
	}
	if resp.Min != 1 || resp.Max != 3 || resp.Mean != 2 {
		t.Errorf("min/max/mean = %v/%v/%v, want 1/3/2", resp.Min, resp.Max, resp.Mean)
	}
	if math.Abs(resp.StdDev-math.Sqrt2) > 1e-9 {
		t.Errorf("StdDev = %v, want sqrt(2)", resp.StdDev)
	}
}

func TestParseDepthTable_Malformed(t *testing.T) {
	_, err := parseDepthTable("bad.csv", strings.NewReader("a,b,c\n"))
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "bad.csv") {
		t.Errorf("error should name the source, got %v", err)
	}
}
