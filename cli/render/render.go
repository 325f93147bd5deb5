// Package render prints command results for the depthcap CLI.
//
// The output format comes from --format. Without it, a terminal gets the
// table view and anything else (pipes, files, tests) gets JSON. --no-color
// only changes table headers; the TUI keeps its own styles.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/justapithecus/depthcap/cli/tui"
)

// headerStyle marks table header rows when color is enabled.
var headerStyle = lipgloss.NewStyle().Bold(true)

// Format represents an output format.
type Format string

// Supported formats.
const (
	FormatJSON  Format = "json"
	FormatTable Format = "table"
	FormatYAML  Format = "yaml"
)

// ParseFormat parses a format string, returning an error for invalid formats.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "table":
		return FormatTable, nil
	case "yaml":
		return FormatYAML, nil
	case "":
		return "", nil // Let caller decide default
	default:
		return "", fmt.Errorf("invalid format: %q (must be json, table, or yaml)", s)
	}
}

// Renderer handles output formatting.
type Renderer struct {
	format  Format
	noColor bool
	out     io.Writer
}

// NewRenderer builds a renderer from the --format and --no-color flags,
// writing to the app writer.
func NewRenderer(c *cli.Context) (*Renderer, error) {
	format, err := ParseFormat(c.String("format"))
	if err != nil {
		return nil, err
	}

	var out io.Writer = os.Stdout
	if c.App != nil && c.App.Writer != nil {
		out = c.App.Writer
	}
	if format == "" {
		format = FormatJSON
		if f, ok := out.(*os.File); ok && isTTY(f) {
			format = FormatTable
		}
	}

	return NewRendererWithWriter(format, c.Bool("no-color"), out), nil
}

// NewRendererWithWriter creates a renderer with a custom writer (for testing).
func NewRendererWithWriter(format Format, noColor bool, out io.Writer) *Renderer {
	return &Renderer{
		format:  format,
		noColor: noColor,
		out:     out,
	}
}

// Render outputs the data in the configured format.
func (r *Renderer) Render(data any) error {
	switch r.format {
	case FormatJSON:
		return r.renderJSON(data)
	case FormatTable:
		return r.renderTable(data)
	case FormatYAML:
		return r.renderYAML(data)
	default:
		return fmt.Errorf("unknown format: %s", r.format)
	}
}

// RenderTUI hands a view payload to the interactive TUI.
func (r *Renderer) RenderTUI(viewType string, data any) error {
	if !tui.IsTUISupported(viewType) {
		return fmt.Errorf("--tui is not supported for %s", viewType)
	}
	return tui.Run(viewType, data)
}

func (r *Renderer) renderJSON(data any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func (r *Renderer) renderYAML(data any) error {
	enc := yaml.NewEncoder(r.out)
	enc.SetIndent(2)
	return enc.Encode(data)
}

// renderTable prints slices as one row per element under a header and any
// other value as aligned "name: value" lines.
func (r *Renderer) renderTable(data any) error {
	v := indirect(reflect.ValueOf(data))
	if !v.IsValid() {
		fmt.Fprintln(r.out, "(no results)")
		return nil
	}

	w := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
	defer w.Flush()

	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		r.writeRows(w, v)
	case reflect.Struct:
		for _, f := range columnsOf(v.Type()) {
			fmt.Fprintf(w, "%s:\t%s\n", f.name, formatCell(v.Field(f.index)))
		}
	case reflect.Map:
		for _, key := range sortedKeys(v) {
			fmt.Fprintf(w, "%v:\t%s\n", key.Interface(), formatCell(v.MapIndex(key)))
		}
	default:
		fmt.Fprintln(w, formatCell(v))
	}
	return nil
}

// writeRows prints a slice. Struct elements become columns named by their
// json tags; anything else is printed one value per line.
func (r *Renderer) writeRows(w io.Writer, v reflect.Value) {
	if v.Len() == 0 {
		fmt.Fprintln(w, "(no results)")
		return
	}

	elem := v.Type().Elem()
	if elem.Kind() == reflect.Ptr {
		elem = elem.Elem()
	}
	if elem.Kind() != reflect.Struct {
		for i := range v.Len() {
			fmt.Fprintln(w, formatCell(v.Index(i)))
		}
		return
	}

	cols := columnsOf(elem)
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.name
	}
	fmt.Fprintln(w, r.header(names))

	cells := make([]string, len(cols))
	for i := range v.Len() {
		row := indirect(v.Index(i))
		for j, c := range cols {
			if row.IsValid() {
				cells[j] = formatCell(row.Field(c.index))
			} else {
				cells[j] = ""
			}
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
}

// column is one exported struct field shown in table output.
type column struct {
	name  string
	index int
}

// columnsOf lists the exported fields of t, named by json tag. Fields
// tagged json:"-" are left out.
func columnsOf(t reflect.Type) []column {
	cols := make([]column, 0, t.NumField())
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		switch name {
		case "-":
			continue
		case "":
			name = strings.ToLower(f.Name)
		}
		cols = append(cols, column{name: name, index: i})
	}
	return cols
}

// indirect follows pointers and interfaces; it returns the zero Value for nil.
func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

var (
	timeType     = reflect.TypeOf(time.Time{})
	durationType = reflect.TypeOf(time.Duration(0))
)

// formatCell renders a single value for table output.
func formatCell(v reflect.Value) string {
	v = indirect(v)
	if !v.IsValid() {
		return ""
	}

	switch {
	case v.Type() == timeType:
		t := v.Interface().(time.Time)
		if t.IsZero() {
			return ""
		}
		return t.Format(time.RFC3339)
	case v.Type() == durationType:
		return time.Duration(v.Int()).String()
	}

	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		if v.Len() == 0 {
			return "[]"
		}
		return fmt.Sprintf("[%d items]", v.Len())
	case reflect.Map:
		if v.Len() == 0 {
			return "{}"
		}
		// Counters by kind stay readable inline
		if v.Len() <= 4 {
			parts := make([]string, 0, v.Len())
			for _, key := range sortedKeys(v) {
				parts = append(parts, fmt.Sprintf("%v=%v", key.Interface(), indirect(v.MapIndex(key)).Interface()))
			}
			return strings.Join(parts, " ")
		}
		return fmt.Sprintf("{%d keys}", v.Len())
	case reflect.Struct:
		return "{...}"
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'g', 6, 64)
	default:
		return fmt.Sprint(v.Interface())
	}
}

// header joins header cells, bolding them unless color is disabled.
func (r *Renderer) header(cells []string) string {
	if r.noColor {
		return strings.Join(cells, "\t")
	}
	styled := make([]string, len(cells))
	for i, c := range cells {
		styled[i] = headerStyle.Render(c)
	}
	return strings.Join(styled, "\t")
}

// sortedKeys returns map keys in string order.
func sortedKeys(v reflect.Value) []reflect.Value {
	keys := v.MapKeys()
	sort.Slice(keys, func(i, j int) bool {
		return fmt.Sprint(keys[i].Interface()) < fmt.Sprint(keys[j].Interface())
	})
	return keys
}

// isTTY reports whether f is a character device.
func isTTY(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
