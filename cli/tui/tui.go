package tui

import (
	"fmt"
	"slices"
)

// View types that support TUI mode.
const (
	ViewRunSession   = "run_session"
	ViewInspectDepth = "inspect_depth"
)

// Run starts the appropriate TUI based on the view type.
// Returns an error if the view type doesn't support TUI.
func Run(viewType string, data any) error {
	switch viewType {
	case ViewRunSession:
		view, ok := data.(*SessionView)
		if !ok {
			return fmt.Errorf("invalid data type for %s: %T", viewType, data)
		}
		return RunSessionTUI(view)
	case ViewInspectDepth:
		return RunInspectTUI(viewType, data)
	default:
		return fmt.Errorf("TUI mode is not supported for %s", viewType)
	}
}

// IsTUISupported returns true if the view type supports TUI mode.
func IsTUISupported(viewType string) bool {
	return slices.Contains(SupportedTUIViews(), viewType)
}

// SupportedTUIViews returns a list of view types that support TUI.
func SupportedTUIViews() []string {
	return []string{
		ViewRunSession,
		ViewInspectDepth,
	}
}
