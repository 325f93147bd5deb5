package tui

import (
	"context"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/justapithecus/depthcap/cli/reader"
	"github.com/justapithecus/depthcap/metrics"
	"github.com/justapithecus/depthcap/types"
)

func TestIsTUISupported(t *testing.T) {
	tests := []struct {
		viewType string
		want     bool
	}{
		{"run_session", true},
		{"inspect_depth", true},

		// Not supported: list and version
		{"list_artifacts", false},
		{"version", false},

		// Not supported: unknown
		{"unknown", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.viewType, func(t *testing.T) {
			got := IsTUISupported(tt.viewType)
			if got != tt.want {
				t.Errorf("IsTUISupported(%q) = %v, want %v", tt.viewType, got, tt.want)
			}
		})
	}
}

func TestRun_UnsupportedViewType(t *testing.T) {
	if err := Run("list_artifacts", nil); err == nil {
		t.Error("Expected error for unsupported view type")
	}
}

func TestRun_WrongSessionPayload(t *testing.T) {
	if err := Run(ViewRunSession, "not a view"); err == nil {
		t.Error("Expected error for invalid payload")
	}
}

// fakeController records calls and mimics controller mode changes.
type fakeController struct {
	mu      sync.Mutex
	session types.CaptureSession
	singles int
	starts  int
	stops   int
}

func (f *fakeController) Session() types.CaptureSession {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.session
}

func (f *fakeController) CaptureSingle(context.Context) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.singles++
	f.session.FrameCount++
	f.session.LastStatus = "Frame 1 saved (RGB + Depth)"
	return true
}

func (f *fakeController) StartContinuous(context.Context) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.starts++
	f.session.Mode = types.CaptureModeContinuous
	return true
}

func (f *fakeController) StopContinuous() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops++
	f.session.Mode = types.CaptureModeIdle
	return true
}

func keyPress(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// press sends a key and runs the resulting command, feeding its message back.
func press(t *testing.T, m SessionModel, r rune) SessionModel {
	t.Helper()
	next, cmd := m.Update(keyPress(r))
	m = next.(SessionModel)
	if cmd != nil {
		if msg := cmd(); msg != nil {
			next, _ = m.Update(msg)
			m = next.(SessionModel)
		}
	}
	return m
}

func TestSessionModel_SingleCapture(t *testing.T) {
	ctrl := &fakeController{session: types.CaptureSession{SessionID: "s1", Mode: types.CaptureModeIdle, LastStatus: "Ready"}}
	m := NewSessionModel(&SessionView{Ctx: t.Context(), Controller: ctrl})

	m = press(t, m, 's')

	if ctrl.singles != 1 {
		t.Errorf("CaptureSingle calls = %d, want 1", ctrl.singles)
	}
	if m.Snapshot().FrameCount != 1 {
		t.Errorf("FrameCount = %d, want 1", m.Snapshot().FrameCount)
	}
	if m.busy {
		t.Error("model should not be busy after capture completes")
	}
}

func TestSessionModel_SingleIgnoredWhileBusyOrContinuous(t *testing.T) {
	ctrl := &fakeController{session: types.CaptureSession{Mode: types.CaptureModeContinuous}}
	m := NewSessionModel(&SessionView{Controller: ctrl})

	if _, cmd := m.Update(keyPress('s')); cmd != nil {
		t.Error("single capture should be ignored during continuous capture")
	}

	ctrl.session.Mode = types.CaptureModeIdle
	m.refresh()
	m.busy = true
	if _, cmd := m.Update(keyPress('s')); cmd != nil {
		t.Error("single capture should be ignored while busy")
	}
}

func TestSessionModel_ToggleContinuous(t *testing.T) {
	ctrl := &fakeController{session: types.CaptureSession{Mode: types.CaptureModeIdle}}
	m := NewSessionModel(&SessionView{Ctx: t.Context(), Controller: ctrl})

	m = press(t, m, 'c')
	if ctrl.starts != 1 || m.Snapshot().Mode != types.CaptureModeContinuous {
		t.Fatalf("after first toggle: starts=%d mode=%s", ctrl.starts, m.Snapshot().Mode)
	}

	m = press(t, m, 'c')
	if ctrl.stops != 1 || m.Snapshot().Mode != types.CaptureModeIdle {
		t.Errorf("after second toggle: stops=%d mode=%s", ctrl.stops, m.Snapshot().Mode)
	}
}

func TestSessionModel_QuitStopsContinuous(t *testing.T) {
	ctrl := &fakeController{session: types.CaptureSession{Mode: types.CaptureModeContinuous}}
	m := NewSessionModel(&SessionView{Controller: ctrl})

	next, cmd := m.Update(keyPress('q'))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if !next.(SessionModel).quitting {
		t.Error("model should be quitting")
	}
	if next.(SessionModel).View() != "" {
		t.Error("View should be empty after quit")
	}
}

func TestSessionModel_PollRefreshes(t *testing.T) {
	ctrl := &fakeController{session: types.CaptureSession{Mode: types.CaptureModeIdle}}
	calls := 0
	m := NewSessionModel(&SessionView{
		Controller: ctrl,
		Metrics: func() metrics.Snapshot {
			calls++
			return metrics.Snapshot{FramesFull: 3}
		},
	})

	ctrl.session.FrameCount = 7
	next, cmd := m.Update(pollMsg{})
	m = next.(SessionModel)
	if cmd == nil {
		t.Error("poll should schedule the next poll")
	}
	if m.Snapshot().FrameCount != 7 {
		t.Errorf("FrameCount = %d, want 7", m.Snapshot().FrameCount)
	}
	if calls != 2 || m.stats == nil || m.stats.FramesFull != 3 {
		t.Errorf("metrics calls=%d stats=%+v", calls, m.stats)
	}
}

func TestSessionModel_View(t *testing.T) {
	ctrl := &fakeController{session: types.CaptureSession{
		SessionID:  "sess-42",
		Mode:       types.CaptureModeIdle,
		FrameCount: 12,
		LastStatus: "Stopped. Saved 12 frames",
	}}
	m := NewSessionModel(&SessionView{Controller: ctrl})

	out := m.View()
	for _, want := range []string{"sess-42", "Stopped. Saved 12 frames", "12", "single capture", "quit"} {
		if !strings.Contains(out, want) {
			t.Errorf("View missing %q", want)
		}
	}
}

func TestInspectModel_DepthView(t *testing.T) {
	data := &reader.InspectDepthResponse{
		Source:   "depth_data_0_1.csv",
		Width:    4,
		Height:   3,
		Cells:    12,
		Valid:    9,
		Invalid:  3,
		Coverage: 0.75,
		Min:      0.5,
		Max:      4.25,
		Mean:     1.5,
	}

	out := RenderInspectStatic(ViewInspectDepth, data)
	for _, want := range []string{"depth_data_0_1.csv", "4 x 3", "75.0%", "4.250", "No depth"} {
		if !strings.Contains(out, want) {
			t.Errorf("inspect view missing %q", want)
		}
	}

	bad := RenderInspectStatic(ViewInspectDepth, "oops")
	if !strings.Contains(bad, "Invalid data type") {
		t.Errorf("expected invalid data message, got %q", bad)
	}
}

func TestStatusStyle(t *testing.T) {
	tests := []struct {
		status string
		want   string
	}{
		{"Frame 3 saved (RGB + Depth)", "success"},
		{"Frame 3 saved (RGB only, no depth)", "warning"},
		{"Frame 3 - Error saving", "error"},
		{"Frame skipped (previous save in progress)", "warning"},
		{"Stopped. Saved 3 frames", "success"},
		{"Ready", "value"},
	}
	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			got := StatusStyle(tt.status).GetForeground()
			var want any
			switch tt.want {
			case "success":
				want = SuccessStyle.GetForeground()
			case "warning":
				want = WarningStyle.GetForeground()
			case "error":
				want = ErrorStyle.GetForeground()
			default:
				want = ValueStyle.GetForeground()
			}
			if got != want {
				t.Errorf("StatusStyle(%q) foreground = %v, want %v", tt.status, got, want)
			}
		})
	}
}
