package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/justapithecus/depthcap/metrics"
	"github.com/justapithecus/depthcap/types"
)

// pollInterval is how often the session view refreshes controller state.
const pollInterval = 100 * time.Millisecond

// SessionController is the control surface the session view drives.
// *capture.Controller satisfies it.
type SessionController interface {
	Session() types.CaptureSession
	CaptureSingle(ctx context.Context) bool
	StartContinuous(ctx context.Context) bool
	StopContinuous() bool
}

// SessionView is the payload for the run_session view.
type SessionView struct {
	// Ctx bounds capture operations started from the view.
	Ctx        context.Context
	Controller SessionController
	// Metrics returns live counters. Optional.
	Metrics func() metrics.Snapshot
	// Continuous starts continuous capture as soon as the view opens.
	Continuous bool
}

// keyMap defines key bindings.
type keyMap struct {
	Single key.Binding
	Toggle key.Binding
	Quit   key.Binding
}

var keys = keyMap{
	Single: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "single capture"),
	),
	Toggle: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "start/stop continuous"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

type (
	pollMsg       struct{}
	singleDoneMsg struct{}
	startedMsg    struct{}
	stoppedMsg    struct{}
)

// SessionModel is a Bubble Tea model that polls and drives a capture session.
type SessionModel struct {
	view     *SessionView
	snap     types.CaptureSession
	stats    *metrics.Snapshot
	busy     bool
	width    int
	height   int
	quitting bool
}

// NewSessionModel creates a session model with an initial snapshot.
func NewSessionModel(view *SessionView) SessionModel {
	m := SessionModel{view: view}
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m SessionModel) Init() tea.Cmd {
	if m.view.Continuous {
		return tea.Batch(m.startCmd(), poll())
	}
	return poll()
}

// Update implements tea.Model.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case pollMsg:
		m.refresh()
		if m.quitting {
			return m, nil
		}
		return m, poll()

	case singleDoneMsg, startedMsg, stoppedMsg:
		m.busy = false
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			if m.snap.Mode == types.CaptureModeContinuous {
				return m, tea.Sequence(m.stopCmd(), tea.Quit)
			}
			return m, tea.Quit

		case key.Matches(msg, keys.Single):
			if m.busy || m.snap.Mode != types.CaptureModeIdle {
				return m, nil
			}
			m.busy = true
			return m, m.singleCmd()

		case key.Matches(msg, keys.Toggle):
			if m.busy {
				return m, nil
			}
			if m.snap.Mode == types.CaptureModeContinuous {
				m.busy = true
				return m, m.stopCmd()
			}
			return m, m.startCmd()
		}
	}

	return m, nil
}

// View implements tea.Model.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("Capture Session"))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("%s %s\n",
		LabelStyle.Render("Session:"),
		ValueStyle.Render(m.snap.SessionID)))
	b.WriteString(fmt.Sprintf("%s %s\n",
		LabelStyle.Render("Mode:"),
		ModeStyle(m.snap.Mode).Render(string(m.snap.Mode))))
	b.WriteString(fmt.Sprintf("%s %s\n",
		LabelStyle.Render("Status:"),
		StatusStyle(m.snap.LastStatus).Render(m.snap.LastStatus)))
	b.WriteString("\n")

	boxes := []string{
		renderStatBox("Frames", fmt.Sprintf("%d", m.snap.FrameCount), highlightColor),
		renderStatBox("Skipped", fmt.Sprintf("%d", m.snap.Skipped), warningColor),
	}
	if m.stats != nil {
		boxes = append(boxes,
			renderStatBox("RGB + Depth", fmt.Sprintf("%d", m.stats.FramesFull), successColor),
			renderStatBox("RGB only", fmt.Sprintf("%d", m.stats.FramesColorOnly), warningColor),
			renderStatBox("Failed", fmt.Sprintf("%d", m.stats.FramesFailed), errorColor),
		)
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, boxes...))

	help := HelpStyle.Render(strings.Join([]string{
		helpText(keys.Single),
		helpText(keys.Toggle),
		helpText(keys.Quit),
	}, " • "))
	return BoxStyle.Render(b.String()) + "\n" + help
}

// Snapshot returns the last polled session state.
func (m SessionModel) Snapshot() types.CaptureSession {
	return m.snap
}

func (m *SessionModel) refresh() {
	m.snap = m.view.Controller.Session()
	if m.view.Metrics != nil {
		s := m.view.Metrics()
		m.stats = &s
	}
}

func (m SessionModel) ctx() context.Context {
	if m.view.Ctx != nil {
		return m.view.Ctx
	}
	return context.Background()
}

func (m SessionModel) singleCmd() tea.Cmd {
	ctrl, ctx := m.view.Controller, m.ctx()
	return func() tea.Msg {
		ctrl.CaptureSingle(ctx)
		return singleDoneMsg{}
	}
}

func (m SessionModel) startCmd() tea.Cmd {
	ctrl, ctx := m.view.Controller, m.ctx()
	return func() tea.Msg {
		ctrl.StartContinuous(ctx)
		return startedMsg{}
	}
}

func (m SessionModel) stopCmd() tea.Cmd {
	ctrl := m.view.Controller
	return func() tea.Msg {
		ctrl.StopContinuous()
		return stoppedMsg{}
	}
}

func poll() tea.Cmd {
	return tea.Tick(pollInterval, func(time.Time) tea.Msg {
		return pollMsg{}
	})
}

func helpText(b key.Binding) string {
	h := b.Help()
	return h.Key + " " + h.Desc
}

// RunSessionTUI runs the session TUI until the user quits.
// Continuous capture is stopped before returning.
func RunSessionTUI(view *SessionView) error {
	p := tea.NewProgram(NewSessionModel(view), tea.WithAltScreen())
	_, err := p.Run()
	view.Controller.StopContinuous()
	return err
}
