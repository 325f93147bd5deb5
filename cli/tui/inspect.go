package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/justapithecus/depthcap/cli/reader"
)

// InspectModel is a Bubble Tea model for inspect views.
type InspectModel struct {
	viewType string
	data     any
	width    int
	height   int
	quitting bool
}

// NewInspectModel creates a new inspect model.
func NewInspectModel(viewType string, data any) InspectModel {
	return InspectModel{
		viewType: viewType,
		data:     data,
	}
}

// Init implements tea.Model.
func (m InspectModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m InspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
	}

	return m, nil
}

// View implements tea.Model.
func (m InspectModel) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.viewType {
	case ViewInspectDepth:
		content = m.renderInspectDepth()
	default:
		content = fmt.Sprintf("Unknown view type: %s", m.viewType)
	}

	help := HelpStyle.Render("Press q or Ctrl+C to quit")
	return content + "\n" + help
}

func (m InspectModel) renderInspectDepth() string {
	data, ok := m.data.(*reader.InspectDepthResponse)
	if !ok {
		return "Invalid data type for inspect_depth"
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("Depth Table"))
	b.WriteString("\n\n")

	rows := [][]string{
		{"Source", data.Source},
		{"Size", fmt.Sprintf("%d x %d", data.Width, data.Height)},
		{"Cells", fmt.Sprintf("%d", data.Cells)},
		{"Coverage", fmt.Sprintf("%.1f%%", data.Coverage*100)},
	}
	for _, row := range rows {
		b.WriteString(fmt.Sprintf("%s %s\n",
			LabelStyle.Render(row[0]+":"),
			ValueStyle.Render(row[1])))
	}
	b.WriteString("\n")

	boxes := []string{
		renderStatBox("Min (m)", fmt.Sprintf("%.3f", data.Min), highlightColor),
		renderStatBox("Mean (m)", fmt.Sprintf("%.3f", data.Mean), successColor),
		renderStatBox("Max (m)", fmt.Sprintf("%.3f", data.Max), highlightColor),
		renderStatBox("Std dev", fmt.Sprintf("%.3f", data.StdDev), mutedColor),
	}
	if data.Invalid > 0 {
		boxes = append(boxes, renderStatBox("No depth", fmt.Sprintf("%d", data.Invalid), warningColor))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, boxes...))

	return BoxStyle.Render(b.String())
}

// renderStatBox renders a bordered value over a label.
func renderStatBox(label, value string, color lipgloss.Color) string {
	boxStyle := StatBoxStyle.BorderForeground(color)

	valueStr := StatValueStyle.Foreground(color).Render(value)
	labelStr := StatLabelStyle.Render(label)

	content := lipgloss.JoinVertical(lipgloss.Center, valueStr, labelStr)

	return boxStyle.Render(content)
}

// RunInspectTUI runs the inspect TUI.
func RunInspectTUI(viewType string, data any) error {
	model := NewInspectModel(viewType, data)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// RenderInspectStatic renders inspect data without full TUI (for fallback).
func RenderInspectStatic(viewType string, data any) string {
	model := NewInspectModel(viewType, data)
	model.width = 80
	model.height = 24
	return lipgloss.NewStyle().Padding(1, 2).Render(model.View())
}
