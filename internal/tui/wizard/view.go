package wizard

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/commonsos/commons/internal/report"
	"github.com/commonsos/commons/internal/tui/theme"
)

const sidebarWidth = 28

// View renders the host.
func (m *Model) View() tea.View {
	var view tea.View
	view.AltScreen = true

	canvas := uv.NewScreenBuffer(m.width, m.height)
	uv.NewStyledString(m.render()).Draw(canvas, uv.Rectangle{
		Min: uv.Position{X: 0, Y: 0},
		Max: uv.Position{X: m.width, Y: m.height},
	})

	view.Content = lipgloss.NewLayer(canvas.Render())
	return view
}

// render lays out header, step list, current step and footer.
func (m *Model) render() string {
	t := theme.Current()
	header := theme.ApplyGradient(m.title(), t.Primary, t.Secondary)
	body := m.renderStep()
	if m.prefs.Sidebar.Visible {
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), body)
	}
	return strings.Join([]string{header, "", body, "", m.renderFooter()}, "\n")
}

func (m *Model) title() string {
	if m.desc.Title != "" {
		return m.desc.Title
	}
	return m.desc.Name
}

func (m *Model) renderSidebar() string {
	s := theme.Current().S()
	var lines []string
	for i, res := range m.engine.Completions() {
		name := res.StepID
		if i < len(m.desc.Steps) {
			name = m.desc.Steps[i].Title
		}
		line := fmt.Sprintf("%d %-18s %3d%%", i+1, truncate(name, 18), res.Percent)
		switch {
		case i == m.engine.Current():
			line = s.StepActive.Render("▸ " + line)
		case res.Percent == 100:
			line = s.Done.Render("  " + line)
		default:
			line = s.StepInactive.Render("  " + line)
		}
		lines = append(lines, line)
	}
	return s.Sidebar.Width(sidebarWidth + 4).Render(strings.Join(lines, "\n"))
}

func (m *Model) renderStep() string {
	s := theme.Current().S()
	i := m.engine.Current()
	var b strings.Builder

	if i < len(m.desc.Steps) {
		step := m.desc.Steps[i]
		b.WriteString(s.Title.Render(step.Title))
		b.WriteString("\n")
		if step.Description != "" {
			b.WriteString(s.Subtitle.Render(step.Description))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(m.rows) == 0 {
		b.WriteString(s.Placeholder.Render("nothing to fill in on this step"))
	}
	for idx, r := range m.rows {
		b.WriteString(m.renderRow(r, idx == m.cursor))
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(s.Error.Render(m.status))
	}
	return s.Panel.Render(b.String())
}

func (m *Model) renderRow(r row, focused bool) string {
	s := theme.Current().S()
	cursor := "  "
	labelStyle := s.Label
	if focused {
		cursor = "› "
		labelStyle = s.LabelFocused
	}

	switch r.kind {
	case rowList:
		return cursor + labelStyle.Render(r.label)
	case rowFlag, rowCheck:
		mark, on := r.value(m.engine)
		markStyle := s.Placeholder
		if on {
			markStyle = s.Done
		}
		return cursor + markStyle.Render(mark) + " " + labelStyle.Render(r.label)
	}

	label := labelStyle.Render(r.label + ":")
	if r.kind == rowItem {
		label = "  " + label
	}
	if focused && m.editing {
		return cursor + label + " " + m.input.View()
	}
	value, set := r.value(m.engine)
	if !set {
		return cursor + label + " " + s.Placeholder.Render(m.placeholder(r))
	}
	return cursor + label + " " + s.Value.Render(firstLine(value))
}

func (m *Model) renderFooter() string {
	s := theme.Current().S()
	progress := fmt.Sprintf("step %d of %d %s %d%%  ·  content %d%%",
		m.engine.Current()+1, m.engine.StepCount(),
		report.Bar(m.engine.OverallProgress(), 20), m.engine.OverallProgress(),
		m.engine.OverallCompletion())
	footer := s.Subtitle.Render(progress)
	if m.prefs.Hints.Visible || m.editing {
		footer += "\n" + renderHintBar(m.keys.hints(m.editing))
	}
	return footer
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " …"
	}
	return s
}
