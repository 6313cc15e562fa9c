package theme

import "charm.land/lipgloss/v2"

// Styles contains the pre-built lipgloss styles for the wizard TUI.
type Styles struct {
	Title        lipgloss.Style
	Subtitle     lipgloss.Style
	StepActive   lipgloss.Style
	StepInactive lipgloss.Style
	Label        lipgloss.Style
	LabelFocused lipgloss.Style
	Value        lipgloss.Style
	Placeholder  lipgloss.Style
	Done         lipgloss.Style
	Error        lipgloss.Style
	HintKey      lipgloss.Style
	HintDesc     lipgloss.Style
	HintSep      lipgloss.Style
	Sidebar      lipgloss.Style
	Panel        lipgloss.Style
}

// buildStyles constructs the pre-built styles from theme colors.
func (t *Theme) buildStyles() *Styles {
	return &Styles{
		Title:        color(t.Primary).Bold(true),
		Subtitle:     color(t.FgSubtle),
		StepActive:   color(t.Primary).Bold(true),
		StepInactive: color(t.FgSubtle),
		Label:        color(t.FgBase),
		LabelFocused: color(t.BorderFocused).Bold(true),
		Value:        color(t.FgBright),
		Placeholder:  color(t.FgMuted).Italic(true),
		Done:         color(t.Success),
		Error:        color(t.Error).Bold(true),
		HintKey:      color(t.FgSubtle).Bold(true),
		HintDesc:     color(t.FgMuted),
		HintSep:      color(t.BorderDefault),
		Sidebar: lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(lipgloss.Color(t.BorderDefault)),
		Panel: lipgloss.NewStyle().
			Padding(0, 2),
	}
}
