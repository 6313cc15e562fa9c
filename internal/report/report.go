// Package report renders the completion of a wizard session for the
// terminal: per-step percentages, position progress and content completion.
package report

import (
	"fmt"
	"strings"

	"github.com/commonsos/commons/internal/descriptor"
	"github.com/commonsos/commons/internal/wizard"
)

// Row is the completion of one step.
type Row struct {
	Index    int
	StepID   string
	Title    string
	Strategy string
	Percent  int
	Current  bool
}

// Report is a point-in-time view of an engine.
type Report struct {
	Wizard     string
	Title      string
	Rows       []Row
	Current    int
	Position   int // position progress
	Completion int // mean step completion
}

// Build reads completions from e. d supplies titles; it may be nil.
func Build(e *wizard.Engine, d *descriptor.Descriptor) Report {
	r := Report{
		Current:    e.Current(),
		Position:   e.OverallProgress(),
		Completion: e.OverallCompletion(),
	}
	if d != nil {
		r.Wizard = d.Name
		r.Title = d.Title
	}

	for i, res := range e.Completions() {
		step, _ := e.Step(i)
		title := res.StepID
		if d != nil && i < len(d.Steps) {
			title = d.Steps[i].Title
		}
		r.Rows = append(r.Rows, Row{
			Index:    i,
			StepID:   res.StepID,
			Title:    title,
			Strategy: step.Strategy.String(),
			Percent:  res.Percent,
			Current:  i == e.Current(),
		})
	}
	return r
}

// Bar draws percent as a fixed-width bar of full and empty cells.
func Bar(percent, width int) string {
	if width <= 0 {
		return ""
	}
	percent = max(0, min(100, percent))
	filled := percent * width / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// Markdown renders the report as a markdown document.
func (r Report) Markdown() string {
	var b strings.Builder

	title := r.Title
	if title == "" {
		title = r.Wizard
	}
	if title != "" {
		fmt.Fprintf(&b, "# %s\n\n", title)
	}

	fmt.Fprintf(&b, "- **Position:** step %d of %d (%d%%)\n", r.Current+1, len(r.Rows), r.Position)
	fmt.Fprintf(&b, "- **Content:** %d%% complete\n\n", r.Completion)

	b.WriteString("| # | Step | Strategy | Completion |\n")
	b.WriteString("|---|------|----------|------------|\n")
	for _, row := range r.Rows {
		marker := ""
		if row.Current {
			marker = " ◀"
		}
		fmt.Fprintf(&b, "| %d | %s%s | `%s` | %s %d%% |\n",
			row.Index+1, row.Title, marker, row.Strategy, Bar(row.Percent, 10), row.Percent)
	}
	return b.String()
}
