package main

import (
	"fmt"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/commonsos/commons/internal/tui/theme"
	"github.com/spf13/cobra"
)

var stepsCmd = &cobra.Command{
	Use:   "steps",
	Short: "List the steps of the configured wizard",
	RunE:  runSteps,
}

func runSteps(cmd *cobra.Command, args []string) error {
	d, err := loadDescriptor()
	if err != nil {
		return err
	}
	steps, _, err := d.Build()
	if err != nil {
		return err
	}

	t := theme.Current()
	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(t.BorderDefault))).
		Headers("#", "ID", "TITLE", "STRATEGY", "REQUIRED").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Foreground(lipgloss.Color(t.Primary)).Bold(true).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})

	for i, step := range steps {
		tbl.Row(
			strconv.Itoa(i+1),
			step.ID,
			d.Steps[i].Title,
			step.Strategy.String(),
			strings.Join(step.RequiredFieldKeys, ", "),
		)
	}

	title := d.Title
	if title == "" {
		title = d.Name
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n", title, tbl.Render())
	return nil
}
