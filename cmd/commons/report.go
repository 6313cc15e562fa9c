package main

import (
	"fmt"

	"github.com/commonsos/commons/internal/formdoc"
	"github.com/commonsos/commons/internal/report"
	"github.com/spf13/cobra"
)

var reportFlags struct {
	state    string
	markdown bool
	diff     bool
	width    int
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show how complete a session is",
	Long: `Print per-step completion, position progress and overall content
completion of a saved session (default: <data_dir>/<wizard>.yaml, or the
wizard's defaults when no session exists).`,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVarP(&reportFlags.state, "state", "s", "", "Session document to report on")
	reportCmd.Flags().BoolVar(&reportFlags.markdown, "markdown", false, "Print raw markdown instead of rendering it")
	reportCmd.Flags().BoolVar(&reportFlags.diff, "diff", false, "Print a diff of the session against the wizard's defaults")
	reportCmd.Flags().IntVar(&reportFlags.width, "width", 80, "Render width")
}

func runReport(cmd *cobra.Command, args []string) error {
	s, err := openSession(reportFlags.state)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if reportFlags.diff {
		fresh, err := s.desc.NewEngine()
		if err != nil {
			return fmt.Errorf("building engine: %w", err)
		}
		diff, err := report.Diff(formdoc.Capture(fresh, s.desc.Name), formdoc.Capture(s.engine, s.desc.Name))
		if err != nil {
			return err
		}
		if diff == "" {
			_, _ = fmt.Fprintln(out, "No changes from defaults.")
			return nil
		}
		_, _ = fmt.Fprint(out, diff)
		return nil
	}

	r := report.Build(s.engine, s.desc)
	if reportFlags.markdown {
		_, _ = fmt.Fprint(out, r.Markdown())
		return nil
	}
	_, _ = fmt.Fprintln(out, r.Render(reportFlags.width))
	return nil
}
