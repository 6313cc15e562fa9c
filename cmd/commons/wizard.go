package main

import (
	"fmt"

	tuiwizard "github.com/commonsos/commons/internal/tui/wizard"
	"github.com/spf13/cobra"
)

var wizardFlags struct {
	export string
	state  string
	step   int
}

var wizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Fill in the wizard in the terminal",
	Long: `Open the configured wizard in a full-screen terminal UI.

The session is loaded from --state (default: <data_dir>/<wizard>.yaml) when
that file exists, and written to --export (default: the state path) when
you quit.`,
	RunE: runWizard,
}

func init() {
	wizardCmd.Flags().StringVarP(&wizardFlags.export, "export", "o", "", "Write the session here on exit (default: state path)")
	wizardCmd.Flags().StringVarP(&wizardFlags.state, "state", "s", "", "Session document to resume")
	wizardCmd.Flags().IntVar(&wizardFlags.step, "step", 0, "Step to open, 1-based (default: saved step or start_step)")
}

func runWizard(cmd *cobra.Command, args []string) error {
	s, err := openSession(wizardFlags.state)
	if err != nil {
		return err
	}

	if err := positionSession(s, wizardFlags.step, cfg.StartStep); err != nil {
		return err
	}

	if _, err := tuiwizard.Run(cmd.Context(), s.engine, s.desc, tuiwizard.WithUIState(docFS, cfg.DataDir)); err != nil {
		return err
	}

	target := wizardFlags.export
	if target == "" {
		target = s.statePath
	}
	if err := s.save(target); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Session written to: %s (%d%% complete)\n", target, s.engine.OverallCompletion())
	return nil
}

// positionSession moves the engine to the requested step. step is 1-based
// and wins when set; startStep is 0-based and only applies to new sessions.
func positionSession(s *session, step, startStep int) error {
	switch {
	case step > 0:
		if err := s.engine.GoTo(step - 1); err != nil {
			return fmt.Errorf("--step %d: %w", step, err)
		}
	case step < 0:
		return fmt.Errorf("--step must be positive, got %d", step)
	case !s.loaded && startStep > 0:
		if err := s.engine.GoTo(startStep); err != nil {
			return fmt.Errorf("start_step %d: %w", startStep, err)
		}
	}
	return nil
}
