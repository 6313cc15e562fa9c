package main

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/commonsos/commons/internal/config"
	"github.com/commonsos/commons/internal/tui/theme"
	"github.com/spf13/cobra"
)

var setupFlags struct {
	global  bool
	force   bool
	theme   string
	dataDir string
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Pin the wizard this directory fills in",
	Long: `Write a commons.yml that pins the wizard (--wizard or --descriptor),
where its sessions are kept and which theme the form uses.

The wizard is loaded before anything is written, so a typo in a name or a
broken descriptor is reported here rather than on the next run. Use --global
to write the defaults for every directory instead (~/.config/commons).`,
	Example: `  commons setup --wizard inventory
  commons setup --descriptor forms/intake.yaml --data-dir .forms
  commons setup --global --theme catppuccin-latte`,
	RunE: runSetup,
}

func init() {
	setupCmd.Flags().BoolVarP(&setupFlags.global, "global", "g", false, "Write the user-wide config instead of ./commons.yml")
	setupCmd.Flags().BoolVarP(&setupFlags.force, "force", "f", false, "Replace an existing config")
	setupCmd.Flags().StringVar(&setupFlags.theme, "theme", "", "Form theme: "+strings.Join(theme.Names(), ", "))
	setupCmd.Flags().StringVar(&setupFlags.dataDir, "data-dir", "", "Directory for saved sessions")
}

func runSetup(cmd *cobra.Command, args []string) error {
	targetPath, write := config.ProjectPath(), config.WriteProject
	if setupFlags.global {
		targetPath, write = config.GlobalPath(), config.WriteGlobal
	}
	if _, err := os.Stat(targetPath); err == nil && !setupFlags.force {
		return fmt.Errorf("%s already exists, use --force to replace it", targetPath)
	}

	d, err := loadDescriptor()
	if err != nil {
		return err
	}

	out := config.Default()
	out.Wizard = cfg.Wizard
	out.Descriptor = cfg.Descriptor
	out.DataDir = cfg.DataDir
	out.Theme = cfg.Theme
	if setupFlags.dataDir != "" {
		out.DataDir = setupFlags.dataDir
	}
	if setupFlags.theme != "" {
		if !slices.Contains(theme.Names(), setupFlags.theme) {
			return fmt.Errorf("unknown theme %q (have %s)", setupFlags.theme, strings.Join(theme.Names(), ", "))
		}
		out.Theme = setupFlags.theme
	}
	if err := out.Validate(); err != nil {
		return err
	}
	if err := write(out); err != nil {
		return fmt.Errorf("writing %s: %w", targetPath, err)
	}

	title := d.Title
	if title == "" {
		title = d.Name
	}
	w := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(w, "%s: %s, %d steps\n", targetPath, title, len(d.Steps))
	_, _ = fmt.Fprintf(w, "Sessions are kept in %s. Run 'commons wizard' to start.\n", out.DataDir)
	return nil
}
