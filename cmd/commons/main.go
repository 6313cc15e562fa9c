package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/commonsos/commons/internal/catalog"
	"github.com/commonsos/commons/internal/config"
	"github.com/commonsos/commons/internal/logger"
	"github.com/commonsos/commons/internal/tui/theme"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	logoText1 = "█▀▀ █▀█ █▀▄▀█ █▀▄▀█ █▀█ █▄ █ █▀"
	logoText2 = "█▄▄ █▄█ █ ▀ █ █ ▀ █ █▄█ █ ▀█ ▄█"
)

// Version set via ldflags during build
var version = "dev"

// cfg is the configuration resolved before any command runs.
var cfg = config.Default()

var rootFlags struct {
	wizard     string
	descriptor string
	logLevel   string
}

func main() {
	// Ensure logger is closed on exit
	defer func() { _ = logger.Close() }()

	if err := fang.Execute(context.Background(), rootCmd, fang.WithVersion(version)); err != nil {
		logger.Error("Command execution failed: %v", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:               "commons",
	Short:             "Fill in multi-step forms and track how complete they are",
	PersistentPreRunE: loadConfig,
	SilenceUsage:      true,
}

// renderLogo creates the logo with gradient colors
func renderLogo() string {
	t := theme.NewCatppuccinMocha()
	line1 := theme.ApplyGradient(logoText1, t.Primary, t.Secondary)
	line2 := theme.ApplyGradient(logoText2, t.Primary, t.Secondary)
	return strings.Join([]string{line1, line2}, "\n")
}

func init() {
	// Set Long description with logo
	rootCmd.Long = renderLogo() + `

commons walks you through a multi-step form (a proposal, a component
inventory, or any wizard described in YAML) and reports how far along
you are: which step you are on, and how complete each step's content is.

Built-in wizards: ` + strings.Join(catalog.Names(), ", ")

	rootCmd.PersistentFlags().StringVarP(&rootFlags.wizard, "wizard", "w", "", "Built-in wizard name (default: proposal)")
	rootCmd.PersistentFlags().StringVarP(&rootFlags.descriptor, "descriptor", "d", "", "Path to a wizard descriptor YAML (overrides --wizard)")
	rootCmd.PersistentFlags().StringVar(&rootFlags.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(wizardCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(stepsCmd)
	rootCmd.AddCommand(setupCmd)
}

// loadConfig resolves configuration with flags bound over env and files,
// then applies logging and theme settings.
func loadConfig(cmd *cobra.Command, args []string) error {
	v := viper.New()
	flags := cmd.Root().PersistentFlags()
	for key, name := range map[string]string{
		"wizard":     "wizard",
		"descriptor": "descriptor",
		"log_level":  "log-level",
	} {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return fmt.Errorf("binding --%s: %w", name, err)
		}
	}

	loaded, err := config.LoadWith(v)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg = loaded

	if err := logger.Configure(cfg.LogLevel, cfg.LogFile); err != nil {
		return fmt.Errorf("configuring logger: %w", err)
	}
	if err := theme.Set(cfg.Theme); err != nil {
		logger.Warn("%v, using %s", err, theme.Current().Name)
	}
	logger.Debug("config: wizard=%q descriptor=%q data_dir=%q", cfg.Wizard, cfg.Descriptor, cfg.DataDir)
	return nil
}
