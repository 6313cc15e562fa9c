// Package config provides centralized configuration management using Viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/commonsos/commons/internal/logger"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration values for commons.
type Config struct {
	Wizard     string `mapstructure:"wizard" yaml:"wizard"`
	Descriptor string `mapstructure:"descriptor" yaml:"descriptor"`
	DataDir    string `mapstructure:"data_dir" yaml:"data_dir"`
	LogLevel   string `mapstructure:"log_level" yaml:"log_level"`
	LogFile    string `mapstructure:"log_file" yaml:"log_file"`
	StartStep  int    `mapstructure:"start_step" yaml:"start_step"`
	Theme      string `mapstructure:"theme" yaml:"theme"`
}

// envKeys maps each config key to its environment variable.
var envKeys = map[string]string{
	"wizard":     "COMMONS_WIZARD",
	"descriptor": "COMMONS_DESCRIPTOR",
	"data_dir":   "COMMONS_DATA_DIR",
	"log_level":  "COMMONS_LOG_LEVEL",
	"log_file":   "COMMONS_LOG_FILE",
	"start_step": "COMMONS_START_STEP",
	"theme":      "COMMONS_THEME",
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Wizard:   "proposal",
		DataDir:  ".commons",
		LogLevel: "info",
		Theme:    "catppuccin-mocha",
	}
}

// Load loads configuration with full precedence:
// CLI flags > ENV vars > project config > XDG global config > defaults
func Load() (*Config, error) {
	return LoadWith(viper.New())
}

// LoadWith loads configuration into v, which may already carry bound CLI
// flags.
func LoadWith(v *viper.Viper) (*Config, error) {
	v.SetConfigType("yaml")
	v.SetConfigName("commons")

	def := Default()
	v.SetDefault("wizard", def.Wizard)
	v.SetDefault("descriptor", "")
	v.SetDefault("data_dir", def.DataDir)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("log_file", "")
	v.SetDefault("start_step", 0)
	v.SetDefault("theme", def.Theme)

	v.SetEnvPrefix("COMMONS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for key, env := range envKeys {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding %s env: %w", key, err)
		}
	}

	globalPath := GlobalPath()
	if fileExists(globalPath) {
		v.SetConfigFile(globalPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading global config: %w", err)
		}
	}

	projectPath := ProjectPath()
	if fileExists(projectPath) {
		v.SetConfigFile(projectPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("merging project config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail later at startup.
func (c *Config) Validate() error {
	if c.Wizard == "" && c.Descriptor == "" {
		return fmt.Errorf("either wizard or descriptor must be set")
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if c.StartStep < 0 {
		return fmt.Errorf("start_step must not be negative, got %d", c.StartStep)
	}
	return nil
}

// Exists returns true if any config file exists (global or project).
func Exists() bool {
	return fileExists(GlobalPath()) || fileExists(ProjectPath())
}

// GlobalPath returns the XDG global config path.
// Returns ~/.config/commons/commons.yml or $XDG_CONFIG_HOME/commons/commons.yml.
func GlobalPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "commons", "commons.yml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "commons", "commons.yml")
}

// ProjectPath returns the project-local config path.
// Returns ./commons.yml in the current working directory.
func ProjectPath() string {
	return "commons.yml"
}

// WriteGlobal writes the config to the XDG global location.
func WriteGlobal(cfg *Config) error {
	path := GlobalPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return write(path, cfg)
}

// WriteProject writes the config to the project-local location.
func WriteProject(cfg *Config) error {
	return write(ProjectPath(), cfg)
}

func write(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// fileExists checks if a file exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
