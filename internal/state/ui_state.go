// Package state persists UI preferences of the wizard host across runs.
package state

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/commonsos/commons/internal/logger"
	"github.com/spf13/afero"
)

// FileName is the preferences file inside the data directory.
const FileName = "ui-state.json"

// UIState holds persistent UI preferences that carry across sessions.
type UIState struct {
	Sidebar SidebarState `json:"sidebar"`
	Hints   HintsState   `json:"hints"`
}

// SidebarState holds step list visibility preference.
type SidebarState struct {
	Visible bool `json:"visible"`
}

// HintsState holds key hint bar visibility preference.
type HintsState struct {
	Visible bool `json:"visible"`
}

// DefaultUIState returns the default UI state with sensible defaults.
func DefaultUIState() *UIState {
	return &UIState{
		Sidebar: SidebarState{Visible: true},
		Hints:   HintsState{Visible: true},
	}
}

// Load reads the UI state from <dataDir>/ui-state.json.
// Returns default state if the file doesn't exist or on error.
func Load(fs afero.Fs, dataDir string) *UIState {
	path := filepath.Join(dataDir, FileName)

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if exists, _ := afero.Exists(fs, path); exists {
			logger.Warn("Failed to read UI state file: %v", err)
		}
		return DefaultUIState()
	}

	// Missing keys keep their defaults
	s := DefaultUIState()
	if err := json.Unmarshal(data, s); err != nil {
		logger.Warn("Failed to parse UI state JSON: %v", err)
		return DefaultUIState()
	}
	return s
}

// Save writes the UI state to <dataDir>/ui-state.json.
// Creates the data directory if it doesn't exist.
func Save(fs afero.Fs, dataDir string, s *UIState) error {
	if err := fs.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	path := filepath.Join(dataDir, FileName)
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling UI state: %w", err)
	}
	if err := afero.WriteFile(fs, path, data, 0644); err != nil {
		return fmt.Errorf("writing UI state file: %w", err)
	}

	logger.Debug("UI state saved to %s", path)
	return nil
}
