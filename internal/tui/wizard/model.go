// Package wizard is the terminal host for a wizard engine: it draws the
// steps of a descriptor and maps key presses onto engine operations.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/commonsos/commons/internal/descriptor"
	"github.com/commonsos/commons/internal/logger"
	"github.com/commonsos/commons/internal/state"
	"github.com/commonsos/commons/internal/tui/theme"
	wiz "github.com/commonsos/commons/internal/wizard"
	"github.com/spf13/afero"
)

// Model is the BubbleTea model hosting one engine.
type Model struct {
	engine *wiz.Engine
	desc   *descriptor.Descriptor
	keys   keyMap
	log    *logger.Logger

	rows    []row
	cursor  int
	editing bool
	input   textinput.Model
	status  string // last error or notice, cleared on the next key

	prefs   *state.UIState
	prefsFS afero.Fs // nil keeps preferences in memory
	dataDir string

	width  int
	height int
}

// Option configures a Model.
type Option func(*Model)

// WithUIState loads UI preferences from dataDir on fs and saves them there
// whenever they change.
func WithUIState(fs afero.Fs, dataDir string) Option {
	return func(m *Model) {
		m.prefsFS = fs
		m.dataDir = dataDir
		m.prefs = state.Load(fs, dataDir)
	}
}

// New creates a host for e, laid out by d. e must have been built from d.
func New(e *wiz.Engine, d *descriptor.Descriptor, opts ...Option) *Model {
	t := theme.Current()
	input := textinput.New()
	input.Prompt = ""
	input.SetStyles(textinput.Styles{
		Focused: textinput.StyleState{
			Text:        lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgBase)),
			Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgMuted)),
			Prompt:      lipgloss.NewStyle().Foreground(lipgloss.Color(t.BorderFocused)),
		},
		Blurred: textinput.StyleState{
			Text:        lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgSubtle)),
			Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgMuted)),
			Prompt:      lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgMuted)),
		},
		Cursor: textinput.CursorStyle{
			Color: lipgloss.Color(t.Primary),
			Shape: tea.CursorBar,
			Blink: true,
		},
	})
	input.SetWidth(50)

	m := &Model{
		engine: e,
		desc:   d,
		keys:   defaultKeyMap(),
		log:    logger.Named("tui"),
		input:  input,
		prefs:  state.DefaultUIState(),
		width:  100,
		height: 30,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.refresh()
	return m
}

// Run starts a standalone program for e and returns the engine once the user
// quits.
func Run(ctx context.Context, e *wiz.Engine, d *descriptor.Descriptor, opts ...Option) (*wiz.Engine, error) {
	m := New(e, d, opts...)
	p := tea.NewProgram(m, tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return e, fmt.Errorf("wizard failed: %w", err)
	}
	return e, nil
}

// Engine returns the hosted engine.
func (m *Model) Engine() *wiz.Engine {
	return m.engine
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// refresh rebuilds the rows of the current step and clamps the cursor.
func (m *Model) refresh() {
	m.rows = buildRows(m.engine, m.desc, m.engine.Current())
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// focused returns the row under the cursor.
func (m *Model) focused() (row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return row{}, false
	}
	return m.rows[m.cursor], true
}

// Update handles messages for the host.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case editedMsg:
		m.commit(msg.row, msg.content)
		return m, nil

	case editorErrMsg:
		m.status = msg.err.Error()
		return m, nil

	case tea.KeyPressMsg:
		if m.editing {
			return m, m.updateEditing(msg)
		}
		return m, m.handleKey(msg)
	}

	if m.editing {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) updateEditing(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c":
		return tea.Quit
	case "esc":
		m.stopEditing()
		return nil
	case "enter":
		if r, ok := m.focused(); ok {
			m.commit(r, m.input.Value())
		}
		m.stopEditing()
		return nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *Model) stopEditing() {
	m.editing = false
	m.input.Blur()
	m.input.SetValue("")
}

func (m *Model) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	m.status = ""
	r, hasRow := m.focused()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Next):
		if m.engine.Next() {
			m.cursor = 0
			m.refresh()
		}

	case key.Matches(msg, m.keys.Prev):
		if m.engine.Prev() {
			m.cursor = 0
			m.refresh()
		}

	case key.Matches(msg, m.keys.Panel):
		m.prefs.Sidebar.Visible = !m.prefs.Sidebar.Visible
		m.savePrefs()

	case key.Matches(msg, m.keys.Help):
		m.prefs.Hints.Visible = !m.prefs.Hints.Visible
		m.savePrefs()

	case key.Matches(msg, m.keys.Toggle):
		if hasRow {
			m.toggle(r)
		}

	case key.Matches(msg, m.keys.Edit):
		if !hasRow {
			return nil
		}
		if r.editable() {
			value, _ := r.value(m.engine)
			m.editing = true
			m.input.Placeholder = m.placeholder(r)
			m.input.SetValue(value)
			m.input.CursorEnd()
			return m.input.Focus()
		}
		m.toggle(r)

	case key.Matches(msg, m.keys.Append):
		if hasRow && (r.kind == rowList || r.kind == rowItem) {
			m.report(m.engine.AppendListItem(r.key, m.desc.Fields[r.key].EmptyRecord()))
			m.refresh()
		}

	case key.Matches(msg, m.keys.Remove):
		if hasRow && (r.kind == rowList || r.kind == rowItem) {
			m.report(m.engine.RemoveLastListItem(r.key))
			m.refresh()
		}

	case key.Matches(msg, m.keys.Editor):
		if hasRow && r.editable() {
			value, _ := r.value(m.engine)
			return openEditor(r, value)
		}

	default:
		if n, err := strconv.Atoi(msg.String()); err == nil && n >= 1 && n <= 9 {
			if m.engine.GoTo(n-1) == nil {
				m.cursor = 0
				m.refresh()
			}
		}
	}
	return nil
}

func (m *Model) savePrefs() {
	if m.prefsFS == nil {
		return
	}
	if err := state.Save(m.prefsFS, m.dataDir, m.prefs); err != nil {
		m.log.Warn("failed to save UI state: %v", err)
	}
}

func (m *Model) toggle(r row) {
	switch r.kind {
	case rowFlag:
		v, _ := m.engine.Field(r.key)
		b, _ := v.(bool)
		m.report(m.engine.SetField(r.key, !b))
	case rowCheck:
		m.report(m.engine.ToggleCheck(r.key, r.sub))
	}
}

// commit writes text into the field behind r.
func (m *Model) commit(r row, value string) {
	switch r.kind {
	case rowText:
		m.report(m.engine.SetField(r.key, value))
	case rowItem:
		m.report(m.engine.UpdateListItem(r.key, r.index, r.sub, value))
	}
}

func (m *Model) report(err error) {
	if err != nil {
		m.log.Warn("%v", err)
		m.status = err.Error()
	}
}

func (m *Model) placeholder(r row) string {
	if r.kind == rowText {
		return m.desc.Fields[r.key].Placeholder
	}
	return r.sub
}
