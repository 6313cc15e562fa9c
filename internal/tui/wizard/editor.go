package wizard

import (
	"fmt"
	"os"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/editor"
)

// editedMsg is sent when the external editor returns with new content.
type editedMsg struct {
	row     row
	content string
}

// editorErrMsg reports an editor that could not be started or read back.
type editorErrMsg struct {
	err error
}

// openEditor launches $EDITOR on a temp file holding value.
func openEditor(r row, value string) tea.Cmd {
	tmpfile, err := os.CreateTemp("", "commons_field_*.md")
	if err != nil {
		return errCmd(fmt.Errorf("creating temp file: %w", err))
	}
	if _, err := tmpfile.WriteString(value); err != nil {
		_ = tmpfile.Close()
		_ = os.Remove(tmpfile.Name())
		return errCmd(fmt.Errorf("writing temp file: %w", err))
	}
	_ = tmpfile.Close()

	cmd, err := editor.Command("commons", tmpfile.Name())
	if err != nil {
		_ = os.Remove(tmpfile.Name())
		return errCmd(fmt.Errorf("starting editor: %w", err))
	}

	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		defer func() { _ = os.Remove(tmpfile.Name()) }()
		if err != nil {
			return editorErrMsg{err: fmt.Errorf("editor: %w", err)}
		}
		content, err := os.ReadFile(tmpfile.Name())
		if err != nil {
			return editorErrMsg{err: fmt.Errorf("reading edited field: %w", err)}
		}
		// Editors append a final newline.
		return editedMsg{row: r, content: strings.TrimSuffix(string(content), "\n")}
	})
}

func errCmd(err error) tea.Cmd {
	return func() tea.Msg { return editorErrMsg{err: err} }
}
