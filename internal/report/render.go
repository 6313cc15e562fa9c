package report

import (
	"bytes"
	"fmt"
	"strings"

	"charm.land/glamour/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/aymanbagabas/go-udiff"
	"github.com/commonsos/commons/internal/formdoc"
	"github.com/commonsos/commons/internal/logger"
)

// Render renders the markdown report for a terminal of the given width.
// Falls back to the raw markdown if glamour fails.
func (r Report) Render(width int) string {
	return renderMarkdown(r.Markdown(), width)
}

func renderMarkdown(content string, width int) string {
	if width <= 0 || width > 120 {
		width = 120
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		logger.Named("report").Warn("glamour renderer unavailable: %v", err)
		return content
	}

	rendered, err := renderer.Render(content)
	if err != nil {
		logger.Named("report").Warn("rendering markdown: %v", err)
		return content
	}
	return strings.TrimSuffix(rendered, "\n")
}

// Diff returns a unified diff of two documents, ignoring their ids. An empty
// string means the documents hold the same values and step.
func Diff(defaults, current *formdoc.Document) (string, error) {
	a, err := marshalForDiff(defaults)
	if err != nil {
		return "", err
	}
	b, err := marshalForDiff(current)
	if err != nil {
		return "", err
	}
	return udiff.Unified("defaults", "current", a, b), nil
}

func marshalForDiff(d *formdoc.Document) (string, error) {
	c := *d
	c.ID = ""
	data, err := formdoc.Marshal(&c)
	if err != nil {
		return "", fmt.Errorf("marshaling for diff: %w", err)
	}
	return string(data), nil
}

// HighlightYAML colors YAML for a 256-color terminal. It returns src
// unchanged if highlighting fails.
func HighlightYAML(src string) string {
	lexer := lexers.Get("yaml")
	if lexer == nil {
		lexer = lexers.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		return src
	}

	style := styles.Get("catppuccin-mocha")
	if style == nil {
		style = styles.Fallback
	}

	iterator, err := lexer.Tokenise(nil, src)
	if err != nil {
		return src
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return src
	}
	return buf.String()
}
