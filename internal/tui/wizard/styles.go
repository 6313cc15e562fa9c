package wizard

import (
	"strings"

	"charm.land/bubbles/v2/key"
	"github.com/commonsos/commons/internal/tui/theme"
)

// renderHintBar renders bindings as "key desc • key desc".
// Bindings sharing a help key are shown once.
func renderHintBar(bindings []key.Binding) string {
	s := theme.Current().S()
	seen := make(map[string]bool)
	var parts []string
	for _, b := range bindings {
		h := b.Help()
		if h.Key == "" || seen[h.Key] {
			continue
		}
		seen[h.Key] = true
		parts = append(parts, s.HintKey.Render(h.Key)+" "+s.HintDesc.Render(h.Desc))
	}
	return strings.Join(parts, " "+s.HintSep.Render("•")+" ")
}
