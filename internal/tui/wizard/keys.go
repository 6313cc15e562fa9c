package wizard

import "charm.land/bubbles/v2/key"

// keyMap holds the bindings of the wizard host.
type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Edit   key.Binding
	Toggle key.Binding
	Append key.Binding
	Remove key.Binding
	Editor key.Binding
	Next   key.Binding
	Prev   key.Binding
	Panel  key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑↓", "move")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↑↓", "move")),
		Edit:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "edit")),
		Toggle: key.NewBinding(key.WithKeys("space", " "), key.WithHelp("space", "toggle")),
		Append: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add item")),
		Remove: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "remove last")),
		Editor: key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "$EDITOR")),
		Next:   key.NewBinding(key.WithKeys("tab", "right", "]"), key.WithHelp("tab", "next step")),
		Prev:   key.NewBinding(key.WithKeys("shift+tab", "left", "["), key.WithHelp("shift+tab", "prev step")),
		Panel:  key.NewBinding(key.WithKeys("ctrl+b"), key.WithHelp("ctrl+b", "steps")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "hints")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// hints returns the key/description pairs shown in the hint bar.
func (k keyMap) hints(editing bool) []key.Binding {
	if editing {
		return []key.Binding{
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
			key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		}
	}
	return []key.Binding{k.Up, k.Edit, k.Toggle, k.Append, k.Remove, k.Editor, k.Next, k.Prev, k.Panel, k.Help, k.Quit}
}
