package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the dashboard bindings. It satisfies help.KeyMap so the
// footer and the help overlay are generated from the bindings themselves.
type keyMap struct {
	Up           key.Binding
	Down         key.Binding
	PageUp       key.Binding
	PageDown     key.Binding
	HalfPageUp   key.Binding
	HalfPageDown key.Binding
	Top          key.Binding
	Bottom       key.Binding

	ToggleCompact key.Binding
	CycleTheme    key.Binding
	Help          key.Binding
	Quit          key.Binding
}

func bind(keys []string, label, desc string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(label, desc))
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Up:           bind([]string{"k", "up"}, "↑/k", "scroll up"),
		Down:         bind([]string{"j", "down"}, "↓/j", "scroll down"),
		PageUp:       bind([]string{"pgup", "b"}, "pgup/b", "page up"),
		PageDown:     bind([]string{"pgdown", " "}, "pgdn/space", "page down"),
		HalfPageUp:   bind([]string{"ctrl+u"}, "ctrl+u", "half page up"),
		HalfPageDown: bind([]string{"ctrl+d"}, "ctrl+d", "half page down"),
		Top:          bind([]string{"g", "home"}, "g", "first panel"),
		Bottom:       bind([]string{"G", "end"}, "G", "last panel"),

		ToggleCompact: bind([]string{"c"}, "c", "compact"),
		CycleTheme:    bind([]string{"T"}, "T", "theme"),
		Help:          bind([]string{"h", "?"}, "?", "help"),
		Quit:          bind([]string{"q", "ctrl+c"}, "q", "quit"),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Down, k.ToggleCompact, k.CycleTheme, k.Help}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown},
		{k.HalfPageUp, k.HalfPageDown, k.Top, k.Bottom},
		{k.ToggleCompact, k.CycleTheme, k.Help, k.Quit},
	}
}
