package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit      key.Binding
	Generate  key.Binding
	NextFocus key.Binding
	PrevFocus key.Binding
	ToneLeft  key.Binding
	ToneRight key.Binding
	ToneCycle key.Binding
	CopyEmail key.Binding
	CopyDay3  key.Binding
	CopyDay7  key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("esc", "ctrl+c"),
		key.WithHelp("esc", "quit"),
	),
	Generate: key.NewBinding(
		key.WithKeys("ctrl+g"),
		key.WithHelp("ctrl+g", "generate"),
	),
	NextFocus: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next pane"),
	),
	PrevFocus: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "previous pane"),
	),
	ToneLeft: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/→", "tone"),
	),
	ToneRight: key.NewBinding(
		key.WithKeys("right", "l"),
	),
	ToneCycle: key.NewBinding(
		key.WithKeys("ctrl+t"),
		key.WithHelp("ctrl+t", "cycle tone"),
	),
	CopyEmail: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "copy email"),
	),
	CopyDay3: key.NewBinding(
		key.WithKeys("3"),
		key.WithHelp("3", "copy day 3"),
	),
	CopyDay7: key.NewBinding(
		key.WithKeys("7"),
		key.WithHelp("7", "copy day 7"),
	),
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Generate, k.NextFocus, k.ToneCycle, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Generate, k.NextFocus, k.PrevFocus},
		{k.ToneLeft, k.ToneCycle},
		{k.CopyEmail, k.CopyDay3, k.CopyDay7},
		{k.Quit},
	}
}

// resultKeys are shown while the result pane has focus.
func (k keyMap) resultKeys() []key.Binding {
	return []key.Binding{k.ToneLeft, k.CopyEmail, k.CopyDay3, k.CopyDay7, k.Generate, k.NextFocus}
}
