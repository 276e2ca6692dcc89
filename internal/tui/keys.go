// SPDX-License-Identifier: MIT
package tui

import "github.com/charmbracelet/bubbles/key"

// analyzerKeys are the bindings of the live view.
type analyzerKeys struct {
	Pause key.Binding
	Left  key.Binding
	Right key.Binding
	Clear key.Binding
	Help  key.Binding
	Quit  key.Binding
}

func newAnalyzerKeys() analyzerKeys {
	return analyzerKeys{
		Pause: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pause")),
		Left:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/→", "move cursor")),
		Right: key.NewBinding(key.WithKeys("right", "l")),
		Clear: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "follow peak")),
		Help:  key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:  key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q/esc", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k analyzerKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.Left, k.Clear, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k analyzerKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Pause, k.Clear},
		{k.Left, k.Help, k.Quit},
	}
}
