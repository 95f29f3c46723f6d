package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up     key.Binding
	down   key.Binding
	submit key.Binding
	back   key.Binding
	sync   key.Binding
	lock   key.Binding
	quit   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "unlock")),
		back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear")),
		sync:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sync now")),
		lock:   key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "lock")),
		quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.submit},
		{k.back, k.sync, k.lock},
		{k.quit},
	}
}
