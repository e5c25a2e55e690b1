package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up         key.Binding
	down       key.Binding
	enter      key.Binding
	back       key.Binding
	toggle     key.Binding
	volumeUp   key.Binding
	volumeDown key.Binding
	queue      key.Binding
	like       key.Binding
	open       key.Binding
	search     key.Binding
	quit       key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "play")),
		back:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		toggle:     key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play/pause")),
		volumeUp:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "volume up")),
		volumeDown: key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "volume down")),
		queue:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "queue")),
		like:       key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "like")),
		open:       key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open in browser")),
		search:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.toggle, k.search, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter, k.back},
		{k.toggle, k.volumeUp, k.volumeDown},
		{k.queue, k.like, k.open},
		{k.search, k.quit},
	}
}
