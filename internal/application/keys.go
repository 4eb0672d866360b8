package application

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Toggle key.Binding
	Reset  key.Binding
	Faster key.Binding
	Slower key.Binding
	Up     key.Binding
	Down   key.Binding
	Add    key.Binding
	Delete key.Binding
	Import key.Binding
	Write  key.Binding
	Metric key.Binding
	Menu   key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Toggle: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play/pause")),
		Reset:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Faster: key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "faster")),
		Slower: key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "slower")),
		Up:     key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "select up")),
		Down:   key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "select down")),
		Add:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add row")),
		Delete: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete row")),
		Import: key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "import")),
		Write:  key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "write csv")),
		Metric: key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "metric")),
		Menu:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "menu")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Reset, k.Faster, k.Slower, k.Menu, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Reset, k.Faster, k.Slower},
		{k.Up, k.Down, k.Add, k.Delete},
		{k.Import, k.Write, k.Metric, k.Menu},
		{k.Help, k.Quit},
	}
}
