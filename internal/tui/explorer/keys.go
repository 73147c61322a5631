package explorer

import "github.com/charmbracelet/bubbles/key"

// keyMap is the explorer's key bindings. It satisfies help.KeyMap.
type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Press     key.Binding
	Leave     key.Binding
	Multi     key.Binding
	Live      key.Binding
	Sticky    key.Binding
	Crosshair key.Binding
	Spotlight key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "pointer up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "pointer down")),
		Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "pointer left")),
		Right:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "pointer right")),
		Press:     key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "press/release")),
		Leave:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "leave chart")),
		Multi:     key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "multi tooltip")),
		Live:      key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "live tooltip")),
		Sticky:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sticky crosshair")),
		Crosshair: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "crosshair")),
		Spotlight: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "spotlight")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Press, k.Spotlight, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Press, k.Leave, k.Spotlight},
		{k.Multi, k.Live, k.Sticky, k.Crosshair},
		{k.Help, k.Quit},
	}
}
