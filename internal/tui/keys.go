package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Tab       key.Binding
	Quit      key.Binding
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Enter     key.Binding
	Clear     key.Binding
	Mark      key.Binding
	PrevDay   key.Binding
	NextDay   key.Binding
	Today     key.Binding
	Todo      key.Binding
	Rate      key.Binding
	Review    key.Binding
	User      key.Binding
	Add       key.Binding
	Delete    key.Binding
	Reset     key.Binding
	Font      key.Binding
	Theme     key.Binding
	Jump      key.Binding
	PrevMonth key.Binding
	NextMonth key.Binding
	Back      key.Binding
	Help      key.Binding
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Enter, k.Mark, k.Quit, k.Help}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Enter, k.Clear, k.Mark},
		{k.PrevDay, k.NextDay, k.Today, k.Jump, k.PrevMonth, k.NextMonth},
		{k.Todo, k.Rate, k.Review, k.Reset},
		{k.User, k.Add, k.Delete, k.Font, k.Theme},
		{k.Tab, k.Back, k.Help, k.Quit},
	}
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next view"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "right"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "edit/select"),
		),
		Clear: key.NewBinding(
			key.WithKeys("x", "delete"),
			key.WithHelp("x", "clear slot"),
		),
		Mark: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "mark range"),
		),
		PrevDay: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "prev day"),
		),
		NextDay: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next day"),
		),
		Today: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "today"),
		),
		Todo: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "to-do"),
		),
		Rate: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rate day"),
		),
		Review: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "review"),
		),
		User: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "switch user"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add category"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete category"),
		),
		Reset: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "reset day"),
		),
		Font: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "cycle font"),
		),
		Theme: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "toggle theme"),
		),
		Jump: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "go to date"),
		),
		PrevMonth: key.NewBinding(
			key.WithKeys("<", "pgup"),
			key.WithHelp("<", "prev month"),
		),
		NextMonth: key.NewBinding(
			key.WithKeys(">", "pgdown"),
			key.WithHelp(">", "next month"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
	}
}
