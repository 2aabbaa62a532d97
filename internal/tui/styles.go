package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/timebox/internal/constants"
)

var (
	activeTabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(lipgloss.Color("236")).
			Padding(0, 1).
			Bold(true)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 1)

	dangerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Bold(true)

	starStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220"))

	docStyle = lipgloss.NewStyle().Padding(1, 2)
)

// palette holds the colours that follow the theme preference.
type palette struct {
	Text   lipgloss.Color
	Muted  lipgloss.Color
	Border lipgloss.Color
	Accent lipgloss.Color
}

var palettes = map[constants.Theme]palette{
	constants.ThemeLight: {Text: "235", Muted: "244", Border: "250", Accent: "25"},
	constants.ThemeDark:  {Text: "252", Muted: "241", Border: "238", Accent: "212"},
}

func paletteFor(t constants.Theme) palette {
	if p, ok := palettes[t]; ok {
		return p
	}
	return palettes[constants.ThemeLight]
}

// headingStyle renders titles. Terminals cannot switch typefaces, so the
// font preference changes the emphasis instead.
func headingStyle(ui constants.Font, t constants.Theme) lipgloss.Style {
	style := lipgloss.NewStyle().Foreground(paletteFor(t).Accent)
	switch ui {
	case constants.FontSerif:
		return style.Italic(true)
	case constants.FontMono:
		return style.Faint(false)
	default:
		return style.Bold(true)
	}
}

func panelStyle(t constants.Theme) lipgloss.Style {
	p := paletteFor(t)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Border).
		Foreground(p.Text).
		Padding(0, 1)
}

func mutedStyle(t constants.Theme) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(paletteFor(t).Muted).Italic(true)
}
