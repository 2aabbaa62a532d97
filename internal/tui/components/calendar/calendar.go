package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/timebox/internal/models"
	"github.com/julianstephens/timebox/internal/utils"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Width(28).
			Align(lipgloss.Center)

	weekdayStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	dayStyle = lipgloss.NewStyle().
			Width(4).
			Align(lipgloss.Right)

	plannedStyle = dayStyle.
			Foreground(lipgloss.Color("42")).
			Bold(true)

	todayStyle = dayStyle.
			Foreground(lipgloss.Color("205")).
			Underline(true)
)

// Model is a month view with planned days highlighted.
type Model struct {
	Selected models.DateKey
	Today    models.DateKey
	Planned  map[models.DateKey]bool
}

func New(selected, today models.DateKey) Model {
	return Model{
		Selected: selected,
		Today:    today,
		Planned:  map[models.DateKey]bool{},
	}
}

// SetPlanned replaces the set of days drawn as planned.
func (m *Model) SetPlanned(dates []models.DateKey) {
	m.Planned = make(map[models.DateKey]bool, len(dates))
	for _, d := range dates {
		m.Planned[d] = true
	}
}

// Move shifts the selection by a number of days.
func (m *Model) Move(days int) error {
	d, err := utils.AddDays(m.Selected, days)
	if err != nil {
		return err
	}
	m.Selected = d
	return nil
}

// ShiftMonth moves the selection by whole months, clamping the day to the
// length of the target month.
func (m *Model) ShiftMonth(delta int) error {
	t, err := m.Selected.Time()
	if err != nil {
		return err
	}
	year, month, err := utils.MonthOf(m.Selected, delta)
	if err != nil {
		return err
	}
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	m.Selected = utils.FormatDate(time.Date(year, month, min(t.Day(), last), 0, 0, 0, 0, time.UTC))
	return nil
}

func (m Model) View() string {
	t, err := m.Selected.Time()
	if err != nil {
		return "No date selected."
	}
	year, month := t.Year(), t.Month()

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s %d", month, year)))
	b.WriteString("\n")
	for _, wd := range []string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"} {
		b.WriteString(weekdayStyle.Render(fmt.Sprintf("%4s", wd)))
	}
	b.WriteString("\n")

	for _, week := range utils.MonthGrid(year, month) {
		if week == [7]int{} {
			continue
		}
		for _, day := range week {
			if day == 0 {
				b.WriteString(dayStyle.Render(""))
				continue
			}
			d := utils.FormatDate(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
			b.WriteString(m.styleFor(d).Render(fmt.Sprintf("%d", day)))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) styleFor(d models.DateKey) lipgloss.Style {
	style := dayStyle
	switch {
	case m.Planned[d]:
		style = plannedStyle
	case d == m.Today:
		style = todayStyle
	}
	if d == m.Selected {
		style = style.Reverse(true)
	}
	return style
}
