package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/timebox/internal/constants"
	"github.com/julianstephens/timebox/internal/planner"
	"github.com/julianstephens/timebox/internal/tui/components/grid"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string

	switch m.state {
	case constants.StateGrid:
		content = m.viewDay()
	case constants.StateCalendar:
		content = m.viewCalendar()
	case constants.StateCategories:
		content = m.viewCategories()
	case constants.StateEditSlot, constants.StateEditRange, constants.StateEditTodo,
		constants.StateEditRating, constants.StateEditReview, constants.StateEditUser,
		constants.StateAddCategory:
		content = m.viewForm()
	case constants.StateConfirmReset:
		content = m.viewConfirm(fmt.Sprintf("Reset %s for %s?", m.date, m.user),
			"All slots and the to-do for this day will be removed.")
	case constants.StateConfirmDeleteCategory:
		id, _ := m.selectedCategory()
		content = m.viewConfirm(fmt.Sprintf("Delete category %q?", id),
			"Slots using it will be drawn with the default category.")
	}

	var status string
	if m.status != "" {
		status = warningStyle.Render(m.status)
	}

	return docStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		m.viewHeader(),
		content,
		status,
		m.help.View(m),
	))
}

func (m Model) viewTabs() string {
	titles := []struct {
		title string
		state constants.SessionState
	}{
		{"Day", constants.StateGrid},
		{"Calendar", constants.StateCalendar},
		{"Categories", constants.StateCategories},
	}
	active := m.state
	if m.isOverlay() {
		active = m.previousState
	}

	var tabs []string
	for _, t := range titles {
		if t.state == active {
			tabs = append(tabs, activeTabStyle.Render(t.title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(t.title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) isOverlay() bool {
	switch m.state {
	case constants.StateGrid, constants.StateCalendar, constants.StateCategories:
		return false
	}
	return true
}

func (m Model) viewHeader() string {
	ui := m.planner.UI()
	title := headingStyle(ui.Font, ui.Theme).Render(fmt.Sprintf("%s · %s", m.user, m.date))
	if m.date == m.today {
		title += mutedStyle(ui.Theme).Render("  (today)")
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		mutedStyle(ui.Theme).Render("“"+m.quote()+"”"),
	)
}

func (m Model) viewDay() string {
	ui := m.planner.UI()
	mark := ""
	if m.grid.Marking() {
		from, to := m.grid.Selection()
		mark = warningStyle.Render(fmt.Sprintf("marking %s-%s, enter to fill", from.Label(), grid.EndLabel(to)))
	}
	left := lipgloss.JoinVertical(lipgloss.Left, m.grid.View(), mark)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", panelStyle(ui.Theme).Width(34).Render(m.viewSidePanel()))
}

func (m Model) viewSidePanel() string {
	ui := m.planner.UI()
	heading := headingStyle(ui.Font, ui.Theme)
	muted := mutedStyle(ui.Theme)

	var b strings.Builder

	b.WriteString(heading.Render("Slot " + m.grid.Cursor().Label()))
	b.WriteString("\n")
	if entry, ok := m.grid.Entry(); ok {
		b.WriteString(grid.Truncate(entry.Text, 30))
		b.WriteString("\n")
		b.WriteString(muted.Render(m.categoryLabel(entry.Category)))
	} else {
		b.WriteString(muted.Render("empty"))
	}
	b.WriteString("\n\n")

	b.WriteString(heading.Render("To-do"))
	b.WriteString("\n")
	if strings.TrimSpace(m.todo) == "" {
		b.WriteString(muted.Render("nothing yet"))
	} else {
		b.WriteString(m.todo)
	}
	b.WriteString("\n\n")

	b.WriteString(heading.Render("Rating"))
	b.WriteString("\n")
	b.WriteString(starStyle.Render(m.planner.DailyStars(m.user, m.date).String()))
	if score, ok := m.planner.GetDailyRating(m.user, m.date); ok {
		b.WriteString(" " + planner.FormatScore(score))
	}
	b.WriteString("\n\n")

	review := m.planner.GetDailyReview(m.user, m.date)
	b.WriteString(heading.Render("Review"))
	b.WriteString("\n")
	if review.Reflection == "" && review.TomorrowGoal == "" {
		b.WriteString(muted.Render("not written"))
	} else {
		if review.Reflection != "" {
			b.WriteString(review.Reflection + "\n")
		}
		if review.TomorrowGoal != "" {
			b.WriteString(labelStyle.Render("Tomorrow: ") + review.TomorrowGoal)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) viewCalendar() string {
	ui := m.planner.UI()
	body := m.calendar.View()
	if m.jumping {
		body += "\n\n" + m.jump.View()
	}
	legend := mutedStyle(ui.Theme).Render("green: planned · enter: open day · /: go to date")
	return lipgloss.JoinVertical(lipgloss.Left, panelStyle(ui.Theme).Render(body), legend)
}

func (m Model) viewCategories() string {
	ui := m.planner.UI()
	var b strings.Builder
	for i, id := range m.categories {
		_, cat := m.planner.ResolveCategory(id)
		swatch := lipgloss.NewStyle().
			Background(lipgloss.Color(cat.Color)).
			Foreground(lipgloss.Color(grid.ContrastColor(cat.Color))).
			Render(" " + cat.Color + " ")
		cursor := "  "
		if i == m.categoryIdx {
			cursor = "> "
		}
		line := fmt.Sprintf("%s%s %-20s %s", cursor, swatch, cat.Label, id)
		if i == m.categoryIdx {
			line = headingStyle(ui.Font, ui.Theme).Render(line)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString(mutedStyle(ui.Theme).Render("a: add · d: delete · built-in categories cannot be deleted"))
	return panelStyle(ui.Theme).Render(b.String())
}

func (m Model) viewForm() string {
	var formErr string
	if m.formError != "" {
		formErr = dangerStyle.Render("Error: " + m.formError)
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.form.View(), formErr)
}

func (m Model) viewConfirm(question, detail string) string {
	return lipgloss.Place(m.width, max(m.height-6, 6),
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render(question),
			detail,
			"",
			"[y] Yes    [n] No",
		),
	)
}
