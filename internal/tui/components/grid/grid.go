package grid

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/timebox/internal/constants"
	"github.com/julianstephens/timebox/internal/models"
)

var (
	hourStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(6)

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238"))

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Bold(true)
)

// Resolver maps a stored category id to the category used for drawing.
type Resolver func(models.CategoryID) (models.CategoryID, models.Category)

// Model draws one day as 24 rows of six 10-minute cells.
type Model struct {
	viewport viewport.Model
	Plan     models.Plan
	resolve  Resolver
	cursor   models.SlotIndex
	anchor   models.SlotIndex
	marking  bool
	width    int
	height   int
}

func New(width, height int) Model {
	m := Model{
		viewport: viewport.New(width, height),
		Plan:     models.Plan{},
	}
	m.SetSize(width, height)
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return headerStyle.Render(m.header()) + "\n" + m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	// one line is taken by the column header
	m.viewport.Height = max(1, height-1)
	m.Render()
}

// SetPlan replaces the drawn plan. A nil plan draws an empty day.
func (m *Model) SetPlan(plan models.Plan, resolve Resolver) {
	if plan == nil {
		plan = models.Plan{}
	}
	m.Plan = plan
	m.resolve = resolve
	m.Render()
}

// Cursor returns the slot under the cursor.
func (m Model) Cursor() models.SlotIndex {
	return m.cursor
}

// CursorKey returns the key of the slot under the cursor.
func (m Model) CursorKey() models.SlotKey {
	key, _ := models.SlotKeyFromIndex(m.cursor)
	return key
}

// SetCursor moves the cursor to i, clamped to the day.
func (m *Model) SetCursor(i models.SlotIndex) {
	m.cursor = max(0, min(models.SlotIndex(constants.SlotsPerDay-1), i))
	m.Render()
}

// Move shifts the cursor by whole hours (rows) and slots (columns). Moving
// past either end of a row wraps into the neighbouring hour.
func (m *Model) Move(rows, cols int) {
	m.SetCursor(m.cursor + models.SlotIndex(rows*constants.SlotsPerHour+cols))
}

// ToggleMark starts a range at the cursor, or drops the one in progress.
func (m *Model) ToggleMark() {
	m.marking = !m.marking
	m.anchor = m.cursor
	m.Render()
}

// CancelMark drops any range in progress.
func (m *Model) CancelMark() {
	m.marking = false
	m.Render()
}

// Marking reports whether a range is being selected.
func (m Model) Marking() bool {
	return m.marking
}

// Selection returns the marked range in ascending order. Without a mark it
// is the cursor slot alone.
func (m Model) Selection() (models.SlotIndex, models.SlotIndex) {
	if !m.marking {
		return m.cursor, m.cursor
	}
	from, to := m.anchor, m.cursor
	if to < from {
		from, to = to, from
	}
	return from, to
}

// Entry returns the entry under the cursor, if any.
func (m Model) Entry() (models.SlotEntry, bool) {
	e, ok := m.Plan[m.CursorKey()]
	return e, ok
}

func (m Model) cellWidth() int {
	w := (m.width - hourStyle.GetWidth()) / constants.SlotsPerHour
	return max(4, w-1)
}

func (m Model) header() string {
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", hourStyle.GetWidth()))
	w := m.cellWidth()
	for s := 0; s < constants.SlotsPerHour; s++ {
		label := fmt.Sprintf(":%02d", s*constants.SlotMinutes)
		b.WriteString(lipgloss.NewStyle().Width(w).Render(label))
		b.WriteString(" ")
	}
	return b.String()
}

// Render rebuilds the viewport content and keeps the cursor row visible.
func (m *Model) Render() {
	from, to := m.Selection()
	w := m.cellWidth()

	var b strings.Builder
	for h := 0; h < constants.HoursPerDay; h++ {
		b.WriteString(hourStyle.Render(fmt.Sprintf("%02d:00", h)))
		for s := 0; s < constants.SlotsPerHour; s++ {
			i := models.SlotIndex(h*constants.SlotsPerHour + s)
			b.WriteString(m.renderCell(i, w, m.marking && i >= from && i <= to))
			b.WriteString(" ")
		}
		if h < constants.HoursPerDay-1 {
			b.WriteString("\n")
		}
	}
	m.viewport.SetContent(b.String())

	row := int(m.cursor) / constants.SlotsPerHour
	if row < m.viewport.YOffset {
		m.viewport.SetYOffset(row)
	} else if m.viewport.Height > 0 && row >= m.viewport.YOffset+m.viewport.Height {
		m.viewport.SetYOffset(row - m.viewport.Height + 1)
	}
}

func (m Model) renderCell(i models.SlotIndex, width int, selected bool) string {
	key, _ := models.SlotKeyFromIndex(i)
	entry, ok := m.Plan[key]

	var style lipgloss.Style
	text := "·"
	if ok {
		color := constants.DefaultCategoryColor
		if m.resolve != nil {
			_, cat := m.resolve(entry.Category)
			color = cat.Color
		}
		style = lipgloss.NewStyle().
			Background(lipgloss.Color(color)).
			Foreground(lipgloss.Color(ContrastColor(color)))
		text = entry.Text
	} else {
		style = emptyStyle
	}
	if selected {
		style = style.Underline(true).Bold(true)
	}
	if i == m.cursor {
		style = style.Reverse(true)
	}
	return style.Width(width).Render(Truncate(text, width))
}

// EndLabel renders the exclusive end time of a range ending at slot to.
func EndLabel(to models.SlotIndex) string {
	if end := to + 1; end.Valid() {
		return end.Label()
	}
	return "24:00"
}

// Truncate shortens s to at most width runes, marking the cut with an ellipsis.
func Truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 1 {
		return string(r[:width])
	}
	return string(r[:width-1]) + "…"
}

// ContrastColor picks black or white text for a #rrggbb background.
func ContrastColor(hex string) string {
	v, err := strconv.ParseUint(strings.TrimPrefix(hex, "#"), 16, 32)
	if err != nil || len(hex) != 7 {
		return "#ffffff"
	}
	r, g, b := float64(v>>16&0xff), float64(v>>8&0xff), float64(v&0xff)
	if 0.299*r+0.587*g+0.114*b > 150 {
		return "#000000"
	}
	return "#ffffff"
}
