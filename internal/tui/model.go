package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/timebox/internal/constants"
	"github.com/julianstephens/timebox/internal/logger"
	"github.com/julianstephens/timebox/internal/models"
	"github.com/julianstephens/timebox/internal/planner"
	"github.com/julianstephens/timebox/internal/tui/components/calendar"
	"github.com/julianstephens/timebox/internal/tui/components/grid"
	"github.com/julianstephens/timebox/internal/utils"
)

type SlotFormModel struct {
	Text     string
	Category string

	// preset is the category shown when the form opened
	preset string
}

type TodoFormModel struct {
	Text string
}

type RatingFormModel struct {
	Score string
}

type ReviewFormModel struct {
	Reflection string
	Goal       string
}

type UserFormModel struct {
	Name string
}

type CategoryFormModel struct {
	Label string
	Color string
}

// changeTracker is shared by every copy of the Model. The store listener
// only flags it; the Model reloads on its next Update.
type changeTracker struct {
	pending bool
	last    planner.Change
}

type Model struct {
	planner       *planner.Store
	state         constants.SessionState
	previousState constants.SessionState
	keys          KeyMap
	help          help.Model
	grid          grid.Model
	calendar      calendar.Model
	jump          textinput.Model
	jumping       bool
	form          *huh.Form
	slotForm      *SlotFormModel
	todoForm      *TodoFormModel
	ratingForm    *RatingFormModel
	reviewForm    *ReviewFormModel
	userForm      *UserFormModel
	categoryForm  *CategoryFormModel
	rangeFrom     models.SlotIndex
	rangeTo       models.SlotIndex
	formError     string
	status        string
	user          models.UserName
	date          models.DateKey
	today         models.DateKey
	todo          string
	categories    []models.CategoryID
	categoryIdx   int
	changes       *changeTracker
	unsubscribe   func()
	width         int
	height        int
	quitting      bool
}

// NewModel builds the interactive planner on an opened store.
func NewModel(p *planner.Store) Model {
	today, err := p.Today()
	if err != nil {
		logger.Warn("Could not resolve today in the configured timezone", "error", err)
		today = utils.FormatDate(time.Now())
	}

	jump := textinput.New()
	jump.Placeholder = constants.DateFormat
	jump.CharLimit = len(constants.DateFormat)
	jump.Prompt = "Go to: "

	tracker := &changeTracker{}
	m := Model{
		planner:  p,
		state:    constants.StateGrid,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		grid:     grid.New(80, 20),
		calendar: calendar.New(today, today),
		jump:     jump,
		date:     today,
		today:    today,
		changes:  tracker,
	}
	m.unsubscribe = p.Subscribe(func(c planner.Change) {
		tracker.pending = true
		tracker.last = c
	})

	// start on the current time of day
	if now, err := p.Now(); err == nil {
		m.grid.SetCursor(models.SlotIndex(now.Hour()*constants.SlotsPerHour + now.Minute()/constants.SlotMinutes))
	}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

// Close detaches the Model from the store.
func (m Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

// refresh reloads everything drawn from the store for the current user and date.
func (m *Model) refresh() {
	m.user = m.planner.CurrentUser()
	m.categories = m.planner.Categories()
	if m.categoryIdx >= len(m.categories) {
		m.categoryIdx = max(0, len(m.categories)-1)
	}

	todo, err := m.planner.TodoForDisplay(m.user, m.date)
	if err != nil {
		logger.Warn("Failed to carry over goal", "user", m.user, "date", m.date, "error", err)
		todo = m.planner.GetDailyTodo(m.user, m.date)
	}
	m.todo = todo

	m.grid.SetPlan(m.planner.GetPlan(m.user, m.date), m.planner.ResolveCategory)
	m.calendar.Today = m.today
	m.calendar.SetPlanned(m.planner.DatesWithPlans(m.user))
	m.changes.pending = false
}

// sync refreshes when the store signalled a change since the last render.
func (m *Model) sync() {
	if m.changes.pending {
		logger.Debug("Store changed, refreshing", "kind", m.changes.last.Kind)
		m.refresh()
	}
}

// setDate switches the day shown in the grid and the calendar.
func (m *Model) setDate(d models.DateKey) {
	m.date = d
	m.calendar.Selected = d
	m.grid.CancelMark()
	m.refresh()
}

func (m *Model) moveDate(days int) {
	d, err := utils.AddDays(m.date, days)
	if err != nil {
		m.status = err.Error()
		return
	}
	m.setDate(d)
}

// quote picks the motivation line for the shown date so it stays put while
// the day is on screen.
func (m Model) quote() string {
	t, err := m.date.Time()
	if err != nil {
		return constants.MotivationQuotes[0]
	}
	return constants.MotivationQuotes[t.YearDay()%len(constants.MotivationQuotes)]
}

func (m *Model) resize() {
	// tabs, header, status and help take roughly eight lines
	gridHeight := max(6, m.height-8)
	sideWidth := 36
	m.grid.SetSize(max(40, m.width-sideWidth-6), gridHeight)
}

func (m Model) categoryLabel(id models.CategoryID) string {
	_, cat := m.planner.ResolveCategory(id)
	return fmt.Sprintf("%s (%s)", cat.Label, id)
}

func (m Model) ShortHelp() []key.Binding {
	return m.keys.ShortHelp()
}

func (m Model) FullHelp() [][]key.Binding {
	return m.keys.FullHelp()
}
