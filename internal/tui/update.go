package tui

import (
	"slices"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/timebox/internal/constants"
	"github.com/julianstephens/timebox/internal/models"
	"github.com/julianstephens/timebox/internal/tui/components/grid"
	"github.com/julianstephens/timebox/internal/utils"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resize()
		return m, nil
	}

	switch m.state {
	case constants.StateEditSlot:
		return m.updateForm(msg, (*Model).submitSlot)
	case constants.StateEditRange:
		return m.updateForm(msg, (*Model).submitRange)
	case constants.StateEditTodo:
		return m.updateForm(msg, (*Model).submitTodo)
	case constants.StateEditRating:
		return m.updateForm(msg, (*Model).submitRating)
	case constants.StateEditReview:
		return m.updateForm(msg, (*Model).submitReview)
	case constants.StateEditUser:
		return m.updateForm(msg, (*Model).submitUser)
	case constants.StateAddCategory:
		return m.updateForm(msg, (*Model).submitCategory)
	case constants.StateConfirmReset, constants.StateConfirmDeleteCategory:
		return m.updateConfirm(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.jumping {
		return m.updateJump(keyMsg)
	}

	switch {
	case keyMsg.String() == "ctrl+c", key.Matches(keyMsg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(keyMsg, m.keys.Tab):
		m.nextView()
		m.sync()
		return m, nil
	}

	m.status = ""
	var cmd tea.Cmd
	switch m.state {
	case constants.StateGrid:
		cmd = m.handleGridKeys(keyMsg)
	case constants.StateCalendar:
		cmd = m.handleCalendarKeys(keyMsg)
	case constants.StateCategories:
		cmd = m.handleCategoryKeys(keyMsg)
	}
	m.sync()
	return m, cmd
}

func (m *Model) nextView() {
	switch m.state {
	case constants.StateGrid:
		m.state = constants.StateCalendar
	case constants.StateCalendar:
		m.state = constants.StateCategories
	default:
		m.state = constants.StateGrid
	}
}

// openForm switches to a form state and remembers where to return.
func (m *Model) openForm(state constants.SessionState, form *huh.Form) tea.Cmd {
	m.previousState = m.state
	m.state = state
	m.formError = ""
	m.form = form
	return m.form.Init()
}

// updateForm drives the active huh form and applies it on completion.
// A failed submit keeps the form open with the error shown.
func (m Model) updateForm(msg tea.Msg, submit func(*Model) error) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && key.Matches(keyMsg, m.keys.Back) {
		m.state = m.previousState
		m.formError = ""
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		if err := submit(&m); err != nil {
			m.formError = err.Error()
			m.form.State = huh.StateNormal
			return m, cmd
		}
		m.state = m.previousState
		m.formError = ""
		m.sync()
		return m, nil
	case huh.StateAborted:
		m.state = m.previousState
		return m, nil
	}
	return m, cmd
}

// submitSlot leaves the stored category alone when the select was not
// changed, so a slot pointing at a deleted category keeps its id.
func (m *Model) submitSlot() error {
	var cat *models.CategoryID
	if m.slotForm.preset == "" || m.slotForm.Category != m.slotForm.preset {
		id := models.CategoryID(m.slotForm.Category)
		cat = &id
	}
	return m.planner.SetSlot(m.user, m.date, m.grid.CursorKey(), m.slotForm.Text, cat)
}

func (m *Model) submitRange() error {
	err := m.planner.ApplyRange(m.user, m.date, m.rangeFrom, m.rangeTo, m.slotForm.Text, models.CategoryID(m.slotForm.Category))
	if err != nil {
		return err
	}
	m.grid.CancelMark()
	return nil
}

func (m *Model) submitTodo() error {
	return m.planner.SetDailyTodo(m.user, m.date, m.todoForm.Text)
}

func (m *Model) submitRating() error {
	score, err := ParseScore(m.ratingForm.Score)
	if err != nil {
		return err
	}
	return m.planner.SetDailyRating(m.user, m.date, score)
}

func (m *Model) submitReview() error {
	return m.planner.SetDailyReview(m.user, m.date, m.reviewForm.Reflection, m.reviewForm.Goal)
}

func (m *Model) submitUser() error {
	u, err := m.planner.SetCurrentUser(m.userForm.Name)
	if err != nil {
		return err
	}
	m.status = "Switched to " + string(u)
	return nil
}

func (m *Model) submitCategory() error {
	id, err := m.planner.AddCategory(m.categoryForm.Label, m.categoryForm.Color)
	if err != nil {
		return err
	}
	m.status = "Added category " + string(id)
	return nil
}

func (m *Model) handleGridKeys(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.grid.Move(-1, 0)
	case key.Matches(msg, m.keys.Down):
		m.grid.Move(1, 0)
	case key.Matches(msg, m.keys.Left):
		m.grid.Move(0, -1)
	case key.Matches(msg, m.keys.Right):
		m.grid.Move(0, 1)
	case key.Matches(msg, m.keys.Mark):
		m.grid.ToggleMark()
	case key.Matches(msg, m.keys.Back):
		m.grid.CancelMark()
	case key.Matches(msg, m.keys.Enter):
		if m.grid.Marking() {
			return m.openRangeForm()
		}
		return m.openSlotForm()
	case key.Matches(msg, m.keys.Clear):
		if err := m.planner.SetSlot(m.user, m.date, m.grid.CursorKey(), "", nil); err != nil {
			m.status = err.Error()
		}
	case key.Matches(msg, m.keys.PrevDay):
		m.moveDate(-1)
	case key.Matches(msg, m.keys.NextDay):
		m.moveDate(1)
	case key.Matches(msg, m.keys.Today):
		m.goToday()
	case key.Matches(msg, m.keys.Todo):
		m.todoForm = &TodoFormModel{Text: m.todo}
		return m.openForm(constants.StateEditTodo, NewTodoForm(m.todoForm))
	case key.Matches(msg, m.keys.Rate):
		m.ratingForm = &RatingFormModel{}
		if score, ok := m.planner.GetDailyRating(m.user, m.date); ok {
			m.ratingForm.Score = strconv.FormatFloat(score, 'g', -1, 64)
		}
		return m.openForm(constants.StateEditRating, NewRatingForm(m.ratingForm))
	case key.Matches(msg, m.keys.Review):
		r := m.planner.GetDailyReview(m.user, m.date)
		m.reviewForm = &ReviewFormModel{Reflection: r.Reflection, Goal: r.TomorrowGoal}
		return m.openForm(constants.StateEditReview, NewReviewForm(m.reviewForm))
	case key.Matches(msg, m.keys.User):
		m.userForm = &UserFormModel{Name: string(m.user)}
		return m.openForm(constants.StateEditUser, NewUserForm(m.userForm, m.planner.Users()))
	case key.Matches(msg, m.keys.Reset):
		m.previousState = m.state
		m.state = constants.StateConfirmReset
	case key.Matches(msg, m.keys.Font):
		m.cycleFont()
	case key.Matches(msg, m.keys.Theme):
		m.toggleTheme()
	}
	return nil
}

func (m *Model) openSlotForm() tea.Cmd {
	m.slotForm = &SlotFormModel{Category: constants.DefaultCategoryID}
	if entry, ok := m.grid.Entry(); ok {
		m.slotForm.Text = entry.Text
		id, _ := m.planner.ResolveCategory(entry.Category)
		m.slotForm.Category = string(id)
		m.slotForm.preset = string(id)
	}
	title := "Task at " + m.grid.Cursor().Label()
	return m.openForm(constants.StateEditSlot, m.NewSlotForm(m.slotForm, title))
}

func (m *Model) openRangeForm() tea.Cmd {
	m.rangeFrom, m.rangeTo = m.grid.Selection()
	m.slotForm = &SlotFormModel{Category: constants.DefaultCategoryID}
	title := "Task for " + m.rangeFrom.Label() + "-" + grid.EndLabel(m.rangeTo)
	return m.openForm(constants.StateEditRange, m.NewRangeForm(m.slotForm, title))
}

func (m *Model) goToday() {
	today, err := m.planner.Today()
	if err != nil {
		m.status = err.Error()
		return
	}
	m.today = today
	m.setDate(today)
}

func (m *Model) cycleFont() {
	fonts := constants.Fonts
	i := slices.Index(fonts, m.planner.UI().Font)
	if err := m.planner.SetFont(fonts[(i+1)%len(fonts)]); err != nil {
		m.status = err.Error()
	}
}

func (m *Model) toggleTheme() {
	next := constants.ThemeDark
	if m.planner.UI().Theme == constants.ThemeDark {
		next = constants.ThemeLight
	}
	if err := m.planner.SetTheme(next); err != nil {
		m.status = err.Error()
	}
}

func (m *Model) handleCalendarKeys(msg tea.KeyMsg) tea.Cmd {
	var err error
	switch {
	case key.Matches(msg, m.keys.Left):
		err = m.calendar.Move(-1)
	case key.Matches(msg, m.keys.Right):
		err = m.calendar.Move(1)
	case key.Matches(msg, m.keys.Up):
		err = m.calendar.Move(-7)
	case key.Matches(msg, m.keys.Down):
		err = m.calendar.Move(7)
	case key.Matches(msg, m.keys.PrevMonth):
		err = m.calendar.ShiftMonth(-1)
	case key.Matches(msg, m.keys.NextMonth):
		err = m.calendar.ShiftMonth(1)
	case key.Matches(msg, m.keys.Today):
		m.goToday()
	case key.Matches(msg, m.keys.Enter):
		m.setDate(m.calendar.Selected)
		m.state = constants.StateGrid
	case key.Matches(msg, m.keys.Back):
		m.calendar.Selected = m.date
		m.state = constants.StateGrid
	case key.Matches(msg, m.keys.Jump):
		m.jumping = true
		m.jump.SetValue("")
		return m.jump.Focus()
	}
	if err != nil {
		m.status = err.Error()
	}
	return nil
}

func (m Model) updateJump(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.jumping = false
		m.jump.Blur()
		return m, nil
	case tea.KeyEnter:
		d, err := utils.ResolveDate(m.jump.Value(), m.today)
		if err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.jumping = false
		m.jump.Blur()
		m.status = ""
		m.setDate(d)
		return m, nil
	}
	var cmd tea.Cmd
	m.jump, cmd = m.jump.Update(msg)
	return m, cmd
}

func (m *Model) handleCategoryKeys(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.categoryIdx = max(0, m.categoryIdx-1)
	case key.Matches(msg, m.keys.Down):
		m.categoryIdx = min(len(m.categories)-1, m.categoryIdx+1)
	case key.Matches(msg, m.keys.Add):
		m.categoryForm = &CategoryFormModel{}
		return m.openForm(constants.StateAddCategory, NewCategoryForm(m.categoryForm))
	case key.Matches(msg, m.keys.Delete):
		id, ok := m.selectedCategory()
		if !ok {
			return nil
		}
		if models.IsBuiltinCategory(id) {
			m.status = string(id) + " is built in and cannot be deleted"
			return nil
		}
		m.previousState = m.state
		m.state = constants.StateConfirmDeleteCategory
	case key.Matches(msg, m.keys.Back):
		m.state = constants.StateGrid
	}
	return nil
}

func (m Model) selectedCategory() (models.CategoryID, bool) {
	if m.categoryIdx < 0 || m.categoryIdx >= len(m.categories) {
		return "", false
	}
	return m.categories[m.categoryIdx], true
}

func (m Model) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case "y", "Y":
		var err error
		switch m.state {
		case constants.StateConfirmReset:
			err = m.planner.ResetDay(m.user, m.date)
		case constants.StateConfirmDeleteCategory:
			if id, ok := m.selectedCategory(); ok {
				err = m.planner.DeleteCategory(id)
			}
		}
		if err != nil {
			m.status = err.Error()
		}
		m.state = m.previousState
		m.sync()
	case "n", "N", "esc":
		m.state = m.previousState
	}
	return m, nil
}
