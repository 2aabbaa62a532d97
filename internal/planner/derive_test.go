package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/timebox/internal/models"
)

func TestTodoForDisplayCarriesGoal(t *testing.T) {
	s, mem := newTestStore(t)
	require.NoError(t, s.SetDailyReview("u", "2024-03-04", "fine", "Write report"))

	got, err := s.TodoForDisplay("u", "2024-03-05")
	require.NoError(t, err)
	assert.Equal(t, "Write report", got)
	assert.Equal(t, "Write report", reopen(t, mem).GetDailyTodo("u", "2024-03-05"), "carried goal is persisted")

	// editing the goal afterwards does not follow into the to-do
	require.NoError(t, s.SetDailyReview("u", "2024-03-04", "fine", "Something else"))
	got, err = s.TodoForDisplay("u", "2024-03-05")
	require.NoError(t, err)
	assert.Equal(t, "Write report", got)
}

func TestTodoForDisplayNoCarryLoop(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.SetDailyReview("u", "2024-03-04", "", "Write report"))

	_, err := s.TodoForDisplay("u", "2024-03-05")
	require.NoError(t, err)
	require.NoError(t, s.SetDailyTodo("u", "2024-03-05", ""))

	got, err := s.TodoForDisplay("u", "2024-03-05")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Empty(t, s.GetDailyTodo("u", "2024-03-05"))
}

func TestTodoForDisplayKeepsExistingTodo(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.SetDailyReview("u", "2024-03-04", "", "Write report"))
	require.NoError(t, s.SetDailyTodo("u", "2024-03-05", "Groceries"))

	got, err := s.TodoForDisplay("u", "2024-03-05")
	require.NoError(t, err)
	assert.Equal(t, "Groceries", got)
}

func TestTodoForDisplayCrossesBoundaries(t *testing.T) {
	tests := []struct {
		yesterday, today models.DateKey
	}{
		{"2023-12-31", "2024-01-01"},
		{"2024-02-29", "2024-03-01"},
		{"2023-02-28", "2023-03-01"},
		{"2024-04-30", "2024-05-01"},
	}
	for _, tt := range tests {
		t.Run(string(tt.today), func(t *testing.T) {
			s, _ := newTestStore(t)
			require.NoError(t, s.SetDailyReview("u", tt.yesterday, "", "goal"))

			got, err := s.TodoForDisplay("u", tt.today)
			require.NoError(t, err)
			assert.Equal(t, "goal", got)
		})
	}
}

func TestTodoForDisplayWithoutGoal(t *testing.T) {
	s, mem := newTestStore(t)

	got, err := s.TodoForDisplay("u", "2024-03-05")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Zero(t, mem.Writes)

	// a goal written later still carries
	require.NoError(t, s.SetDailyReview("u", "2024-03-04", "", "late goal"))
	got, err = s.TodoForDisplay("u", "2024-03-05")
	require.NoError(t, err)
	assert.Equal(t, "late goal", got)
}

func TestStars(t *testing.T) {
	tests := []struct {
		score  float64
		rated  bool
		filled int
		out    string
	}{
		{7.5, true, 4, "★★★★☆"},
		{0, true, 0, "☆☆☆☆☆"},
		{0, false, 0, "☆☆☆☆☆ (unrated)"},
		{10, true, 5, "★★★★★"},
		{5, true, 3, "★★★☆☆"},
		{0.9, true, 0, "☆☆☆☆☆"},
		{1, true, 1, "★☆☆☆☆"},
	}
	for _, tt := range tests {
		r := Stars(tt.score, tt.rated)
		assert.Equal(t, tt.filled, r.Filled, "score %v", tt.score)
		assert.Equal(t, tt.rated, r.Rated)
		assert.Equal(t, tt.out, r.String())
	}
}

func TestDailyStars(t *testing.T) {
	s, _ := newTestStore(t)
	assert.False(t, s.DailyStars("guest", "2024-03-05").Rated)

	require.NoError(t, s.SetDailyRating("guest", "2024-03-05", ptr(7.5)))
	assert.Equal(t, StarRating{Filled: 4, Rated: true}, s.DailyStars("guest", "2024-03-05"))
}

func TestResolveCategory(t *testing.T) {
	s, mem := newTestStore(t)

	id, cat := s.ResolveCategory("study")
	assert.Equal(t, models.CategoryID("study"), id)
	assert.Equal(t, "Study", cat.Label)

	writes := mem.Writes
	id, cat = s.ResolveCategory("deleted_one")
	assert.Equal(t, models.CategoryID("default"), id)
	assert.Equal(t, "#4a90e2", cat.Color)
	assert.Equal(t, writes, mem.Writes)
	assert.NotContains(t, s.Document().Categories, models.CategoryID("deleted_one"))
}

func TestBlocks(t *testing.T) {
	plan := models.Plan{
		"8-3":   {Text: "Focus", Category: "study"},
		"8-4":   {Text: "Focus", Category: "study"},
		"8-5":   {Text: "Focus", Category: "study"},
		"9-0":   {Text: "Focus", Category: "work"},
		"9-2":   {Text: "Focus", Category: "work"},
		"23-5":  {Text: "Sleep", Category: "rest"},
		"bogus": {Text: "x", Category: "etc"},
	}

	blocks := Blocks(plan)
	require.Len(t, blocks, 4)

	assert.Equal(t, "08:30-09:00", blocks[0].Span())
	assert.Equal(t, models.CategoryID("study"), blocks[0].Entry.Category)
	assert.Equal(t, "09:00-09:10", blocks[1].Span())
	assert.Equal(t, "09:20-09:30", blocks[2].Span())
	assert.Equal(t, "23:50-24:00", blocks[3].Span())
	assert.Empty(t, Blocks(models.Plan{}))
}
