package planner

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/timebox/internal/constants"
	apperrors "github.com/julianstephens/timebox/internal/errors"
	"github.com/julianstephens/timebox/internal/models"
	"github.com/julianstephens/timebox/internal/storage"
)

var fixedNow = time.Date(2024, time.March, 5, 9, 30, 0, 0, time.UTC)

func newTestStore(t *testing.T) (*Store, *storage.MemoryStore) {
	t.Helper()
	mem := storage.NewMemoryStore()
	s, err := Open(mem, WithClock(func() time.Time { return fixedNow }), WithTimezone("UTC"))
	require.NoError(t, err)
	return s, mem
}

// reopen loads what the store persisted into a second store.
func reopen(t *testing.T, mem *storage.MemoryStore) *Store {
	t.Helper()
	s, err := Open(mem)
	require.NoError(t, err)
	return s
}

func ptr[T any](v T) *T { return &v }

func TestOpenSeedsFreshDocument(t *testing.T) {
	s, mem := newTestStore(t)

	doc := s.Document()
	assert.Equal(t, models.UserName("guest"), doc.CurrentUser)
	assert.Contains(t, doc.Users, models.UserName("guest"))
	assert.Len(t, doc.Categories, len(constants.BuiltinCategoryIDs))
	assert.Equal(t, models.DefaultUIPrefs(), doc.UI)
	assert.Zero(t, mem.Writes, "opening must not write")
}

func TestOpenRecoversFromMalformedData(t *testing.T) {
	for name, payload := range map[string]string{
		"garbage":    "{not json",
		"wrong type": `{"users": 5}`,
		"null":       "null",
	} {
		t.Run(name, func(t *testing.T) {
			mem := storage.NewMemoryStore()
			mem.Seed([]byte(payload))

			s, err := Open(mem)
			require.NoError(t, err)
			assert.Equal(t, models.UserName("guest"), s.CurrentUser())
			assert.NotEmpty(t, s.Document().Categories)
		})
	}
}

func TestOpenMigratesOlderShape(t *testing.T) {
	mem := storage.NewMemoryStore()
	mem.Seed([]byte(`{
		"currentUser": "kim",
		"users": {"kim": {"plans": {"2024-03-04": {"8-0": {"text": "Run", "category": "exercise"}}}}},
		"categories": null,
		"dailyTodos": {"kim": {"2024-03-04": "stretch"}}
	}`))

	s, err := Open(mem)
	require.NoError(t, err)

	assert.Equal(t, models.UserName("kim"), s.CurrentUser())
	assert.Equal(t, "Run", s.GetPlan("kim", "2024-03-04")["8-0"].Text)
	assert.Equal(t, "stretch", s.GetDailyTodo("kim", "2024-03-04"))
	assert.NotNil(t, s.Document().DailyRatings)
	assert.NotNil(t, s.Document().DailyReviews)
	assert.Equal(t, constants.FontDefault, s.UI().Font)
	assert.Contains(t, s.Document().Categories, models.CategoryID("study"))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s, mem := newTestStore(t)
	require.NoError(t, s.SetSlot("guest", "2024-03-05", "9-0", "Write", nil))
	require.NoError(t, s.SetDailyRating("guest", "2024-03-05", ptr(6.0)))
	require.NoError(t, s.SetDailyReview("guest", "2024-03-05", "ok", "ship"))

	first := s.Snapshot()
	again := reopen(t, mem)
	require.NoError(t, again.Save())
	assert.Equal(t, first, reopen(t, mem).Snapshot())
}

func TestMutationsNotifyListeners(t *testing.T) {
	s, _ := newTestStore(t)

	var got []Change
	unsubscribe := s.Subscribe(func(c Change) { got = append(got, c) })

	require.NoError(t, s.SetSlot("guest", "2024-03-05", "9-0", "Write", nil))
	require.NoError(t, s.SetDailyTodo("guest", "2024-03-05", "todo"))
	_, err := s.SetCurrentUser("ana")
	require.NoError(t, err)

	require.Len(t, got, 3)
	assert.Equal(t, Change{Kind: constants.ChangePlan, User: "guest", Date: "2024-03-05"}, got[0])
	assert.Equal(t, constants.ChangeTodo, got[1].Kind)
	assert.Equal(t, constants.ChangeUser, got[2].Kind)

	unsubscribe()
	require.NoError(t, s.SetDailyTodo("guest", "2024-03-05", ""))
	assert.Len(t, got, 3)
}

func TestRejectedInputDoesNotNotifyOrWrite(t *testing.T) {
	s, mem := newTestStore(t)
	notified := false
	s.Subscribe(func(Change) { notified = true })

	err := s.ApplyRange("guest", "2024-03-05", 0, 5, "   ", "work")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.False(t, notified)
	assert.Zero(t, mem.Writes)
}

func TestWriteFailureLeavesDocumentUnchanged(t *testing.T) {
	s, mem := newTestStore(t)
	mem.FailWrites = true

	err := s.SetSlot("guest", "2024-03-05", "9-0", "Write", nil)
	require.Error(t, err)
	assert.False(t, apperrors.IsValidation(err))
	assert.Empty(t, s.GetPlan("guest", "2024-03-05"))
}

func TestSetCurrentUser(t *testing.T) {
	s, mem := newTestStore(t)

	u, err := s.SetCurrentUser("  ana  ")
	require.NoError(t, err)
	assert.Equal(t, models.UserName("ana"), u)
	assert.Contains(t, s.Users(), models.UserName("ana"))

	u, err = s.SetCurrentUser("   ")
	require.NoError(t, err)
	assert.Equal(t, models.UserName("guest"), u)
	assert.Equal(t, models.UserName("guest"), reopen(t, mem).CurrentUser())
}

func TestEnsureIsIdempotent(t *testing.T) {
	s, mem := newTestStore(t)

	require.NoError(t, s.EnsureUser("ana"))
	writes := mem.Writes
	require.NoError(t, s.EnsureUser("ana"))
	assert.Equal(t, writes, mem.Writes)

	first, err := s.EnsurePlan("ana", "2024-03-05")
	require.NoError(t, err)
	before := s.Snapshot()
	second, err := s.EnsurePlan("ana", "2024-03-05")
	require.NoError(t, err)
	assert.Equal(t, before, s.Snapshot())
	assert.Equal(t, first, second)
}

func TestGetPlanDoesNotCreate(t *testing.T) {
	s, _ := newTestStore(t)

	assert.Empty(t, s.GetPlan("nobody", "2024-03-05"))
	assert.NotContains(t, s.Document().Users, models.UserName("nobody"))
}

func TestSetSlot(t *testing.T) {
	s, _ := newTestStore(t)
	const d = models.DateKey("2024-03-05")

	require.NoError(t, s.SetSlot("guest", d, "9-0", "  Deep work  ", ptr(models.CategoryID("work"))))
	assert.Equal(t, models.SlotEntry{Text: "Deep work", Category: "work"}, s.GetPlan("guest", d)["9-0"])

	// nil category keeps the existing one
	require.NoError(t, s.SetSlot("guest", d, "9-0", "Deeper work", nil))
	assert.Equal(t, models.CategoryID("work"), s.GetPlan("guest", d)["9-0"].Category)

	require.NoError(t, s.SetSlot("guest", d, "9-1", "Email", nil))
	assert.Equal(t, models.CategoryID("default"), s.GetPlan("guest", d)["9-1"].Category)

	require.NoError(t, s.SetSlot("guest", d, "9-0", "   ", nil))
	assert.NotContains(t, s.GetPlan("guest", d), models.SlotKey("9-0"))
}

func TestSetSlotRejectsBadKeys(t *testing.T) {
	s, _ := newTestStore(t)

	tests := []struct {
		name string
		date models.DateKey
		key  models.SlotKey
	}{
		{"hour out of range", "2024-03-05", "24-0"},
		{"slot out of range", "2024-03-05", "9-6"},
		{"padded key", "2024-03-05", "09-1"},
		{"no date", "", "9-0"},
		{"bad date", "2024-3-5", "9-0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.SetSlot("guest", tt.date, tt.key, "x", nil)
			assert.True(t, apperrors.IsValidation(err), "got %v", err)
		})
	}
}

func TestApplyRangeIsOrderIndependent(t *testing.T) {
	forward, _ := newTestStore(t)
	backward, _ := newTestStore(t)
	const d = models.DateKey("2024-03-05")

	// 08:30 is index 51, 09:00 is index 54
	require.NoError(t, forward.ApplyRange("guest", d, 51, 54, "Focus", "study"))
	require.NoError(t, backward.ApplyRange("guest", d, 54, 51, "Focus", "study"))

	plan := forward.GetPlan("guest", d)
	assert.Equal(t, plan, backward.GetPlan("guest", d))
	assert.Len(t, plan, 4)
	for _, k := range []models.SlotKey{"8-3", "8-4", "8-5", "9-0"} {
		assert.Equal(t, models.SlotEntry{Text: "Focus", Category: "study"}, plan[k])
	}
}

func TestApplyRangeOverwritesAndDefaults(t *testing.T) {
	s, _ := newTestStore(t)
	const d = models.DateKey("2024-03-05")

	require.NoError(t, s.SetSlot("guest", d, "0-0", "Sleep", ptr(models.CategoryID("rest"))))
	require.NoError(t, s.ApplyRange("guest", d, 0, 0, "Dream", ""))
	assert.Equal(t, models.SlotEntry{Text: "Dream", Category: "default"}, s.GetPlan("guest", d)["0-0"])

	err := s.ApplyRange("guest", d, 140, 144, "x", "work")
	assert.True(t, apperrors.IsValidation(err))
}

func TestClearPlanAndResetDay(t *testing.T) {
	s, _ := newTestStore(t)
	const d = models.DateKey("2024-03-05")

	require.NoError(t, s.ApplyRange("guest", d, 0, 10, "Sleep", "rest"))
	require.NoError(t, s.SetDailyTodo("guest", d, "laundry"))

	require.NoError(t, s.ClearPlan("guest", d))
	assert.Empty(t, s.GetPlan("guest", d))
	assert.Equal(t, "laundry", s.GetDailyTodo("guest", d))

	require.NoError(t, s.ApplyRange("guest", d, 0, 10, "Sleep", "rest"))
	require.NoError(t, s.ResetDay("guest", d))
	assert.Empty(t, s.GetPlan("guest", d))
	assert.Empty(t, s.GetDailyTodo("guest", d))
}

func TestDatesWithPlans(t *testing.T) {
	s, _ := newTestStore(t)

	require.NoError(t, s.SetSlot("guest", "2024-03-10", "1-0", "a", nil))
	require.NoError(t, s.SetSlot("guest", "2024-02-29", "1-0", "b", nil))
	_, err := s.EnsurePlan("guest", "2024-03-01")
	require.NoError(t, err)

	assert.Equal(t, []models.DateKey{"2024-02-29", "2024-03-10"}, s.DatesWithPlans("guest"))
	assert.Empty(t, s.DatesWithPlans("nobody"))
}

func TestDailyTodoDeleteOnEmpty(t *testing.T) {
	s, _ := newTestStore(t)
	const d = models.DateKey("2024-03-05")

	require.NoError(t, s.SetDailyTodo("guest", d, " call mom "))
	assert.Equal(t, " call mom ", s.GetDailyTodo("guest", d))

	require.NoError(t, s.SetDailyTodo("guest", d, ""))
	assert.NotContains(t, s.Document().DailyTodos["guest"], d)
}

func TestDailyRatingDomain(t *testing.T) {
	s, _ := newTestStore(t)
	const d = models.DateKey("2024-03-05")

	for _, bad := range []float64{11, -1, math.Inf(1)} {
		err := s.SetDailyRating("guest", d, &bad)
		assert.True(t, apperrors.IsValidation(err), "score %v", bad)
		_, rated := s.GetDailyRating("guest", d)
		assert.False(t, rated)
	}

	require.NoError(t, s.SetDailyRating("guest", d, ptr(7.5)))
	score, rated := s.GetDailyRating("guest", d)
	assert.True(t, rated)
	assert.Equal(t, 7.5, score)

	require.Error(t, s.SetDailyRating("guest", d, ptr(11.0)))
	score, _ = s.GetDailyRating("guest", d)
	assert.Equal(t, 7.5, score, "rejected score must not change the stored one")

	require.NoError(t, s.SetDailyRating("guest", d, ptr(0.0)))
	_, rated = s.GetDailyRating("guest", d)
	assert.True(t, rated, "zero is a rating")

	require.NoError(t, s.SetDailyRating("guest", d, ptr(math.NaN())))
	_, rated = s.GetDailyRating("guest", d)
	assert.False(t, rated)

	require.NoError(t, s.SetDailyRating("guest", d, ptr(3.0)))
	require.NoError(t, s.SetDailyRating("guest", d, nil))
	_, rated = s.GetDailyRating("guest", d)
	assert.False(t, rated)
}

func TestDailyReviewDeleteOnEmpty(t *testing.T) {
	s, _ := newTestStore(t)
	const d = models.DateKey("2024-03-05")

	require.NoError(t, s.SetDailyReview("guest", d, "  x ", ""))
	assert.Equal(t, models.Review{Reflection: "x", TomorrowGoal: ""}, s.GetDailyReview("guest", d))
	assert.Contains(t, s.Document().DailyReviews["guest"], d)

	require.NoError(t, s.SetDailyReview("guest", d, " ", "   "))
	assert.NotContains(t, s.Document().DailyReviews["guest"], d)
}

func TestAddCategory(t *testing.T) {
	s, _ := newTestStore(t)

	first, err := s.AddCategory("Focus Time", "#FF0000")
	require.NoError(t, err)
	second, err := s.AddCategory("Focus Time", "")
	require.NoError(t, err)

	assert.Equal(t, models.CategoryID("focus_time"), first)
	assert.Equal(t, models.CategoryID("focus_time_1"), second)
	assert.Equal(t, models.Category{Label: "Focus Time", Color: "#ff0000"}, s.Document().Categories[first])
	assert.Equal(t, constants.DefaultCategoryColor, s.Document().Categories[second].Color)

	third, err := s.AddCategory("Focus Time", "")
	require.NoError(t, err)
	assert.Equal(t, models.CategoryID("focus_time_2"), third)
}

func TestAddCategorySlugFallback(t *testing.T) {
	s, _ := newTestStore(t)

	id, err := s.AddCategory("공부!!", "")
	require.NoError(t, err)
	assert.Equal(t, models.CategoryID("cat_1709631000000"), id)
}

func TestAddCategoryRejectsInput(t *testing.T) {
	s, mem := newTestStore(t)

	_, err := s.AddCategory("   ", "#123456")
	assert.True(t, apperrors.IsValidation(err))
	_, err = s.AddCategory("Reading", "blue")
	assert.True(t, apperrors.IsValidation(err))
	assert.Zero(t, mem.Writes)
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Focus Time", "focus_time"},
		{"  Side   Project\t2 ", "side_project_2"},
		{"C++ & Go", "c__go"},
		{"!!!", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in), "Slugify(%q)", tt.in)
	}
}

func TestDeleteCategory(t *testing.T) {
	s, _ := newTestStore(t)
	const d = models.DateKey("2024-03-05")

	err := s.DeleteCategory("study")
	assert.True(t, apperrors.IsValidation(err))
	assert.Contains(t, s.Document().Categories, models.CategoryID("study"))

	err = s.DeleteCategory("missing")
	assert.True(t, apperrors.IsValidation(err))

	id, err := s.AddCategory("Reading", "#00ff00")
	require.NoError(t, err)
	require.NoError(t, s.SetSlot("guest", d, "7-0", "Novel", &id))
	require.NoError(t, s.DeleteCategory(id))

	assert.NotContains(t, s.Document().Categories, id)
	assert.Equal(t, id, s.GetPlan("guest", d)["7-0"].Category, "slots keep dangling ids")
}

func TestCategoriesOrder(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.AddCategory("Zen", "")
	require.NoError(t, err)
	_, err = s.AddCategory("Art", "")
	require.NoError(t, err)

	assert.Equal(t, []models.CategoryID{"default", "study", "work", "exercise", "rest", "etc", "art", "zen"}, s.Categories())
}

func TestUIPrefs(t *testing.T) {
	s, mem := newTestStore(t)

	require.NoError(t, s.SetFont(constants.FontMono))
	require.NoError(t, s.SetTheme(constants.ThemeDark))
	assert.True(t, apperrors.IsValidation(s.SetFont("comic")))
	assert.True(t, apperrors.IsValidation(s.SetTheme("neon")))

	ui := reopen(t, mem).UI()
	assert.Equal(t, constants.FontMono, ui.Font)
	assert.Equal(t, constants.ThemeDark, ui.Theme)
}

func TestToday(t *testing.T) {
	s, _ := newTestStore(t)
	today, err := s.Today()
	require.NoError(t, err)
	assert.Equal(t, models.DateKey("2024-03-05"), today)
}
