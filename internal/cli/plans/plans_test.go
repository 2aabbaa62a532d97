package plans

import (
	"testing"
	"time"

	"github.com/julianstephens/timebox/internal/cli"
	apperrors "github.com/julianstephens/timebox/internal/errors"
	"github.com/julianstephens/timebox/internal/models"
	"github.com/julianstephens/timebox/internal/planner"
	"github.com/julianstephens/timebox/internal/storage"
)

const today = models.DateKey("2024-03-05")

func setupTestContext(t *testing.T) *cli.Context {
	t.Helper()
	ctx := &cli.Context{
		Store:    storage.NewMemoryStore(),
		Timezone: "UTC",
		Options: []planner.Option{
			planner.WithClock(func() time.Time { return time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC) }),
		},
	}
	if err := ctx.Open(); err != nil {
		t.Fatalf("failed to open planner: %v", err)
	}
	return ctx
}

func TestSlotCmd(t *testing.T) {
	ctx := setupTestContext(t)

	cmd := &SlotCmd{Time: "09:10", Text: []string{"Deep", "work"}, Category: "work", Date: "today"}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("slot failed: %v", err)
	}

	entry := ctx.Planner.GetPlan("guest", today)["9-1"]
	if entry.Text != "Deep work" || entry.Category != "work" {
		t.Errorf("unexpected entry %+v", entry)
	}

	clearCmd := &SlotCmd{Time: "09:10", Date: "today"}
	if err := clearCmd.Run(ctx); err != nil {
		t.Fatalf("slot clear failed: %v", err)
	}
	if _, ok := ctx.Planner.GetPlan("guest", today)["9-1"]; ok {
		t.Error("expected slot to be cleared")
	}
}

func TestSlotCmd_InvalidTime(t *testing.T) {
	ctx := setupTestContext(t)

	for _, tm := range []string{"9:05", "25:00", "noon"} {
		err := (&SlotCmd{Time: tm, Text: []string{"x"}, Date: "today"}).Run(ctx)
		if !apperrors.IsValidation(err) {
			t.Errorf("time %q: expected validation error, got %v", tm, err)
		}
	}
}

func TestSlotCmd_BlankUserFallsBackToCurrent(t *testing.T) {
	ctx := setupTestContext(t)

	cmd := &SlotCmd{Time: "09:00", Text: []string{"Walk"}, Date: "today", User: "   "}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("slot failed: %v", err)
	}
	if entry := ctx.Planner.GetPlan("guest", today)["9-0"]; entry.Text != "Walk" {
		t.Errorf("expected slot written for guest, got %+v", entry)
	}
	if users := ctx.Planner.Users(); len(users) != 1 || users[0] != "guest" {
		t.Errorf("expected only guest, got %v", users)
	}

	if got := ctx.User("  ada "); got != "ada" {
		t.Errorf("expected trimmed user ada, got %q", got)
	}
}

func TestRangeCmd(t *testing.T) {
	ctx := setupTestContext(t)

	cmd := &RangeCmd{From: "09:00", To: "08:30", Text: []string{"Focus"}, Category: "study", Date: "tomorrow"}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("range failed: %v", err)
	}

	plan := ctx.Planner.GetPlan("guest", "2024-03-06")
	if len(plan) != 4 {
		t.Errorf("expected 4 slots, got %d", len(plan))
	}

	empty := &RangeCmd{From: "10:00", To: "11:00", Text: []string{" "}, Category: "default", Date: "today"}
	if err := empty.Run(ctx); !apperrors.IsValidation(err) {
		t.Errorf("expected validation error for blank text, got %v", err)
	}
}

func TestClearAndResetCmd(t *testing.T) {
	ctx := setupTestContext(t)
	if err := ctx.Planner.ApplyRange("guest", today, 0, 5, "Sleep", "rest"); err != nil {
		t.Fatal(err)
	}
	if err := ctx.Planner.SetDailyTodo("guest", today, "stretch"); err != nil {
		t.Fatal(err)
	}

	if err := (&ClearCmd{Date: "today"}).Run(ctx); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if len(ctx.Planner.GetPlan("guest", today)) != 0 {
		t.Error("expected empty plan after clear")
	}
	if ctx.Planner.GetDailyTodo("guest", today) != "stretch" {
		t.Error("clear must keep the to-do")
	}

	if err := (&ResetCmd{Date: "2024-03-05"}).Run(ctx); err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	if ctx.Planner.GetDailyTodo("guest", today) != "" {
		t.Error("reset must remove the to-do")
	}
}

func TestTodoCmd(t *testing.T) {
	ctx := setupTestContext(t)
	if err := ctx.Planner.SetDailyReview("guest", "2024-03-04", "", "Write report"); err != nil {
		t.Fatal(err)
	}

	// showing today's to-do carries yesterday's goal
	if err := (&TodoCmd{Date: "today"}).Run(ctx); err != nil {
		t.Fatalf("todo show failed: %v", err)
	}
	if got := ctx.Planner.GetDailyTodo("guest", today); got != "Write report" {
		t.Errorf("expected carried goal, got %q", got)
	}

	if err := (&TodoCmd{Clear: true, Date: "today"}).Run(ctx); err != nil {
		t.Fatalf("todo clear failed: %v", err)
	}
	if err := (&TodoCmd{Date: "today"}).Run(ctx); err != nil {
		t.Fatalf("todo show failed: %v", err)
	}
	if got := ctx.Planner.GetDailyTodo("guest", today); got != "" {
		t.Errorf("cleared to-do was refilled: %q", got)
	}

	if err := (&TodoCmd{Text: []string{"Buy", "milk"}, Date: "today"}).Run(ctx); err != nil {
		t.Fatalf("todo set failed: %v", err)
	}
	if got := ctx.Planner.GetDailyTodo("guest", today); got != "Buy milk" {
		t.Errorf("unexpected to-do %q", got)
	}
}

func TestRateCmd(t *testing.T) {
	ctx := setupTestContext(t)

	if err := (&RateCmd{Score: "7.5", Date: "today"}).Run(ctx); err != nil {
		t.Fatalf("rate failed: %v", err)
	}
	if score, ok := ctx.Planner.GetDailyRating("guest", today); !ok || score != 7.5 {
		t.Errorf("expected 7.5, got %v (%v)", score, ok)
	}

	for _, bad := range []string{"11", "-1", "great", "nan", "NaN"} {
		if err := (&RateCmd{Score: bad, Date: "today"}).Run(ctx); !apperrors.IsValidation(err) {
			t.Errorf("score %q: expected validation error, got %v", bad, err)
		}
	}
	if score, _ := ctx.Planner.GetDailyRating("guest", today); score != 7.5 {
		t.Errorf("rejected score changed the rating to %v", score)
	}

	if err := (&RateCmd{Date: "today"}).Run(ctx); err != nil {
		t.Fatalf("rate show failed: %v", err)
	}
	if err := (&RateCmd{Clear: true, Date: "today"}).Run(ctx); err != nil {
		t.Fatalf("rate clear failed: %v", err)
	}
	if _, ok := ctx.Planner.GetDailyRating("guest", today); ok {
		t.Error("expected rating to be removed")
	}
}

func TestReviewCmd(t *testing.T) {
	ctx := setupTestContext(t)
	reflection := " good day "
	goal := "ship it"

	if err := (&ReviewCmd{Reflection: &reflection, Goal: &goal, Date: "today"}).Run(ctx); err != nil {
		t.Fatalf("review failed: %v", err)
	}

	// updating one field keeps the other
	newGoal := "rest"
	if err := (&ReviewCmd{Goal: &newGoal, Date: "today"}).Run(ctx); err != nil {
		t.Fatalf("review update failed: %v", err)
	}
	got := ctx.Planner.GetDailyReview("guest", today)
	if got.Reflection != "good day" || got.TomorrowGoal != "rest" {
		t.Errorf("unexpected review %+v", got)
	}

	blank := ""
	if err := (&ReviewCmd{Reflection: &blank, Goal: &blank, Date: "today"}).Run(ctx); err != nil {
		t.Fatalf("review clear failed: %v", err)
	}
	if _, ok := ctx.Planner.Document().DailyReviews["guest"][today]; ok {
		t.Error("expected review to be removed")
	}
}

func TestDayCmd(t *testing.T) {
	ctx := setupTestContext(t)
	id := models.CategoryID("gone")
	if err := ctx.Planner.SetSlot("guest", today, "9-0", "Orphan", &id); err != nil {
		t.Fatal(err)
	}
	score := 4.0
	if err := ctx.Planner.SetDailyRating("guest", today, &score); err != nil {
		t.Fatal(err)
	}

	if err := (&DayCmd{Date: "today"}).Run(ctx); err != nil {
		t.Errorf("day failed: %v", err)
	}
	if err := (&DayCmd{Date: "not-a-date"}).Run(ctx); err == nil {
		t.Error("expected error for invalid date")
	}
}
