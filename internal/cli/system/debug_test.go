package system

import (
	"strings"
	"testing"

	apperrors "github.com/julianstephens/timebox/internal/errors"
)

func TestDebugDBPathCmd(t *testing.T) {
	ctx, _ := newContext(t, "timebox.db")

	// Capture stdout would be needed for full test, but we can at least
	// verify it doesn't error
	if err := (&DebugDBPathCmd{}).Run(ctx); err != nil {
		t.Errorf("debug db-path command failed: %v", err)
	}
}

func TestDebugDumpPlanCmd(t *testing.T) {
	ctx, _ := newContext(t, "timebox.json")
	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	err := (&DebugDumpPlanCmd{Date: "2024-03-05"}).Run(ctx)
	if err == nil || !strings.Contains(err.Error(), "no plan found") {
		t.Errorf("expected no plan error, got %v", err)
	}

	if err := ctx.Planner.SetSlot("guest", "2024-03-05", "9-0", "Read", nil); err != nil {
		t.Fatalf("SetSlot failed: %v", err)
	}
	if err := (&DebugDumpPlanCmd{Date: "2024-03-05"}).Run(ctx); err != nil {
		t.Errorf("dump-plan failed: %v", err)
	}

	err = (&DebugDumpPlanCmd{Date: "2024-3-5"}).Run(ctx)
	if !apperrors.IsValidation(err) {
		t.Errorf("expected validation error for bad date, got %v", err)
	}
}

func TestDebugDumpDocumentCmd(t *testing.T) {
	ctx, _ := newContext(t, "timebox.json")

	err := (&DebugDumpDocumentCmd{}).Run(ctx)
	if err == nil || !strings.Contains(err.Error(), "nothing stored") {
		t.Errorf("expected empty storage error, got %v", err)
	}

	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if err := (&DebugDumpDocumentCmd{}).Run(ctx); err != nil {
		t.Errorf("dump-document failed: %v", err)
	}
}
