package system

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/julianstephens/timebox/internal/cli"
	apperrors "github.com/julianstephens/timebox/internal/errors"
	"github.com/julianstephens/timebox/internal/storage"
)

type DebugCmd struct {
	DBPath       *DebugDBPathCmd       `cmd:"" name:"db-path" help:"Show data file path and backend."`
	DumpPlan     *DebugDumpPlanCmd     `cmd:"" help:"Dump one day's plan as JSON."`
	DumpDocument *DebugDumpDocumentCmd `cmd:"" help:"Print the stored document exactly as persisted."`
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	path := ctx.Store.GetConfigPath()
	backend := "json"
	if storage.IsSQLitePath(path) {
		backend = "sqlite"
	}

	// Output in machine-readable format
	output := map[string]string{
		"path":    path,
		"backend": backend,
	}

	jsonBytes, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}

	fmt.Println(string(jsonBytes))
	return nil
}

type DebugDumpPlanCmd struct {
	Date string `arg:"" optional:"" help:"Date of the plan to dump (YYYY-MM-DD, today, yesterday, tomorrow)." default:"today"`
	User string `help:"User whose plan to dump (defaults to the current user)."`
}

func (cmd *DebugDumpPlanCmd) Run(ctx *cli.Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}

	date, err := ctx.ResolveDate(cmd.Date)
	if err != nil {
		return apperrors.NewValidation("date", "%v", err)
	}

	plan := ctx.Planner.GetPlan(ctx.User(cmd.User), date)
	if len(plan) == 0 {
		return fmt.Errorf("no plan found for date: %s", date)
	}

	jsonBytes, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal plan: %w", err)
	}

	fmt.Println(string(jsonBytes))
	return nil
}

type DebugDumpDocumentCmd struct{}

func (cmd *DebugDumpDocumentCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}

	data, err := ctx.Store.ReadSlot()
	if errors.Is(err, storage.ErrSlotEmpty) {
		return fmt.Errorf("nothing stored yet at %s", ctx.Store.GetConfigPath())
	}
	if err != nil {
		return err
	}

	fmt.Println(string(data))
	return nil
}
