package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/timebox/internal/cli"
	"github.com/julianstephens/timebox/internal/cli/backups"
	"github.com/julianstephens/timebox/internal/cli/categories"
	"github.com/julianstephens/timebox/internal/cli/plans"
	"github.com/julianstephens/timebox/internal/cli/settings"
	"github.com/julianstephens/timebox/internal/cli/system"
	"github.com/julianstephens/timebox/internal/constants"
	apperrors "github.com/julianstephens/timebox/internal/errors"
	"github.com/julianstephens/timebox/internal/logger"
	"github.com/julianstephens/timebox/internal/storage"
)

var CLI struct {
	Version  kong.VersionFlag
	Config   string `help:"Data file path. A .db, .sqlite or .sqlite3 extension selects SQLite, anything else JSON." env:"TIMEBOX_CONFIG" default:"${default_config}"`
	Debug    bool   `help:"Log debug output to stderr as well as the log file." env:"TIMEBOX_DEBUG"`
	Timezone string `help:"IANA timezone used to decide which day is today." env:"TIMEBOX_TZ" default:"Local"`

	Init     system.InitCmd    `cmd:"" help:"Initialize timebox storage."`
	Migrate  system.MigrateCmd `cmd:"" help:"Run database migrations."`
	Doctor   system.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	Diagnose system.DebugCmd   `cmd:"" name:"debug" help:"Debug commands for troubleshooting."`
	Tui      system.TuiCmd     `cmd:"" help:"Launch the interactive planner." default:"1"`
	User     settings.UserCmd  `cmd:"" help:"Show, list or switch the current user."`
	UI       settings.UICmd    `cmd:"" name:"ui" help:"Show or change font and theme preferences."`
	Day      plans.DayCmd      `cmd:"" help:"Show the plan for a day."`
	Slot     plans.SlotCmd     `cmd:"" help:"Write or clear one 10-minute slot."`
	Range    plans.RangeCmd    `cmd:"" help:"Fill a range of slots with one task."`
	Clear    plans.ClearCmd    `cmd:"" help:"Clear every slot of a day."`
	Reset    plans.ResetCmd    `cmd:"" help:"Clear a day's slots and to-do."`
	Todo     plans.TodoCmd     `cmd:"" help:"Show or set the daily to-do."`
	Rate     plans.RateCmd     `cmd:"" help:"Rate a day from 0 to 10."`
	Review   plans.ReviewCmd   `cmd:"" help:"Write the daily reflection and tomorrow's goal."`
	Category struct {
		Add    categories.CategoryAddCmd    `cmd:"" help:"Add a category."`
		Delete categories.CategoryDeleteCmd `cmd:"" help:"Delete a user category."`
		List   categories.CategoryListCmd   `cmd:"" help:"List categories." default:"1"`
	} `cmd:"" help:"Manage slot categories."`
	Backup struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage data backups."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Daily time-boxing planner in 10-minute slots"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":        constants.Version,
			"default_config": constants.DefaultConfigPath,
		},
	)

	path, err := storage.ExpandPath(CLI.Config)
	if err != nil {
		fmt.Fprintln(os.Stderr, apperrors.Formatf("failed to resolve config path: %v", err))
		os.Exit(1)
	}

	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: filepath.Dir(path)}); err != nil {
		fmt.Fprintln(os.Stderr, apperrors.Formatf("failed to initialize logger: %v", err))
	}
	logger.Debug("Starting", "version", constants.Version, "command", ctx.Command(), "config", path)

	store := storage.New(path)
	appCtx := &cli.Context{
		Store:    store,
		Timezone: CLI.Timezone,
	}

	err = ctx.Run(appCtx)
	if cerr := store.Close(); cerr != nil {
		logger.Warn("Failed to close storage", "error", cerr)
	}
	apperrors.Fatal(err)
	_ = logger.Close()
}
