package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/timebox/internal/backup"
	"github.com/julianstephens/timebox/internal/cli"
	"github.com/julianstephens/timebox/internal/models"
	"github.com/julianstephens/timebox/internal/storage"
	"github.com/julianstephens/timebox/internal/utils"
	"github.com/julianstephens/timebox/internal/validation"
)

type DoctorCmd struct {
	Fix bool `help:"Remove invalid entries found by the data check."`
}

type check struct {
	name     string
	run      func() error
	warnOnly bool
	needsDB  bool
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	reachable := false
	checks := []check{
		{name: "Storage reachable", run: func() error {
			err := checkStorageReachable(ctx)
			reachable = err == nil
			return err
		}},
		{name: "Schema version", run: func() error { return checkSchemaVersion(ctx) }, needsDB: true},
		{name: "Migrations complete", run: func() error { return checkMigrationsComplete(ctx) }, needsDB: true},
		{name: "Backups present", run: func() error { return checkBackupsPresent(ctx) }, warnOnly: true},
		{name: "Data validation", run: func() error { return cmd.checkValidation(ctx) }, needsDB: true},
		{name: "Clock/timezone", run: func() error { return checkClockTimezone(ctx.Timezone) }},
	}

	hasError := false
	for _, c := range checks {
		if c.needsDB && !reachable {
			fmt.Printf("⊘ %s: SKIPPED (storage not reachable)\n", c.name)
			continue
		}
		err := c.run()
		switch {
		case err == nil:
			fmt.Printf("✓ %s: OK\n", c.name)
		case c.warnOnly:
			fmt.Printf("⚠ %s: WARNING\n", c.name)
			fmt.Printf("   %v\n", err)
		default:
			fmt.Printf("❌ %s: FAIL\n", c.name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func checkStorageReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}

	if sqliteStore, ok := ctx.Store.(*storage.SQLiteStore); ok {
		db := sqliteStore.GetDB()
		if db == nil {
			return fmt.Errorf("database connection is nil")
		}
		var result int
		if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	sqliteStore, ok := ctx.Store.(*storage.SQLiteStore)
	if !ok {
		return nil
	}
	runner, err := sqliteStore.MigrationRunner()
	if err != nil {
		return err
	}
	return runner.ValidateVersion()
}

func checkMigrationsComplete(ctx *cli.Context) error {
	sqliteStore, ok := ctx.Store.(*storage.SQLiteStore)
	if !ok {
		return nil
	}
	runner, err := sqliteStore.MigrationRunner()
	if err != nil {
		return err
	}
	st, err := runner.Status()
	if err != nil {
		return fmt.Errorf("failed to read migration status: %w", err)
	}
	if st.Current < st.Latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", st.Current, st.Latest)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'timebox backup create'")
	}
	return nil
}

// checkValidation inspects the stored bytes as written, before the planner
// would normalize them on load.
func (cmd *DoctorCmd) checkValidation(ctx *cli.Context) error {
	data, err := ctx.Store.ReadSlot()
	if errors.Is(err, storage.ErrSlotEmpty) {
		return nil
	}
	if err != nil {
		return err
	}

	doc, err := storage.DecodeDocument(data)
	if err != nil {
		return fmt.Errorf("stored data is unreadable and will be replaced by a fresh document on next load: %w", err)
	}

	result := validation.New().ValidateDocument(doc)
	for _, c := range result.Conflicts {
		if c.Informational {
			fmt.Printf("   ~ %s\n", c.Description)
		}
	}
	if !result.HasErrors() {
		return nil
	}

	if !cmd.Fix {
		return fmt.Errorf("%s(run 'timebox doctor --fix' to remove invalid entries)", result.FormatReport())
	}

	for _, action := range validation.AutoFix(doc, result.Conflicts) {
		fmt.Printf("   fixed: %s\n", action.Action)
	}
	fixed, err := storage.EncodeDocument(models.Normalize(doc))
	if err != nil {
		return err
	}
	if err := ctx.Store.WriteSlot(fixed); err != nil {
		return fmt.Errorf("failed to save fixed data: %w", err)
	}
	ctx.Planner = nil
	return nil
}

func checkClockTimezone(timezone string) error {
	if !utils.ValidateTimezone(timezone) {
		return fmt.Errorf("unknown timezone %q", timezone)
	}
	now, err := utils.NowInTimezone(timezone)
	if err != nil {
		return err
	}
	if now.Year() < 2000 {
		return fmt.Errorf("system clock looks wrong: %s", now.Format(time.RFC3339))
	}
	return nil
}
