package system

import (
	"fmt"

	"github.com/julianstephens/timebox/internal/cli"
	"github.com/julianstephens/timebox/internal/storage"
)

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	sqliteStore, ok := ctx.Store.(*storage.SQLiteStore)
	if !ok {
		fmt.Println("JSON storage has no schema; the document is upgraded when it is loaded.")
		return nil
	}

	if err := sqliteStore.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	runner, err := sqliteStore.MigrationRunner()
	if err != nil {
		return err
	}

	count, err := runner.ApplyMigrations(func(msg string) {
		fmt.Println(msg)
	})
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if count == 0 {
		fmt.Println("No migrations to apply. Database is up to date.")
	} else {
		fmt.Printf("\nSuccessfully applied %d migration(s).\n", count)
	}
	return nil
}
