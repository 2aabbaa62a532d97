package system

import (
	"fmt"
	"os"

	"github.com/julianstephens/timebox/internal/cli"
)

type InitCmd struct {
	Force bool `help:"Delete existing planner data before initialization."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	path := ctx.Store.GetConfigPath()

	if c.Force {
		if _, err := os.Stat(path); err == nil {
			// close first so SQLite releases the file
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing storage: %w", err)
			}
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("failed to delete existing storage: %w", err)
			}
			ctx.Planner = nil
			fmt.Printf("Deleted existing planner data at: %s\n", path)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing storage: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	if err := ctx.Open(); err != nil {
		return err
	}
	// writes the seeded document, or rewrites an existing one unchanged
	if err := ctx.Planner.Save(); err != nil {
		return err
	}

	fmt.Printf("Initialized timebox storage at: %s\n", path)
	return nil
}
