package settings

import (
	"fmt"

	"github.com/julianstephens/timebox/internal/cli"
	"github.com/julianstephens/timebox/internal/constants"
)

type UserCmd struct {
	Name string `arg:"" optional:"" help:"User to switch to. Blank selects guest."`
	List bool   `help:"List known users."`
}

func (c *UserCmd) Run(ctx *cli.Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}

	if c.List {
		current := ctx.Planner.CurrentUser()
		for _, u := range ctx.Planner.Users() {
			marker := " "
			if u == current {
				marker = "*"
			}
			fmt.Printf("%s %s\n", marker, u)
		}
		return nil
	}

	if c.Name == "" {
		fmt.Printf("Current user: %s\n", ctx.Planner.CurrentUser())
		return nil
	}

	u, err := ctx.Planner.SetCurrentUser(c.Name)
	if err != nil {
		return err
	}
	fmt.Printf("Switched to %s\n", u)
	return nil
}

type UICmd struct {
	Font  string `help:"Font preference (default, serif, mono)."`
	Theme string `help:"Colour theme (light, dark)."`
}

func (c *UICmd) Run(ctx *cli.Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}

	updated := false
	if c.Font != "" {
		if err := ctx.Planner.SetFont(constants.Font(c.Font)); err != nil {
			return err
		}
		updated = true
	}
	if c.Theme != "" {
		if err := ctx.Planner.SetTheme(constants.Theme(c.Theme)); err != nil {
			return err
		}
		updated = true
	}

	ui := ctx.Planner.UI()
	if updated {
		fmt.Println("UI preferences updated.")
	}
	fmt.Printf("  Font:  %s\n", ui.Font)
	fmt.Printf("  Theme: %s\n", ui.Theme)
	return nil
}
