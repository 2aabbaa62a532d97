package categories

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/timebox/internal/cli"
	"github.com/julianstephens/timebox/internal/models"
)

type CategoryAddCmd struct {
	Label string `arg:"" help:"Category name."`
	Color string `help:"Colour as #rrggbb." default:"#4a90e2"`
}

func (c *CategoryAddCmd) Run(ctx *cli.Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	id, err := ctx.Planner.AddCategory(c.Label, c.Color)
	if err != nil {
		return err
	}
	fmt.Printf("Added category %s (%s)\n", id, c.Label)
	return nil
}

type CategoryDeleteCmd struct {
	ID string `arg:"" help:"Category id to delete."`
}

func (c *CategoryDeleteCmd) Run(ctx *cli.Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	if err := ctx.Planner.DeleteCategory(models.CategoryID(c.ID)); err != nil {
		return err
	}
	fmt.Printf("Deleted category %s\n", c.ID)
	return nil
}

type CategoryListCmd struct{}

func (c *CategoryListCmd) Run(ctx *cli.Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}

	cats := ctx.Planner.Document().Categories
	for _, id := range ctx.Planner.Categories() {
		cat := cats[id]
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(cat.Color)).Render("■")
		builtin := ""
		if models.IsBuiltinCategory(id) {
			builtin = " (built-in)"
		}
		fmt.Printf("  %s %-14s %-20s %s%s\n", swatch, id, cat.Label, cat.Color, builtin)
	}
	return nil
}
